// Given the segments of a pie chart, builds a device independent
// drawing (a Scene) and implements how to draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.
package svgdraw

import (
	"image/color"

	"github.com/benoitkugler/censuspie/svgpath"
	"golang.org/x/image/math/fixed"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any chart knowledge.
// In particular, transformation matrix are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Start, Line, QuadBezier, CubeBezier and Stop
	// accumulate the current path
	svgpath.Adder

	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// SetColor set the color for the current path
	SetColor(c color.Color, opacity float64)

	// Draw fills or strokes the accumulated path using the current settings
	// depending on the filling mode
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, one can assume that the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)

	// DrawText writes `text` at the device position (x, y),
	// using a font of height `size` (in device units).
	// Text.X and Text.Y must be ignored.
	DrawText(text Text, x, y, size float64)
}

// JoinMode type to specify how segments join.
type JoinMode uint8

const (
	Round JoinMode = iota
	Bevel
	Miter
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	ButtCap CapMode = iota
	SquareCap
	RoundCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

type StrokeOptions struct {
	LineWidth  fixed.Int26_6 // width of the line, in device units
	MiterLimit fixed.Int26_6
	LineJoin   JoinMode
	LineCap    CapMode
}

// PathStyle holds the painting state of a shape
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool
	LineJoin                 JoinMode
	LineCap                  CapMode

	FillerColor, LinerColor color.Color // nil disables filling or stroking
}

// DefaultStyle fills black with the non zero winding rule,
// full opacity, no stroke, ButtCap line end and Bevel line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	LineJoin:          Bevel,
	LineCap:           ButtCap,
	FillerColor:       color.Black,
}

// Draw the scene into the driver `d`, after applying the transform `m`.
// Hidden texts are skipped.
func (sc *Scene) Draw(d Driver, m svgpath.Matrix2D) {
	for _, sh := range sc.Shapes {
		sh.drawTransformed(d, m)
	}
	scale := m.ScaleFactor()
	for _, text := range sc.Texts {
		if text.Hidden {
			continue
		}
		x, y := m.Transform(text.X, text.Y)
		d.DrawText(text, x, y, text.Size*scale)
	}
}

// drawTransformed draws the shape into the driver while applying transform t.
func (sh Shape) drawTransformed(d Driver, t svgpath.Matrix2D) {
	style := sh.Style
	filler, stroker := d.SetupDrawers(style.FillerColor != nil, style.LinerColor != nil)
	if filler != nil { // nil color disable filling
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)
		sh.Path.AddTo(filler, t)
		filler.SetColor(style.FillerColor, style.FillOpacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil color disable lining
		stroker.Clear()
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth:  fixed.Int26_6(style.LineWidth * t.ScaleFactor() * 64),
			MiterLimit: fixed.I(4),
			LineJoin:   style.LineJoin,
			LineCap:    style.LineCap,
		})
		sh.Path.AddTo(stroker, t)
		stroker.SetColor(style.LinerColor, style.LineOpacity)
		stroker.Draw()
	}
}
