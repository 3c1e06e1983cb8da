package svgdraw

import (
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/pie"
	"github.com/benoitkugler/censuspie/svgpath"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Classes of the elements of a scene, used as
// class attribute in SVG outputs.
const (
	ClassArc         = "arc"
	ClassTitle       = "title"
	ClassLabel       = "label"
	ClassLegendLabel = "legend-label"
	ClassLegendLine  = "legend-line"
)

// Anchor is the horizontal alignment of a text
// relative to its position.
type Anchor uint8

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

func (a Anchor) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

// Text is a line of text, vertically centered on (X, Y).
type Text struct {
	Class   string
	Index   int // segment index, or -1
	Content string
	X, Y    float64
	Anchor  Anchor
	Size    float64 // font height
	Color   color.Color
	Hidden  bool
}

// Sector is the ring of the arcs of a chart.
type Sector struct {
	CX, CY       float64
	Inner, Outer float64
	PadAngle     float64
}

// Path returns the outline of the arc spanning `a`.
func (s Sector) Path(a AnglePair) svgpath.Path {
	return svgpath.AnnularSector(s.CX, s.CY, s.Inner, s.Outer, a.Start, a.End, s.PadAngle)
}

// Shape binds a style to a path.
type Shape struct {
	Class string
	Index int // segment index, or -1
	Path  svgpath.Path
	Style PathStyle

	// Only set for arcs
	Sector *Sector
	Tween  *Tween // nil when transitions are disabled
}

// Scene is the device independent drawing of one chart.
// Coordinates are in pixels, with the origin at the top left corner.
type Scene struct {
	Category      category.Category
	Title         string
	Width, Height float64
	CX, CY        float64 // center of the pie

	Segments []pie.Segment
	Shapes   []Shape
	Texts    []Text
}

// Options controls the layout of the charts.
type Options struct {
	Radius          float64 // default to 180
	FontSize        float64 // default to 12
	ShowPercentages bool
	Palette         Palette      // default to DefaultPalette
	Language        language.Tag // used to format numbers, default to English
	Transitions     *Transitions // optional
}

// DefaultOptions returns the options used by the command line.
func DefaultOptions() Options {
	return Options{
		Radius:   180,
		FontSize: 12,
		Palette:  DefaultPalette(),
		Language: language.English,
	}
}

func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.Radius <= 0 {
		opts.Radius = def.Radius
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.Palette == nil {
		opts.Palette = def.Palette
	}
	if opts.Language == language.Und {
		opts.Language = def.Language
	}
	return opts
}

// Size returns the dimensions of the chart of `cat`.
// The overall chart is twice wider, to make room for its legend.
func (opts Options) Size(cat category.Category) (width, height float64) {
	opts = opts.withDefaults()
	height = 2 * opts.Radius
	width = height
	if cat == category.All {
		width *= 2
	}
	return width, height
}

// Build returns the drawing of the pie chart of `cat`.
// An empty `segments` results in a scene with only a title.
func Build(cat category.Category, segments []pie.Segment, opts Options) Scene {
	opts = opts.withDefaults()
	w, h := opts.Size(cat)
	printer := message.NewPrinter(opts.Language)
	sc := Scene{
		Category: cat,
		Title:    cat.Title(),
		Width:    w,
		Height:   h,
		CX:       w / 2,
		CY:       h / 2,
		Segments: segments,
	}
	radii := pie.NewRadii(opts.Radius)

	for _, seg := range segments {
		sector := Sector{CX: sc.CX, CY: sc.CY, Inner: radii.Slices.Inner, Outer: radii.Slices.Outer, PadAngle: seg.PadAngle}
		style := DefaultStyle
		style.FillerColor = opts.Palette.Color(seg.Code)
		shape := Shape{
			Class:  ClassArc,
			Index:  seg.Index,
			Path:   sector.Path(AnglePair{Start: seg.StartAngle, End: seg.EndAngle}),
			Style:  style,
			Sector: &sector,
		}
		if opts.Transitions != nil {
			tw := opts.Transitions.Begin(cat, seg)
			shape.Tween = &tw
		}
		sc.Shapes = append(sc.Shapes, shape)
	}

	sc.Texts = append(sc.Texts, Text{
		Class: ClassTitle, Index: -1, Content: sc.Title,
		X: sc.CX, Y: sc.CY, Anchor: AnchorMiddle,
		Size: opts.FontSize, Color: color.Black,
	})
	for _, seg := range segments {
		x, y := radii.Slices.Centroid(seg)
		sc.Texts = append(sc.Texts, Text{
			Class:   ClassLabel,
			Index:   seg.Index,
			Content: printer.Sprintf("%.0f%%", seg.Percentage*100),
			X:       sc.CX + x,
			Y:       sc.CY + y,
			Anchor:  AnchorMiddle,
			Size:    opts.FontSize,
			Color:   color.White,
			Hidden:  !opts.ShowPercentages,
		})
	}

	if cat == category.All {
		sc.addLegend(radii, opts)
	}
	return sc
}

// addLegend labels each segment on the side of its bisector,
// with a line from the arc to the label.
func (sc *Scene) addLegend(radii pie.Radii, opts Options) {
	for _, seg := range sc.Segments {
		side, anchor := 1., AnchorStart
		if !pie.RightSide(seg) {
			side, anchor = -1, AnchorEnd
		}
		lx, ly := radii.LegendLine.Centroid(seg)
		tx, ty := radii.LegendText.Centroid(seg)
		label := seg.Label
		if label == "" {
			label = string(seg.Code)
		}
		sc.Texts = append(sc.Texts, Text{
			Class: ClassLegendLabel, Index: seg.Index, Content: label,
			X: sc.CX + side*radii.Radius, Y: sc.CY + ty, Anchor: anchor,
			Size: opts.FontSize, Color: opts.Palette.Color(seg.Code),
		})

		style := DefaultStyle
		style.FillerColor = nil
		style.LinerColor = color.Black
		sc.Shapes = append(sc.Shapes, Shape{
			Class: ClassLegendLine, Index: seg.Index,
			Path: svgpath.Polyline(
				[2]float64{sc.CX + lx, sc.CY + ly},
				[2]float64{sc.CX + tx, sc.CY + ty},
				[2]float64{sc.CX + side*0.95*radii.Radius, sc.CY + ty},
			),
			Style: style,
		})
	}
}

// TextWidth estimates the width of `text`, assuming an average
// glyph width of 0.6 times the font size.
func TextWidth(text Text) float64 {
	return 0.6 * text.Size * float64(utf8.RuneCountInString(text.Content))
}

// Bounds returns the extent of the scene, including the estimated
// extent of its texts, hidden or not.
func (sc *Scene) Bounds() fixed.Rectangle26_6 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x0, y0, x1, y1 float64) {
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	}
	for _, sh := range sc.Shapes {
		if box, ok := sh.Path.Bounds(svgpath.Identity); ok {
			x0, y0 := svgpath.FixedTof(box.Min)
			x1, y1 := svgpath.FixedTof(box.Max)
			add(x0, y0, x1, y1)
		}
	}
	for _, text := range sc.Texts {
		w := TextWidth(text)
		x0 := text.X
		switch text.Anchor {
		case AnchorMiddle:
			x0 -= w / 2
		case AnchorEnd:
			x0 -= w
		}
		add(x0, text.Y-text.Size/2, x0+w, text.Y+text.Size/2)
	}
	if math.IsInf(minX, 1) { // empty scene
		return fixed.Rectangle26_6{Max: svgpath.FToFixed(sc.Width, sc.Height)}
	}
	return fixed.Rectangle26_6{Min: svgpath.FToFixed(minX, minY), Max: svgpath.FToFixed(maxX, maxY)}
}
