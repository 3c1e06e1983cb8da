// Implements an abstract representation of
// paths, which can then be consumed
// by painting drivers or written as SVG.
package svgpath

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Adder interface for types that can accumulate path commands
type Adder interface {
	// Start starts a new curve at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line segment to the path
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Closes the path to the start point if closeLoop is true
	Stop(closeLoop bool)
}

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different path commands
type Operation interface {
	command() pathCommand
	// add itself on `q`, after applying the transform `m`
	addTo(q Adder, m Matrix2D)
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

type QuadTo [2]fixed.Point26_6

type CubicTo [3]fixed.Point26_6

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

func (op MoveTo) addTo(q Adder, m Matrix2D) {
	q.Stop(false) // implicit close if currently in path.
	q.Start(m.TFixed(fixed.Point26_6(op)))
}

func (op LineTo) addTo(q Adder, m Matrix2D) {
	q.Line(m.TFixed(fixed.Point26_6(op)))
}

func (op QuadTo) addTo(q Adder, m Matrix2D) {
	q.QuadBezier(m.TFixed(op[0]), m.TFixed(op[1]))
}

func (op CubicTo) addTo(q Adder, m Matrix2D) {
	q.CubeBezier(m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2]))
}

func (Close) addTo(q Adder, _ Matrix2D) { q.Stop(true) }

// Path describes a sequence of basic operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

func formatPoint(p fixed.Point26_6) string {
	return fmt.Sprintf("%.3f,%.3f", float64(p.X)/64, float64(p.Y)/64)
}

// ToSVGPath returns the content of the 'd' attribute of an SVG <path>
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = "M" + formatPoint(fixed.Point26_6(op))
		case LineTo:
			chunks[i] = "L" + formatPoint(fixed.Point26_6(op))
		case QuadTo:
			chunks[i] = "Q" + formatPoint(op[0]) + "," + formatPoint(op[1])
		case CubicTo:
			chunks[i] = "C" + formatPoint(op[0]) + "," + formatPoint(op[1]) + "," + formatPoint(op[2])
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// AddTo adds the Path p to q, after applying the transform `m`.
func (p Path) AddTo(q Adder, m Matrix2D) {
	for _, op := range p {
		op.addTo(q, m)
	}
	q.Stop(false)
}

// IsClosed returns true if every sub-path of `p` ends
// with a Close operation.
func (p Path) IsClosed() bool {
	open := false
	for _, op := range p {
		switch op.command() {
		case pathMoveTo:
			if open {
				return false
			}
			open = true
		case pathClose:
			open = false
		}
	}
	return !open
}
