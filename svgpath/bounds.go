package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// compute the bounding box of a path, used to fit
// a drawing into a target rectangle

// FixedTof converts a fixed point to floats.
func FixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// FToFixed converts two floats to a fixed point.
func FToFixed(x, y float64) fixed.Point26_6 { return toFixedP(x, y) }

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) (x, y float64)
}

type line [2]fixed.Point26_6

func (l line) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l line) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := FixedTof(l[0])
	p1x, p1y := FixedTof(l[1])
	return (p1x-p0x)*t + p0x, (p1y-p0y)*t + p0y
}

type quadBezier [3]fixed.Point26_6

// x = (p0 + p2 - 2p1)t^2 + 2(p1 - p0)t + p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := FixedTof(cu[0])
	p1x, p1y := FixedTof(cu[1])
	p2x, p2y := FixedTof(cu[2])

	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := FixedTof(cu[0])
	p1x, p1y := FixedTof(cu[1])
	p2x, p2y := FixedTof(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]fixed.Point26_6

// x = (p3 - 3p2 + 3p1 - p0)t^3 + (3p2 - 6p1 + 3p0)t^2 + (3p1 - 3p0)t + p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// derivative as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := FixedTof(cu[0])
	p1x, p1y := FixedTof(cu[1])
	p2x, p2y := FixedTof(cu[2])
	p3x, p3y := FixedTof(cu[3])

	aX, bX, cX := cubicDerivative(p0x, p1x, p2x, p3x)
	aY, bY, cY := cubicDerivative(p0y, p1y, p2y, p3y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := FixedTof(cu[0])
	p1x, p1y := FixedTof(cu[1])
	p2x, p2y := FixedTof(cu[2])
	p3x, p3y := FixedTof(cu[3])
	return bezierSpline(p0x, p1x, p2x, p3x, t), bezierSpline(p0y, p1y, p2y, p3y, t)
}

func computeBoundingBox(curve bezier) fixed.Rectangle26_6 {
	resX, resY := curve.criticalPoints()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	// add begin and end point
	for _, t := range append(append(resX, 0, 1), resY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		x, y := curve.evaluateCurve(t)
		minX, minY = math.Min(x, minX), math.Min(y, minY)
		maxX, maxY = math.Max(x, maxX), math.Max(y, maxY)
	}
	return fixed.Rectangle26_6{Min: toFixedP(minX, minY), Max: toFixedP(maxX, maxY)}
}

// boundsAdder accumulates the extent of the curves it receives
type boundsAdder struct {
	first, a fixed.Point26_6 // start of the sub-path, current point
	started  bool
	box      fixed.Rectangle26_6
}

// union keeps degenerate rectangles (horizontal or vertical lines),
// which fixed.Rectangle26_6.Union treats as empty
func (b *boundsAdder) union(r fixed.Rectangle26_6) {
	if !b.started {
		b.box, b.started = r, true
		return
	}
	b.box.Min.X = min(b.box.Min.X, r.Min.X)
	b.box.Min.Y = min(b.box.Min.Y, r.Min.Y)
	b.box.Max.X = max(b.box.Max.X, r.Max.X)
	b.box.Max.Y = max(b.box.Max.Y, r.Max.Y)
}

func (b *boundsAdder) Start(a fixed.Point26_6) {
	b.first, b.a = a, a
	b.union(fixed.Rectangle26_6{Min: a, Max: a}) // degenerate case
}

func (b *boundsAdder) Line(c fixed.Point26_6) {
	b.union(computeBoundingBox(line{b.a, c}))
	b.a = c
}

func (b *boundsAdder) QuadBezier(c, d fixed.Point26_6) {
	b.union(computeBoundingBox(quadBezier{b.a, c, d}))
	b.a = d
}

func (b *boundsAdder) CubeBezier(c, d, e fixed.Point26_6) {
	b.union(computeBoundingBox(cubicBezier{b.a, c, d, e}))
	b.a = e
}

func (b *boundsAdder) Stop(bool) { b.a = b.first }

// Bounds returns the bounding box of the path, after applying
// the transform `m`. `ok` is false for an empty path.
func (p Path) Bounds(m Matrix2D) (box fixed.Rectangle26_6, ok bool) {
	var b boundsAdder
	p.AddTo(&b, m)
	return b.box, b.started
}
