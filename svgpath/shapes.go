package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// This file implements the transformation from
// high level shapes to their path equivalent

const (
	// maxDx is the maximum radians a cubic splice is allowed to span
	// when approximating a circle arc.
	maxDx float64 = math.Pi / 8

	epsilon = 1e-12
	tau     = 2 * math.Pi
)

// toFixedP converts two floats to a fixed point.
func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(math.Round(x * 64))
	p.Y = fixed.Int26_6(math.Round(y * 64))
	return
}

// asin clamps its argument to [-1, 1]
func asin(x float64) float64 {
	if x >= 1 {
		return math.Pi / 2
	} else if x <= -1 {
		return -math.Pi / 2
	}
	return math.Asin(x)
}

// circlePrime gives tangent vectors for the parameterized circle of radius r
func circlePrime(r, eta float64) (px, py float64) {
	return -r * math.Sin(eta), r * math.Cos(eta)
}

// circlePointAt gives points for the parameterized circle of radius r, center cx, cy
func circlePointAt(r, eta, cx, cy float64) (px, py float64) {
	return cx + r*math.Cos(eta), cy + r*math.Sin(eta)
}

// arcTo adds the arc of the circle of center (cx, cy) and radius r,
// from the parameter etaStart to etaEnd, which may be smaller than etaStart.
// The current point is expected to be the start of the arc.
func (p *Path) arcTo(cx, cy, r, etaStart, etaEnd float64) {
	deltaEta := etaEnd - etaStart
	// Round up to determine number of cubic splines to approximate the curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the circle using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly := circlePointAt(r, etaStart, cx, cy)
	ldx, ldy := circlePrime(r, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		px, py := circlePointAt(r, eta, cx, cy)
		dx, dy := circlePrime(r, eta)
		p.CubeBezier(toFixedP(lx+alpha*ldx, ly+alpha*ldy),
			toFixedP(px-alpha*dx, py-alpha*dy), toFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// AnnularSector returns the closed outline of the ring sector of
// center (cx, cy) between the radii r0 and r1, spanning the angles
// a0 to a1. Angles are in radians, measured clockwise from 12 o'clock.
//
// Half of `padAngle` is removed at each end of the sector, so that
// adjacent sectors are separated by a band of constant width. When the
// remaining span of an arc is empty, the arc is collapsed to its middle point.
// A sector spanning a full turn is drawn as a ring.
func AnnularSector(cx, cy, r0, r1, a0, a1, padAngle float64) Path {
	if r1 < r0 {
		r0, r1 = r1, r0
	}
	if r1 <= epsilon {
		return nil
	}

	// parametric angles, with 0 on the x axis
	a0, a1 = a0-math.Pi/2, a1-math.Pi/2
	da := math.Abs(a1 - a0)
	dir := 1.
	if a1 < a0 {
		dir = -1
	}

	var p Path
	if da > tau-epsilon {
		a1 = a0 + dir*tau
		p.Start(toFixedP(circlePointAt(r1, a0, cx, cy)))
		p.arcTo(cx, cy, r1, a0, a1)
		p.Stop(true)
		if r0 > epsilon {
			p.Start(toFixedP(circlePointAt(r0, a1, cx, cy)))
			p.arcTo(cx, cy, r0, a1, a0)
			p.Stop(true)
		}
		return p
	}

	a00, a10, da0 := a0, a1, da // inner
	a01, a11, da1 := a0, a1, da // outer
	ap := padAngle / 2
	if rp := math.Sqrt(r0*r0 + r1*r1); ap > epsilon {
		p0 := math.Pi / 2
		if r0 > epsilon {
			p0 = asin(rp / r0 * math.Sin(ap))
		}
		p1 := asin(rp / r1 * math.Sin(ap))
		if da0 -= 2 * p0; da0 > epsilon {
			a00, a10 = a00+dir*p0, a10-dir*p0
		} else {
			da0, a00, a10 = 0, (a0+a1)/2, (a0+a1)/2
		}
		if da1 -= 2 * p1; da1 > epsilon {
			a01, a11 = a01+dir*p1, a11-dir*p1
		} else {
			da1, a01, a11 = 0, (a0+a1)/2, (a0+a1)/2
		}
	}

	p.Start(toFixedP(circlePointAt(r1, a01, cx, cy)))
	if da1 > epsilon {
		p.arcTo(cx, cy, r1, a01, a11)
	}
	p.Line(toFixedP(circlePointAt(r0, a10, cx, cy)))
	if r0 > epsilon && da0 > epsilon {
		p.arcTo(cx, cy, r0, a10, a00)
	}
	p.Stop(true)
	return p
}

// Polyline returns the open path joining the given points.
func Polyline(points ...[2]float64) Path {
	if len(points) == 0 {
		return nil
	}
	p := make(Path, 0, len(points))
	p.Start(toFixedP(points[0][0], points[0][1]))
	for _, pt := range points[1:] {
		p.Line(toFixedP(pt[0], pt[1]))
	}
	return p
}
