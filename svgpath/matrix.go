package svgpath

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an affine transformation:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the transformation leaving points unchanged.
var Identity = Matrix2D{A: 1, D: 1}

// Mult returns m x b
func (m Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*b.A + m.C*b.B,
		B: m.B*b.A + m.D*b.B,
		C: m.A*b.C + m.C*b.D,
		D: m.B*b.C + m.D*b.D,
		E: m.A*b.E + m.C*b.F + m.E,
		F: m.B*b.E + m.D*b.F + m.F,
	}
}

// Translate applies a translation after `m`
func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Scale applies a scaling after `m`
func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{A: x, D: y})
}

// Rotate applies a rotation of `theta` radians after `m`
func (m Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	return m.Mult(Matrix2D{A: c, B: s, C: -s, D: c})
}

// Transform applies the matrix to a point.
func (m Matrix2D) Transform(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

// TransformVector applies the matrix to a vector (no translation).
func (m Matrix2D) TransformVector(x, y float64) (float64, float64) {
	return x*m.A + y*m.C, x*m.B + y*m.D
}

// TFixed applies the matrix to a fixed point.
func (m Matrix2D) TFixed(a fixed.Point26_6) fixed.Point26_6 {
	if m == Identity {
		return a
	}
	x, y := m.Transform(float64(a.X)/64, float64(a.Y)/64)
	return toFixedP(x, y)
}

// ScaleFactor returns the geometric mean of the scale factors of the two axis,
// used to transform widths and font sizes.
func (m Matrix2D) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// TransformAttr returns the value of an SVG transform attribute
// equivalent to `m`.
func (m Matrix2D) TransformAttr() string {
	if m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 {
		return fmt.Sprintf("translate(%.3f,%.3f)", m.E, m.F)
	}
	return fmt.Sprintf("matrix(%g,%g,%g,%g,%.3f,%.3f)", m.A, m.B, m.C, m.D, m.E, m.F)
}
