package pie

import "math"

// Point returns the cartesian coordinates (y pointing down) of the point
// at `radius` and `angle`, relative to the center of the pie.
func Point(radius, angle float64) (x, y float64) {
	return radius * math.Sin(angle), -radius * math.Cos(angle)
}

// Arc is an annulus of the pie. Inner may be zero.
type Arc struct {
	Inner, Outer float64
}

// Centroid returns the middle of the segment in the annulus,
// relative to the center of the pie.
func (a Arc) Centroid(s Segment) (x, y float64) {
	return Point((a.Inner+a.Outer)/2, s.MidAngle())
}

// Radii groups the annuli used to draw one chart.
type Radii struct {
	Radius     float64
	Slices     Arc // the segments
	LegendLine Arc // start of the legend lines
	LegendText Arc // anchor of the legend texts
}

// NewRadii returns the annuli of a chart of the given radius.
func NewRadii(radius float64) Radii {
	return Radii{
		Radius:     radius,
		Slices:     Arc{Inner: radius * 0.4, Outer: radius * 0.8},
		LegendLine: Arc{Inner: radius * 0.8, Outer: radius * 0.8},
		LegendText: Arc{Inner: radius * 0.9, Outer: radius * 0.9},
	}
}

// RightSide is true when the bisector of the segment
// points to the right half of the pie.
func RightSide(s Segment) bool { return s.MidAngle() < math.Pi }
