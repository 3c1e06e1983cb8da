// Converts aggregated records into the ordered segments of a pie chart,
// with their angular extent.
//
// Angles are in radians, measured clockwise from 12 o'clock.
package pie

import (
	"math"

	"github.com/benoitkugler/censuspie/aggregate"
	"github.com/benoitkugler/censuspie/census"
)

// DefaultPadAngle is the angle separating adjacent segments.
const DefaultPadAngle = 0.02

const tau = 2 * math.Pi

// Layout defines the angular range of a pie.
type Layout struct {
	StartAngle, EndAngle float64
	PadAngle             float64
}

// DefaultLayout is a full circle starting at 12 o'clock.
var DefaultLayout = Layout{StartAngle: 0, EndAngle: tau, PadAngle: DefaultPadAngle}

// Segment is one slice of a pie.
type Segment struct {
	Code       census.YearsCode
	Label      string // empty for codes outside the label table
	Count      uint64
	Percentage float64

	Index      int // position in the pie
	StartAngle float64
	EndAngle   float64
	PadAngle   float64 // included in [StartAngle, EndAngle]
}

// MidAngle is the bisector of the segment.
func (s Segment) MidAngle() float64 {
	return s.StartAngle + (s.EndAngle-s.StartAngle)/2
}

// Span returns the angular extent of the segment, padding included.
func (s Segment) Span() float64 { return s.EndAngle - s.StartAngle }

// Prepare lays out the shares of `res` as consecutive segments,
// in the input order. Each span is proportional to the count, and each
// segment is followed by the pad angle of the layout.
// A zero total gives no segment.
func Prepare(res aggregate.Result, layout Layout) []Segment {
	n := len(res.Shares)
	if n == 0 || res.Total == 0 {
		return nil
	}

	da := math.Min(tau, math.Max(-tau, layout.EndAngle-layout.StartAngle))
	p := math.Min(math.Abs(da)/float64(n), layout.PadAngle)
	pa := p
	if da < 0 {
		pa = -p
	}
	k := (da - float64(n)*pa) / float64(res.Total)

	out := make([]Segment, n)
	a0 := layout.StartAngle
	for i, share := range res.Shares {
		a1 := a0 + float64(share.Count)*k + pa
		label, _ := share.Label()
		out[i] = Segment{
			Code:       share.YearsInBusiness,
			Label:      label,
			Count:      share.Count,
			Percentage: share.Percentage,
			Index:      i,
			StartAngle: a0,
			EndAngle:   a1,
			PadAngle:   p,
		}
		a0 = a1
	}
	return out
}
