package svgdraw

import (
	"sync"
	"time"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/pie"
)

// TransitionDuration is the length of the arc animations.
const TransitionDuration = 2 * time.Second

// AnglePair is the angular extent of an arc.
type AnglePair struct {
	Start, End float64
}

// Tween interpolates linearly between two extents.
type Tween struct {
	From, To AnglePair
}

// At returns the extent at time `t`, clamped to [0, 1].
func (tw Tween) At(t float64) AnglePair {
	if t <= 0 {
		return tw.From
	} else if t >= 1 {
		return tw.To
	}
	return AnglePair{
		Start: tw.From.Start + (tw.To.Start-tw.From.Start)*t,
		End:   tw.From.End + (tw.To.End-tw.From.End)*t,
	}
}

// Keyframes samples `n` + 1 regularly spaced extents, from From to To.
func (tw Tween) Keyframes(n int) []AnglePair {
	if n < 1 {
		n = 1
	}
	out := make([]AnglePair, n+1)
	for i := range out {
		out[i] = tw.At(float64(i) / float64(n))
	}
	return out
}

type transitionKey struct {
	category category.Category
	index    int
}

// Transitions remembers the extent last drawn for each arc,
// so that redrawing a chart animates from the previous state.
// It is safe for concurrent use.
type Transitions struct {
	mu       sync.Mutex
	previous map[transitionKey]AnglePair
}

func NewTransitions() *Transitions {
	return &Transitions{previous: make(map[transitionKey]AnglePair)}
}

// Begin returns the animation of `seg` in the chart of `cat`, starting from
// the extent previously stored for it (or the empty extent at 0),
// and stores the target extent for the next call.
func (tr *Transitions) Begin(cat category.Category, seg pie.Segment) Tween {
	key := transitionKey{category: cat, index: seg.Index}
	target := AnglePair{Start: seg.StartAngle, End: seg.EndAngle}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	from := tr.previous[key]
	tr.previous[key] = target
	return Tween{From: from, To: target}
}

// Reset forgets every stored extent.
func (tr *Transitions) Reset() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.previous = make(map[transitionKey]AnglePair)
}
