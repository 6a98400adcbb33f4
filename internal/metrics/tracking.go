package metrics

import (
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
)

// TrackingError is the RMS deviation of one state component from a fixed
// reference.
type TrackingError struct {
	name      string
	index     int
	reference float64
	sumSq     float64
	last      float64
	samples   int
}

func NewTrackingError(index int, reference float64) *TrackingError {
	return &TrackingError{
		name:      "tracking_rms",
		index:     index,
		reference: reference,
	}
}

func (e *TrackingError) Name() string { return e.name }

func (e *TrackingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.index >= len(x) {
		return
	}
	e.last = x[e.index] - e.reference
	e.sumSq += e.last * e.last
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

// Last is the signed error at the most recent observation.
func (e *TrackingError) Last() float64 { return e.last }

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.last = 0
	e.samples = 0
}
