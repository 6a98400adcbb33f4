package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/openpid/internal/dynamo"
)

// ControlEffort is the mean over steps of Σ|uᵢ|.
type ControlEffort struct {
	name    string
	sum     float64
	peak    float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	step := floats.Norm(u, 1)
	c.sum += step
	c.peak = math.Max(c.peak, step)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

// Peak is the largest single-step effort seen.
func (c *ControlEffort) Peak() float64 { return c.peak }

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.peak = 0
	c.samples = 0
}
