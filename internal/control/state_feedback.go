package control

import (
	"fmt"

	"github.com/san-kum/openpid/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// StateFeedback is the memoryless law u = −K·(x − r).
type StateFeedback struct {
	K dynamo.State

	// refIndex is the component a scalar reference is written to; always
	// within K.
	refIndex int
	ref      dynamo.State
	delta    dynamo.State
}

// NewStateFeedback takes one gain per state component. With four gains the
// scalar reference tracks the pendulum angle.
func NewStateFeedback(k ...float64) *StateFeedback {
	idx := 0
	if len(k) == 4 {
		idx = 2
	}
	gains := make(dynamo.State, len(k))
	copy(gains, k)
	return &StateFeedback{K: gains, refIndex: idx}
}

func (s *StateFeedback) ReferenceIndex() int { return s.refIndex }

// SetReferenceIndex moves the component a scalar reference is written to.
// The stored reference is unchanged until the next SetReference.
func (s *StateFeedback) SetReferenceIndex(i int) error {
	if i < 0 || i >= len(s.K) {
		return fmt.Errorf("%w: reference index %d of %d-state", dynamo.ErrDimensionMismatch, i, len(s.K))
	}
	s.refIndex = i
	return nil
}

// SetReference sets component ReferenceIndex() to r and every other
// component to zero.
func (s *StateFeedback) SetReference(r float64) {
	s.ref = s.ScalarReference(r)
}

// ScalarReference expands r into the full reference vector SetReference
// would store.
func (s *StateFeedback) ScalarReference(r float64) dynamo.State {
	ref := make(dynamo.State, len(s.K))
	if len(ref) > 0 {
		ref[s.refIndex] = r
	}
	return ref
}

func (s *StateFeedback) SetReferenceVector(r dynamo.State) error {
	if err := dynamo.CheckDim("reference", len(r), len(s.K)); err != nil {
		return err
	}
	s.ref = r.Clone()
	return nil
}

// Reference returns a copy of the current reference, nil before one is set.
func (s *StateFeedback) Reference() dynamo.State {
	if s.ref == nil {
		return nil
	}
	return s.ref.Clone()
}

func (s *StateFeedback) Compute(x dynamo.State) (float64, error) {
	if s.ref == nil {
		return 0, dynamo.ErrUninitializedReference
	}
	if err := dynamo.CheckDim("state", len(x), len(s.K)); err != nil {
		return 0, err
	}
	if len(s.delta) != len(x) {
		s.delta = make(dynamo.State, len(x))
	}
	floats.SubTo(s.delta, x, s.ref)
	return -floats.Dot(s.K, s.delta), nil
}

func (s *StateFeedback) Actuate(x dynamo.State, dt float64) (dynamo.Control, error) {
	u, err := s.Compute(x)
	if err != nil {
		return nil, err
	}
	return dynamo.Control{u}, nil
}

func (s *StateFeedback) String() string {
	return fmt.Sprintf("StateFeedback(K=%v)", []float64(s.K))
}
