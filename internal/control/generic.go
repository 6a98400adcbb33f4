package control

import (
	"fmt"

	"github.com/san-kum/openpid/internal/dynamo"
)

// ControlLaw maps a state and a reference to an input.
type ControlLaw func(x, ref dynamo.State) dynamo.Control

// GenericController evaluates an injected control law against a stored
// reference. It has no memory of its own.
type GenericController struct {
	law ControlLaw
	ref dynamo.State
}

func NewGenericController(law ControlLaw) *GenericController {
	return &GenericController{law: law}
}

func (g *GenericController) SetReference(r dynamo.State) {
	g.ref = r.Clone()
}

// Compute evaluates the law on copies of x and the reference.
func (g *GenericController) Compute(x dynamo.State) (dynamo.Control, error) {
	if g.law == nil {
		return nil, fmt.Errorf("%w: generic controller has no control law", dynamo.ErrParameterBounds)
	}
	if g.ref == nil {
		return nil, dynamo.ErrUninitializedReference
	}
	return g.law(x.Clone(), g.ref.Clone()), nil
}

func (g *GenericController) Actuate(x dynamo.State, dt float64) (dynamo.Control, error) {
	return g.Compute(x)
}
