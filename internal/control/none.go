package control

import "github.com/san-kum/openpid/internal/dynamo"

// Constant applies the same input every step; the zero value of its
// input is an open-loop coast.
type Constant struct {
	u dynamo.Control
}

func NewConstant(u dynamo.Control) *Constant {
	return &Constant{u: u.Clone()}
}

// NewNone returns a zero input of the given width.
func NewNone(dim int) *Constant {
	return &Constant{u: make(dynamo.Control, dim)}
}

func (c *Constant) Actuate(x dynamo.State, dt float64) (dynamo.Control, error) {
	return c.u.Clone(), nil
}
