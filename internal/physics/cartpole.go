package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
)

// DenominatorFloor is the smallest magnitude the cart-pendulum mass-matrix
// determinant may take. Smaller values are replaced by ±DenominatorFloor so
// the loop keeps running through the kinematic singularity. Changing it
// changes trajectories near that configuration.
const DenominatorFloor = 1e-6

const (
	CartPosition = iota
	CartVelocity
	PoleAngle
	PoleAngularVelocity
)

// PendulumOnCart is an underactuated cart with a pendulum pivoted on it.
// State is (x, v, θ, ω); θ = 0 hangs down and θ = π is upright.
type PendulumOnCart struct {
	stepper
	cartMass, poleMass, length, friction, inertia, gravity float64

	state  dynamo.State
	clamps int
}

func NewPendulumOnCart(cartMass, poleMass, length, friction, inertia, gravity float64) *PendulumOnCart {
	p := &PendulumOnCart{
		stepper:  newStepper(),
		cartMass: cartMass,
		poleMass: poleMass,
		length:   length,
		friction: friction,
		inertia:  inertia,
		gravity:  gravity,
		state:    make(dynamo.State, 4),
	}
	p.Reset(0, 0, math.Pi+0.01, 0)
	return p
}

// NewPendulumOnCartChecked rejects non-physical parameters.
func NewPendulumOnCartChecked(cartMass, poleMass, length, friction, inertia, gravity float64) (*PendulumOnCart, error) {
	if cartMass < 0 || poleMass <= 0 || length <= 0 || friction < 0 || inertia < 0 {
		return nil, fmt.Errorf("%w: M=%g m=%g l=%g b=%g I=%g", dynamo.ErrParameterBounds,
			cartMass, poleMass, length, friction, inertia)
	}
	return NewPendulumOnCart(cartMass, poleMass, length, friction, inertia, gravity), nil
}

func (p *PendulumOnCart) StateDim() int      { return 4 }
func (p *PendulumOnCart) ControlDim() int    { return 1 }
func (p *PendulumOnCart) Coordinates() []int { return []int{CartPosition, PoleAngle} }

// clampDenominator keeps |d| >= DenominatorFloor, preserving sign.
func clampDenominator(d float64) (float64, bool) {
	if math.Abs(d) >= DenominatorFloor {
		return d, false
	}
	if d < 0 {
		return -DenominatorFloor, true
	}
	return DenominatorFloor, true
}

// Accelerations returns the cart acceleration and pole angular acceleration
// at state x under force. The boolean reports whether the denominator floor
// was applied.
func (p *PendulumOnCart) Accelerations(x dynamo.State, force float64) (accel, alpha float64, clamped bool) {
	M, m, l := p.cartMass, p.poleMass, p.length
	b, I, g := p.friction, p.inertia, p.gravity
	v, theta, omega := x[CartVelocity], x[PoleAngle], x[PoleAngularVelocity]

	sin, cos := math.Sin(theta), math.Cos(theta)
	J := I + m*l*l
	denom := J*(m+M) - m*m*l*l*cos*cos
	denom, clamped = clampDenominator(denom)

	drive := -b*v + force
	accel = (drive*J + m*l*sin*(omega*omega*J+g*m*l*cos)) / denom
	// -2I(m+M) - l²m(m+2M) + l²m²cos2θ is identically -2·denom
	alpha = (2 * l * m * (g*(M+m)*sin + cos*(drive+omega*omega*l*m*sin))) / (-2 * denom)
	return accel, alpha, clamped
}

func (p *PendulumOnCart) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}
	accel, alpha, clamped := p.Accelerations(x, force)
	if clamped {
		p.clamps++
	}
	return dynamo.State{x[CartVelocity], accel, x[PoleAngularVelocity], alpha}
}

// Clamps counts derivative evaluations that hit DenominatorFloor.
func (p *PendulumOnCart) Clamps() int { return p.clamps }

func (p *PendulumOnCart) Reset(x0, v0, theta0, omega0 float64) {
	p.state[CartPosition] = x0
	p.state[CartVelocity] = v0
	p.state[PoleAngle] = theta0
	p.state[PoleAngularVelocity] = omega0
	p.t = 0
}

func (p *PendulumOnCart) Position() float64        { return p.state[CartPosition] }
func (p *PendulumOnCart) Velocity() float64        { return p.state[CartVelocity] }
func (p *PendulumOnCart) Angle() float64           { return p.state[PoleAngle] }
func (p *PendulumOnCart) AngularVelocity() float64 { return p.state[PoleAngularVelocity] }

func (p *PendulumOnCart) State() dynamo.State { return p.state.Clone() }

func (p *PendulumOnCart) SetState(x dynamo.State) error { return setState(p.state, x) }

// ApplyForce advances the plant by dt under a constant horizontal force.
func (p *PendulumOnCart) ApplyForce(force, dt float64) error {
	return p.Update(dynamo.Control{force}, dt)
}

func (p *PendulumOnCart) Update(u dynamo.Control, dt float64) error {
	next, err := p.advance(p, p.state, u, dt)
	if err != nil {
		return err
	}
	copy(p.state, next)
	return nil
}

func (p *PendulumOnCart) GetParams() map[string]float64 {
	return map[string]float64{
		"cart_mass": p.cartMass,
		"pole_mass": p.poleMass,
		"length":    p.length,
		"friction":  p.friction,
		"inertia":   p.inertia,
		"gravity":   p.gravity,
	}
}
