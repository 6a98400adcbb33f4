package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Missile state layout. Velocity is in the world frame and the attitude
// quaternion is scalar-first [w x y z], rotating body to world.
const (
	MissilePosX = iota
	MissilePosY
	MissilePosZ
	MissileVelX
	MissileVelY
	MissileVelZ
	MissileQuatW
	MissileQuatX
	MissileQuatY
	MissileQuatZ
	MissileRateP
	MissileRateQ
	MissileRateR

	MissileStateDim = 13
	MissileInputDim = 6
)

type MissileParams struct {
	Mass    float64
	Gravity float64
	// Inertia is the row-major body inertia tensor.
	Inertia [9]float64
}

func DefaultMissileParams() MissileParams {
	return MissileParams{
		Mass:    2513.74,
		Gravity: DefaultGravity,
		Inertia: [9]float64{
			451000.61, 0, 0,
			0, 171000.0, 0,
			0, 0, 171000.0,
		},
	}
}

// Missile6DOFQuat is a rigid body with quaternion attitude, driven by a
// body-frame force and moment [Fx Fy Fz Mx My Mz].
type Missile6DOFQuat struct {
	stepper
	mass, gravity float64
	inertia       *mat.Dense
	inertiaInv    *mat.Dense
	state         dynamo.State
}

func NewMissile6DOFQuat() *Missile6DOFQuat {
	m, err := NewMissile6DOFQuatWith(DefaultMissileParams())
	if err != nil {
		panic(err)
	}
	return m
}

func NewMissile6DOFQuatWith(p MissileParams) (*Missile6DOFQuat, error) {
	if !(p.Mass > 0) {
		return nil, fmt.Errorf("%w: mass=%g", dynamo.ErrParameterBounds, p.Mass)
	}
	inertia := mat.NewDense(3, 3, p.Inertia[:])
	var inv mat.Dense
	if err := inv.Inverse(inertia); err != nil {
		return nil, fmt.Errorf("%w: inertia tensor: %v", dynamo.ErrParameterBounds, err)
	}
	m := &Missile6DOFQuat{
		stepper:    newStepper(),
		mass:       p.Mass,
		gravity:    p.Gravity,
		inertia:    mat.DenseCopyOf(inertia),
		inertiaInv: &inv,
		state:      make(dynamo.State, MissileStateDim),
	}
	m.ResetState()
	return m, nil
}

func (m *Missile6DOFQuat) StateDim() int   { return MissileStateDim }
func (m *Missile6DOFQuat) ControlDim() int { return MissileInputDim }

func (m *Missile6DOFQuat) Coordinates() []int {
	return []int{MissilePosX, MissilePosY, MissilePosZ, MissileQuatW, MissileQuatX, MissileQuatY, MissileQuatZ}
}

func attitude(x dynamo.State) quat.Number {
	return quat.Number{Real: x[MissileQuatW], Imag: x[MissileQuatX], Jmag: x[MissileQuatY], Kmag: x[MissileQuatZ]}
}

func unit(q quat.Number) (quat.Number, error) {
	n := quat.Abs(q)
	if !(n > 0) || math.IsInf(n, 0) {
		return q, fmt.Errorf("%w: attitude quaternion norm %g", dynamo.ErrInvalidState, n)
	}
	return quat.Scale(1/n, q), nil
}

// QuaternionNorm returns |q| of a 13-element missile state.
func QuaternionNorm(x dynamo.State) float64 {
	return quat.Abs(attitude(x))
}

// Dynamics returns the state derivative at x under u. It does not touch
// the stored state; the quaternion is normalised for evaluation only.
func (m *Missile6DOFQuat) Dynamics(x dynamo.State, u dynamo.Control) (dynamo.State, error) {
	if err := dynamo.CheckDim("state", len(x), MissileStateDim); err != nil {
		return nil, err
	}
	if err := dynamo.CheckDim("input", len(u), MissileInputDim); err != nil {
		return nil, err
	}
	q, err := unit(attitude(x))
	if err != nil {
		return nil, err
	}

	dx := make(dynamo.State, MissileStateDim)
	copy(dx[MissilePosX:MissileVelX], x[MissileVelX:MissileQuatW])

	// rotate body force into the world frame: q f q*
	fb := quat.Number{Imag: u[0], Jmag: u[1], Kmag: u[2]}
	fw := quat.Mul(quat.Mul(q, fb), quat.Conj(q))
	dx[MissileVelX] = fw.Imag / m.mass
	dx[MissileVelY] = fw.Jmag / m.mass
	dx[MissileVelZ] = fw.Kmag/m.mass - m.gravity

	w := quat.Number{Imag: x[MissileRateP], Jmag: x[MissileRateQ], Kmag: x[MissileRateR]}
	qdot := quat.Scale(0.5, quat.Mul(q, w))
	dx[MissileQuatW] = qdot.Real
	dx[MissileQuatX] = qdot.Imag
	dx[MissileQuatY] = qdot.Jmag
	dx[MissileQuatZ] = qdot.Kmag

	// J ω̇ = M − ω × (J ω)
	omega := mat.NewVecDense(3, []float64{x[MissileRateP], x[MissileRateQ], x[MissileRateR]})
	var jw mat.VecDense
	jw.MulVec(m.inertia, omega)
	rhs := mat.NewVecDense(3, []float64{
		u[3] - (omega.AtVec(1)*jw.AtVec(2) - omega.AtVec(2)*jw.AtVec(1)),
		u[4] - (omega.AtVec(2)*jw.AtVec(0) - omega.AtVec(0)*jw.AtVec(2)),
		u[5] - (omega.AtVec(0)*jw.AtVec(1) - omega.AtVec(1)*jw.AtVec(0)),
	})
	var wdot mat.VecDense
	wdot.MulVec(m.inertiaInv, rhs)
	dx[MissileRateP] = wdot.AtVec(0)
	dx[MissileRateQ] = wdot.AtVec(1)
	dx[MissileRateR] = wdot.AtVec(2)

	return dx, nil
}

// Derive adapts Dynamics to dynamo.System. An invalid state yields a nil
// derivative, which integrators report as a dimension mismatch; Update
// checks the attitude beforehand so callers see ErrInvalidState.
func (m *Missile6DOFQuat) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx, err := m.Dynamics(x, u)
	if err != nil {
		return nil
	}
	return dx
}

// ResetState puts the body at rest at the origin with identity attitude.
func (m *Missile6DOFQuat) ResetState() {
	for i := range m.state {
		m.state[i] = 0
	}
	m.state[MissileQuatW] = 1
	m.t = 0
}

func (m *Missile6DOFQuat) State() dynamo.State { return m.state.Clone() }

// SetState stores x verbatim; the quaternion is not renormalised.
func (m *Missile6DOFQuat) SetState(x dynamo.State) error { return setState(m.state, x) }

// Attitude returns the stored quaternion as [w x y z].
func (m *Missile6DOFQuat) Attitude() [4]float64 {
	return [4]float64{m.state[MissileQuatW], m.state[MissileQuatX], m.state[MissileQuatY], m.state[MissileQuatZ]}
}

// Update integrates one step and renormalises the attitude quaternion.
func (m *Missile6DOFQuat) Update(u dynamo.Control, dt float64) error {
	if _, err := unit(attitude(m.state)); err != nil {
		return err
	}
	next, err := m.advance(m, m.state, u, dt)
	if err != nil {
		return err
	}
	q, err := unit(attitude(next))
	if err != nil {
		m.t -= dt
		return err
	}
	next[MissileQuatW], next[MissileQuatX], next[MissileQuatY], next[MissileQuatZ] = q.Real, q.Imag, q.Jmag, q.Kmag
	copy(m.state, next)
	return nil
}

func (m *Missile6DOFQuat) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    m.mass,
		"gravity": m.gravity,
		"Ixx":     m.inertia.At(0, 0),
		"Iyy":     m.inertia.At(1, 1),
		"Izz":     m.inertia.At(2, 2),
	}
}
