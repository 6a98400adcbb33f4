package control

import (
	"fmt"
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
)

// PID is a scalar proportional-integral-derivative controller with two
// realisations that keep separate memory: Compute accumulates an integral,
// ComputeRecursive runs the backward-difference recurrence on the last two
// errors and the last output.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	integral float64
	prevErr  float64
	started  bool

	ek1, ek2, uk1 float64
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd}
}

// Compute returns kp·e + ki·∫e + kd·ė for e = setpoint − measurement. The
// derivative term is zero on the first call after construction or Reset.
func (p *PID) Compute(setpoint, measurement, dt float64) (float64, error) {
	if err := dynamo.CheckStep(dt); err != nil {
		return 0, err
	}
	e := setpoint - measurement
	p.integral += e * dt

	derivative := 0.0
	if p.started {
		derivative = (e - p.prevErr) / dt
	}
	p.prevErr = e
	p.started = true

	return p.Kp*e + p.Ki*p.integral + p.Kd*derivative, nil
}

// ComputeRecursive returns u_k = u_{k-1} + a0·e_k + a1·e_{k-1} + a2·e_{k-2}.
func (p *PID) ComputeRecursive(reference, measurement, dt float64) (float64, error) {
	if err := dynamo.CheckStep(dt); err != nil {
		return 0, err
	}
	a0, a1, a2 := p.Coefficients(dt)
	ek := reference - measurement
	u := p.uk1 + a0*ek + a1*p.ek1 + a2*p.ek2

	p.uk1 = u
	p.ek2, p.ek1 = p.ek1, ek
	return u, nil
}

// Coefficients returns the recurrence weights for step dt.
func (p *PID) Coefficients(dt float64) (a0, a1, a2 float64) {
	a0 = p.Kp + p.Ki*dt + p.Kd/dt
	a1 = -p.Kp - 2*p.Kd/dt
	a2 = p.Kd / dt
	return a0, a1, a2
}

// Reset clears the memory of both forms.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.started = false
	p.ek1, p.ek2, p.uk1 = 0, 0, 0
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp": p.Kp,
		"ki": p.Ki,
		"kd": p.Kd,
	}
}

// Form selects which PID realisation a loop uses.
type Form int

const (
	FormDirect Form = iota
	FormRecursive
)

func (f Form) String() string {
	switch f {
	case FormDirect:
		return "direct"
	case FormRecursive:
		return "recursive"
	}
	return fmt.Sprintf("Form(%d)", int(f))
}

// ParseForm accepts "direct" or "recursive".
func ParseForm(s string) (Form, error) {
	switch s {
	case "", "direct":
		return FormDirect, nil
	case "recursive":
		return FormRecursive, nil
	}
	return 0, fmt.Errorf("control: unknown PID form %q", s)
}

// PIDLoop closes a PID around one component of a plant state.
type PIDLoop struct {
	*PID
	Setpoint float64
	Index    int
	Form     Form

	min, max float64
	limited  bool
}

func NewPIDLoop(pid *PID, index int, setpoint float64, form Form) *PIDLoop {
	return &PIDLoop{PID: pid, Setpoint: setpoint, Index: index, Form: form}
}

// SetLimits saturates the output to [lo, hi].
func (l *PIDLoop) SetLimits(lo, hi float64) error {
	if !(lo < hi) {
		return fmt.Errorf("%w: output limits [%g, %g]", dynamo.ErrParameterBounds, lo, hi)
	}
	l.min, l.max, l.limited = lo, hi, true
	return nil
}

func (l *PIDLoop) Actuate(x dynamo.State, dt float64) (dynamo.Control, error) {
	if l.Index < 0 || l.Index >= len(x) {
		return nil, fmt.Errorf("%w: measured index %d of %d-state", dynamo.ErrDimensionMismatch, l.Index, len(x))
	}

	var (
		u   float64
		err error
	)
	if l.Form == FormRecursive {
		u, err = l.ComputeRecursive(l.Setpoint, x[l.Index], dt)
	} else {
		u, err = l.Compute(l.Setpoint, x[l.Index], dt)
	}
	if err != nil {
		return nil, err
	}
	if l.limited {
		u = math.Max(l.min, math.Min(l.max, u))
	}
	return dynamo.Control{u}, nil
}
