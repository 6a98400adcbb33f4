package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/control"
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/metrics"
	"github.com/san-kum/openpid/internal/physics"
)

var (
	twoStateChannels = []string{"x", "v"}
	cartChannels     = []string{"x", "v", "theta", "omega"}
	missileChannels  = []string{"px", "py", "pz", "vx", "vy", "vz", "qw", "qx", "qy", "qz", "p", "q", "r"}
)

func buildMSD(cfg *config.Config) (*Setup, error) {
	p := cfg.Plant
	msd, err := physics.NewMassSpringDamperChecked(p.Mass, p.Damping, p.Stiffness)
	if err != nil {
		return nil, err
	}
	ctrl, err := newController(cfg.Controller, 2, 1)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Plant:      msd,
		Controller: ctrl,
		Metrics:    defaultMetrics(cfg, msd),
		Channels:   twoStateChannels,
	}, nil
}

func newCartPlant(p config.PlantConfig) (*physics.PendulumOnCart, error) {
	return physics.NewPendulumOnCartChecked(p.CartMass, p.PoleMass, p.Length, p.Friction, p.Inertia, p.Gravity)
}

func buildCart(cfg *config.Config) (*Setup, error) {
	pend, err := newCartPlant(cfg.Plant)
	if err != nil {
		return nil, err
	}
	ctrl, err := newController(cfg.Controller, 4, 1)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Plant:      pend,
		Controller: ctrl,
		Metrics:    defaultMetrics(cfg, pend),
		Channels:   cartChannels,
	}, nil
}

func buildGenericCart(cfg *config.Config) (*Setup, error) {
	model, err := newCartPlant(cfg.Plant)
	if err != nil {
		return nil, err
	}
	plant := physics.NewGenericSystem(func(x dynamo.State, u dynamo.Control) dynamo.State {
		accel, alpha, _ := model.Accelerations(x, firstInput(u))
		return dynamo.State{x[physics.CartVelocity], accel, x[physics.PoleAngularVelocity], alpha}
	}, model.State())

	ctrl, err := newController(cfg.Controller, 4, 1)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Plant:      plant,
		Controller: ctrl,
		Metrics:    defaultMetrics(cfg, plant),
		Channels:   cartChannels,
	}, nil
}

func buildDoubleIntegrator(cfg *config.Config) (*Setup, error) {
	plant := physics.NewGenericSystem(func(x dynamo.State, u dynamo.Control) dynamo.State {
		return dynamo.State{x[1], firstInput(u)}
	}, dynamo.State{0, 0})

	ctrl, err := newController(cfg.Controller, 2, 1)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Plant:      plant,
		Controller: ctrl,
		Metrics:    defaultMetrics(cfg, plant),
		Channels:   twoStateChannels,
	}, nil
}

func buildMissile(cfg *config.Config) (*Setup, error) {
	params := physics.DefaultMissileParams()
	if cfg.Plant.Mass > 0 {
		params.Mass = cfg.Plant.Mass
	}
	params.Gravity = cfg.Plant.Gravity
	if len(cfg.Plant.InertiaTensor) == 9 {
		copy(params.Inertia[:], cfg.Plant.InertiaTensor)
	}
	missile, err := physics.NewMissile6DOFQuatWith(params)
	if err != nil {
		return nil, err
	}
	ctrl, err := newController(cfg.Controller, physics.MissileStateDim, physics.MissileInputDim)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Plant:      missile,
		Controller: ctrl,
		Metrics:    defaultMetrics(cfg, missile),
		Channels:   missileChannels,
	}, nil
}

func firstInput(u dynamo.Control) float64 {
	if len(u) == 0 {
		return 0
	}
	return u[0]
}

func newController(cc config.ControllerConfig, stateDim, inputDim int) (dynamo.StatelessController, error) {
	switch cc.Kind {
	case "", "none":
		return control.NewNone(inputDim), nil

	case "constant":
		if err := dynamo.CheckDim("constant input", len(cc.Input), inputDim); err != nil {
			return nil, err
		}
		return control.NewConstant(cc.Input), nil

	case "pid":
		form, err := control.ParseForm(cc.Form)
		if err != nil {
			return nil, err
		}
		if cc.Index < 0 || cc.Index >= stateDim {
			return nil, fmt.Errorf("%w: pid index %d of %d-state", dynamo.ErrDimensionMismatch, cc.Index, stateDim)
		}
		loop := control.NewPIDLoop(control.NewPID(cc.Kp, cc.Ki, cc.Kd), cc.Index, cc.Setpoint, form)
		if cc.Limit > 0 {
			if err := loop.SetLimits(-cc.Limit, cc.Limit); err != nil {
				return nil, err
			}
		}
		return loop, nil

	case "state_feedback":
		if err := dynamo.CheckDim("gains", len(cc.Gains), stateDim); err != nil {
			return nil, err
		}
		sf := control.NewStateFeedback(cc.Gains...)
		sf.SetReference(cc.Reference)
		return sf, nil

	case "generic":
		if err := dynamo.CheckDim("gains", len(cc.Gains), stateDim); err != nil {
			return nil, err
		}
		k := dynamo.State(cc.Gains).Clone()
		gc := control.NewGenericController(func(x, ref dynamo.State) dynamo.Control {
			d := make(dynamo.State, len(x))
			floats.SubTo(d, x, ref)
			return dynamo.Control{-floats.Dot(k, d)}
		})
		// same reference layout as StateFeedback.SetReference
		gc.SetReference(control.NewStateFeedback(cc.Gains...).ScalarReference(cc.Reference))
		return gc, nil
	}
	return nil, fmt.Errorf("experiment: unknown controller kind %q", cc.Kind)
}

func defaultMetrics(cfg *config.Config, plant any) []dynamo.Metric {
	bound := cfg.Bound
	if bound == 0 {
		bound = 1e3
	}
	ms := []dynamo.Metric{
		metrics.NewControlEffort(),
		metrics.NewStability(bound),
		metrics.NewEnergyDrift(plant),
	}
	switch cc := cfg.Controller; cc.Kind {
	case "pid":
		ms = append(ms, metrics.NewTrackingError(cc.Index, cc.Setpoint))
	case "state_feedback", "generic":
		ms = append(ms, metrics.NewTrackingError(referenceIndex(len(cc.Gains)), cc.Reference))
	}
	return ms
}

func referenceIndex(gains int) int {
	return control.NewStateFeedback(make([]float64, gains)...).ReferenceIndex()
}
