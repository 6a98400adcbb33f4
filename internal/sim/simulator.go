package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/openpid/internal/dynamo"
)

// Simulator drives one plant with one controller: read state, compute the
// input, apply it, advance. Plant and controller are used from a single
// goroutine for the duration of Run.
type Simulator struct {
	plant      dynamo.DynamicalSystem
	controller dynamo.StatelessController
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        logrus.FieldLogger
}

func New(plant dynamo.DynamicalSystem, controller dynamo.StatelessController) *Simulator {
	return &Simulator{
		plant:      plant,
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        logrus.StandardLogger(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		s.log = l
	}
}

func (s *Simulator) Plant() dynamo.DynamicalSystem { return s.plant }

// Run executes cfg.Steps iterations from the plant's current state. A
// stateful controller is reset first. On a fault the partial trajectory is
// returned together with a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		States:   make([]dynamo.State, 0, cfg.Steps+1),
		Controls: make([]dynamo.Control, 0, cfg.Steps),
		Times:    make([]float64, 0, cfg.Steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	if sc, ok := s.controller.(dynamo.StatefulController); ok {
		sc.Reset()
	}

	log := s.log.WithFields(logrus.Fields{"steps": cfg.Steps, "dt": cfg.Dt})
	log.Info("simulation started")
	start := time.Now()

	x := s.plant.State()
	t := 0.0
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			log.WithField("step", i).Warn("simulation cancelled")
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		u, err := s.controller.Actuate(x, cfg.Dt)
		if err != nil {
			return s.fail(log, result, i, t, x, fmt.Errorf("controller: %w", err))
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		if err := s.plant.Update(u, cfg.Dt); err != nil {
			return s.fail(log, result, i, t, x, fmt.Errorf("plant: %w", err))
		}
		x = s.plant.State()
		t += cfg.Dt

		result.StepsTaken++
		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)

		if cfg.ValidateState && !x.IsValid() {
			return s.fail(log, result, i, t, x, dynamo.ErrInvalidState)
		}
		if cfg.Bound > 0 && x.MaxAbs() > cfg.Bound {
			return s.fail(log, result, i, t, x,
				fmt.Errorf("%w: |x|∞=%g > %g", dynamo.ErrUnstable, x.MaxAbs(), cfg.Bound))
		}

		log.WithFields(logrus.Fields{"step": i, "t": t, "u": []float64(u)}).Debug("step")
	}

	s.collect(result)
	log.WithField("elapsed", time.Since(start)).Info("simulation finished")
	return result, nil
}

func (s *Simulator) fail(log logrus.FieldLogger, result *dynamo.Result, step int, t float64, x dynamo.State, err error) (*dynamo.Result, error) {
	s.collect(result)
	log.WithFields(logrus.Fields{"step": step, "t": t}).WithError(err).Warn("simulation aborted")
	return result, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg dynamo.Config) error {
	if err := dynamo.CheckStep(cfg.Dt); err != nil {
		return err
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, cfg.Steps)
	}
	if cfg.Bound < 0 {
		return fmt.Errorf("%w: bound must not be negative, got %g", dynamo.ErrParameterBounds, cfg.Bound)
	}
	return nil
}
