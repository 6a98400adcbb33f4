package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/sim"
)

// Experiment is one configured run of a scenario.
type Experiment struct {
	cfg       *config.Config
	setup     *Setup
	simulator *sim.Simulator
}

func New(r *Registry, cfg *config.Config, log logrus.FieldLogger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setup, err := r.Build(cfg)
	if err != nil {
		return nil, err
	}

	s := sim.New(setup.Plant, setup.Controller)
	for _, m := range setup.Metrics {
		s.AddMetric(m)
	}
	if log != nil {
		s.SetLogger(log.WithField("scenario", cfg.Scenario))
	}

	return &Experiment{cfg: cfg, setup: setup, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

func (e *Experiment) Setup() *Setup { return e.setup }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// SimConfig maps a scenario file onto the driver loop settings.
func SimConfig(cfg *config.Config) dynamo.Config {
	return dynamo.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		Bound:         cfg.Bound,
		ValidateState: true,
	}
}

// Job wraps cfg for sim.RunBatch; every call to Build creates fresh
// instances.
func (r *Registry) Job(name string, cfg *config.Config, log logrus.FieldLogger) sim.Job {
	return sim.Job{
		Name: name,
		Build: func() (*sim.Simulator, error) {
			e, err := New(r, cfg, log)
			if err != nil {
				return nil, err
			}
			return e.simulator, nil
		},
		Config: SimConfig(cfg),
	}
}
