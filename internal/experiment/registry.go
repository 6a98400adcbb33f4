package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/integrators"
)

var ErrUnknownScenario = errors.New("experiment: unknown scenario")

// Plant is what every scenario hands to the driver loop.
type Plant interface {
	dynamo.DynamicalSystem
	SetIntegrator(dynamo.Integrator)
	Time() float64
}

// Setup is a ready-to-run plant and controller pair.
type Setup struct {
	Plant      Plant
	Controller dynamo.StatelessController
	Metrics    []dynamo.Metric
	// Channels names each state component.
	Channels []string
}

type Builder func(cfg *config.Config) (*Setup, error)

type scenario struct {
	description string
	build       Builder
}

type Registry struct {
	scenarios map[string]scenario
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]scenario)}

	r.Register("msd_pid", "mass-spring-damper under direct PID position control", buildMSD)
	r.Register("cart_state_feedback", "pendulum on cart balanced by full state feedback", buildCart)
	r.Register("cart_recursive_pid", "pendulum on cart with recursive PID on the pole angle", buildCart)
	r.Register("cart_generic", "cart pendulum as an injected derivative with an injected control law", buildGenericCart)
	r.Register("double_integrator", "generic system x'' = u under constant input", buildDoubleIntegrator)
	r.Register("missile", "6-DOF rigid body with quaternion attitude", buildMissile)

	return r
}

func (r *Registry) Register(name, description string, build Builder) {
	r.scenarios[name] = scenario{description: description, build: build}
}

// Build constructs the scenario named by cfg.Scenario, installs the
// configured integrator and applies cfg.InitState if set.
func (r *Registry) Build(cfg *config.Config) (*Setup, error) {
	sc, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, cfg.Scenario)
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	setup, err := sc.build(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Scenario, err)
	}
	setup.Plant.SetIntegrator(integ)
	if len(cfg.InitState) > 0 {
		if err := setup.Plant.SetState(cfg.InitState); err != nil {
			return nil, fmt.Errorf("%s: init_state: %w", cfg.Scenario, err)
		}
	}
	return setup, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.scenarios[name].description
}
