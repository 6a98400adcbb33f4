package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/openpid/internal/control"
	"github.com/san-kum/openpid/internal/integrators"
)

const (
	DefaultScenario   = "msd_pid"
	DefaultIntegrator = "euler"
	DefaultDt         = 0.01
	DefaultSteps      = 100
	DefaultGravity    = 9.81
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Scenario   string  `yaml:"scenario"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	// Bound aborts a run once any state component exceeds it; 0 disables.
	Bound float64 `yaml:"bound,omitempty"`
	// InitState overrides the plant's reset state when non-empty.
	InitState  []float64        `yaml:"init_state,omitempty"`
	Plant      PlantConfig      `yaml:"plant"`
	Controller ControllerConfig `yaml:"controller"`
}

type PlantConfig struct {
	// mass-spring-damper
	Mass      float64 `yaml:"mass,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
	Stiffness float64 `yaml:"stiffness,omitempty"`

	// pendulum on cart
	CartMass float64 `yaml:"cart_mass,omitempty"`
	PoleMass float64 `yaml:"pole_mass,omitempty"`
	Length   float64 `yaml:"length,omitempty"`
	Friction float64 `yaml:"friction,omitempty"`
	Inertia  float64 `yaml:"inertia,omitempty"`

	// missile; a zero tensor selects the default
	InertiaTensor []float64 `yaml:"inertia_tensor,omitempty"`

	Gravity float64 `yaml:"gravity"`
}

type ControllerConfig struct {
	Kind string `yaml:"kind"`

	Kp       float64 `yaml:"kp,omitempty"`
	Ki       float64 `yaml:"ki,omitempty"`
	Kd       float64 `yaml:"kd,omitempty"`
	Form     string  `yaml:"form,omitempty"`
	Setpoint float64 `yaml:"setpoint,omitempty"`
	Index    int     `yaml:"index,omitempty"`
	// Limit saturates PID output to ±Limit; 0 disables.
	Limit float64 `yaml:"limit,omitempty"`

	Gains     []float64 `yaml:"gains,omitempty"`
	Reference float64   `yaml:"reference,omitempty"`

	// Input is the open-loop input of a constant controller.
	Input []float64 `yaml:"input,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   DefaultScenario,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Plant: PlantConfig{
			Mass:      1.0,
			Damping:   0.5,
			Stiffness: 5.0,
			Gravity:   DefaultGravity,
		},
		Controller: ControllerConfig{
			Kind:     "pid",
			Kp:       100,
			Ki:       1,
			Kd:       20,
			Form:     "direct",
			Setpoint: 1,
		},
	}
}

// Load reads a scenario file. Keys the file leaves out keep the values of
// that scenario's preset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Scenario string `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := baseConfig(head.Scenario)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// baseConfig is what a file for scenario is read over: its default preset,
// else its first preset. Unknown scenarios only get the loop defaults.
func baseConfig(scenario string) *Config {
	if scenario == "" {
		return DefaultConfig()
	}
	if cfg := GetPreset(scenario, "default"); cfg != nil {
		return cfg
	}
	if names := ListPresets(scenario); len(names) > 0 {
		return GetPreset(scenario, names[0])
	}
	return &Config{
		Scenario:   scenario,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Plant:      PlantConfig{Gravity: DefaultGravity},
	}
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields every scenario depends on. Plant parameters
// are checked by the plant constructors.
func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("%w: scenario is empty", ErrInvalidConfig)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Bound < 0 {
		return fmt.Errorf("%w: bound must not be negative", ErrInvalidConfig)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := control.ParseForm(c.Controller.Form); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if n := len(c.Plant.InertiaTensor); n != 0 && n != 9 {
		return fmt.Errorf("%w: inertia_tensor needs 9 entries, got %d", ErrInvalidConfig, n)
	}
	return nil
}

// Clone returns a deep copy so presets are never mutated through overrides.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = append([]float64(nil), c.InitState...)
	out.Plant.InertiaTensor = append([]float64(nil), c.Plant.InertiaTensor...)
	out.Controller.Gains = append([]float64(nil), c.Controller.Gains...)
	out.Controller.Input = append([]float64(nil), c.Controller.Input...)
	return &out
}

// SetParam assigns a scalar controller parameter by its yaml name.
func (c *ControllerConfig) SetParam(name string, v float64) error {
	switch name {
	case "kp":
		c.Kp = v
	case "ki":
		c.Ki = v
	case "kd":
		c.Kd = v
	case "setpoint":
		c.Setpoint = v
	case "reference":
		c.Reference = v
	case "limit":
		c.Limit = v
	default:
		return fmt.Errorf("%w: unknown controller parameter %q", ErrInvalidConfig, name)
	}
	return nil
}
