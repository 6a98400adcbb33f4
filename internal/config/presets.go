package config

import (
	"math"
	"sort"
)

var (
	cartPlant = PlantConfig{
		CartMass: 0.5,
		PoleMass: 0.2,
		Length:   0.3,
		Friction: 0.1,
		Inertia:  0.006,
		Gravity:  DefaultGravity,
	}
	cartGains = []float64{-1.0, -1.6567, 18.6854, 3.4594}
)

// Presets holds one entry per reference run, keyed by scenario then name.
var Presets = map[string]map[string]*Config{
	"msd_pid": {
		"default": {
			Scenario: "msd_pid", Integrator: "euler", Dt: 0.01, Steps: 100,
			Plant: PlantConfig{Mass: 1.0, Damping: 0.5, Stiffness: 5.0, Gravity: DefaultGravity},
			Controller: ControllerConfig{
				Kind: "pid", Kp: 100, Ki: 1, Kd: 20, Form: "direct", Setpoint: 1,
			},
		},
		"free_decay": {
			Scenario: "msd_pid", Integrator: "euler", Dt: 0.01, Steps: 1698,
			InitState:  []float64{1, 0},
			Plant:      PlantConfig{Mass: 1.0, Damping: 0.5, Stiffness: 5.0, Gravity: DefaultGravity},
			Controller: ControllerConfig{Kind: "none"},
		},
		"semi_implicit": {
			Scenario: "msd_pid", Integrator: "semi_implicit", Dt: 0.01, Steps: 100,
			Plant: PlantConfig{Mass: 1.0, Damping: 0.5, Stiffness: 5.0, Gravity: DefaultGravity},
			Controller: ControllerConfig{
				Kind: "pid", Kp: 100, Ki: 1, Kd: 20, Form: "direct", Setpoint: 1,
			},
		},
	},
	"cart_state_feedback": {
		"default": {
			Scenario: "cart_state_feedback", Integrator: "euler", Dt: 0.05, Steps: 160, Bound: 100,
			InitState:  []float64{1.5, 0, math.Pi + 0.01, 0.2},
			Plant:      cartPlant,
			Controller: ControllerConfig{Kind: "state_feedback", Gains: cartGains, Reference: math.Pi},
		},
		"centered": {
			Scenario: "cart_state_feedback", Integrator: "euler", Dt: 0.05, Steps: 160, Bound: 100,
			InitState:  []float64{0, 0, math.Pi + 0.01, 0.2},
			Plant:      cartPlant,
			Controller: ControllerConfig{Kind: "state_feedback", Gains: cartGains, Reference: math.Pi},
		},
	},
	"cart_recursive_pid": {
		"default": {
			Scenario: "cart_recursive_pid", Integrator: "euler", Dt: 0.05, Steps: 1000, Bound: 100,
			InitState: []float64{0, 0, math.Pi + 0.01, 0.2},
			Plant:     cartPlant,
			Controller: ControllerConfig{
				Kind: "pid", Kp: 10, Ki: 10, Kd: 2, Form: "recursive", Setpoint: math.Pi, Index: 2,
			},
		},
	},
	"cart_generic": {
		"default": {
			Scenario: "cart_generic", Integrator: "euler", Dt: 0.05, Steps: 160, Bound: 100,
			InitState:  []float64{1.5, 0, math.Pi + 0.01, 0.2},
			Plant:      cartPlant,
			Controller: ControllerConfig{Kind: "generic", Gains: cartGains, Reference: math.Pi},
		},
	},
	"double_integrator": {
		"default": {
			Scenario: "double_integrator", Integrator: "euler", Dt: 0.05, Steps: 100,
			InitState:  []float64{1, 0},
			Plant:      PlantConfig{Gravity: DefaultGravity},
			Controller: ControllerConfig{Kind: "constant", Input: []float64{1}},
		},
	},
	"missile": {
		"boost": {
			Scenario: "missile", Integrator: "euler", Dt: 0.05, Steps: 300,
			Plant:      PlantConfig{Mass: 2513.74, Gravity: DefaultGravity},
			Controller: ControllerConfig{Kind: "constant", Input: []float64{22000, 0, 0, 0, 0, 0}},
		},
		"coast": {
			Scenario: "missile", Integrator: "euler", Dt: 0.05, Steps: 300,
			Plant:      PlantConfig{Mass: 2513.74, Gravity: DefaultGravity},
			Controller: ControllerConfig{Kind: "none"},
		},
		"roll": {
			Scenario: "missile", Integrator: "rk4", Dt: 0.01, Steps: 1000,
			Plant:      PlantConfig{Mass: 2513.74, Gravity: DefaultGravity},
			Controller: ControllerConfig{Kind: "constant", Input: []float64{22000, 0, 0, 45100, 0, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
