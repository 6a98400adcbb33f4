package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/openpid/internal/config"
)

const envPrefix = "openpid"

// overrideKeys are settable from OPENPID_* variables and from flags, flags
// taking precedence.
var overrideKeys = []string{"dt", "steps", "integrator"}

// resolveConfig builds the effective configuration: a scenario file when
// --config is given, otherwise the named (or default) preset, then env and
// flag overrides.
func resolveConfig(cmd *cobra.Command, scenario string) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
	)

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		if scenario == "" {
			scenario = config.DefaultScenario
		}
		name = preset
		if name == "" {
			name = "default"
		}
		cfg = config.GetPreset(scenario, name)
		if cfg == nil {
			if preset != "" {
				return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
			}
			if presets := config.ListPresets(scenario); len(presets) > 0 {
				name = presets[0]
				cfg = config.GetPreset(scenario, name)
			} else {
				name = ""
				cfg = config.DefaultConfig()
			}
		}
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}

	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for _, key := range overrideKeys {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("steps") {
		cfg.Steps = v.GetInt("steps")
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "openpid.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}

	cfg, _, err := resolveConfig(cmd, "")
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (scenario %s)\n", path, cfg.Scenario)
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
