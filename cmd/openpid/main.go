package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/openpid/internal/config"
)

var (
	// global
	configFile string
	verbose    bool
	logFormat  string

	// run
	dt         float64
	steps      int
	integrator string
	preset     string
	plot       bool
	channels   []string
	csvOut     bool
	all        bool
	workers    int

	// analyze
	window int
	phase  string
	tol    float64

	// config init
	force bool

	// tune
	params []string
	metric string

	log = logrus.New()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "openpid",
		Short:         "plant and controller simulation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addOverrideFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot recorded channels")
	runCmd.Flags().StringSliceVar(&channels, "channel", nil, "channels to plot, by name or index")
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "print the trajectory as CSV instead of the summary")
	runCmd.Flags().BoolVar(&all, "all", false, "run the default preset of every scenario concurrently")
	runCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs with --all")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios and their presets",
		Args:  cobra.NoArgs,
		RunE:  listScenarios,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scenario]",
		Short: "frequency, envelope and settling analysis of one channel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeScenario,
	}
	addOverrideFlags(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&channels, "channel", nil, "channel to analyse, by name or index")
	analyzeCmd.Flags().IntVar(&window, "window", 0, "peak window in steps (default: one dominant period)")
	analyzeCmd.Flags().StringVar(&phase, "phase", "", "phase portrait of two channels, e.g. theta,omega")
	analyzeCmd.Flags().Float64Var(&tol, "tol", 0.02, "settling band around the final value")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or create scenario files",
	}
	showCmd := &cobra.Command{
		Use:   "show [scenario]",
		Short: "print the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showConfig,
	}
	addOverrideFlags(showCmd)
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	addOverrideFlags(initCmd)
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(showCmd, initCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search over controller parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScenario,
	}
	addOverrideFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter grid, e.g. kp=10:100:10 or kd=1,2,5")
	tuneCmd.Flags().StringVar(&metric, "metric", "tracking_rms", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	rootCmd.AddCommand(runCmd, scenariosCmd, analyzeCmd, configCmd, tuneCmd)
	return rootCmd
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: euler, semi_implicit, rk4")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset (default: default)")
}

func setupLogging() error {
	log.SetOutput(os.Stderr)
	switch logFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}

	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return nil
}
