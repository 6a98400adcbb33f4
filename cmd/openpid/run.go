package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/experiment"
	"github.com/san-kum/openpid/internal/sim"
)

func runScenario(cmd *cobra.Command, args []string) error {
	if all {
		return runAll(cmd)
	}

	cfg, presetName, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp, err := experiment.New(registry, cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	names := exp.Setup().Channels

	if csvOut {
		if err := writeCSV(out, names, result); err != nil {
			return err
		}
		return runErr
	}

	printSummary(out, cfg, presetName, names, result, elapsed, runErr)

	if plot {
		idx, err := selectChannels(names, channels)
		if err != nil {
			return err
		}
		plotChannels(out, names, idx, result)
	}

	return runErr
}

// runAll runs one preset of every registered scenario on the batch runner.
func runAll(cmd *cobra.Command) error {
	if configFile != "" {
		return fmt.Errorf("--all runs presets and cannot be combined with --config")
	}
	registry := experiment.NewRegistry()

	var jobs []sim.Job
	for _, scenario := range registry.List() {
		cfg, name, err := resolveConfig(cmd, scenario)
		if err != nil {
			return fmt.Errorf("%s: %w", scenario, err)
		}
		jobs = append(jobs, registry.Job(scenario+"/"+name, cfg, log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	outcomes, err := sim.RunBatch(ctx, jobs, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tEFFORT\tSTABILITY\tSTATUS")
	failed := 0
	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = o.Err.Error()
			failed++
		}
		taken := 0
		var effort, stability float64
		if o.Result != nil {
			taken = o.Result.StepsTaken
			effort = o.Result.Metrics["control_effort"]
			stability = o.Result.Metrics["stability"]
		}
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.3f\t%s\n", o.Name, taken, effort, stability, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.WithField("elapsed", time.Since(start)).Infof("%d runs, %d failed", len(outcomes), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(outcomes))
	}
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	out := cmd.OutOrStdout()
	for _, name := range registry.List() {
		fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(name), registry.Describe(name))
		if presets := config.ListPresets(name); len(presets) > 0 {
			fmt.Fprintf(out, "  %s %v\n", labelStyle.Render("presets:"), presets)
		}
	}
	return nil
}
