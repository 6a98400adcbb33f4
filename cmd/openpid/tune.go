package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/openpid/internal/experiment"
	"github.com/san-kum/openpid/internal/optim"
	"github.com/san-kum/openpid/internal/sim"
)

func tuneScenario(cmd *cobra.Command, args []string) error {
	if len(params) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	base, presetName, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(params))
	ranges := make([][]float64, 0, len(params))
	for _, p := range params {
		name, values, err := optim.ParseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	// individual runs only log under --verbose
	runLog := logrus.FieldLogger(log)
	if !verbose {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		runLog = quiet
	}

	registry := experiment.NewRegistry()
	build := func(p map[string]float64) (sim.Job, error) {
		cfg := base.Clone()
		for name, v := range p {
			if err := cfg.Controller.SetParam(name, v); err != nil {
				return sim.Job{}, err
			}
		}
		return registry.Job(formatParams(p), cfg, runLog), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{
		"scenario": base.Scenario,
		"preset":   presetName,
		"points":   len(grid.Points()),
		"metric":   metric,
	}).Info("tuning")

	best, candidates, err := grid.Search(ctx, build, metric, workers)
	if err != nil && len(candidates) == 0 {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\tSTATUS\n", strings.ToUpper(metric))
	for _, c := range candidates {
		status := "ok"
		if c.Err != nil {
			status = c.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", formatParams(c.Params), c.Value, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %.6g\n", titleStyle.Render("best "+formatParams(best.Params)), metric, best.Value)
	return nil
}

func formatParams(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}
