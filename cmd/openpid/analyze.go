package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/openpid/internal/analysis"
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/experiment"
)

func analyzeScenario(cmd *cobra.Command, args []string) error {
	result, names, step, err := loadTrajectory(cmd, args)
	if err != nil {
		return err
	}
	if len(result.States) < 2 {
		return fmt.Errorf("trajectory too short to analyse")
	}

	ch := 0
	if len(channels) > 0 {
		if ch, err = channelIndex(names, channels[0]); err != nil {
			return err
		}
	}
	data := result.Channel(ch)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("analysis of "+channelName(names, ch)))

	freq := analysis.DominantFrequency(data, step)
	if freq > 0 {
		fmt.Fprintf(out, "%s %.4f Hz  %s %.4f s\n",
			labelStyle.Render("dominant frequency"), freq,
			labelStyle.Render("period"), 1/freq)
	} else {
		fmt.Fprintln(out, labelStyle.Render("no dominant frequency"))
	}

	w := window
	if w == 0 && freq > 0 {
		w = int(math.Round(1 / (freq * step)))
	}
	if w > 0 {
		peaks := analysis.WindowPeaks(data, w)
		fmt.Fprintf(out, "%s %d  %s %d  %s %v\n",
			labelStyle.Render("window"), w,
			labelStyle.Render("peaks"), len(peaks),
			labelStyle.Render("decaying"), analysis.Decaying(peaks))
	}

	final := data[len(data)-1]
	if i := analysis.SettlingIndex(data, final, tol); i >= 0 && i < len(result.Times) {
		fmt.Fprintf(out, "%s %.4f s (within %g of %.6g)\n",
			labelStyle.Render("settled at"), result.Times[i], tol, final)
	}

	if ps := analysis.PowerSpectrum(data); len(ps) > 2 {
		// low end of the spectrum carries the interesting content
		n := len(ps) / 4
		if n < 2 {
			n = len(ps)
		}
		fmt.Fprintln(out, asciigraph.Plot(ps[:n],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum")))
	}

	if phase != "" {
		parts := strings.Split(phase, ",")
		if len(parts) != 2 {
			return fmt.Errorf("--phase wants two channels, got %q", phase)
		}
		xi, err := channelIndex(names, parts[0])
		if err != nil {
			return err
		}
		yi, err := channelIndex(names, parts[1])
		if err != nil {
			return err
		}
		portrait := analysis.NewPhasePortrait(result.States, xi, yi)
		if portrait == nil {
			return fmt.Errorf("no phase portrait for %s", phase)
		}
		fmt.Fprintf(out, "%s %s vs %s\n", labelStyle.Render("phase portrait"), channelName(names, yi), channelName(names, xi))
		fmt.Fprint(out, portrait.ASCII(60, 20))
	}
	return nil
}

// loadTrajectory runs the scenario and returns its trajectory, channel
// names and timestep. An aborted run is analysed up to the fault.
func loadTrajectory(cmd *cobra.Command, args []string) (*dynamo.Result, []string, float64, error) {
	cfg, _, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return nil, nil, 0, err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg, log)
	if err != nil {
		return nil, nil, 0, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil {
			return nil, nil, 0, err
		}
		log.WithError(err).Warn("analysing partial trajectory")
	}
	return result, exp.Setup().Channels, cfg.Dt, nil
}
