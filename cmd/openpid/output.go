package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/dynamo"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

func printSummary(w io.Writer, cfg *config.Config, presetName string, names []string, result *dynamo.Result, elapsed time.Duration, runErr error) {
	title := cfg.Scenario
	if presetName != "" {
		title += "/" + presetName
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "%s %s  %s %g  %s %d/%d  %s %v\n",
		labelStyle.Render("integrator"), cfg.Integrator,
		labelStyle.Render("dt"), cfg.Dt,
		labelStyle.Render("steps"), result.StepsTaken, cfg.Steps,
		labelStyle.Render("elapsed"), elapsed.Round(time.Microsecond))

	if final := result.Final(); final != nil {
		fmt.Fprintln(w, labelStyle.Render("final state"))
		for i, v := range final {
			fmt.Fprintf(w, "  %-10s %s\n", channelName(names, i), valueStyle.Render(strconv.FormatFloat(v, 'g', 8, 64)))
		}
	}

	if len(result.Metrics) > 0 {
		keys := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, labelStyle.Render("metrics"))
		for _, k := range keys {
			fmt.Fprintf(w, "  %-16s %s\n", k, valueStyle.Render(strconv.FormatFloat(result.Metrics[k], 'g', 6, 64)))
		}
	}

	if runErr != nil {
		fmt.Fprintln(w, warnStyle.Render("aborted: "+runErr.Error()))
	}
}

func plotChannels(w io.Writer, names []string, idx []int, result *dynamo.Result) {
	for _, i := range idx {
		data := result.Channel(i)
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(channelName(names, i)))
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
}

func channelName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("x%d", i)
}

// selectChannels resolves channel names or numeric indices against names.
// An empty selection means every channel.
func selectChannels(names []string, want []string) ([]int, error) {
	if len(want) == 0 {
		idx := make([]int, len(names))
		for i := range names {
			idx[i] = i
		}
		return idx, nil
	}

	idx := make([]int, 0, len(want))
	for _, w := range want {
		i, err := channelIndex(names, w)
		if err != nil {
			return nil, err
		}
		idx = append(idx, i)
	}
	return idx, nil
}

func channelIndex(names []string, s string) (int, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown channel %q (available: %s)", s, strings.Join(names, ", "))
}

// writeCSV writes one row per recorded state: time, the state components,
// then the input applied from that state (empty on the final row).
func writeCSV(out io.Writer, names []string, result *dynamo.Result) error {
	if len(result.States) == 0 {
		return nil
	}
	inputDim := 0
	if len(result.Controls) > 0 {
		inputDim = len(result.Controls[0])
	}

	w := csv.NewWriter(out)
	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, channelName(names, i))
	}
	for i := 0; i < inputDim; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, x := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
		for _, val := range x {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		for j := 0; j < inputDim; j++ {
			cell := ""
			if i < len(result.Controls) && j < len(result.Controls[i]) {
				cell = strconv.FormatFloat(result.Controls[i][j], 'g', -1, 64)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
