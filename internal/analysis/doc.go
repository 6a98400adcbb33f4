// Package analysis inspects recorded trajectories after a run.
//
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a single channel
//   - [WindowPeaks]: peak envelope over fixed windows, e.g. one damped period
//   - [SettlingIndex]: first sample after which a channel stays in a band
//   - [NewPhasePortrait]: two channels against each other, renderable as ASCII
//
// A damped oscillator should show a strictly decaying envelope:
//
//	period := int(math.Round(2 * math.Pi / wd / dt))
//	if !analysis.Decaying(analysis.WindowPeaks(res.Channel(0), period)) {
//	    // energy is not being dissipated
//	}
package analysis
