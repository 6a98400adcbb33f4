package analysis

import "math"

// WindowPeaks splits data into consecutive windows of the given length and
// returns the largest absolute value in each. A trailing partial window is
// dropped.
func WindowPeaks(data []float64, window int) []float64 {
	if window <= 0 {
		return nil
	}
	peaks := make([]float64, 0, len(data)/window)
	for start := 0; start+window <= len(data); start += window {
		peak := 0.0
		for _, v := range data[start : start+window] {
			peak = math.Max(peak, math.Abs(v))
		}
		peaks = append(peaks, peak)
	}
	return peaks
}

// Decaying reports whether every peak is strictly below the one before it.
func Decaying(peaks []float64) bool {
	for i := 1; i < len(peaks); i++ {
		if !(peaks[i] < peaks[i-1]) {
			return false
		}
	}
	return len(peaks) > 1
}

// SettlingIndex returns the first index after which data stays within tol
// of target, or -1 if it never settles.
func SettlingIndex(data []float64, target, tol float64) int {
	idx := -1
	for i, v := range data {
		if math.Abs(v-target) > tol {
			idx = -1
			continue
		}
		if idx < 0 {
			idx = i
		}
	}
	return idx
}
