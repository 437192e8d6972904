// Package analysis summarizes rendered audio for diagnostics: level and
// spectral summaries, a narrow-band peak search and FFT cross-correlation.
package analysis

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// Summary is a compact description of one audio channel.
type Summary struct {
	Peak       float64 `json:"peak"`
	RMS        float64 `json:"rms"`
	CentroidHz float64 `json:"centroid_hz"`
	DurationS  float64 `json:"duration_s"`
}

// analysisWindow caps the segment used for spectral measurements.
const analysisWindow = 4096

// Describe measures peak, RMS, spectral centroid and duration of a signal.
// The centroid is taken over a window at the signal's loudest region, so a
// long reverb tail does not drown the voicing.
func Describe(x []float64, sampleRate int) Summary {
	s := Summary{
		Peak:      maxAbs(x),
		RMS:       rms(x),
		DurationS: float64(len(x)) / float64(sampleRate),
	}
	if len(x) == 0 || sampleRate <= 0 {
		return s
	}

	start := loudestWindowStart(x, analysisWindow)
	end := start + analysisWindow
	if end > len(x) {
		end = len(x)
	}
	s.CentroidHz = centroid(x[start:end], sampleRate)
	return s
}

// PeakNear scans DFT bins within ±spanHz of centerHz and returns the
// frequency and magnitude of the strongest bin. A zero span degenerates to
// the single bin at centerHz.
func PeakNear(x []float64, sampleRate int, centerHz, spanHz float64) (freqHz, magnitude float64) {
	n := len(x)
	if n == 0 || sampleRate <= 0 {
		return 0, 0
	}
	if n > 2*analysisWindow {
		n = 2 * analysisWindow
		x = x[:n]
	}
	binHz := float64(sampleRate) / float64(n)
	lo := int(math.Floor((centerHz - spanHz) / binHz))
	hi := int(math.Ceil((centerHz + spanHz) / binHz))
	if lo < 1 {
		lo = 1
	}
	if hi > n/2 {
		hi = n / 2
	}

	bestBin := -1
	bestMag := 0.0
	for bin := lo; bin <= hi; bin++ {
		if m := dftBinMag(x, bin); m > bestMag {
			bestMag = m
			bestBin = bin
		}
	}
	if bestBin < 0 {
		return 0, 0
	}
	return float64(bestBin) * binHz, bestMag
}

// CrossCorrelate returns the full cross-correlation of a against b. Index
// len(b)-1 corresponds to zero lag.
func CrossCorrelate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("cross-correlate: empty input")
	}
	a32 := make([]float32, len(a))
	for i, v := range a {
		a32[i] = float32(v)
	}
	rev := make([]float32, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = float32(v)
	}
	conv := make([]float32, len(a)+len(b)-1)
	if err := algofft.ConvolveReal(conv, a32, rev); err != nil {
		return nil, fmt.Errorf("cross-correlate: %w", err)
	}
	out := make([]float64, len(conv))
	for i, v := range conv {
		out[i] = float64(v)
	}
	return out, nil
}

// EstimateLag returns the sample offset of b relative to a maximizing their
// cross-correlation. Positive means b lags a.
func EstimateLag(a, b []float64) (int, error) {
	xc, err := CrossCorrelate(a, b)
	if err != nil {
		return 0, err
	}
	best := 0
	bestVal := math.Inf(-1)
	for i, v := range xc {
		if v > bestVal {
			bestVal = v
			best = i
		}
	}
	return (len(b) - 1) - best, nil
}

// dftBinMag evaluates the magnitude of one DFT bin directly.
func dftBinMag(x []float64, bin int) float64 {
	n := len(x)
	var re, im float64
	w := -2.0 * math.Pi * float64(bin) / float64(n)
	for i, v := range x {
		phase := w * float64(i)
		re += v * math.Cos(phase)
		im += v * math.Sin(phase)
	}
	return math.Hypot(re, im) / float64(n)
}

func centroid(x []float64, sampleRate int) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}
	binHz := float64(sampleRate) / float64(n)
	var weighted, total float64
	for bin := 1; bin <= n/2; bin++ {
		m := dftBinMag(x, bin)
		weighted += m * float64(bin) * binHz
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// loudestWindowStart finds the start of the window with maximal energy,
// scanned at half-window hops.
func loudestWindowStart(x []float64, window int) int {
	if len(x) <= window {
		return 0
	}
	hop := window / 2
	best := 0
	bestEnergy := -1.0
	for start := 0; start+window <= len(x); start += hop {
		var e float64
		for _, v := range x[start : start+window] {
			e += v * v
		}
		if e > bestEnergy {
			bestEnergy = e
			best = start
		}
	}
	return best
}

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
