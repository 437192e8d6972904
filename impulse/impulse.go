// Package impulse builds reverberation impulse responses for the gap
// renderer: the canonical decaying-noise pair, a modal plate alternative and
// responses loaded from WAV files.
package impulse

import (
	"fmt"
	"math"
	"math/rand"
)

// NoiseConfig controls the decaying-noise response.
type NoiseConfig struct {
	SampleRate int
	DurationS  float64
	Exponent   float64
	Seed       int64
}

// DefaultNoiseConfig returns the canonical reverb response parameters: two
// seconds of uniform noise under a cubic decay envelope.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		SampleRate: 44100,
		DurationS:  2.0,
		Exponent:   3.0,
		Seed:       1,
	}
}

func (c *NoiseConfig) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.Exponent <= 0 {
		return fmt.Errorf("exponent must be > 0")
	}
	return nil
}

// GenerateNoise synthesizes the stereo decaying-noise response,
// sample[j] = uniform(-1,1) · (1 − j/n)^Exponent, drawing each channel in
// full from the seeded source so the pair is decorrelated but reproducible.
func GenerateNoise(cfg NoiseConfig) ([]float32, []float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	n := int(math.Round(cfg.DurationS * float64(cfg.SampleRate)))
	if n < 1 {
		n = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	left := fillDecayingNoise(rng, n, cfg.Exponent)
	right := fillDecayingNoise(rng, n, cfg.Exponent)
	return left, right, nil
}

func fillDecayingNoise(rng *rand.Rand, n int, exponent float64) []float32 {
	out := make([]float32, n)
	for j := 0; j < n; j++ {
		env := math.Pow(1.0-float64(j)/float64(n), exponent)
		out[j] = float32((rng.Float64()*2.0 - 1.0) * env)
	}
	return out
}

func addModeRec(out []float64, amp float64, freq float64, phase float64, decay float64, sampleRate int) {
	if len(out) == 0 {
		return
	}
	w := 2.0 * math.Pi * freq / float64(sampleRate)
	cw := math.Cos(w)
	x0 := math.Cos(phase)
	x1 := math.Cos(phase + w)
	env := 1.0

	out[0] += amp * env * x0
	env *= decay
	if len(out) == 1 {
		return
	}
	out[1] += amp * env * x1
	env *= decay
	for i := 2; i < len(out); i++ {
		x2 := 2.0*cw*x1 - x0
		x0 = x1
		x1 = x2
		out[i] += amp * env * x2
		env *= decay
	}
}

func highpassDC(x []float64, r float64) {
	if len(x) == 0 {
		return
	}
	prevIn := 0.0
	prevOut := 0.0
	for i := range x {
		y := x[i] - prevIn + r*prevOut
		prevIn = x[i]
		prevOut = y
		x[i] = y
	}
}

// applyFadeOut applies a cosine fade-out to the last fadeS seconds of buf.
func applyFadeOut(buf []float64, fadeS float64, sampleRate int) {
	if fadeS <= 0 || len(buf) == 0 {
		return
	}
	fadeSamples := int(math.Round(fadeS * float64(sampleRate)))
	if fadeSamples > len(buf) {
		fadeSamples = len(buf)
	}
	start := len(buf) - fadeSamples
	for i := 0; i < fadeSamples; i++ {
		t := float64(i) / float64(fadeSamples)
		buf[start+i] *= 0.5 * (1.0 + math.Cos(t*math.Pi))
	}
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
