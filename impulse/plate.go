package impulse

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	pdefd "github.com/cwbudde/algo-pde/fd"
	pdepoisson "github.com/cwbudde/algo-pde/poisson"
)

// PlateConfig controls the membrane-mode response.
type PlateConfig struct {
	SampleRate int
	DurationS  float64
	GridSize   int   // finite-difference points per plate axis
	Modes      int   // cap on modes kept after frequency sorting
	Seed       int64 // amplitude jitter, phase and pan only

	FundamentalHz float64 // frequency the (1,1) mode is scaled onto
	AspectRatio   float64 // second axis length relative to the first
	Brightness    float64
	StereoWidth   float64

	LowDecayS   float64 // decay for modes below CrossoverHz
	HighDecayS  float64 // decay for modes above CrossoverHz
	CrossoverHz float64
	FadeOutS    float64

	NormalizePeak float64
}

// DefaultPlateConfig returns a dark two-second plate.
func DefaultPlateConfig() PlateConfig {
	return PlateConfig{
		SampleRate:    44100,
		DurationS:     2.0,
		GridSize:      24,
		Modes:         96,
		Seed:          1,
		FundamentalHz: 55.0,
		AspectRatio:   1.4,
		Brightness:    0.8,
		StereoWidth:   0.6,
		LowDecayS:     1.6,
		HighDecayS:    0.25,
		CrossoverHz:   900.0,
		FadeOutS:      0.01,
		NormalizePeak: 0.9,
	}
}

func (c *PlateConfig) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.GridSize < 2 {
		return fmt.Errorf("grid size must be >= 2")
	}
	if c.Modes < 1 {
		return fmt.Errorf("modes must be >= 1")
	}
	if c.FundamentalHz <= 0 {
		return fmt.Errorf("fundamental must be > 0")
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("aspect ratio must be > 0")
	}
	if c.Brightness <= 0 {
		return fmt.Errorf("brightness must be > 0")
	}
	if c.StereoWidth < 0 {
		return fmt.Errorf("stereo width must be >= 0")
	}
	if c.LowDecayS <= 0 || c.HighDecayS <= 0 {
		return fmt.Errorf("decay seconds must be > 0")
	}
	if c.CrossoverHz <= 0 {
		return fmt.Errorf("crossover Hz must be > 0")
	}
	if c.NormalizePeak <= 0 {
		return fmt.Errorf("normalize peak must be > 0")
	}
	return nil
}

// GeneratePlate synthesizes a stereo response from the eigenmodes of a
// rectangular membrane with clamped edges. Per-axis stiffnesses come from the
// finite-difference Laplacian eigenspectrum with Dirichlet boundaries; a mode
// (m, n) rings at a frequency proportional to sqrt(λx[m] + λy[n]), scaled so
// the (1,1) mode lands on FundamentalHz. The RNG only jitters amplitude,
// phase and pan; mode placement is fully deterministic.
func GeneratePlate(cfg PlateConfig) ([]float32, []float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	n := int(math.Round(cfg.DurationS * float64(cfg.SampleRate)))
	if n < 1 {
		n = 1
	}
	left := make([]float64, n)
	right := make([]float64, n)

	hx := 1.0 / float64(cfg.GridSize+1)
	hy := hx * cfg.AspectRatio
	lamX := pdefd.Eigenvalues(cfg.GridSize, hx, pdepoisson.Dirichlet)
	lamY := pdefd.Eigenvalues(cfg.GridSize, hy, pdepoisson.Dirichlet)

	base := math.Sqrt(lamX[0] + lamY[0])
	scale := cfg.FundamentalHz / base
	maxF := 0.47 * float64(cfg.SampleRate)

	freqs := make([]float64, 0, cfg.GridSize*cfg.GridSize)
	for _, lx := range lamX {
		for _, ly := range lamY {
			f := scale * math.Sqrt(lx+ly)
			if f > maxF {
				continue
			}
			freqs = append(freqs, f)
		}
	}
	sort.Float64s(freqs)
	if len(freqs) > cfg.Modes {
		freqs = freqs[:cfg.Modes]
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	logCrossover := math.Log(cfg.CrossoverHz)
	brightnessExp := 0.7 + 0.9*cfg.Brightness
	for _, f := range freqs {
		amp := 0.9 / math.Pow(1.0+f/120.0, brightnessExp)
		amp *= 0.7 + 0.6*rng.Float64()

		// Sigmoid blend: 0 = pure LowDecayS, 1 = pure HighDecayS.
		blend := 1.0 / (1.0 + math.Exp(-3.0*(math.Log(f)-logCrossover)))
		tau := cfg.LowDecayS*(1.0-blend) + cfg.HighDecayS*blend
		decay := math.Exp(-1.0 / (tau * float64(cfg.SampleRate)))

		pan := (rng.Float64()*2.0 - 1.0) * cfg.StereoWidth
		phi := rng.Float64() * 2.0 * math.Pi
		addModeRec(left, amp*(1.0-0.45*pan), f*(1.0-0.004*pan), phi, decay, cfg.SampleRate)
		addModeRec(right, amp*(1.0+0.45*pan), f*(1.0+0.004*pan), phi+0.01*pan, decay, cfg.SampleRate)
	}

	highpassDC(left, 0.995)
	highpassDC(right, 0.995)
	applyFadeOut(left, cfg.FadeOutS, cfg.SampleRate)
	applyFadeOut(right, cfg.FadeOutS, cfg.SampleRate)

	peak := maxAbs(left)
	if rp := maxAbs(right); rp > peak {
		peak = rp
	}
	if peak < 1e-12 {
		peak = 1e-12
	}
	s := cfg.NormalizePeak / peak
	outL := make([]float32, n)
	outR := make([]float32, n)
	for i := 0; i < n; i++ {
		outL[i] = float32(left[i] * s)
		outR[i] = float32(right[i] * s)
	}
	return outL, outR, nil
}
