package sonify

import (
	"fmt"
	"math"
	"math/rand"
	"time"
	"unicode/utf16"

	"github.com/cwbudde/algo-sonify/gap"
	"github.com/cwbudde/algo-sonify/impulse"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
)

// waveformForTimbre maps a composed timbre tag onto an oscillator shape.
// Unknown tags fall back to sine; a playable voice always resolves.
func waveformForTimbre(tag string) Waveform {
	switch tag {
	case gap.TimbreTriangle:
		return WaveTriangle
	case gap.TimbreSquare:
		return WaveSquare
	default:
		return WaveSine
	}
}

// Config carries the build-time settings shared by live playback and export.
type Config struct {
	SampleRate int

	// ImpulseSeed seeds the generated reverb response, so every realization
	// constructs the same routing graph.
	ImpulseSeed int64

	// JitterSeed seeds the step-timing jitter. Zero draws fresh entropy per
	// build: two realizations of the same gap then differ in micro-timing
	// while sharing all macro structure.
	JitterSeed int64

	// Impulse overrides the generated reverb response when non-nil.
	Impulse *StereoImpulse
}

// StereoImpulse is a caller-supplied reverb response.
type StereoImpulse struct {
	Left  []float32
	Right []float32
}

// DefaultConfig returns the standard build settings.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, ImpulseSeed: 1}
}

func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.Impulse != nil && (len(c.Impulse.Left) == 0 || len(c.Impulse.Right) == 0) {
		return fmt.Errorf("custom impulse has an empty channel")
	}
	return nil
}

// ToneSpec describes one sustained voice: oscillator shape and frequency, a
// base amplitude with an optional linear onset ramp, and an optional
// amplitude LFO added on top.
type ToneSpec struct {
	Wave     Waveform
	FreqHz   float64
	BaseAmp  float64
	RampS    float64 // onset ramp to BaseAmp; 0 starts at full level
	LFOHz    float64 // amplitude modulation rate; 0 disables
	LFODepth float64
}

// Step is one scheduled note of the stepped voice.
type Step struct {
	TimeS  float64
	FreqHz float64
}

// StepSpec describes the filtered 32-step voice.
type StepSpec struct {
	Wave  Waveform
	Steps []Step

	AttackS  float64 // linear attack from the current level to PeakAmp
	PeakAmp  float64
	DecayS   float64 // exponential decay span after each attack
	FloorAmp float64 // decay floor, held until the next step

	CutoffHz float64 // resonant low-pass cutoff
	Q        float64

	TempoBPM   float64
	HalfStepS  float64 // nominal step spacing
	JitterMaxS float64 // per-step timing perturbation bound
}

// Program is the fully resolved signal graph for one gap: every frequency,
// amplitude, step time and the reverb response as plain numbers. Both the
// live driver and the offline renderer execute Programs, which keeps the two
// paths from diverging.
type Program struct {
	SampleRate int

	Low  ToneSpec
	Mod  ToneSpec
	Step StepSpec

	ReverbLeft  []float32
	ReverbRight []float32
	WetMix      float64
	DryMix      float64

	DurationS float64 // 17 · stepTime, covers the 32 half-step sequence
	TailFadeS float64 // fade to silence ending at DurationS
}

const (
	stepCount     = 32
	stepAttackS   = 0.005
	stepPeakAmp   = 0.25
	stepFloorAmp  = 1e-3
	reverbWetMix  = 0.6
	reverbDryMix  = 0.4
	tailFadeS     = 0.05
	stopFadeS     = 0.05
	impulseLenS   = 2.0
	impulseExpont = 3.0
)

// BuildProgram resolves a gap and its composed voices into a Program.
// Non-finite gap parameters clamp to safe defaults (similarity 0.1, distance
// 1.0, center coordinates 0) so the audio parameters always resolve to a
// playable value.
func BuildProgram(g *gap.Gap, voices [3]gap.VoiceDescriptor, cfg Config) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sim := finiteOr(g.Similarity, 0.1)
	dist := finiteOr(g.Distance, 1.0)
	cx := finiteOr(g.CenterX, 0)
	cy := finiteOr(g.CenterY, 0)

	tempo := 90.0 + sim*120.0
	halfStep := 30.0 / tempo
	stepTime := 60.0 / tempo

	low := ToneSpec{
		Wave:    waveformForTimbre(timbreFor(voices, gap.RoleLow)),
		FreqHz:  ScaleFrequency(cx) / 2.0,
		BaseAmp: 0.4,
		RampS:   1.0,
	}
	mod := ToneSpec{
		Wave:     waveformForTimbre(timbreFor(voices, gap.RoleModulated)),
		FreqHz:   ScaleFrequency(cy + 4),
		BaseAmp:  0.1,
		LFOHz:    0.5 + math.Abs(cy),
		LFODepth: 0.15,
	}

	jitterMax := math.Min(0.4, dist/20.0) * halfStep
	rng := rand.New(rand.NewSource(jitterSource(cfg.JitterSeed)))
	seedUnits := utf16.Encode([]rune(g.SeedString()))
	if len(seedUnits) == 0 {
		seedUnits = []uint16{0}
	}

	steps := make([]Step, stepCount)
	for k := 0; k < stepCount; k++ {
		code := int(seedUnits[k%len(seedUnits)])
		idx := (code+k)%16 + 16
		at := float64(k)*halfStep + (rng.Float64()*2.0-1.0)*jitterMax
		if at < 0 {
			at = 0
		}
		steps[k] = Step{TimeS: at, FreqHz: ScaleFrequency(float64(idx))}
	}

	step := StepSpec{
		Wave:       waveformForTimbre(timbreFor(voices, gap.RoleStepped)),
		Steps:      steps,
		AttackS:    stepAttackS,
		PeakAmp:    stepPeakAmp,
		DecayS:     0.7 * halfStep,
		FloorAmp:   stepFloorAmp,
		CutoffHz:   800.0 + sim*4000.0,
		Q:          5.0,
		TempoBPM:   tempo,
		HalfStepS:  halfStep,
		JitterMaxS: jitterMax,
	}

	left, right, err := reverbImpulse(cfg)
	if err != nil {
		return nil, fmt.Errorf("reverb impulse: %w", err)
	}

	return &Program{
		SampleRate:  cfg.SampleRate,
		Low:         low,
		Mod:         mod,
		Step:        step,
		ReverbLeft:  left,
		ReverbRight: right,
		WetMix:      reverbWetMix,
		DryMix:      reverbDryMix,
		DurationS:   17.0 * stepTime,
		TailFadeS:   tailFadeS,
	}, nil
}

func timbreFor(voices [3]gap.VoiceDescriptor, role gap.VoiceRole) string {
	for _, v := range voices {
		if v.Role == role {
			return v.Timbre
		}
	}
	return ""
}

func reverbImpulse(cfg Config) ([]float32, []float32, error) {
	if cfg.Impulse != nil {
		return cfg.Impulse.Left, cfg.Impulse.Right, nil
	}
	return impulse.GenerateNoise(impulse.NoiseConfig{
		SampleRate: cfg.SampleRate,
		DurationS:  impulseLenS,
		Exponent:   impulseExpont,
		Seed:       cfg.ImpulseSeed,
	})
}

func jitterSource(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
