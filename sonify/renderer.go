package sonify

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-approx"
)

// Renderer executes a Program block by block against a sample-position clock.
// There is no wall clock anywhere in the signal path, so the same Renderer
// serves the live playback driver and the offline export path.
type Renderer struct {
	prog *Program
	sr   float64

	pos         int // frames produced so far
	totalFrames int

	low  *toneVoice
	mod  *toneVoice
	step *stepVoice

	reverb *reverbBus

	fadeGain float64 // stop-fade level, 1 when no stop was requested
	fadeStep float64 // per-frame decrement once FadeOut begins
	fading   bool
	done     bool
}

// NewRenderer prepares the execution state for one Program realization.
func NewRenderer(prog *Program) (*Renderer, error) {
	if prog == nil {
		return nil, fmt.Errorf("renderer: nil program")
	}
	if prog.SampleRate < 8000 {
		return nil, fmt.Errorf("renderer: sample rate too low: %d", prog.SampleRate)
	}
	sr := float64(prog.SampleRate)

	reverb, err := newReverbBus(prog.ReverbLeft, prog.ReverbRight)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	return &Renderer{
		prog:        prog,
		sr:          sr,
		totalFrames: int(math.Round(prog.DurationS * sr)),
		low:         newToneVoice(prog.Low, sr),
		mod:         newToneVoice(prog.Mod, sr),
		step:        newStepVoice(prog.Step, sr),
		reverb:      reverb,
		fadeGain:    1,
	}, nil
}

// TotalFrames returns the length of the rendered window in frames.
func (r *Renderer) TotalFrames() int { return r.totalFrames }

// Done reports whether the Renderer has produced its full window, or faded
// to silence after FadeOut.
func (r *Renderer) Done() bool { return r.done }

// FadeOut begins the stop fade: the master bus ramps to silence over 50 ms
// and the Renderer reports Done once the ramp finishes. Safe to call at any
// point; calling it again has no further effect.
func (r *Renderer) FadeOut() {
	if r.fading {
		return
	}
	r.fading = true
	fadeFrames := stopFadeS * r.sr
	if fadeFrames < 1 {
		fadeFrames = 1
	}
	r.fadeStep = 1.0 / fadeFrames
}

// Process renders up to numFrames stereo frames and returns them interleaved.
// The last block may be shorter; after that Process returns nil and Done
// reports true.
func (r *Renderer) Process(numFrames int) []float32 {
	if r.done || numFrames <= 0 {
		r.done = true
		return nil
	}
	frames := numFrames
	if remaining := r.totalFrames - r.pos; frames > remaining {
		frames = remaining
	}
	if frames <= 0 {
		r.done = true
		return nil
	}

	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		t := float64(r.pos+i) / r.sr
		s := r.low.next(t) + r.mod.next(t) + r.step.next(t)
		mono[i] = float32(s)
	}

	out := r.reverb.process(mono, r.prog.WetMix, r.prog.DryMix)

	// Master envelope: the end fade closes the window; a stop fade, once
	// requested, multiplies on top and ends the render early.
	tailStart := r.prog.DurationS - r.prog.TailFadeS
	for i := 0; i < frames; i++ {
		g := r.fadeGain
		if r.fading {
			r.fadeGain -= r.fadeStep
			if r.fadeGain < 0 {
				r.fadeGain = 0
			}
		}
		if r.prog.TailFadeS > 0 {
			t := float64(r.pos+i) / r.sr
			if t > tailStart {
				tg := (r.prog.DurationS - t) / r.prog.TailFadeS
				if tg < 0 {
					tg = 0
				}
				g *= tg
			}
		}
		out[i*2] *= float32(g)
		out[i*2+1] *= float32(g)
	}

	r.pos += frames
	if r.pos >= r.totalFrames || (r.fading && r.fadeGain <= 0) {
		r.done = true
	}
	return out
}

// toneVoice realizes one sustained ToneSpec: a phase-accumulating oscillator
// under an onset ramp and an optional amplitude LFO.
type toneVoice struct {
	spec  ToneSpec
	sr    float64
	phase float64
	inc   float64
}

func newToneVoice(spec ToneSpec, sr float64) *toneVoice {
	return &toneVoice{spec: spec, sr: sr, inc: spec.FreqHz / sr}
}

func (v *toneVoice) next(t float64) float64 {
	s := oscillate(v.spec.Wave, v.phase)
	v.phase += v.inc
	if v.phase >= 1 {
		v.phase -= 1
	}

	amp := v.spec.BaseAmp
	if v.spec.RampS > 0 && t < v.spec.RampS {
		amp *= t / v.spec.RampS
	}
	if v.spec.LFOHz > 0 {
		amp += v.spec.LFODepth * math.Sin(2*math.Pi*v.spec.LFOHz*t)
		if amp < 0 {
			amp = 0
		}
	}
	return s * amp
}

// stepVoice realizes the filtered 32-step melody: per-step attack/decay
// envelope over a retuned oscillator, through the resonant low-pass.
type stepVoice struct {
	spec StepSpec
	sr   float64

	steps   []Step // sorted by onset time
	pending int    // index of the next step to trigger

	phase float64
	inc   float64

	level      float64
	attackLeft int
	attackInc  float64
	decayCoef  float64

	filter *biquad
}

func newStepVoice(spec StepSpec, sr float64) *stepVoice {
	steps := make([]Step, len(spec.Steps))
	copy(steps, spec.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].TimeS < steps[j].TimeS })

	return &stepVoice{
		spec:   spec,
		sr:     sr,
		steps:  steps,
		filter: newResonantLowpass(spec.CutoffHz, sr, spec.Q),
	}
}

// decayCoefficient returns the per-sample multiplier that carries the
// envelope from peak down to the floor across the decay span.
func decayCoefficient(peak, floor, decayS, sr float64) float64 {
	n := decayS * sr
	if n < 1 {
		n = 1
	}
	if peak <= 0 || floor <= 0 || floor >= peak {
		return 0
	}
	return float64(approx.FastExp(float32(math.Log(floor/peak) / n)))
}

func (v *stepVoice) trigger(s Step) {
	v.inc = s.FreqHz / v.sr
	attackFrames := int(math.Round(v.spec.AttackS * v.sr))
	if attackFrames < 1 {
		attackFrames = 1
	}
	v.attackLeft = attackFrames
	v.attackInc = (v.spec.PeakAmp - v.level) / float64(attackFrames)
	v.decayCoef = decayCoefficient(v.spec.PeakAmp, v.spec.FloorAmp, v.spec.DecayS, v.sr)
}

func (v *stepVoice) next(t float64) float64 {
	for v.pending < len(v.steps) && t >= v.steps[v.pending].TimeS {
		v.trigger(v.steps[v.pending])
		v.pending++
	}

	if v.attackLeft > 0 {
		v.level += v.attackInc
		v.attackLeft--
	} else if v.level > v.spec.FloorAmp {
		v.level = v.spec.FloorAmp + (v.level-v.spec.FloorAmp)*v.decayCoef
	}

	s := oscillate(v.spec.Wave, v.phase)
	v.phase += v.inc
	if v.phase >= 1 {
		v.phase -= 1
	}
	return v.filter.process(s * v.level)
}

// oscillate evaluates one waveform at a phase in [0, 1).
func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
