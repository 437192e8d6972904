package sonify

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// biquad is a second-order IIR section in Direct Form I. Coefficients and
// state stay in float64; the per-sample path flushes denormals so a decayed
// resonance cannot stall the renderer.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// newResonantLowpass builds an RBJ low-pass section with the given cutoff
// and resonance Q.
func newResonantLowpass(cutoffHz, sampleRate, q float64) *biquad {
	// Keep the cutoff below Nyquist; the stepped voice can request high
	// cutoffs at low sample rates.
	maxCutoff := 0.49 * sampleRate
	if cutoffHz > maxCutoff {
		cutoffHz = maxCutoff
	}
	if cutoffHz < 1 {
		cutoffHz = 1
	}
	if q < 0.01 {
		q = 0.01
	}

	w0 := 2.0 * math.Pi * cutoffHz / sampleRate
	alpha := math.Sin(w0) / (2.0 * q)
	cosw0 := math.Cos(w0)
	a0 := 1.0 + alpha

	return &biquad{
		b0: (1.0 - cosw0) / 2.0 / a0,
		b1: (1.0 - cosw0) / a0,
		b2: (1.0 - cosw0) / 2.0 / a0,
		a1: -2.0 * cosw0 / a0,
		a2: (1.0 - alpha) / a0,
	}
}

func (b *biquad) process(in float64) float64 {
	out := b.b0*in + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2 = b.x1
	b.x1 = in
	b.y2 = b.y1
	b.y1 = dspcore.FlushDenormals(out)
	return out
}

func (b *biquad) reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}
