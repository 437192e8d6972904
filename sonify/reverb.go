package sonify

import (
	"fmt"
	"math"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"
)

const reverbPartSize = 128

// reverbBus is the master mix bus: the mono voice sum runs through a pair of
// partitioned convolvers (one impulse channel each) on the wet path, while
// the dry path feeds both output channels directly.
type reverbBus struct {
	leftOLA  *dspconv.StreamingOverlapAddT[float32, complex64]
	rightOLA *dspconv.StreamingOverlapAddT[float32, complex64]

	leftOut  []float32
	rightOut []float32
}

func newReverbBus(leftIR, rightIR []float32) (*reverbBus, error) {
	if len(leftIR) == 0 || len(rightIR) == 0 {
		return nil, fmt.Errorf("reverb bus: empty impulse channel")
	}
	leftIR, rightIR = normalizeImpulsePair(leftIR, rightIR)
	leftOLA, err := dspconv.NewStreamingOverlapAdd32(leftIR, reverbPartSize)
	if err != nil {
		return nil, fmt.Errorf("reverb bus: %w", err)
	}
	rightOLA, err := dspconv.NewStreamingOverlapAdd32(rightIR, reverbPartSize)
	if err != nil {
		return nil, fmt.Errorf("reverb bus: %w", err)
	}
	return &reverbBus{
		leftOLA:  leftOLA,
		rightOLA: rightOLA,
		leftOut:  make([]float32, reverbPartSize),
		rightOut: make([]float32, reverbPartSize),
	}, nil
}

// process mixes the mono input into stereo interleaved output: wet·reverb +
// dry·input per channel. Arbitrary input lengths are handled in partition
// blocks; a convolver error passes the block through dry.
func (b *reverbBus) process(input []float32, wet, dry float64) []float32 {
	output := make([]float32, len(input)*2)
	if len(input) == 0 {
		return output
	}

	processed := 0
	for processed < len(input) {
		blockEnd := processed + reverbPartSize
		if blockEnd > len(input) {
			blockEnd = len(input)
		}
		blockLen := blockEnd - processed
		block := input[processed:blockEnd]
		if blockLen < reverbPartSize {
			padded := make([]float32, reverbPartSize)
			copy(padded, block)
			block = padded
		}

		errL := b.leftOLA.ProcessBlockTo(b.leftOut, block)
		errR := b.rightOLA.ProcessBlockTo(b.rightOut, block)
		if errL != nil || errR != nil {
			for i := 0; i < blockLen; i++ {
				output[(processed+i)*2] = input[processed+i]
				output[(processed+i)*2+1] = input[processed+i]
			}
			processed = blockEnd
			continue
		}

		for i := 0; i < blockLen; i++ {
			d := float64(input[processed+i]) * dry
			output[(processed+i)*2] = float32(float64(b.leftOut[i])*wet + d)
			output[(processed+i)*2+1] = float32(float64(b.rightOut[i])*wet + d)
		}
		processed = blockEnd
	}
	return output
}

func (b *reverbBus) reset() {
	b.leftOLA.Reset()
	b.rightOLA.Reset()
}

// normalizeImpulsePair rescales both impulse channels by one equal-power
// gain so the mean per-channel energy is 1. Convolution with the scaled
// response then preserves signal level, keeping the wet/dry sum inside
// headroom for any impulse source. The input slices are left untouched.
func normalizeImpulsePair(left, right []float32) ([]float32, []float32) {
	var energy float64
	for _, v := range left {
		energy += float64(v) * float64(v)
	}
	for _, v := range right {
		energy += float64(v) * float64(v)
	}
	if energy <= 0 {
		return left, right
	}
	k := float32(1.0 / math.Sqrt(energy/2.0))
	outL := make([]float32, len(left))
	for i, v := range left {
		outL[i] = v * k
	}
	outR := make([]float32, len(right))
	for i, v := range right {
		outR[i] = v * k
	}
	return outL, outR
}
