package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-sonify/impulse"
	"github.com/cwbudde/algo-sonify/wave"
)

func main() {
	output := flag.String("output", "impulse.wav", "Output WAV path")
	kind := flag.String("kind", "noise", "Impulse kind: noise or plate")

	noiseCfg := impulse.DefaultNoiseConfig()
	plateCfg := impulse.DefaultPlateConfig()

	sampleRate := flag.Int("sample-rate", noiseCfg.SampleRate, "Output sample rate")
	duration := flag.Float64("duration", noiseCfg.DurationS, "Impulse length in seconds")
	seed := flag.Int64("seed", noiseCfg.Seed, "Random seed")
	flag.Float64Var(&noiseCfg.Exponent, "exponent", noiseCfg.Exponent, "Decay envelope exponent (noise kind)")
	flag.IntVar(&plateCfg.GridSize, "grid", plateCfg.GridSize, "Finite-difference grid points per axis (plate kind)")
	flag.IntVar(&plateCfg.Modes, "modes", plateCfg.Modes, "Number of membrane modes kept (plate kind)")
	flag.Float64Var(&plateCfg.FundamentalHz, "fundamental", plateCfg.FundamentalHz, "Frequency of the lowest mode (plate kind)")
	flag.Float64Var(&plateCfg.Brightness, "brightness", plateCfg.Brightness, "Spectral brightness control (plate kind)")
	flag.Float64Var(&plateCfg.StereoWidth, "stereo-width", plateCfg.StereoWidth, "Stereo decorrelation width (plate kind)")
	flag.Float64Var(&plateCfg.LowDecayS, "low-decay", plateCfg.LowDecayS, "Low-frequency decay time in s (plate kind)")
	flag.Float64Var(&plateCfg.HighDecayS, "high-decay", plateCfg.HighDecayS, "High-frequency decay time in s (plate kind)")
	flag.Float64Var(&plateCfg.NormalizePeak, "normalize", plateCfg.NormalizePeak, "Peak normalization target (plate kind)")
	flag.Parse()

	var (
		left, right []float32
		err         error
	)
	switch *kind {
	case "noise":
		noiseCfg.SampleRate = *sampleRate
		noiseCfg.DurationS = *duration
		noiseCfg.Seed = *seed
		left, right, err = impulse.GenerateNoise(noiseCfg)
	case "plate":
		plateCfg.SampleRate = *sampleRate
		plateCfg.DurationS = *duration
		plateCfg.Seed = *seed
		left, right, err = impulse.GeneratePlate(plateCfg)
	default:
		fmt.Fprintf(os.Stderr, "ir-synth error: unknown kind %q (use noise or plate)\n", *kind)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ir-synth error: %v\n", err)
		os.Exit(1)
	}

	buf := &wave.Buffer{SampleRate: *sampleRate, Channels: [][]float32{left, right}}
	if err := wave.WriteFile(*output, buf); err != nil {
		fmt.Fprintf(os.Stderr, "wav write error: %v\n", err)
		os.Exit(1)
	}

	peak, rms := stats(left, right)
	fmt.Printf("Wrote %s\n", *output)
	fmt.Printf("Kind: %s, SampleRate: %d Hz, Duration: %.3f s, Samples: %d\n", *kind, *sampleRate, *duration, len(left))
	fmt.Printf("Peak: %.6f, RMS: %.6f\n", peak, rms)
}

func stats(left []float32, right []float32) (peak float64, rms float64) {
	if len(left) == 0 || len(right) == 0 {
		return 0, 0
	}
	var sum float64
	n := len(left) * 2
	for i := 0; i < len(left); i++ {
		lv := float64(left[i])
		rv := float64(right[i])
		a := math.Abs(lv)
		if b := math.Abs(rv); b > a {
			a = b
		}
		if a > peak {
			peak = a
		}
		sum += lv*lv + rv*rv
	}
	return peak, math.Sqrt(sum / float64(n))
}
