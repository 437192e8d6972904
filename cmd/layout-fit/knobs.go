package main

import (
	"math"

	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/internal/gapcli"
)

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

type candidate struct {
	Vals []float64
}

// layoutKnobs spans the relaxation schedule searched by the optimizer. The
// library defaults stay fixed; this tool only reports what the search finds.
func layoutKnobs() []knobDef {
	return []knobDef{
		{Name: "gain", Min: 0.01, Max: 0.5},
		{Name: "iterations", Min: 10, Max: 200, IsInt: true},
		{Name: "radius", Min: 0.5, Max: 10},
	}
}

// fromNormalized maps a [0,1] genome onto knob ranges, rounding integer
// knobs.
func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i, d := range defs {
		v := gapcli.Clamp(pos[i], 0, 1)
		vals[i] = d.Min + v*(d.Max-d.Min)
		if d.IsInt {
			vals[i] = math.Round(vals[i])
		}
	}
	return candidate{Vals: vals}
}

// toLayoutConfig applies a candidate onto the default schedule.
func toLayoutConfig(defs []knobDef, c candidate) atlas.LayoutConfig {
	cfg := atlas.DefaultLayoutConfig()
	for i, d := range defs {
		switch d.Name {
		case "gain":
			cfg.Gain = c.Vals[i]
		case "iterations":
			cfg.Iterations = int(c.Vals[i])
		case "radius":
			cfg.Radius = c.Vals[i]
		}
	}
	return cfg
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}
