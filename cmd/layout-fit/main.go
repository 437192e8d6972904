package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/pointset"
)

type fitReport struct {
	Catalog       string             `json:"catalog"`
	Points        int                `json:"points"`
	Variant       string             `json:"variant"`
	Evals         int                `json:"evals"`
	DefaultStress float64            `json:"default_stress"`
	BestStress    float64            `json:"best_stress"`
	BestKnobs     map[string]float64 `json:"best_knobs"`
}

func main() {
	catalog := flag.String("catalog", "points.json", "Point catalog path (JSON or YAML)")
	variant := flag.String("variant", "ma", "Mayfly variant: ma, desma, olce, eobbma, gsasma, mpma, aoblmoa")
	pop := flag.Int("pop", 20, "Population size per sex")
	iters := flag.Int("iterations", 40, "Optimizer iterations")
	seed := flag.Int64("seed", 1, "Optimizer random seed")
	reportPath := flag.String("report", "", "Write the JSON report to this path (default: stdout only)")
	flag.Parse()

	points, err := pointset.Load(*catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog %q: %v\n", *catalog, err)
		os.Exit(1)
	}
	if len(points) < 2 {
		fmt.Fprintln(os.Stderr, "Need at least two points to fit a layout")
		os.Exit(1)
	}
	m := atlas.NewSimilarityMatrix(points)

	defs := layoutKnobs()

	defaultStress, err := evaluate(points, m, atlas.DefaultLayoutConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Default evaluation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Default schedule stress: %.6f\n", defaultStress)

	var mu sync.Mutex
	best := candidate{}
	bestStress := math.Inf(1)
	evals := 0

	cfg, err := newMayflyConfig(*variant, *pop, len(defs), *iters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Optimizer config error: %v\n", err)
		os.Exit(1)
	}
	cfg.Rand = rand.New(rand.NewSource(*seed))
	cfg.ObjectiveFunc = func(pos []float64) float64 {
		cand := fromNormalized(pos, defs)
		stress, err := evaluate(points, m, toLayoutConfig(defs, cand))
		if err != nil {
			return math.Inf(1)
		}
		mu.Lock()
		evals++
		if stress < bestStress {
			bestStress = stress
			best = cloneCandidate(cand)
			fmt.Printf("eval %d: stress %.6f %v\n", evals, stress, knobMap(defs, cand))
		}
		mu.Unlock()
		return stress
	}

	if _, err := runMayfly(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Optimizer error: %v\n", err)
		os.Exit(1)
	}
	if len(best.Vals) == 0 {
		fmt.Fprintln(os.Stderr, "Optimizer produced no finite evaluation")
		os.Exit(1)
	}

	report := fitReport{
		Catalog:       *catalog,
		Points:        len(points),
		Variant:       *variant,
		Evals:         evals,
		DefaultStress: defaultStress,
		BestStress:    bestStress,
		BestKnobs:     knobMap(defs, best),
	}
	fmt.Printf("Best stress %.6f after %d evals (default %.6f)\n", bestStress, evals, defaultStress)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Report encoding error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	if *reportPath != "" {
		if err := os.WriteFile(*reportPath, append(out, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Report write error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *reportPath)
	}
}

// evaluate arranges a fresh copy of the points under cfg and reports the
// residual stress. The caller's points are never moved.
func evaluate(points []*atlas.Point, m *atlas.SimilarityMatrix, cfg atlas.LayoutConfig) (float64, error) {
	work := make([]*atlas.Point, len(points))
	for i, p := range points {
		work[i] = atlas.NewPoint(p.ID, p.Title, p.Links())
	}
	if err := atlas.Arrange(work, m, cfg); err != nil {
		return 0, err
	}
	return atlas.Stress(work, m, cfg.Spring), nil
}

func knobMap(defs []knobDef, c candidate) map[string]float64 {
	out := make(map[string]float64, len(defs))
	for i, d := range defs {
		out[d.Name] = c.Vals[i]
	}
	return out
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = int(math.Max(1, math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}
