package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-sonify/analysis"
	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/gap"
	"github.com/cwbudde/algo-sonify/impulse"
	"github.com/cwbudde/algo-sonify/internal/gapcli"
	"github.com/cwbudde/algo-sonify/sonify"
	"github.com/cwbudde/algo-sonify/wave"
)

func main() {
	catalog := flag.String("catalog", "points.json", "Point catalog path (JSON or YAML)")
	origin := flag.String("origin", "", "Origin point id or title")
	target := flag.String("target", "", "Target point id or title")
	output := flag.String("output", "", "Output WAV path (default: canonical gap file name)")
	outDir := flag.String("out-dir", ".", "Output directory for -all")
	all := flag.Bool("all", false, "Render every unordered point pair")
	workersRaw := flag.String("workers", "auto", "Concurrent renders for -all (integer or 'auto')")
	sampleRate := flag.Int("sample-rate", 44100, "Render sample rate in Hz")
	jitterSeed := flag.Int64("seed", 0, "Step-jitter seed (0 = fresh entropy per render)")
	impulseSeed := flag.Int64("impulse-seed", 1, "Reverb impulse seed")
	reverb := flag.String("reverb", "noise", "Reverb impulse kind: noise or plate")
	irPath := flag.String("ir", "", "Custom reverb impulse WAV path (overrides -reverb)")
	showStats := flag.Bool("stats", false, "Print a level/spectral summary per rendered gap")
	flag.Parse()

	points, _, err := gapcli.LoadArranged(*catalog, atlas.DefaultLayoutConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog %q: %v\n", *catalog, err)
		os.Exit(1)
	}

	cfg := sonify.DefaultConfig()
	cfg.SampleRate = *sampleRate
	cfg.JitterSeed = *jitterSeed
	cfg.ImpulseSeed = *impulseSeed
	if err := configureImpulse(&cfg, *reverb, *irPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing reverb impulse: %v\n", err)
		os.Exit(1)
	}

	if *all {
		workers, err := gapcli.ParseWorkers(*workersRaw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -workers: %v\n", err)
			os.Exit(1)
		}
		if workers == 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		if err := renderAll(points, cfg, *outDir, workers, *showStats); err != nil {
			fmt.Fprintf(os.Stderr, "Batch render error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *origin == "" || *target == "" {
		fmt.Fprintln(os.Stderr, "Provide -origin and -target, or -all")
		os.Exit(1)
	}
	o, tgt, err := gapcli.ResolvePair(points, *origin, *target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving pair: %v\n", err)
		os.Exit(1)
	}

	g := gap.New(o, tgt)
	path := *output
	if path == "" {
		path = sonify.ExportFileName(g)
	}
	if err := renderOne(g, cfg, path, *showStats); err != nil {
		fmt.Fprintf(os.Stderr, "Render error: %v\n", err)
		os.Exit(1)
	}
}

func configureImpulse(cfg *sonify.Config, kind, irPath string) error {
	if irPath != "" {
		left, right, err := impulse.LoadWAV(irPath, cfg.SampleRate)
		if err != nil {
			return err
		}
		cfg.Impulse = &sonify.StereoImpulse{Left: left, Right: right}
		return nil
	}
	switch kind {
	case "noise":
		// BuildProgram generates the canonical noise impulse itself.
		return nil
	case "plate":
		plateCfg := impulse.DefaultPlateConfig()
		plateCfg.SampleRate = cfg.SampleRate
		plateCfg.Seed = cfg.ImpulseSeed
		left, right, err := impulse.GeneratePlate(plateCfg)
		if err != nil {
			return err
		}
		cfg.Impulse = &sonify.StereoImpulse{Left: left, Right: right}
		return nil
	default:
		return fmt.Errorf("unknown reverb kind %q (use noise or plate)", kind)
	}
}

func renderOne(g *gap.Gap, cfg sonify.Config, path string, showStats bool) error {
	prog, err := sonify.BuildProgram(g, gap.ComposeVoices(g), cfg)
	if err != nil {
		return err
	}
	if err := sonify.ExportWAV(path, prog); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s ↔ %s, similarity %.3f, %d shared links, %.1f BPM)\n",
		path, g.Origin.Title, g.Target.Title, g.Similarity, len(g.SharedLinks), prog.Step.TempoBPM)
	if showStats {
		printStats(path, prog)
	}
	return nil
}

func printStats(path string, prog *sonify.Program) {
	buf, err := sonify.Render(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats render failed for %s: %v\n", path, err)
		return
	}
	mono := monoMix(buf)
	s := analysis.Describe(mono, prog.SampleRate)
	fmt.Printf("  peak %.4f, RMS %.4f, centroid %.0f Hz, %.2f s\n",
		s.Peak, s.RMS, s.CentroidHz, s.DurationS)
}

func monoMix(buf *wave.Buffer) []float64 {
	frames := buf.Frames()
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for _, ch := range buf.Channels {
			sum += float64(ch[i])
		}
		out[i] = sum / float64(len(buf.Channels))
	}
	return out
}

// renderAll exports every unordered pair, bounded by the worker limit. Pairs
// are distinct by construction, which keeps the caller-side admission rule:
// no two concurrent exports share a logical request.
func renderAll(points []*atlas.Point, cfg sonify.Config, outDir string, workers int, showStats bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(workers)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			o, t := points[i], points[j]
			eg.Go(func() error {
				g := gap.New(o, t)
				path := filepath.Join(outDir, sonify.ExportFileName(g))
				return renderOne(g, cfg, path, showStats)
			})
		}
	}
	return eg.Wait()
}
