package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/gap"
	"github.com/cwbudde/algo-sonify/internal/gapcli"
	"github.com/cwbudde/algo-sonify/playback"
	"github.com/cwbudde/algo-sonify/sonify"
)

func main() {
	catalog := flag.String("catalog", "points.json", "Point catalog path (JSON or YAML)")
	origin := flag.String("origin", "", "Origin point id or title")
	target := flag.String("target", "", "Target point id or title")
	sampleRate := flag.Int("sample-rate", 44100, "Playback sample rate in Hz")
	jitterSeed := flag.Int64("seed", 0, "Step-jitter seed (0 = fresh entropy per playback)")
	verbose := flag.Bool("verbose", false, "Log session transitions")
	flag.Parse()

	if *origin == "" || *target == "" {
		fmt.Fprintln(os.Stderr, "Provide -origin and -target")
		os.Exit(1)
	}

	points, _, err := gapcli.LoadArranged(*catalog, atlas.DefaultLayoutConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog %q: %v\n", *catalog, err)
		os.Exit(1)
	}
	o, tgt, err := gapcli.ResolvePair(points, *origin, *target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving pair: %v\n", err)
		os.Exit(1)
	}

	g := gap.New(o, tgt)
	voices := gap.ComposeVoices(g)
	fmt.Printf("Gap %s: %s ↔ %s\n", g.ID, g.Origin.Title, g.Target.Title)
	fmt.Printf("  similarity %.3f, distance %.2f, %s\n", g.Similarity, g.Distance, voices[2].Label)
	for _, v := range voices {
		fmt.Printf("  voice %-9s %-24s (%s)\n", v.Role, v.Label, v.Timbre)
	}

	cfg := sonify.DefaultConfig()
	cfg.SampleRate = *sampleRate
	cfg.JitterSeed = *jitterSeed
	prog, err := sonify.BuildProgram(g, voices, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building program: %v\n", err)
		os.Exit(1)
	}

	devCfg := playback.DefaultConfig()
	devCfg.SampleRate = *sampleRate
	if *verbose {
		devCfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	dev, err := playback.Open(devCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening playback device: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	done := make(chan struct{})
	session, err := dev.Play(prog, func() {
		fmt.Println("Playback complete.")
		close(done)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Playback error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Playing session %s (%.1f BPM, %.1f s), Ctrl-C stops.\n",
		session.ID(), prog.Step.TempoBPM, prog.DurationS)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	select {
	case <-done:
	case <-interrupt:
		session.Stop()
		fmt.Println("Stopped.")
	}
}
