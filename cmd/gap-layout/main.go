package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/internal/gapcli"
)

type layoutEntry struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Links int     `json:"links"`
}

type layoutReport struct {
	Points []layoutEntry `json:"points"`
	Stress float64       `json:"stress"`
}

func main() {
	catalog := flag.String("catalog", "points.json", "Point catalog path (JSON or YAML)")
	iterations := flag.Int("iterations", 0, "Relaxation passes (0 = default schedule)")
	asJSON := flag.Bool("json", false, "Emit the layout as JSON")
	flag.Parse()

	cfg := atlas.DefaultLayoutConfig()
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}

	points, m, err := gapcli.LoadArranged(*catalog, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog %q: %v\n", *catalog, err)
		os.Exit(1)
	}

	stress := atlas.Stress(points, m, cfg.Spring)

	if *asJSON {
		report := layoutReport{Stress: stress}
		for _, p := range points {
			report.Points = append(report.Points, layoutEntry{
				ID: p.ID, Title: p.Title, X: p.X, Y: p.Y, Links: len(p.Links()),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Arranged %d points in %d passes (stress %.4f)\n", len(points), cfg.Iterations, stress)
	for _, p := range points {
		fmt.Printf("  %-12s %-24s (%8.3f, %8.3f)  %d links\n", p.ID, p.Title, p.X, p.Y, len(p.Links()))
	}
}
