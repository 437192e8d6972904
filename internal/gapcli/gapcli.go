// Package gapcli holds the plumbing shared by the command-line tools:
// loading a catalog, arranging it and resolving point pairs.
package gapcli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-sonify/atlas"
	"github.com/cwbudde/algo-sonify/pointset"
)

// LoadArranged loads a catalog, computes its similarity matrix and relaxes
// the layout in place.
func LoadArranged(path string, cfg atlas.LayoutConfig) ([]*atlas.Point, *atlas.SimilarityMatrix, error) {
	points, err := pointset.Load(path)
	if err != nil {
		return nil, nil, err
	}
	m := atlas.NewSimilarityMatrix(points)
	if err := atlas.Arrange(points, m, cfg); err != nil {
		return nil, nil, err
	}
	return points, m, nil
}

// ResolvePoint finds a point by id, falling back to a title match.
func ResolvePoint(points []*atlas.Point, key string) (*atlas.Point, error) {
	for _, p := range points {
		if p.ID == key {
			return p, nil
		}
	}
	for _, p := range points {
		if p.Title == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no point with id or title %q", key)
}

// ResolvePair resolves an ordered origin/target pair. Identical endpoints
// are rejected here, before any gap is derived.
func ResolvePair(points []*atlas.Point, originKey, targetKey string) (*atlas.Point, *atlas.Point, error) {
	origin, err := ResolvePoint(points, originKey)
	if err != nil {
		return nil, nil, fmt.Errorf("origin: %w", err)
	}
	target, err := ResolvePoint(points, targetKey)
	if err != nil {
		return nil, nil, fmt.Errorf("target: %w", err)
	}
	if origin == target {
		return nil, nil, fmt.Errorf("origin and target are the same point (%s)", origin.ID)
	}
	return origin, target, nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseWorkers parses a worker-count flag: an integer >= 1, or "auto" (0).
func ParseWorkers(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, fmt.Errorf("empty value (use integer >= 1 or 'auto')")
	}
	if v == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q (use integer >= 1 or 'auto')", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d (must be >= 1 or 'auto')", n)
	}
	return n, nil
}
