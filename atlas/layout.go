package atlas

import (
	"fmt"
	"math"
)

// LayoutConfig carries the relaxation knobs. The defaults are the canonical
// schedule; cmd/layout-fit searches this space for diagnostic purposes.
type LayoutConfig struct {
	Iterations  int     // fixed number of relaxation passes, no early exit
	Spring      float64 // target distance scale: target = Spring·(1−sim)
	Gain        float64 // fraction of the distance error applied per pass
	MinDistance float64 // distance floor guarding the direction vector
	Radius      float64 // seeding radius
}

// DefaultLayoutConfig returns the canonical relaxation schedule.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Iterations:  50,
		Spring:      6.0,
		Gain:        0.1,
		MinDistance: 0.1,
		Radius:      3.0,
	}
}

// Validate checks the config for values the relaxation cannot run with.
func (c LayoutConfig) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("layout: iterations %d, must be >= 1", c.Iterations)
	}
	if c.Spring <= 0 {
		return fmt.Errorf("layout: spring %g, must be > 0", c.Spring)
	}
	if c.Gain <= 0 || c.Gain > 1 {
		return fmt.Errorf("layout: gain %g, must be in (0, 1]", c.Gain)
	}
	if c.MinDistance <= 0 {
		return fmt.Errorf("layout: min distance %g, must be > 0", c.MinDistance)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("layout: radius %g, must be > 0", c.Radius)
	}
	return nil
}

// Arrange seeds deterministic start positions and relaxes them for exactly
// cfg.Iterations passes so that pair distances approximate
// Spring·(1−similarity).
//
// Point i starts at (cos(i)·Radius, sin(i)·Radius); index radians are not
// evenly spaced around the circle, which intentionally breaks symmetry.
// Within a pass, each point accumulates one displacement from all others and
// moves immediately, so later points see earlier points' updated positions.
// The relaxation is therefore order-dependent; a fixed traversal order keeps
// it reproducible.
func Arrange(points []*Point, m *SimilarityMatrix, cfg LayoutConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if m == nil || m.Len() != len(points) {
		got := 0
		if m != nil {
			got = m.Len()
		}
		return fmt.Errorf("layout: %d points with %d×%d similarity matrix", len(points), got, got)
	}

	for i, p := range points {
		p.X = math.Cos(float64(i)) * cfg.Radius
		p.Y = math.Sin(float64(i)) * cfg.Radius
	}

	for pass := 0; pass < cfg.Iterations; pass++ {
		for i := range points {
			var fx, fy float64
			for j := range points {
				if j == i {
					continue
				}
				dx := points[j].X - points[i].X
				dy := points[j].Y - points[i].Y
				d := math.Hypot(dx, dy)
				if d < cfg.MinDistance {
					d = cfg.MinDistance
				}
				target := cfg.Spring * (1 - m.At(i, j))
				f := (d - target) * cfg.Gain
				fx += dx / d * f
				fy += dy / d * f
			}
			points[i].X += fx
			points[i].Y += fy
		}
	}
	return nil
}

// Stress reports the RMS residual between realized pair distances and their
// similarity targets. Zero means every pair sits exactly at
// spring·(1−similarity); lower is better.
func Stress(points []*Point, m *SimilarityMatrix, spring float64) float64 {
	n := len(points)
	if n < 2 || m == nil || m.Len() != n {
		return 0
	}
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(points[j].X-points[i].X, points[j].Y-points[i].Y)
			target := spring * (1 - m.At(i, j))
			r := d - target
			sum += r * r
			count++
		}
	}
	return math.Sqrt(sum / float64(count))
}
