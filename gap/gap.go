// Package gap derives the relational record between two laid-out points and
// composes the three-voice description that drives its sonification.
package gap

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-sonify/atlas"
)

// Gap captures everything downstream audio needs about an ordered point
// pair: where the pair sits (midpoint, distance) and how related it is
// (link-set similarity, shared links). A Gap is recomputed from scratch
// whenever the selection changes and never mutated in place.
type Gap struct {
	ID     string // originID + "-" + targetID, order-sensitive
	Origin *atlas.Point
	Target *atlas.Point

	CenterX  float64
	CenterY  float64
	Distance float64

	// Similarity is Jaccard over the two link sets, independent of the
	// layout positions.
	Similarity float64

	// SharedLinks holds the origin's links filtered by target membership,
	// in the origin's iteration order.
	SharedLinks []string
}

// New derives the Gap for the ordered pair (origin, target). Rejecting
// identical endpoints is the caller's concern; New computes the record for
// whatever pair it is given.
func New(origin, target *atlas.Point) *Gap {
	var shared []string
	for _, name := range origin.Links() {
		if target.HasLink(name) {
			shared = append(shared, name)
		}
	}
	return &Gap{
		ID:          origin.ID + "-" + target.ID,
		Origin:      origin,
		Target:      target,
		CenterX:     (origin.X + target.X) / 2,
		CenterY:     (origin.Y + target.Y) / 2,
		Distance:    math.Hypot(target.X-origin.X, target.Y-origin.Y),
		Similarity:  atlas.Jaccard(origin, target),
		SharedLinks: shared,
	}
}

// SeedString returns the melody seed: the shared link names concatenated in
// order, or the Gap ID when the pair shares nothing.
func (g *Gap) SeedString() string {
	if len(g.SharedLinks) == 0 {
		return g.ID
	}
	return strings.Join(g.SharedLinks, "")
}
