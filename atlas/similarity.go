package atlas

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// SimilarityMatrix holds pairwise Jaccard similarity over point link sets:
// symmetric, values in [0, 1], diagonal pinned to 1.
type SimilarityMatrix struct {
	vals [][]float64
}

// NewSimilarityMatrix computes all pairwise similarities for the given
// points. Link names are interned to integer ids once, so each pair costs two
// bitmap operations instead of a string-set walk.
func NewSimilarityMatrix(points []*Point) *SimilarityMatrix {
	n := len(points)
	dict := make(map[string]uint32)
	sets := make([]*roaring.Bitmap, n)
	for i, p := range points {
		sets[i] = internLinks(p.links, dict)
	}

	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		vals[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := bitmapJaccard(sets[i], sets[j])
			vals[i][j] = s
			vals[j][i] = s
		}
	}
	return &SimilarityMatrix{vals: vals}
}

// Len returns the matrix dimension.
func (m *SimilarityMatrix) Len() int { return len(m.vals) }

// At returns the similarity between points i and j.
func (m *SimilarityMatrix) At(i, j int) float64 { return m.vals[i][j] }

// Jaccard returns |A∩B| / |A∪B| over the two points' link sets, or 0 when
// both sets are empty. Unlike the matrix diagonal this does not special-case
// identical points.
func Jaccard(a, b *Point) float64 {
	dict := make(map[string]uint32, len(a.links)+len(b.links))
	return bitmapJaccard(internLinks(a.links, dict), internLinks(b.links, dict))
}

func internLinks(links []string, dict map[string]uint32) *roaring.Bitmap {
	bm := roaring.New()
	for _, name := range links {
		id, ok := dict[name]
		if !ok {
			id = uint32(len(dict))
			dict[name] = id
		}
		bm.Add(id)
	}
	return bm
}

func bitmapJaccard(a, b *roaring.Bitmap) float64 {
	union := roaring.Or(a, b).GetCardinality()
	if union == 0 {
		return 0
	}
	inter := roaring.And(a, b).GetCardinality()
	return float64(inter) / float64(union)
}
