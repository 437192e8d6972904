package atlas

import (
	"math"
	"testing"
)

func TestNewPointDeduplicatesLinks(t *testing.T) {
	p := NewPoint("p1", "First", []string{"alpha", "beta", "alpha", "gamma", "beta"})
	links := p.Links()
	want := []string{"alpha", "beta", "gamma"}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Fatalf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
	if !p.HasLink("beta") || p.HasLink("delta") {
		t.Fatal("HasLink membership wrong")
	}
}

func TestSimilarityMatrixProperties(t *testing.T) {
	points := []*Point{
		NewPoint("a", "A", []string{"x", "y", "z"}),
		NewPoint("b", "B", []string{"y", "z", "w"}),
		NewPoint("c", "C", []string{"q"}),
		NewPoint("d", "D", nil),
	}
	m := NewSimilarityMatrix(points)
	if m.Len() != len(points) {
		t.Fatalf("Len = %d, want %d", m.Len(), len(points))
	}
	for i := 0; i < m.Len(); i++ {
		if m.At(i, i) != 1 {
			t.Errorf("diagonal [%d][%d] = %v, want 1", i, i, m.At(i, i))
		}
		for j := 0; j < m.Len(); j++ {
			v := m.At(i, j)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Errorf("similarity [%d][%d] = %v out of [0,1]", i, j, v)
			}
			if v != m.At(j, i) {
				t.Errorf("asymmetric at [%d][%d]: %v vs %v", i, j, v, m.At(j, i))
			}
		}
	}

	// {x,y,z} vs {y,z,w}: intersection 2, union 4.
	if got := m.At(0, 1); got != 0.5 {
		t.Errorf("sim(a,b) = %v, want 0.5", got)
	}
	// Disjoint sets.
	if got := m.At(0, 2); got != 0 {
		t.Errorf("sim(a,c) = %v, want 0", got)
	}
	// Empty vs non-empty: union non-empty, intersection empty.
	if got := m.At(0, 3); got != 0 {
		t.Errorf("sim(a,d) = %v, want 0", got)
	}
}

func TestSimilarityMatrixDegenerateSizes(t *testing.T) {
	if m := NewSimilarityMatrix(nil); m.Len() != 0 {
		t.Fatalf("empty set: Len = %d, want 0", m.Len())
	}
	m := NewSimilarityMatrix([]*Point{NewPoint("solo", "Solo", []string{"x"})})
	if m.Len() != 1 || m.At(0, 0) != 1 {
		t.Fatalf("single point: Len = %d, At(0,0) = %v", m.Len(), m.At(0, 0))
	}
}

func TestJaccard(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1},
		{"disjoint", []string{"x"}, []string{"y"}, 0},
		{"half", []string{"x", "y", "z"}, []string{"y", "z", "w"}, 0.5},
		{"both empty", nil, nil, 0},
		{"one empty", []string{"x"}, nil, 0},
	}
	for _, tc := range cases {
		a := NewPoint("a", "A", tc.a)
		b := NewPoint("b", "B", tc.b)
		if got := Jaccard(a, b); got != tc.want {
			t.Errorf("%s: Jaccard = %v, want %v", tc.name, got, tc.want)
		}
		if got := Jaccard(b, a); got != tc.want {
			t.Errorf("%s: Jaccard reversed = %v, want %v", tc.name, got, tc.want)
		}
	}
}
