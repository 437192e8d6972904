// Package atlas models link-annotated points and lays them out in the plane
// so that pairwise distance tracks link-overlap similarity: points sharing
// most of their links end up close together, unrelated points drift apart.
package atlas

// Point is a layout participant: a stable identity, a display title, a link
// set and a 2D position. The position is owned by Arrange during relaxation;
// everything else is fixed at construction.
type Point struct {
	ID    string
	Title string

	X float64
	Y float64

	links   []string
	linkSet map[string]struct{}
}

// NewPoint builds a point from its identity, title and link names. Duplicate
// links are dropped, keeping the first occurrence so downstream consumers see
// a stable iteration order.
func NewPoint(id, title string, links []string) *Point {
	p := &Point{
		ID:      id,
		Title:   title,
		linkSet: make(map[string]struct{}, len(links)),
	}
	for _, name := range links {
		if _, ok := p.linkSet[name]; ok {
			continue
		}
		p.linkSet[name] = struct{}{}
		p.links = append(p.links, name)
	}
	return p
}

// Links returns the point's link names in construction order. The returned
// slice is shared and must not be modified.
func (p *Point) Links() []string { return p.links }

// HasLink reports whether the point references the named link.
func (p *Point) HasLink(name string) bool {
	_, ok := p.linkSet[name]
	return ok
}
