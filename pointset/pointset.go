// Package pointset loads point catalogs, the entity-acquisition boundary.
// A catalog is a JSON or YAML file of {id, title, links} records; the format
// is chosen by file extension. The core treats the records as opaque points,
// no acquisition semantics leak past this package.
package pointset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sonify/atlas"
)

// Record is one catalog entry.
type Record struct {
	ID    string   `json:"id" yaml:"id"`
	Title string   `json:"title" yaml:"title"`
	Links []string `json:"links" yaml:"links"`
}

// File is the catalog schema.
type File struct {
	Points []Record `json:"points" yaml:"points"`
}

// Load reads a catalog file and builds its points. Files ending in .yaml or
// .yml parse as YAML, everything else as JSON.
func Load(path string) ([]*atlas.Point, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseJSON(b)
	}
}

// ParseJSON builds points from a JSON catalog.
func ParseJSON(data []byte) ([]*atlas.Point, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pointset: %w", err)
	}
	return build(&f)
}

// ParseYAML builds points from a YAML catalog.
func ParseYAML(data []byte) ([]*atlas.Point, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pointset: %w", err)
	}
	return build(&f)
}

func build(f *File) ([]*atlas.Point, error) {
	if len(f.Points) == 0 {
		return nil, fmt.Errorf("pointset: catalog has no points")
	}
	seen := make(map[string]struct{}, len(f.Points))
	points := make([]*atlas.Point, 0, len(f.Points))
	for i, rec := range f.Points {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("pointset: point %d has no id", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("pointset: duplicate point id %q", id)
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(rec.Title)
		if title == "" {
			title = id
		}
		points = append(points, atlas.NewPoint(id, title, rec.Links))
	}
	return points, nil
}
