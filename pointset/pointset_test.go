package pointset

import (
	"os"
	"path/filepath"
	"testing"
)

const jsonCatalog = `{
  "points": [
    {"id": "p1", "title": "First", "links": ["a", "b", "a"]},
    {"id": "p2", "title": "Second", "links": ["b", "c"]},
    {"id": "p3", "links": ["c"]}
  ]
}`

const yamlCatalog = `points:
  - id: p1
    title: First
    links: [a, b, a]
  - id: p2
    title: Second
    links: [b, c]
  - id: p3
    links: [c]
`

func TestParseJSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := ParseJSON([]byte(jsonCatalog))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	fromYAML, err := ParseYAML([]byte(yamlCatalog))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(fromJSON) != len(fromYAML) {
		t.Fatalf("JSON %d points, YAML %d points", len(fromJSON), len(fromYAML))
	}
	for i := range fromJSON {
		j, y := fromJSON[i], fromYAML[i]
		if j.ID != y.ID || j.Title != y.Title {
			t.Fatalf("point %d differs: %q/%q vs %q/%q", i, j.ID, j.Title, y.ID, y.Title)
		}
		if len(j.Links()) != len(y.Links()) {
			t.Fatalf("point %d link counts differ", i)
		}
		for k, name := range j.Links() {
			if y.Links()[k] != name {
				t.Fatalf("point %d link %d differs", i, k)
			}
		}
	}
}

func TestParseJSON(t *testing.T) {
	points, err := ParseJSON([]byte(jsonCatalog))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}

	t.Run("deduplicates links preserving order", func(t *testing.T) {
		links := points[0].Links()
		if len(links) != 2 || links[0] != "a" || links[1] != "b" {
			t.Fatalf("links = %v, want [a b]", links)
		}
	})

	t.Run("title defaults to id", func(t *testing.T) {
		if points[2].Title != "p3" {
			t.Fatalf("title = %q, want %q", points[2].Title, "p3")
		}
	})
}

func TestParseJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty catalog", `{"points": []}`},
		{"missing id", `{"points": [{"title": "x"}]}`},
		{"duplicate id", `{"points": [{"id": "p"}, {"id": "p"}]}`},
		{"malformed", `{"points": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(jsonPath, []byte(jsonCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load json: %v", err)
	}
	fromYAML, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	if len(fromJSON) != 3 || len(fromYAML) != 3 {
		t.Fatalf("got %d/%d points, want 3/3", len(fromJSON), len(fromYAML))
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
