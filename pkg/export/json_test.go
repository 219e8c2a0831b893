package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

func TestJSONRoundTrip(t *testing.T) {
	d := sampleDiagram()

	data, err := JSON(d.Nodes, d.Edges)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	got, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if !got.Equal(d) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, d)
	}
}

func TestJSONShape(t *testing.T) {
	d := sampleDiagram()
	data, err := JSON(d.Nodes, d.Edges)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(raw["nodes"]) != 7 {
		t.Errorf("nodes = %d, want 7", len(raw["nodes"]))
	}
	if _, ok := raw["nodes"][0]["category"]; ok {
		t.Error("fixed node should omit category")
	}
	if raw["nodes"][5]["category"] != "inputs" {
		t.Errorf("derived category = %v, want inputs", raw["nodes"][5]["category"])
	}
	if raw["edges"][0]["animated"] != true {
		t.Errorf("edge animated = %v", raw["edges"][0]["animated"])
	}
	if !strings.Contains(string(data), "\n  \"nodes\"") {
		t.Error("JSON output should be indented")
	}
}

func TestJSONNilSequences(t *testing.T) {
	data, err := JSON(nil, nil)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"nodes": []`) || !strings.Contains(string(data), `"edges": []`) {
		t.Errorf("JSON(nil, nil) = %s", data)
	}
}

func TestJSONDoesNotMutate(t *testing.T) {
	d := sampleDiagram()
	before := d.Clone()
	if _, err := JSON(d.Nodes, d.Edges); err != nil {
		t.Fatal(err)
	}
	if !d.Equal(before) {
		t.Error("JSON mutated its input")
	}
}

func TestImportJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"nodes": [`},
		{"wrong type", `{"nodes": 3}`},
		{"no fixed nodes", `{"nodes": [], "edges": []}`},
		{"unknown category", `{"nodes": [
			{"id":"power","position":{"x":0,"y":0},"label":"p"},
			{"id":"inputs","position":{"x":0,"y":0},"label":"i"},
			{"id":"control","position":{"x":0,"y":0},"label":"c"},
			{"id":"outputs","position":{"x":0,"y":0},"label":"o"},
			{"id":"other","position":{"x":0,"y":0},"label":"x"},
			{"id":"a-1","position":{"x":0,"y":0},"label":"a","category":"sensors"}
		], "edges": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportJSON([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidDiagram) {
				t.Errorf("ImportJSON() error = %v, want INVALID_DIAGRAM", err)
			}
		})
	}
}

func TestImportJSONKeepsDanglingEdges(t *testing.T) {
	d := diagram.Baseline()
	d.Edges = append(d.Edges, diagram.Edge{ID: "edge-power-gone", Source: "power", Target: "gone"})
	data, err := JSON(d.Nodes, d.Edges)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if len(got.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(got.Edges))
	}
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadJSONFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadJSONFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	d := sampleDiagram()
	data, _ := JSON(d.Nodes, d.Edges)
	path := filepath.Join(dir, "block-diagram.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile() error: %v", err)
	}
	if !got.Equal(d) {
		t.Error("ReadJSONFile did not reproduce the diagram")
	}
}
