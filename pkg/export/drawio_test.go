package export

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestDrawIOStructure(t *testing.T) {
	d := sampleDiagram()
	data, err := DrawIO(d.Nodes, d.Edges)
	if err != nil {
		t.Fatalf("DrawIO() error: %v", err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Error("missing XML header")
	}

	var doc mxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("xml.Unmarshal() error: %v", err)
	}

	if doc.Host != "app.diagrams.net" || doc.Type != "device" || doc.Version != "24.0" {
		t.Errorf("mxfile attrs = %q %q %q", doc.Host, doc.Type, doc.Version)
	}
	if doc.Diagram.ID != "diagram1" || doc.Diagram.Name != "Block Diagram" {
		t.Errorf("diagram attrs = %q %q", doc.Diagram.ID, doc.Diagram.Name)
	}
	m := doc.Diagram.Model
	if m.DX != 600 || m.DY != 400 || m.GridSize != 10 || m.PageScale != 1 {
		t.Errorf("graph model = %+v", m)
	}

	cells := m.Root.Cells
	if len(cells) != 2+len(d.Nodes)+len(d.Edges) {
		t.Fatalf("cells = %d, want %d", len(cells), 2+len(d.Nodes)+len(d.Edges))
	}
	if cells[0].ID != "0" || cells[1].ID != "1" || cells[1].Parent != "0" {
		t.Errorf("root cells = %+v %+v", cells[0], cells[1])
	}
}

func TestDrawIOVertices(t *testing.T) {
	d := sampleDiagram()
	data, err := DrawIO(d.Nodes, d.Edges)
	if err != nil {
		t.Fatal(err)
	}
	var doc mxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	for i, n := range d.Nodes {
		c := doc.Diagram.Model.Root.Cells[2+i]
		if c.Vertex != "1" || c.Parent != "1" {
			t.Errorf("cell %s not a vertex: %+v", c.ID, c)
		}
		if c.Value != n.Label {
			t.Errorf("cell %s value = %q, want %q", c.ID, c.Value, n.Label)
		}
		if c.Style != drawioVertexStyle {
			t.Errorf("cell %s style = %q", c.ID, c.Style)
		}
		g := c.Geometry
		if g == nil || g.X == nil || g.Y == nil || g.Width == nil || g.Height == nil {
			t.Fatalf("cell %s geometry incomplete", c.ID)
		}
		if *g.X != n.Position.X || *g.Y != n.Position.Y || *g.Width != 150 || *g.Height != 50 {
			t.Errorf("cell %s geometry = %v,%v %vx%v", c.ID, *g.X, *g.Y, *g.Width, *g.Height)
		}
	}
	if got := doc.Diagram.Model.Root.Cells[7].ID; got != "node5" {
		t.Errorf("sixth vertex id = %q, want node5", got)
	}
}

func TestDrawIOEdges(t *testing.T) {
	d := sampleDiagram()
	data, err := DrawIO(d.Nodes, d.Edges)
	if err != nil {
		t.Fatal(err)
	}
	var doc mxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	cells := doc.Diagram.Model.Root.Cells
	e := cells[len(cells)-1]
	if e.ID != "edge0" || e.Edge != "1" {
		t.Errorf("edge cell = %+v", e)
	}
	if e.Source != "inputs-100" || e.Target != "outputs-101" {
		t.Errorf("edge endpoints = %q -> %q", e.Source, e.Target)
	}
	if e.Geometry == nil || e.Geometry.Relative != "1" || e.Geometry.As != "geometry" {
		t.Errorf("edge geometry = %+v", e.Geometry)
	}
}

func TestDrawIOEscapesValues(t *testing.T) {
	d := sampleDiagram()
	d.Nodes[5].Label = `a<b & "c"`
	data, err := DrawIO(d.Nodes, d.Edges)
	if err != nil {
		t.Fatal(err)
	}
	var doc mxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("escaped output does not parse: %v", err)
	}
	if got := doc.Diagram.Model.Root.Cells[7].Value; got != `a<b & "c"` {
		t.Errorf("value = %q", got)
	}
}
