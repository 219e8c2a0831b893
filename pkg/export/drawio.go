package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

const (
	drawioVertexStyle = "rounded=1;whiteSpace=wrap;html=1;fillColor=#fff;"
	drawioEdgeStyle   = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;"
)

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Type    string    `xml:"type,attr"`
	Version string    `xml:"version,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string       `xml:"id,attr"`
	Name  string       `xml:"name,attr"`
	Model mxGraphModel `xml:"mxGraphModel"`
}

type mxGraphModel struct {
	DX        int    `xml:"dx,attr"`
	DY        int    `xml:"dy,attr"`
	Grid      int    `xml:"grid,attr"`
	GridSize  int    `xml:"gridSize,attr"`
	Guides    int    `xml:"guides,attr"`
	Tooltips  int    `xml:"tooltips,attr"`
	Connect   int    `xml:"connect,attr"`
	Arrows    int    `xml:"arrows,attr"`
	Fold      int    `xml:"fold,attr"`
	Page      int    `xml:"page,attr"`
	PageScale int    `xml:"pageScale,attr"`
	Root      mxRoot `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry"`
}

type mxGeometry struct {
	X        *float64 `xml:"x,attr"`
	Y        *float64 `xml:"y,attr"`
	Width    *float64 `xml:"width,attr"`
	Height   *float64 `xml:"height,attr"`
	Relative string   `xml:"relative,attr,omitempty"`
	As       string   `xml:"as,attr"`
}

// DrawIO encodes the diagram as a draw.io (mxGraph) document.
//
// Vertex cells are named node<i> by their position in nodes and edge cells
// edge<i>. Connector endpoints reference node IDs as given.
func DrawIO(nodes []diagram.Node, edges []diagram.Edge) ([]byte, error) {
	cells := make([]mxCell, 0, len(nodes)+len(edges)+2)
	cells = append(cells, mxCell{ID: "0"}, mxCell{ID: "1", Parent: "0"})

	for i, n := range nodes {
		x, y := n.Position.X, n.Position.Y
		w, h := float64(BlockWidth), float64(BlockHeight)
		cells = append(cells, mxCell{
			ID:       fmt.Sprintf("node%d", i),
			Value:    n.Label,
			Style:    drawioVertexStyle,
			Vertex:   "1",
			Parent:   "1",
			Geometry: &mxGeometry{X: &x, Y: &y, Width: &w, Height: &h, As: "geometry"},
		})
	}
	for i, e := range edges {
		cells = append(cells, mxCell{
			ID:       fmt.Sprintf("edge%d", i),
			Style:    drawioEdgeStyle,
			Edge:     "1",
			Parent:   "1",
			Source:   e.Source,
			Target:   e.Target,
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}

	doc := mxFile{
		Host:    "app.diagrams.net",
		Type:    "device",
		Version: "24.0",
		Diagram: mxDiagram{
			ID:   "diagram1",
			Name: "Block Diagram",
			Model: mxGraphModel{
				DX: 600, DY: 400,
				Grid: 1, GridSize: 10,
				Guides: 1, Tooltips: 1, Connect: 1, Arrows: 1, Fold: 1,
				Page: 1, PageScale: 1,
				Root: mxRoot{Cells: cells},
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode drawio")
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
