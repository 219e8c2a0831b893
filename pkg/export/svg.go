package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/blockgen/pkg/diagram"
)

// Canvas and block geometry shared by the picture formats.
const (
	CanvasWidth  = 1400
	CanvasHeight = 800
	BlockWidth   = 150
	BlockHeight  = 50
)

const (
	svgBackground   = "#f0f0f0"
	svgEdgeColor    = "#999"
	svgFixedStroke  = "#333"
	svgNodeFill     = "#FFF"
	svgNodeStroke   = "#666"
	svgCornerRadius = 4
	svgFontSize     = 12
	svgTextBaseline = 30
)

type svgBlock struct {
	X, Y   float64
	Fill   string
	Stroke string
	Label  string
}

type svgLine struct {
	X1, Y1, X2, Y2 float64
}

// SVG renders the diagram as a static vector image.
//
// Nodes are drawn as rectangles at their stored positions, filled with the
// category color for fixed nodes and white otherwise. Each edge becomes an
// arrow from the right-center of its source to the left-center of its target;
// edges with an unknown endpoint are skipped.
func SVG(nodes []diagram.Node, edges []diagram.Edge) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" style="background-color: %s;">`+"\n",
		CanvasWidth, CanvasHeight, CanvasWidth, CanvasHeight, svgBackground)

	renderArrowDefs(&buf)
	for _, l := range buildLines(nodes, edges) {
		fmt.Fprintf(&buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" marker-end="url(#arrowhead)"/>`+"\n",
			num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), svgEdgeColor)
	}
	for _, b := range buildBlocks(nodes) {
		renderBlock(&buf, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderArrowDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrowhead" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">` + "\n")
	fmt.Fprintf(buf, `      <polygon points="0 0, 10 3, 0 6" fill="%s"/>`+"\n", svgEdgeColor)
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

func renderBlock(buf *bytes.Buffer, b svgBlock) {
	fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="2" rx="%d"/>`+"\n",
		num(b.X), num(b.Y), BlockWidth, BlockHeight, b.Fill, b.Stroke, svgCornerRadius)
	fmt.Fprintf(buf, `  <text x="%s" y="%s" text-anchor="middle" font-size="%d" font-weight="bold">%s</text>`+"\n",
		num(b.X+BlockWidth/2), num(b.Y+svgTextBaseline), svgFontSize, escapeXML(b.Label))
}

func buildBlocks(nodes []diagram.Node) []svgBlock {
	blocks := make([]svgBlock, 0, len(nodes))
	for _, n := range nodes {
		b := svgBlock{
			X: n.Position.X, Y: n.Position.Y,
			Fill: svgNodeFill, Stroke: svgNodeStroke,
			Label: n.Label,
		}
		if c, err := diagram.ParseCategory(n.ID); err == nil {
			b.Fill = c.Style().Fill
			b.Stroke = svgFixedStroke
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func buildLines(nodes []diagram.Node, edges []diagram.Edge) []svgLine {
	byID := indexNodes(nodes)
	lines := make([]svgLine, 0, len(edges))
	for _, e := range edges {
		src, okS := byID[e.Source]
		dst, okD := byID[e.Target]
		if !okS || !okD {
			continue
		}
		lines = append(lines, svgLine{
			X1: src.Position.X + BlockWidth/2, Y1: src.Position.Y + BlockHeight/2,
			X2: dst.Position.X, Y2: dst.Position.Y + BlockHeight/2,
		})
	}
	return lines
}

// indexNodes maps node IDs to nodes. The first node wins on duplicate IDs.
func indexNodes(nodes []diagram.Node) map[string]diagram.Node {
	byID := make(map[string]diagram.Node, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}
	return byID
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
