package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// pointsPerInch converts canvas pixels to Graphviz inches.
const pointsPerInch = 72.0

// DOT converts the diagram to Graphviz DOT.
//
// Every node is pinned at its canvas position (pos="x,y!") so that the neato
// engine reproduces the stored layout instead of computing its own. The Y axis
// is flipped because Graphviz grows upwards.
func DOT(nodes []diagram.Node, edges []diagram.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"#f0f0f0\";\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontsize=12, fillcolor=\"%s\", color=\"%s\"];\n",
		num(BlockWidth/pointsPerInch), num(BlockHeight/pointsPerInch), svgNodeFill, svgNodeStroke)
	fmt.Fprintf(&buf, "  edge [color=\"%s\", penwidth=2];\n", svgEdgeColor)
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(dotAttrs(n), ", "))
	}

	buf.WriteString("\n")
	byID := indexNodes(nodes)
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			continue
		}
		if _, ok := byID[e.Target]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [id=%s];\n", dotQuote(e.Source), dotQuote(e.Target), dotQuote(e.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n diagram.Node) []string {
	cx := n.Position.X + BlockWidth/2
	cy := -(n.Position.Y + BlockHeight/2)
	attrs := []string{
		"label=" + dotQuote(n.DisplayLabel()),
		fmt.Sprintf("pos=\"%s,%s!\"", num(cx), num(cy)),
	}
	if c, err := diagram.ParseCategory(n.ID); err == nil {
		attrs = append(attrs,
			"fillcolor=" + dotQuote(c.Style().Fill),
			"color=" + dotQuote(svgFixedStroke))
	}
	if n.Comment != "" {
		attrs = append(attrs, "tooltip=" + dotQuote(n.Comment))
	}
	return attrs
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotQuote returns s as a DOT double-quoted string. Only backslash and quote
// are escaped; every other byte, including control characters and non-ASCII
// text, is written as is.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// PNG renders the diagram as a raster image through Graphviz.
func PNG(ctx context.Context, nodes []diagram.Node, edges []diagram.Edge) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(DOT(nodes, edges)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
	}
	return buf.Bytes(), nil
}
