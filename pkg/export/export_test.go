package export

import (
	"github.com/matzehuels/blockgen/pkg/diagram"
)

// sampleDiagram is the baseline plus two derived nodes joined by a bridge edge.
func sampleDiagram() diagram.Diagram {
	d := diagram.Baseline()
	d.Nodes = append(d.Nodes,
		diagram.Node{ID: "inputs-100", Label: "camera", Category: diagram.Inputs.Ptr(), Position: diagram.Position{X: 270, Y: 280}},
		diagram.Node{ID: "outputs-101", Label: "led", Comment: "status light", Category: diagram.Outputs.Ptr(), Position: diagram.Position{X: 870, Y: 280}},
	)
	d.Edges = append(d.Edges, diagram.Edge{
		ID: "edge-group-inputs-outputs", Source: "inputs-100", Target: "outputs-101", Animated: true,
	})
	return d
}
