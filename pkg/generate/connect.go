package generate

import (
	"fmt"

	"github.com/matzehuels/blockgen/pkg/diagram"
)

// Connect builds the automatic edges for derived node IDs grouped by category
// in creation order.
//
// Within each category, consecutive nodes are chained. Then, for each pair of
// adjacent categories that both hold nodes, the last node of the first is
// linked to the first node of the second. An empty category breaks the chain:
// no bridge reaches across it.
func Connect(groups [diagram.NumCategories][]string) []diagram.Edge {
	edges := []diagram.Edge{}

	for _, c := range diagram.Categories() {
		ids := groups[c]
		for i := 0; i+1 < len(ids); i++ {
			edges = append(edges, diagram.Edge{
				ID:       diagram.EdgeID(ids[i], ids[i+1]),
				Source:   ids[i],
				Target:   ids[i+1],
				Animated: true,
			})
		}
	}

	cats := diagram.Categories()
	for i := 0; i+1 < len(cats); i++ {
		from, to := groups[cats[i]], groups[cats[i+1]]
		if len(from) == 0 || len(to) == 0 {
			continue
		}
		edges = append(edges, diagram.Edge{
			ID:       fmt.Sprintf("edge-group-%s-%s", cats[i], cats[i+1]),
			Source:   from[len(from)-1],
			Target:   to[0],
			Animated: true,
		})
	}

	return edges
}
