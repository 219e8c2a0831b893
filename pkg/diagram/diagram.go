package diagram

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/blockgen/pkg/errors"
)

// =============================================================================
// Node & Edge
// =============================================================================

// Position is a 2D canvas coordinate of a node's top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Node is a block in the diagram.
//
// Fixed nodes have ID equal to a category name and no category tag. Derived
// nodes carry the category they were classified into.
type Node struct {
	ID       string    `json:"id"`
	Position Position  `json:"position"`
	Label    string    `json:"label"`
	Comment  string    `json:"comment,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// IsFixed reports whether n is one of the five category nodes.
func (n *Node) IsFixed() bool { return n.Category == nil && IsFixedID(n.ID) }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated"`
}

// =============================================================================
// Diagram
// =============================================================================

// Diagram is the ordered node sequence plus the edge set.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// FixedNodes returns the five category nodes in fixed order.
func FixedNodes() []Node {
	nodes := make([]Node, 0, NumCategories)
	for _, c := range Categories() {
		nodes = append(nodes, Node{
			ID:       c.String(),
			Position: fixedPositions[c],
			Label:    c.Title(),
		})
	}
	return nodes
}

// Baseline returns a diagram holding only the fixed nodes.
// It is both the starting point of generation and the result of clearing a diagram.
func Baseline() Diagram {
	return Diagram{Nodes: FixedNodes(), Edges: []Edge{}}
}

// IsFixedID reports whether id names a category node.
func IsFixedID(id string) bool {
	_, err := ParseCategory(id)
	return err == nil
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Derived returns the nodes that follow the fixed prefix.
func (d *Diagram) Derived() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if !n.IsFixed() {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d Diagram) Clone() Diagram {
	out := Diagram{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: slices.Clone(d.Edges),
	}
	for i, n := range d.Nodes {
		if n.Category != nil {
			n.Category = n.Category.Ptr()
		}
		out.Nodes[i] = n
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return out
}

// Equal reports whether d and o hold the same nodes and edges in the same order.
// A nil and an empty sequence compare equal.
func (d Diagram) Equal(o Diagram) bool {
	return slices.EqualFunc(d.Nodes, o.Nodes, nodesEqual) && slices.Equal(d.Edges, o.Edges)
}

func nodesEqual(a, b Node) bool {
	if a.ID != b.ID || a.Position != b.Position || a.Label != b.Label || a.Comment != b.Comment {
		return false
	}
	if a.Category == nil || b.Category == nil {
		return a.Category == nil && b.Category == nil
	}
	return *a.Category == *b.Category
}

// Validate checks the structural invariants every diagram must satisfy:
// the five fixed nodes come first in category order, node IDs are unique, and
// derived nodes carry a valid category tag.
//
// Edges are not checked: deleting a node elsewhere may leave dangling edges,
// which exporters skip.
func (d *Diagram) Validate() error {
	if len(d.Nodes) < NumCategories {
		return errors.New(errors.ErrCodeInvalidDiagram,
			"diagram has %d nodes, want at least %d fixed nodes", len(d.Nodes), NumCategories)
	}
	for i, c := range Categories() {
		n := d.Nodes[i]
		if n.ID != c.String() {
			return errors.New(errors.ErrCodeInvalidDiagram,
				"node %d is %q, want fixed node %q", i, n.ID, c.String())
		}
		if n.Category != nil {
			return errors.New(errors.ErrCodeInvalidDiagram, "fixed node %q has a category tag", n.ID)
		}
	}

	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidDiagram, "node %d has an empty id", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidDiagram, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if i < NumCategories {
			continue
		}
		if IsFixedID(n.ID) {
			return errors.New(errors.ErrCodeInvalidDiagram, "derived node reuses fixed id %q", n.ID)
		}
		if n.Category != nil && !n.Category.Valid() {
			return errors.New(errors.ErrCodeInvalidDiagram, "node %q has unknown category", n.ID)
		}
	}
	return nil
}

// =============================================================================
// Editing
// =============================================================================

// RemoveNode deletes a derived node and every edge touching it.
// Fixed nodes cannot be removed.
func (d *Diagram) RemoveNode(id string) error {
	if IsFixedID(id) {
		return errors.New(errors.ErrCodeInvalidInput, "cannot delete fixed node %q", id)
	}
	idx := slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
	if idx < 0 {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	d.Nodes = slices.Delete(d.Nodes, idx, idx+1)
	d.Edges = slices.DeleteFunc(d.Edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	return nil
}

// Connect adds an animated edge between two existing nodes.
// Connecting the same pair twice is a no-op.
func (d *Diagram) Connect(source, target string) (Edge, error) {
	for _, id := range []string{source, target} {
		if _, ok := d.Node(id); !ok {
			return Edge{}, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
		}
	}
	e := Edge{ID: EdgeID(source, target), Source: source, Target: target, Animated: true}
	for _, existing := range d.Edges {
		if existing.Source == source && existing.Target == target {
			return existing, nil
		}
	}
	d.Edges = append(d.Edges, e)
	return e, nil
}

// SetComment replaces the comment of a node. An empty comment clears it.
func (d *Diagram) SetComment(id, comment string) error {
	n, ok := d.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	n.Comment = comment
	return nil
}

// Move sets the position of a node. Coordinates must be finite.
func (d *Diagram) Move(id string, p Position) error {
	if !p.finite() {
		return errors.New(errors.ErrCodeInvalidInput, "position of %q must be finite, got (%v, %v)", id, p.X, p.Y)
	}
	n, ok := d.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	n.Position = p
	return nil
}

// EdgeID returns the identity used for an edge between two nodes.
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge-%s-%s", source, target)
}
