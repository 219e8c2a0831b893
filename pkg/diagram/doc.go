// Package diagram defines the block diagram shared by the generator, the
// exporters and any editor that sits between them.
//
// # Categories
//
// A [Category] is one of five fixed device subsystems, always handled in the
// same order:
//
//	power → inputs → control → outputs → other
//
// Every per-category table in this package (colors, titles, positions) is a
// fixed-size array indexed by [Category], so adding a sixth category fails to
// compile until every table is extended.
//
// # Nodes
//
// A [Diagram] always starts with one fixed node per category, in category
// order, whose ID is the category name. Derived nodes follow in discovery
// order; they carry a category tag and an ID that never collides with a fixed
// ID.
//
//	d := diagram.Baseline()          // five fixed nodes, no edges
//	d.Nodes = append(d.Nodes, n)     // derived nodes are appended
//	err := d.Validate()              // checks ordering and id uniqueness
//
// # Concurrency
//
// Diagrams are plain values. Functions in this package never retain or share
// them, so independent diagrams can be used from different goroutines.
package diagram
