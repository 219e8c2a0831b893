// Package export serializes a block diagram into interchange documents.
//
// Every exporter takes the node and edge sequences of a diagram, whether it
// was generated or edited by hand, and returns the encoded bytes. None of them
// modify their input, and all are safe for concurrent use.
//
// # Formats
//
//   - [JSON]: lossless {"nodes": [...], "edges": [...]} record. [ImportJSON]
//     reverses it exactly.
//   - [SVG]: a 1400×800 picture with one 150×50 rectangle per node and one
//     arrow per edge. Fixed nodes use their category color.
//   - [DrawIO]: an mxfile document that draw.io and compatible editors open
//     with node positions preserved.
//   - [DOT]: Graphviz source with every node pinned to its stored position.
//   - [PNG]: the DOT document rendered by the embedded Graphviz engine.
//
// Edges whose source or target is not among the nodes are skipped by the
// picture formats instead of failing.
//
// # Dispatch
//
// [Export] selects an encoder by [Format]:
//
//	data, err := export.Export(ctx, export.FormatSVG, d.Nodes, d.Edges)
//	os.WriteFile(export.FormatSVG.Filename(), data, 0o644)
package export
