// Package pkg holds the blockgen libraries.
//
// # Overview
//
// blockgen turns a free-text description of an electronic device into a
// block diagram. Words found in a fixed vocabulary become blocks under one of
// five categories (power, inputs, control, outputs, other), are laid out
// under their category block, and are wired together with directed edges.
// The diagram can then be exported as JSON, SVG, draw.io XML, DOT or PNG.
//
// # Architecture
//
//	description text
//	       ↓
//	  [generate] tokenize → classify → place → connect
//	       ↓
//	  [diagram] nodes + edges
//	       ↓
//	  [export] JSON / SVG / draw.io / DOT / PNG
//
// [pipeline] runs both stages with caching ([cache]) and instrumentation
// ([observability], [metrics]); the CLI and [server] both go through it.
//
// # Quick Start
//
//	d := generate.Generate("battery powered camera with wifi and an led")
//	svg := export.SVG(d.Nodes, d.Edges)
//	xml, err := export.DrawIO(d.Nodes, d.Edges)
//
// # Packages
//
// [diagram] - Categories, their fixed palette and positions, nodes, edges and
// the invariants every diagram satisfies.
//
// [generate] - The keyword vocabulary, tokenizer and the generator.
// Vocabularies can be extended from TOML or YAML files.
//
// [export] - Exporters and the format registry. JSON exports can be imported
// back, losslessly.
//
// [pipeline] - Generate → export with content-addressed caching.
//
// [cache] - File, Redis and no-op cache backends.
//
// [config] - Settings from blockgen.toml, BLOCKGEN_* environment variables and
// defaults.
//
// [server] - HTTP API.
//
// [errors] - Error codes shared by every package.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/diagram
// [generate]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/generate
// [export]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/metrics
// [server]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockgen/pkg/errors
package pkg
