// Package generate turns a free-text device description into a block diagram.
//
// # Pipeline
//
// [Generate] runs four deterministic steps over the input text:
//
//  1. Tokenize: lowercase, split on whitespace, commas, semicolons and periods,
//     drop tokens shorter than two characters.
//  2. Classify: look each token up verbatim in a [Vocabulary]; unknown tokens
//     are dropped and repeated tokens count once.
//  3. Place: the k-th component of a category cascades diagonally below the
//     category's anchor.
//  4. Connect: chain components within each category, then bridge the last
//     component of a category to the first of the next one.
//
// The result always starts with the five fixed category nodes from
// [diagram.Baseline], followed by the derived nodes in discovery order.
//
// # Identity
//
// Derived node IDs are "<category>-<n>" where n comes from a single counter
// shared by all categories. [GenerateWith] takes the first counter value and
// returns the next one, so callers that append several generations to one
// diagram can keep IDs unique without any package-level state.
//
// # Vocabulary
//
// The built-in table is returned by [DefaultVocabulary]. Extra keywords can be
// loaded from TOML or YAML files with [LoadVocabulary]:
//
//	# vocabulary.toml
//	power  = ["solar", "supercap"]
//	inputs = ["lidar"]
//
// Lookup is exact: no stemming, no fuzzy matching, and because tokens never
// contain spaces, multi-word keys such as "power supply" are never matched.
package generate
