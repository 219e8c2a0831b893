package generate

import (
	"fmt"

	"github.com/matzehuels/blockgen/pkg/diagram"
)

// BaseID is the first counter value used for derived node IDs.
const BaseID = 100

// Component is a keyword recognized in the input text.
type Component struct {
	Keyword  string
	Category diagram.Category
}

// Generate builds a diagram from text using the built-in vocabulary.
// It never fails: text without known keywords yields the fixed nodes only.
func Generate(text string) diagram.Diagram {
	d, _ := GenerateWith(text, defaultVocabulary, BaseID)
	return d
}

// GenerateWith builds a diagram from text using vocab, numbering derived
// nodes from startID. It returns the diagram and the next unused counter value.
func GenerateWith(text string, vocab Vocabulary, startID int) (diagram.Diagram, int) {
	d := diagram.Baseline()

	var groups [diagram.NumCategories][]string
	next := startID
	for _, c := range Classify(text, vocab) {
		id := fmt.Sprintf("%s-%d", c.Category, next)
		next++

		d.Nodes = append(d.Nodes, diagram.Node{
			ID:       id,
			Position: Place(c.Category, len(groups[c.Category])),
			Label:    c.Keyword,
			Category: c.Category.Ptr(),
		})
		groups[c.Category] = append(groups[c.Category], id)
	}

	d.Edges = Connect(groups)
	return d, next
}

// Classify returns the recognized components of text in first-occurrence
// order. Each keyword appears at most once.
func Classify(text string, vocab Vocabulary) []Component {
	var out []Component
	used := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		if used[tok] {
			continue
		}
		c, ok := vocab.Lookup(tok)
		if !ok {
			continue
		}
		used[tok] = true
		out = append(out, Component{Keyword: tok, Category: c})
	}
	return out
}
