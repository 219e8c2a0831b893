package generate

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/blockgen/pkg/diagram"
)

// Vocabulary maps a lowercase component keyword to its category.
type Vocabulary map[string]diagram.Category

// defaultVocabulary is the built-in classification policy.
var defaultVocabulary = Vocabulary{
	// Power
	"battery":      diagram.Power,
	"power supply": diagram.Power,
	"charger":      diagram.Power,
	"adapter":      diagram.Power,
	"psu":          diagram.Power,

	// Inputs
	"camera":             diagram.Inputs,
	"sensor":             diagram.Inputs,
	"microphone":         diagram.Inputs,
	"mic":                diagram.Inputs,
	"button":             diagram.Inputs,
	"touch":              diagram.Inputs,
	"motion detector":    diagram.Inputs,
	"accelerometer":      diagram.Inputs,
	"gyroscope":          diagram.Inputs,
	"thermometer":        diagram.Inputs,
	"temperature sensor": diagram.Inputs,

	// Outputs
	"motor":   diagram.Outputs,
	"speaker": diagram.Outputs,
	"led":     diagram.Outputs,
	"display": diagram.Outputs,
	"screen":  diagram.Outputs,
	"buzzer":  diagram.Outputs,
	"light":   diagram.Outputs,

	// Control
	"cpu":             diagram.Control,
	"processor":       diagram.Control,
	"microcontroller": diagram.Control,
	"mcu":             diagram.Control,
	"fpga":            diagram.Control,
	"memory":          diagram.Control,

	// Other peripherals
	"wifi":      diagram.Other,
	"bluetooth": diagram.Other,
	"ble":       diagram.Other,
	"rf":        diagram.Other,
	"rf module": diagram.Other,
	"gsm":       diagram.Other,
	"antenna":   diagram.Other,
	"clock":     diagram.Other,
	"rtc":       diagram.Other,
}

// DefaultVocabulary returns a fresh copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return maps.Clone(defaultVocabulary)
}

// Lookup returns the category of keyword. The match is exact.
func (v Vocabulary) Lookup(keyword string) (diagram.Category, bool) {
	c, ok := v[keyword]
	return c, ok
}

// Merge returns a new vocabulary holding v overlaid with extra.
// Entries in extra win on conflict.
func (v Vocabulary) Merge(extra Vocabulary) Vocabulary {
	out := make(Vocabulary, len(v)+len(extra))
	maps.Copy(out, v)
	maps.Copy(out, extra)
	return out
}

// Keywords returns the sorted keywords assigned to c.
func (v Vocabulary) Keywords(c diagram.Category) []string {
	var out []string
	for k, cat := range v {
		if cat == c {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Grouped returns the vocabulary as category name → sorted keywords.
func (v Vocabulary) Grouped() map[string][]string {
	out := make(map[string][]string, diagram.NumCategories)
	for _, c := range diagram.Categories() {
		out[c.String()] = v.Keywords(c)
	}
	return out
}

// normalizeKeyword lowercases and trims a keyword read from a file.
func normalizeKeyword(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
