package export

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/generate"
)

func roundTrips(d diagram.Diagram) bool {
	data, err := JSON(d.Nodes, d.Edges)
	if err != nil {
		return false
	}
	got, err := ImportJSON(data)
	return err == nil && got.Equal(d)
}

// TestJSONRoundTripProperties checks that ImportJSON reverses JSON for every
// generated diagram, including ones edited afterwards.
func TestJSONRoundTripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("generated diagrams round-trip", prop.ForAll(
		func(text string) bool {
			return roundTrips(generate.Generate(text))
		},
		gen.AnyString(),
	))

	properties.Property("keyword descriptions round-trip", prop.ForAll(
		func(words []string) bool {
			text := ""
			for _, w := range words {
				text += w + ", "
			}
			return roundTrips(generate.Generate(text))
		},
		gen.SliceOf(gen.OneConstOf("battery", "camera", "mcu", "led", "motor", "wifi", "ble", "noise")),
	))

	properties.Property("edited diagrams round-trip", prop.ForAll(
		func(comment string, x, y float64) bool {
			d := generate.Generate("battery camera mcu led wifi")
			if err := d.SetComment("control", comment); err != nil {
				return false
			}
			if err := d.Move("inputs", diagram.Position{X: x, Y: y}); err != nil {
				return false
			}
			if err := d.RemoveNode("outputs-103"); err != nil {
				return false
			}
			return roundTrips(d)
		},
		gen.AlphaString(),
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
