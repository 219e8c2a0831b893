package generate_test

import (
	"fmt"

	"github.com/matzehuels/blockgen/pkg/generate"
)

func ExampleGenerate() {
	d := generate.Generate("Smart doorbell with camera, motion sensor and wifi")

	for _, n := range d.Derived() {
		fmt.Printf("%s %q at (%.0f, %.0f)\n", n.ID, n.Label, n.Position.X, n.Position.Y)
	}
	for _, e := range d.Edges {
		fmt.Printf("%s -> %s\n", e.Source, e.Target)
	}
	// Output:
	// inputs-100 "camera" at (270, 280)
	// inputs-101 "sensor" at (310, 360)
	// other-102 "wifi" at (1170, 280)
	// inputs-100 -> inputs-101
}

func ExampleTokenize() {
	fmt.Println(generate.Tokenize("CPU, LED; a Wi-Fi.module"))
	// Output: [cpu led wi-fi module]
}
