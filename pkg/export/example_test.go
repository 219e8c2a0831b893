package export_test

import (
	"fmt"

	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
)

func ExampleParseFormat() {
	f, err := export.ParseFormat("drawio")
	if err != nil {
		panic(err)
	}
	fmt.Println(f.Filename(), f.ContentType())
	// Output: block-diagram.drawio application/xml
}

func ExampleImportJSON() {
	d := generate.Generate("battery powered camera with an mcu and led")

	data, err := export.JSON(d.Nodes, d.Edges)
	if err != nil {
		panic(err)
	}
	back, err := export.ImportJSON(data)
	if err != nil {
		panic(err)
	}
	fmt.Println(len(back.Nodes), len(back.Edges), back.Equal(d))
	// Output: 9 3 true
}
