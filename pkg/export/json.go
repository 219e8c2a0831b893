package export

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// JSON encodes the nodes and edges as a pretty-printed record document.
// Nil sequences are written as empty arrays.
func JSON(nodes []diagram.Node, edges []diagram.Edge) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nodes, edges); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the JSON document to w.
func WriteJSON(w io.Writer, nodes []diagram.Node, edges []diagram.Edge) error {
	out := diagram.Diagram{Nodes: nodes, Edges: edges}
	if out.Nodes == nil {
		out.Nodes = []diagram.Node{}
	}
	if out.Edges == nil {
		out.Edges = []diagram.Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode diagram")
	}
	return nil
}

// ImportJSON decodes a document produced by [JSON] and validates it.
// Re-importing an exported diagram reproduces it exactly.
func ImportJSON(data []byte) (diagram.Diagram, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ReadJSON decodes and validates a diagram document from r.
func ReadJSON(r io.Reader) (diagram.Diagram, error) {
	var d diagram.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "decode diagram")
	}
	if d.Nodes == nil {
		d.Nodes = []diagram.Node{}
	}
	if d.Edges == nil {
		d.Edges = []diagram.Edge{}
	}
	if err := d.Validate(); err != nil {
		return diagram.Diagram{}, err
	}
	return d, nil
}

// ReadJSONFile reads and validates a diagram document from path.
func ReadJSONFile(path string) (diagram.Diagram, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return diagram.Diagram{}, errors.New(errors.ErrCodeFileNotFound, "diagram file %s not found", path)
	}
	if err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
