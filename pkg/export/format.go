package export

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON   Format = "json"
	FormatSVG    Format = "svg"
	FormatDrawIO Format = "drawio"
	FormatDOT    Format = "dot"
	FormatPNG    Format = "png"
)

// baseName is the file name stem of every exported document.
const baseName = "block-diagram"

type formatInfo struct {
	ext         string
	contentType string
}

var formats = map[Format]formatInfo{
	FormatJSON:   {ext: "json", contentType: "application/json"},
	FormatSVG:    {ext: "svg", contentType: "image/svg+xml"},
	FormatDrawIO: {ext: "drawio", contentType: "application/xml"},
	FormatDOT:    {ext: "dot", contentType: "text/vnd.graphviz"},
	FormatPNG:    {ext: "png", contentType: "image/png"},
}

// Formats returns every supported format, sorted by name.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for f := range formats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ParseFormat validates a format name. Matching is case-sensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := formats[f]; !ok {
		names := make([]string, 0, len(formats))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", s, strings.Join(names, ", "))
	}
	return f, nil
}

// ParseFormats validates a list of format names.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Extension returns the file extension of f without the dot.
func (f Format) Extension() string { return formats[f].ext }

// ContentType returns the MIME type of f.
func (f Format) ContentType() string { return formats[f].contentType }

// Filename returns the default download name for f, e.g. "block-diagram.svg".
func (f Format) Filename() string { return baseName + "." + f.Extension() }

// Export encodes the diagram in the given format.
// The context is only consulted by formats that run an external engine (PNG).
func Export(ctx context.Context, f Format, nodes []diagram.Node, edges []diagram.Edge) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(nodes, edges)
	case FormatSVG:
		return SVG(nodes, edges), nil
	case FormatDrawIO:
		return DrawIO(nodes, edges)
	case FormatDOT:
		return []byte(DOT(nodes, edges)), nil
	case FormatPNG:
		return PNG(ctx, nodes, edges)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}
