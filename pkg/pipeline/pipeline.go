// Package pipeline runs the text → diagram → exports pipeline with caching.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// logging and instrumentation behave the same from every entry point.
//
// # Stages
//
//  1. Generate: classify the description and build the diagram
//  2. Export: encode the diagram in each requested format
//
// Each stage can be run on its own. Export is also used for diagrams that
// did not come from Generate, such as an edited JSON document.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    "battery powered camera with wifi",
//	    Formats: []string{"svg", "drawio"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[export.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
)

// DefaultFormats are exported when no format is requested.
var DefaultFormats = []string{string(export.FormatJSON), string(export.FormatSVG), string(export.FormatDrawIO)}

// MaxTextLength bounds the description accepted by the pipeline.
const MaxTextLength = 64 << 10

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Text is the free-form device description.
	Text string `json:"text"`

	// Formats lists export formats by name. Defaults to [DefaultFormats].
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads. Fresh results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Vocabulary replaces the built-in vocabulary when non-nil.
	Vocabulary generate.Vocabulary `json:"-"`

	// Logger receives stage logs. Defaults to a discarding logger.
	Logger *log.Logger `json:"-"`

	formats   []export.Format
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the fields used by the generate stage.
// Empty text is valid and yields the baseline diagram.
func (o *Options) ValidateForGenerate() error {
	if len(o.Text) > MaxTextLength {
		return errors.New(errors.ErrCodeInvalidInput,
			"description too long: %d bytes (max %d)", len(o.Text), MaxTextLength)
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForExport parses the requested formats.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	formats, err := export.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.formats = formats
	o.setLoggerDefault()
	return nil
}

// ExportFormats returns the parsed formats. Valid after [Options.ValidateForExport].
func (o *Options) ExportFormats() []export.Format { return o.formats }

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the generated diagram.
	Diagram diagram.Diagram

	// DiagramHash is the content hash of the diagram's JSON encoding.
	DiagramHash string

	// Artifacts holds the encoded diagram keyed by format.
	Artifacts map[export.Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Diagram came from cache
	ExportHit   bool // Every artifact came from cache
}
