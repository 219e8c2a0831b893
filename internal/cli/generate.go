package cli

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

type generateOptions struct {
	file    string
	formats string
	output  string
	vocab   string
	noCache bool
	refresh bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [description...]",
		Short: "Generate a block diagram from a device description",
		Long: `Generate a block diagram from a free-text device description.

The description is taken from the arguments, from --file, or from stdin.
Words found in the vocabulary become blocks under their category; see
"blockgen vocab" for the known keywords.`,
		Example: `  blockgen generate "battery powered camera with wifi and an led"
  blockgen generate -f device.txt --format svg,drawio -o out/
  echo "mcu with speaker" | blockgen generate --format svg -o -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDescription(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), text, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the description from a file")
	cmd.Flags().StringVar(&opts.formats, "format", "", "comma-separated formats: json, svg, drawio, dot, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output directory, or "-" for stdout (default from config)`)
	cmd.Flags().StringVar(&opts.vocab, "vocab", "", "extra vocabulary file (TOML or YAML)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, w io.Writer, text string, opts generateOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	vocab, err := c.vocabulary(cfg, opts.vocab)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Text:       text,
		Formats:    parseFormats(opts.formats, cfg.Formats),
		Refresh:    opts.refresh,
		Vocabulary: vocab,
		Logger:     c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = cfg.OutputDir
	}
	toStdout := output == stdoutPath
	if toStdout && len(popts.ExportFormats()) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--output - requires exactly one format")
	}

	runner := c.newRunner(ctx, cfg, opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Generating diagram...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("pipeline finished", "formats", len(result.Artifacts))

	formats := popts.ExportFormats()
	paths, err := writeArtifacts(w, output, formats, result.Artifacts)
	if err != nil || toStdout {
		return err
	}

	printSuccess("Generated block diagram")
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.GenerateHit)
	printComponents(result.Diagram.Derived())
	for _, p := range paths {
		printFile(p)
	}

	if len(result.Diagram.Derived()) == 0 {
		printWarning("No known components found, the diagram holds the category blocks only")
		printNextStep("List known keywords", "blockgen vocab")
		return nil
	}
	if i := slices.Index(formats, export.FormatJSON); i >= 0 && i < len(paths) {
		printNextStep("Tweak the diagram", "blockgen edit "+paths[i]+" --comment power=\"2x AA\"")
	}
	return nil
}

// readDescription returns the description from args, from file, or from r.
func readDescription(r io.Reader, args []string, file string) (string, error) {
	if file != "" {
		if len(args) > 0 {
			return "", errors.New(errors.ErrCodeInvalidInput, "pass the description as arguments or with --file, not both")
		}
		data, err := os.ReadFile(file)
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeFileNotFound, "description file %s not found", file)
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", file)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(r, pipeline.MaxTextLength+1))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	return string(data), nil
}
