package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

// exportCommand creates the export command, which re-encodes a diagram JSON
// document, typically one changed with "blockgen edit" or by hand.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export <diagram.json>",
		Short: "Export a diagram JSON file to other formats",
		Example: `  blockgen export block-diagram.json --format svg,drawio
  blockgen export block-diagram.json --format png -o -  > diagram.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			d, err := export.ReadJSONFile(args[0])
			if err != nil {
				return err
			}

			popts := pipeline.Options{Formats: parseFormats(formats, cfg.Formats), Logger: c.Logger}
			if err := popts.ValidateForExport(); err != nil {
				return err
			}
			if output == "" {
				output = cfg.OutputDir
			}
			if output == stdoutPath && len(popts.ExportFormats()) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--output - requires exactly one format")
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			artifacts, hit, err := runner.ExportWithCacheInfo(ctx, d, popts)
			if err != nil {
				return err
			}

			paths, err := writeArtifacts(cmd.OutOrStdout(), output, popts.ExportFormats(), artifacts)
			if err != nil || output == stdoutPath {
				return err
			}

			printSuccess("Exported %s", args[0])
			printStats(len(d.Nodes), len(d.Edges), hit)
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formats, "format", "", "comma-separated formats: json, svg, drawio, dot, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output directory, or "-" for stdout (default from config)`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
