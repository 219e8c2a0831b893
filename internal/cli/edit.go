package cli

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
)

// editOptions lists the edits to apply, in the order they are applied.
type editOptions struct {
	clear    bool
	remove   []string
	connect  []string // "source:target"
	comments []string // "id=text"
	moves    []string // "id=x,y"
	output   string
}

func (e editOptions) empty() bool {
	return !e.clear && len(e.remove)+len(e.connect)+len(e.comments)+len(e.moves) == 0
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOptions

	cmd := &cobra.Command{
		Use:   "edit <diagram.json>",
		Short: "Delete, connect, comment or move nodes of a diagram",
		Long: `Apply edits to a diagram JSON file and write it back.

Edits run in this order: --clear, --remove, --connect, --comment, --move.
The five category blocks cannot be removed.`,
		Example: `  blockgen edit block-diagram.json --remove inputs-101
  blockgen edit block-diagram.json --connect power:control --comment control="ESP32"
  blockgen edit block-diagram.json --move outputs-103=820,400 -o edited.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.empty() {
				return errors.New(errors.ErrCodeInvalidInput, "no edits given")
			}

			d, err := export.ReadJSONFile(args[0])
			if err != nil {
				return err
			}
			if err := applyEdits(&d, opts); err != nil {
				return err
			}

			data, err := export.JSON(d.Nodes, d.Edges)
			if err != nil {
				return err
			}
			dst := opts.output
			if dst == "" {
				dst = args[0]
			}
			if err := errors.ValidatePath(dst); err != nil {
				return err
			}
			if err := os.WriteFile(dst, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", dst)
			}

			printSuccess("Updated diagram")
			printStats(len(d.Nodes), len(d.Edges), false)
			printFile(dst)
			printNextStep("Re-export", "blockgen export "+dst)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.clear, "clear", false, "reset to the five category blocks")
	cmd.Flags().StringArrayVar(&opts.remove, "remove", nil, "delete a node and its edges (repeatable)")
	cmd.Flags().StringArrayVar(&opts.connect, "connect", nil, "add an edge, as source:target (repeatable)")
	cmd.Flags().StringArrayVar(&opts.comments, "comment", nil, "set a node comment, as id=text (repeatable)")
	cmd.Flags().StringArrayVar(&opts.moves, "move", nil, "move a node, as id=x,y (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

// applyEdits applies opts to d. d is left partially edited on error.
func applyEdits(d *diagram.Diagram, opts editOptions) error {
	if opts.clear {
		*d = diagram.Baseline()
	}
	for _, id := range opts.remove {
		if err := d.RemoveNode(id); err != nil {
			return err
		}
	}
	for _, s := range opts.connect {
		src, dst, ok := strings.Cut(s, ":")
		if !ok || src == "" || dst == "" {
			return errors.New(errors.ErrCodeInvalidInput, "invalid --connect %q, want source:target", s)
		}
		if _, err := d.Connect(src, dst); err != nil {
			return err
		}
	}
	for _, s := range opts.comments {
		id, text, ok := strings.Cut(s, "=")
		if !ok || id == "" {
			return errors.New(errors.ErrCodeInvalidInput, "invalid --comment %q, want id=text", s)
		}
		if err := d.SetComment(id, text); err != nil {
			return err
		}
	}
	for _, s := range opts.moves {
		id, pos, err := parseMove(s)
		if err != nil {
			return err
		}
		if err := d.Move(id, pos); err != nil {
			return err
		}
	}
	return nil
}

// parseMove parses "id=x,y".
func parseMove(s string) (string, diagram.Position, error) {
	bad := errors.New(errors.ErrCodeInvalidInput, "invalid --move %q, want id=x,y", s)

	id, coords, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return "", diagram.Position{}, bad
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return "", diagram.Position{}, bad
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil || !isFinite(x) || !isFinite(y) {
		return "", diagram.Position{}, bad
	}
	return id, diagram.Position{X: x, Y: y}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
