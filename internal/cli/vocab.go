package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/generate"
)

// vocabCommand creates the vocab command.
func (c *CLI) vocabCommand() *cobra.Command {
	var vocabPath string

	cmd := &cobra.Command{
		Use:   "vocab [description...]",
		Short: "Show the keyword vocabulary, or how a description is classified",
		Example: `  blockgen vocab
  blockgen vocab --vocab extra.toml
  blockgen vocab "solar panel charging a battery for an mcu"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			vocab, err := c.vocabulary(cfg, vocabPath)
			if err != nil {
				return err
			}
			if vocab == nil {
				vocab = generate.DefaultVocabulary()
			}

			if len(args) == 0 {
				fmt.Fprintln(out, renderVocabulary(vocab))
				return nil
			}

			d, _ := generate.GenerateWith(strings.Join(args, " "), vocab, generate.BaseID)
			derived := d.Derived()
			if len(derived) == 0 {
				printWarning("No known components in the description")
				return nil
			}
			fmt.Fprintln(out, renderClassification(derived))
			printDetail("%d components, %d edges", len(derived), len(d.Edges))
			return nil
		},
	}

	cmd.Flags().StringVar(&vocabPath, "vocab", "", "extra vocabulary file (TOML or YAML)")
	return cmd
}

// renderVocabulary renders one row per category with its sorted keywords.
func renderVocabulary(v generate.Vocabulary) string {
	rows := make([][]string, 0, diagram.NumCategories)
	for _, c := range diagram.Categories() {
		kws := v.Keywords(c)
		rows = append(rows, []string{c.String(), strconv.Itoa(len(kws)), strings.Join(kws, ", ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "#", "Keywords").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return categoryStyle(diagram.Categories()[row]).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1).Width(70)
		}).
		Render()
}

// renderClassification renders the derived nodes of a generated diagram.
func renderClassification(nodes []diagram.Node) string {
	rows := make([][]string, 0, len(nodes))
	cats := make([]diagram.Category, 0, len(nodes))
	for _, n := range nodes {
		cat := diagram.Other
		if n.Category != nil {
			cat = *n.Category
		}
		cats = append(cats, cat)
		rows = append(rows, []string{n.ID, n.DisplayLabel(), cat.String()})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Keyword", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 2 {
				return categoryStyle(cats[row]).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		Render()
}
