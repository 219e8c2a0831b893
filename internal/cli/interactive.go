package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

var (
	previewLabelStyle = lipgloss.NewStyle().Width(10)
	previewEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewHintStyle  = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)
)

// interactiveCommand creates the interactive command.
func (c *CLI) interactiveCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Type a description and watch it being classified",
		Long: `Type a device description and see the recognized components sorted into
their categories as you type. Press enter to export the diagram, esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			vocab, err := c.vocabulary(cfg, opts.vocab)
			if err != nil {
				return err
			}
			if vocab == nil {
				vocab = generate.DefaultVocabulary()
			}

			p := tea.NewProgram(newPreviewModel(vocab),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.ErrOrStderr()))
			final, err := p.Run()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return fmt.Errorf("interactive: %w", err)
			}

			m := final.(previewModel)
			if !m.submitted {
				printInfo("Cancelled")
				return nil
			}
			return c.runGenerate(ctx, cmd.OutOrStdout(), m.Text(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.formats, "format", "", "comma-separated formats: json, svg, drawio, dot, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.vocab, "vocab", "", "extra vocabulary file (TOML or YAML)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// previewModel - live classification preview
// =============================================================================

// previewModel is the bubbletea model of the interactive command. It
// regenerates the diagram on every keystroke.
type previewModel struct {
	input     textinput.Model
	vocab     generate.Vocabulary
	diagram   diagram.Diagram
	submitted bool
}

func newPreviewModel(vocab generate.Vocabulary) previewModel {
	ti := textinput.New()
	ti.Placeholder = "battery powered camera with wifi and an led"
	ti.Prompt = iconInfo + " "
	ti.CharLimit = pipeline.MaxTextLength
	ti.Width = 60
	ti.Focus()

	m := previewModel{input: ti, vocab: vocab}
	m.refresh()
	return m
}

// Text returns the description typed so far.
func (m previewModel) Text() string { return m.input.Value() }

func (m *previewModel) refresh() {
	m.diagram, _ = generate.GenerateWith(m.input.Value(), m.vocab, generate.BaseID)
}

func (m previewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(20, msg.Width-4)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

func (m previewModel) View() string {
	var groups [diagram.NumCategories][]string
	for _, n := range m.diagram.Derived() {
		if n.Category != nil && n.Category.Valid() {
			groups[*n.Category] = append(groups[*n.Category], n.DisplayLabel())
		}
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Describe your device"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for _, c := range diagram.Categories() {
		b.WriteString(previewLabelStyle.Inherit(categoryStyle(c)).Render(c.String()))
		if len(groups[c]) == 0 {
			b.WriteString(previewEmptyStyle.Render("—"))
		} else {
			b.WriteString(StyleValue.Render(strings.Join(groups[c], ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render(fmt.Sprintf("%d nodes · %d edges", len(m.diagram.Nodes), len(m.diagram.Edges))))
	b.WriteString(previewHintStyle.Render("\n⏎ export  esc quit"))
	b.WriteString("\n")
	return b.String()
}
