package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/layout"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// stepsCommand creates the steps command.
func (c *CLI) stepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps <request.yaml>",
		Short: "Walk through a scene's animation steps interactively",
		Long: `Walk through a scene's animation steps interactively.

Builds the scene plan for the request and opens a step player. Useful for
checking step ordering and colors before rendering a video.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := diagram.ReadRequestFile(args[0])
			if err != nil {
				return err
			}
			plan, err := layout.Build(req)
			if err != nil {
				return err
			}

			model := NewStepListModel(plan)
			program := tea.NewProgram(model)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("step player: %w", err)
			}
			return nil
		},
	}

	return cmd
}

// =============================================================================
// StepListModel - Interactive step walkthrough
// =============================================================================

// StepListModel is the bubbletea model for walking a plan's steps.
type StepListModel struct {
	Plan   *scene.Plan
	Cursor int
	Height int
	Offset int
}

// NewStepListModel creates a new step list model.
func NewStepListModel(plan *scene.Plan) StepListModel {
	return StepListModel{
		Plan:   plan,
		Height: 15,
	}
}

func (m StepListModel) Init() tea.Cmd {
	return nil
}

func (m StepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Plan.Steps)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor = 0
			m.Offset = 0
		case "end", "G":
			m.Cursor = len(m.Plan.Steps) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m StepListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Plan.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Plan.Steps) {
		end = len(m.Plan.Steps)
	}

	for i := m.Offset; i < end; i++ {
		step := m.Plan.Steps[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%3d  %-10s %s", cursor, step.Ordinal, step.Kind, describeStep(step))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.Plan.Steps) > 0 {
		current := m.Plan.Steps[m.Cursor]
		detail := fmt.Sprintf("  [%d/%d] color=%s", m.Cursor+1, len(m.Plan.Steps), current.Color)
		if current.TimingMS > 0 {
			detail += fmt.Sprintf("  %dms", current.TimingMS)
		}
		b.WriteString(listDimStyle.Render(detail))
	} else {
		b.WriteString(listDimStyle.Render("  no steps"))
	}

	return b.String()
}

// describeStep renders a one-line summary of a step's effect.
func describeStep(step scene.Step) string {
	switch step.Kind {
	case scene.StepMessage:
		return fmt.Sprintf("%s %s %s  %q", step.From, iconArrow, step.To, step.Message)
	case scene.StepHighlight:
		if step.From != "" {
			return fmt.Sprintf("%s  %q", step.From, step.Message)
		}
		return step.Message
	case scene.StepSwap:
		return fmt.Sprintf("%s ⇄ %s", step.From, step.To)
	case scene.StepTransition:
		if step.To != "" {
			return fmt.Sprintf("%s %s %s", step.From, iconArrow, step.To)
		}
		return fmt.Sprintf("%s  %q", step.From, step.Message)
	default:
		return step.Message
	}
}
