package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/steps"
)

// playCommand steps through a diagram's reveal sequence in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var (
		loop     bool
		auto     bool
		delay    time.Duration
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play <diagram>",
		Short: "Step through a diagram's reveal sequence",
		Long: `Step through the reveal steps of a diagram in the terminal, showing which
elements are visible and highlighted at each step.

Use the arrow keys or space to move, p to toggle auto-advance, r to reset
and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(d.Steps) == 0 {
				return fmt.Errorf("%s has no steps", args[0])
			}

			cfg := c.config().Steps
			opts := steps.Options{
				Loop:                     loop || cfg.Loop,
				AutoAdvanceDelay:         cfg.AutoAdvanceDelay.Duration,
				DefaultAnimationDuration: cfg.AnimationDuration.Duration,
				EnableKeyboard:           true,
			}
			if cmd.Flags().Changed("delay") {
				opts.AutoAdvanceDelay = delay
			}
			if cmd.Flags().Changed("animation") {
				opts.DefaultAnimationDuration = duration
			}

			m := steps.New(d.StepConfigs(), opts)
			defer m.Destroy()

			p := tea.NewProgram(newPlayModel(args[0], d, m), tea.WithContext(cmd.Context()), tea.WithOutput(c.Out))
			unsubscribe := m.Subscribe(func(steps.State) {
				// state changes can come from inside Update; never block it
				go p.Send(refreshMsg{})
			})
			defer unsubscribe()

			if auto {
				m.StartAutoAdvance()
			}
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "wrap from the last step to the first")
	cmd.Flags().BoolVar(&auto, "auto", false, "start with auto-advance on")
	cmd.Flags().DurationVar(&delay, "delay", steps.DefaultAutoAdvanceDelay, "pause between automatic steps")
	cmd.Flags().DurationVar(&duration, "animation", steps.DefaultAnimationDuration, "default step animation duration")

	return cmd
}

// =============================================================================
// Player Model
// =============================================================================

// refreshMsg tells the player the manager state changed.
type refreshMsg struct{}

// playKeys extends the step bindings with player controls.
type playKeys struct {
	steps.KeyMap
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k playKeys) ShortHelp() []key.Binding {
	return append(k.KeyMap.ShortHelp(), k.Help, k.Quit)
}

func (k playKeys) FullHelp() [][]key.Binding {
	return append(k.KeyMap.FullHelp(), []key.Binding{k.Reset, k.Help, k.Quit})
}

type playModel struct {
	name    string
	diagram *diagram.StructuredDiagram
	manager *steps.Manager
	keys    playKeys
	help    help.Model
	width   int
}

func newPlayModel(name string, d *diagram.StructuredDiagram, m *steps.Manager) playModel {
	return playModel{
		name:    name,
		diagram: d,
		manager: m,
		keys: playKeys{
			KeyMap: m.Keys(),
			Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
			Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		help:  help.New(),
		width: 60,
	}
}

func (m playModel) Init() tea.Cmd { return nil }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.manager.Reset()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			m.manager.HandleKey(msg)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case refreshMsg:
	}
	return m, nil
}

var (
	playBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	playBarFull   = lipgloss.NewStyle().Foreground(colorCyan)
	playBarEmpty  = lipgloss.NewStyle().Foreground(colorDim)
	playHighlight = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

func (m playModel) View() string {
	state := m.manager.State()
	frame := m.manager.Frame()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString(StyleDim.Render(" · " + string(m.diagram.Type)))
	b.WriteString("\n\n")

	step := m.diagram.Steps[state.CurrentStep]
	title := fmt.Sprintf("Step %d/%d", state.CurrentStep+1, state.TotalSteps)
	if step.Label != "" {
		title += "  " + StyleValue.Render(step.Label)
	}
	var body strings.Builder
	body.WriteString(title)
	if step.Description != "" {
		body.WriteString("\n" + StyleDim.Render(step.Description))
	}
	body.WriteString("\n\n" + elementLine(frame))
	for _, a := range step.Annotations {
		body.WriteString("\n" + StyleHighlight.Render(iconInfo+" ") + a.Text)
	}
	b.WriteString(playBoxStyle.Render(body.String()))
	b.WriteString("\n")

	b.WriteString(progressBar(m.manager.Progress(), min(max(m.width-20, 10), 50)))
	b.WriteString(" " + statusLine(state))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// elementLine lists the visible elements with highlighted ones emphasized.
func elementLine(f steps.Frame) string {
	if len(f.Visible) == 0 {
		return StyleDim.Render("(nothing visible)")
	}
	highlighted := make(map[string]bool, len(f.Highlighted))
	for _, id := range f.Highlighted {
		highlighted[id] = true
	}
	parts := make([]string, len(f.Visible))
	for i, id := range f.Visible {
		if highlighted[id] {
			parts[i] = playHighlight.Render(id)
		} else {
			parts[i] = StyleValue.Render(id)
		}
	}
	return strings.Join(parts, StyleDim.Render(", "))
}

// progressBar renders pct (0 to 100) as a bar of the given width.
func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return playBarFull.Render(strings.Repeat("█", filled)) +
		playBarEmpty.Render(strings.Repeat("░", width-filled)) +
		StyleDim.Render(fmt.Sprintf(" %3.0f%%", pct))
}

func statusLine(s steps.State) string {
	var flags []string
	if s.IsAnimating {
		flags = append(flags, "animating")
	}
	if s.IsAutoAdvancing {
		flags = append(flags, StyleSuccess.Render("auto"))
	}
	return StyleDim.Render(strings.Join(flags, " · "))
}
