// Package tui provides the BubbleTea-based soundboard controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/soundboard/internal/board"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	nameStyle      = lipgloss.NewStyle().Bold(true)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	droppedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the main TUI model.
type Model struct {
	board  *board.Board
	sounds []board.Info
	cursor int

	keys     KeyMap
	help     help.Model
	showHelp bool

	statusMsg string
	statusErr bool

	width  int
	height int
}

// New creates a TUI model over a prepared board.
func New(b *board.Board) Model {
	return Model{
		board:  b,
		sounds: b.Sounds(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.sounds)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0

	case key.Matches(msg, m.keys.End):
		if len(m.sounds) > 0 {
			m.cursor = len(m.sounds) - 1
		}

	case key.Matches(msg, m.keys.Play):
		if s, ok := m.selected(); ok {
			if !s.Prepared {
				m.setStatus(fmt.Sprintf("%s is unavailable", s.Name), true)
				break
			}
			m.board.Play(ctx, s.Name)
			m.setStatus(fmt.Sprintf("playing %s", s.Name), false)
		}

	case key.Matches(msg, m.keys.Pause):
		if s, ok := m.selected(); ok {
			m.board.Pause(ctx, s.Name)
			m.setStatus(fmt.Sprintf("paused %s", s.Name), false)
		}

	case key.Matches(msg, m.keys.Stop):
		if s, ok := m.selected(); ok {
			m.board.Stop(ctx, s.Name)
			m.setStatus(fmt.Sprintf("stopped %s", s.Name), false)
		}

	case key.Matches(msg, m.keys.StopAll):
		m.board.StopAll(ctx)
		m.setStatus("stopped all sounds", false)

	case key.Matches(msg, m.keys.Refresh):
		if s, ok := m.selected(); ok {
			m.board.Refresh(s.Name)
			m.sounds = m.board.Sounds()
			m.setStatus(fmt.Sprintf("reloaded %s", s.Name), false)
		}
	}

	return m, nil
}

func (m Model) selected() (board.Info, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sounds) {
		return board.Info{}, false
	}
	return m.sounds[m.cursor], true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("soundboard"))
	b.WriteString("\n\n")

	if len(m.sounds) == 0 {
		b.WriteString(metaStyle.Render("  no sounds configured"))
		b.WriteString("\n")
	}

	for i, s := range m.sounds {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := nameStyle.Render(s.Name)
		if s.Prepared {
			line += metaStyle.Render(fmt.Sprintf("  %s  %s", s.Encoding, describeOptions(s.Options)))
		} else {
			line += droppedStyle.Render("  unavailable")
		}

		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		style := statusStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString(style.Render(m.statusMsg))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

// describeOptions renders the non-default playback options inline.
func describeOptions(opts board.Options) string {
	var parts []string
	if opts.Loop {
		parts = append(parts, "loop")
	}
	if opts.Muted {
		parts = append(parts, "muted")
	}
	if opts.Autoplay {
		parts = append(parts, "autoplay")
	}
	if opts.Volume != 1 {
		parts = append(parts, fmt.Sprintf("vol %.2f", opts.Volume))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}

// Run starts the TUI over the given board.
func Run(b *board.Board) error {
	p := tea.NewProgram(New(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
