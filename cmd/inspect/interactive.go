package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/scoped/handle"
	"github.com/wippyai/scoped/provider"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	owningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	markedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	scope    *handle.Scope
	bufs     *provider.Buffer
	handles  []*handle.Handle
	labels   []string
	events   []string
	input    textinput.Model
	err      error
	selected int
	marked   int // index of move source, -1 when no move pending
	typing   bool
}

// eventLog collects scope events. Scope operations only happen inside
// Update, so appends are confined to the TUI goroutine.
type eventLog struct {
	m *interactiveModel
}

func (l eventLog) OnHandleEvent(e handle.Event) {
	var verb string
	switch e.Type {
	case handle.EventOpened:
		verb = "opened"
	case handle.EventTransferred:
		verb = "transferred"
	case handle.EventReleased:
		verb = "released"
	}
	l.m.events = append(l.m.events, fmt.Sprintf("%s %s (%s)", verb, e.Name, e.ID[:8]))
	if len(l.m.events) > 8 {
		l.m.events = l.m.events[len(l.m.events)-8:]
	}
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "resource name"
	ti.Prompt = "open: "
	ti.Width = 30

	m := &interactiveModel{
		bufs:   provider.NewBuffer(),
		input:  ti,
		marked: -1,
	}
	m.scope = handle.NewScope(handle.WithObserver(eventLog{m}))
	return m
}

func runInteractive() error {
	m := newInteractiveModel()
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.typing {
		switch keyMsg.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			m.typing = false
			m.input.Blur()
			m.input.SetValue("")
			if name != "" {
				m.open(name)
			}
			return m, nil
		case "esc":
			m.typing = false
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		m.err = m.scope.Close()
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.handles)-1 {
			m.selected++
		}

	case "o":
		m.typing = true
		m.err = nil
		return m, m.input.Focus()

	case "c":
		if m.selected < len(m.handles) {
			m.err = m.handles[m.selected].Close()
		}

	case "m":
		switch {
		case m.marked == -1 && m.selected < len(m.handles):
			m.marked = m.selected
		case m.marked >= 0 && m.selected < len(m.handles):
			src := m.handles[m.marked]
			dst := m.handles[m.selected]
			m.marked = -1
			if src != dst {
				m.err = src.MoveTo(dst)
			}
		}

	case "esc":
		m.marked = -1
	}

	return m, nil
}

func (m *interactiveModel) open(name string) {
	h, err := m.scope.Open(context.Background(), m.bufs, name)
	if err != nil {
		m.err = err
		return
	}
	m.handles = append(m.handles, h)
	m.labels = append(m.labels, name)
	m.selected = len(m.handles) - 1
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scope Inspector"))
	b.WriteString(fmt.Sprintf("  %d owned\n\n", m.scope.Len()))

	if len(m.handles) == 0 {
		b.WriteString(emptyStyle.Render("no handles yet - press o to open one"))
		b.WriteString("\n")
	}
	for i, h := range m.handles {
		line := m.formatHandle(i, h)
		switch {
		case i == m.selected:
			b.WriteString(selectedStyle.Render("> " + line))
		case i == m.marked:
			b.WriteString(markedStyle.Render("* " + line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		for _, e := range m.events {
			b.WriteString(eventStyle.Render(e))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.marked >= 0 {
		b.WriteString(helpStyle.Render("m move into selected • esc cancel move"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • o open • c close • m mark move source • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *interactiveModel) formatHandle(i int, h *handle.Handle) string {
	label := m.labels[i]
	if h.Owning() {
		return fmt.Sprintf("#%d %s %s", i, owningStyle.Render(h.Name()), emptyStyle.Render(h.ID()[:8]))
	}
	return fmt.Sprintf("#%d %s", i, emptyStyle.Render(label+" (empty)"))
}
