package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/plexgdm/internal/protocol"
)

// DefaultRefresh is how often the watch view polls its source
const DefaultRefresh = 500 * time.Millisecond

// Source is the engine state the watch view displays.
type Source interface {
	Servers() []protocol.ServerRecord
	DiscoveryComplete() bool
	Registered() bool
}

type refreshMsg time.Time

// WatchModel is a Bubble Tea model showing the live server list.
type WatchModel struct {
	source  Source
	refresh time.Duration
	spinner spinner.Model

	servers    []protocol.ServerRecord
	complete   bool
	registered bool
	updated    time.Time
	width      int
	quitting   bool
}

// NewWatchModel creates a watch view polling source.
func NewWatchModel(source Source) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = PendingStyle

	return WatchModel{
		source:  source,
		refresh: DefaultRefresh,
		spinner: s,
		width:   GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m WatchModel) poll() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case refreshMsg:
		m.servers = m.source.Servers()
		m.complete = m.source.DiscoveryComplete()
		m.registered = m.source.Registered()
		m.updated = time.Time(msg)
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	h := NewHeader("Plex servers", "plexgdm watch")
	h.Width = m.width
	b.WriteString(h.Render())
	b.WriteString("\n\n")

	if !m.complete {
		b.WriteString(fmt.Sprintf("  %s Searching for servers...\n", m.spinner.View()))
	} else {
		b.WriteString(RenderServerTable(m.servers))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.registered {
		b.WriteString(SuccessTitleStyle.Render("  " + SuccessMarker + " Announced to servers"))
	} else {
		b.WriteString(MutedStyle.Render("  " + PendingMarker + " Not announced"))
	}
	b.WriteString("\n")

	if !m.updated.IsZero() {
		b.WriteString(MutedStyle.Render("  Updated " + m.updated.Format("15:04:05")))
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render("  q: quit"))
	b.WriteString("\n")

	return b.String()
}

// RunWatch runs the watch view until the user quits.
func RunWatch(source Source) error {
	_, err := tea.NewProgram(NewWatchModel(source)).Run()
	return err
}
