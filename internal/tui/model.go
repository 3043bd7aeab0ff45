// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RockerzXY/pdfiler/internal/install"
)

// stepStatus tracks where a step is in its lifecycle.
type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusDone
	statusSkipped
	statusFailed
)

type (
	// stepRow is the display state of one installation step.
	stepRow struct {
		name    install.StepName
		summary string
		status  stepStatus
		detail  string
		err     error
	}

	// Model renders installation progress, one row per step. It consumes
	// engine events from a channel and quits when the run finishes.
	Model struct {
		rows  []stepRow
		index map[install.StepName]int
		spin  spinner.Model

		events <-chan install.Event
		width  int

		done    bool
		aborted bool
		runErr  error
	}

	// eventMsg wraps an engine event for the update loop.
	eventMsg struct {
		event install.Event
	}
)

// NewModel builds a progress model for the given plan. Events must carry the
// step names the plan uses; events for unknown steps are ignored.
func NewModel(steps []install.Step, events <-chan install.Event) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	rows := make([]stepRow, len(steps))
	index := make(map[install.StepName]int, len(steps))
	for i, step := range steps {
		rows[i] = stepRow{name: step.Name, summary: step.Summary}
		index[step.Name] = i
	}

	return &Model{rows: rows, index: index, spin: s, events: events}
}

// Done reports whether the run finished, successfully or not.
func (m *Model) Done() bool { return m.done }

// Err returns the run error once the model is done, nil on success.
func (m *Model) Err() error { return m.runErr }

// Aborted reports whether the user quit the display before the run finished.
// The caller is responsible for cancelling the run in that case.
func (m *Model) Aborted() bool { return m.aborted }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(msg.event)
		if m.done {
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("pdfiler setup"))
	b.WriteString("\n\n")
	for _, r := range m.rows {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}
	if m.done {
		b.WriteString("\n")
		if m.runErr != nil {
			b.WriteString(errorStyle.Render("Installation failed."))
		} else {
			b.WriteString(successStyle.Render("Installation finished."))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// apply folds one engine event into the display state.
func (m *Model) apply(e install.Event) {
	if e.Kind == install.EventRunFinished {
		m.done = true
		m.runErr = e.Err
		return
	}
	i, ok := m.index[e.Step]
	if !ok {
		return
	}
	switch e.Kind {
	case install.EventStepStarted:
		m.rows[i].status = statusRunning
	case install.EventStepCompleted:
		m.rows[i].status = statusDone
		m.rows[i].detail = e.Detail
	case install.EventStepSkipped:
		m.rows[i].status = statusSkipped
		m.rows[i].detail = e.Detail
	case install.EventStepFailed:
		m.rows[i].status = statusFailed
		m.rows[i].err = e.Err
	}
}

func (m *Model) renderRow(r stepRow) string {
	var mark, text string
	switch r.status {
	case statusRunning:
		mark = m.spin.View()
		text = r.summary
	case statusDone:
		mark = successStyle.Render("✓")
		text = r.summary
	case statusSkipped:
		mark = skipStyle.Render("↷")
		text = r.summary
	case statusFailed:
		mark = errorStyle.Render("✗")
		text = r.summary
	default:
		mark = pendingStyle.Render("·")
		text = pendingStyle.Render(r.summary)
	}

	line := "  " + mark + " " + text
	if r.err != nil {
		return line + errorStyle.Render(": "+r.err.Error())
	}
	if r.detail != "" {
		withDetail := line + detailStyle.Render(" ("+r.detail+")")
		if m.width == 0 || lipgloss.Width(withDetail) <= m.width {
			return withDetail
		}
	}
	return line
}

// waitForEvent blocks on the next engine event. The command is re-issued
// after every received event until the run finishes.
func waitForEvent(events <-chan install.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg{event: e}
	}
}
