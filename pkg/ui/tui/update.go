package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// ItemStartMsg is sent when an identifier starts processing
type ItemStartMsg struct {
	Index int
	FBID  string
}

// ItemSavedMsg is sent when a photo has been written
type ItemSavedMsg struct {
	Index int
	FBID  string
	Path  string
	Size  int64
}

// ItemFailedMsg is sent when an identifier fails
type ItemFailedMsg struct {
	Index int
	FBID  string
	Err   error
}

// RunDoneMsg is sent when the run ends. Err is nil on success.
type RunDoneMsg struct {
	Err error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, msg.Width/2-16)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd

	case TickMsg:
		if m.finished {
			return m, nil
		}
		return m, tickCmd()

	case ItemStartMsg:
		m.startItem(msg.Index, msg.FBID)
		m.AddLogMessage("INFO", "Fetching "+msg.FBID)
		return m, nil

	case ItemSavedMsg:
		m.saveItem(msg.Index, msg.FBID, msg.Path, msg.Size)
		m.AddLogMessage("SUCCESS", fmt.Sprintf("%s -> %s", msg.FBID, filepath.Base(msg.Path)))
		return m, nil

	case ItemFailedMsg:
		m.failItem(msg.Index, msg.FBID, msg.Err)
		m.AddLogMessage("ERROR", fmt.Sprintf("%s: %v", msg.FBID, msg.Err))
		return m, nil

	case RunDoneMsg:
		m.finished = true
		m.runErr = msg.Err
		return m, tea.Quit

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if !m.finished && m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = nil
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
