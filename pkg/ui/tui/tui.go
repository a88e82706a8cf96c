package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the interactive view of a download run. It implements
// downloader.Observer, so it can be handed to Downloader.SetObserver.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a TUI for a run of total items drawn on out. onQuit is
// called when the user stops the run early.
func NewTUI(total int, out io.Writer, onQuit func()) *TUI {
	model := NewModel(total, onQuit)
	program := tea.NewProgram(&model, tea.WithAltScreen(), tea.WithOutput(out))

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Preface adds a log line shown when the view opens. Call it before Start.
func (t *TUI) Preface(level, format string, args ...interface{}) {
	t.model.AddLogMessage(level, fmt.Sprintf(format, args...))
}

// Start runs the TUI until the run ends or the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Send sends a message to the TUI. It blocks until the program is running
// and returns at once after it has exited.
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// ItemStarted reports that fbid is being processed
func (t *TUI) ItemStarted(index int, fbid string) {
	t.Send(ItemStartMsg{Index: index, FBID: fbid})
}

// ItemSaved reports a written photo
func (t *TUI) ItemSaved(index int, fbid, path string, size int64) {
	t.Send(ItemSavedMsg{Index: index, FBID: fbid, Path: path, Size: size})
}

// ItemFailed reports a failed identifier
func (t *TUI) ItemFailed(index int, fbid string, err error) {
	t.Send(ItemFailedMsg{Index: index, FBID: fbid, Err: err})
}

// Finish ends the TUI with the result of the run
func (t *TUI) Finish(err error) {
	t.Send(RunDoneMsg{Err: err})
}
