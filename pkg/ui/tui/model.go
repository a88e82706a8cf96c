package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ItemState is the state of one identifier in the run
type ItemState int

const (
	ItemPending ItemState = iota
	ItemActive
	ItemSaved
	ItemFailed
)

// Item is one identifier of the run
type Item struct {
	Index int
	FBID  string
	Path  string
	Size  int64
	State ItemState
	Err   error
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
}

// Model is the bubbletea model of a download run. State only changes inside
// Update, on the program goroutine.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	total     int
	items     []*Item
	current   *Item
	totalSize int64
	startTime time.Time

	finished bool
	runErr   error
	onQuit   func()

	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
}

// NewModel creates a model for a run of total items. onQuit is called when
// the user quits before the run ends; it may be nil.
func NewModel(total int, onQuit func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(neonCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:        s,
		progress:       p,
		total:          total,
		startTime:      time.Now(),
		onQuit:         onQuit,
		maxLogMessages: 50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m *Model) startItem(index int, fbid string) {
	item := &Item{Index: index, FBID: fbid, State: ItemActive}
	m.items = append(m.items, item)
	m.current = item
}

func (m *Model) saveItem(index int, fbid, path string, size int64) {
	item := m.find(index, fbid)
	item.State = ItemSaved
	item.Path = path
	item.Size = size
	m.totalSize += size
	m.current = nil
}

func (m *Model) failItem(index int, fbid string, err error) {
	item := m.find(index, fbid)
	item.State = ItemFailed
	item.Err = err
	m.current = nil
}

// find returns the item for index, adding it when no start was seen
func (m *Model) find(index int, fbid string) *Item {
	for _, item := range m.items {
		if item.Index == index {
			return item
		}
	}
	item := &Item{Index: index, FBID: fbid}
	m.items = append(m.items, item)
	return item
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Saved returns the saved items in order
func (m *Model) Saved() []*Item {
	var saved []*Item
	for _, item := range m.items {
		if item.State == ItemSaved {
			saved = append(saved, item)
		}
	}
	return saved
}

// Percent is the share of the run that is done
func (m *Model) Percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(len(m.Saved())) / float64(m.total)
}

// Stats returns the average transfer speed and the estimated time left
func (m *Model) Stats() (avgSpeed float64, eta time.Duration) {
	elapsed := time.Since(m.startTime)
	saved := len(m.Saved())
	if saved == 0 || elapsed <= 0 {
		return 0, 0
	}

	avgSpeed = float64(m.totalSize) / elapsed.Seconds()
	if left := m.total - saved; left > 0 {
		eta = elapsed / time.Duration(saved) * time.Duration(left)
	}
	return avgSpeed, eta
}

// Finished reports whether the run has ended, and how
func (m *Model) Finished() (bool, error) {
	return m.finished, m.runErr
}

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed formats speed in bytes per second
func FormatSpeed(bytesPerSecond float64) string {
	return fmt.Sprintf("%s/s", FormatBytes(int64(bytesPerSecond)))
}
