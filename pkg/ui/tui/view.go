package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
╔═══════════════════════════════════════════╗
║ ███████╗███╗   ███╗██████╗ ██████╗        ║
║ ██╔════╝████╗ ████║██╔══██╗██╔══██╗       ║
║ █████╗  ██╔████╔██║██████╔╝██║  ██║       ║
║ ██╔══╝  ██║╚██╔╝██║██╔═══╝ ██║  ██║       ║
║ ██║     ██║ ╚═╝ ██║██║     ██████╔╝       ║
║ ╚═╝     ╚═╝     ╚═╝╚═╝     ╚═════╝        ║
╚═══════════════════════════════════════════╝`

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	width := (m.width - 8) / 2

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(width),
		m.renderCurrentPanel(width),
		m.renderSavedPanel(width),
	)
	right := m.renderLogsPanel(width)

	sections := []string{
		logoStyle.Width(m.width).Render(logo),
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help, q to stop"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderStatsPanel renders the run statistics
func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" RUN STATS ")
	avgSpeed, eta := m.Stats()

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(time.Since(m.startTime)))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Saved:"), statsValueStyle.Render(fmt.Sprintf("%d/%d photos", len(m.Saved()), m.total))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Total Size:"), statsValueStyle.Render(FormatBytes(m.totalSize))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Average Speed:"), speedStyle.Render(FormatSpeed(avgSpeed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(formatDuration(eta))),
		m.progress.ViewAs(m.Percent()),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, stats...)),
	)
}

// renderCurrentPanel renders the identifier in flight or the run result
func (m *Model) renderCurrentPanel(width int) string {
	title := titleStyle.Render(" CURRENT ")

	var content string
	switch {
	case m.finished && m.runErr != nil:
		content = errorStyle.Render("✗ " + m.runErr.Error())
	case m.finished:
		content = successStyle.Render("✓ done")
	case m.current != nil:
		content = itemActiveStyle.Render(fmt.Sprintf("%s %s (%d/%d)", m.spinner.View(), m.current.FBID, m.current.Index+1, m.total))
	default:
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("Waiting...")
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderSavedPanel renders the most recently written files
func (m *Model) renderSavedPanel(width int) string {
	title := titleStyle.Render(" SAVED ")
	saved := m.Saved()

	if len(saved) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("No photos yet")
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
	}

	var items []string
	if left := m.total - len(saved); left > 0 {
		items = append(items, warningStyle.Render(fmt.Sprintf("⏳ %d pending", left)))
	}
	start := len(saved) - 5
	if start < 0 {
		start = 0
	}
	for _, item := range saved[start:] {
		items = append(items, itemSavedStyle.Render(fmt.Sprintf("✓ %s  %s", filepath.Base(item.Path), FormatBytes(item.Size))))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOG ")

	start := len(m.logMessages) - 15
	if start < 0 {
		start = 0
	}

	var logs []string
	maxMsgLen := width - 25
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(levelColor(log.Level)).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		text := log.Message
		if maxMsgLen > 3 && len(text) > maxMsgLen {
			text = text[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(text)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	height := m.height - 14
	if height < 5 {
		height = 5
	}

	return panelStyle.Width(width).Height(height).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/Q      - Stop after cancelling the current photo
    ctrl+l   - Clear the log
    ?        - Toggle this help

  Status:
    ` + successStyle.Render("Green") + `    - Saved
    ` + warningStyle.Render("Orange") + `   - Pending
    ` + errorStyle.Render("Red") + `      - Failed
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
