package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps track of a sequential download run
type StatusTracker struct {
	Total     int
	Completed int
	Current   string
	StartTime time.Time
}

// NewStatusTracker creates a tracker for total items
func NewStatusTracker(total int) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Start marks id as the item in flight
func (st *StatusTracker) Start(id string) {
	st.Current = id
}

// Complete marks the current item done
func (st *StatusTracker) Complete() {
	st.Completed++
	st.Current = ""
}

// GetProgressBar returns a formatted progress bar for the run
func (st *StatusTracker) GetProgressBar() string {
	const width = 20
	filled := width
	if st.Total > 0 {
		filled = st.Completed * width / st.Total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Completed, st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetDownloadRate returns the average download rate (items per minute)
func (st *StatusTracker) GetDownloadRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Completed) / elapsed
}

// Summary renders a one-line report of the run
func (st *StatusTracker) Summary() string {
	return fmt.Sprintf("%s %s in %s",
		Green("[DONE]"),
		st.GetProgressBar(),
		st.GetElapsedTime().Round(time.Millisecond))
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	_, e, q := writers()
	if q {
		return
	}
	fmt.Fprintf(e, "%s %s %s\n", Magenta("[FETCHING]"), Yellow(st.GetProgressBar()), st.Current)
}
