// Package tracker holds the time tracking model: tasks, the stopwatch that
// produces them, the journal that keeps them and the client that syncs them.
package tracker

import (
	"fmt"
	"time"
)

// Task is one tracked block of work. The JSON names match the task server.
type Task struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Duration  int64             `json:"duration"`
	Date      time.Time         `json:"date"`
	Durations map[string]string `json:"durations"`
}

// NewTask stamps a finished block of work. Durations is keyed by short
// weekday name ("Mon") so a week of entries can be laid out per day.
func NewTask(name string, seconds int64, at time.Time) Task {
	return Task{
		ID:       at.UnixMilli(),
		Name:     name,
		Duration: seconds,
		Date:     at.UTC(),
		Durations: map[string]string{
			at.Weekday().String()[:3]: FormatDuration(seconds),
		},
	}
}

// FormatDuration renders seconds as HH:MM:SS. Hours do not wrap at 24.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func TotalDuration(tasks []Task) int64 {
	var total int64
	for _, t := range tasks {
		total += t.Duration
	}
	return total
}
