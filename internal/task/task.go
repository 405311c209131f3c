package task

import (
	"fmt"
	"strings"
	"time"
)

// State is the progress label of a task. The zero value means unset.
type State string

// Available task states, stored by their display label
const (
	StateUnset State = ""
	Done       State = "Done"
	NotDone    State = "Not done"
	InProgress State = "Doing right now"
)

// States lists the selectable states in display order
var States = []State{Done, NotDone, InProgress}

// String returns the display label
func (s State) String() string {
	return string(s)
}

// ParseState accepts a display label ("Not done") or an identifier
// ("not_done", "in-progress"), case-insensitively. An empty string is unset.
func ParseState(s string) (State, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)

	switch norm {
	case "":
		return StateUnset, nil
	case "done":
		return Done, nil
	case "not done":
		return NotDone, nil
	case "doing right now", "in progress", "doing":
		return InProgress, nil
	}
	return StateUnset, fmt.Errorf("unknown task state %q", s)
}

// DeadlineSort selects the deadline ordering of a View
type DeadlineSort string

// Available deadline orderings
const (
	SortNone   DeadlineSort = ""
	Ascending  DeadlineSort = "ascending"
	Descending DeadlineSort = "descending"
)

// DeadlineSorts lists the selectable orderings
var DeadlineSorts = []DeadlineSort{Ascending, Descending}

// ParseDeadlineSort accepts "ascending"/"asc", "descending"/"desc" or empty
func ParseDeadlineSort(s string) (DeadlineSort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortNone, nil
	case "ascending", "asc":
		return Ascending, nil
	case "descending", "desc":
		return Descending, nil
	}
	return SortNone, fmt.Errorf("unknown deadline sort %q", s)
}

// DateLayout is the format deadlines are stored in
const DateLayout = "2006-01-02"

// NoSummary is shown in place of an empty summary
const NoSummary = "No summary was provided for this task"

// Task is one item of the list. Field names double as the persisted JSON keys.
type Task struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	State    State  `json:"state"`
	Deadline string `json:"deadline"`
}

// DeadlineTime parses the deadline. ok is false when it is unset or not a date.
func (t Task) DeadlineTime() (time.Time, bool) {
	if t.Deadline == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, t.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// SummaryText returns the summary, or the placeholder when it is empty
func (t Task) SummaryText() string {
	if t.Summary == "" {
		return NoSummary
	}
	return t.Summary
}
