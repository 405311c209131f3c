package task

import (
	"sort"
	"strings"
)

// View holds the display selections and derives the ordered list to show.
// The zero value shows every task in insertion order.
type View struct {
	FilterState  State
	SortState    State
	SortDeadline DeadlineSort
}

// WithFilterState returns a copy that keeps only tasks in state s
func (v View) WithFilterState(s State) View {
	v.FilterState = s
	return v
}

// WithSortState returns a copy that moves tasks in state s to the end
func (v View) WithSortState(s State) View {
	v.SortState = s
	return v
}

// WithSortDeadline returns a copy ordered by deadline
func (v View) WithSortDeadline(d DeadlineSort) View {
	v.SortDeadline = d
	return v
}

// Active reports whether any selection is set
func (v View) Active() bool {
	return v.FilterState != "" || v.SortState != "" || v.SortDeadline != SortNone
}

// Clear returns the zero view
func (v View) Clear() View {
	return View{}
}

// Apply filters and orders tasks. The input slice is never modified.
//
// Stages run in a fixed order: state filter, state sort, deadline sort. Both
// sorts are stable, so the deadline sort keeps the state order among equal
// deadlines.
func (v View) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(string(t.State), string(v.FilterState)) {
			out = append(out, t)
		}
	}

	if v.SortState != StateUnset {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].State != v.SortState && out[j].State == v.SortState
		})
	}

	if v.SortDeadline == Ascending || v.SortDeadline == Descending {
		sort.SliceStable(out, func(i, j int) bool {
			return v.deadlineLess(out[i], out[j])
		})
	}

	return out
}

// deadlineLess orders dated tasks by the selected direction; tasks without a
// usable deadline come after every dated task.
func (v View) deadlineLess(a, b Task) bool {
	at, aok := a.DeadlineTime()
	bt, bok := b.DeadlineTime()
	if !aok || !bok {
		return aok && !bok
	}
	if v.SortDeadline == Descending {
		return bt.Before(at)
	}
	return at.Before(bt)
}

// Summary describes the active selections, e.g. "filter:Done, deadline:ascending"
func (v View) Summary() string {
	var parts []string
	if v.FilterState != "" {
		parts = append(parts, "filter:"+string(v.FilterState))
	}
	if v.SortState != "" {
		parts = append(parts, "last:"+string(v.SortState))
	}
	if v.SortDeadline != SortNone {
		parts = append(parts, "deadline:"+string(v.SortDeadline))
	}
	return strings.Join(parts, ", ")
}
