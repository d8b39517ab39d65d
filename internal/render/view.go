// Package render turns the cached task list into views. Everything here is
// pure: no network access, no mutation of the input.
package render

import (
	"math"

	"github.com/nibzard/todoctl/internal/todo"
)

// EmptyTitle is the headline of the empty-result placeholder.
const EmptyTitle = "No tasks found"

// EmptyHint is the second line of the empty-result placeholder.
const EmptyHint = "Add your first task above or ask the AI assistant for suggestions."

// View is the filtered task list ready for drawing.
type View struct {
	Filter todo.Filter
	Items  []todo.Task
	// Empty is set when no task passes the filter; renderers show the
	// placeholder instead of a list.
	Empty bool
}

// Build applies filter to tasks while keeping server order. The input slice
// is never modified; FilterAll returns a copy identical to it.
func Build(tasks []todo.Task, filter todo.Filter) View {
	if filter == "" {
		filter = todo.FilterAll
	}
	items := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			items = append(items, t)
		}
	}
	return View{Filter: filter, Items: items, Empty: len(items) == 0}
}

// Stats summarizes the full, unfiltered collection.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	// Rate is the completion percentage rounded to the nearest integer.
	Rate int
}

// ComputeStats counts tasks by status. A total of zero yields a rate of zero.
func ComputeStats(tasks []todo.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed() {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.Rate = int(math.Round(100 * float64(s.Completed) / float64(s.Total)))
	}
	return s
}
