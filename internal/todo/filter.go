package todo

import (
	"fmt"
	"strings"
)

// Filter selects which tasks the renderer shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterHigh      Filter = "high"
)

// Filters returns the filters in menu order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted, FilterHigh}
}

// ParseFilter parses a filter name. An empty string means all.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted, FilterHigh:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter %q, must be one of: all, pending, completed, high", s)
}

// Matches reports whether t passes the filter. Unknown filters match
// everything, like "all".
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return t.Status == StatusPending
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterHigh:
		return t.Priority == PriorityHigh
	default:
		return true
	}
}

// Label returns a human-readable filter name.
func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	case FilterHigh:
		return "High Priority"
	default:
		return "All"
	}
}
