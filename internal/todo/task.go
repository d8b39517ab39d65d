package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ID is the backend-assigned task identifier. It is opaque to the client;
// the backend currently issues integers, so numeric IDs are written back
// as JSON numbers and anything else as a JSON string.
type ID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the ID as text.
func (id ID) String() string {
	return string(id)
}

// numeric reports whether the ID is a canonical non-negative integer.
func (id ID) numeric() bool {
	s := string(id)
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Priority is the task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a create request names none.
const DefaultPriority = PriorityMedium

// Priorities returns all priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the capitalized priority name, e.g. "High".
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority parses a priority name. An empty string yields the default.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DefaultPriority, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
	}
	return p, nil
}

// Status represents a task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status. Anything that is not completed
// toggles to completed.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task represents a single task as returned by the backend.
type Task struct {
	ID          ID
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     string

	// extra holds every backend field the client does not model.
	extra map[string]json.RawMessage
}

// knownFields are the keys decoded into Task fields.
var knownFields = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"priority":    true,
	"status":      true,
	"due_date":    true,
}

// IsZero returns true if the task has no ID.
func (t Task) IsZero() bool {
	return t.ID == ""
}

// Completed reports whether the task is completed.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Extra returns the raw JSON of a field the client does not model.
func (t Task) Extra(key string) (json.RawMessage, bool) {
	raw, ok := t.extra[key]
	return raw, ok
}

// WithStatus returns a copy of t with only the status changed.
func (t Task) WithStatus(status Status) Task {
	out := t
	out.Status = status
	if t.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(t.extra))
		for k, v := range t.extra {
			out.extra[k] = v
		}
	}
	return out
}

// UnmarshalJSON decodes known fields and keeps the rest verbatim.
// JSON null leaves a field empty.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse task: %w", err)
	}

	var out Task
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return err
		}
	}
	fields := []struct {
		key    string
		target *string
	}{
		{"title", &out.Title},
		{"description", &out.Description},
		{"due_date", &out.DueDate},
	}
	for _, f := range fields {
		if v, ok := raw[f.key]; ok {
			if err := json.Unmarshal(v, f.target); err != nil {
				return fmt.Errorf("parse task %s: %w", f.key, err)
			}
		}
	}
	if v, ok := raw["priority"]; ok {
		if err := json.Unmarshal(v, &out.Priority); err != nil {
			return fmt.Errorf("parse task priority: %w", err)
		}
	}
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &out.Status); err != nil {
			return fmt.Errorf("parse task status: %w", err)
		}
	}

	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		if out.extra == nil {
			out.extra = make(map[string]json.RawMessage)
		}
		out.extra[k] = v
	}

	*t = out
	return nil
}

// MarshalJSON writes the full record, including pass-through fields.
// An empty due date is written as null.
func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.extra)+len(knownFields))
	for k, v := range t.extra {
		out[k] = v
	}
	if t.ID != "" {
		out["id"] = t.ID
	}
	out["title"] = t.Title
	out["description"] = t.Description
	out["priority"] = t.Priority
	out["status"] = t.Status
	if t.DueDate == "" {
		out["due_date"] = nil
	} else {
		out["due_date"] = t.DueDate
	}
	return json.Marshal(out)
}

// NewTask holds the fields of a create request.
type NewTask struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     string
}

// Normalize trims text fields and applies the default priority.
func (n NewTask) Normalize() NewTask {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.DueDate = strings.TrimSpace(n.DueDate)
	if n.Priority == "" {
		n.Priority = DefaultPriority
	}
	return n
}

// Validate checks the create request before it is sent.
func (n NewTask) Validate() error {
	if err := ValidateTitle(n.Title); err != nil {
		return err
	}
	if n.Priority != "" && !n.Priority.Valid() {
		return &ValidationError{Field: "priority", Err: fmt.Errorf("invalid priority %q", n.Priority)}
	}
	return nil
}

// ErrEmptyTitle is returned when a title is empty or only whitespace.
var ErrEmptyTitle = errors.New("title must not be empty")

// ValidationError reports an invalid field before a request is sent.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateTitle rejects empty and whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	return nil
}
