package todo

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestIDJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
		out  string
	}{
		{"number", `7`, "7", `7`},
		{"string", `"T001"`, "T001", `"T001"`},
		{"numeric string", `"12"`, "12", `12`},
		{"leading zero stays string", `"007"`, "007", `"007"`},
		{"null", `null`, "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if id != tt.want {
				t.Errorf("Unmarshal(%s): got %q, want %q", tt.in, id, tt.want)
			}
			data, err := json.Marshal(id)
			if err != nil {
				t.Fatalf("Marshal error = %v", err)
			}
			if string(data) != tt.out {
				t.Errorf("Marshal: got %s, want %s", data, tt.out)
			}
		})
	}
}

func TestTaskUnmarshalKeepsUnknownFields(t *testing.T) {
	input := `{
		"id": 3,
		"title": "Write report",
		"description": null,
		"priority": "high",
		"status": "pending",
		"due_date": null,
		"created_at": "2024-04-30 10:00:00",
		"completed_at": null
	}`

	var task Task
	if err := json.Unmarshal([]byte(input), &task); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if task.ID != "3" {
		t.Errorf("ID: got %q, want 3", task.ID)
	}
	if task.Title != "Write report" {
		t.Errorf("Title: got %q", task.Title)
	}
	if task.Description != "" {
		t.Errorf("Description: got %q, want empty for null", task.Description)
	}
	if task.Priority != PriorityHigh {
		t.Errorf("Priority: got %q, want high", task.Priority)
	}
	if task.DueDate != "" {
		t.Errorf("DueDate: got %q, want empty for null", task.DueDate)
	}
	raw, ok := task.Extra("created_at")
	if !ok || string(raw) != `"2024-04-30 10:00:00"` {
		t.Errorf("Extra(created_at): got %s, %v", raw, ok)
	}
	raw, ok = task.Extra("completed_at")
	if !ok || string(raw) != "null" {
		t.Errorf("Extra(completed_at): got %s, %v", raw, ok)
	}
}

func TestTaskMarshalRoundTripsExtras(t *testing.T) {
	input := `{"id":5,"title":"Call dentist","description":"","priority":"low","status":"pending","due_date":"2024-06-01","created_at":"2024-05-01 09:00:00"}`

	var task Task
	if err := json.Unmarshal([]byte(input), &task); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	data, err := json.Marshal(task.WithStatus(StatusCompleted))
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode marshalled task: %v", err)
	}
	if got["status"] != "completed" {
		t.Errorf("status: got %v, want completed", got["status"])
	}
	if got["id"] != float64(5) {
		t.Errorf("id: got %v (%T), want number 5", got["id"], got["id"])
	}
	if got["created_at"] != "2024-05-01 09:00:00" {
		t.Errorf("created_at: got %v", got["created_at"])
	}
	if got["due_date"] != "2024-06-01" {
		t.Errorf("due_date: got %v", got["due_date"])
	}

	if task.Status != StatusPending {
		t.Errorf("WithStatus mutated the original task: %q", task.Status)
	}
}

func TestTaskMarshalEmptyDueDateIsNull(t *testing.T) {
	data, err := json.Marshal(Task{ID: "1", Title: "x", Priority: PriorityLow, Status: StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"due_date":null`) {
		t.Errorf("expected null due_date, got %s", data)
	}
}

func TestStatusToggled(t *testing.T) {
	if got := StatusPending.Toggled(); got != StatusCompleted {
		t.Errorf("pending.Toggled(): got %q, want completed", got)
	}
	if got := StatusCompleted.Toggled(); got != StatusPending {
		t.Errorf("completed.Toggled(): got %q, want pending", got)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityMedium, false},
		{"HIGH", PriorityHigh, false},
		{" low ", PriorityLow, false},
		{"urgent", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriorityLabel(t *testing.T) {
	if got := PriorityHigh.Label(); got != "High" {
		t.Errorf("Label: got %q, want High", got)
	}
	if got := Priority("").Label(); got != "" {
		t.Errorf("Label of empty: got %q", got)
	}
}

func TestValidateTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		err := ValidateTitle(title)
		if err == nil {
			t.Errorf("ValidateTitle(%q): expected error", title)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ValidateTitle(%q): expected *ValidationError, got %T", title, err)
		}
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("ValidateTitle(%q): expected ErrEmptyTitle", title)
		}
	}
	if err := ValidateTitle("Buy milk"); err != nil {
		t.Errorf("ValidateTitle(valid): %v", err)
	}
}

func TestNewTaskNormalize(t *testing.T) {
	n := NewTask{Title: "  Buy milk ", DueDate: " "}.Normalize()
	if n.Title != "Buy milk" {
		t.Errorf("Title: got %q", n.Title)
	}
	if n.Priority != PriorityMedium {
		t.Errorf("Priority: got %q, want medium", n.Priority)
	}
	if n.DueDate != "" {
		t.Errorf("DueDate: got %q, want empty", n.DueDate)
	}
	if err := n.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	bad := NewTask{Title: "x", Priority: "urgent"}
	if err := bad.Validate(); err == nil {
		t.Error("expected invalid priority error")
	}
}
