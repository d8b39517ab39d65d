package api

import "github.com/nibzard/todoctl/internal/todo"

// ActionType names the task mutation the chat backend performed as a side
// effect of interpreting a message.
type ActionType string

const (
	ActionNone         ActionType = ""
	ActionCreateTask   ActionType = "create_task"
	ActionCompleteTask ActionType = "complete_task"
	ActionDeleteTask   ActionType = "delete_task"
	ActionTaskNotFound ActionType = "task_not_found"
)

// ChatReply is a successful /api/chat response.
type ChatReply struct {
	Response        string
	ActionPerformed bool
	ActionType      ActionType
}

// Suggestion is one entry of an /api/ai-suggestions response.
type Suggestion struct {
	Task     string        `json:"task"`
	Priority todo.Priority `json:"priority"`
}

// envelope is the {success, message, error} wrapper every mutation returns.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// reason picks the most specific human-readable text from an envelope.
func (e envelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type chatResponse struct {
	envelope
	Response        string     `json:"response"`
	ActionPerformed bool       `json:"action_performed"`
	ActionType      ActionType `json:"action_type"`
}

type insightsResponse struct {
	envelope
	Insights string `json:"insights"`
}

type suggestionsResponse struct {
	envelope
	Suggestions []Suggestion `json:"suggestions"`
}

type createRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Priority    todo.Priority `json:"priority"`
	DueDate     *string       `json:"due_date"`
}

type statusRequest struct {
	Status todo.Status `json:"status"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type suggestionsRequest struct {
	Input string `json:"input"`
}
