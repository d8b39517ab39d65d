// Package apitest provides an in-memory fake of the to-do backend for tests.
// It follows the route contract of the real server: integer IDs, envelope
// responses for mutations and pass-through timestamp fields.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Request is one recorded call.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// Backend is a fake server. All fields are guarded by mu; use the methods.
type Backend struct {
	URL string

	mu       sync.Mutex
	nextID   int
	tasks    []map[string]any
	requests []Request
	failures map[string]int
	chat     func(message string) (int, any)
	insights func() (int, any)
	suggest  func(input string) (int, any)
	now      func() time.Time
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		nextID:   1,
		failures: make(map[string]int),
		now:      time.Now,
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serveHTTP))
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

// Seed replaces the stored tasks. Each task needs at least an integer "id"
// (float64 or int) and a "title"; missing standard fields get defaults.
func (b *Backend) Seed(tasks ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = nil
	for _, t := range tasks {
		row := copyRow(t)
		id := toInt(row["id"])
		if id >= b.nextID {
			b.nextID = id + 1
		}
		row["id"] = id
		fillDefaults(row, b.now())
		b.tasks = append(b.tasks, row)
	}
}

// Tasks returns a copy of the stored rows.
func (b *Backend) Tasks() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = copyRow(t)
	}
	return out
}

// Requests returns every call received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns the number of calls matching method and path prefix.
func (b *Backend) Count(method, pathPrefix string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// Fail makes every request to "METHOD /path" answer with status and a
// success=false envelope. Status 0 clears the failure.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(b.failures, key)
		return
	}
	b.failures[key] = status
}

// OnChat overrides the chat handler. The returned value is JSON-encoded.
func (b *Backend) OnChat(fn func(message string) (int, any)) {
	b.mu.Lock()
	b.chat = fn
	b.mu.Unlock()
}

// OnInsights overrides the insights handler.
func (b *Backend) OnInsights(fn func() (int, any)) {
	b.mu.Lock()
	b.insights = fn
	b.mu.Unlock()
}

// OnSuggestions overrides the suggestions handler.
func (b *Backend) OnSuggestions(fn func(input string) (int, any)) {
	b.mu.Lock()
	b.suggest = fn
	b.mu.Unlock()
}

func (b *Backend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Body:      body,
		RequestID: r.Header.Get("X-Request-ID"),
	})
	status, failing := b.failures[r.Method+" "+routeKey(r.URL.Path)]
	b.mu.Unlock()

	if failing {
		writeJSON(w, status, map[string]any{"success": false, "error": "forced failure"})
		return
	}

	switch {
	case r.URL.Path == "/api/todos" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.Tasks())
	case r.URL.Path == "/api/todos" && r.Method == http.MethodPost:
		b.create(w, body)
	case strings.HasPrefix(r.URL.Path, "/api/todos/"):
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/todos/"))
		if err != nil {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		switch r.Method {
		case http.MethodPut:
			b.update(w, id, body)
		case http.MethodDelete:
			b.delete(w, id)
		default:
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case r.URL.Path == "/api/chat" && r.Method == http.MethodPost:
		b.handleChat(w, body)
	case r.URL.Path == "/api/productivity-insights" && r.Method == http.MethodGet:
		b.handleInsights(w)
	case r.URL.Path == "/api/ai-suggestions" && r.Method == http.MethodPost:
		b.handleSuggestions(w, body)
	default:
		http.NotFound(w, r)
	}
}

// routeKey maps /api/todos/7 to /api/todos/{id} for failure lookups.
func routeKey(path string) string {
	if strings.HasPrefix(path, "/api/todos/") {
		return "/api/todos/{id}"
	}
	return path
}

func (b *Backend) create(w http.ResponseWriter, body []byte) {
	var in map[string]any
	if err := json.Unmarshal(body, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	title, _ := in["title"].(string)
	if title == "" {
		writeErr(w, http.StatusBadRequest, "title required")
		return
	}
	b.insert(title, in["description"], in["priority"], in["due_date"])
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Todo created successfully"})
}

func (b *Backend) insert(title string, description, priority, due any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	row := map[string]any{
		"id":          b.nextID,
		"title":       title,
		"description": description,
		"priority":    priority,
		"due_date":    due,
	}
	b.nextID++
	fillDefaults(row, b.now())
	b.tasks = append(b.tasks, row)
	return row["id"].(int)
}

func (b *Backend) update(w http.ResponseWriter, id int, body []byte) {
	var in map[string]any
	if err := json.Unmarshal(body, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, row := range b.tasks {
		if toInt(row["id"]) != id {
			continue
		}
		for _, key := range []string{"title", "description", "priority", "status", "due_date"} {
			if v, ok := in[key]; ok {
				row[key] = v
			}
		}
		ts := b.now().UTC().Format("2006-01-02 15:04:05")
		row["updated_at"] = ts
		if row["status"] == "completed" {
			row["completed_at"] = ts
		} else {
			row["completed_at"] = nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Todo updated successfully"})
		return
	}
	// The real backend answers success even for unknown ids.
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Todo updated successfully"})
}

func (b *Backend) delete(w http.ResponseWriter, id int) {
	b.remove(id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Todo deleted successfully"})
}

func (b *Backend) remove(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, row := range b.tasks {
		if toInt(row["id"]) == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Backend) complete(match string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, row := range b.tasks {
		title, _ := row["title"].(string)
		if strings.Contains(strings.ToLower(title), match) {
			row["status"] = "completed"
			row["completed_at"] = b.now().UTC().Format("2006-01-02 15:04:05")
			return true
		}
	}
	return false
}

func (b *Backend) findByTitle(match string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, row := range b.tasks {
		title, _ := row["title"].(string)
		if strings.Contains(strings.ToLower(title), match) {
			return toInt(row["id"]), true
		}
	}
	return 0, false
}

// handleChat understands "add task: X", "complete X" and "delete X"; any
// other message gets a plain reply.
func (b *Backend) handleChat(w http.ResponseWriter, body []byte) {
	var in struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	b.mu.Lock()
	custom := b.chat
	b.mu.Unlock()
	if custom != nil {
		status, out := custom(in.Message)
		writeJSON(w, status, out)
		return
	}

	msg := strings.TrimSpace(in.Message)
	lower := strings.ToLower(msg)
	if msg == "" {
		writeErr(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	switch {
	case strings.HasPrefix(lower, "add task:"):
		title := strings.TrimSpace(msg[len("add task:"):])
		b.insert(title, "", "medium", nil)
		writeChatAction(w, fmt.Sprintf("Created task %q", title), "create_task")
	case strings.HasPrefix(lower, "complete "):
		if b.complete(strings.TrimSpace(lower[len("complete "):])) {
			writeChatAction(w, "Marked task as completed", "complete_task")
			return
		}
		writeChatAction(w, "I couldn't find that task", "task_not_found")
	case strings.HasPrefix(lower, "delete "):
		if id, ok := b.findByTitle(strings.TrimSpace(lower[len("delete "):])); ok {
			b.remove(id)
			writeChatAction(w, "Deleted task", "delete_task")
			return
		}
		writeChatAction(w, "I couldn't find that task", "task_not_found")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "response": "You said: " + msg})
	}
}

func writeChatAction(w http.ResponseWriter, response, action string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"response":         response,
		"action_performed": true,
		"action_type":      action,
	})
}

func (b *Backend) handleInsights(w http.ResponseWriter) {
	b.mu.Lock()
	custom := b.insights
	n := len(b.tasks)
	b.mu.Unlock()
	if custom != nil {
		status, out := custom()
		writeJSON(w, status, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"insights": fmt.Sprintf("You have %d tasks.", n),
	})
}

func (b *Backend) handleSuggestions(w http.ResponseWriter, body []byte) {
	var in struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	b.mu.Lock()
	custom := b.suggest
	b.mu.Unlock()
	if custom != nil {
		status, out := custom(in.Input)
		writeJSON(w, status, out)
		return
	}
	if strings.TrimSpace(in.Input) == "" {
		writeErr(w, http.StatusBadRequest, "Input cannot be empty")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"suggestions": []map[string]any{
			{"task": "Break down your goal into smaller, manageable steps", "priority": "medium"},
			{"task": "Set a specific deadline for completion", "priority": "high"},
		},
	})
}

func fillDefaults(row map[string]any, now time.Time) {
	if v, ok := row["priority"]; !ok || v == nil || v == "" {
		row["priority"] = "medium"
	}
	if v, ok := row["status"]; !ok || v == nil || v == "" {
		row["status"] = "pending"
	}
	if _, ok := row["description"]; !ok {
		row["description"] = ""
	}
	if _, ok := row["due_date"]; !ok {
		row["due_date"] = nil
	}
	ts := now.UTC().Format("2006-01-02 15:04:05")
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = ts
	}
	if _, ok := row["updated_at"]; !ok {
		row["updated_at"] = ts
	}
	if _, ok := row["completed_at"]; !ok {
		row["completed_at"] = nil
	}
}

func copyRow(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}
