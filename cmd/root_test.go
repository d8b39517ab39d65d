// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todoctl/internal/api/apitest"
)

// cliEnv points the CLI at a fake backend and keeps config and logs inside
// temp directories.
func cliEnv(t *testing.T) (*apitest.Backend, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "TODOCTL_") || strings.HasPrefix(key, "OTEL_") {
			t.Setenv(key, "")
		}
	}
	t.Chdir(t.TempDir())

	backend := apitest.New(t)
	logDir := filepath.Join(home, "logs")
	t.Setenv("TODOCTL_BASE_URL", backend.URL)
	t.Setenv("TODOCTL_LOG_DIR", logDir)
	t.Setenv("TODOCTL_ACTION_DELAY_MS", "0")
	return backend, logDir
}

// runCLI runs the CLI with stdin and returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, streams{in: strings.NewReader(stdin), out: &out, err: &errOut})
	return out.String(), err
}

func TestRun(t *testing.T) {
	cliEnv(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		out, err := runCLI(t, "", args...)
		if err != nil {
			t.Errorf("Run(%v) error = %v", args, err)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("Run(%v) output missing usage:\n%s", args, out)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out, err := runCLI(t, "", args...)
		if err != nil || !strings.Contains(out, "todoctl version dev") {
			t.Errorf("Run(%v) = %q, %v", args, out, err)
		}
	}

	_, err := runCLI(t, "", "unknown-command")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unknown command error = %v", err)
	}

	_, err = runCLI(t, "", "-base-url", "ftp://example.com", "ls")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Errorf("bad base url error = %v", err)
	}
}

func TestLs(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(
		map[string]any{"id": 1, "title": "Write report", "priority": "high"},
		map[string]any{"id": 2, "title": "Call mom", "status": "completed"},
	)

	t.Run("all", func(t *testing.T) {
		out, err := runCLI(t, "", "ls")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"#1", "Write report", "[x] #2", "Rate: 50%"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("filter flag", func(t *testing.T) {
		out, err := runCLI(t, "", "ls", "-filter", "completed")
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(out, "Write report") || !strings.Contains(out, "Call mom") {
			t.Errorf("completed filter output:\n%s", out)
		}
	})

	t.Run("positional filter", func(t *testing.T) {
		out, err := runCLI(t, "", "ls", "high")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Write report") || strings.Contains(out, "Call mom") {
			t.Errorf("high filter output:\n%s", out)
		}
	})

	t.Run("html", func(t *testing.T) {
		out, err := runCLI(t, "", "ls", "-html")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "<") || !strings.Contains(out, "Write report") {
			t.Errorf("html output:\n%s", out)
		}
	})

	t.Run("unknown filter", func(t *testing.T) {
		if _, err := runCLI(t, "", "ls", "-filter", "soon"); err == nil {
			t.Error("expected error for unknown filter")
		}
	})
}

func TestLsBackendDown(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Fail(http.MethodGet, "/api/todos", http.StatusInternalServerError)

	_, err := runCLI(t, "", "ls")
	if err == nil || err.Error() != "Error loading tasks" {
		t.Fatalf("error = %v, want Error loading tasks", err)
	}
}

func TestStats(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(
		map[string]any{"id": 1, "title": "a"},
		map[string]any{"id": 2, "title": "b", "status": "completed"},
		map[string]any{"id": 3, "title": "c", "status": "completed"},
	)

	out, err := runCLI(t, "", "stats")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total:     3", "Completed: 2", "Pending:   1", "Rate:      67%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAdd(t *testing.T) {
	backend, _ := cliEnv(t)

	out, err := runCLI(t, "", "add", "Buy", "milk", "-priority", "high", "-due", "2026-11-01")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Task added successfully!") {
		t.Errorf("output = %q", out)
	}
	rows := backend.Tasks()
	if len(rows) != 1 || rows[0]["title"] != "Buy milk" || rows[0]["priority"] != "high" || rows[0]["due_date"] != "2026-11-01" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestAddErrors(t *testing.T) {
	backend, _ := cliEnv(t)

	if _, err := runCLI(t, "", "add"); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("missing title error = %v", err)
	}
	if _, err := runCLI(t, "", "add", "x", "-priority", "urgent"); err == nil {
		t.Error("expected error for invalid priority")
	}

	out, err := runCLI(t, "", "add", "   ")
	if err != nil {
		t.Fatalf("blank title error = %v", err)
	}
	if !strings.Contains(out, "Please enter a task title") {
		t.Errorf("output = %q", out)
	}
	if got := backend.Count(http.MethodPost, "/api/todos"); got != 0 {
		t.Errorf("POST count = %d, want 0", got)
	}

	backend.Fail(http.MethodPost, "/api/todos", http.StatusInternalServerError)
	if _, err := runCLI(t, "", "add", "y"); err == nil || err.Error() != "Error adding task" {
		t.Errorf("failed add error = %v", err)
	}
}

func TestEdit(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(map[string]any{"id": 1, "title": "old", "description": "keep me", "priority": "low"})

	out, err := runCLI(t, "", "edit", "1", "-title", "new")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Task updated successfully!") {
		t.Errorf("output = %q", out)
	}
	row := backend.Tasks()[0]
	if row["title"] != "new" || row["description"] != "keep me" || row["priority"] != "low" {
		t.Fatalf("row = %v", row)
	}

	if _, err := runCLI(t, "", "edit", "9", "-title", "x"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("unknown id error = %v", err)
	}
}

func TestToggle(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(map[string]any{"id": 1, "title": "a"})

	out, err := runCLI(t, "", "toggle", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Task completed!") {
		t.Errorf("output = %q", out)
	}
	if got := backend.Tasks()[0]["status"]; got != "completed" {
		t.Fatalf("status = %v", got)
	}

	out, err = runCLI(t, "", "-partial-toggle", "toggle", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Task reopened!") {
		t.Errorf("output = %q", out)
	}

	backend.Fail(http.MethodPut, "/api/todos/{id}", http.StatusInternalServerError)
	if _, err := runCLI(t, "", "toggle", "1"); err == nil || err.Error() != "Error updating task" {
		t.Errorf("failed toggle error = %v", err)
	}
}

func TestRm(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantTasks int
		wantOut   string
	}{
		{"declined", "n\n", []string{"rm", "1"}, 1, "Cancelled."},
		{"no answer", "", []string{"rm", "1"}, 1, "Cancelled."},
		{"confirmed", "y\n", []string{"rm", "1"}, 0, "Task deleted successfully!"},
		{"yes flag", "", []string{"rm", "-yes", "1"}, 0, "Task deleted successfully!"},
		{"yes flag after id", "", []string{"rm", "1", "-y"}, 0, "Task deleted successfully!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, _ := cliEnv(t)
			backend.Seed(map[string]any{"id": 1, "title": "a"})

			out, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
			if got := len(backend.Tasks()); got != tt.wantTasks {
				t.Errorf("tasks = %d, want %d", got, tt.wantTasks)
			}
		})
	}
}

func TestChat(t *testing.T) {
	backend, _ := cliEnv(t)

	out, err := runCLI(t, "", "chat", "hello", "there")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "You: hello there") || !strings.Contains(out, "AI: You said: hello there") {
		t.Errorf("output:\n%s", out)
	}

	out, err = runCLI(t, "", "chat", "add task: water plants")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "New task created via AI!") {
		t.Errorf("output:\n%s", out)
	}
	if rows := backend.Tasks(); len(rows) != 1 || rows[0]["title"] != "water plants" {
		t.Fatalf("rows = %v", rows)
	}

	if _, err := runCLI(t, "", "chat"); err == nil {
		t.Error("expected usage error for empty chat")
	}
}

func TestInsightsAndSuggest(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(map[string]any{"id": 1, "title": "a"})

	out, err := runCLI(t, "", "insights")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "You have 1 tasks.") {
		t.Errorf("insights output:\n%s", out)
	}

	out, err = runCLI(t, "", "suggest", "learn", "go")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Can you suggest some tasks for: learn go", "Set a specific deadline for completion (high priority)"} {
		if !strings.Contains(out, want) {
			t.Errorf("suggest output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderToFile(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(
		map[string]any{"id": 1, "title": "<b>bold</b>"},
		map[string]any{"id": 2, "title": "done", "status": "completed"},
	)

	path := filepath.Join(t.TempDir(), "out", "tasks.html")
	out, err := runCLI(t, "", "render", "-filter", "pending", "-o", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote 1 tasks") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "&lt;b&gt;bold&lt;/b&gt;") {
		t.Errorf("title not escaped:\n%s", data)
	}
	if strings.Contains(string(data), ">done<") {
		t.Errorf("completed task rendered under pending filter:\n%s", data)
	}
}

func TestConfigCommand(t *testing.T) {
	cliEnv(t)

	out, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"base_url", "# environment", "timeout_seconds", "# default"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "", "-timeout", "3", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"3"`) || !strings.Contains(out, "# flag") {
		t.Errorf("flag source missing:\n%s", out)
	}

	out, err = runCLI(t, "", "config", "-example")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[telemetry]") {
		t.Errorf("example config:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	backend, _ := cliEnv(t)
	backend.Seed(map[string]any{"id": 1, "title": "a"})

	out, err := runCLI(t, "", "doctor")
	if err != nil {
		t.Fatalf("doctor error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Reachable (1 tasks)") || !strings.Contains(out, "schemas compiled") {
		t.Errorf("output:\n%s", out)
	}

	backend.Fail(http.MethodGet, "/api/todos", http.StatusInternalServerError)
	out, err = runCLI(t, "", "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail when the backend errors")
	}
	if !strings.Contains(out, "Error loading tasks") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTail(t *testing.T) {
	_, logDir := cliEnv(t)

	out, err := runCLI(t, "", "tail")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No log files found.") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCLI(t, "", "stats"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "", "tail", "-n", "50")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Tailing: "+logDir) || !strings.Contains(out, "session started") {
		t.Errorf("output:\n%s", out)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
		yes  bool
	}{
		{[]string{"a", "b"}, []string{"a", "b"}, false},
		{[]string{"-yes", "a"}, []string{"a"}, true},
		{[]string{"a", "-yes", "b"}, []string{"a", "b"}, true},
		{nil, nil, false},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		yes := fs.Bool("yes", false, "")
		got, err := parseArgs(fs, tt.args)
		if err != nil {
			t.Fatalf("parseArgs(%v) error = %v", tt.args, err)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") || *yes != tt.yes {
			t.Errorf("parseArgs(%v) = %v yes=%v, want %v yes=%v", tt.args, got, *yes, tt.want, tt.yes)
		}
	}
}

func TestPromptConfirmer(t *testing.T) {
	tests := map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		" y ":    true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"sure\n": false,
	}
	for input, want := range tests {
		var out bytes.Buffer
		c := newPromptConfirmer(strings.NewReader(input), &out)
		got, err := c.Confirm(context.Background(), "Delete?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("Confirm(%q) = %v, want %v", input, got, want)
		}
		if out.String() != "Delete? [y/N] " {
			t.Errorf("prompt = %q", out.String())
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newPromptConfirmer(strings.NewReader("y\n"), &bytes.Buffer{})
	if ok, err := c.Confirm(ctx, "Delete?"); ok || err == nil {
		t.Errorf("Confirm with cancelled ctx = %v, %v", ok, err)
	}
}
