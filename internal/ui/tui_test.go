package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todoctl/internal/api"
	"github.com/nibzard/todoctl/internal/api/apitest"
	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/render"
	"github.com/nibzard/todoctl/internal/todo"
)

func newTestModel(t *testing.T, seed ...map[string]any) (*tuiModel, *apitest.Backend) {
	t.Helper()
	backend := apitest.New(t)
	backend.Seed(seed...)
	client, err := api.New(backend.URL)
	if err != nil {
		t.Fatal(err)
	}
	confirm := NewConfirmer()
	ctrl, err := controller.New(controller.Deps{Client: client, Confirmer: confirm}, controller.Options{ActionDelay: -1})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := newTUIModel(ctx, ctrl, confirm, WithStyles(render.PlainStyles()))
	m.busy++
	m.Update(m.startCmd()())
	return m, backend
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any command it returns to completion.
func press(t *testing.T, m *tuiModel, s string) {
	t.Helper()
	_, cmd := m.Update(key(s))
	run(m, cmd)
}

func typeText(t *testing.T, m *tuiModel, s string) {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			press(t, m, "space")
			continue
		}
		press(t, m, string(r))
	}
}

func run(m *tuiModel, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(dispatchedMsg); ok {
		m.Update(msg)
	}
}

func TestStartLoadsTasks(t *testing.T) {
	m, _ := newTestModel(t, map[string]any{"id": 1, "title": "Write report"})

	if m.busy != 0 {
		t.Fatalf("busy = %d, want 0", m.busy)
	}
	if len(m.snap.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(m.snap.Tasks))
	}
	view := m.View()
	for _, want := range []string{"todoctl", "Write report", "How can I help you today?"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAddTask(t *testing.T) {
	m, backend := newTestModel(t)

	press(t, m, "a")
	if m.mode != modeForm || m.form.editing {
		t.Fatalf("mode = %v editing = %v, want add form", m.mode, m.form.editing)
	}
	typeText(t, m, "Buy milk")
	press(t, m, "tab")
	press(t, m, "tab")
	press(t, m, "space") // medium -> high
	press(t, m, "enter")

	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	rows := backend.Tasks()
	if len(rows) != 1 || rows[0]["title"] != "Buy milk" || rows[0]["priority"] != "high" {
		t.Fatalf("backend rows = %v", rows)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Errorf("view missing new task:\n%s", m.View())
	}
}

func TestAddEmptyTitleKeepsTasks(t *testing.T) {
	m, backend := newTestModel(t)

	press(t, m, "a")
	press(t, m, "enter")

	if got := backend.Count("POST", "/api/todos"); got != 0 {
		t.Fatalf("POST count = %d, want 0", got)
	}
	if !strings.Contains(m.View(), "Please enter a task title") {
		t.Errorf("view missing validation toast:\n%s", m.View())
	}
}

func TestToggleSelected(t *testing.T) {
	m, backend := newTestModel(t, map[string]any{"id": 1, "title": "a"})

	press(t, m, "space")

	if got := backend.Tasks()[0]["status"]; got != "completed" {
		t.Fatalf("status = %v, want completed", got)
	}
	if !m.snap.Tasks[0].Completed() {
		t.Errorf("snapshot not refreshed after toggle")
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newTestModel(t,
		map[string]any{"id": 1, "title": "open"},
		map[string]any{"id": 2, "title": "done", "status": "completed"},
	)

	press(t, m, "2")
	if m.snap.Filter != todo.FilterCompleted {
		t.Fatalf("filter = %q, want completed", m.snap.Filter)
	}
	if len(m.snap.View.Items) != 1 || m.snap.View.Items[0].Title != "done" {
		t.Fatalf("items = %v", m.snap.View.Items)
	}
	press(t, m, "0")
	if len(m.snap.View.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.snap.View.Items))
	}
}

func TestCursorClamps(t *testing.T) {
	m, _ := newTestModel(t,
		map[string]any{"id": 1, "title": "a"},
		map[string]any{"id": 2, "title": "b"},
	)

	for i := 0; i < 5; i++ {
		press(t, m, "j")
	}
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	for i := 0; i < 5; i++ {
		press(t, m, "k")
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
}

func TestEditAndSave(t *testing.T) {
	m, backend := newTestModel(t, map[string]any{"id": 1, "title": "old", "priority": "low"})

	press(t, m, "e")
	if m.mode != modeForm || !m.form.editing || m.form.title.Value() != "old" {
		t.Fatalf("edit form not opened: mode=%v form=%+v", m.mode, m.form)
	}
	press(t, m, "ctrl+u")
	typeText(t, m, "new")
	press(t, m, "enter")

	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	row := backend.Tasks()[0]
	if row["title"] != "new" || row["priority"] != "low" {
		t.Fatalf("row = %v", row)
	}
}

func TestEditSaveEmptyTitleKeepsForm(t *testing.T) {
	m, backend := newTestModel(t, map[string]any{"id": 1, "title": "old"})

	press(t, m, "e")
	press(t, m, "ctrl+u")
	press(t, m, "enter")

	if m.mode != modeForm || !m.form.editing {
		t.Fatalf("mode = %v, want edit form kept open", m.mode)
	}
	if got := backend.Count("PUT", "/api/todos/"); got != 0 {
		t.Fatalf("PUT count = %d, want 0", got)
	}

	press(t, m, "esc")
	if m.mode != modeList || m.snap.Editing {
		t.Fatalf("esc did not close the editor: mode=%v editing=%v", m.mode, m.snap.Editing)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	for _, tc := range []struct {
		answer string
		want   int
	}{
		{"y", 0},
		{"n", 1},
	} {
		t.Run(tc.answer, func(t *testing.T) {
			m, backend := newTestModel(t, map[string]any{"id": 1, "title": "a"})

			_, cmd := m.Update(key("d"))
			done := make(chan tea.Msg, 1)
			go func() { done <- cmd() }()

			m.Update(waitForConfirm(m.ctx, m.confirm)())
			if m.mode != modeConfirm {
				t.Fatalf("mode = %v, want confirm", m.mode)
			}
			if !strings.Contains(m.View(), controller.ConfirmDelete) {
				t.Fatalf("view missing prompt:\n%s", m.View())
			}
			if _, next := m.Update(key(tc.answer)); next == nil {
				t.Fatal("answering did not re-arm the confirm listener")
			}

			select {
			case msg := <-done:
				m.Update(msg)
			case <-time.After(5 * time.Second):
				t.Fatal("delete did not finish")
			}
			if got := len(backend.Tasks()); got != tc.want {
				t.Fatalf("tasks = %d, want %d", got, tc.want)
			}
			if m.mode != modeList {
				t.Fatalf("mode = %v, want list", m.mode)
			}
		})
	}
}

func TestChatMode(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "c")
	if m.mode != modeChat {
		t.Fatalf("mode = %v, want chat", m.mode)
	}
	typeText(t, m, "hello there")
	if !strings.Contains(m.View(), "Chat> hello there") {
		t.Fatalf("view missing input:\n%s", m.View())
	}
	press(t, m, "enter")

	if m.mode != modeChat {
		t.Errorf("mode = %v, want to stay in chat", m.mode)
	}
	last := m.chat[len(m.chat)-1]
	if !last.Assistant || last.Text != "You said: hello there" {
		t.Fatalf("last message = %+v", last)
	}
	press(t, m, "esc")
	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
}

func TestChatAddsTaskViaAssistant(t *testing.T) {
	m, backend := newTestModel(t)

	press(t, m, "c")
	typeText(t, m, "add task: water plants")
	press(t, m, "enter")

	if len(backend.Tasks()) != 1 {
		t.Fatalf("backend tasks = %v", backend.Tasks())
	}
	if len(m.snap.Tasks) != 1 || m.snap.Tasks[0].Title != "water plants" {
		t.Fatalf("snapshot tasks = %v", m.snap.Tasks)
	}
}

func TestSuggestReturnsToList(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "s")
	typeText(t, m, "learn go")
	press(t, m, "enter")

	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	view := m.View()
	if !strings.Contains(view, "Set a specific deadline for completion") {
		t.Errorf("view missing suggestions:\n%s", view)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "?")
	if m.mode != modeHelp || !strings.Contains(m.View(), "press any key") {
		t.Fatalf("help not shown: mode=%v", m.mode)
	}
	press(t, m, "x")
	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestEscDismissesNotifications(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "a")
	press(t, m, "enter")
	if len(m.notes) == 0 {
		t.Fatal("expected a notification")
	}
	press(t, m, "esc")
	if len(m.notes) != 0 {
		t.Fatalf("notes = %v, want none", m.notes)
	}
}

func TestTaskFormPriorityCycles(t *testing.T) {
	f := newAddForm()
	f.focus = fieldPriority
	want := []todo.Priority{todo.PriorityHigh, todo.PriorityLow, todo.PriorityMedium}
	for _, w := range want {
		f.handle(key("space"))
		if f.priority != w {
			t.Fatalf("priority = %q, want %q", f.priority, w)
		}
	}
	f.handle(key("x"))
	if f.priority != todo.PriorityMedium || f.title.Value() != "" {
		t.Errorf("rune key on priority field: priority=%q title=%q", f.priority, f.title.Value())
	}
}

func TestTaskFormFieldEditing(t *testing.T) {
	f := newEditForm(controller.Draft{ID: "1", Title: "ab"})
	for _, k := range []tea.KeyMsg{
		key("c"),
		key("space"),
		{Type: tea.KeyBackspace},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyLeft},
		key("x"),
	} {
		f.handle(k)
	}
	if got := f.title.Value(); got != "axb" {
		t.Fatalf("title = %q, want axb", got)
	}
	if !f.title.Focused() || f.description.Focused() {
		t.Error("title should hold focus")
	}

	f.next()
	f.handle(key("d"))
	if f.description.Value() != "d" || f.title.Value() != "axb" {
		t.Errorf("after tab: title=%q description=%q", f.title.Value(), f.description.Value())
	}
	if f.title.Focused() || !f.description.Focused() {
		t.Error("focus did not move to description")
	}

	f.prev()
	f.handle(tea.KeyMsg{Type: tea.KeyEnd})
	f.handle(key("ctrl+u"))
	if f.title.Value() != "" {
		t.Fatalf("ctrl+u left %q", f.title.Value())
	}
	if ev := f.event(); ev.Kind != controller.KindSave || ev.Draft.ID != "1" || ev.Draft.Description != "d" {
		t.Errorf("event = %+v", ev)
	}
}

func TestIsTTYRejectsBuffers(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("IsTTY(builder) = true")
	}
}
