package ui

import (
	"fmt"
	"strings"

	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/render"
)

// chatLines is how much of the transcript the main screen shows.
const chatLines = 8

func (m *tuiModel) View() string {
	st := m.cfg.styles
	var b strings.Builder

	b.WriteString(st.Heading.Render("todoctl"))
	if m.busy > 0 {
		b.WriteString(st.Muted.Render("  working..."))
	}
	b.WriteString("\n\n")

	if m.mode == modeHelp {
		writeHelp(&b)
		return b.String()
	}

	writeNotes(&b, m.notes)
	b.WriteString(render.TextWith(m.snap.View, m.snap.Stats, st, render.TextOptions{Cursor: m.cursor}))
	b.WriteString("\n")
	writeChat(&b, m.chat, st)

	switch m.mode {
	case modeForm:
		writeForm(&b, &m.form, st)
	case modeChat, modeSuggest:
		fmt.Fprintf(&b, "\n%s\n", m.input.View())
	case modeConfirm:
		if m.pending != nil {
			fmt.Fprintf(&b, "\n%s [y/n]\n", m.pending.prompt)
		}
	}

	b.WriteString("\n")
	b.WriteString(st.Muted.Render(footer(m.mode)))
	b.WriteString("\n")
	return b.String()
}

func writeNotes(b *strings.Builder, notes []notify.Notification) {
	for _, n := range notes {
		fmt.Fprintf(b, "[%s] %s\n", n.Severity, render.Sanitize(n.Message))
	}
	if len(notes) > 0 {
		b.WriteString("\n")
	}
}

func writeChat(b *strings.Builder, messages []notify.ChatMessage, st render.Styles) {
	text := strings.TrimRight(render.ChatText(messages, st), "\n")
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	if len(lines) > chatLines {
		lines = lines[len(lines)-chatLines:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
}

func writeForm(b *strings.Builder, f *taskForm, st render.Styles) {
	title := "New task"
	if f.editing {
		title = "Edit task"
	}
	b.WriteString("\n" + st.Heading.Render(title) + "\n")
	for i := formField(0); i < fieldCount; i++ {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-12s %s", marker, fieldLabels[i]+":", f.value(i))
		if i == f.focus {
			line = st.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
}

func writeHelp(b *strings.Builder) {
	rows := [][2]string{
		{"a", "add a task"},
		{"e", "edit the selected task"},
		{"space, x", "toggle completed"},
		{"d", "delete the selected task"},
		{"c, /", "chat with the assistant"},
		{"s", "suggest tasks for a goal"},
		{"i", "show insights"},
		{"0-3", "filter: all, pending, completed, high"},
		{"r, f5", "reload from the backend"},
		{"j/k, arrows", "move"},
		{"esc", "dismiss notifications"},
		{"q, ctrl+c", "quit"},
	}
	for _, r := range rows {
		fmt.Fprintf(b, "  %-12s %s\n", r[0], r[1])
	}
	b.WriteString("\npress any key to return\n")
}

func footer(md mode) string {
	switch md {
	case modeForm:
		return "tab next field  space cycles priority  enter save  esc cancel"
	case modeChat:
		return "enter send  esc back"
	case modeSuggest:
		return "enter ask  esc back"
	case modeConfirm:
		return "y confirm  n cancel"
	}
	return "a add  e edit  space toggle  d delete  c chat  ? help  q quit"
}
