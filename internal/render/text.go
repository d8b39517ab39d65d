package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/todo"
)

// Styles are the lipgloss styles used by Text.
type Styles struct {
	Heading   lipgloss.Style
	Muted     lipgloss.Style
	Completed lipgloss.Style
	Selected  lipgloss.Style
	Priority  map[todo.Priority]lipgloss.Style
}

// DefaultStyles returns colored styles for a terminal.
func DefaultStyles() Styles {
	return Styles{
		Heading:   lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Faint(true),
		Completed: lipgloss.NewStyle().Strikethrough(true).Faint(true),
		Selected:  lipgloss.NewStyle().Reverse(true),
		Priority: map[todo.Priority]lipgloss.Style{
			todo.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			todo.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			todo.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		},
	}
}

// PlainStyles returns styles that add no escape sequences, for pipes and
// tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Heading:   plain,
		Muted:     plain,
		Completed: plain,
		Selected:  plain,
		Priority:  map[todo.Priority]lipgloss.Style{},
	}
}

func (s Styles) priority(p todo.Priority) lipgloss.Style {
	if st, ok := s.Priority[p]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// TextOptions tweaks Text output.
type TextOptions struct {
	// Cursor highlights the item at this index; -1 disables it.
	Cursor int
}

// Text renders stats and the task list for a terminal.
func Text(v View, s Stats, st Styles) string {
	return TextWith(v, s, st, TextOptions{Cursor: -1})
}

// TextWith is Text with a cursor.
func TextWith(v View, s Stats, st Styles, opts TextOptions) string {
	var b strings.Builder
	writeStats(&b, s, st)
	writeList(&b, v, st, opts)
	return b.String()
}

func writeStats(b *strings.Builder, s Stats, st Styles) {
	b.WriteString(st.Heading.Render("Overview") + "\n\n")
	fmt.Fprintf(b, "  Total: %d  Completed: %d  Pending: %d  Rate: %d%%\n", s.Total, s.Completed, s.Pending, s.Rate)
	b.WriteString("  " + progressBar(s.Rate, 20) + "\n\n")
}

func writeList(b *strings.Builder, v View, st Styles, opts TextOptions) {
	b.WriteString(st.Heading.Render("Tasks ("+v.Filter.Label()+")") + "\n\n")
	if v.Empty {
		b.WriteString("  " + st.Muted.Render(EmptyTitle) + "\n")
		b.WriteString("  " + st.Muted.Render(EmptyHint) + "\n\n")
		return
	}
	for i, t := range v.Items {
		line := FormatTask(t, st)
		if i == opts.Cursor {
			line = st.Selected.Render(line)
		}
		b.WriteString(line + "\n")
		if t.Description != "" {
			b.WriteString("      " + st.Muted.Render(truncate(Sanitize(t.Description), 60)) + "\n")
		}
	}
	b.WriteString("\n")
}

// FormatTask renders one task on a single line.
func FormatTask(t todo.Task, st Styles) string {
	box := "[ ]"
	if t.Completed() {
		box = "[x]"
	}
	title := Sanitize(t.Title)
	if t.Completed() {
		title = st.Completed.Render(title)
	}
	line := fmt.Sprintf("  %s #%s %s %s", box, Sanitize(t.ID.String()), st.priority(t.Priority).Render(priorityTag(t.Priority)), title)
	if t.DueDate != "" {
		line += " " + st.Muted.Render("(due "+Sanitize(t.DueDate)+")")
	}
	return line
}

// ChatText renders the transcript. Multi-line replies are indented under
// the sender label.
func ChatText(messages []notify.ChatMessage, st Styles) string {
	var b strings.Builder
	for _, m := range messages {
		label := st.Heading.Render(Sanitize(m.Sender) + ":")
		lines := strings.Split(m.Text, "\n")
		for i, line := range lines {
			line = Sanitize(line)
			if m.Pending {
				line = st.Muted.Render(line)
			}
			if i == 0 {
				b.WriteString(label + " " + line + "\n")
				continue
			}
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}

func priorityTag(p todo.Priority) string {
	if p == "" {
		return "[-]"
	}
	return "[" + p.Label() + "]"
}

func progressBar(rate, width int) string {
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	filled := rate * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// Sanitize replaces control characters so backend text cannot move the
// cursor or inject escape sequences.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
