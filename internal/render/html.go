package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nibzard/todoctl/internal/notify"
)

// HTML renders the stats panel and the task list as a markup fragment.
// Free text only ever becomes text nodes, which html.Render escapes.
func HTML(v View, s Stats) (string, error) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(statsNode(s))
	root.AppendChild(listNode(v))
	return renderNode(root)
}

// ChatHTML renders the transcript the way the chat pane shows it: sender in
// bold, newlines as line breaks.
func ChatHTML(messages []notify.ChatMessage) (string, error) {
	root := element(atom.Div, "chat-messages")
	for _, m := range messages {
		class := "user-message"
		if m.Assistant {
			class = "ai-message"
		}
		if m.Pending {
			class += " loading-message"
		}
		div := element(atom.Div, class)
		strong := element(atom.Strong, "")
		strong.AppendChild(text(m.Sender + ":"))
		div.AppendChild(strong)
		div.AppendChild(text(" "))
		for i, line := range strings.Split(m.Text, "\n") {
			if i > 0 {
				div.AppendChild(element(atom.Br, ""))
			}
			div.AppendChild(text(line))
		}
		root.AppendChild(div)
	}
	return renderNode(root)
}

func statsNode(s Stats) *html.Node {
	panel := element(atom.Div, "stats")
	for _, stat := range []struct {
		class, label string
		value        string
	}{
		{"stat-total", "Total Tasks", strconv.Itoa(s.Total)},
		{"stat-completed", "Completed", strconv.Itoa(s.Completed)},
		{"stat-pending", "Pending", strconv.Itoa(s.Pending)},
		{"stat-rate", "Completion Rate", fmt.Sprintf("%d%%", s.Rate)},
	} {
		card := element(atom.Div, "stat "+stat.class)
		label := element(atom.Div, "stat-label")
		label.AppendChild(text(stat.label))
		value := element(atom.Div, "h5 mb-0 font-weight-bold")
		value.AppendChild(text(stat.value))
		card.AppendChild(label)
		card.AppendChild(value)
		panel.AppendChild(card)
	}

	progress := element(atom.Div, "progress")
	bar := element(atom.Div, "progress-bar")
	bar.Attr = append(bar.Attr,
		html.Attribute{Key: "role", Val: "progressbar"},
		html.Attribute{Key: "style", Val: fmt.Sprintf("width: %d%%", s.Rate)},
	)
	bar.AppendChild(text(fmt.Sprintf("%d%% Complete", s.Rate)))
	progress.AppendChild(bar)
	panel.AppendChild(progress)
	return panel
}

func listNode(v View) *html.Node {
	list := element(atom.Div, "tasks-list")
	list.Attr = append(list.Attr,
		html.Attribute{Key: "id", Val: "tasksList"},
		html.Attribute{Key: "data-filter", Val: string(v.Filter)},
	)

	if v.Empty {
		empty := element(atom.Div, "text-center py-5")
		h := element(atom.H5, "text-muted")
		h.AppendChild(text(EmptyTitle))
		p := element(atom.P, "text-muted")
		p.AppendChild(text(EmptyHint))
		empty.AppendChild(h)
		empty.AppendChild(p)
		list.AppendChild(empty)
		return list
	}

	for _, t := range v.Items {
		class := "task-item mb-3 p-3 border rounded"
		if t.Completed() {
			class += " completed"
		}
		item := element(atom.Div, class)
		item.Attr = append(item.Attr, html.Attribute{Key: "data-task-id", Val: t.ID.String()})

		box := element(atom.Input, "form-check-input task-checkbox")
		box.Attr = append(box.Attr, html.Attribute{Key: "type", Val: "checkbox"})
		if t.Completed() {
			box.Attr = append(box.Attr, html.Attribute{Key: "checked"})
		}
		item.AppendChild(box)

		title := element(atom.H6, "task-title mb-1")
		title.AppendChild(text(t.Title))
		item.AppendChild(title)

		if t.Description != "" {
			desc := element(atom.P, "task-description text-muted mb-1")
			desc.AppendChild(text(t.Description))
			item.AppendChild(desc)
		}

		if t.Priority.Valid() {
			badge := element(atom.Span, "badge priority-"+string(t.Priority))
			badge.AppendChild(text(t.Priority.Label()))
			item.AppendChild(badge)
		}

		if t.DueDate != "" {
			due := element(atom.Small, "task-due text-muted")
			due.AppendChild(text("Due: " + t.DueDate))
			item.AppendChild(due)
		}

		list.AppendChild(item)
	}
	return list
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func renderNode(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}
