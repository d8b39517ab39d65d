package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/todo"
)

// newTextInput returns an unfocused single-line field. The cursor does not
// blink so the model needs no timer messages.
func newTextInput(prompt, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return ti
}

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Priority", "Due date"}

// taskForm backs both the add and the edit screen.
type taskForm struct {
	editing     bool
	id          todo.ID
	title       textinput.Model
	description textinput.Model
	priority    todo.Priority
	due         textinput.Model
	focus       formField
}

func newAddForm() taskForm {
	return newForm(controller.Draft{Priority: todo.DefaultPriority})
}

func newEditForm(d controller.Draft) taskForm {
	p := d.Priority
	if p == "" {
		p = todo.DefaultPriority
	}
	d.Priority = p
	f := newForm(d)
	f.editing = true
	f.id = d.ID
	return f
}

func newForm(d controller.Draft) taskForm {
	f := taskForm{
		title:       newTextInput("", d.Title),
		description: newTextInput("", d.Description),
		priority:    d.Priority,
		due:         newTextInput("", d.DueDate),
	}
	f.due.Placeholder = "YYYY-MM-DD"
	f.setFocus(fieldTitle)
	return f
}

func (f *taskForm) next() { f.setFocus((f.focus + 1) % fieldCount) }

func (f *taskForm) prev() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

func (f *taskForm) setFocus(field formField) {
	f.focus = field
	for i := formField(0); i < fieldCount; i++ {
		ti := f.input(i)
		if ti == nil {
			continue
		}
		if i == field {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

// input returns the text field behind field, or nil for the priority picker.
func (f *taskForm) input(field formField) *textinput.Model {
	switch field {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.description
	case fieldDue:
		return &f.due
	}
	return nil
}

// handle routes an editing key to the focused field.
func (f *taskForm) handle(msg tea.KeyMsg) tea.Cmd {
	if ti := f.input(f.focus); ti != nil {
		var cmd tea.Cmd
		*ti, cmd = ti.Update(msg)
		return cmd
	}
	switch msg.Type {
	case tea.KeySpace, tea.KeyLeft, tea.KeyRight:
		f.priority = f.priority.Next()
	}
	return nil
}

// value is the display text of field; the focused text field shows its
// cursor.
func (f *taskForm) value(field formField) string {
	if field == fieldPriority {
		return f.priority.Label()
	}
	ti := f.input(field)
	if field == f.focus {
		return ti.View()
	}
	return ti.Value()
}

func (f *taskForm) event() controller.Event {
	if f.editing {
		return controller.Event{Kind: controller.KindSave, Draft: controller.Draft{
			ID:          f.id,
			Title:       f.title.Value(),
			Description: f.description.Value(),
			Priority:    f.priority,
			DueDate:     f.due.Value(),
		}}
	}
	return controller.Event{Kind: controller.KindCreate, NewTask: todo.NewTask{
		Title:       f.title.Value(),
		Description: f.description.Value(),
		Priority:    f.priority,
		DueDate:     f.due.Value(),
	}}
}
