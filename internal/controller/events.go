package controller

import (
	"github.com/nibzard/todoctl/internal/todo"
)

// Kind names an event the front-end can raise.
type Kind string

const (
	KindCreate     Kind = "create"
	KindToggle     Kind = "toggle"
	KindEdit       Kind = "edit"
	KindSave       Kind = "save"
	KindCancelEdit Kind = "cancel-edit"
	KindDelete     Kind = "delete"
	KindChat       Kind = "chat"
	KindFilter     Kind = "filter"
	KindRefresh    Kind = "refresh"
	KindReload     Kind = "reload"
	KindInsights   Kind = "insights"
	KindSuggest    Kind = "suggest"
	KindDismiss    Kind = "dismiss"
)

// Kinds returns every built-in event kind.
func Kinds() []Kind {
	return []Kind{
		KindCreate, KindToggle, KindEdit, KindSave, KindCancelEdit, KindDelete,
		KindChat, KindFilter, KindRefresh, KindReload, KindInsights, KindSuggest,
		KindDismiss,
	}
}

// Event is one user action. Only the fields relevant to Kind are read:
//
//	create       NewTask
//	toggle       ID
//	edit         ID
//	save         Draft
//	delete       ID
//	chat         Text
//	suggest      Text
//	filter       Filter
//	dismiss      Notification (0 dismisses all)
type Event struct {
	Kind         Kind
	ID           todo.ID
	NewTask      todo.NewTask
	Draft        Draft
	Text         string
	Filter       todo.Filter
	Notification int64
}

// Draft is the content of the edit form.
type Draft struct {
	ID          todo.ID
	Title       string
	Description string
	Priority    todo.Priority
	DueDate     string
}

// DraftOf pre-fills an editor from a cached task.
func DraftOf(t todo.Task) Draft {
	return Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
}

// apply copies the editable fields onto the cached record. Status and every
// field the form does not show are kept.
func (d Draft) apply(t todo.Task) todo.Task {
	out := t.WithStatus(t.Status)
	out.Title = d.Title
	out.Description = d.Description
	if d.Priority != "" {
		out.Priority = d.Priority
	}
	out.DueDate = d.DueDate
	return out
}
