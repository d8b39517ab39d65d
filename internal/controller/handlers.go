package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibzard/todoctl/internal/api"
	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/todo"
)

func (c *Controller) handleCreate(ctx context.Context, ev Event) error {
	n := ev.NewTask.Normalize()
	if err := todo.ValidateTitle(n.Title); err != nil {
		c.notes.Push(notify.SeverityWarning, msgEnterTitle)
		return nil
	}
	if err := c.client.CreateTask(ctx, n); err != nil {
		c.logger.Warn("create task", "err", err)
		c.notes.Push(notify.SeverityError, msgAddFailed)
		return nil
	}
	c.notes.Push(notify.SeveritySuccess, msgAdded)
	c.reload(ctx)
	return nil
}

func (c *Controller) handleToggle(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: toggle without task id", ErrInvalidEvent)
	}
	cached, ok := c.state.Store.Find(ev.ID)
	if !ok {
		return nil
	}

	next := cached.Status.Toggled()
	var err error
	if c.opts.PartialToggle {
		err = c.client.PatchStatus(ctx, cached.ID, next)
	} else {
		err = c.client.UpdateTask(ctx, cached.ID, cached.WithStatus(next))
	}
	if err != nil {
		c.logger.Warn("toggle task", "id", cached.ID, "err", err)
		c.notes.Push(notify.SeverityError, msgUpdateFailed)
		return nil
	}

	if next == todo.StatusCompleted {
		c.notes.Push(notify.SeveritySuccess, msgCompleted)
	} else {
		c.notes.Push(notify.SeveritySuccess, msgReopened)
	}
	c.reload(ctx)
	return nil
}

func (c *Controller) handleEdit(_ context.Context, ev Event) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: edit without task id", ErrInvalidEvent)
	}
	cached, ok := c.state.Store.Find(ev.ID)
	if !ok {
		return nil
	}
	d := DraftOf(cached)
	c.setEditor(&d)
	return nil
}

func (c *Controller) handleSave(ctx context.Context, ev Event) error {
	d := ev.Draft
	if e := c.editor(); d.ID == "" && e != nil {
		d.ID = e.ID
	}
	if d.ID == "" {
		return fmt.Errorf("%w: save without task id", ErrInvalidEvent)
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.DueDate = strings.TrimSpace(d.DueDate)

	if err := todo.ValidateTitle(d.Title); err != nil {
		c.notes.Push(notify.SeverityWarning, msgEnterTitle)
		return nil
	}
	cached, ok := c.state.Store.Find(d.ID)
	if !ok {
		return nil
	}
	if d.Priority != "" && !d.Priority.Valid() {
		c.notes.Push(notify.SeverityWarning, fmt.Sprintf("Invalid priority %q", d.Priority))
		return nil
	}

	if err := c.client.UpdateTask(ctx, d.ID, d.apply(cached)); err != nil {
		c.logger.Warn("update task", "id", d.ID, "err", err)
		c.notes.Push(notify.SeverityError, msgUpdateFailed)
		// Keep the form open with what the user typed.
		c.setEditor(&d)
		return nil
	}
	c.setEditor(nil)
	c.notes.Push(notify.SeveritySuccess, msgUpdated)
	c.reload(ctx)
	return nil
}

func (c *Controller) handleCancelEdit(context.Context, Event) error {
	c.setEditor(nil)
	return nil
}

func (c *Controller) handleDelete(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: delete without task id", ErrInvalidEvent)
	}
	ok, err := c.confirm.Confirm(ctx, ConfirmDelete)
	if err != nil {
		c.logger.Warn("confirm delete", "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	if err := c.client.DeleteTask(ctx, ev.ID); err != nil {
		c.logger.Warn("delete task", "id", ev.ID, "err", err)
		c.notes.Push(notify.SeverityError, msgDeleteFailed)
		return nil
	}
	c.notes.Push(notify.SeveritySuccess, msgDeleted)
	c.reload(ctx)
	return nil
}

func (c *Controller) handleChat(ctx context.Context, ev Event) error {
	msg := strings.TrimSpace(ev.Text)
	if msg == "" {
		return nil
	}
	c.chat.Append(notify.SenderUser, msg, false)
	c.chat.BeginPending(notify.SenderAssistant, chatThinking)

	reply, err := c.client.SendChat(ctx, msg)
	c.chat.EndPending()
	if err != nil {
		c.logger.Warn("send chat", "err", err)
		if api.IsRejection(err) {
			c.chat.Append(notify.SenderAssistant, chatRejected, true)
		} else {
			c.chat.Append(notify.SenderAssistant, chatUnreachable, true)
		}
		return nil
	}
	c.chat.Append(notify.SenderAssistant, reply.Response, true)

	if !reply.ActionPerformed {
		return nil
	}
	switch reply.ActionType {
	case api.ActionCreateTask:
		c.notes.Push(notify.SeveritySuccess, msgCreatedViaAI)
	case api.ActionCompleteTask:
		c.notes.Push(notify.SeveritySuccess, msgCompletedViaAI)
	case api.ActionDeleteTask:
		c.notes.Push(notify.SeveritySuccess, msgDeletedViaAI)
	}
	if err := c.sleep(ctx, c.opts.ActionDelay); err != nil {
		c.logger.Debug("reload after chat action skipped", "err", err)
		return nil
	}
	c.reload(ctx)
	return nil
}

func (c *Controller) handleFilter(_ context.Context, ev Event) error {
	f, err := todo.ParseFilter(string(ev.Filter))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	c.mu.Lock()
	c.state.Filter = f
	c.mu.Unlock()
	c.draw()
	return nil
}

func (c *Controller) handleRefresh(ctx context.Context, _ Event) error {
	c.notes.Push(notify.SeverityInfo, msgRefreshing)
	c.reload(ctx)
	return nil
}

func (c *Controller) handleReload(ctx context.Context, _ Event) error {
	c.reload(ctx)
	return nil
}

func (c *Controller) handleInsights(ctx context.Context, _ Event) error {
	c.chat.BeginPending(notify.SenderAssistant, insightsPending)
	text, err := c.client.FetchInsights(ctx)
	c.chat.EndPending()
	if err != nil {
		c.logger.Warn("fetch insights", "err", err)
		if api.IsRejection(err) {
			c.chat.Append(notify.SenderAssistant, insightsRejected, true)
		} else {
			c.chat.Append(notify.SenderAssistant, insightsFailed, true)
		}
		return nil
	}
	c.chat.Append(notify.SenderAssistant, text, true)
	return nil
}

func (c *Controller) handleSuggest(ctx context.Context, ev Event) error {
	input := strings.TrimSpace(ev.Text)
	if input == "" {
		return nil
	}
	c.chat.Append(notify.SenderUser, suggestAsk+input, false)
	c.chat.BeginPending(notify.SenderAssistant, suggestPending)

	list, err := c.client.FetchSuggestions(ctx, input)
	c.chat.EndPending()
	switch {
	case err != nil && !api.IsRejection(err):
		c.logger.Warn("fetch suggestions", "err", err)
		c.chat.Append(notify.SenderAssistant, suggestFailed, true)
	case err != nil || len(list) == 0:
		if err != nil {
			c.logger.Warn("fetch suggestions", "err", err)
		}
		c.chat.Append(notify.SenderAssistant, suggestGenericTip, true)
	default:
		c.chat.Append(notify.SenderAssistant, FormatSuggestions(list), true)
	}
	return nil
}

func (c *Controller) handleDismiss(_ context.Context, ev Event) error {
	if ev.Notification == 0 {
		c.notes.DismissAll()
		return nil
	}
	c.notes.Dismiss(ev.Notification)
	return nil
}

// FormatSuggestions renders suggestions as the numbered chat reply.
func FormatSuggestions(list []api.Suggestion) string {
	var b strings.Builder
	b.WriteString(suggestHeader)
	for i, s := range list {
		fmt.Fprintf(&b, "%d. %s (%s priority)\n", i+1, s.Task, s.Priority)
	}
	b.WriteString(suggestFooter)
	return b.String()
}
