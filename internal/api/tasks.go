package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nibzard/todoctl/internal/todo"
)

const todosPath = "/api/todos"

func taskPath(id todo.ID) string {
	return todosPath + "/" + url.PathEscape(id.String())
}

// ListTasks fetches the full task collection in server order. Transport,
// HTTP, JSON and schema failures all surface as *NetworkError.
func (c *Client) ListTasks(ctx context.Context) ([]todo.Task, error) {
	var tasks []todo.Task
	err := c.call(ctx, "list_tasks", http.MethodGet, todosPath, nil, func(status int, data []byte) error {
		if !statusOK(status) {
			return &NetworkError{Op: opLabel("list_tasks"), Err: fmt.Errorf("unexpected HTTP status %d", status)}
		}
		return decode("list_tasks", SchemaTaskList, status, data, &tasks)
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

// CreateTask posts a new task. The backend assigns the ID and the pending
// status. The request is validated locally first and never sent when the
// title is empty.
func (c *Client) CreateTask(ctx context.Context, n todo.NewTask) error {
	n = n.Normalize()
	if err := n.Validate(); err != nil {
		return err
	}
	body := createRequest{
		Title:       n.Title,
		Description: n.Description,
		Priority:    n.Priority,
	}
	if n.DueDate != "" {
		due := n.DueDate
		body.DueDate = &due
	}
	return c.mutate(ctx, "create_task", http.MethodPost, todosPath, body)
}

// UpdateTask replaces the task with the given record. Fields the client does
// not model are sent back as they were received.
func (c *Client) UpdateTask(ctx context.Context, id todo.ID, t todo.Task) error {
	if id == "" {
		return &todo.ValidationError{Field: "id", Err: fmt.Errorf("task id required")}
	}
	if err := todo.ValidateTitle(t.Title); err != nil {
		return err
	}
	return c.mutate(ctx, "update_task", http.MethodPut, taskPath(id), t)
}

// PatchStatus sends a status-only body to the update route. Only backends
// that merge partial records accept it.
func (c *Client) PatchStatus(ctx context.Context, id todo.ID, status todo.Status) error {
	if id == "" {
		return &todo.ValidationError{Field: "id", Err: fmt.Errorf("task id required")}
	}
	if !status.Valid() {
		return &todo.ValidationError{Field: "status", Err: fmt.Errorf("invalid status %q", status)}
	}
	return c.mutate(ctx, "patch_status", http.MethodPut, taskPath(id), statusRequest{Status: status})
}

// DeleteTask removes a task. Asking the user first is the caller's job.
func (c *Client) DeleteTask(ctx context.Context, id todo.ID) error {
	if id == "" {
		return &todo.ValidationError{Field: "id", Err: fmt.Errorf("task id required")}
	}
	return c.mutate(ctx, "delete_task", http.MethodDelete, taskPath(id), nil)
}

// mutate performs a request whose response is a bare envelope.
func (c *Client) mutate(ctx context.Context, op, method, path string, body any) error {
	return c.call(ctx, op, method, path, body, func(status int, data []byte) error {
		var env envelope
		if err := decode(op, SchemaEnvelope, status, data, &env); err != nil {
			return err
		}
		return checkEnvelope(op, status, env)
	})
}
