// Package controller is the Interaction Controller. It owns the client-side
// state (task cache, active filter, open editor), turns front-end events
// into Sync Client calls and reloads the full list after every change.
//
// All feedback flows through the notification center and chat log; only
// programmer errors are returned from Dispatch.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoctl/internal/api"
	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/render"
	"github.com/nibzard/todoctl/internal/todo"
)

// DefaultActionDelay is the pause before reloading after the assistant
// changed tasks on the server.
const DefaultActionDelay = 500 * time.Millisecond

var (
	// ErrUnknownEvent is returned by Dispatch for a kind with no handler.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidEvent is returned when an event lacks its payload.
	ErrInvalidEvent = errors.New("invalid event")
)

// Client is the subset of the Sync Client the controller uses.
type Client interface {
	ListTasks(ctx context.Context) ([]todo.Task, error)
	CreateTask(ctx context.Context, n todo.NewTask) error
	UpdateTask(ctx context.Context, id todo.ID, t todo.Task) error
	PatchStatus(ctx context.Context, id todo.ID, status todo.Status) error
	DeleteTask(ctx context.Context, id todo.ID) error
	SendChat(ctx context.Context, message string) (api.ChatReply, error)
	FetchInsights(ctx context.Context) (string, error)
	FetchSuggestions(ctx context.Context, input string) ([]api.Suggestion, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Renderer draws a view. It is called after every reload and filter change.
type Renderer interface {
	Render(v render.View, s render.Stats)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(v render.View, s render.Stats)

// Render calls f.
func (f RenderFunc) Render(v render.View, s render.Stats) { f(v, s) }

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Deps are the collaborators of a Controller. Client is required.
type Deps struct {
	Client    Client
	Confirmer Confirmer
	Renderer  Renderer
	Notifier  *notify.Center
	Chat      *notify.ChatLog
	Logger    *log.Logger
	Sleep     SleepFunc
}

// Options tune controller behavior.
type Options struct {
	// ActionDelay is the pause before reloading after a chat action.
	// Zero means DefaultActionDelay; use a negative value for no pause.
	ActionDelay time.Duration
	// PartialToggle sends a status-only body instead of the whole record.
	PartialToggle bool
	// Filter is the initial filter.
	Filter todo.Filter
}

// Handler handles one event. Handlers run without the controller lock and
// may overlap with handlers for other events; they reach shared state only
// through the store and the controller's accessors.
type Handler func(ctx context.Context, ev Event) error

// State is the client-side state owned by one controller.
type State struct {
	Store  *todo.Store
	Filter todo.Filter
	// Editor is the open edit form, nil when closed.
	Editor *Draft
}

// Snapshot is a copy of the state for drawing.
type Snapshot struct {
	Tasks   []todo.Task
	View    render.View
	Stats   render.Stats
	Filter  todo.Filter
	Editing bool
	Draft   Draft
}

// Controller dispatches events against its State.
type Controller struct {
	client   Client
	confirm  Confirmer
	renderer Renderer
	notes    *notify.Center
	chat     *notify.ChatLog
	logger   *log.Logger
	sleep    SleepFunc
	opts     Options

	mu       sync.Mutex // guards state.Filter, state.Editor and handlers
	state    State
	handlers map[Kind][]Handler
}

// New builds a controller and registers the built-in handlers.
func New(deps Deps, opts Options) (*Controller, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("controller: client is required")
	}
	filter, err := todo.ParseFilter(string(opts.Filter))
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	if opts.ActionDelay == 0 {
		opts.ActionDelay = DefaultActionDelay
	}

	c := &Controller{
		client:   deps.Client,
		confirm:  deps.Confirmer,
		renderer: deps.Renderer,
		notes:    deps.Notifier,
		chat:     deps.Chat,
		logger:   deps.Logger,
		sleep:    deps.Sleep,
		opts:     opts,
		state:    State{Store: todo.NewStore(), Filter: filter},
		handlers: make(map[Kind][]Handler),
	}
	if c.confirm == nil {
		c.confirm = AlwaysConfirm
	}
	if c.notes == nil {
		c.notes = notify.NewCenter()
	}
	if c.chat == nil {
		c.chat = notify.NewChatLog()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}

	c.Register(KindCreate, c.handleCreate)
	c.Register(KindToggle, c.handleToggle)
	c.Register(KindEdit, c.handleEdit)
	c.Register(KindSave, c.handleSave)
	c.Register(KindCancelEdit, c.handleCancelEdit)
	c.Register(KindDelete, c.handleDelete)
	c.Register(KindChat, c.handleChat)
	c.Register(KindFilter, c.handleFilter)
	c.Register(KindRefresh, c.handleRefresh)
	c.Register(KindReload, c.handleReload)
	c.Register(KindInsights, c.handleInsights)
	c.Register(KindSuggest, c.handleSuggest)
	c.Register(KindDismiss, c.handleDismiss)
	return c, nil
}

// Register subscribes h to kind. Handlers for one kind run in registration
// order; the first error stops the chain.
func (c *Controller) Register(kind Kind, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[kind] = append(c.handlers[kind], h)
}

// Dispatch runs the handlers registered for ev.Kind. The lock is not held
// while handlers run, so a filter change or dismissal is not queued behind a
// chat or load that is still waiting on the server.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	c.mu.Lock()
	hs := append([]Handler(nil), c.handlers[ev.Kind]...)
	c.mu.Unlock()

	if len(hs) == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	c.logger.Debug("dispatch", "event", ev.Kind, "id", ev.ID)
	for _, h := range hs {
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Start shows the welcome message and loads the task list.
func (c *Controller) Start(ctx context.Context) {
	c.chat.Append(notify.SenderAssistant, Welcome, true)
	c.reload(ctx)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	tasks := c.state.Store.All()
	s := Snapshot{
		Tasks:  tasks,
		View:   render.Build(tasks, c.state.Filter),
		Stats:  render.ComputeStats(tasks),
		Filter: c.state.Filter,
	}
	if c.state.Editor != nil {
		s.Editing = true
		s.Draft = *c.state.Editor
	}
	return s
}

// Notifier returns the notification center feedback is pushed to.
func (c *Controller) Notifier() *notify.Center { return c.notes }

// Chat returns the chat transcript.
func (c *Controller) Chat() *notify.ChatLog { return c.chat }

// reload replaces the store with the server's list and redraws. On failure
// the store is left untouched.
func (c *Controller) reload(ctx context.Context) bool {
	tasks, err := c.client.ListTasks(ctx)
	if err != nil {
		c.logger.Warn("load tasks", "err", err)
		c.notes.Push(notify.SeverityError, msgLoadFailed)
		return false
	}
	c.state.Store.Set(tasks)
	c.logger.Debug("tasks loaded", "count", len(tasks), "generation", c.state.Store.Generation())
	c.draw()
	return true
}

// draw renders the current state. It must be called without c.mu held.
func (c *Controller) draw() {
	if c.renderer == nil {
		return
	}
	s := c.Snapshot()
	c.renderer.Render(s.View, s.Stats)
}

func (c *Controller) editor() *Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Editor
}

func (c *Controller) setEditor(d *Draft) {
	c.mu.Lock()
	c.state.Editor = d
	c.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
