// Package ui is the interactive terminal front-end. It draws the
// controller's state and turns key presses into controller events.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/render"
	"github.com/nibzard/todoctl/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	tickInterval time.Duration
	styles       render.Styles
}

// WithTickInterval sets how often toasts and the chat pane are refreshed.
func WithTickInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) { c.tickInterval = d }
}

// WithStyles replaces the default lipgloss styles.
func WithStyles(st render.Styles) TUIOption {
	return func(c *tuiConfig) { c.styles = st }
}

// RunTUI starts the TUI over ctrl. confirm must be the Confirmer the
// controller was built with.
func RunTUI(ctx context.Context, ctrl *controller.Controller, confirm *Confirmer, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newTUIModel(ctx, ctrl, confirm, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeChat
	modeSuggest
	modeConfirm
	modeHelp
)

type tuiModel struct {
	ctx     context.Context
	ctrl    *controller.Controller
	confirm *Confirmer
	cfg     tuiConfig

	mode    mode
	cursor  int
	snap    controller.Snapshot
	chat    []notify.ChatMessage
	notes   []notify.Notification
	busy    int
	form    taskForm
	input   textinput.Model
	pending *confirmRequest
	err     error
}

type tickMsg time.Time

// dispatchedMsg carries the state after an event finished.
type dispatchedMsg struct {
	kind controller.Kind
	snap controller.Snapshot
	err  error
}

func newTUIModel(ctx context.Context, ctrl *controller.Controller, confirm *Confirmer, opts ...TUIOption) *tuiModel {
	cfg := tuiConfig{
		tickInterval: 250 * time.Millisecond,
		styles:       render.DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if confirm == nil {
		confirm = NewConfirmer()
	}
	return &tuiModel{ctx: ctx, ctrl: ctrl, confirm: confirm, cfg: cfg, input: newTextInput("", "")}
}

func (m *tuiModel) Init() tea.Cmd {
	m.busy++
	return tea.Batch(m.startCmd(), tickCmd(m.cfg.tickInterval), waitForConfirm(m.ctx, m.confirm))
}

func (m *tuiModel) startCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Start(ctx)
		return dispatchedMsg{kind: "start", snap: ctrl.Snapshot()}
	}
}

// dispatch runs ev off the UI goroutine.
func (m *tuiModel) dispatch(ev controller.Event) tea.Cmd {
	m.busy++
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		err := ctrl.Dispatch(ctx, ev)
		return dispatchedMsg{kind: ev.Kind, snap: ctrl.Snapshot(), err: err}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeChat, modeSuggest:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeHelp:
			m.mode = modeList
			return m, nil
		}
		return m.updateList(msg)
	case tickMsg:
		m.pull()
		return m, tickCmd(m.cfg.tickInterval)
	case confirmMsg:
		req := confirmRequest(msg)
		m.pending = &req
		m.mode = modeConfirm
		return m, nil
	case dispatchedMsg:
		m.busy--
		m.snap = msg.snap
		m.err = msg.err
		m.clampCursor()
		m.pull()
		m.afterDispatch(msg.kind)
		return m, nil
	}
	return m, nil
}

func (m *tuiModel) afterDispatch(kind controller.Kind) {
	switch kind {
	case controller.KindEdit:
		if m.snap.Editing {
			m.form = newEditForm(m.snap.Draft)
			m.mode = modeForm
		}
	case controller.KindSave:
		if m.snap.Editing {
			// Save failed; the form keeps what was typed.
			return
		}
		m.mode = modeList
	}
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "h", "?":
		m.mode = modeHelp
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "r", "f5":
		return m, m.dispatch(controller.Event{Kind: controller.KindRefresh})
	case "0", "1", "2", "3":
		f := todo.Filters()[int(msg.String()[0]-'0')]
		m.cursor = 0
		return m, m.dispatch(controller.Event{Kind: controller.KindFilter, Filter: f})
	case "a":
		m.form = newAddForm()
		m.mode = modeForm
	case "e":
		if t, ok := m.selected(); ok {
			return m, m.dispatch(controller.Event{Kind: controller.KindEdit, ID: t.ID})
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			return m, m.dispatch(controller.Event{Kind: controller.KindToggle, ID: t.ID})
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.dispatch(controller.Event{Kind: controller.KindDelete, ID: t.ID})
		}
	case "c", "/":
		m.openInput(modeChat, "Chat> ")
	case "s":
		m.openInput(modeSuggest, "Goal> ")
	case "i":
		return m, m.dispatch(controller.Event{Kind: controller.KindInsights})
	case "esc":
		return m, m.dispatch(controller.Event{Kind: controller.KindDismiss})
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		if m.form.editing {
			return m, m.dispatch(controller.Event{Kind: controller.KindCancelEdit})
		}
		return m, nil
	case "enter", "ctrl+s":
		ev := m.form.event()
		if !m.form.editing {
			m.mode = modeList
		}
		return m, m.dispatch(ev)
	case "tab", "down":
		m.form.next()
		return m, nil
	case "shift+tab", "up":
		m.form.prev()
		return m, nil
	}
	return m, m.form.handle(msg)
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case "enter":
		text := m.input.Value()
		m.input.Reset()
		if m.mode == modeSuggest {
			m.input.Blur()
			m.mode = modeList
			return m, m.dispatch(controller.Event{Kind: controller.KindSuggest, Text: text})
		}
		return m, m.dispatch(controller.Event{Kind: controller.KindChat, Text: text})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) openInput(md mode, prompt string) {
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Focus()
	m.mode = md
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
	default:
		return m, nil
	}
	if m.pending != nil {
		m.pending.reply <- answer
		m.pending = nil
	}
	m.mode = modeList
	return m, waitForConfirm(m.ctx, m.confirm)
}

// pull refreshes the parts of the state that can be read while a handler
// is running.
func (m *tuiModel) pull() {
	m.chat = m.ctrl.Chat().Messages()
	notes := m.ctrl.Notifier()
	m.notes = notes.Active(notes.Now())
}

func (m *tuiModel) selected() (todo.Task, bool) {
	items := m.snap.View.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return todo.Task{}, false
	}
	return items[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	if n := len(m.snap.View.Items); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
