package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoctl/internal/api"
	"github.com/nibzard/todoctl/internal/config"
	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/logging"
	"github.com/nibzard/todoctl/internal/notify"
	"github.com/nibzard/todoctl/internal/telemetry"
	"github.com/nibzard/todoctl/internal/todo"
)

const shutdownTimeout = 5 * time.Second

// session is everything one command needs to talk to the backend.
type session struct {
	cfg      *config.Config
	runLog   *logging.RunLogger
	logger   *log.Logger
	client   *api.Client
	ctrl     *controller.Controller
	notes    *notify.Center
	chat     *notify.ChatLog
	shutdown telemetry.ShutdownFunc
}

// openSession sets up the run log, telemetry, the backend client and a
// controller. Logs go to a file because the TUI owns the terminal.
func openSession(ctx context.Context, cfg *config.Config, confirm controller.Confirmer) (*session, error) {
	runLog, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("initializing log: %w", err)
	}
	s := &session{cfg: cfg, runLog: runLog}

	s.logger, err = logging.NewLogger(runLog.Writer(), logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
		Prefix:     "todoctl",
	})
	if err != nil {
		_ = runLog.Close()
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	s.shutdown, err = telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Writer:         runLog.Writer(),
	})
	if err != nil {
		_ = runLog.Close()
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	s.client, err = api.New(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(s.logger.WithPrefix("api")))
	if err != nil {
		s.Close()
		return nil, err
	}

	s.notes = notify.NewCenter(notify.WithTTL(cfg.NotificationTTL()))
	s.chat = notify.NewChatLog()
	delay := cfg.ActionReloadDelay()
	if delay == 0 {
		delay = -1
	}
	s.ctrl, err = controller.New(controller.Deps{
		Client:    s.client,
		Confirmer: confirm,
		Notifier:  s.notes,
		Chat:      s.chat,
		Logger:    s.logger.WithPrefix("controller"),
	}, controller.Options{
		ActionDelay:   delay,
		PartialToggle: cfg.PartialToggle,
		Filter:        todo.Filter(cfg.DefaultFilter),
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	s.logger.Info("session started", "run_id", runLog.RunID, "base_url", s.client.BaseURL(), "version", Version)
	return s, nil
}

// Close flushes telemetry and closes the run log.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			s.logger.Warn("telemetry shutdown", "err", err)
		}
	}
	_ = s.runLog.Close()
}

// load fetches the task list into the controller's cache.
func (s *session) load(ctx context.Context) error {
	if err := s.ctrl.Dispatch(ctx, controller.Event{Kind: controller.KindReload}); err != nil {
		return err
	}
	return s.lastError()
}

// dispatch runs ev and reports notifications pushed since since.
func (s *session) dispatch(ctx context.Context, w io.Writer, ev controller.Event) error {
	since := s.lastNoteID()
	if err := s.ctrl.Dispatch(ctx, ev); err != nil {
		return err
	}
	return s.report(w, since)
}

// report prints the notifications newer than since. It fails when the
// newest one is an error so scripts can detect it.
func (s *session) report(w io.Writer, since int64) error {
	last, ok := s.notes.Last()
	failed := ok && last.ID > since && last.Severity == notify.SeverityError
	for _, n := range s.notes.Active(s.notes.Now()) {
		if n.ID <= since || (failed && n.ID == last.ID) {
			continue
		}
		fmt.Fprintln(w, n.Message)
	}
	if failed {
		return errors.New(last.Message)
	}
	return nil
}

func (s *session) lastError() error {
	if last, ok := s.notes.Last(); ok && last.Severity == notify.SeverityError {
		return errors.New(last.Message)
	}
	return nil
}

func (s *session) lastNoteID() int64 {
	if last, ok := s.notes.Last(); ok {
		return last.ID
	}
	return 0
}

// find returns a cached task or an error naming the id.
func (s *session) find(id string) (todo.Task, error) {
	for _, t := range s.ctrl.Snapshot().Tasks {
		if string(t.ID) == id {
			return t, nil
		}
	}
	return todo.Task{}, fmt.Errorf("task %s not found", id)
}
