package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewRunLogger(t *testing.T) {
	t.Run("creates nested dir and log file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")

		logger, err := NewRunLogger(dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
		if filepath.Dir(logger.LogPath) != logger.Dir {
			t.Errorf("LogPath %q not in Dir %q", logger.LogPath, logger.Dir)
		}
		if want := logger.RunID + ".log"; filepath.Base(logger.LogPath) != want {
			t.Errorf("LogPath base: got %q, want %q", filepath.Base(logger.LogPath), want)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("")
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("writer writes to file", func(t *testing.T) {
		logger, err := NewRunLogger(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := logger.Writer().Write([]byte("hello\n")); err != nil {
			t.Fatal(err)
		}
		if err := logger.Close(); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(logger.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "hello\n" {
			t.Errorf("got %q", data)
		}
	})

	t.Run("close on nil is safe", func(t *testing.T) {
		var logger *RunLogger
		if err := logger.Close(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestRunID(t *testing.T) {
	id := runID()
	if !regexp.MustCompile(`^\d{8}-\d{6}-\d+$`).MatchString(id) {
		t.Errorf("runID %q does not match <date>-<time>-<pid>", id)
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("picks newest log by mtime", func(t *testing.T) {
		logDir := t.TempDir()
		base := time.Now().Add(-time.Hour)
		for i, name := range []string{"20240101-120000-100.log", "20240101-120001-101.log", "20240101-120002-102.log"} {
			path := filepath.Join(logDir, name)
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
			mt := base.Add(time.Duration(i) * time.Minute)
			if err := os.Chtimes(path, mt, mt); err != nil {
				t.Fatal(err)
			}
		}

		latest, err := FindLatestLog(logDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(latest) != "20240101-120002-102.log" {
			t.Errorf("latest: got %q", latest)
		}
	})

	t.Run("ignores other files and directories", func(t *testing.T) {
		logDir := t.TempDir()
		os.WriteFile(filepath.Join(logDir, "readme.txt"), []byte("r"), 0o644)
		os.Mkdir(filepath.Join(logDir, "old.log"), 0o755)

		latest, err := FindLatestLog(logDir)
		if err != nil {
			t.Fatal(err)
		}
		if latest != "" {
			t.Errorf("expected no log, got %q", latest)
		}
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		latest, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil || latest != "" {
			t.Errorf("got (%q, %v), want empty and nil", latest, err)
		}
	})
}

func TestTailLog(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		content string
		n       int
		want    string
	}{
		{"whole file", "a\nb\nc\n", 0, "a\nb\nc\n"},
		{"last two", "line1\nline2\nline3\nline4\nline5\n", 2, "line4\nline5\n"},
		{"no trailing newline", "a\nb\nc", 1, "c"},
		{"more than available", "a\nb\n", 10, "a\nb\n"},
		{"empty file", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, write(t, tt.content), tt.n, false); err != nil {
				t.Fatalf("TailLog: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}

	t.Run("large file", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 2000; i++ {
			b.WriteString("0123456789 line\n")
		}
		b.WriteString("final\n")
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, write(t, b.String()), 2, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "0123456789 line\nfinal\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, "/nonexistent/file.log", 0, false); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("follow picks up appended data", func(t *testing.T) {
		path := write(t, "initial\n")
		ctx, cancel := context.WithCancel(context.Background())
		out := &syncBuffer{}
		done := make(chan error, 1)
		go func() { done <- TailLog(ctx, out, path, 0, true) }()

		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		f.WriteString("appended line\n")
		f.Close()

		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(out.String(), "appended") && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("TailLog: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "initial") || !strings.Contains(got, "appended line") {
			t.Errorf("follow output: %q", got)
		}
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	for in, want := range map[string]log.Formatter{
		"":       log.TextFormatter,
		"text":   log.TextFormatter,
		"json":   log.JSONFormatter,
		"logfmt": log.LogfmtFormatter,
	} {
		got, err := ParseFormatter(in)
		if err != nil || got != want {
			t.Errorf("ParseFormatter(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormatter("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("request", "op", "list_tasks", "status", 200)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "request" || entry["op"] != "list_tasks" {
		t.Errorf("entry: %v", entry)
	}

	if _, err := NewLogger(&buf, Options{Level: "loud"}); err == nil {
		t.Error("expected error for bad level")
	}
}
