// Package notify holds the transient user-facing feedback: stacked toast
// notifications that expire, and the append-only assistant chat transcript.
package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a toast stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity parses a severity name.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return sev, nil
	}
	return "", fmt.Errorf("invalid severity %q", s)
}

// Notification is one toast.
type Notification struct {
	ID        int64
	Severity  Severity
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the toast should no longer be shown at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Center stacks notifications. It is safe for concurrent use.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nextID int64
	items  []Notification
	last   *Notification
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) CenterOption {
	return func(c *Center) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) CenterOption {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCenter returns an empty notification center.
func NewCenter(opts ...CenterOption) *Center {
	c := &Center{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push adds a notification. Multiple notifications stack without limit.
func (c *Center) Push(sev Severity, message string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	now := c.now()
	n := Notification{
		ID:        c.nextID,
		Severity:  sev,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.items = append(c.items, n)
	last := n
	c.last = &last
	return n
}

// Dismiss removes a notification before it expires.
func (c *Center) Dismiss(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll clears every notification.
func (c *Center) DismissAll() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Active prunes expired notifications and returns the rest, oldest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept
	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Last returns the most recently pushed notification, expired or not.
func (c *Center) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Notification{}, false
	}
	return *c.last, true
}

// Now returns the center's clock reading.
func (c *Center) Now() time.Time {
	return c.now()
}
