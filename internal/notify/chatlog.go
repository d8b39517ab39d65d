package notify

import "sync"

// Sender labels used in the transcript.
const (
	SenderUser      = "You"
	SenderAssistant = "AI"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Sender    string
	Text      string
	Assistant bool
	// Pending marks the in-flight placeholder shown while a request runs.
	Pending bool
}

// ChatLog is the append-only chat transcript. Finalized entries are never
// edited or removed; only the single pending placeholder can be.
type ChatLog struct {
	mu       sync.Mutex
	messages []ChatMessage
}

// NewChatLog returns an empty transcript.
func NewChatLog() *ChatLog {
	return &ChatLog{}
}

// Append adds a finalized entry.
func (l *ChatLog) Append(sender, text string, assistant bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, ChatMessage{Sender: sender, Text: text, Assistant: assistant})
}

// BeginPending appends an assistant placeholder. An existing placeholder is
// replaced so at most one exists.
func (l *ChatLog) BeginPending(sender, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removePendingLocked()
	l.messages = append(l.messages, ChatMessage{Sender: sender, Text: text, Assistant: true, Pending: true})
}

// EndPending removes the placeholder and reports whether one existed.
func (l *ChatLog) EndPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removePendingLocked()
}

// HasPending reports whether a placeholder is showing.
func (l *ChatLog) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Pending {
			return true
		}
	}
	return false
}

// Messages returns a copy of the transcript.
func (l *ChatLog) Messages() []ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of entries, the placeholder included.
func (l *ChatLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

func (l *ChatLog) removePendingLocked() bool {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Pending {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return true
		}
	}
	return false
}
