// ABOUTME: User-facing notification channel for transient messages
// ABOUTME: Decouples the transport layer from whatever surface shows errors

package notify

import (
	"log/slog"
	"sync"
)

// Level classifies a notification for display purposes.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives transient user-facing messages. Implementations must be
// safe for concurrent use; notifications can arrive from any in-flight call.
type Notifier interface {
	Notify(level Level, message string)
}

// Log is a Notifier that writes notifications to the default slog logger.
// It is the fallback surface for non-interactive commands.
type Log struct{}

func (Log) Notify(level Level, message string) {
	switch level {
	case LevelError:
		slog.Error(message)
	case LevelWarn:
		slog.Warn(message)
	default:
		slog.Info(message)
	}
}

// Message is a recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder is a Notifier that keeps messages in memory. The TUI drains it
// into the status line; tests assert against it.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: message})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Drain returns recorded messages and resets the recorder.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}
