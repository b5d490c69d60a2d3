package actions

import (
	"fmt"
	"io"
	"sync"
)

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message shown to the user after an action.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// WriterNotifier prints notifications as single lines to w.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a WriterNotifier.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	mark := "✓"
	switch note.Level {
	case LevelError:
		mark = "✗"
	case LevelInfo:
		mark = "•"
	}
	fmt.Fprintf(n.w, "%s %s\n", mark, note.Message)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notifications returns a copy of what has been recorded.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}
