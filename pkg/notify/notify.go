package notify

import (
	"log"
	"sync"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a transient message surfaced to the user.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier surfaces notifications. Implementations must not block for long;
// callers fire and forget.
type Notifier interface {
	Notify(n Notification)
}

// Info builds an info notification.
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityInfo}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityError}
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note Notification) {
	n.logger.Printf("[%s] %s: %s", note.Severity, note.Title, note.Description)
}

// Queue buffers notifications until they are drained. The TUI drains it on
// every progress tick.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
}

// Drain returns and clears the undelivered notifications, in call order.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}
