package services

import (
	"sync"
	"time"
)

const defaultNotifierCapacity = 64

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is a user-visible, transient message emitted by the
// mutation facade and the reconciliation engine.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier is a bounded in-process notification buffer. Emitting never
// blocks: when full, the oldest entry is dropped. UI consumers drain it
// on their own schedule.
type Notifier struct {
	mu       sync.Mutex
	pending  []Notification
	capacity int
}

func NewNotifier(capacity int) *Notifier {
	if capacity <= 0 {
		capacity = defaultNotifierCapacity
	}
	return &Notifier{capacity: capacity}
}

// Success queues a success notification.
func (n *Notifier) Success(message string) {
	n.push(Notification{Level: NotifySuccess, Message: message, CreatedAt: time.Now()})
}

// Error queues a failure notification.
func (n *Notifier) Error(message string) {
	n.push(Notification{Level: NotifyError, Message: message, CreatedAt: time.Now()})
}

// Drain returns all pending notifications and clears the buffer.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	pending := n.pending
	n.pending = nil
	return pending
}

// Pending reports the number of queued notifications.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

func (n *Notifier) push(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.pending) >= n.capacity {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, notification)
}
