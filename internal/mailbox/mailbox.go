package mailbox

import (
	"sync"
	"time"

	"github.com/clck-dev/clck/internal/model"
)

// Mailbox holds per-owner FIFO queues of system notifications.
// Messages accumulate until the owner drains them; queues are unbounded.
type Mailbox struct {
	mu     sync.Mutex
	queues map[model.Owner][]model.Notification
	now    func() time.Time
}

// New returns an empty mailbox.
func New() *Mailbox {
	return &Mailbox{
		queues: make(map[model.Owner][]model.Notification),
		now:    time.Now,
	}
}

// Notify appends a timestamped message to the owner's queue, creating
// the queue if this is the owner's first notification.
func (m *Mailbox) Notify(owner model.Owner, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queues[owner] = append(m.queues[owner], model.Notification{
		CreatedAt: m.now(),
		Message:   message,
	})
}

// Drain returns all queued notifications for the owner in insertion
// order and empties the queue. It returns an empty slice when the
// owner has none.
func (m *Mailbox) Drain(owner model.Owner) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.queues[owner]
	if len(queue) == 0 {
		return nil
	}
	delete(m.queues, owner)
	return queue
}
