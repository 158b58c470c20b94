package concurrent

import (
	"sync"
	"sync/atomic"
	"time"

	"machflow/internal/domain"
	"machflow/pkg/logger"
)

type EventType string

const (
	EventRefresh      EventType = "refresh"
	EventNotification EventType = "notification"
)

// Event is what view subscribers receive instead of direct re-render calls:
// either a full-refresh signal or a user-visible notification.
type Event struct {
	Type         EventType            `json:"type"`
	PendingCount int                  `json:"pendingCount"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// Dispatcher fans events out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event and the drop is counted.
// Renders are idempotent against the current snapshot, so a missed refresh is
// caught by the next one.
type Dispatcher struct {
	mu          sync.Mutex
	subscribers []chan Event
	recent      []domain.Notification
	ttl         time.Duration
	bufferSize  int
	dropped     int64
	closed      bool
	logger      logger.Logger
}

func NewDispatcher(bufferSize int, notificationTTL time.Duration, logger logger.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Dispatcher{
		ttl:        notificationTTL,
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Subscribe registers a new listener. The channel is closed by Close.
func (d *Dispatcher) Subscribe() <-chan Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan Event, d.bufferSize)
	if d.closed {
		close(ch)
		return ch
	}
	d.subscribers = append(d.subscribers, ch)
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (d *Dispatcher) Publish(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	for _, ch := range d.subscribers {
		select {
		case ch <- event:
		default:
			atomic.AddInt64(&d.dropped, 1)
			d.logger.Warn("Abone kuyruğu dolu, olay atlandı", map[string]interface{}{
				"type": event.Type,
			})
		}
	}
}

// Notify records a user-visible notification and publishes it.
func (d *Dispatcher) Notify(title, message, notifType string) {
	notification := domain.Notification{
		Title:     title,
		Message:   message,
		Type:      notifType,
		CreatedAt: time.Now(),
	}

	d.mu.Lock()
	d.pruneLocked(time.Now())
	d.recent = append(d.recent, notification)
	d.mu.Unlock()

	d.Publish(Event{Type: EventNotification, Notification: &notification})
}

// Recent returns the notifications still within their toast lifetime.
func (d *Dispatcher) Recent() []domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pruneLocked(time.Now())
	out := make([]domain.Notification, len(d.recent))
	copy(out, d.recent)
	return out
}

func (d *Dispatcher) pruneLocked(now time.Time) {
	if d.ttl <= 0 {
		return
	}

	kept := d.recent[:0]
	for _, n := range d.recent {
		if now.Sub(n.CreatedAt) < d.ttl {
			kept = append(kept, n)
		}
	}
	d.recent = kept
}

func (d *Dispatcher) Dropped() int64 {
	return atomic.LoadInt64(&d.dropped)
}

func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true

	for _, ch := range d.subscribers {
		close(ch)
	}
	d.subscribers = nil
}
