// Package notify fans out "analysis updated" events to independent subscribers.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/logger"
)

// Event announces that a user's latest analysis was durably written.
type Event struct {
	ID     uuid.UUID       `json:"id"`
	UserID string          `json:"userId"`
	Result analysis.Result `json:"result"`
	At     time.Time       `json:"at"`
}

// Subscriber handles one event. Subscribers must tolerate receiving the same
// analysis more than once.
type Subscriber func(Event)

type subscription struct {
	id int
	fn Subscriber
}

// Hub delivers each published event to every subscriber in subscription order.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
	logger *zap.Logger
	now    func() time.Time
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		logger: logger.WithFields(log),
		now:    time.Now,
	}
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (h *Hub) Subscribe(fn Subscriber) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, sub := range h.subs {
				if sub.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish builds an event for userID and delivers it synchronously. A panicking
// subscriber is logged and does not stop delivery to the others.
func (h *Hub) Publish(userID string, result analysis.Result) Event {
	ev := Event{
		ID:     uuid.New(),
		UserID: userID,
		Result: result,
		At:     h.now().UTC(),
	}

	h.mu.RLock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, sub := range subs {
		h.deliver(sub, ev)
	}

	return ev
}

// Len reports the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) deliver(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("subscriber panicked",
				zap.Int("subscriber", sub.id),
				zap.String(logger.FieldEventID, ev.ID.String()),
				zap.Any("panic", r),
			)
		}
	}()
	sub.fn(ev)
}

// LogSubscriber records every event at info level.
func LogSubscriber(log *zap.Logger) Subscriber {
	log = logger.WithFields(log)
	return func(ev Event) {
		log.Info("analysis updated",
			zap.String(logger.FieldEventID, ev.ID.String()),
			zap.String(logger.FieldUserID, ev.UserID),
			zap.String(logger.FieldRole, ev.Result.TargetRole),
			zap.String(logger.FieldSource, string(ev.Result.Source)),
			zap.Float64("alignment_score", ev.Result.AlignmentScore),
		)
	}
}
