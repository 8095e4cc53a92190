package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"trading-diary/internal/models"
)

// Subscription is a live feed of trade snapshots for one user. Each
// mutation to the user's trades delivers the full post-mutation list
// on Updates.
type Subscription struct {
	ID        string
	Updates   chan []models.Trade
	CreatedAt time.Time

	cancel    func()
	once      sync.Once
	closeOnce sync.Once
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

func (s *Subscription) closeUpdates() {
	s.closeOnce.Do(func() { close(s.Updates) })
}

// subscriptionHub fans trade snapshots out to per-user subscribers.
type subscriptionHub struct {
	mu          sync.RWMutex
	subscribers map[string][]*Subscription
	bufferSize  int
}

func newSubscriptionHub() *subscriptionHub {
	return &subscriptionHub{
		subscribers: make(map[string][]*Subscription),
		bufferSize:  8,
	}
}

func (h *subscriptionHub) subscribe(userID string) *Subscription {
	sub := &Subscription{
		ID:        uuid.NewString(),
		Updates:   make(chan []models.Trade, h.bufferSize),
		CreatedAt: time.Now(),
	}
	sub.cancel = func() { h.unsubscribe(userID, sub) }

	h.mu.Lock()
	h.subscribers[userID] = append(h.subscribers[userID], sub)
	h.mu.Unlock()

	return sub
}

func (h *subscriptionHub) unsubscribe(userID string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[userID]
	for i, s := range subs {
		if s == sub {
			h.subscribers[userID] = append(subs[:i], subs[i+1:]...)
			s.closeUpdates()
			break
		}
	}
	if len(h.subscribers[userID]) == 0 {
		delete(h.subscribers, userID)
	}
}

// broadcast delivers a snapshot to every subscriber of the user. A
// subscriber whose buffer is full has its oldest snapshot discarded so
// the latest state always lands.
func (h *subscriptionHub) broadcast(userID string, trades []models.Trade) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[userID] {
		snapshot := make([]models.Trade, len(trades))
		copy(snapshot, trades)

		select {
		case sub.Updates <- snapshot:
		default:
			select {
			case <-sub.Updates:
			default:
			}
			select {
			case sub.Updates <- snapshot:
			default:
			}
		}
	}
}

func (h *subscriptionHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, subs := range h.subscribers {
		for _, sub := range subs {
			sub.closeUpdates()
		}
		delete(h.subscribers, userID)
	}
}
