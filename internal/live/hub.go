// Package live fans out dorm rating updates to WebSocket subscribers.
package live

import (
	"sync"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const subscriberBuffer = 8

type Hub struct {
	mu   sync.RWMutex
	subs map[primitive.ObjectID]map[chan models.DormStats]struct{}
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[primitive.ObjectID]map[chan models.DormStats]struct{}),
		log:  log,
	}
}

// Subscribe registers interest in one dorm. The returned cancel func must be
// called once; it closes the channel.
func (h *Hub) Subscribe(dormID primitive.ObjectID) (<-chan models.DormStats, func()) {
	ch := make(chan models.DormStats, subscriberBuffer)

	h.mu.Lock()
	set, ok := h.subs[dormID]
	if !ok {
		set = make(map[chan models.DormStats]struct{})
		h.subs[dormID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, dormID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers stats to every subscriber of the dorm. Slow subscribers
// miss the update instead of blocking the caller.
func (h *Hub) Publish(stats models.DormStats) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[stats.DormID] {
		select {
		case ch <- stats:
		default:
			h.log.Debug("live subscriber lagging, update dropped",
				zap.String("dormID", stats.DormID.Hex()))
		}
	}
}

// subscribers returns how many listeners a dorm currently has.
func (h *Hub) subscribers(dormID primitive.ObjectID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[dormID])
}
