package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trainbook/internal/domain"
)

// Event is one booking lifecycle change, as pushed to feed subscribers.
type Event struct {
	Type      string          `json:"type"`
	Booking   *domain.Booking `json:"booking,omitempty"`
	BookingID int64           `json:"booking_id,omitempty"`
	UserID    int64           `json:"user_id,omitempty"`
	At        time.Time       `json:"at"`
}

const (
	EventCreated   = "booking_created"
	EventCancelled = "booking_cancelled"
	EventEvicted   = "booking_evicted"
)

// subscriber wraps a connection with its own write lock: gorilla allows at
// most one concurrent writer per connection, and broadcasts come straight
// from concurrent booking requests.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(e)
}

// Hub fans booking events out to connected websocket clients. Delivery is
// best-effort: a client whose write fails is dropped, and the booking path
// never waits on subscribers.
type Hub struct {
	subscribers map[*websocket.Conn]*subscriber
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*websocket.Conn]*subscriber),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.subscribers[conn] = &subscriber{conn: conn}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.subscribers[conn]; ok {
		_ = conn.Close()
		delete(h.subscribers, conn)
	}
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(e Event) {
	h.mutex.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mutex.RUnlock()

	for _, s := range subs {
		if err := s.send(e); err != nil {
			h.Unregister(s.conn)
		}
	}
}

// BookingCreated implements the booking module's EventSink.
func (h *Hub) BookingCreated(b domain.Booking) {
	h.broadcast(Event{Type: EventCreated, Booking: &b, At: time.Now()})
}

func (h *Hub) BookingCancelled(id, userID int64) {
	h.broadcast(Event{Type: EventCancelled, BookingID: id, UserID: userID, At: time.Now()})
}

func (h *Hub) BookingsEvicted(bs []domain.Booking) {
	for _, b := range bs {
		b := b
		h.broadcast(Event{Type: EventEvicted, Booking: &b, BookingID: b.ID, UserID: b.UserID, At: time.Now()})
	}
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.subscribers {
		_ = conn.Close()
		delete(h.subscribers, conn)
	}
}
