// Package realtime provides the broadcast channel for order and chat
// notifications. The Hub is constructed at process start, handed to the
// components that publish events, and torn down at shutdown. Delivery is
// at-most-once: if nobody is subscribed to a room, the event is dropped.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// StaffRoom is the broadcast channel every connected staff/admin session
// joins to receive new-order notifications.
const StaffRoom = "staff_room"

// OrderRoom returns the name of the per-order channel used for chat and
// status updates.
func OrderRoom(orderID uint) string {
	return fmt.Sprintf("order_%d", orderID)
}

// Event is the wire shape of every server-to-client message.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected clients and their room memberships.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.removeFromRoom(c, room)
	}
	close(c.send)
}

// Join subscribes a client to a room.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if _, ok := h.clients[c]; !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes a client from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, room)
	delete(c.rooms, room)
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize returns the number of clients subscribed to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Emit broadcasts an event to every client in a room. Sends are
// non-blocking: a client whose buffer is full misses the event rather
// than stalling the publisher.
func (h *Hub) Emit(room, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		zap.S().Errorw("failed to encode realtime event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			zap.S().Debugw("dropping realtime event for slow client", "event", event, "room", room)
		}
	}
}

// NotifyNewOrder pushes a freshly committed order to the staff room.
func (h *Hub) NotifyNewOrder(order interface{}) {
	h.Emit(StaffRoom, "new_order", order)
}

// NotifyNewMessage pushes a chat message to the order's room.
func (h *Hub) NotifyNewMessage(orderID uint, message interface{}) {
	h.Emit(OrderRoom(orderID), "new_message", message)
}

// NotifyOrderStatus pushes a status change to the order's room.
func (h *Hub) NotifyOrderStatus(orderID uint, update interface{}) {
	h.Emit(OrderRoom(orderID), "order_status", update)
}

// Close disconnects every client and rejects new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.rooms = make(map[string]map[*Client]struct{})
}
