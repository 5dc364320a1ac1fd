package realtime

import (
	"encoding/json"
	"testing"

	"pizza-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, role models.UserRole) *Client {
	c := &Client{
		hub:   h,
		send:  make(chan []byte, sendBuffer),
		role:  role,
		rooms: make(map[string]struct{}),
	}
	h.register(c)
	return c
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("expected an event, got none")
		return Event{}
	}
}

func TestEmitReachesRoomMembersOnly(t *testing.T) {
	h := NewHub()
	staff := newTestClient(h, models.RoleStaff)
	customer := newTestClient(h, models.RoleCustomer)

	h.Join(staff, StaffRoom)
	h.NotifyNewOrder(map[string]any{"orderNumber": "ORD1"})

	ev := receive(t, staff)
	assert.Equal(t, "new_order", ev.Event)
	assert.Empty(t, customer.send)
}

func TestEmitToEmptyRoomIsDropped(t *testing.T) {
	h := NewHub()
	// No subscribers: nothing queued, nothing persisted, no panic.
	h.NotifyNewMessage(42, map[string]any{"content": "hello"})
	assert.Equal(t, 0, h.RoomSize(OrderRoom(42)))
}

func TestOrderRoomScoping(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, models.RoleCustomer)
	b := newTestClient(h, models.RoleCustomer)
	h.Join(a, OrderRoom(1))
	h.Join(b, OrderRoom(2))

	h.NotifyNewMessage(1, map[string]any{"content": "hi"})

	ev := receive(t, a)
	assert.Equal(t, "new_message", ev.Event)
	assert.Empty(t, b.send)
}

func TestSlowClientMissesEventInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	slow := newTestClient(h, models.RoleStaff)
	h.Join(slow, StaffRoom)

	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("{}")
	}

	// Buffer is full; the send must not block the publisher.
	h.NotifyNewOrder(map[string]any{"orderNumber": "ORD2"})
	assert.Len(t, slow.send, sendBuffer)
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, models.RoleStaff)
	h.Join(c, StaffRoom)
	h.Join(c, OrderRoom(5))

	h.unregister(c)
	assert.Equal(t, 0, h.RoomSize(StaffRoom))
	assert.Equal(t, 0, h.RoomSize(OrderRoom(5)))

	// send channel is closed so the write pump can exit
	_, open := <-c.send
	assert.False(t, open)
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	h := NewHub()
	c1 := newTestClient(h, models.RoleStaff)
	c2 := newTestClient(h, models.RoleAdmin)
	h.Join(c1, StaffRoom)
	h.Join(c2, StaffRoom)

	h.Close()
	assert.Equal(t, 0, h.RoomSize(StaffRoom))
	_, open := <-c1.send
	assert.False(t, open)
	_, open = <-c2.send
	assert.False(t, open)

	// Registering after close immediately closes the new client.
	late := &Client{hub: h, send: make(chan []byte, 1), rooms: make(map[string]struct{})}
	h.register(late)
	_, open = <-late.send
	assert.False(t, open)
}
