package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"pizza-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 32
)

// Client is one authenticated websocket session.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	role   models.UserRole
	rooms  map[string]struct{}
}

// clientRequest is what connected clients may send: a room join.
type clientRequest struct {
	Event   string `json:"event"`
	OrderID uint   `json:"orderId"`
}

// OrderAccessFunc decides whether a user may subscribe to an order's room.
type OrderAccessFunc func(user *models.User, orderID uint) bool

// ServeWS upgrades an authenticated request to a websocket session. The
// auth middleware must have attached the user to the context beforehand.
func ServeWS(hub *Hub, canJoinOrder OrderAccessFunc) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Cross-origin policy is enforced by the CORS middleware; the
		// upgrade itself is authenticated by token.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return func(c *gin.Context) {
		val, exists := c.Get("user")
		if !exists {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		user := val.(*models.User)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.S().Warnw("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendBuffer),
			userID: user.ID,
			role:   user.Role,
			rooms:  make(map[string]struct{}),
		}
		hub.register(client)

		go client.writePump()
		client.readPump(user, canJoinOrder)
	}
}

func (c *Client) readPump(user *models.User, canJoinOrder OrderAccessFunc) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req clientRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}

		switch req.Event {
		case "join_staff_room":
			if c.role == models.RoleStaff || c.role == models.RoleAdmin {
				c.hub.Join(c, StaffRoom)
			}
		case "join_order_room":
			if req.OrderID == 0 {
				continue
			}
			if canJoinOrder == nil || canJoinOrder(user, req.OrderID) {
				c.hub.Join(c, OrderRoom(req.OrderID))
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
