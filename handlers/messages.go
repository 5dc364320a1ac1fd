package handlers

import (
	"net/http"
	"strconv"

	"pizza-api/config"
	"pizza-api/middleware"
	"pizza-api/models"
	"pizza-api/realtime"

	"github.com/gin-gonic/gin"
)

// Messages handles order-scoped chat between customers and staff. New
// messages are broadcast to the order's realtime room.
type Messages struct {
	hub *realtime.Hub
}

func NewMessages(hub *realtime.Hub) *Messages {
	return &Messages{hub: hub}
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return uint(id), true
}

// ListForOrder returns the chat history for an order, oldest first.
func (h *Messages) ListForOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if user.Role == models.RoleCustomer && order.CustomerID != user.ID {
		respondError(c, http.StatusForbidden, "Not authorized to view these messages")
		return
	}

	var messages []models.Message
	config.DB.Preload("Sender").
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&messages)
	respondData(c, http.StatusOK, messages)
}

type SendMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	ReceiverID uint   `json:"receiverId" binding:"required"`
}

// Send appends a message to an order's chat and notifies the order room.
func (h *Messages) Send(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if user.Role == models.RoleCustomer && order.CustomerID != user.ID {
		respondError(c, http.StatusForbidden, "Not authorized to message on this order")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Message content and receiver are required.")
		return
	}

	message := models.Message{
		OrderID:    orderID,
		SenderID:   user.ID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	config.DB.Preload("Sender").First(&message, message.ID)
	h.hub.NotifyNewMessage(orderID, message)

	respondData(c, http.StatusCreated, message)
}
