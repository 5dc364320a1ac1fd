package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pizza-api/config"
	"pizza-api/mailer"
	"pizza-api/middleware"
	"pizza-api/models"
	"pizza-api/pricing"
	"pizza-api/realtime"
	"pizza-api/statemachine"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Orders handles the order lifecycle: atomic creation with authoritative
// pricing, role-gated status transitions, and the post-commit notification
// fan-out to the staff room and the order's own room.
type Orders struct {
	hub  *realtime.Hub
	mail *mailer.Mailer
}

func NewOrders(hub *realtime.Hub, mail *mailer.Mailer) *Orders {
	return &Orders{hub: hub, mail: mail}
}

type CreateOrderRequest struct {
	Items           []pricing.CartItem `json:"items" binding:"required,min=1,dive"`
	PromotionCode   string             `json:"promotionCode"`
	DeliveryAddress string             `json:"deliveryAddress" binding:"required"`
	CustomerNotes   string             `json:"customerNotes" binding:"max=500"`
}

// Create places a new order. Catalog lookup, pricing, and the order insert
// run in one transaction: any failure rolls everything back and no order
// row survives. Prices always come from the catalog, never the client.
func (h *Orders) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Your cart is empty or malformed.")
		return
	}

	// Concurrent creations in the same millisecond can race to the same
	// order number; the unique index catches it and the whole transaction
	// is retried with a fresh number.
	var order models.Order
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		order = models.Order{}
		err = h.createTx(&order, user, &req)
		if !isDuplicateOrderNumber(err) {
			break
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "One or more products in your cart could not be found.")
		case errors.Is(err, pricing.ErrProductUnavailable), errors.Is(err, pricing.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			zap.S().Errorw("order creation failed", "customer", user.ID, "error", err)
			respondError(c, http.StatusInternalServerError, "Failed to create order.")
		}
		return
	}

	// Reload with associations for the response; the committed order is
	// already complete in memory if this read fails.
	var full models.Order
	if err := config.DB.Preload("Items").Preload("Promotion").First(&full, order.ID).Error; err != nil {
		zap.S().Warnw("failed to reload order after commit", "order", order.OrderNumber, "error", err)
	} else {
		order = full
	}

	// The order is durably committed; notifications are fire-and-forget
	// and never affect the response.
	h.hub.NotifyNewOrder(order)
	go func(u models.User, o models.Order) {
		if err := h.mail.SendOrderConfirmation(&u, &o); err != nil {
			zap.S().Errorw("failed to send order confirmation email", "order", o.OrderNumber, "error", err)
		}
	}(*user, order)

	respondData(c, http.StatusCreated, order)
}

// isDuplicateOrderNumber reports whether an insert failed on the order
// number's unique index.
func isDuplicateOrderNumber(err error) bool {
	return err != nil && strings.Contains(err.Error(), "orders.order_number")
}

// createTx runs the order insert transaction: catalog lookup, pricing,
// number generation, and the initial history row, all or nothing.
func (h *Orders) createTx(order *models.Order, user *models.User, req *CreateOrderRequest) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}

		var promo *models.Promotion
		if req.PromotionCode != "" {
			var p models.Promotion
			if err := tx.Where("code = ?", req.PromotionCode).First(&p).Error; err == nil {
				promo = &p
			}
		}

		quote, err := pricing.Compute(products, req.Items, promo, time.Now())
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
			return err
		}

		*order = models.Order{
			OrderNumber:     fmt.Sprintf("ORD%d%d", time.Now().UnixMilli(), count+1),
			CustomerID:      user.ID,
			PromotionID:     quote.PromotionID,
			Status:          models.StatusPending,
			Subtotal:        quote.Subtotal,
			DiscountAmount:  quote.DiscountAmount,
			TotalAmount:     quote.Total,
			DeliveryAddress: req.DeliveryAddress,
			CustomerNotes:   req.CustomerNotes,
			Items:           quote.Items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: user.ID,
			Note:      "Order placed by customer",
		}
		return tx.Create(&history).Error
	})
}

// MyOrders returns the logged-in customer's orders, newest first.
func (h *Orders) MyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Promotion").
		Where("customer_id = ?", user.ID).
		Order("created_at desc").
		Find(&orders)
	respondData(c, http.StatusOK, orders)
}

// Get returns a single order. Customers can only see their own.
func (h *Orders) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var order models.Order
	if err := config.DB.Preload("Items").Preload("Customer").Preload("Promotion").Preload("StatusHistory").
		First(&order, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if user.Role == models.RoleCustomer && order.CustomerID != user.ID {
		respondError(c, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	respondData(c, http.StatusOK, order)
}

// List returns all orders for staff/admin, filterable by status and customer.
func (h *Orders) List(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items").Preload("Customer").Preload("Promotion")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	query.Order("created_at desc").Find(&orders)
	respondData(c, http.StatusOK, orders)
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateStatus moves an order through its lifecycle (staff/admin). The
// state machine rejects transitions out of terminal states.
func (h *Orders) UpdateStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, string(user.Role)); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.transition(c, &order, req.Status, user.ID, req.Note)
}

// Cancel lets a customer cancel their own pending order.
func (h *Orders) Cancel(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.CustomerID != user.ID {
		respondError(c, http.StatusForbidden, "Not authorized to cancel this order")
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, statemachine.ActorCustomer); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Order cannot be cancelled. Status: %s", order.Status))
		return
	}

	h.transition(c, &order, models.StatusCancelled, user.ID, "Order cancelled by customer")
}

// transition applies a validated status change, records history, notifies
// the order room, and responds with the updated order.
func (h *Orders) transition(c *gin.Context, order *models.Order, to models.OrderStatus, changedBy uint, note string) {
	prev := order.Status
	if err := config.DB.Model(order).Update("status", to).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update order status.")
		return
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prev,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	}
	config.DB.Create(&history)

	h.hub.NotifyOrderStatus(order.ID, gin.H{
		"orderId":        order.ID,
		"orderNumber":    order.OrderNumber,
		"previousStatus": prev,
		"status":         to,
	})

	respondData(c, http.StatusOK, order)
}

// CanAccessOrder gates subscriptions to an order's realtime room: staff and
// admin always may, a customer only for their own orders.
func CanAccessOrder(user *models.User, orderID uint) bool {
	if user.IsStaff() {
		return true
	}
	var order models.Order
	if err := config.DB.Select("id", "customer_id").First(&order, orderID).Error; err != nil {
		return false
	}
	return order.CustomerID == user.ID
}
