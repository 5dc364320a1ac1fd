package handlers

import (
	"net/http"
	"strconv"
	"time"

	"pizza-api/config"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// SalesPoint is one day of revenue in the sales report.
type SalesPoint struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// SalesAnalytics returns revenue and order counts grouped by day over the
// requested window (default 30 days). Cancelled orders are excluded.
func SalesAnalytics(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	var points []SalesPoint
	config.DB.Raw(`
		SELECT date(created_at) AS day,
		       COALESCE(SUM(total_amount), 0) AS revenue,
		       COUNT(*) AS orders
		FROM orders
		WHERE status != ? AND created_at >= ?
		GROUP BY day
		ORDER BY day ASC`,
		models.StatusCancelled, since,
	).Scan(&points)

	respondData(c, http.StatusOK, points)
}

// ProductSales is one product's row in the top-products report.
type ProductSales struct {
	ProductID     uint    `json:"productId"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// ProductAnalytics returns the best-selling products by quantity.
func ProductAnalytics(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var rows []ProductSales
	config.DB.Raw(`
		SELECT order_items.product_id AS product_id,
		       order_items.name AS name,
		       SUM(order_items.quantity) AS total_quantity,
		       SUM(order_items.price * order_items.quantity) AS total_revenue
		FROM order_items
		JOIN orders ON orders.id = order_items.order_id
		WHERE orders.status != ?
		GROUP BY order_items.product_id, order_items.name
		ORDER BY total_quantity DESC
		LIMIT ?`,
		models.StatusCancelled, limit,
	).Scan(&rows)

	respondData(c, http.StatusOK, rows)
}

// Overview returns the dashboard headline numbers.
func Overview(c *gin.Context) {
	var totalOrders, pendingOrders, customers int64
	var revenue float64

	config.DB.Model(&models.Order{}).Count(&totalOrders)
	config.DB.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&pendingOrders)
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&customers)
	config.DB.Model(&models.Order{}).
		Where("status != ?", models.StatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue)

	respondData(c, http.StatusOK, gin.H{
		"totalOrders":   totalOrders,
		"pendingOrders": pendingOrders,
		"customers":     customers,
		"totalRevenue":  revenue,
	})
}
