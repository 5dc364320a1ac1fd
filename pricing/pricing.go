// Package pricing computes the authoritative total for a cart. Client
// submitted prices are never trusted: every line is re-priced from the
// catalog, and a promotion discount is applied only when the code is
// currently active.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"pizza-api/models"
)

var (
	// ErrProductNotFound aborts the whole computation when any requested
	// product id is missing from the catalog. Partial orders are never priced.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductUnavailable is returned when a referenced product exists but
	// is not currently orderable.
	ErrProductUnavailable = errors.New("product not available")

	// ErrEmptyCart is returned for carts with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// CartItem is one (product, quantity) pair from the client. Any price the
// client sends alongside is ignored.
type CartItem struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// Quote is the result of pricing a cart: frozen per-item snapshots plus
// the computed totals.
type Quote struct {
	Items          []models.OrderItem
	Subtotal       float64
	DiscountAmount float64
	Total          float64
	PromotionID    *uint
}

// Compute prices the cart against the given catalog slice and optional
// promotion. A nil or inactive promotion applies no discount. The returned
// total is never negative.
func Compute(catalog []models.Product, items []CartItem, promo *models.Promotion, now time.Time) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	byID := make(map[uint]*models.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	quote := &Quote{Items: make([]models.OrderItem, 0, len(items))}
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID)
		}
		if !product.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %d for product %d", item.Quantity, item.ProductID)
		}
		quote.Subtotal += product.Price * float64(item.Quantity)
		quote.Items = append(quote.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	if promo != nil && promo.CurrentlyActive(now) {
		quote.DiscountAmount = Discount(quote.Subtotal, promo)
		id := promo.ID
		quote.PromotionID = &id
	}

	quote.Total = quote.Subtotal - quote.DiscountAmount
	if quote.Total < 0 {
		quote.Total = 0
	}
	return quote, nil
}

// Discount returns the discount a promotion yields on a subtotal.
// Percentage rates are clamped to [0, 100].
func Discount(subtotal float64, promo *models.Promotion) float64 {
	switch promo.DiscountType {
	case models.DiscountPercentage:
		rate := promo.Amount
		if rate < 0 {
			rate = 0
		}
		if rate > 100 {
			rate = 100
		}
		return subtotal * rate / 100
	case models.DiscountFixed:
		if promo.Amount < 0 {
			return 0
		}
		return promo.Amount
	default:
		return 0
	}
}
