package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber     string               `json:"orderNumber" gorm:"uniqueIndex;not null"`
	CustomerID      uint                 `json:"customerId" gorm:"not null;index"`
	Customer        User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	PromotionID     *uint                `json:"promotionId"`
	Promotion       *Promotion           `json:"promotion,omitempty" gorm:"foreignKey:PromotionID"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	Subtotal        float64              `json:"subtotal" gorm:"not null"`
	DiscountAmount  float64              `json:"discountAmount"`
	TotalAmount     float64              `json:"totalAmount" gorm:"not null"`
	DeliveryAddress string               `json:"deliveryAddress" gorm:"not null"`
	CustomerNotes   string               `json:"customerNotes"`
	StaffNotes      string               `json:"staffNotes"`
	Items           []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory   []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// OrderItem is a frozen copy of a catalog product at purchase time.
// Later catalog changes never alter a placed order.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"orderId" gorm:"not null;index"`
	ProductID uint    `json:"productId" gorm:"not null"`
	Name      string  `json:"name"`                     // snapshot name
	Price     float64 `json:"price" gorm:"not null"`    // snapshot unit price
	Quantity  int     `json:"quantity" gorm:"not null"`
}

// OrderStatusHistory records every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"orderId" gorm:"not null;index"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint        `json:"changedBy"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}
