package models

import "time"

// Message is a unit of order-scoped chat between a customer and staff.
// Messages are append-only, ordered by creation time.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"orderId" gorm:"not null;index"`
	Order      Order     `json:"-" gorm:"foreignKey:OrderID"`
	SenderID   uint      `json:"senderId" gorm:"not null"`
	Sender     User      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint      `json:"receiverId" gorm:"not null"`
	Receiver   User      `json:"-" gorm:"foreignKey:ReceiverID"`
	Content    string    `json:"content" gorm:"not null"`
	IsRead     bool      `json:"isRead" gorm:"default:false"`
	CreatedAt  time.Time `json:"createdAt"`
}
