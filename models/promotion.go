package models

import "time"

// DiscountType distinguishes percentage promotions from flat-amount ones
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Promotion struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Code         string       `json:"code" gorm:"uniqueIndex;not null"`
	Description  string       `json:"description"`
	DiscountType DiscountType `json:"discountType" gorm:"not null"`
	Amount       float64      `json:"amount" gorm:"not null"`
	StartDate    *time.Time   `json:"startDate"`
	EndDate      *time.Time   `json:"endDate"`
	IsActive     bool         `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CurrentlyActive reports whether the promotion can be applied at time now:
// the active flag is set and now falls inside the optional date range.
func (p *Promotion) CurrentlyActive(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}
