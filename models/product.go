package models

import "time"

type Product struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Price       float64    `json:"price" gorm:"not null"`
	Category    string     `json:"category" gorm:"index"`
	Image       string     `json:"image"`
	Ingredients StringList `json:"ingredients" gorm:"type:text"`
	Sizes       string     `json:"sizes"` // JSON-encoded size/price variants, opaque to the server
	DietaryTags StringList `json:"dietaryTags" gorm:"type:text"`
	IsAvailable bool       `json:"isAvailable" gorm:"default:true;index"`
	IsPopular   bool       `json:"isPopular" gorm:"default:false"`
	SortOrder   int        `json:"sortOrder" gorm:"default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Category groups products for the public menu. Name is the slug used
// in product records; DisplayName is what the storefront shows.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"displayName" gorm:"not null"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
