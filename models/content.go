package models

import "time"

// ContentType enumerates how a content block's payload should be rendered
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentHTML     ContentType = "html"
	ContentMarkdown ContentType = "markdown"
	ContentImageURL ContentType = "image_url"
	ContentJSON     ContentType = "json"
)

// ValidContentType reports whether t is a known content type.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentText, ContentHTML, ContentMarkdown, ContentImageURL, ContentJSON:
		return true
	}
	return false
}

// ContentBlock is an editable piece of storefront content keyed by slug.
type ContentBlock struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Slug          string      `json:"slug" gorm:"uniqueIndex;not null"`
	Title         string      `json:"title" gorm:"not null"`
	Type          ContentType `json:"type" gorm:"not null;default:'text'"`
	Content       string      `json:"content" gorm:"not null"`
	LastUpdatedBy *uint       `json:"lastUpdatedBy"`
	UpdatedByUser *User       `json:"updatedBy,omitempty" gorm:"foreignKey:LastUpdatedBy"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type NewsletterSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
