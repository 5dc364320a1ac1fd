package models

import (
	"strings"
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address so uniqueness
// checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	Name                 string     `json:"name" gorm:"not null"`
	Email                string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash         string     `json:"-" gorm:"not null"`
	Role                 UserRole   `json:"role" gorm:"not null;default:'customer'"`
	Phone                string     `json:"phone"`
	Address              string     `json:"address"`
	IsActive             bool       `json:"isActive" gorm:"default:true"`
	ForcePasswordReset   bool       `json:"forcePasswordReset" gorm:"default:false"`
	PasswordResetToken   string     `json:"-"` // sha256 hex of the issued token, never the token itself
	PasswordResetExpires *time.Time `json:"-"`
	OTPCode              string     `json:"-"` // sha256 hex of the issued OTP
	OTPExpires           *time.Time `json:"-"`
	PasswordChangedAt    *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsStaff reports whether the user holds a staff or admin role.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
