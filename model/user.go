package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleOwner   UserRole = "owner"
	RoleAnalyst UserRole = "analyst"
	RoleViewer  UserRole = "viewer"
)

func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleAdmin, RoleOwner, RoleAnalyst, RoleViewer:
		return UserRole(s), true
	}
	return "", false
}

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

func ParseStatus(s string) (UserStatus, bool) {
	switch UserStatus(s) {
	case StatusActive, StatusInactive, StatusSuspended:
		return UserStatus(s), true
	}
	return "", false
}

// User stores an account of the dashboard. PasswordHash never leaves the
// auth service boundary; it is excluded from every serialized form.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Name         string     `gorm:"size:128;not null" json:"name"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Role         UserRole   `gorm:"size:16;not null;default:viewer" json:"role"`
	Status       UserStatus `gorm:"size:16;not null;default:active" json:"status"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}
