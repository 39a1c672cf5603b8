package model

import (
	"time"

	"gorm.io/gorm"
)

// Session binds one issued token to a user. A row whose ExpiresAt has passed
// is treated as absent by all lookups, even before the sweeper removes it.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:512;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = GenerateID()
	}
	return nil
}
