package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserPreference holds per-user UI settings. Exactly one row per user,
// provisioned together with the account.
type UserPreference struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User            User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Language        string         `gorm:"size:8;not null;default:en" json:"language"`
	Timezone        string         `gorm:"size:64;not null;default:UTC" json:"timezone"`
	TwoFAEnabled    bool           `gorm:"default:false;not null" json:"twoFAEnabled"`
	DashboardLayout datatypes.JSON `json:"dashboardLayout,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = GenerateID()
	}
	return nil
}
