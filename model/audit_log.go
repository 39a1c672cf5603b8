package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a privileged action. Rows are written
// once and never mutated or deleted by application logic.
type AuditLog struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint          `gorm:"index" json:"userId,omitempty"` // nil for system actions
	User       *User          `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Action     string         `gorm:"size:64;not null;index" json:"action"`
	Resource   string         `gorm:"size:64;not null;index" json:"resource"`
	ResourceID string         `gorm:"size:64" json:"resourceId,omitempty"`
	Details    datatypes.JSON `json:"details,omitempty"`
	IPAddress  string         `gorm:"size:45" json:"ipAddress,omitempty"` // IPv4/IPv6
	UserAgent  string         `gorm:"size:512" json:"userAgent,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
