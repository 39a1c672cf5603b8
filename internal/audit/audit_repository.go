package audit

import (
	"context"

	"github.com/pulseboard/pulseboard/model"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	RecordEntry(ctx context.Context, entry *model.AuditLog) error
}

type auditLogRepository struct {
	db *gorm.DB
}

func (r *auditLogRepository) RecordEntry(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}
