package users

import (
	"context"

	"github.com/pulseboard/pulseboard/model"
	"gorm.io/gorm"
)

type PreferenceRepository interface {
	WithTx(tx *gorm.DB) PreferenceRepository
	FirstByUserID(ctx context.Context, userID uint) (*model.UserPreference, error)
	Create(ctx context.Context, pref *model.UserPreference) error
	Updates(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func (r *preferenceRepository) FirstByUserID(ctx context.Context, userID uint) (*model.UserPreference, error) {
	var pref model.UserPreference
	if err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) Create(ctx context.Context, pref *model.UserPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

func (r *preferenceRepository) Updates(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.UserPreference{}).Where("user_id = ?", userID).Updates(columns)
	return ret.RowsAffected, ret.Error
}

func (r *preferenceRepository) WithTx(tx *gorm.DB) PreferenceRepository {
	return NewPreferenceRepository(tx)
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}
