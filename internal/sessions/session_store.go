package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/model"
	"gorm.io/gorm"
)

// StorageError marks a failure of the underlying store (unreachable, timed
// out). It is never swallowed at this layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SessionStore persists issued sessions. Lookups treat an expired row the
// same as a missing one; the sweeper removes expired rows eventually.
type SessionStore interface {
	Create(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.Session, error)
	// FindValid returns (nil, nil) when no live session matches the token,
	// including the case where a row exists but has expired.
	FindValid(ctx context.Context, token string) (*model.Session, error)
	// DeleteByToken is idempotent; deleting an unknown token returns 0.
	DeleteByToken(ctx context.Context, token string) (int64, error)
	// DeleteAllForUser revokes every session of a user, optionally keeping
	// the one matching exceptToken.
	DeleteAllForUser(ctx context.Context, userID uint, exceptToken string) (int64, error)
	// SweepExpired deletes all rows with expires_at <= now. Safe to run
	// concurrently with itself; the count is informational.
	SweepExpired(ctx context.Context) (int64, error)
}

type sessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Create(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.Session, error) {
	session := model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, &StorageError{Op: "create", Err: err}
	}
	return &session, nil
}

func (s *sessionStore) FindValid(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}
	return &session, nil
}

func (s *sessionStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	ret := s.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{})
	if ret.Error != nil {
		return 0, &StorageError{Op: "delete", Err: ret.Error}
	}
	return ret.RowsAffected, nil
}

func (s *sessionStore) DeleteAllForUser(ctx context.Context, userID uint, exceptToken string) (int64, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if exceptToken != "" {
		query = query.Where("token <> ?", exceptToken)
	}
	ret := query.Delete(&model.Session{})
	if ret.Error != nil {
		return 0, &StorageError{Op: "delete all", Err: ret.Error}
	}
	return ret.RowsAffected, nil
}

func (s *sessionStore) SweepExpired(ctx context.Context) (int64, error) {
	ret := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&model.Session{})
	if ret.Error != nil {
		return 0, &StorageError{Op: "sweep", Err: ret.Error}
	}
	return ret.RowsAffected, nil
}
