package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pulseboard/pulseboard/model"
	"gorm.io/gorm"
)

type CreateUserOptions struct {
	Email        string
	Name         string
	PasswordHash string
	Role         model.UserRole
}

type UserService struct {
	db       *gorm.DB
	userRepo UserRepository
	prefRepo PreferenceRepository
}

func NewUserService(db *gorm.DB, userRepo UserRepository, prefRepo PreferenceRepository) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
		prefRepo: prefRepo,
	}
}

// NormalizeEmail lowercases and trims an email address. Lookups and inserts
// both use the normalized form, so addresses differing only in case map to
// the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FirstByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.FirstByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.Find(ctx)
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// CreateUser inserts the account and its default preference row in one
// transaction; both succeed or both fail.
func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	email := NormalizeEmail(opts.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	user := model.User{
		Email:        email,
		Name:         opts.Name,
		PasswordHash: opts.PasswordHash,
		Role:         opts.Role,
		Status:       model.StatusActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, &user); err != nil {
			return err
		}
		pref := model.UserPreference{
			UserID:   user.ID,
			Language: "en",
			Timezone: "UTC",
		}
		return s.prefRepo.WithTx(tx).Create(ctx, &pref)
	})
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return nil, ErrEmailRegistered
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) TouchLastLogin(ctx context.Context, userID uint) error {
	_, err := s.userRepo.Updates(ctx, userID, map[string]interface{}{
		"last_login_at": time.Now(),
	})
	return err
}

func (s *UserService) UpdateName(ctx context.Context, userID uint, name string) error {
	return s.updateOne(ctx, userID, map[string]interface{}{"name": name})
}

func (s *UserService) SetRole(ctx context.Context, userID uint, role model.UserRole) error {
	return s.updateOne(ctx, userID, map[string]interface{}{"role": role})
}

func (s *UserService) SetStatus(ctx context.Context, userID uint, status model.UserStatus) error {
	return s.updateOne(ctx, userID, map[string]interface{}{"status": status})
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return s.updateOne(ctx, userID, map[string]interface{}{"password_hash": passwordHash})
}

// updateOne does not inspect the affected count: MySQL reports zero for
// no-op updates, so existence checks belong to the caller.
func (s *UserService) updateOne(ctx context.Context, userID uint, columns map[string]interface{}) error {
	_, err := s.userRepo.Updates(ctx, userID, columns)
	return err
}

func (s *UserService) GetPreferences(ctx context.Context, userID uint) (*model.UserPreference, error) {
	pref, err := s.prefRepo.FirstByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return pref, err
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, columns map[string]interface{}) error {
	_, err := s.prefRepo.Updates(ctx, userID, columns)
	return err
}
