package users

import (
	"context"
	"errors"
	"testing"

	"github.com/pulseboard/pulseboard/model"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	UserRepository
	byEmail map[string]*model.User
}

func (r *fakeUserRepository) FirstByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"admin@example.com", "admin@example.com"},
		{"Admin@Example.COM", "admin@example.com"},
		{"  admin@example.com  ", "admin@example.com"},
		{" MiXeD@CaSe.Io ", "mixed@case.io"},
	}
	for _, test := range tests {
		if got := NormalizeEmail(test.in); got != test.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo := &fakeUserRepository{
		byEmail: map[string]*model.User{
			"admin@example.com": {ID: 1, Email: "admin@example.com", Role: model.RoleAdmin},
		},
	}
	service := NewUserService(nil, repo, nil)
	ctx := context.Background()

	// Lookups normalize before hitting storage, so addresses differing only
	// in case resolve to the same account.
	user, err := service.GetUserByEmail(ctx, "  Admin@Example.COM ")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if user.ID != 1 {
		t.Errorf("GetUserByEmail() id = %d, want 1", user.ID)
	}

	if _, err := service.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrUserNotFound", err)
	}
	if _, err := service.GetUserByEmail(ctx, "not-an-email"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByEmail(malformed) error = %v, want ErrUserNotFound", err)
	}
}

// An account whose email cannot be parsed would never pass the login lookup,
// so creation rejects it up front.
func TestCreateUserRejectsMalformedEmail(t *testing.T) {
	service := NewUserService(nil, &fakeUserRepository{}, nil)
	ctx := context.Background()

	tests := []string{"", "not-an-email", "missing@domain@twice", "   "}
	for _, email := range tests {
		_, err := service.CreateUser(ctx, CreateUserOptions{
			Email:        email,
			Name:         "Broken",
			PasswordHash: "$2a$10$hash",
			Role:         model.RoleViewer,
		})
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("CreateUser(%q) error = %v, want ErrInvalidEmail", email, err)
		}
	}
}
