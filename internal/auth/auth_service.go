package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pulseboard/pulseboard/internal/sessions"
	"github.com/pulseboard/pulseboard/internal/users"
	"github.com/pulseboard/pulseboard/model"
)

// UserDirectory is the slice of the user service the auth flow depends on.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error)
	TouchLastLogin(ctx context.Context, userID uint) error
}

type LoginResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type RegisterOptions struct {
	Email    string
	Name     string
	Password string
	Role     model.UserRole
}

// Service orchestrates the password hasher, token codec and session store.
// Tokens are self-contained, but every authenticated request also checks the
// session row so that logout and admin revocation take effect before the
// token's own expiry.
type Service struct {
	users    UserDirectory
	sessions sessions.SessionStore
	tokens   *TokenCodec
	hasher   *PasswordHasher
}

func NewService(users UserDirectory, sessionStore sessions.SessionStore, tokens *TokenCodec, hasher *PasswordHasher) *Service {
	return &Service{
		users:    users,
		sessions: sessionStore,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// Login validates credentials and issues a token backed by a session row.
// Unknown email, wrong password and non-active status all yield
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, email string, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Status != model.StatusActive {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Create(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		slog.Warn("Failed to update last login timestamp", "user", user.ID, "error", err)
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout deletes the session backing the token. It is observably successful
// even when the token is unknown or already expired; only a storage failure
// is reported.
func (s *Service) Logout(ctx context.Context, token string) error {
	_, err := s.sessions.DeleteByToken(ctx, token)
	return err
}

// Resolve is the read path of every authenticated request. Both the token's
// own expiry and the session row must be valid; either failing denies.
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	session, err := s.sessions.FindValid(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	// Role and status changes apply immediately, not at next login.
	if user.Status != model.StatusActive {
		return nil, ErrSessionNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// Register creates an account with a default preference record in one
// transaction.
func (s *Service) Register(ctx context.Context, opts RegisterOptions) (*model.User, error) {
	passwordHash, err := s.hasher.Hash(opts.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, users.CreateUserOptions{
		Email:        opts.Email,
		Name:         opts.Name,
		PasswordHash: passwordHash,
		Role:         opts.Role,
	})
	if errors.Is(err, users.ErrEmailRegistered) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// RevokeUserSessions deletes every session of a user, optionally keeping the
// caller's current one.
func (s *Service) RevokeUserSessions(ctx context.Context, userID uint, exceptToken string) (int64, error) {
	return s.sessions.DeleteAllForUser(ctx, userID, exceptToken)
}

// CleanupExpiredSessions is exposed for the recurring sweep job.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.SweepExpired(ctx)
}
