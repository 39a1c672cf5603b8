package auth

import (
	"context"
	"time"

	"github.com/pulseboard/pulseboard/internal/users"
	"github.com/pulseboard/pulseboard/model"
)

type fakeDirectory struct {
	byEmail map[string]*model.User
	byID    map[uint]*model.User
	nextID  uint
}

func newFakeDirectory(seed ...*model.User) *fakeDirectory {
	d := &fakeDirectory{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uint]*model.User),
		nextID:  1,
	}
	for _, user := range seed {
		d.add(user)
	}
	return d
}

func (d *fakeDirectory) add(user *model.User) {
	if user.ID == 0 {
		user.ID = d.nextID
	}
	if user.ID >= d.nextID {
		d.nextID = user.ID + 1
	}
	d.byEmail[user.Email] = user
	d.byID[user.ID] = user
}

func (d *fakeDirectory) clone(user *model.User) *model.User {
	copied := *user
	return &copied
}

func (d *fakeDirectory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := d.byEmail[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return d.clone(user), nil
}

func (d *fakeDirectory) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, ok := d.byID[userID]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return d.clone(user), nil
}

func (d *fakeDirectory) CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error) {
	email := users.NormalizeEmail(opts.Email)
	if _, ok := d.byEmail[email]; ok {
		return nil, users.ErrEmailRegistered
	}
	user := &model.User{
		Email:        email,
		Name:         opts.Name,
		PasswordHash: opts.PasswordHash,
		Role:         opts.Role,
		Status:       model.StatusActive,
	}
	d.add(user)
	return d.clone(user), nil
}

func (d *fakeDirectory) TouchLastLogin(ctx context.Context, userID uint) error {
	user, ok := d.byID[userID]
	if !ok {
		return users.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

type fakeSessionStore struct {
	byToken map[string]*model.Session
	nextID  uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byToken: make(map[string]*model.Session),
		nextID:  1,
	}
}

func (s *fakeSessionStore) Create(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.Session, error) {
	session := &model.Session{
		ID:        s.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.byToken[token] = session
	return session, nil
}

func (s *fakeSessionStore) FindValid(ctx context.Context, token string) (*model.Session, error) {
	session, ok := s.byToken[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *fakeSessionStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if _, ok := s.byToken[token]; !ok {
		return 0, nil
	}
	delete(s.byToken, token)
	return 1, nil
}

func (s *fakeSessionStore) DeleteAllForUser(ctx context.Context, userID uint, exceptToken string) (int64, error) {
	var count int64
	for token, session := range s.byToken {
		if session.UserID == userID && token != exceptToken {
			delete(s.byToken, token)
			count++
		}
	}
	return count, nil
}

func (s *fakeSessionStore) SweepExpired(ctx context.Context) (int64, error) {
	var count int64
	now := time.Now()
	for token, session := range s.byToken {
		if !session.ExpiresAt.After(now) {
			delete(s.byToken, token)
			count++
		}
	}
	return count, nil
}
