package auth

import "github.com/pulseboard/pulseboard/model"

// Identity is the per-request projection of "who is making this call". It is
// rebuilt from the token and live session on every request and must not be
// cached across requests, since role and status can change between them.
type Identity struct {
	UserID uint
	Email  string
	Role   model.UserRole
	Status model.UserStatus
}

func NewIdentity(user *model.User) Identity {
	return Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}
}
