package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/model"
)

type TokenClaims struct {
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as the numeric user id.
func (c *TokenClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

// TokenCodec signs and verifies self-contained identity tokens. The signing
// secret is process-wide; rotating it invalidates all previously issued
// tokens.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
}

func NewTokenCodec(secret string, validity time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:   []byte(secret),
		validity: validity,
	}
}

func (c *TokenCodec) Issue(userID uint, email string, role model.UserRole) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.validity)
	claims := TokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			// The ID makes concurrent logins of the same user yield distinct
			// tokens; iat/exp alone have second resolution.
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expiresAt, nil
}

// Verify validates signature and expiry in one step. Every failure collapses
// to ErrTokenInvalid so callers cannot distinguish the reason.
func (c *TokenCodec) Verify(tokenStr string) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
