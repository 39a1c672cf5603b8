package bearer

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/model"
)

const (
	localsUserKey     = "authUser"
	localsIdentityKey = "authIdentity"
	localsTokenKey    = "authToken"
)

// Token extracts the bearer token from the Authorization header, returning ""
// when absent or malformed.
func Token(ctx *fiber.Ctx) string {
	header := ctx.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// New returns a middleware that resolves the bearer token to a user on every
// request. The resolved identity lives only for the duration of the request;
// role and status changes apply on the next one.
func New(authService *auth.Service) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := Token(ctx)
		if token == "" {
			return auth.ErrTokenInvalid
		}
		user, err := authService.Resolve(ctx.Context(), token)
		if err != nil {
			return err
		}
		ctx.Locals(localsUserKey, user)
		ctx.Locals(localsIdentityKey, auth.NewIdentity(user))
		ctx.Locals(localsTokenKey, token)
		return ctx.Next()
	}
}

func CurrentUser(ctx *fiber.Ctx) *model.User {
	user, _ := ctx.Locals(localsUserKey).(*model.User)
	return user
}

func CurrentIdentity(ctx *fiber.Ctx) auth.Identity {
	identity, _ := ctx.Locals(localsIdentityKey).(auth.Identity)
	return identity
}

func CurrentToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(localsTokenKey).(string)
	return token
}
