package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pulseboard/pulseboard/internal/audit"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/middlewares/bearer"
	"github.com/pulseboard/pulseboard/internal/ratelimit"
	"github.com/pulseboard/pulseboard/internal/rbac"
)

type AuthHandler struct {
	authService *auth.Service
	limiter     *ratelimit.LoginLimiter
}

func NewAuthHandler(authService *auth.Service, limiter *ratelimit.LoginLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	limiterKey := ratelimit.Key(req.Email, ctx.IP())
	if !h.limiter.Allow(ctx.Context(), limiterKey) {
		return fiber.NewError(fiber.StatusTooManyRequests, "Too many failed attempts, try again later")
	}

	result, err := h.authService.Login(ctx.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.limiter.RecordFailure(ctx.Context(), limiterKey)
		audit.Record(ctx.Context(), audit.Entry{
			Action:    audit.ActionLoginFailure,
			Resource:  rbac.ResourceUsers,
			Details:   map[string]any{"email": req.Email},
			IP:        ctx.IP(),
			UserAgent: ctx.Get(fiber.HeaderUserAgent),
		})
		return err
	}
	if err != nil {
		return err
	}

	h.limiter.Reset(ctx.Context(), limiterKey)
	audit.Record(ctx.Context(), audit.Entry{
		ActorID:   &result.User.ID,
		Action:    audit.ActionLoginSuccess,
		Resource:  rbac.ResourceUsers,
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	return ctx.JSON(NewDataResponse(result))
}

// PostLogout always reports success; an unknown or expired token is a no-op.
func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	if token := bearer.Token(ctx); token != "" {
		if err := h.authService.Logout(ctx.Context(), token); err != nil {
			slog.Warn("Logout failed to delete session", "error", err)
		}
	}
	return ctx.JSON(NewDataResponse(fiber.Map{"loggedOut": true}))
}

func (h *AuthHandler) GetMe(ctx *fiber.Ctx) error {
	return ctx.JSON(NewDataResponse(bearer.CurrentUser(ctx)))
}

// GetPermissions exposes the caller's permission set for UI capability
// introspection; enforcement stays server-side.
func (h *AuthHandler) GetPermissions(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	return ctx.JSON(NewDataResponse(rbac.RolePermissions(identity.Role)))
}
