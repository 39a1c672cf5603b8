package middlewares

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/handlers/api"
	"github.com/pulseboard/pulseboard/internal/rbac"
	"github.com/pulseboard/pulseboard/internal/sessions"
	"github.com/pulseboard/pulseboard/internal/users"
)

// ErrorHandler maps domain errors to HTTP statuses. Authentication failures
// stay generic; only the authenticated-but-forbidden case is distinguished.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var storageErr *sessions.StorageError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return respondError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrSessionNotFound):
		return respondError(ctx, fiber.StatusUnauthorized, "Authentication required")
	case errors.Is(err, rbac.ErrForbidden):
		return respondError(ctx, fiber.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, auth.ErrAlreadyExists), errors.Is(err, users.ErrEmailRegistered):
		return respondError(ctx, fiber.StatusConflict, "Email already registered")
	case errors.Is(err, users.ErrInvalidEmail):
		return respondError(ctx, fiber.StatusBadRequest, "Invalid email address")
	case errors.Is(err, users.ErrUserNotFound):
		return respondError(ctx, fiber.StatusNotFound, "User not found")
	case errors.As(err, &storageErr):
		slog.Error("Storage failure", "path", ctx.Path(), "error", err)
		return respondError(ctx, fiber.StatusServiceUnavailable, "Service temporarily unavailable, please try again")
	}

	if e, ok := err.(*fiber.Error); ok {
		return respondError(ctx, e.Code, e.Message)
	}
	slog.Error("Unhandled error", "path", ctx.Path(), "error", err)
	return respondError(ctx, fiber.StatusInternalServerError, "Internal server error")
}

func respondError(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(api.NewErrorResponse(code, message))
}
