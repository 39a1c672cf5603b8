package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pulseboard/pulseboard/internal/audit"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/middlewares/bearer"
	"github.com/pulseboard/pulseboard/internal/rbac"
	"github.com/pulseboard/pulseboard/internal/users"
	"github.com/pulseboard/pulseboard/model"
	"github.com/spf13/cast"
)

// UserHandler is the admin-only user management surface. Every operation is
// gated by the Users permission set and write actions are audited here, at
// the call site.
type UserHandler struct {
	authService *auth.Service
	userService *users.UserService
}

func NewUserHandler(authService *auth.Service, userService *users.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *UserHandler) GetUsers(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceUsers, rbac.ActionView); err != nil {
		return err
	}
	list, err := h.userService.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(list))
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) PostUser(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceUsers, rbac.ActionCreate); err != nil {
		return err
	}
	var req createUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, name and password are required")
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
	}

	user, err := h.authService.Register(ctx.Context(), auth.RegisterOptions{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	audit.Record(ctx.Context(), audit.Entry{
		ActorID:    &identity.UserID,
		Action:     audit.ActionUserCreated,
		Resource:   rbac.ResourceUsers,
		ResourceID: cast.ToString(user.ID),
		Details:    map[string]any{"email": user.Email, "role": user.Role},
		IP:         ctx.IP(),
		UserAgent:  ctx.Get(fiber.HeaderUserAgent),
	})
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(user))
}

type updateUserRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (h *UserHandler) PutUser(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceUsers, rbac.ActionEdit); err != nil {
		return err
	}
	userID := cast.ToUint(ctx.Params("id"))
	user, err := h.userService.GetUserByID(ctx.Context(), userID)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	if req.Name != "" && req.Name != user.Name {
		if err := h.userService.UpdateName(ctx.Context(), userID, req.Name); err != nil {
			return err
		}
		h.recordChange(ctx, identity, audit.ActionUserUpdated, userID, map[string]any{"name": req.Name})
	}
	if req.Role != "" {
		role, ok := model.ParseRole(req.Role)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
		}
		if role != user.Role {
			if err := h.userService.SetRole(ctx.Context(), userID, role); err != nil {
				return err
			}
			h.recordChange(ctx, identity, audit.ActionRoleChanged, userID, map[string]any{"from": user.Role, "to": role})
		}
	}
	if req.Status != "" {
		status, ok := model.ParseStatus(req.Status)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown status")
		}
		if status != user.Status {
			if err := h.userService.SetStatus(ctx.Context(), userID, status); err != nil {
				return err
			}
			h.recordChange(ctx, identity, audit.ActionStatusChanged, userID, map[string]any{"from": user.Status, "to": status})
		}
	}

	updated, err := h.userService.GetUserByID(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(updated))
}

// DeleteUser deactivates the account and revokes its sessions. Accounts are
// not physically removed; the audit trail keeps referencing them.
func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceUsers, rbac.ActionDelete); err != nil {
		return err
	}
	userID := cast.ToUint(ctx.Params("id"))
	user, err := h.userService.GetUserByID(ctx.Context(), userID)
	if err != nil {
		return err
	}

	statusChanged := user.Status != model.StatusInactive
	if statusChanged {
		if err := h.userService.SetStatus(ctx.Context(), userID, model.StatusInactive); err != nil {
			return err
		}
	}
	count, err := h.authService.RevokeUserSessions(ctx.Context(), userID, "")
	if err != nil {
		return err
	}

	// Deactivating an already-inactive account is a no-op; only record what
	// actually happened.
	if statusChanged {
		h.recordChange(ctx, identity, audit.ActionStatusChanged, userID, map[string]any{
			"from": user.Status, "to": model.StatusInactive, "sessionsRevoked": count,
		})
	} else if count > 0 {
		h.recordChange(ctx, identity, audit.ActionSessionsRevoked, userID, map[string]any{"count": count})
	}
	return ctx.JSON(NewDataResponse(fiber.Map{"deactivated": true, "sessionsRevoked": count}))
}

// PostRevokeSessions revokes every session of the target user. When the
// caller revokes their own sessions, keepCurrent=true preserves the session
// backing this request.
func (h *UserHandler) PostRevokeSessions(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceUsers, rbac.ActionEdit); err != nil {
		return err
	}
	userID := cast.ToUint(ctx.Params("id"))
	if _, err := h.userService.GetUserByID(ctx.Context(), userID); err != nil {
		return err
	}

	exceptToken := ""
	if userID == identity.UserID && ctx.QueryBool("keepCurrent") {
		exceptToken = bearer.CurrentToken(ctx)
	}
	count, err := h.authService.RevokeUserSessions(ctx.Context(), userID, exceptToken)
	if err != nil {
		return err
	}

	h.recordChange(ctx, identity, audit.ActionSessionsRevoked, userID, map[string]any{"count": count})
	return ctx.JSON(NewDataResponse(fiber.Map{"revoked": count}))
}

func (h *UserHandler) recordChange(ctx *fiber.Ctx, identity auth.Identity, action string, targetID uint, details map[string]any) {
	audit.Record(ctx.Context(), audit.Entry{
		ActorID:    &identity.UserID,
		Action:     action,
		Resource:   rbac.ResourceUsers,
		ResourceID: cast.ToString(targetID),
		Details:    details,
		IP:         ctx.IP(),
		UserAgent:  ctx.Get(fiber.HeaderUserAgent),
	})
}
