package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/pulseboard/pulseboard/internal/middlewares/bearer"
	"github.com/pulseboard/pulseboard/internal/rbac"
	"github.com/pulseboard/pulseboard/internal/users"
)

type PreferenceHandler struct {
	userService *users.UserService
}

func NewPreferenceHandler(userService *users.UserService) *PreferenceHandler {
	return &PreferenceHandler{userService: userService}
}

func (h *PreferenceHandler) GetPreferences(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceSettings, rbac.ActionView); err != nil {
		return err
	}
	pref, err := h.userService.GetPreferences(ctx.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(pref))
}

type updatePreferencesRequest struct {
	Language        string          `json:"language"`
	Timezone        string          `json:"timezone"`
	TwoFAEnabled    *bool           `json:"twoFAEnabled"`
	DashboardLayout json.RawMessage `json:"dashboardLayout"`
}

func (h *PreferenceHandler) PutPreferences(ctx *fiber.Ctx) error {
	identity := bearer.CurrentIdentity(ctx)
	if err := rbac.RequirePermission(identity, rbac.ResourceSettings, rbac.ActionEdit); err != nil {
		return err
	}
	var req updatePreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	columns := map[string]interface{}{}
	if req.Language != "" {
		columns["language"] = req.Language
	}
	if req.Timezone != "" {
		columns["timezone"] = req.Timezone
	}
	if req.TwoFAEnabled != nil {
		columns["two_fa_enabled"] = *req.TwoFAEnabled
	}
	if len(req.DashboardLayout) > 0 {
		if !json.Valid(req.DashboardLayout) {
			return fiber.NewError(fiber.StatusBadRequest, "Dashboard layout must be valid JSON")
		}
		columns["dashboard_layout"] = []byte(req.DashboardLayout)
	}
	if len(columns) > 0 {
		if err := h.userService.UpdatePreferences(ctx.Context(), identity.UserID, columns); err != nil {
			return err
		}
	}

	pref, err := h.userService.GetPreferences(ctx.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(pref))
}
