package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pulseboard/pulseboard/model"
)

var auditRepo AuditLogRepository
var initOnce sync.Once

func Initialize(repo AuditLogRepository) {
	initOnce.Do(func() {
		auditRepo = repo
	})
}

const (
	ActionLoginSuccess    = "login_success"
	ActionLoginFailure    = "login_failure"
	ActionLogout          = "logout"
	ActionUserCreated     = "user_created"
	ActionUserUpdated     = "user_updated"
	ActionRoleChanged     = "role_changed"
	ActionStatusChanged   = "status_changed"
	ActionSessionsRevoked = "sessions_revoked"
)

type Entry struct {
	ActorID    *uint          // nil for system actions
	Action     string
	Resource   string
	ResourceID string
	Details    map[string]any
	IP         string
	UserAgent  string
}

// Record appends one audit row. It is best-effort: a failure is logged and
// never propagated, so auditing cannot block the operation being audited.
func Record(ctx context.Context, entry Entry) {
	if auditRepo == nil {
		slog.Warn("Audit recorder not initialized, dropping entry", "action", entry.Action)
		return
	}
	row := &model.AuditLog{
		UserID:     entry.ActorID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		IPAddress:  entry.IP,
		UserAgent:  entry.UserAgent,
	}
	if len(entry.Details) > 0 {
		details, err := json.Marshal(entry.Details)
		if err != nil {
			slog.Error("Failed to encode audit details", "action", entry.Action, "error", err)
		} else {
			row.Details = details
		}
	}
	if err := auditRepo.RecordEntry(ctx, row); err != nil {
		slog.Error("Failed to record audit entry", "action", entry.Action, "resource", entry.Resource, "error", err)
	}
}
