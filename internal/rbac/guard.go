package rbac

import (
	"errors"

	"github.com/pulseboard/pulseboard/internal/auth"
)

// ErrForbidden means the caller is authenticated but lacks the required
// permission.
var ErrForbidden = errors.New("insufficient permissions")

// RequirePermission denies unless identity's role may perform action on
// resource. It has no side effects; auditing of the guarded operation is the
// call site's responsibility.
func RequirePermission(identity auth.Identity, resource string, action string) error {
	if !HasPermission(identity.Role, resource, action) {
		return ErrForbidden
	}
	return nil
}
