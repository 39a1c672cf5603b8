package rbac

import "github.com/pulseboard/pulseboard/model"

// Permission grants a set of roles one action on one resource. Any
// (role, resource, action) combination not covered by a Permission is denied.
type Permission struct {
	Resource string           `json:"resource"`
	Action   string           `json:"action"`
	Roles    []model.UserRole `json:"roles"`
}

type permKey struct {
	resource string
	action   string
}

// matrix is built once at init and never mutated afterwards; lookups need no
// locking.
var matrix = buildMatrix(permissions)

func buildMatrix(perms []Permission) map[permKey]map[model.UserRole]struct{} {
	m := make(map[permKey]map[model.UserRole]struct{}, len(perms))
	for _, perm := range perms {
		key := permKey{resource: perm.Resource, action: perm.Action}
		roles := make(map[model.UserRole]struct{}, len(perm.Roles))
		for _, role := range perm.Roles {
			roles[role] = struct{}{}
		}
		m[key] = roles
	}
	return m
}

// HasPermission reports whether role may perform action on resource.
// An unlisted (resource, action) pair is always denied.
func HasPermission(role model.UserRole, resource string, action string) bool {
	roles, ok := matrix[permKey{resource: resource, action: action}]
	if !ok {
		return false
	}
	_, allowed := roles[role]
	return allowed
}

// RolePermissions lists every permission that includes role. Used for UI
// capability introspection, not enforcement.
func RolePermissions(role model.UserRole) []Permission {
	var granted []Permission
	for _, perm := range permissions {
		for _, r := range perm.Roles {
			if r == role {
				granted = append(granted, perm)
				break
			}
		}
	}
	return granted
}

// CanAccessResource reports whether role is allowed any action on resource.
func CanAccessResource(role model.UserRole, resource string) bool {
	for key, roles := range matrix {
		if key.resource != resource {
			continue
		}
		if _, allowed := roles[role]; allowed {
			return true
		}
	}
	return false
}
