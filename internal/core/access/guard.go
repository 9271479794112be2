// Package access decides whether an authenticated actor may perform a guarded
// operation. Guards form a closed set of variants evaluated by one dispatch
// function; the token is trusted only for identity — role and active flag are
// re-read from the directory on every decision.
package access

import (
	"fmt"
	"strings"

	"github.com/accountsvc/user-service/internal/core/domain"
)

type guardKind int

const (
	guardMinRole guardKind = iota
	guardExactRole
	guardAnyRole
	guardOwnership
	guardOwnershipOrMinRole
	guardAdminOnly
)

// Guard is one authorization rule with its parameters.
type Guard struct {
	kind     guardKind
	minRole  domain.Role
	exact    domain.Role
	roles    []domain.Role
	targetID int64
}

// MinRole allows actors at least as privileged as required.
func MinRole(required domain.Role) Guard {
	return Guard{kind: guardMinRole, minRole: required}
}

// ExactRole allows only actors holding exactly the given role.
func ExactRole(role domain.Role) Guard {
	return Guard{kind: guardExactRole, exact: role}
}

// AnyRole allows actors holding any of the given roles.
func AnyRole(roles ...domain.Role) Guard {
	return Guard{kind: guardAnyRole, roles: roles}
}

// OwnershipOnly allows only the owner of the target resource.
func OwnershipOnly(targetID int64) Guard {
	return Guard{kind: guardOwnership, targetID: targetID}
}

// OwnershipOrMinRole allows the owner of the target resource, or any actor at
// least as privileged as required.
func OwnershipOrMinRole(targetID int64, required domain.Role) Guard {
	return Guard{kind: guardOwnershipOrMinRole, targetID: targetID, minRole: required}
}

// AdminOnly gates administrative listing, search and role-mutation
// operations: Admin or higher.
func AdminOnly() Guard {
	return Guard{kind: guardAdminOnly}
}

// evaluate applies the guard to an already-resolved, active actor.
func (g Guard) evaluate(actor *domain.User) error {
	switch g.kind {
	case guardMinRole:
		if actor.Position.AtLeast(g.minRole) {
			return nil
		}
		return domain.Denied(fmt.Sprintf("Access denied. Minimum role required: %s", g.minRole.Name()))
	case guardExactRole:
		if actor.Position == g.exact {
			return nil
		}
		return domain.Denied(fmt.Sprintf("Access denied. Required role: %s", g.exact.Name()))
	case guardAnyRole:
		for _, r := range g.roles {
			if actor.Position == r {
				return nil
			}
		}
		names := make([]string, len(g.roles))
		for i, r := range g.roles {
			names[i] = r.Name()
		}
		return domain.Denied(fmt.Sprintf("Access denied. Required roles: %s", strings.Join(names, ", ")))
	case guardOwnership:
		if actor.ID == g.targetID {
			return nil
		}
		return domain.Denied("Access denied. You can only access your own resources.")
	case guardOwnershipOrMinRole:
		if actor.ID == g.targetID || actor.Position.AtLeast(g.minRole) {
			return nil
		}
		return domain.Denied("Access denied. You can only access your own resources or need higher privileges.")
	case guardAdminOnly:
		if actor.Position.AtLeast(domain.RoleAdmin) {
			return nil
		}
		return domain.Denied("Access denied. Admin privileges required.")
	default:
		return domain.ErrForbidden
	}
}
