package policy

import (
	"net/http"

	"github.com/jkaz1007/lms-sys/internal/shared/apperror"
)

// Role is the closed set of roles the system understands. Authorization
// decisions are made against these values, never against raw payload strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleApprover Role = "approver"
	RoleReviewer Role = "reviewer"
	RoleEmployee Role = "employee"
)

var (
	ErrUnknownRole = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown role",
		http.StatusBadRequest,
	)
	ErrRoleCannotDecide = apperror.New(
		apperror.CodeForbidden,
		"User does not have permission to update leave status",
		http.StatusForbidden,
	)
	ErrNotRequestManager = apperror.New(
		apperror.CodeUnauthorized,
		"Unauthorized to update leave status",
		http.StatusUnauthorized,
	)
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleApprover, RoleReviewer, RoleEmployee:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// CanDecide reports whether the role is allowed to approve or reject leave
// requests at all, independent of which request is targeted.
func (r Role) CanDecide() bool {
	switch r {
	case RoleAdmin, RoleApprover, RoleReviewer:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller as established by the token middleware.
type Actor struct {
	EmployeeID string
	Role       Role
	ManagerID  string
	Name       string
}

// AuthorizeDecision enforces both conditions for deciding a leave request:
// the role allow-list (403 when violated) and the manager binding (401 when
// violated). The two failures stay distinct.
func AuthorizeDecision(actor Actor, requestManagerID string) error {
	if !actor.Role.CanDecide() {
		return ErrRoleCannotDecide
	}
	if actor.EmployeeID != requestManagerID {
		return ErrNotRequestManager
	}
	return nil
}
