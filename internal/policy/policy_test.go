package policy_test

import (
	"testing"

	"github.com/jkaz1007/lms-sys/internal/policy"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "approver", "reviewer", "employee"} {
		role, err := policy.ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	_, err := policy.ParseRole("superuser")
	assert.ErrorIs(t, err, policy.ErrUnknownRole)

	_, err = policy.ParseRole("")
	assert.ErrorIs(t, err, policy.ErrUnknownRole)

	// Roles are exact strings, not case-folded.
	_, err = policy.ParseRole("Admin")
	assert.ErrorIs(t, err, policy.ErrUnknownRole)
}

func TestRole_CanDecide(t *testing.T) {
	assert.True(t, policy.RoleAdmin.CanDecide())
	assert.True(t, policy.RoleApprover.CanDecide())
	assert.True(t, policy.RoleReviewer.CanDecide())
	assert.False(t, policy.RoleEmployee.CanDecide())
	assert.False(t, policy.Role("").CanDecide())
}

func TestAuthorizeDecision(t *testing.T) {
	t.Run("allows the request manager with a deciding role", func(t *testing.T) {
		actor := policy.Actor{EmployeeID: "MGR-1", Role: policy.RoleApprover}
		assert.NoError(t, policy.AuthorizeDecision(actor, "MGR-1"))
	})

	t.Run("rejects a role outside the allow-list", func(t *testing.T) {
		actor := policy.Actor{EmployeeID: "MGR-1", Role: policy.RoleEmployee}
		err := policy.AuthorizeDecision(actor, "MGR-1")
		assert.ErrorIs(t, err, policy.ErrRoleCannotDecide)
	})

	t.Run("rejects a deciding role that is not the request manager", func(t *testing.T) {
		actor := policy.Actor{EmployeeID: "MGR-2", Role: policy.RoleAdmin}
		err := policy.AuthorizeDecision(actor, "MGR-1")
		assert.ErrorIs(t, err, policy.ErrNotRequestManager)
	})

	t.Run("role check runs before the manager check", func(t *testing.T) {
		// Both conditions violated: the role failure wins.
		actor := policy.Actor{EmployeeID: "MGR-2", Role: policy.RoleEmployee}
		err := policy.AuthorizeDecision(actor, "MGR-1")
		assert.ErrorIs(t, err, policy.ErrRoleCannotDecide)
	})
}
