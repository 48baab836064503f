package rbac

import (
	"testing"

	"go-workforce/internal/domain"

	"github.com/stretchr/testify/assert"
)

func enforce(t *testing.T, svc Service, role, resource, action string) bool {
	t.Helper()
	ok, err := svc.Enforce(domain.EnforceRequest{Role: role, Resource: resource, Action: action})
	assert.NoError(t, err)
	return ok
}

func TestDefaultPolicy_RoleBoundaries(t *testing.T) {
	svc, err := NewService(DefaultPolicy())
	assert.NoError(t, err)

	// Cycle administration belongs to HR, not managers.
	assert.True(t, enforce(t, svc, domain.RoleHR, "review_cycle", "activate"))
	assert.False(t, enforce(t, svc, domain.RoleManager, "review_cycle", "activate"))
	assert.False(t, enforce(t, svc, domain.RoleEmployee, "review_cycle", "create"))

	// Adjudication belongs to managers; override to HR.
	assert.True(t, enforce(t, svc, domain.RoleManager, "attendance", "approve"))
	assert.False(t, enforce(t, svc, domain.RoleEmployee, "attendance", "approve"))
	assert.True(t, enforce(t, svc, domain.RoleHR, "attendance", "override"))
	assert.False(t, enforce(t, svc, domain.RoleManager, "attendance", "override"))
}

func TestDefaultPolicy_InheritanceFlattened(t *testing.T) {
	svc, err := NewService(DefaultPolicy())
	assert.NoError(t, err)

	// Each role carries everything below it.
	assert.True(t, enforce(t, svc, domain.RoleManager, "attendance", "record"))
	assert.True(t, enforce(t, svc, domain.RoleHR, "attendance", "approve"))
	assert.True(t, enforce(t, svc, domain.RoleAdmin, "attendance", "override"))
	assert.True(t, enforce(t, svc, domain.RoleAdmin, "performance_review", "self_assess"))
}

func TestEnforce_UnknownRole(t *testing.T) {
	svc, err := NewService(DefaultPolicy())
	assert.NoError(t, err)

	assert.False(t, enforce(t, svc, "CONTRACTOR", "attendance", "record"))
	assert.False(t, enforce(t, svc, "", "attendance", "record"))
}
