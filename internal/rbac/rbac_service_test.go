package rbac

import (
	"testing"

	"hr-core/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	roles []EmployeeRoleRow
}

func (f *fakeRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return f.roles, nil
}

func newEnforceService(t *testing.T, roles []EmployeeRoleRow) Service {
	t.Helper()
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)
	return NewService(&fakeRepo{roles: roles}, enforcer)
}

func TestEnforce_AdminHasEverything(t *testing.T) {
	employeeID := uuid.New().String()
	companyID := uuid.New().String()
	svc := newEnforceService(t, []EmployeeRoleRow{{EmployeeID: employeeID, Role: RoleAdmin}})

	for _, res := range []string{"employee", "payroll", "attendance"} {
		for _, act := range []string{"read", "create", "update", "delete"} {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				EmployeeID: employeeID,
				CompanyID:  companyID,
				Resource:   res,
				Action:     act,
			})
			assert.NoError(t, err)
			assert.True(t, allowed, "%s:%s", res, act)
		}
	}
}

func TestEnforce_EmployeeRoleScopes(t *testing.T) {
	employeeID := uuid.New().String()
	companyID := uuid.New().String()
	svc := newEnforceService(t, []EmployeeRoleRow{{EmployeeID: employeeID, Role: RoleEmployee}})

	cases := []struct {
		resource string
		action   string
		allowed  bool
	}{
		{"attendance", "create", true},
		{"attendance", "read", true},
		{"payroll", "read", true},
		{"payroll", "create", false},
		{"employee", "read", false},
	}

	for _, tc := range cases {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Resource:   tc.resource,
			Action:     tc.action,
		})
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s:%s", tc.resource, tc.action)
	}
}

func TestEnforce_UnassignedEmployeeDenied(t *testing.T) {
	svc := newEnforceService(t, nil)

	allowed, err := svc.Enforce(domain.EnforceRequest{
		EmployeeID: uuid.New().String(),
		CompanyID:  uuid.New().String(),
		Resource:   "attendance",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
