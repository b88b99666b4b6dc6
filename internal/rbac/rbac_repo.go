package rbac

import "gorm.io/gorm"

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

type Repository interface {
	GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type EmployeeRoleRow struct {
	EmployeeID string
	Role       string
}

func (r *repository) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow
	err := r.db.
		Table("employee_roles").
		Select("employee_id::text AS employee_id, role").
		Where("company_id = ?", companyID).
		Scan(&result).Error
	return result, err
}
