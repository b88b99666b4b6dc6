package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmploymentStatusActive   = "active"
	EmploymentStatusInactive = "inactive"
)

// Employee is the directory record payroll reads its base salary from.
// Department and designation are denormalized strings; org-chart management
// lives outside this service.
type Employee struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeNumber string    `gorm:"column:employee_number;type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"column:full_name;type:varchar(120);not null"`
	Email          string    `gorm:"column:email;type:varchar(160);not null;uniqueIndex:uq_employee_email"`
	Phone          string    `gorm:"column:phone;type:varchar(30)"`
	DepartmentName string    `gorm:"column:department_name;type:varchar(80)"`
	Designation    string    `gorm:"column:designation;type:varchar(80)"`
	BaseSalary     float64   `gorm:"column:base_salary;type:numeric(14,2);not null"`
	HireDate       time.Time `gorm:"column:hire_date;type:date;not null"`
	// active / inactive
	EmploymentStatus string `gorm:"column:employment_status;type:varchar(20);not null;default:active"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Employee) TableName() string {
	return "employees"
}
