package employee

import (
	"context"
	"errors"

	"hr-core/internal/payroll"
	payrollerrors "hr-core/internal/payroll/errors"

	"gorm.io/gorm"
)

// Directory adapts the employee store to what the payroll engine needs.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) Profile(ctx context.Context, companyID, employeeID string) (payroll.DirectoryProfile, error) {
	empl, err := d.repo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payroll.DirectoryProfile{}, payrollerrors.ErrEmployeeNotFound
		}
		return payroll.DirectoryProfile{}, err
	}

	return payroll.DirectoryProfile{
		FullName:       empl.FullName,
		BaseSalary:     empl.BaseSalary,
		JoinDate:       empl.HireDate,
		DepartmentName: empl.DepartmentName,
		Designation:    empl.Designation,
	}, nil
}
