package employee

type CreateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            string  `json:"phone"`
	EmployeeNumber   string  `json:"employee_number"`
	DepartmentName   string  `json:"department_name"`
	Designation      string  `json:"designation"`
	BaseSalary       float64 `json:"base_salary" binding:"required,gt=0"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type UpdateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            string  `json:"phone"`
	EmployeeNumber   string  `json:"employee_number" binding:"required"`
	DepartmentName   string  `json:"department_name"`
	Designation      string  `json:"designation"`
	BaseSalary       float64 `json:"base_salary" binding:"required,gt=0"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeNumber   string  `json:"employee_number"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone,omitempty"`
	DepartmentName   string  `json:"department_name,omitempty"`
	Designation      string  `json:"designation,omitempty"`
	BaseSalary       float64 `json:"base_salary"`
	HireDate         string  `json:"hire_date"`
	EmploymentStatus string  `json:"employment_status"`
}
