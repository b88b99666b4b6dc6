package payroll

type CreatePeriodRequest struct {
	Label     string `json:"label" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type PeriodResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	Label      string `json:"label"`
	RangeLabel string `json:"range_label"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
}

type CalculatePayslipRequest struct {
	EmployeeID string            `json:"employee_id" binding:"required,uuid"`
	PeriodID   string            `json:"period_id" binding:"required,uuid"`
	Config     CalculationConfig `json:"config"`
	Earnings   CustomEarnings    `json:"custom_earnings"`
	Deductions CustomDeductions  `json:"custom_deductions"`
}

type RequestPayslipsRequest struct {
	PeriodID    string   `json:"period_id" binding:"required,uuid"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

type PayslipFilterRequest struct {
	PeriodID   string `form:"period_id" binding:"omitempty,uuid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type PayslipEditResponse struct {
	Field    string `json:"field"`
	EditedBy string `json:"edited_by"`
	EditedAt string `json:"edited_at"`
}

type PayslipResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	EmployeeID    string                `json:"employee_id"`
	PeriodID      string                `json:"period_id"`
	PayslipNumber string                `json:"payslip_number"`
	PeriodStart   string                `json:"period_start"`
	PeriodEnd     string                `json:"period_end"`
	Earnings      Earnings              `json:"earnings"`
	Deductions    Deductions            `json:"deductions"`
	TotalEarnings float64               `json:"total_earnings"`
	TotalDeductions float64             `json:"total_deductions"`
	NetPay        float64               `json:"net_pay"`
	PayableDays   string                `json:"payable_days"`
	Attendance    PeriodAttendance      `json:"attendance_snapshot"`
	Status        string                `json:"status"`
	EditHistory   []PayslipEditResponse `json:"edit_history,omitempty"`
}
