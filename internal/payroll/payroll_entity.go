package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PeriodStatusUpcoming  = "UPCOMING"
	PeriodStatusCurrent   = "CURRENT"
	PeriodStatusCompleted = "COMPLETED"
)

const (
	PayslipStatusDraft     = "DRAFT"
	PayslipStatusProcessed = "PROCESSED"
)

// PayrollPeriod is a company-scoped date range with a human label. At most
// one period per company is active; activation flips the whole set in one
// transaction.
type PayrollPeriod struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	Label      string         `gorm:"column:label;type:varchar(60);not null"`
	RangeLabel string         `gorm:"column:range_label;type:varchar(60);not null"`
	StartDate  time.Time      `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time      `gorm:"column:end_date;type:date;not null"`
	Status     string         `gorm:"column:status;type:varchar(20);not null;default:UPCOMING"`
	IsActive   bool           `gorm:"column:is_active;not null;default:false;index"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// EmployeePayslip is the computed earnings/deductions record for one employee
// and one period. The unique index on (company, employee, period range) is
// what makes recalculation an upsert instead of a silent duplicate.
//
// Amounts are whole currency units, rounded at calculation time.
type EmployeePayslip struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_payslip_period"`
	EmployeeID    uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_payslip_period"`
	PeriodID      uuid.UUID `gorm:"column:period_id;type:uuid;not null;index"`
	PeriodStart   time.Time `gorm:"column:period_start;type:date;not null;uniqueIndex:uq_payslip_period"`
	PeriodEnd     time.Time `gorm:"column:period_end;type:date;not null;uniqueIndex:uq_payslip_period"`
	PayslipNumber string    `gorm:"column:payslip_number;type:varchar(20);not null"`

	// Earnings
	BasicSalary         float64 `gorm:"column:basic_salary;type:numeric(14,2);not null;default:0"`
	HRA                 float64 `gorm:"column:hra;type:numeric(14,2);not null;default:0"`
	ConveyanceAllowance float64 `gorm:"column:conveyance_allowance;type:numeric(14,2);not null;default:0"`
	MedicalAllowance    float64 `gorm:"column:medical_allowance;type:numeric(14,2);not null;default:0"`
	SpecialAllowance    float64 `gorm:"column:special_allowance;type:numeric(14,2);not null;default:0"`
	Bonus               float64 `gorm:"column:bonus;type:numeric(14,2);not null;default:0"`
	Overtime            float64 `gorm:"column:overtime;type:numeric(14,2);not null;default:0"`
	Arrears             float64 `gorm:"column:arrears;type:numeric(14,2);not null;default:0"`
	OtherEarnings       float64 `gorm:"column:other_earnings;type:numeric(14,2);not null;default:0"`

	// Deductions
	PF                  float64 `gorm:"column:pf;type:numeric(14,2);not null;default:0"`
	ESI                 float64 `gorm:"column:esi;type:numeric(14,2);not null;default:0"`
	ProfessionalTax     float64 `gorm:"column:professional_tax;type:numeric(14,2);not null;default:0"`
	TDS                 float64 `gorm:"column:tds;type:numeric(14,2);not null;default:0"`
	LoanDeduction       float64 `gorm:"column:loan_deduction;type:numeric(14,2);not null;default:0"`
	LeaveDeduction      float64 `gorm:"column:leave_deduction;type:numeric(14,2);not null;default:0"`
	AttendanceDeduction float64 `gorm:"column:attendance_deduction;type:numeric(14,2);not null;default:0"`
	OtherDeductions     float64 `gorm:"column:other_deductions;type:numeric(14,2);not null;default:0"`

	TotalEarnings   float64 `gorm:"column:total_earnings;type:numeric(14,2);not null;default:0"`
	TotalDeductions float64 `gorm:"column:total_deductions;type:numeric(14,2);not null;default:0"`
	// Net pay is deliberately not floored at zero; see design notes.
	NetPay      float64 `gorm:"column:net_pay;type:numeric(14,2);not null;default:0"`
	PayableDays string  `gorm:"column:payable_days;type:varchar(20);not null"`

	// Attendance snapshot, frozen at calculation time. A recalculation
	// replaces the whole snapshot, it never patches fields.
	TotalWorkingDays int     `gorm:"column:total_working_days;not null;default:0"`
	PresentDays      int     `gorm:"column:present_days;not null;default:0"`
	AbsentDays       int     `gorm:"column:absent_days;not null;default:0"`
	HalfDays         int     `gorm:"column:half_days;not null;default:0"`
	OvertimeHours    float64 `gorm:"column:overtime_hours;type:numeric(8,2);not null;default:0"`
	LateComings      int     `gorm:"column:late_comings;not null;default:0"`

	Status      string        `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	CreatedBy   uuid.UUID     `gorm:"column:created_by;type:uuid;not null"`
	EditHistory []PayslipEdit `gorm:"foreignKey:PayslipID"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (EmployeePayslip) TableName() string {
	return "employee_payslips"
}

// PayslipEdit entries are append-only; recalculations add one, nothing ever
// rewrites them.
type PayslipEdit struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PayslipID uuid.UUID `gorm:"column:payslip_id;type:uuid;not null;index"`
	Field     string    `gorm:"column:field;type:varchar(40);not null"`
	EditedBy  uuid.UUID `gorm:"column:edited_by;type:uuid;not null"`
	EditedAt  time.Time `gorm:"column:edited_at;type:timestamptz;not null"`
}

func (PayslipEdit) TableName() string {
	return "payslip_edits"
}
