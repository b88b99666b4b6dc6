package payroll

import (
	"fmt"
	"math"
	"strconv"
)

const (
	AllowanceMethodPercentage = "percentage"
	AllowanceMethodFixed      = "fixed"
)

// Hardcoded fallbacks, applied when neither a config rule nor a custom
// override is supplied.
const (
	defaultHRAPercent        = 0.30
	defaultSpecialPercent    = 0.10
	defaultConveyanceAmount  = 2000.0
	defaultMedicalAmount     = 1500.0
	defaultProfessionalTax   = 200.0
	pfPercent                = 0.12
	esiPercent               = 0.0075
	esiGrossCeiling          = 25000.0
	tdsPercent               = 0.05
	tdsGrossThreshold        = 50000.0
	latePenaltyPerOccurrence = 100.0
)

// AttendanceDeductionDivisor is the per-day salary base used by the absence
// deduction. It is intentionally a fixed 26 rather than the period's computed
// working-day count: the two disagreeing is inherited behavior, kept visible
// and overridable here instead of silently unified.
const AttendanceDeductionDivisor = 26.0

// AllowanceRule configures one allowance: a percentage of basic or a fixed
// amount.
type AllowanceRule struct {
	Enabled bool    `json:"enabled"`
	Method  string  `json:"method" binding:"omitempty,oneof=percentage fixed"`
	Value   float64 `json:"value"`
}

type AllowanceConfig struct {
	HRA        *AllowanceRule `json:"hra"`
	Conveyance *AllowanceRule `json:"conveyance"`
	Medical    *AllowanceRule `json:"medical"`
	Special    *AllowanceRule `json:"special"`
}

// CalculationConfig gates the attendance-driven parts of the calculation.
// Nil booleans mean "enabled" (the default posture); resolution order for
// every component is override -> config -> hardcoded default.
type CalculationConfig struct {
	AttendanceBasedPay  *bool           `json:"attendance_based_pay"`
	AttendanceDeduction *bool           `json:"attendance_deduction"`
	IncludeLatePenalty  bool            `json:"include_late_penalty"`
	Allowances          AllowanceConfig `json:"allowances"`
	DeductionDivisor    *float64        `json:"deduction_divisor"`
}

// CustomEarnings are per-field verbatim overrides; nil means "not supplied".
type CustomEarnings struct {
	BasicSalary         *float64 `json:"basic_salary"`
	HRA                 *float64 `json:"hra"`
	ConveyanceAllowance *float64 `json:"conveyance_allowance"`
	MedicalAllowance    *float64 `json:"medical_allowance"`
	SpecialAllowance    *float64 `json:"special_allowance"`
	Bonus               *float64 `json:"bonus"`
	Overtime            *float64 `json:"overtime"`
	Arrears             *float64 `json:"arrears"`
	OtherEarnings       *float64 `json:"other_earnings"`
}

type CustomDeductions struct {
	PF                  *float64 `json:"pf"`
	ESI                 *float64 `json:"esi"`
	ProfessionalTax     *float64 `json:"professional_tax"`
	TDS                 *float64 `json:"tds"`
	LoanDeduction       *float64 `json:"loan_deduction"`
	LeaveDeduction      *float64 `json:"leave_deduction"`
	AttendanceDeduction *float64 `json:"attendance_deduction"`
	OtherDeductions     *float64 `json:"other_deductions"`
}

type Earnings struct {
	BasicSalary         float64 `json:"basic_salary"`
	HRA                 float64 `json:"hra"`
	ConveyanceAllowance float64 `json:"conveyance_allowance"`
	MedicalAllowance    float64 `json:"medical_allowance"`
	SpecialAllowance    float64 `json:"special_allowance"`
	Bonus               float64 `json:"bonus"`
	Overtime            float64 `json:"overtime"`
	Arrears             float64 `json:"arrears"`
	OtherEarnings       float64 `json:"other_earnings"`
}

func (e Earnings) Total() float64 {
	return e.BasicSalary + e.HRA + e.ConveyanceAllowance + e.MedicalAllowance +
		e.SpecialAllowance + e.Bonus + e.Overtime + e.Arrears + e.OtherEarnings
}

type Deductions struct {
	PF                  float64 `json:"pf"`
	ESI                 float64 `json:"esi"`
	ProfessionalTax     float64 `json:"professional_tax"`
	TDS                 float64 `json:"tds"`
	LoanDeduction       float64 `json:"loan_deduction"`
	LeaveDeduction      float64 `json:"leave_deduction"`
	AttendanceDeduction float64 `json:"attendance_deduction"`
	OtherDeductions     float64 `json:"other_deductions"`
}

func (d Deductions) Total() float64 {
	return d.PF + d.ESI + d.ProfessionalTax + d.TDS + d.LoanDeduction +
		d.LeaveDeduction + d.AttendanceDeduction + d.OtherDeductions
}

// Breakdown is the full computed payslip body, before persistence concerns.
type Breakdown struct {
	Earnings        Earnings   `json:"earnings"`
	Deductions      Deductions `json:"deductions"`
	TotalEarnings   float64    `json:"total_earnings"`
	TotalDeductions float64    `json:"total_deductions"`
	NetPay          float64    `json:"net_pay"`
	PayableDays     string     `json:"payable_days"`
}

type CalcInput struct {
	BaseSalary       float64
	Attendance       PeriodAttendance
	Config           CalculationConfig
	CustomEarnings   CustomEarnings
	CustomDeductions CustomDeductions
}

// Calculate derives the payslip breakdown from the attendance aggregate and
// the employee's base salary. It is a pure function; persistence and event
// publication happen in the service.
//
// A period with zero working days is a designed risk: every per-day rate
// degrades to zero instead of propagating NaN into stored records.
func Calculate(in CalcInput) Breakdown {
	workingDays := float64(in.Attendance.TotalWorkingDays)
	presentEquivalent := float64(in.Attendance.PresentDays) + 0.5*float64(in.Attendance.HalfDays)

	perDaySalary := 0.0
	if workingDays > 0 {
		perDaySalary = in.BaseSalary / workingDays
	}

	var e Earnings

	switch {
	case in.CustomEarnings.BasicSalary != nil:
		e.BasicSalary = *in.CustomEarnings.BasicSalary
	case enabled(in.Config.AttendanceBasedPay):
		e.BasicSalary = math.Round(perDaySalary * presentEquivalent)
	default:
		e.BasicSalary = in.BaseSalary
	}

	e.HRA = resolveAllowance(in.Config.Allowances.HRA, in.CustomEarnings.HRA,
		e.BasicSalary, math.Round(defaultHRAPercent*e.BasicSalary))
	e.ConveyanceAllowance = resolveAllowance(in.Config.Allowances.Conveyance, in.CustomEarnings.ConveyanceAllowance,
		e.BasicSalary, defaultConveyanceAmount)
	e.MedicalAllowance = resolveAllowance(in.Config.Allowances.Medical, in.CustomEarnings.MedicalAllowance,
		e.BasicSalary, defaultMedicalAmount)
	e.SpecialAllowance = resolveAllowance(in.Config.Allowances.Special, in.CustomEarnings.SpecialAllowance,
		e.BasicSalary, math.Round(defaultSpecialPercent*e.BasicSalary))

	if in.CustomEarnings.Overtime != nil {
		e.Overtime = *in.CustomEarnings.Overtime
	} else {
		overtimeHourlyRate := perDaySalary / 8
		e.Overtime = math.Round(overtimeHourlyRate * in.Attendance.OvertimeHours)
	}

	e.Bonus = orZero(in.CustomEarnings.Bonus)
	e.Arrears = orZero(in.CustomEarnings.Arrears)
	e.OtherEarnings = orZero(in.CustomEarnings.OtherEarnings)

	gross := e.Total()

	var d Deductions

	if in.CustomDeductions.PF != nil {
		d.PF = *in.CustomDeductions.PF
	} else {
		d.PF = math.Round(pfPercent * e.BasicSalary)
	}

	if in.CustomDeductions.ESI != nil {
		d.ESI = *in.CustomDeductions.ESI
	} else if gross <= esiGrossCeiling {
		d.ESI = math.Round(esiPercent * gross)
	}

	if in.CustomDeductions.ProfessionalTax != nil {
		d.ProfessionalTax = *in.CustomDeductions.ProfessionalTax
	} else {
		d.ProfessionalTax = defaultProfessionalTax
	}

	if in.CustomDeductions.TDS != nil {
		d.TDS = *in.CustomDeductions.TDS
	} else if gross > tdsGrossThreshold {
		d.TDS = math.Round(tdsPercent * gross)
	}

	if !enabled(in.Config.AttendanceDeduction) {
		d.AttendanceDeduction = orZero(in.CustomDeductions.AttendanceDeduction)
	} else if in.CustomDeductions.AttendanceDeduction != nil {
		d.AttendanceDeduction = *in.CustomDeductions.AttendanceDeduction
	} else {
		divisor := AttendanceDeductionDivisor
		if in.Config.DeductionDivisor != nil && *in.Config.DeductionDivisor > 0 {
			divisor = *in.Config.DeductionDivisor
		}
		absenceBase := math.Round(in.BaseSalary / divisor * float64(in.Attendance.AbsentDays))
		latePenalty := 0.0
		if in.Config.IncludeLatePenalty {
			latePenalty = latePenaltyPerOccurrence * float64(in.Attendance.LateComings)
		}
		d.AttendanceDeduction = absenceBase + latePenalty
	}

	d.LoanDeduction = orZero(in.CustomDeductions.LoanDeduction)
	d.LeaveDeduction = orZero(in.CustomDeductions.LeaveDeduction)
	d.OtherDeductions = orZero(in.CustomDeductions.OtherDeductions)

	totalEarnings := e.Total()
	totalDeductions := d.Total()

	return Breakdown{
		Earnings:        e,
		Deductions:      d,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		// Deliberately unclamped; negative net pay surfaces pathological
		// input instead of hiding it.
		NetPay:      totalEarnings - totalDeductions,
		PayableDays: payableDays(presentEquivalent, in.Attendance.TotalWorkingDays),
	}
}

// resolveAllowance applies the documented priority: an enabled config rule
// wins, then a custom override, then the hardcoded default.
func resolveAllowance(rule *AllowanceRule, override *float64, basic, fallback float64) float64 {
	if rule != nil && rule.Enabled {
		if rule.Method == AllowanceMethodPercentage {
			return math.Round(rule.Value / 100 * basic)
		}
		return rule.Value
	}
	if override != nil {
		return *override
	}
	return fallback
}

func payableDays(presentEquivalent float64, workingDays int) string {
	return strconv.FormatFloat(presentEquivalent, 'f', -1, 64) + "/" + fmt.Sprint(workingDays)
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func orZero(v *float64) float64 {
	if v != nil {
		return *v
	}
	return 0
}
