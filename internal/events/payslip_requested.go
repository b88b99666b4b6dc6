package events

import "time"

const PayslipRequestedTopic = "hr.payroll.payslip.requested.v1"

// PayslipRequestedEvent asks the consumer to calculate one payslip. Batch
// payroll runs enqueue one event per employee.
type PayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	CompanyID   string    `json:"company_id"`
	EmployeeID  string    `json:"employee_id"`
	PeriodID    string    `json:"period_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
