package events

import "time"

const PayslipProcessedTopic = "hr.payroll.payslip.processed.v1"

type PayslipProcessedEvent struct {
	EventType  string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	PayslipID  string    `json:"payslip_id"`
	PeriodID   string    `json:"period_id"`
	NetPay     float64   `json:"net_pay"`
	OccurredAt time.Time `json:"occurred_at"`
}
