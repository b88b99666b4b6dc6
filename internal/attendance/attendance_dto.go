package attendance

type PunchInRequest struct {
	TzOffset int `json:"tz_offset"`
}

type PunchOutRequest struct {
	TzOffset int `json:"tz_offset"`
}

type BreakRequest struct {
	Type     string `json:"type" binding:"required,oneof=break1 break2 lunch"`
	TzOffset int    `json:"tz_offset"`
}

type RangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type BreakResponse struct {
	Type            string  `json:"type"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type DayResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	EmployeeID    string          `json:"employee_id"`
	WorkDate      string          `json:"work_date"`
	PunchIn       string          `json:"punch_in"`
	PunchOut      *string         `json:"punch_out,omitempty"`
	IsActive      bool            `json:"is_active"`
	Status        string          `json:"status"`
	BreakMinutes  int             `json:"break_minutes"`
	Breaks        []BreakResponse `json:"breaks"`
	TotalHours    float64         `json:"total_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	LiveHours     float64         `json:"live_hours"`
}
