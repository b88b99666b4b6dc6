package payroll

import (
	"time"

	"hr-core/internal/attendance"
)

// halfDayThresholdHours: a day with more than zero but fewer hours than this
// is reclassified from present to half-day regardless of its stored status.
const halfDayThresholdHours = 4.0

// PeriodAttendance is the aggregate the calculator consumes, and the snapshot
// frozen onto the payslip.
type PeriodAttendance struct {
	TotalWorkingDays int     `json:"total_working_days"`
	HolidayDays      int     `json:"holiday_days"`
	PresentDays      int     `json:"present_days"`
	AbsentDays       int     `json:"absent_days"`
	HalfDays         int     `json:"half_days"`
	OvertimeHours    float64 `json:"overtime_hours"`
	LateComings      int     `json:"late_comings"`
}

// AggregateAttendance reduces the day records of [start, end] to period
// counts. Working days exclude Sundays only; Saturdays count. Absences are
// not enumerated from ABSENT rows: an employee with no record at all for a
// working day must still count as absent, so absentDays is reconciled by
// subtraction from the working-day total instead.
func AggregateAttendance(start, end time.Time, days []attendance.AttendanceDay) PeriodAttendance {
	byDate := make(map[string]*attendance.AttendanceDay, len(days))
	for i := range days {
		byDate[days[i].WorkDate.Format("2006-01-02")] = &days[i]
	}

	var agg PeriodAttendance

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		agg.TotalWorkingDays++

		day, ok := byDate[d.Format("2006-01-02")]
		if !ok {
			continue
		}

		if day.Status == attendance.StatusHoliday {
			agg.HolidayDays++
			continue
		}

		if day.Status == attendance.StatusLate {
			agg.LateComings++
		}
		agg.OvertimeHours += day.OvertimeHours

		switch {
		case day.TotalHours > 0 && day.TotalHours < halfDayThresholdHours:
			agg.HalfDays++
		case day.Status == attendance.StatusPresent, day.Status == attendance.StatusLate:
			// Late still means the employee showed up; it must land in the
			// present bucket or the absence subtraction below double-counts.
			agg.PresentDays++
		}
	}

	agg.AbsentDays = agg.TotalWorkingDays - agg.HolidayDays - agg.PresentDays - agg.HalfDays
	if agg.AbsentDays < 0 {
		agg.AbsentDays = 0
	}

	return agg
}
