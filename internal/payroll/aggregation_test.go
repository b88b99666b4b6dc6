package payroll

import (
	"testing"
	"time"

	"hr-core/internal/attendance"

	"github.com/stretchr/testify/assert"
)

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	assert.NoError(t, err)
	return d
}

func day(t *testing.T, workDate, status string, totalHours, overtimeHours float64) attendance.AttendanceDay {
	t.Helper()
	return attendance.AttendanceDay{
		WorkDate:      date(t, workDate),
		Status:        status,
		TotalHours:    totalHours,
		OvertimeHours: overtimeHours,
	}
}

func TestWorkingDaysExcludeSundaysOnly(t *testing.T) {
	// March 2025 has five Sundays.
	agg := AggregateAttendance(date(t, "2025-03-01"), date(t, "2025-03-31"), nil)

	assert.Equal(t, 26, agg.TotalWorkingDays)
	// No records at all means every working day is an absence.
	assert.Equal(t, 26, agg.AbsentDays)
}

func TestSaturdayIsAWorkingDay(t *testing.T) {
	// 2025-03-08 is a Saturday.
	agg := AggregateAttendance(date(t, "2025-03-08"), date(t, "2025-03-08"), []attendance.AttendanceDay{
		day(t, "2025-03-08", attendance.StatusPresent, 8, 0),
	})

	assert.Equal(t, 1, agg.TotalWorkingDays)
	assert.Equal(t, 1, agg.PresentDays)
	assert.Equal(t, 0, agg.AbsentDays)
}

func TestSundayRecordIsIgnored(t *testing.T) {
	// 2025-03-09 is a Sunday; a punch record on it affects nothing.
	agg := AggregateAttendance(date(t, "2025-03-09"), date(t, "2025-03-10"), []attendance.AttendanceDay{
		day(t, "2025-03-09", attendance.StatusPresent, 8, 0),
		day(t, "2025-03-10", attendance.StatusPresent, 8, 0),
	})

	assert.Equal(t, 1, agg.TotalWorkingDays)
	assert.Equal(t, 1, agg.PresentDays)
}

func TestShortDayReclassifiedAsHalfDay(t *testing.T) {
	agg := AggregateAttendance(date(t, "2025-03-10"), date(t, "2025-03-12"), []attendance.AttendanceDay{
		day(t, "2025-03-10", attendance.StatusPresent, 3.5, 0),
		day(t, "2025-03-11", attendance.StatusPresent, 4.0, 0),
		day(t, "2025-03-12", attendance.StatusPresent, 0, 0),
	})

	assert.Equal(t, 1, agg.HalfDays)
	// Exactly four hours stays a full present day, and so does a zero-hour
	// record; only the open interval (0, 4) reclassifies.
	assert.Equal(t, 2, agg.PresentDays)
	assert.Equal(t, 0, agg.AbsentDays)
}

func TestLateStillCountsAsPresent(t *testing.T) {
	agg := AggregateAttendance(date(t, "2025-03-10"), date(t, "2025-03-11"), []attendance.AttendanceDay{
		day(t, "2025-03-10", attendance.StatusLate, 8, 0),
		day(t, "2025-03-11", attendance.StatusLate, 3, 0),
	})

	assert.Equal(t, 2, agg.LateComings)
	assert.Equal(t, 1, agg.PresentDays)
	assert.Equal(t, 1, agg.HalfDays)
	assert.Equal(t, 0, agg.AbsentDays)
}

func TestHolidayShrinksAbsenceBase(t *testing.T) {
	agg := AggregateAttendance(date(t, "2025-03-10"), date(t, "2025-03-12"), []attendance.AttendanceDay{
		day(t, "2025-03-10", attendance.StatusHoliday, 0, 0),
		day(t, "2025-03-11", attendance.StatusPresent, 8, 0),
	})

	assert.Equal(t, 3, agg.TotalWorkingDays)
	assert.Equal(t, 1, agg.HolidayDays)
	assert.Equal(t, 1, agg.PresentDays)
	assert.Equal(t, 1, agg.AbsentDays)
}

func TestOvertimeHoursAreSummed(t *testing.T) {
	agg := AggregateAttendance(date(t, "2025-03-10"), date(t, "2025-03-11"), []attendance.AttendanceDay{
		day(t, "2025-03-10", attendance.StatusPresent, 9.5, 1.5),
		day(t, "2025-03-11", attendance.StatusPresent, 10, 2),
	})

	assert.Equal(t, 3.5, agg.OvertimeHours)
}

func TestDayBucketsAlwaysReconcile(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		days []attendance.AttendanceDay
	}{
		{"empty period", "2025-03-01", "2025-03-31", nil},
		{
			"mixed statuses",
			"2025-03-01", "2025-03-31",
			[]attendance.AttendanceDay{
				day(t, "2025-03-03", attendance.StatusPresent, 8, 0),
				day(t, "2025-03-04", attendance.StatusLate, 8.5, 0.5),
				day(t, "2025-03-05", attendance.StatusPresent, 2, 0),
				day(t, "2025-03-06", attendance.StatusHoliday, 0, 0),
				day(t, "2025-03-07", attendance.StatusAbsent, 0, 0),
			},
		},
		{
			"record on every working day",
			"2025-03-10", "2025-03-15",
			[]attendance.AttendanceDay{
				day(t, "2025-03-10", attendance.StatusPresent, 8, 0),
				day(t, "2025-03-11", attendance.StatusPresent, 8, 0),
				day(t, "2025-03-12", attendance.StatusLate, 3, 0),
				day(t, "2025-03-13", attendance.StatusHoliday, 0, 0),
				day(t, "2025-03-14", attendance.StatusPresent, 8, 0),
				day(t, "2025-03-15", attendance.StatusPresent, 8, 0),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := AggregateAttendance(date(t, tc.from), date(t, tc.to), tc.days)
			sum := agg.PresentDays + agg.HalfDays + agg.AbsentDays + agg.HolidayDays
			assert.Equal(t, agg.TotalWorkingDays, sum)
			assert.GreaterOrEqual(t, agg.AbsentDays, 0)
		})
	}
}
