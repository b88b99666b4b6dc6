package attendance

import (
	"math"
	"time"

	attendanceerrors "hr-core/internal/attendance/errors"

	"github.com/google/uuid"
)

// StandardDayHours is the length of a regular working day; anything beyond it
// at punch-out counts as overtime.
const StandardDayHours = 8.0

// Day-state transitions per (employee, date):
//
//	NoRecord -> PunchedIn -> (BreakOpen <-> PunchedIn) -> PunchedOut (terminal)
//
// All transitions are methods on the in-memory record so the invariants live
// in one place; the service layer only handles fetching, locking and saving.

// NewDay creates the day record for the first punch-in. The engine only ever
// sets PRESENT; reclassification (late, holiday) belongs to the caller.
func NewDay(companyID, employeeID uuid.UUID, workDate time.Time, punchIn time.Time) *AttendanceDay {
	return &AttendanceDay{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		WorkDate:   workDate,
		PunchIn:    punchIn,
		IsActive:   true,
		Status:     StatusPresent,
	}
}

// StartBreak opens a break of the given type. Each type is usable once per
// day and only one break may be open at a time.
func (d *AttendanceDay) StartBreak(breakType string, now time.Time) error {
	if !ValidBreakType(breakType) {
		return attendanceerrors.ErrInvalidBreakType
	}
	if !d.IsActive {
		return attendanceerrors.ErrNotPunchedIn
	}
	if d.openBreak() != nil {
		return attendanceerrors.ErrBreakAlreadyActive
	}
	for i := range d.Breaks {
		if d.Breaks[i].Type == breakType {
			return attendanceerrors.ErrBreakAlreadyUsed
		}
	}

	d.Breaks = append(d.Breaks, BreakInterval{
		ID:              uuid.New(),
		AttendanceDayID: d.ID,
		Type:            breakType,
		StartTime:       now,
	})
	return nil
}

// EndBreak closes the open break of the given type. Durations are whole
// minutes (floored) and silently truncated to the type cap; when truncated
// the stored end time is start+cap, not the wall-clock end.
func (d *AttendanceDay) EndBreak(breakType string, now time.Time) error {
	if !ValidBreakType(breakType) {
		return attendanceerrors.ErrInvalidBreakType
	}
	if !d.IsActive {
		return attendanceerrors.ErrNotPunchedIn
	}

	open := d.openBreak()
	if open == nil || open.Type != breakType {
		return attendanceerrors.ErrBreakNotOpen
	}

	closeBreak(open, now)
	d.recomputeBreakMinutes()
	return nil
}

// CapOverrunBreaks is the idempotent reconciliation pass run before any read.
// An open break past its cap is force-closed at exactly start+cap so a
// forgotten break cannot silently inflate "currently working" time. Returns
// whether the record changed.
func (d *AttendanceDay) CapOverrunBreaks(now time.Time) bool {
	open := d.openBreak()
	if open == nil {
		return false
	}

	cap := TypeCap(open.Type)
	if elapsedMinutes(open.StartTime, now) <= cap {
		return false
	}

	end := open.StartTime.Add(time.Duration(cap) * time.Minute)
	closeBreak(open, end)
	d.recomputeBreakMinutes()
	return true
}

// CompleteDay closes the day at punch-out. A still-open break is auto-closed
// first under the capping rule, then totals are derived and the record goes
// inactive.
func (d *AttendanceDay) CompleteDay(now time.Time) error {
	if !d.IsActive {
		return attendanceerrors.ErrNotPunchedIn
	}

	if open := d.openBreak(); open != nil {
		closeBreak(open, now)
		d.recomputeBreakMinutes()
	}

	worked := now.Sub(d.PunchIn).Hours() - float64(d.BreakMinutes)/60
	if worked < 0 {
		worked = 0
	}

	d.TotalHours = round2(worked)
	d.OvertimeHours = round2(math.Max(0, worked-StandardDayHours))
	d.PunchOut = &now
	d.IsActive = false
	return nil
}

// LiveWorkedHours projects the continuously advancing "hours worked today"
// for display while the day is still active. Never persisted.
func (d *AttendanceDay) LiveWorkedHours(now time.Time) float64 {
	if !d.IsActive {
		return d.TotalHours
	}

	breakMinutes := d.BreakMinutes
	if open := d.openBreak(); open != nil {
		elapsed := elapsedMinutes(open.StartTime, now)
		if cap := TypeCap(open.Type); elapsed > cap {
			elapsed = cap
		}
		breakMinutes += elapsed
	}

	worked := now.Sub(d.PunchIn).Hours() - float64(breakMinutes)/60
	if worked < 0 {
		worked = 0
	}
	return round2(worked)
}

func (d *AttendanceDay) openBreak() *BreakInterval {
	for i := range d.Breaks {
		if d.Breaks[i].Open() {
			return &d.Breaks[i]
		}
	}
	return nil
}

func (d *AttendanceDay) recomputeBreakMinutes() {
	total := 0
	for i := range d.Breaks {
		if d.Breaks[i].DurationMinutes != nil {
			total += *d.Breaks[i].DurationMinutes
		}
	}
	d.BreakMinutes = total
}

// closeBreak applies the shared capping rule: duration is elapsed whole
// minutes truncated to the cap, and a truncated break ends at start+cap.
func closeBreak(b *BreakInterval, now time.Time) {
	cap := TypeCap(b.Type)
	duration := elapsedMinutes(b.StartTime, now)
	end := now
	if duration > cap {
		duration = cap
		end = b.StartTime.Add(time.Duration(cap) * time.Minute)
	}
	b.EndTime = &end
	b.DurationMinutes = &duration
}

func elapsedMinutes(from, to time.Time) int {
	m := int(to.Sub(from).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
