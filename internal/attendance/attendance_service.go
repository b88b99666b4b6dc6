package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "hr-core/internal/attendance/errors"
	"hr-core/internal/shared/businessday"
	"hr-core/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lateThresholdMinutes: punch-ins after 09:15 client-local get reclassified
// to LATE by the service. The day-state engine itself only sets PRESENT.
const lateThresholdMinutes = 9*60 + 15

type Service interface {
	PunchIn(ctx context.Context, companyID, employeeID string, req PunchInRequest) (DayResponse, error)
	PunchOut(ctx context.Context, companyID, employeeID string, req PunchOutRequest) (DayResponse, error)
	StartBreak(ctx context.Context, companyID, employeeID string, req BreakRequest) (DayResponse, error)
	EndBreak(ctx context.Context, companyID, employeeID string, req BreakRequest) (DayResponse, error)
	GetToday(ctx context.Context, companyID, employeeID string, tzOffset int) (DayResponse, error)
	GetRange(ctx context.Context, companyID, employeeID string, q RangeQuery) ([]DayResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

func (s *service) PunchIn(ctx context.Context, companyID, employeeID string, req PunchInRequest) (DayResponse, error) {
	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return DayResponse{}, err
	}

	now := s.now().UTC()
	workDate := businessday.For(now, req.TzOffset)

	day := NewDay(companyUUID, employeeUUID, workDate, now)
	if isLate(now, req.TzOffset) {
		day.Status = StatusLate
	}

	created, err := s.repo.CreateIfAbsent(ctx, day)
	if err != nil {
		return DayResponse{}, err
	}
	if !created {
		s.logger.Debug("duplicate punch-in rejected",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", employeeID),
			zap.String("work_date", workDate.Format("2006-01-02")),
		)
		return DayResponse{}, attendanceerrors.ErrAlreadyPunchedIn
	}

	return mapToResponse(*day, now), nil
}

func (s *service) PunchOut(ctx context.Context, companyID, employeeID string, req PunchOutRequest) (DayResponse, error) {
	return s.mutateDay(ctx, companyID, employeeID, req.TzOffset, func(day *AttendanceDay, now time.Time) error {
		return day.CompleteDay(now)
	})
}

func (s *service) StartBreak(ctx context.Context, companyID, employeeID string, req BreakRequest) (DayResponse, error) {
	return s.mutateDay(ctx, companyID, employeeID, req.TzOffset, func(day *AttendanceDay, now time.Time) error {
		return day.StartBreak(req.Type, now)
	})
}

func (s *service) EndBreak(ctx context.Context, companyID, employeeID string, req BreakRequest) (DayResponse, error) {
	return s.mutateDay(ctx, companyID, employeeID, req.TzOffset, func(day *AttendanceDay, now time.Time) error {
		return day.EndBreak(req.Type, now)
	})
}

// mutateDay wraps the shared fetch-lock-reconcile-mutate-save cycle. The row
// lock on the day record serializes concurrent break and punch mutations for
// the same (employee, date).
func (s *service) mutateDay(
	ctx context.Context,
	companyID, employeeID string,
	tzOffset int,
	mutate func(day *AttendanceDay, now time.Time) error,
) (DayResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return DayResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	workDate := businessday.For(now, tzOffset)

	day, err := qtx.FindByEmployeeAndDateForUpdate(ctx, companyID, employeeID, workDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DayResponse{}, attendanceerrors.ErrNotPunchedIn
		}
		return DayResponse{}, err
	}

	// Reconcile before acting so the mutation sees a record that already
	// honors the break-cap invariant.
	day.CapOverrunBreaks(now)

	if err := mutate(day, now); err != nil {
		return DayResponse{}, err
	}

	if err := qtx.Update(ctx, day); err != nil {
		return DayResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DayResponse{}, err
	}
	return mapToResponse(*day, now), nil
}

func (s *service) GetToday(ctx context.Context, companyID, employeeID string, tzOffset int) (DayResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return DayResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	workDate := businessday.For(now, tzOffset)

	day, err := qtx.FindByEmployeeAndDateForUpdate(ctx, companyID, employeeID, workDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DayResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return DayResponse{}, err
	}

	// Reads reconcile too: an overrun break is capped and persisted here, not
	// silently projected around.
	if day.CapOverrunBreaks(now) {
		if err := qtx.Update(ctx, day); err != nil {
			return DayResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return DayResponse{}, err
	}
	return mapToResponse(*day, now), nil
}

func (s *service) GetRange(ctx context.Context, companyID, employeeID string, q RangeQuery) ([]DayResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return nil, err
	}

	from, err := time.Parse("2006-01-02", q.From)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse("2006-01-02", q.To)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}

	rows, err := s.repo.FindRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	res := make([]DayResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row, now)
	}
	return res, nil
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return companyUUID, employeeUUID, nil
}

func isLate(now time.Time, tzOffset int) bool {
	local := now.Add(-time.Duration(tzOffset) * time.Minute)
	return local.Hour()*60+local.Minute() > lateThresholdMinutes
}

func mapToResponse(d AttendanceDay, now time.Time) DayResponse {
	resp := DayResponse{
		ID:            d.ID.String(),
		CompanyID:     d.CompanyID.String(),
		EmployeeID:    d.EmployeeID.String(),
		WorkDate:      d.WorkDate.Format("2006-01-02"),
		PunchIn:       d.PunchIn.Format(time.RFC3339),
		IsActive:      d.IsActive,
		Status:        d.Status,
		BreakMinutes:  d.BreakMinutes,
		TotalHours:    d.TotalHours,
		OvertimeHours: d.OvertimeHours,
		LiveHours:     d.LiveWorkedHours(now),
		Breaks:        make([]BreakResponse, len(d.Breaks)),
	}
	if d.PunchOut != nil {
		v := d.PunchOut.Format(time.RFC3339)
		resp.PunchOut = &v
	}
	for i, b := range d.Breaks {
		br := BreakResponse{
			Type:            b.Type,
			StartTime:       b.StartTime.Format(time.RFC3339),
			DurationMinutes: b.DurationMinutes,
		}
		if b.EndTime != nil {
			v := b.EndTime.Format(time.RFC3339)
			br.EndTime = &v
		}
		resp.Breaks[i] = br
	}
	return resp
}
