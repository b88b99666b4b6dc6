package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "hr-core/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn       func(tx *sql.Tx) Repository
	createIfAbsent func(ctx context.Context, d *AttendanceDay) (bool, error)
	findByDateLock func(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error)
	findRange      func(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceDay, error)
	update         func(ctx context.Context, d *AttendanceDay) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) CreateIfAbsent(ctx context.Context, d *AttendanceDay) (bool, error) {
	return f.createIfAbsent(ctx, d)
}
func (f *fakeRepo) FindByEmployeeAndDateForUpdate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error) {
	return f.findByDateLock(ctx, companyID, employeeID, date)
}
func (f *fakeRepo) FindRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceDay, error) {
	return f.findRange(ctx, companyID, employeeID, from, to)
}
func (f *fakeRepo) Update(ctx context.Context, d *AttendanceDay) error { return f.update(ctx, d) }

func newFakeRepo() *fakeRepo {
	f := &fakeRepo{}
	f.withTxFn = func(tx *sql.Tx) Repository { return f }
	return f
}

func TestService_PunchInThenPunchOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	var saved *AttendanceDay
	repo := newFakeRepo()
	repo.createIfAbsent = func(ctx context.Context, d *AttendanceDay) (bool, error) {
		saved = d
		return true, nil
	}
	repo.findByDateLock = func(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error) {
		if saved == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return saved, nil
	}
	repo.update = func(ctx context.Context, d *AttendanceDay) error {
		saved = d
		return nil
	}

	svc := NewService(db, repo).(*service)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	inResp, err := svc.PunchIn(ctx, companyID, employeeID, PunchInRequest{})
	assert.NoError(t, err)
	assert.True(t, inResp.IsActive)
	assert.Equal(t, "2025-03-10", inResp.WorkDate)
	assert.Equal(t, StatusPresent, inResp.Status)

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.PunchOut(ctx, companyID, employeeID, PunchOutRequest{})
	assert.NoError(t, err)
	assert.False(t, outResp.IsActive)
	assert.NotNil(t, outResp.PunchOut)
	assert.Equal(t, 8.5, outResp.TotalHours)
	assert.Equal(t, 0.5, outResp.OvertimeHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_PunchIn_DuplicateRejected(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.createIfAbsent = func(ctx context.Context, d *AttendanceDay) (bool, error) {
		// Row lost to the unique index: someone else punched in first.
		return false, nil
	}

	svc := NewService(db, repo)
	_, err := svc.PunchIn(context.Background(), uuid.New().String(), uuid.New().String(), PunchInRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyPunchedIn)
}

func TestService_PunchIn_LateAfterThreshold(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.createIfAbsent = func(ctx context.Context, d *AttendanceDay) (bool, error) { return true, nil }

	svc := NewService(db, repo).(*service)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }

	resp, err := svc.PunchIn(context.Background(), uuid.New().String(), uuid.New().String(), PunchInRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusLate, resp.Status)
}

func TestService_PunchIn_TzOffsetBucketsClientDay(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.createIfAbsent = func(ctx context.Context, d *AttendanceDay) (bool, error) { return true, nil }

	svc := NewService(db, repo).(*service)
	// 23:30 UTC on the 10th is already the 11th for a UTC+5:30 client.
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC) }

	resp, err := svc.PunchIn(context.Background(), uuid.New().String(), uuid.New().String(), PunchInRequest{TzOffset: -330})
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.WorkDate)
}

func TestService_PunchOut_WithoutPunchIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByDateLock = func(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.PunchOut(context.Background(), uuid.New().String(), uuid.New().String(), PunchOutRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrNotPunchedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetToday_PersistsCapReconciliation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()

	punchIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day := NewDay(companyID, employeeID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), punchIn)
	assert.NoError(t, day.StartBreak(BreakTypeLunch, punchIn.Add(3*time.Hour)))

	updated := false
	repo := newFakeRepo()
	repo.findByDateLock = func(ctx context.Context, cid, eid string, date time.Time) (*AttendanceDay, error) {
		return day, nil
	}
	repo.update = func(ctx context.Context, d *AttendanceDay) error {
		updated = true
		return nil
	}

	svc := NewService(db, repo).(*service)
	// Lunch has been open 90 minutes against a 30 minute cap.
	svc.now = func() time.Time { return punchIn.Add(4*time.Hour + 30*time.Minute) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.GetToday(context.Background(), companyID.String(), employeeID.String(), 0)
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 30, resp.BreakMinutes)
	// 4.5h wall clock minus the capped 30 minutes.
	assert.Equal(t, 4.0, resp.LiveHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetRange_InvalidDates(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeRepo())
	_, err := svc.GetRange(context.Background(), uuid.New().String(), uuid.New().String(), RangeQuery{From: "03/10/2025", To: "2025-03-31"})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateFormat)
}
