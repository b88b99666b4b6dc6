package employee

import (
	"context"
	"database/sql"
	"testing"

	employeeerrors "hr-core/internal/employee/errors"
	"hr-core/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn    func(tx *sql.Tx) Repository
	create      func(ctx context.Context, empl *Employee) error
	findAll     func(ctx context.Context, companyID string) ([]Employee, error)
	findByID    func(ctx context.Context, companyID, id string) (*Employee, error)
	findOptions func(ctx context.Context, companyID string) ([]Employee, error)
	update      func(ctx context.Context, empl *Employee) error
	deleteFn    func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, empl *Employee) error {
	return f.create(ctx, empl)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return f.findAll(ctx, companyID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	return f.findByID(ctx, companyID, id)
}
func (f *fakeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return f.findOptions(ctx, companyID)
}
func (f *fakeRepo) Update(ctx context.Context, empl *Employee) error { return f.update(ctx, empl) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func newFakeRepo() *fakeRepo {
	f := &fakeRepo{}
	f.withTxFn = func(tx *sql.Tx) Repository { return f }
	return f
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error               { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestService_Create_GeneratesNumberAndQueuesEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()

	var saved *Employee
	repo := newFakeRepo()
	repo.create = func(ctx context.Context, empl *Employee) error {
		saved = empl
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, &fakeCounter{}, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), companyID, CreateEmployeeRequest{
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		BaseSalary: 26000,
		HireDate:   "2024-06-01",
	})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
	assert.Equal(t, EmploymentStatusActive, resp.EmploymentStatus)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "employee_created", outbox.events[0].EventType)
	assert.Equal(t, "hr.employee.lifecycle.v1", outbox.events[0].Topic)
	assert.Equal(t, saved.ID.String(), outbox.events[0].AggregateID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_KeepsProvidedNumber(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.create = func(ctx context.Context, empl *Employee) error { return nil }

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), uuid.New().String(), CreateEmployeeRequest{
		FullName:       "Dev Mehta",
		Email:          "dev@example.com",
		EmployeeNumber: "EMP-CUSTOM",
		BaseSalary:     30000,
		HireDate:       "2024-01-15",
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-CUSTOM", resp.EmployeeNumber)
}

func TestService_Create_InvalidHireDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeRepo(), &fakeCounter{}, nil)
	_, err := svc.Create(context.Background(), uuid.New().String(), CreateEmployeeRequest{
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		BaseSalary: 26000,
		HireDate:   "01/06/2024",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
}

func TestService_Create_DuplicateEmailMapped(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.create = func(ctx context.Context, empl *Employee) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateEmployeeRequest{
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		BaseSalary: 26000,
		HireDate:   "2024-06-01",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFoundMapped(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByID = func(ctx context.Context, companyID, id string) (*Employee, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)
	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_GetOptions_SingleflightWithoutRedis(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	calls := 0
	repo := newFakeRepo()
	repo.findOptions = func(ctx context.Context, companyID string) ([]Employee, error) {
		calls++
		return []Employee{{ID: uuid.New(), CompanyID: uuid.New(), FullName: "Asha Rao"}}, nil
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	resp, err := svc.GetOptions(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, 1, calls)
}
