package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hr-core/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePeriod(ctx context.Context, p *PayrollPeriod) error
	FindPeriodByID(ctx context.Context, companyID, id string) (*PayrollPeriod, error)
	FindAllPeriods(ctx context.Context, companyID string) ([]PayrollPeriod, error)
	// ActivatePeriod deactivates every period of the company and activates
	// one, atomically. No reader may observe zero or two active periods.
	ActivatePeriod(ctx context.Context, companyID, id string) (*PayrollPeriod, error)
	HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error)

	// UpsertPayslip inserts, or overwrites the existing payslip for the same
	// (employee, period range) and appends one edit-history entry. Returns
	// whether a new row was created.
	UpsertPayslip(ctx context.Context, p *EmployeePayslip, editedBy uuid.UUID, editedAt time.Time) (bool, error)
	FindPayslipByID(ctx context.Context, companyID, id string) (*EmployeePayslip, error)
	FindAllPayslips(ctx context.Context, companyID string, filter PayslipFilterRequest) ([]EmployeePayslip, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm session onto the caller's transaction connection,
// the same ConnPool swap gorm performs in its own Begin. The payslip upsert
// and the outbox insert share that transaction, so they commit or roll back
// together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txDB := r.db.Session(&gorm.Session{NewDB: true})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

func (r *repository) CreatePeriod(ctx context.Context, p *PayrollPeriod) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPeriodByID(ctx context.Context, companyID, id string) (*PayrollPeriod, error) {
	var p PayrollPeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAllPeriods(ctx context.Context, companyID string) ([]PayrollPeriod, error) {
	var rows []PayrollPeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ActivatePeriod(ctx context.Context, companyID, id string) (*PayrollPeriod, error) {
	var activated PayrollPeriod

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&PayrollPeriod{}).
			Scopes(tenant.Scope(companyID)).
			Where("id = ?", id).
			Updates(map[string]any{"is_active": true, "status": PeriodStatusCurrent})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&PayrollPeriod{}).
			Scopes(tenant.Scope(companyID)).
			Where("id <> ?", id).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Scopes(tenant.Scope(companyID)).First(&activated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &activated, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(companyID)).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpsertPayslip(ctx context.Context, p *EmployeePayslip, editedBy uuid.UUID, editedAt time.Time) (bool, error) {
	var existing EmployeePayslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(p.CompanyID.String())).
		Where("employee_id = ?", p.EmployeeID).
		Where("period_start = ?", p.PeriodStart.Format("2006-01-02")).
		Where("period_end = ?", p.PeriodEnd.Format("2006-01-02")).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.db.WithContext(ctx).Omit("EditHistory").Create(p).Error
	}
	if err != nil {
		return false, err
	}

	// Overwrite in place: identity and number survive, everything computed
	// is replaced, and the overwrite leaves an append-only audit entry.
	p.ID = existing.ID
	p.PayslipNumber = existing.PayslipNumber
	p.CreatedAt = existing.CreatedAt

	if err := r.db.WithContext(ctx).Omit("EditHistory").Save(p).Error; err != nil {
		return false, err
	}

	edit := PayslipEdit{
		ID:        uuid.New(),
		PayslipID: p.ID,
		Field:     "full_payslip",
		EditedBy:  editedBy,
		EditedAt:  editedAt,
	}
	return false, r.db.WithContext(ctx).Create(&edit).Error
}

func (r *repository) FindPayslipByID(ctx context.Context, companyID, id string) (*EmployeePayslip, error) {
	var p EmployeePayslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("EditHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("edited_at ASC")
		}).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAllPayslips(ctx context.Context, companyID string, filter PayslipFilterRequest) ([]EmployeePayslip, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID))

	if filter.PeriodID != "" {
		db = db.Where("period_id = ?", filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var rows []EmployeePayslip
	err := db.Order("period_start DESC, created_at DESC").Find(&rows).Error
	return rows, err
}
