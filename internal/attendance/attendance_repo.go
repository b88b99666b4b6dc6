package attendance

import (
	"context"
	"database/sql"
	"time"

	"hr-core/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// CreateIfAbsent inserts the day record unless one already exists for
	// (company, employee, work_date). Returns false when the row was lost to
	// the unique index, which is how concurrent double punch-ins surface.
	CreateIfAbsent(ctx context.Context, d *AttendanceDay) (bool, error)
	// FindByEmployeeAndDateForUpdate takes a row lock so break and punch
	// mutations for the same day serialize.
	FindByEmployeeAndDateForUpdate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error)
	FindRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceDay, error)
	Update(ctx context.Context, d *AttendanceDay) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm session onto the caller's transaction connection,
// the same ConnPool swap gorm performs in its own Begin. The row lock taken
// by FindByEmployeeAndDateForUpdate is only held until that transaction ends,
// so every statement of the mutation must run on it.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txDB := r.db.Session(&gorm.Session{NewDB: true})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

func (r *repository) CreateIfAbsent(ctx context.Context, d *AttendanceDay) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit("Breaks").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "employee_id"}, {Name: "work_date"}},
			DoNothing: true,
		}).
		Create(d)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByEmployeeAndDateForUpdate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceDay, error) {
	var d AttendanceDay
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&d).Error
	if err != nil {
		return nil, err
	}

	// Breaks are loaded separately; FOR UPDATE does not combine with a join
	// preload and the day-row lock is what serializes break mutations.
	err = r.db.WithContext(ctx).
		Where("attendance_day_id = ?", d.ID).
		Order("start_time ASC").
		Find(&d.Breaks).Error
	return &d, err
}

func (r *repository) FindRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceDay, error) {
	var rows []AttendanceDay
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Preload("Breaks", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Order("work_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, d *AttendanceDay) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(d).Error
}
