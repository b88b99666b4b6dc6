package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-core/internal/attendance"
	"hr-core/internal/events"
	"hr-core/internal/messaging/kafka"
	payrollerrors "hr-core/internal/payroll/errors"
	"hr-core/internal/shared/contextutil"
	"hr-core/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DirectoryProfile is what the payroll engine needs to know about an
// employee; the directory itself is an external collaborator.
type DirectoryProfile struct {
	FullName       string
	BaseSalary     float64
	JoinDate       time.Time
	DepartmentName string
	Designation    string
}

type Directory interface {
	Profile(ctx context.Context, companyID, employeeID string) (DirectoryProfile, error)
}

// AttendanceSource is the slice of the attendance store the aggregation step
// reads; attendance.Repository satisfies it.
type AttendanceSource interface {
	FindRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error)
}

type Service interface {
	CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error)
	ActivatePeriod(ctx context.Context, companyID, id string) (PeriodResponse, error)

	CalculatePayslip(ctx context.Context, companyID, actorID string, req CalculatePayslipRequest) (PayslipResponse, error)
	RequestPayslips(ctx context.Context, companyID, actorID string, req RequestPayslipsRequest) (int, error)
	GetPayslips(ctx context.Context, companyID string, filter PayslipFilterRequest) ([]PayslipResponse, error)
	GetPayslipByID(ctx context.Context, companyID, id string) (PayslipResponse, error)
	PayslipPDF(ctx context.Context, companyID, id string) ([]byte, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	directory  Directory
	attendance AttendanceSource
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory Directory,
	attendanceSource AttendanceSource,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, directory, attendanceSource, counterRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	directory Directory,
	attendanceSource AttendanceSource,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		directory:  directory,
		attendance: attendanceSource,
		counter:    counterRepo,
		outbox:     outboxRepo,
		logger:     l,
		now:        time.Now,
	}
}

func (s *service) CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidCompanyID
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return PeriodResponse{}, payrollerrors.ErrInvalidDateRange
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, companyID, start, end)
	if err != nil {
		return PeriodResponse{}, err
	}
	if overlap {
		return PeriodResponse{}, payrollerrors.ErrPeriodOverlap
	}

	period := &PayrollPeriod{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		Label:      req.Label,
		RangeLabel: fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006")),
		StartDate:  start,
		EndDate:    end,
		Status:     PeriodStatusUpcoming,
	}

	if err := s.repo.CreatePeriod(ctx, period); err != nil {
		return PeriodResponse{}, err
	}
	return mapPeriodToResponse(*period), nil
}

func (s *service) GetPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error) {
	rows, err := s.repo.FindAllPeriods(ctx, companyID)
	if err != nil {
		return nil, err
	}
	res := make([]PeriodResponse, len(rows))
	for i, row := range rows {
		res[i] = mapPeriodToResponse(row)
	}
	return res, nil
}

func (s *service) ActivatePeriod(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidPeriodID
	}

	period, err := s.repo.ActivatePeriod(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}
	return mapPeriodToResponse(*period), nil
}

func validateAllowanceMethods(cfg AllowanceConfig) error {
	for _, rule := range []*AllowanceRule{cfg.HRA, cfg.Conveyance, cfg.Medical, cfg.Special} {
		if rule == nil || rule.Method == "" {
			continue
		}
		if rule.Method != AllowanceMethodPercentage && rule.Method != AllowanceMethodFixed {
			return payrollerrors.ErrInvalidAllowanceMethod
		}
	}
	return nil
}

func (s *service) CalculatePayslip(ctx context.Context, companyID, actorID string, req CalculatePayslipRequest) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidEmployeeID
	}

	// Requests arriving through the consumer skip gin binding, so the
	// allowance methods are checked here as well.
	if err := validateAllowanceMethods(req.Config.Allowances); err != nil {
		return PayslipResponse{}, err
	}

	period, err := s.repo.FindPeriodByID(ctx, companyID, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return PayslipResponse{}, err
	}

	// The employee must exist before any computation; no partial payslip is
	// ever written for an unknown employee.
	profile, err := s.directory.Profile(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, err
	}

	days, err := s.attendance.FindRange(ctx, companyID, req.EmployeeID, period.StartDate, period.EndDate)
	if err != nil {
		return PayslipResponse{}, err
	}

	agg := AggregateAttendance(period.StartDate, period.EndDate, days)
	breakdown := Calculate(CalcInput{
		BaseSalary:       profile.BaseSalary,
		Attendance:       agg,
		Config:           req.Config,
		CustomEarnings:   req.Earnings,
		CustomDeductions: req.Deductions,
	})

	s.logger.Debug("payslip calculated",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period_id", req.PeriodID),
		zap.Float64("net_pay", breakdown.NetPay),
		zap.Int("present_days", agg.PresentDays),
		zap.Int("absent_days", agg.AbsentDays),
	)

	// A number is reserved up front; when the upsert overwrites an existing
	// payslip the original number wins and this one becomes a sequence gap.
	nextVal, err := s.counter.GetNextValue(ctx, companyID, "payslip_number")
	if err != nil {
		return PayslipResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()

	payslip := buildPayslipRow(companyUUID, employeeUUID, actorUUID, *period, agg, breakdown)
	payslip.PayslipNumber = fmt.Sprintf("PSL-%06d", nextVal)

	if _, err := qtx.UpsertPayslip(ctx, payslip, actorUUID, now); err != nil {
		return PayslipResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueProcessedEvent(ctx, tx, rid, payslip); err != nil {
			return PayslipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	return mapPayslipToResponse(*payslip), nil
}

func (s *service) RequestPayslips(ctx context.Context, companyID, actorID string, req RequestPayslipsRequest) (int, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(companyID); err != nil {
		return 0, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return 0, payrollerrors.ErrInvalidActorID
	}

	if s.outbox == nil {
		return 0, errors.New("payroll: batch requests need an outbox repository")
	}

	period, err := s.repo.FindPeriodByID(ctx, companyID, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, payrollerrors.ErrPeriodNotFound
		}
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	outboxTx := s.outbox.WithTx(tx)
	occurredAt := s.now().UTC()

	for _, employeeID := range req.EmployeeIDs {
		event := events.PayslipRequestedEvent{
			EventType:   "payslip_requested",
			CompanyID:   companyID,
			EmployeeID:  employeeID,
			PeriodID:    period.ID.String(),
			RequestedBy: actorID,
			OccurredAt:  occurredAt,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return 0, err
		}
		if err := outboxTx.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "payslip",
			AggregateID:   employeeID,
			EventType:     event.EventType,
			Topic:         events.PayslipRequestedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.logger.Info("payslip batch requested",
		zap.String("request_id", rid),
		zap.String("period_id", req.PeriodID),
		zap.Int("employees", len(req.EmployeeIDs)),
	)
	return len(req.EmployeeIDs), nil
}

func (s *service) GetPayslips(ctx context.Context, companyID string, filter PayslipFilterRequest) ([]PayslipResponse, error) {
	rows, err := s.repo.FindAllPayslips(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]PayslipResponse, len(rows))
	for i, row := range rows {
		res[i] = mapPayslipToResponse(row)
	}
	return res, nil
}

func (s *service) GetPayslipByID(ctx context.Context, companyID, id string) (PayslipResponse, error) {
	row, err := s.repo.FindPayslipByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}
	return mapPayslipToResponse(*row), nil
}

func (s *service) PayslipPDF(ctx context.Context, companyID, id string) ([]byte, string, error) {
	row, err := s.repo.FindPayslipByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", payrollerrors.ErrPayslipNotFound
		}
		return nil, "", err
	}

	pdf, err := buildPayslipPDF(*row)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("%s.pdf", row.PayslipNumber), nil
}

func (s *service) enqueueProcessedEvent(ctx context.Context, tx *sql.Tx, requestID string, p *EmployeePayslip) error {
	event := events.PayslipProcessedEvent{
		EventType:  "payslip_processed",
		CompanyID:  p.CompanyID.String(),
		EmployeeID: p.EmployeeID.String(),
		PayslipID:  p.ID.String(),
		PeriodID:   p.PeriodID.String(),
		NetPay:     p.NetPay,
		OccurredAt: s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "payslip",
		AggregateID:   p.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipProcessedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func buildPayslipRow(
	companyID, employeeID, createdBy uuid.UUID,
	period PayrollPeriod,
	agg PeriodAttendance,
	b Breakdown,
) *EmployeePayslip {
	return &EmployeePayslip{
		ID:          uuid.New(),
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		PeriodID:    period.ID,
		PeriodStart: period.StartDate,
		PeriodEnd:   period.EndDate,

		BasicSalary:         b.Earnings.BasicSalary,
		HRA:                 b.Earnings.HRA,
		ConveyanceAllowance: b.Earnings.ConveyanceAllowance,
		MedicalAllowance:    b.Earnings.MedicalAllowance,
		SpecialAllowance:    b.Earnings.SpecialAllowance,
		Bonus:               b.Earnings.Bonus,
		Overtime:            b.Earnings.Overtime,
		Arrears:             b.Earnings.Arrears,
		OtherEarnings:       b.Earnings.OtherEarnings,

		PF:                  b.Deductions.PF,
		ESI:                 b.Deductions.ESI,
		ProfessionalTax:     b.Deductions.ProfessionalTax,
		TDS:                 b.Deductions.TDS,
		LoanDeduction:       b.Deductions.LoanDeduction,
		LeaveDeduction:      b.Deductions.LeaveDeduction,
		AttendanceDeduction: b.Deductions.AttendanceDeduction,
		OtherDeductions:     b.Deductions.OtherDeductions,

		TotalEarnings:   b.TotalEarnings,
		TotalDeductions: b.TotalDeductions,
		NetPay:          b.NetPay,
		PayableDays:     b.PayableDays,

		TotalWorkingDays: agg.TotalWorkingDays,
		PresentDays:      agg.PresentDays,
		AbsentDays:       agg.AbsentDays,
		HalfDays:         agg.HalfDays,
		OvertimeHours:    agg.OvertimeHours,
		LateComings:      agg.LateComings,

		Status:    PayslipStatusProcessed,
		CreatedBy: createdBy,
	}
}

func mapPeriodToResponse(p PayrollPeriod) PeriodResponse {
	return PeriodResponse{
		ID:         p.ID.String(),
		CompanyID:  p.CompanyID.String(),
		Label:      p.Label,
		RangeLabel: p.RangeLabel,
		StartDate:  p.StartDate.Format("2006-01-02"),
		EndDate:    p.EndDate.Format("2006-01-02"),
		Status:     p.Status,
		IsActive:   p.IsActive,
	}
}

func mapPayslipToResponse(p EmployeePayslip) PayslipResponse {
	resp := PayslipResponse{
		ID:            p.ID.String(),
		CompanyID:     p.CompanyID.String(),
		EmployeeID:    p.EmployeeID.String(),
		PeriodID:      p.PeriodID.String(),
		PayslipNumber: p.PayslipNumber,
		PeriodStart:   p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     p.PeriodEnd.Format("2006-01-02"),
		Earnings: Earnings{
			BasicSalary:         p.BasicSalary,
			HRA:                 p.HRA,
			ConveyanceAllowance: p.ConveyanceAllowance,
			MedicalAllowance:    p.MedicalAllowance,
			SpecialAllowance:    p.SpecialAllowance,
			Bonus:               p.Bonus,
			Overtime:            p.Overtime,
			Arrears:             p.Arrears,
			OtherEarnings:       p.OtherEarnings,
		},
		Deductions: Deductions{
			PF:                  p.PF,
			ESI:                 p.ESI,
			ProfessionalTax:     p.ProfessionalTax,
			TDS:                 p.TDS,
			LoanDeduction:       p.LoanDeduction,
			LeaveDeduction:      p.LeaveDeduction,
			AttendanceDeduction: p.AttendanceDeduction,
			OtherDeductions:     p.OtherDeductions,
		},
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,
		PayableDays:     p.PayableDays,
		Attendance: PeriodAttendance{
			TotalWorkingDays: p.TotalWorkingDays,
			PresentDays:      p.PresentDays,
			AbsentDays:       p.AbsentDays,
			HalfDays:         p.HalfDays,
			OvertimeHours:    p.OvertimeHours,
			LateComings:      p.LateComings,
		},
		Status: p.Status,
	}
	for _, edit := range p.EditHistory {
		resp.EditHistory = append(resp.EditHistory, PayslipEditResponse{
			Field:    edit.Field,
			EditedBy: edit.EditedBy.String(),
			EditedAt: edit.EditedAt.Format(time.RFC3339),
		})
	}
	return resp
}
