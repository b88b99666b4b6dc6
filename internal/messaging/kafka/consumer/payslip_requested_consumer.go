package consumer

import (
	"context"
	"encoding/json"

	"hr-core/internal/events"
	"hr-core/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageSource is the slice of kafkago.Reader the consumer needs.
type MessageSource interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumePayslipRequested runs batch payroll: each message asks for one
// employee's payslip. Every fetched message is committed, including failed
// calculations: offset commits are cumulative, so holding back one offset
// would be undone by the next successful commit anyway. Failures are logged
// and the batch moves on.
func ConsumePayslipRequested(
	ctx context.Context,
	source MessageSource,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_requested")
	log.Info("payslip requested consumer started")

	for {
		msg, err := source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip requested consumer stopped")
				return
			}
			log.Error("fetch payslip requested message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip requested event failed", zap.Error(err))
			commit(ctx, source, msg, log)
			continue
		}

		_, err = payrollService.CalculatePayslip(ctx, event.CompanyID, event.RequestedBy, payroll.CalculatePayslipRequest{
			EmployeeID: event.EmployeeID,
			PeriodID:   event.PeriodID,
		})
		if err != nil {
			log.Error("calculate payslip failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("period_id", event.PeriodID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			commit(ctx, source, msg, log)
			continue
		}

		commit(ctx, source, msg, log)
		log.Info("payslip calculated from request event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("period_id", event.PeriodID),
			zap.String("company_id", event.CompanyID),
		)
	}
}

func commit(ctx context.Context, source MessageSource, msg kafkago.Message, log *zap.Logger) {
	if err := source.CommitMessages(ctx, msg); err != nil {
		log.Error("commit payslip requested message failed", zap.Error(err))
	}
}
