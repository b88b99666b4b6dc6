package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"hr-core/internal/events"
	"hr-core/internal/payroll"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSource struct {
	cancel  context.CancelFunc
	msgs    []kafkago.Message
	commits []int64
}

func (f *fakeSource) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		return kafkago.Message{}, context.Canceled
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeSource) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.commits = append(f.commits, m.Offset)
	}
	return nil
}

type fakePayrollService struct {
	payroll.Service

	calculated []string
	failFor    string
}

func (f *fakePayrollService) CalculatePayslip(ctx context.Context, companyID, actorID string, req payroll.CalculatePayslipRequest) (payroll.PayslipResponse, error) {
	f.calculated = append(f.calculated, req.EmployeeID)
	if req.EmployeeID == f.failFor {
		return payroll.PayslipResponse{}, errors.New("boom")
	}
	return payroll.PayslipResponse{}, nil
}

func requestMessage(t *testing.T, offset int64, employeeID string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.PayslipRequestedEvent{
		EventType:   "payslip.requested",
		CompanyID:   uuid.New().String(),
		EmployeeID:  employeeID,
		PeriodID:    uuid.New().String(),
		RequestedBy: uuid.New().String(),
	})
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: payload}
}

// Every fetched message ends up committed: a decode failure, a failed
// calculation, and a successful one all advance the offset, since commits
// are cumulative and a held-back offset would be re-committed by the next
// successful message anyway.
func TestConsumePayslipRequested_CommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failing := uuid.New().String()
	ok := uuid.New().String()

	source := &fakeSource{
		cancel: cancel,
		msgs: []kafkago.Message{
			requestMessage(t, 1, ok),
			{Offset: 2, Value: []byte("{not json")},
			requestMessage(t, 3, failing),
		},
	}
	svc := &fakePayrollService{failFor: failing}

	ConsumePayslipRequested(ctx, source, svc, zap.NewNop())

	assert.Equal(t, []string{ok, failing}, svc.calculated)
	assert.Equal(t, []int64{1, 2, 3}, source.commits)
}
