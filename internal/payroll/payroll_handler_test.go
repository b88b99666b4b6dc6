package payroll_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hr-core/internal/payroll"
	payrollerrors "hr-core/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeService struct {
	createPeriodFn    func(ctx context.Context, companyID string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error)
	getPeriodsFn      func(ctx context.Context, companyID string) ([]payroll.PeriodResponse, error)
	activatePeriodFn  func(ctx context.Context, companyID, id string) (payroll.PeriodResponse, error)
	calculateFn       func(ctx context.Context, companyID, actorID string, req payroll.CalculatePayslipRequest) (payroll.PayslipResponse, error)
	requestPayslipsFn func(ctx context.Context, companyID, actorID string, req payroll.RequestPayslipsRequest) (int, error)
	getPayslipsFn     func(ctx context.Context, companyID string, filter payroll.PayslipFilterRequest) ([]payroll.PayslipResponse, error)
	getPayslipFn      func(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error)
	payslipPDFFn      func(ctx context.Context, companyID, id string) ([]byte, string, error)
}

func (f *fakeService) CreatePeriod(ctx context.Context, companyID string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	return f.createPeriodFn(ctx, companyID, req)
}

func (f *fakeService) GetPeriods(ctx context.Context, companyID string) ([]payroll.PeriodResponse, error) {
	return f.getPeriodsFn(ctx, companyID)
}

func (f *fakeService) ActivatePeriod(ctx context.Context, companyID, id string) (payroll.PeriodResponse, error) {
	return f.activatePeriodFn(ctx, companyID, id)
}

func (f *fakeService) CalculatePayslip(ctx context.Context, companyID, actorID string, req payroll.CalculatePayslipRequest) (payroll.PayslipResponse, error) {
	return f.calculateFn(ctx, companyID, actorID, req)
}

func (f *fakeService) RequestPayslips(ctx context.Context, companyID, actorID string, req payroll.RequestPayslipsRequest) (int, error) {
	return f.requestPayslipsFn(ctx, companyID, actorID, req)
}

func (f *fakeService) GetPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilterRequest) ([]payroll.PayslipResponse, error) {
	return f.getPayslipsFn(ctx, companyID, filter)
}

func (f *fakeService) GetPayslipByID(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error) {
	return f.getPayslipFn(ctx, companyID, id)
}

func (f *fakeService) PayslipPDF(ctx context.Context, companyID, id string) ([]byte, string, error) {
	return f.payslipPDFFn(ctx, companyID, id)
}

func TestPayrollHandler_CreatePeriod(t *testing.T) {
	companyID := uuid.New().String()

	svc := &fakeService{
		createPeriodFn: func(ctx context.Context, cid string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, "March 2025", req.Label)
			return payroll.PeriodResponse{ID: uuid.New().String(), Label: req.Label, Status: payroll.PeriodStatusUpcoming}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"label":"March 2025","start_date":"2025-03-01","end_date":"2025-03-31"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/periods", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", companyID)

	h.CreatePeriod(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_CreatePeriod_MissingFields(t *testing.T) {
	h := payroll.NewHandler(&fakeService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/periods", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.New().String())

	h.CreatePeriod(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestPayrollHandler_ActivatePeriod_NotFound(t *testing.T) {
	svc := &fakeService{
		activatePeriodFn: func(ctx context.Context, cid, id string) (payroll.PeriodResponse, error) {
			return payroll.PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/periods/"+id+"/activate", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("company_id", uuid.New().String())

	h.ActivatePeriod(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPayrollHandler_CalculatePayslip(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	periodID := uuid.New().String()

	svc := &fakeService{
		calculateFn: func(ctx context.Context, cid, aid string, req payroll.CalculatePayslipRequest) (payroll.PayslipResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, employeeID, req.EmployeeID)
			return payroll.PayslipResponse{
				ID:            uuid.New().String(),
				EmployeeID:    req.EmployeeID,
				PayslipNumber: "PSL-000007",
				NetPay:        33660,
				Status:        payroll.PayslipStatusProcessed,
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","period_id":"` + periodID + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/payslips/calculate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", companyID)
	c.Set("user_id_validated", actorID)

	h.CalculatePayslip(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_CalculatePayslip_BadUUID(t *testing.T) {
	h := payroll.NewHandler(&fakeService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"nope","period_id":"also-nope"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/payslips/calculate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.New().String())

	h.CalculatePayslip(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_RequestPayslips(t *testing.T) {
	svc := &fakeService{
		requestPayslipsFn: func(ctx context.Context, cid, aid string, req payroll.RequestPayslipsRequest) (int, error) {
			return len(req.EmployeeIDs), nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"period_id":"` + uuid.New().String() + `","employee_ids":["` + uuid.New().String() + `","` + uuid.New().String() + `"]}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll/payslips/request", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.New().String())
	c.Set("user_id_validated", uuid.New().String())

	h.RequestPayslips(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
	assert.JSONEq(t, `{"queued":2}`, string(env.Data))
}

func TestPayrollHandler_DownloadPayslip(t *testing.T) {
	svc := &fakeService{
		payslipPDFFn: func(ctx context.Context, cid, id string) ([]byte, string, error) {
			return []byte("%PDF-1.4"), "PSL-000007.pdf", nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll/payslips/"+id+"/download", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("company_id", uuid.New().String())

	h.DownloadPayslip(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "PSL-000007.pdf")
}

func TestPayrollHandler_InternalError(t *testing.T) {
	svc := &fakeService{
		getPayslipsFn: func(ctx context.Context, cid string, filter payroll.PayslipFilterRequest) ([]payroll.PayslipResponse, error) {
			return nil, errors.New("boom")
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll/payslips", nil)
	c.Set("company_id", uuid.New().String())

	h.GetPayslips(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
