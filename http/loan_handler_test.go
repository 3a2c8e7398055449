package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-engine/domain"
	"loan-engine/repository"
	"loan-engine/service"
	"loan-engine/solver"
	"loan-engine/variant"
)

func newTestRouter(limiter *RateLimiter, metrics *Metrics) http.Handler {
	loanService := service.NewLoanService(
		variant.NewLibrary(solver.DefaultConfig),
		repository.NewCalculationRepositoryMemory(repository.DefaultHistorySize),
		repository.NewMemoryCache(),
		service.Options{},
	)
	return Router{
		Loan:        NewLoanHandler(loanService, nil),
		Terms:       NewTermRecommendationHandler(service.NewTermRecommendationService(loanService), nil),
		RateLimiter: limiter,
		Metrics:     metrics,
	}.Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func emiRequest() domain.EMIRequest {
	return domain.EMIRequest{
		LoanTerms: domain.LoanTerms{LoanAmount: 1_000_000, InterestRate: 12, TenureYears: 15},
		Calendar:  domain.Calendar{StartYear: 2025, StartMonth: 1},
	}
}

func TestCalculateEMI_Success(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := postJSON(t, router, "/calculate", emiRequest())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp domain.EMIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 12001.68, resp.EMI, 0.005)
	assert.Equal(t, 180, resp.TenureMonths)
	assert.Len(t, resp.Schedule, 15)
	require.NotEmpty(t, resp.CalculationID)

	req := httptest.NewRequest(http.MethodGet, "/calculations/"+resp.CalculationID, nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	var calc struct {
		ID   string `json:"calculationId"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &calc))
	assert.Equal(t, resp.CalculationID, calc.ID)
	assert.Equal(t, "emi", calc.Kind)
}

func TestCalculateEMI_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/calculate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateEMI_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCalculateEMI_InvalidJSON(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(`{"loanAmount":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeError(t, w).Error)
}

func TestCalculateEMI_ValidationError(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := emiRequest()
	req.LoanAmount = 0
	w := postJSON(t, router, "/calculate", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "loanAmount", decodeError(t, w).Field)
}

func TestCalculateTenure_Infeasible(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := postJSON(t, router, "/calculate-loan-tenure", domain.TenureRequest{
		LoanAmount:   100_000,
		EMI:          500,
		InterestRate: 12,
		Calendar:     domain.Calendar{StartYear: 2025, StartMonth: 1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "infeasible")
}

func TestRecommendTerm_Success(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := postJSON(t, router, "/loan/recommend-term", domain.TermRecommendationInput{
		LoanAmount:        500_000,
		InterestRate:      10,
		MinTermMonths:     60,
		MaxTermMonths:     120,
		MaxMonthlyPayment: 12_000,
		Preference:        domain.PreferenceMinimizeInterest,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.TermRecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, resp.RecommendedTerm.EMI, 12_000.0)
}

func TestRecommendTerm_NoEligibleTerm(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := postJSON(t, router, "/loan/recommend-term", domain.TermRecommendationInput{
		LoanAmount:        500_000,
		InterestRate:      10,
		MinTermMonths:     12,
		MaxTermMonths:     24,
		MaxMonthlyPayment: 1_000,
		Preference:        domain.PreferenceBalanced,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductRoutes(t *testing.T) {
	router := newTestRouter(nil, nil)
	terms := domain.LoanTerms{LoanAmount: 100_000, InterestRate: 10, TenureYears: 5}
	cal := domain.Calendar{StartYear: 2025, StartMonth: 3}

	cases := []struct {
		path string
		body any
	}{
		{"/calculate-bullet", domain.BulletRequest{LoanTerms: terms, Calendar: cal}},
		{"/calculate-equal-principal", domain.EqualPrincipalRequest{LoanTerms: terms, Calendar: cal}},
		{"/calculate-flat-rate", domain.FlatRateRequest{LoanTerms: terms, Calendar: cal}},
		{"/calculate-moratorium", domain.MoratoriumRequest{LoanTerms: terms, Calendar: cal, MoratoriumMonths: 6}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := postJSON(t, router, tc.path, tc.body)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestGetCalculation_NotFound(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/calculations/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := newRateLimiter(2, time.Minute, time.Now)
	router := newTestRouter(limiter, nil)

	for i := 0; i < 2; i++ {
		w := postJSON(t, router, "/calculate", emiRequest())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := postJSON(t, router, "/calculate", emiRequest())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", decodeError(t, w).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()
	router := newTestRouter(nil, metrics)

	require.Equal(t, http.StatusOK, postJSON(t, router, "/calculate", emiRequest()).Code)
	req := emiRequest()
	req.LoanAmount = -1
	require.Equal(t, http.StatusBadRequest, postJSON(t, router, "/calculate", req).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `loan_engine_http_requests_total{code="200",route="/calculate"} 1`)
	assert.Contains(t, body, `loan_engine_http_requests_total{code="400",route="/calculate"} 1`)
	assert.Contains(t, body, "loan_engine_http_request_duration_seconds_bucket")
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Field: "emi", Message: "must be positive"}, http.StatusBadRequest},
		{"invalid loan", domain.NewInvalidLoanError("negative principal"), http.StatusBadRequest},
		{"infeasible rate", fmt.Errorf("solve: %w", &domain.InfeasibleRateError{Reason: "no bracket"}), http.StatusBadRequest},
		{"no eligible term", service.ErrNoEligibleTerm, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := classify(tc.err)
			assert.Equal(t, tc.status, status)
			if status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
			}
		})
	}
}
