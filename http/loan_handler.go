package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *zap.Logger
}

func NewLoanHandler(service *service.LoanService, logger *zap.Logger) *LoanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanHandler{service: service, logger: logger}
}

func (h *LoanHandler) CalculateEMI(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateEMI", h.service.CalculateEMI)(w, r)
}

func (h *LoanHandler) CalculateTenure(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateTenure", h.service.CalculateTenure)(w, r)
}

func (h *LoanHandler) CalculateInterestRate(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateInterestRate", h.service.CalculateInterestRate)(w, r)
}

func (h *LoanHandler) CalculateLoanAmount(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateLoanAmount", h.service.CalculateLoanAmount)(w, r)
}

func (h *LoanHandler) CalculateStepUp(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateStepUp", h.service.CalculateStepUp)(w, r)
}

func (h *LoanHandler) CalculateFlatRate(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateFlatRate", h.service.CalculateFlatRate)(w, r)
}

func (h *LoanHandler) CalculatePhasedRate(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculatePhasedRate", h.service.CalculatePhasedRate)(w, r)
}

func (h *LoanHandler) CalculateMoratorium(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateMoratorium", h.service.CalculateMoratorium)(w, r)
}

func (h *LoanHandler) CalculateOverdue(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateOverdue", h.service.CalculateOverdue)(w, r)
}

func (h *LoanHandler) CalculatePartPayment(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculatePartPayment", h.service.CalculatePartPayment)(w, r)
}

func (h *LoanHandler) CalculateBullet(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateBullet", h.service.CalculateBullet)(w, r)
}

func (h *LoanHandler) CalculateEqualPrincipal(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.CalculateEqualPrincipal", h.service.CalculateEqualPrincipal)(w, r)
}

// GetCalculation returns a recorded calculation by ID.
func (h *LoanHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}
	calc, ok := h.service.GetCalculation(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errorBody{Error: "calculation not found"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, calc)
}
