package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// serve decodes a JSON request, calls the service and writes the response.
func serve[Req, Resp any](
	logger *zap.Logger,
	op string,
	call func(context.Context, Req) (Resp, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
			return
		}

		// Content-Type must be JSON
		if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			writeError(w, http.StatusUnsupportedMediaType, errorBody{Error: "Content-Type must be application/json"})
			return
		}

		var req Req
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("error decoding request body", zap.String("op", op), zap.Error(err))
			writeError(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}

		resp, err := call(r.Context(), req)
		if err != nil {
			status, body := classify(err)
			if status == http.StatusInternalServerError {
				logger.Error("calculation failed", zap.String("op", op), zap.Error(err))
			} else {
				logger.Debug("request rejected", zap.String("op", op), zap.Error(err))
			}
			writeError(w, status, body)
			return
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// classify maps service and engine errors to a status and a client-safe body.
func classify(err error) (int, errorBody) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field}
	case errors.Is(err, domain.ErrInvalidLoan),
		errors.Is(err, domain.ErrInfeasibleTenure),
		errors.Is(err, domain.ErrInfeasibleRate),
		errors.Is(err, service.ErrNoEligibleTerm):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal server error"}
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("error encoding response", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("error writing response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	payload, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}
