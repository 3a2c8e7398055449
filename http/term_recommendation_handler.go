package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	logger  *zap.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, logger *zap.Logger) *TermRecommendationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermRecommendationHandler{service: service, logger: logger}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	serve(h.logger, "http.RecommendTerm", h.service.RecommendTerm)(w, r)
}
