package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/anomaly"
	"github.com/attendly-hq/attendly-backend-go/internal/handler/http/response"
)

type AnomalyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Acknowledge(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Dismiss(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.Service
}

func NewAnomalyHandler(anomalyService anomaly.Service) AnomalyHandler {
	return &anomalyHandlerImpl{
		anomalyService: anomalyService,
	}
}

// List implements AnomalyHandler.
func (h *anomalyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := anomaly.ListFilter{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", 20),
	}

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := anomaly.Type(raw)
		filter.Type = &t
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := anomaly.Status(raw)
		filter.Status = &s
	}

	result, err := h.anomalyService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Events, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Acknowledge implements AnomalyHandler.
func (h *anomalyHandlerImpl) Acknowledge(w http.ResponseWriter, r *http.Request) {
	result, err := h.anomalyService.Acknowledge(r.Context(), chi.URLParam(r, "anomalyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly acknowledged", result)
}

// Resolve implements AnomalyHandler.
func (h *anomalyHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	result, err := h.anomalyService.Resolve(r.Context(), chi.URLParam(r, "anomalyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly resolved", result)
}

// Dismiss implements AnomalyHandler.
func (h *anomalyHandlerImpl) Dismiss(w http.ResponseWriter, r *http.Request) {
	result, err := h.anomalyService.Dismiss(r.Context(), chi.URLParam(r, "anomalyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly dismissed", result)
}
