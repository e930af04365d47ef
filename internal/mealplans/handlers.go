package mealplans

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brunosouza-justauto/eng-sub005/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetActive handles GET /v1/plans/active
func (h *Handlers) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	dto, err := h.service.GetActive(r.Context(), requestUserID(r))
	if err != nil {
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "plan_not_found", "No active nutrition plan")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(GetPlanResponse{Plan: dto})
}

// HandleReplace handles PUT /v1/plans/replace
func (h *Handlers) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var req ReplacePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.Replace(r.Context(), requestUserID(r), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(GetPlanResponse{Plan: dto})
}

// HandleMealsForDay handles GET /v1/plans/meals?day_type=
func (h *Handlers) HandleMealsForDay(w http.ResponseWriter, r *http.Request) {
	dayType := r.URL.Query().Get("day_type")

	resp, err := h.service.MealsForDay(r.Context(), requestUserID(r), dayType)
	if err != nil {
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "plan_not_found", "No active nutrition plan")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func requestUserID(r *http.Request) string {
	if id, ok := userctx.GetUserID(r.Context()); ok && strings.TrimSpace(id) != "" {
		return id
	}
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return "local"
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
