package meallog

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/userctx"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetDaily handles GET /v1/logs/daily?date=&day_type=
func (h *Handlers) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	resp, err := h.service.BuildDailyLog(r.Context(), requestUserID(r), date, r.URL.Query().Get("day_type"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleLogMeal handles POST /v1/logs/meals
func (h *Handlers) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.LogMeal(r.Context(), requestUserID(r), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleLogExtraMeal handles POST /v1/logs/extra
func (h *Handlers) HandleLogExtraMeal(w http.ResponseWriter, r *http.Request) {
	var req LogExtraMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.LogExtraMeal(r.Context(), requestUserID(r), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleUnlogMeal handles DELETE /v1/logs/{id}
func (h *Handlers) HandleUnlogMeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid log ID")
		return
	}

	if err := h.service.UnlogMeal(r.Context(), requestUserID(r), id); err != nil {
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "log_not_found", "Log not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMissedMeals handles GET /v1/logs/missed?date=&now=
func (h *Handlers) HandleMissedMeals(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	resp, err := h.service.MissedMeals(r.Context(), requestUserID(r), date, r.URL.Query().Get("now"))
	if err != nil {
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
