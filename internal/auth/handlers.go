package auth

import (
	"encoding/json"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	// Пустое тело допустимо, тогда выдаётся токен для dev-user
	_ = json.NewDecoder(r.Body).Decode(&req)

	resp, err := h.service.SignInDev(&req)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
