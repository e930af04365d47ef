package foods

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brunosouza-justauto/eng-sub005/internal/userctx"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleSearchFoods handles GET /v1/foods?query=
func (h *Handlers) HandleSearchFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	dtos, err := h.service.Search(r.Context(), requestUserID(r), query)
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
	json.NewEncoder(w).Encode(SearchFoodsResponse{Foods: dtos})
}

// HandleCreateFood handles POST /v1/foods
func (h *Handlers) HandleCreateFood(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.CreateCustom(r.Context(), requestUserID(r), &req)
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

// HandleGetFood handles GET /v1/foods/{id}
func (h *Handlers) HandleGetFood(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid food ID")
		return
	}

	dto, err := h.service.GetFood(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "food_not_found", "Food not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dto)
}

// HandleBarcodeLookup handles GET /v1/foods/barcode/{code}
func (h *Handlers) HandleBarcodeLookup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	dto, err := h.service.LookupBarcode(r.Context(), code)
	if err != nil {
		if strings.Contains(err.Error(), "not_found") {
			writeError(w, http.StatusNotFound, "food_not_found", "No product for this barcode")
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "lookup_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dto)
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
