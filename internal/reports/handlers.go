package reports

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/brunosouza-justauto/eng-sub005/internal/userctx"
)

// Handlers handles HTTP requests for reports
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	report, err := h.service.CreateReport(r.Context(), userID, req)
	if err != nil {
		switch err {
		case ErrInvalidFormat:
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case ErrInvalidDate:
			writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format, use YYYY-MM-DD")
		case ErrInvalidDateRange:
			writeError(w, http.StatusBadRequest, "invalid_range", "From date must be before to date")
		case ErrRangeTooLarge:
			writeError(w, http.StatusBadRequest, "range_too_large", fmt.Sprintf("Date range exceeds maximum of %d days", h.service.maxRangeDays))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	baseURL := getBaseURL(r)
	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), userID, report.ID, baseURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toReportDTO(report, downloadURL))
}

// HandleList handles GET /v1/reports
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	reports, err := h.service.ListReports(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		downloadURL, _ := h.service.GetReportDownloadURL(r.Context(), userID, reports[i].ID, baseURL)
		dtos[i] = toReportDTO(&reports[i], downloadURL)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportsResponse{Reports: dtos})
}

// HandleGet handles GET /v1/reports/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	report, err := h.service.GetReport(r.Context(), userID, reportID)
	if err != nil {
		if err == ErrReportNotFound {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	downloadURL, _ := h.service.GetReportDownloadURL(r.Context(), userID, reportID, getBaseURL(r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toReportDTO(report, downloadURL))
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	report, err := h.service.GetReport(r.Context(), userID, reportID)
	if err != nil {
		if err == ErrReportNotFound {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	if h.service.localMode {
		data, contentType, err := h.service.GetReportData(r.Context(), userID, reportID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		filename := fmt.Sprintf("report_%s_%s.%s", report.FromDate, report.ToDate, report.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
		return
	}

	// S3 mode: redirect to presigned URL
	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), userID, reportID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), userID, reportID); err != nil {
		if err == ErrReportNotFound {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toReportDTO(report *Report, downloadURL string) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		Format:      report.Format,
		From:        report.FromDate,
		To:          report.ToDate,
		DownloadURL: downloadURL,
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
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
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
