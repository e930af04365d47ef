package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brunosouza-justauto/eng-sub005/internal/blob"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
)

// Errors
var (
	ErrInvalidFormat    = fmt.Errorf("invalid format")
	ErrInvalidDate      = fmt.Errorf("invalid date format")
	ErrInvalidDateRange = fmt.Errorf("from date must be before to date")
	ErrRangeTooLarge    = fmt.Errorf("date range too large")
	ErrReportNotFound   = fmt.Errorf("report not found")
)

// Service handles reports business logic
type Service struct {
	reportsStorage  storage.ReportsStorage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool   // if true, use public URLs instead of presigned
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	dailyLogs DailyLogSource,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		reportsStorage:  reportsStorage,
		generator:       NewGenerator(dailyLogs),
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport generates a nutrition report and stores it
func (s *Service) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}

	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	daysDiff := int(toDate.Sub(fromDate).Hours() / 24)
	if daysDiff > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	data, err := s.generator.GenerateReport(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		UserID:    userID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		// Local mode: keep the bytes with the metadata
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			userID,
			req.From,
			req.To,
			uuid.New().String(),
			req.Format,
		)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toReport(report), nil
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, userID string, id uuid.UUID) (*Report, error) {
	meta, found, err := s.reportsStorage.GetReport(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if !found {
		return nil, ErrReportNotFound
	}

	return toReport(&meta), nil
}

// ListReports lists reports for a user
func (s *Service) ListReports(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	metaList, err := s.reportsStorage.ListReports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}

	return reports, nil
}

// DeleteReport deletes a report and its stored object
func (s *Service) DeleteReport(ctx context.Context, userID string, id uuid.UUID) error {
	meta, found, err := s.reportsStorage.GetReport(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}
	if !found {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Metadata deletion is more important, keep going
			fmt.Printf("warning: failed to delete S3 object: %v\n", err)
		}
	}

	deleted, err := s.reportsStorage.DeleteReport(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	if !deleted {
		return ErrReportNotFound
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, userID string, id uuid.UUID, baseURL string) (string, error) {
	meta, found, err := s.reportsStorage.GetReport(ctx, userID, id)
	if err != nil {
		return "", fmt.Errorf("failed to get report: %w", err)
	}
	if !found {
		return "", ErrReportNotFound
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData retrieves the raw report data (for local mode download)
func (s *Service) GetReportData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, error) {
	meta, found, err := s.reportsStorage.GetReport(ctx, userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get report: %w", err)
	}
	if !found {
		return nil, "", ErrReportNotFound
	}

	if s.localMode {
		return meta.Data, contentTypeFor(meta.Format), nil
	}

	// S3 mode downloads go through the presigned URL redirect
	return nil, contentTypeFor(meta.Format), fmt.Errorf("S3 mode should use presigned URL redirect")
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

// toReport converts ReportMeta to Report model
func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		UserID:    meta.UserID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}
