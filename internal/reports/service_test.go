package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/brunosouza-justauto/eng-sub005/internal/meallog"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage/memory"
)

func floatPtr(v float64) *float64 { return &v }

func newTestService(t *testing.T) (*Service, *memory.MemoryStore) {
	t.Helper()
	store := memory.New()
	dailyLogs := meallog.NewService(store, store, store)
	svc := NewService(store, dailyLogs, nil, 90, 600, "", false)
	return svc, store
}

func seedSnackLog(t *testing.T, store *memory.MemoryStore, userID, date string) {
	t.Helper()
	log := &storage.MealLog{
		UserID:      userID,
		Date:        date,
		Time:        "12:00:00",
		Name:        "Snack",
		IsExtraMeal: true,
	}
	foods := []storage.MealLogFood{
		{
			Quantity: 1,
			Unit:     "serving",
			Calories: floatPtr(500),
			ProteinG: floatPtr(40),
			CarbsG:   floatPtr(50),
			FatG:     floatPtr(10),
		},
	}
	if err := store.InsertMealLogWithFoods(context.Background(), log, foods); err != nil {
		t.Fatalf("InsertMealLogWithFoods: %v", err)
	}
}

func TestCreateReportCSV(t *testing.T) {
	svc, store := newTestService(t)
	seedSnackLog(t, store, "u1", "2024-01-02")

	report, err := svc.CreateReport(context.Background(), "u1", CreateReportRequest{
		From:   "2024-01-01",
		To:     "2024-01-03",
		Format: FormatCSV,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if report.Status != StatusReady {
		t.Errorf("status = %q, want %q", report.Status, StatusReady)
	}
	if report.SizeBytes == 0 || len(report.Data) == 0 {
		t.Fatal("expected report data in local mode")
	}

	body := string(report.Data)
	if !strings.HasPrefix(body, "date,calories,protein_g,carbs_g,fat_g,target_calories,meals_logged") {
		t.Errorf("unexpected CSV header: %q", strings.SplitN(body, "\n", 2)[0])
	}
	if !strings.Contains(body, "2024-01-02,500,40.0,50.0,10.0,,1") {
		t.Errorf("missing logged day row, got:\n%s", body)
	}
	if !strings.Contains(body, "2024-01-01,0,0.0,0.0,0.0,,0") {
		t.Errorf("missing empty day row, got:\n%s", body)
	}
}

func TestCreateReportPDF(t *testing.T) {
	svc, store := newTestService(t)
	seedSnackLog(t, store, "u1", "2024-01-02")

	report, err := svc.CreateReport(context.Background(), "u1", CreateReportRequest{
		From:   "2024-01-01",
		To:     "2024-01-03",
		Format: FormatPDF,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if !strings.HasPrefix(string(report.Data), "%PDF") {
		t.Error("expected PDF magic bytes")
	}
}

func TestCreateReportValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateReportRequest
		wantErr error
	}{
		{"bad format", CreateReportRequest{From: "2024-01-01", To: "2024-01-02", Format: "xlsx"}, ErrInvalidFormat},
		{"bad from date", CreateReportRequest{From: "01.01.2024", To: "2024-01-02", Format: FormatPDF}, ErrInvalidDate},
		{"bad to date", CreateReportRequest{From: "2024-01-01", To: "tomorrow", Format: FormatPDF}, ErrInvalidDate},
		{"inverted range", CreateReportRequest{From: "2024-02-01", To: "2024-01-01", Format: FormatPDF}, ErrInvalidDateRange},
		{"range too large", CreateReportRequest{From: "2024-01-01", To: "2024-12-31", Format: FormatPDF}, ErrRangeTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateReport(ctx, "u1", tc.req); err != tc.wantErr {
				t.Errorf("CreateReport() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetReportScopedToUser(t *testing.T) {
	svc, store := newTestService(t)
	seedSnackLog(t, store, "u1", "2024-01-02")

	report, err := svc.CreateReport(context.Background(), "u1", CreateReportRequest{
		From:   "2024-01-01",
		To:     "2024-01-02",
		Format: FormatCSV,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if _, err := svc.GetReport(context.Background(), "u1", report.ID); err != nil {
		t.Errorf("owner GetReport: %v", err)
	}
	if _, err := svc.GetReport(context.Background(), "intruder", report.ID); err != ErrReportNotFound {
		t.Errorf("foreign GetReport error = %v, want ErrReportNotFound", err)
	}
}

func TestDeleteReport(t *testing.T) {
	svc, store := newTestService(t)
	seedSnackLog(t, store, "u1", "2024-01-02")

	report, err := svc.CreateReport(context.Background(), "u1", CreateReportRequest{
		From:   "2024-01-01",
		To:     "2024-01-02",
		Format: FormatCSV,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if err := svc.DeleteReport(context.Background(), "u1", report.ID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := svc.GetReport(context.Background(), "u1", report.ID); err != ErrReportNotFound {
		t.Errorf("GetReport after delete error = %v, want ErrReportNotFound", err)
	}
	if err := svc.DeleteReport(context.Background(), "u1", uuid.New()); err != ErrReportNotFound {
		t.Errorf("DeleteReport missing error = %v, want ErrReportNotFound", err)
	}
}

func TestDownloadURLLocalMode(t *testing.T) {
	svc, store := newTestService(t)
	seedSnackLog(t, store, "u1", "2024-01-02")

	report, err := svc.CreateReport(context.Background(), "u1", CreateReportRequest{
		From:   "2024-01-01",
		To:     "2024-01-02",
		Format: FormatPDF,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	url, err := svc.GetReportDownloadURL(context.Background(), "u1", report.ID, "http://localhost:8080/")
	if err != nil {
		t.Fatalf("GetReportDownloadURL: %v", err)
	}
	want := "http://localhost:8080/v1/reports/" + report.ID.String() + "/download"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}
