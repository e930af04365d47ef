package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/brunosouza-justauto/eng-sub005/internal/meallog"
)

// DailyLogSource provides aggregated nutrition data for a single day.
// Implemented by meallog.Service.
type DailyLogSource interface {
	BuildDailyLog(ctx context.Context, userID, date, overrideDayType string) (*meallog.DailyLogResponse, error)
}

// DayRow is one day of the report period, flattened for rendering.
type DayRow struct {
	Date           string
	Calories       int
	ProteinG       float64
	CarbsG         float64
	FatG           float64
	TargetCalories *int
	MealsLogged    int
}

// Generator generates PDF/CSV nutrition reports
type Generator struct {
	dailyLogs DailyLogSource
}

// NewGenerator creates a new report generator
func NewGenerator(dailyLogs DailyLogSource) *Generator {
	return &Generator{dailyLogs: dailyLogs}
}

// GenerateReport builds the report for [from, to] and returns the raw bytes.
func (g *Generator) GenerateReport(ctx context.Context, userID string, req CreateReportRequest) ([]byte, error) {
	rows, err := g.collectRows(ctx, userID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// collectRows walks every day of the period and aggregates the logged meals.
func (g *Generator) collectRows(ctx context.Context, userID, from, to string) ([]DayRow, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("failed to parse from date: %w", err)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("failed to parse to date: %w", err)
	}

	var rows []DayRow
	for d := fromDate; !d.After(toDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")

		daily, err := g.dailyLogs.BuildDailyLog(ctx, userID, date, "")
		if err != nil {
			return nil, fmt.Errorf("failed to build daily log for %s: %w", date, err)
		}

		row := DayRow{
			Date:        date,
			Calories:    daily.Consumed.Calories,
			ProteinG:    daily.Consumed.Protein,
			CarbsG:      daily.Consumed.Carbs,
			FatG:        daily.Consumed.Fat,
			MealsLogged: len(daily.LoggedMeals),
		}
		if daily.PlanTargets != nil {
			target := daily.PlanTargets.TotalCalories
			row.TargetCalories = &target
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// generateCSV generates a CSV report
func (g *Generator) generateCSV(rows []DayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "calories", "protein_g", "carbs_g", "fat_g", "target_calories", "meals_logged"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		target := ""
		if row.TargetCalories != nil {
			target = strconv.Itoa(*row.TargetCalories)
		}

		record := []string{
			row.Date,
			strconv.Itoa(row.Calories),
			fmt.Sprintf("%.1f", row.ProteinG),
			fmt.Sprintf("%.1f", row.CarbsG),
			fmt.Sprintf("%.1f", row.FatG),
			target,
			strconv.Itoa(row.MealsLogged),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF generates a PDF report
func (g *Generator) generatePDF(req CreateReportRequest, rows []DayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Nutrition Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", req.From, req.To))
	pdf.Ln(12)

	summary := calculateSummary(rows)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days tracked: %d of %d", summary.DaysTracked, len(rows)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories: %s", formatInt(summary.AvgCalories)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average protein: %s g", formatFloat(summary.AvgProteinG)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average carbs: %s g", formatFloat(summary.AvgCarbsG)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average fat: %s g", formatFloat(summary.AvgFatG)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days within 5%% of calorie target: %s", summary.Adherence))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Recent Days")
	pdf.Ln(8)

	drawRecentDaysTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary holds calculated summary statistics
type Summary struct {
	DaysTracked int
	AvgCalories *int
	AvgProteinG *float64
	AvgCarbsG   *float64
	AvgFatG     *float64
	Adherence   string
}

// calculateSummary averages over days with at least one logged meal.
func calculateSummary(rows []DayRow) Summary {
	var totalCalories, countDays int
	var totalProtein, totalCarbs, totalFat float64
	var onTarget, withTarget int

	for _, row := range rows {
		if row.MealsLogged == 0 {
			continue
		}

		totalCalories += row.Calories
		totalProtein += row.ProteinG
		totalCarbs += row.CarbsG
		totalFat += row.FatG
		countDays++

		if row.TargetCalories != nil && *row.TargetCalories > 0 {
			withTarget++
			diff := row.Calories - *row.TargetCalories
			if diff < 0 {
				diff = -diff
			}
			if diff*20 <= *row.TargetCalories {
				onTarget++
			}
		}
	}

	summary := Summary{DaysTracked: countDays}
	if countDays == 0 {
		summary.Adherence = "No data"
		return summary
	}

	avgCal := totalCalories / countDays
	summary.AvgCalories = &avgCal

	avgP := totalProtein / float64(countDays)
	summary.AvgProteinG = &avgP

	avgC := totalCarbs / float64(countDays)
	summary.AvgCarbsG = &avgC

	avgF := totalFat / float64(countDays)
	summary.AvgFatG = &avgF

	if withTarget > 0 {
		summary.Adherence = fmt.Sprintf("%d of %d", onTarget, withTarget)
	} else {
		summary.Adherence = "No target"
	}

	return summary
}

// drawRecentDaysTable draws a table of the last 14 days
func drawRecentDaysTable(pdf *gofpdf.Fpdf, rows []DayRow) {
	limit := 14
	recent := rows
	if len(rows) > limit {
		recent = rows[len(rows)-limit:]
	}

	pdf.SetFont("Arial", "", 8)

	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Calories", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Protein", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Carbs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Fat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Target", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Meals", "1", 1, "C", false, 0, "")

	for _, row := range recent {
		target := ""
		if row.TargetCalories != nil {
			target = strconv.Itoa(*row.TargetCalories)
		}

		pdf.CellFormat(25, 6, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, strconv.Itoa(row.Calories), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.ProteinG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.CarbsG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.FatG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, target, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(row.MealsLogged), "1", 1, "C", false, 0, "")
	}
}

func formatInt(v *int) string {
	if v == nil {
		return "No data"
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "No data"
	}
	return fmt.Sprintf("%.1f", *v)
}
