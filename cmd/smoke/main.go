package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Nutrition Engine E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Create Food", testCreateFood},
		{"Search Foods", testSearchFoods},
		{"Replace Plan", testReplacePlan},
		{"Get Active Plan", testGetActivePlan},
		{"Log Planned Meal", testLogMeal},
		{"Daily Log", testDailyLog},
		{"Log Extra Meal", testLogExtraMeal},
		{"Missed Meals", testMissedMeals},
		{"Create Report (CSV)", testCreateReportCSV},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Unlog Meal", testUnlogMeal},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := doRequest("GET", "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testDevAuth() error {
	// A token provided via env wins
	if token != "" {
		return nil
	}

	resp, err := doRequest("POST", "/v1/auth/dev", map[string]interface{}{
		"user_id": "smoke-user",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access token")
	}

	token = result.AccessToken
	return nil
}

func testCreateFood() error {
	resp, err := doRequest("POST", "/v1/foods", map[string]interface{}{
		"name":              "Smoke Oats",
		"calories_per_100g": 370,
		"protein_per_100g":  13,
		"carbs_per_100g":    62,
		"fat_per_100g":      7,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.ID == "" {
		return fmt.Errorf("no food ID returned")
	}

	createdIDs["food"] = result.ID
	return nil
}

func testSearchFoods() error {
	resp, err := doRequest("GET", "/v1/foods?query=Smoke+Oats", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Foods []struct {
			ID string `json:"id"`
		} `json:"foods"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Foods) == 0 {
		return fmt.Errorf("created food not found in search")
	}

	return nil
}

func testReplacePlan() error {
	foodID := createdIDs["food"]
	if foodID == "" {
		return fmt.Errorf("no food ID from previous step")
	}

	resp, err := doRequest("PUT", "/v1/plans/replace", map[string]interface{}{
		"name":           "Smoke Plan",
		"total_calories": 2000,
		"protein_grams":  150,
		"carb_grams":     200,
		"fat_grams":      60,
		"meals": []map[string]interface{}{
			{
				"name":            "Breakfast",
				"day_type":        "Training",
				"time_suggestion": "08:00",
				"order_index":     0,
				"foods": []map[string]interface{}{
					{"food_item_id": foodID, "quantity": 80, "unit": "g"},
				},
			},
		},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testGetActivePlan() error {
	resp, err := doRequest("GET", "/v1/plans/active", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Plan struct {
			Meals []struct {
				ID     string `json:"id"`
				Totals struct {
					Calories int `json:"calories"`
				} `json:"totals"`
			} `json:"meals"`
		} `json:"plan"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Plan.Meals) == 0 {
		return fmt.Errorf("active plan has no meals")
	}
	if result.Plan.Meals[0].Totals.Calories == 0 {
		return fmt.Errorf("meal totals not computed")
	}

	createdIDs["meal"] = result.Plan.Meals[0].ID
	return nil
}

func testLogMeal() error {
	mealID := createdIDs["meal"]
	if mealID == "" {
		return fmt.Errorf("no meal ID from previous step")
	}

	resp, err := doRequest("POST", "/v1/logs/meals", map[string]interface{}{
		"meal_id": mealID,
		"date":    testDate,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	createdIDs["log"] = result.ID
	return nil
}

func testDailyLog() error {
	resp, err := doRequest("GET", "/v1/logs/daily?date="+testDate, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		LoggedMeals []interface{} `json:"logged_meals"`
		Consumed    struct {
			Calories int `json:"calories"`
		} `json:"consumed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.LoggedMeals) == 0 {
		return fmt.Errorf("logged meal missing from daily log")
	}
	if result.Consumed.Calories == 0 {
		return fmt.Errorf("consumed totals not computed")
	}

	return nil
}

func testLogExtraMeal() error {
	resp, err := doRequest("POST", "/v1/logs/extra", map[string]interface{}{
		"date": testDate,
		"name": "Smoke Snack",
		"foods": []map[string]interface{}{
			{
				"food_item_id":      "custom-smoke-bar",
				"name":              "Smoke Bar",
				"calories_per_100g": 450,
				"protein_per_100g":  30,
				"carbs_per_100g":    40,
				"fat_per_100g":      15,
				"quantity":          50,
				"unit":              "g",
			},
		},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusCreated)
}

func testMissedMeals() error {
	resp, err := doRequest("GET", "/v1/logs/missed?date="+testDate, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testCreateReportCSV() error {
	from := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	resp, err := doRequest("POST", "/v1/reports", map[string]interface{}{
		"from":   from,
		"to":     testDate,
		"format": "csv",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID          string `json:"id"`
		DownloadURL string `json:"download_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.ID == "" || result.DownloadURL == "" {
		return fmt.Errorf("incomplete report response: %+v", result)
	}

	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	resp, err := doRequest("GET", "/v1/reports", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Reports) == 0 {
		return fmt.Errorf("created report missing from list")
	}

	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID from previous step")
	}

	resp, err := doRequest("GET", fmt.Sprintf("/v1/reports/%s/download", reportID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Local mode serves bytes, S3 mode redirects
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusFound {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func testUnlogMeal() error {
	logID := createdIDs["log"]
	if logID == "" {
		return fmt.Errorf("no log ID to delete")
	}

	resp, err := doRequest("DELETE", fmt.Sprintf("/v1/logs/%s", logID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusNoContent)
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}

	resp, err := doRequest("DELETE", fmt.Sprintf("/v1/reports/%s", reportID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusNoContent)
}

// Helper functions

func doRequest(method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	return client.Do(req)
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
