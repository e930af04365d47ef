package foods

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// OFFClient fetches product data from Open Food Facts by barcode.
type OFFClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOFFClient(baseURL string, timeout time.Duration) *OFFClient {
	return &OFFClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

// offProduct is the minimal subset of an Open Food Facts product record.
type offProduct struct {
	Code             string         `json:"code"`
	ProductName      string         `json:"product_name"`
	ProductNameEn    string         `json:"product_name_en"`
	GenericName      string         `json:"generic_name"`
	ShortDescription string         `json:"short_description"`
	ServingSize      string         `json:"serving_size"`
	Nutriments       map[string]any `json:"nutriments"`
}

// name returns the best available product name using the fallback order:
// product_name → product_name_en → generic_name → short_description → "".
func (p *offProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.ProductNameEn != "" {
		return p.ProductNameEn
	}
	if p.GenericName != "" {
		return p.GenericName
	}
	return p.ShortDescription
}

// kcal100g prefers energy-kcal_100g and falls back to energy-kj_100g / 4.184.
func (p *offProduct) kcal100g() (float64, bool) {
	if v, ok := extractFloat(p.Nutriments, "energy-kcal_100g"); ok && v >= 0 && v <= 10000 {
		return v, true
	}
	if v, ok := extractFloat(p.Nutriments, "energy-kj_100g"); ok {
		kcal := v / 4.184
		if kcal >= 0 && kcal <= 10000 {
			return kcal, true
		}
	}
	return 0, false
}

func (p *offProduct) nutrient100g(key string) float64 {
	if v, ok := extractFloat(p.Nutriments, key); ok && v >= 0 && v <= 100 {
		return v
	}
	return 0
}

// servingSizeG parses a free-text serving size like "30 g" or "250ml".
// Only gram-denominated servings are usable.
func (p *offProduct) servingSizeG() *float64 {
	s := strings.ToLower(strings.TrimSpace(p.ServingSize))
	if s == "" {
		return nil
	}
	numEnd := 0
	for numEnd < len(s) && (s[numEnd] >= '0' && s[numEnd] <= '9' || s[numEnd] == '.' || s[numEnd] == ',') {
		numEnd++
	}
	if numEnd == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s[:numEnd], ",", "."), 64)
	if err != nil || v <= 0 {
		return nil
	}
	rest := strings.TrimSpace(s[numEnd:])
	if rest != "g" && !strings.HasPrefix(rest, "g ") && !strings.HasPrefix(rest, "g(") {
		return nil
	}
	return &v
}

// OFFResult carries the nutritional facts extracted from a product record.
type OFFResult struct {
	Barcode         string
	Name            string
	CaloriesPer100g float64
	ProteinPer100g  float64
	CarbsPer100g    float64
	FatPer100g      float64
	FiberPer100g    *float64
	ServingSizeG    *float64
}

// Lookup fetches a product by barcode. found=false when the product is
// unknown to Open Food Facts or lacks usable nutrition data.
func (c *OFFClient) Lookup(ctx context.Context, barcode string) (OFFResult, bool, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return OFFResult{}, false, fmt.Errorf("build off request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OFFResult{}, false, fmt.Errorf("off request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return OFFResult{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return OFFResult{}, false, fmt.Errorf("off returned status %d", resp.StatusCode)
	}

	var parsed offResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return OFFResult{}, false, fmt.Errorf("decode off response: %w", err)
	}

	if parsed.Status != 1 {
		return OFFResult{}, false, nil
	}

	name := parsed.Product.name()
	kcal, ok := parsed.Product.kcal100g()
	if name == "" || !ok {
		// record exists but is unusable without a name and energy value
		return OFFResult{}, false, nil
	}

	var fiber *float64
	if v, okF := extractFloat(parsed.Product.Nutriments, "fiber_100g"); okF && v >= 0 && v <= 100 {
		fiber = &v
	}

	return OFFResult{
		Barcode:         barcode,
		Name:            name,
		CaloriesPer100g: kcal,
		ProteinPer100g:  parsed.Product.nutrient100g("proteins_100g"),
		CarbsPer100g:    parsed.Product.nutrient100g("carbohydrates_100g"),
		FatPer100g:      parsed.Product.nutrient100g("fat_100g"),
		FiberPer100g:    fiber,
		ServingSizeG:    parsed.Product.servingSizeG(),
	}, true, nil
}

// extractFloat coerces a nutriments map value to float64.
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
