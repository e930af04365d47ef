package foods

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage/memory"
)

func testConfig() *config.Config {
	return &config.Config{FoodsSearchLimit: 50}
}

func TestSearchVisibility(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil, testConfig())
	ctx := context.Background()

	owner := "owner-1"
	if err := store.CreateFoodItem(ctx, &storage.FoodItem{Name: "Oatmeal", Source: "verified"}); err != nil {
		t.Fatalf("CreateFoodItem: %v", err)
	}
	if err := store.CreateFoodItem(ctx, &storage.FoodItem{Name: "Oatmeal Custom", Source: "custom", OwnerUserID: &owner}); err != nil {
		t.Fatalf("CreateFoodItem: %v", err)
	}

	t.Run("owner sees own custom food", func(t *testing.T) {
		results, err := svc.Search(ctx, owner, "oat")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results for owner, got %d", len(results))
		}
	})

	t.Run("other user sees only catalog food", func(t *testing.T) {
		results, err := svc.Search(ctx, "someone-else", "oat")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(results) != 1 || results[0].Name != "Oatmeal" {
			t.Fatalf("expected only the verified item, got %+v", results)
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		if _, err := svc.Search(ctx, owner, "  "); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestCreateCustom(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil, testConfig())
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		dto, err := svc.CreateCustom(ctx, "user-1", &CreateFoodRequest{
			Name:            "Protein Bar",
			CaloriesPer100g: 380,
			ProteinPer100g:  30,
			CarbsPer100g:    40,
			FatPer100g:      12,
		})
		if err != nil {
			t.Fatalf("CreateCustom: %v", err)
		}
		if dto.Source != "custom" {
			t.Errorf("expected source custom, got %s", dto.Source)
		}
	})

	t.Run("negative macros rejected", func(t *testing.T) {
		_, err := svc.CreateCustom(ctx, "user-1", &CreateFoodRequest{Name: "Bad", CaloriesPer100g: -1})
		if err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		if _, err := svc.CreateCustom(ctx, "user-1", &CreateFoodRequest{}); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestLookupBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("local catalog hit skips external lookup", func(t *testing.T) {
		store := memory.New()
		barcode := "4000000000001"
		if err := store.CreateFoodItem(ctx, &storage.FoodItem{Name: "Milk", Barcode: &barcode, Source: "verified"}); err != nil {
			t.Fatalf("CreateFoodItem: %v", err)
		}

		svc := NewService(store, nil, testConfig())
		dto, err := svc.LookupBarcode(ctx, barcode)
		if err != nil {
			t.Fatalf("LookupBarcode: %v", err)
		}
		if dto.Name != "Milk" {
			t.Fatalf("expected local item, got %+v", dto)
		}
	})

	t.Run("external hit is persisted", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": 1,
				"product": {
					"code": "3017620422003",
					"product_name": "Hazelnut Spread",
					"serving_size": "15 g",
					"nutriments": {
						"energy-kcal_100g": 539,
						"proteins_100g": 6.3,
						"carbohydrates_100g": 57.5,
						"fat_100g": 30.9,
						"fiber_100g": 3.4
					}
				}
			}`))
		}))
		defer ts.Close()

		store := memory.New()
		svc := NewService(store, NewOFFClient(ts.URL, 5*time.Second), testConfig())

		dto, err := svc.LookupBarcode(ctx, "3017620422003")
		if err != nil {
			t.Fatalf("LookupBarcode: %v", err)
		}
		if dto.Name != "Hazelnut Spread" || dto.Source != "external-database" {
			t.Fatalf("unexpected result: %+v", dto)
		}
		if dto.CaloriesPer100g != 539 {
			t.Errorf("expected 539 kcal/100g, got %v", dto.CaloriesPer100g)
		}
		if dto.ServingSizeG == nil || *dto.ServingSizeG != 15 {
			t.Errorf("expected parsed serving size 15g, got %v", dto.ServingSizeG)
		}

		// repeat scans resolve locally
		item, found, err := store.GetFoodItemByBarcode(ctx, "3017620422003")
		if err != nil || !found {
			t.Fatalf("expected persisted item (found=%v, err=%v)", found, err)
		}
		if item.Source != "external-database" {
			t.Errorf("unexpected source: %s", item.Source)
		}
	})

	t.Run("unknown barcode is a non-error miss", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": 0, "product": {}}`))
		}))
		defer ts.Close()

		svc := NewService(memory.New(), NewOFFClient(ts.URL, 5*time.Second), testConfig())
		_, err := svc.LookupBarcode(ctx, "0000000000000")
		if err == nil || err.Error() != "food_not_found" {
			t.Fatalf("expected food_not_found, got %v", err)
		}
	})
}

func TestOFFProductHelpers(t *testing.T) {
	t.Run("kj fallback", func(t *testing.T) {
		p := offProduct{Nutriments: map[string]any{"energy-kj_100g": 418.4}}
		kcal, ok := p.kcal100g()
		if !ok {
			t.Fatal("expected kcal from kj fallback")
		}
		if kcal < 99.9 || kcal > 100.1 {
			t.Errorf("expected ~100 kcal, got %v", kcal)
		}
	})

	t.Run("name fallback chain", func(t *testing.T) {
		p := offProduct{GenericName: "Generic", ShortDescription: "Short"}
		if p.name() != "Generic" {
			t.Errorf("expected generic_name fallback, got %s", p.name())
		}
	})

	t.Run("serving size parsing", func(t *testing.T) {
		cases := map[string]*float64{}
		thirty := 30.0
		cases["30 g"] = &thirty
		cases["30g"] = &thirty
		cases["250 ml"] = nil
		cases["one scoop"] = nil

		for raw, want := range cases {
			p := offProduct{ServingSize: raw}
			got := p.servingSizeG()
			if (got == nil) != (want == nil) {
				t.Errorf("%q: expected %v, got %v", raw, want, got)
				continue
			}
			if got != nil && *got != *want {
				t.Errorf("%q: expected %v, got %v", raw, *want, *got)
			}
		}
	})
}
