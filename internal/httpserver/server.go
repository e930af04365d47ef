package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/auth"
	"github.com/brunosouza-justauto/eng-sub005/internal/blob"
	"github.com/brunosouza-justauto/eng-sub005/internal/config"
	"github.com/brunosouza-justauto/eng-sub005/internal/foods"
	"github.com/brunosouza-justauto/eng-sub005/internal/meallog"
	"github.com/brunosouza-justauto/eng-sub005/internal/mealplans"
	"github.com/brunosouza-justauto/eng-sub005/internal/reports"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage/memory"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	store          storage.Store
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.store = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	pgStore, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.store = memory.New()
		return
	}

	log.Println("PostgreSQL подключен успешно")
	s.store = pgStore
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Foods API
	var offClient foods.BarcodeLookup
	if s.config.OFFEnabled {
		offClient = foods.NewOFFClient(s.config.OFFBaseURL, time.Duration(s.config.OFFTimeoutSeconds)*time.Second)
	}
	foodsService := foods.NewService(s.store, offClient, s.config)
	foodsHandler := foods.NewHandlers(foodsService)

	// GET /v1/foods - search catalog by name
	s.mux.HandleFunc("GET /v1/foods", foodsHandler.HandleSearchFoods)

	// POST /v1/foods - create custom food
	s.mux.HandleFunc("POST /v1/foods", foodsHandler.HandleCreateFood)

	// GET /v1/foods/{id} - get food by id
	s.mux.HandleFunc("GET /v1/foods/{id}", foodsHandler.HandleGetFood)

	// GET /v1/foods/barcode/{code} - lookup by barcode, local then Open Food Facts
	s.mux.HandleFunc("GET /v1/foods/barcode/{code}", foodsHandler.HandleBarcodeLookup)

	// Nutrition Plans API
	plansService := mealplans.NewService(s.store)
	plansHandler := mealplans.NewHandlers(plansService)

	// GET /v1/plans/active - get active plan with computed totals
	s.mux.HandleFunc("GET /v1/plans/active", plansHandler.HandleGetActive)

	// PUT /v1/plans/replace - replace active plan
	s.mux.HandleFunc("PUT /v1/plans/replace", plansHandler.HandleReplace)

	// GET /v1/plans/meals - meals filtered by day type
	s.mux.HandleFunc("GET /v1/plans/meals", plansHandler.HandleMealsForDay)

	// Meal Log API
	logService := meallog.NewService(s.store, s.store, s.store)
	logHandler := meallog.NewHandlers(logService)

	// GET /v1/logs/daily - aggregated daily log
	s.mux.HandleFunc("GET /v1/logs/daily", logHandler.HandleGetDaily)

	// POST /v1/logs/meals - log a planned meal
	s.mux.HandleFunc("POST /v1/logs/meals", logHandler.HandleLogMeal)

	// POST /v1/logs/extra - log an extra meal with explicit foods
	s.mux.HandleFunc("POST /v1/logs/extra", logHandler.HandleLogExtraMeal)

	// DELETE /v1/logs/{id} - unlog a meal
	s.mux.HandleFunc("DELETE /v1/logs/{id}", logHandler.HandleUnlogMeal)

	// GET /v1/logs/missed - planned meals past their time and not logged
	s.mux.HandleFunc("GET /v1/logs/missed", logHandler.HandleMissedMeals)

	// Reports API
	reportsBlobStore := s.initReportsBlobStore()
	reportsService := reports.NewService(
		s.store,
		logService,
		reportsBlobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - generate report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id} - report metadata
	s.mux.HandleFunc("GET /v1/reports/{id}", reportsHandler.HandleGet)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// initReportsBlobStore initializes the blob store used for report files.
// REPORTS_MODE may override BLOB_MODE.
func (s *Server) initReportsBlobStore() blob.Store {
	cfg := s.config.Blob
	cfg.Mode = cfg.EffectiveReportsMode()

	store, mode, err := blob.NewBlobStore(cfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Daily log API: http://localhost%s/v1/logs/daily\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
