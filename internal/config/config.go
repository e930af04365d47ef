package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 6)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	if strings.TrimSpace(c.PublicBaseURL) == "" {
		missing = append(missing, "S3_PUBLIC_BASE_URL")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == "" &&
		strings.TrimSpace(c.PublicBaseURL) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode           string // local|s3|auto
	ReportsMode    string // local|s3|auto (override)
	ReportsModeSet bool
	S3             S3Config
}

func (c BlobConfig) EffectiveReportsMode() string {
	if c.ReportsModeSet {
		return c.ReportsMode
	}
	return c.Mode
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Blob (report files)
	Blob BlobConfig

	// Foods
	FoodsSearchLimit  int
	OFFEnabled        bool
	OFFBaseURL        string
	OFFTimeoutSeconds int

	// Reports
	ReportsMaxRangeDays    int
	ReportsDefaultTTLHours int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// PORT (default: 8080)
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	// LOG_LEVEL (default: debug)
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- Migrations ----------
	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Blob / S3 ----------
	blobMode := parseBlobMode("BLOB_MODE", BlobModeLocal)
	reportsModeRaw := strings.ToLower(strings.TrimSpace(os.Getenv("REPORTS_MODE")))
	reportsModeSet := reportsModeRaw != ""
	reportsMode := reportsModeRaw
	if reportsMode == "" {
		reportsMode = BlobModeLocal
	}
	if reportsMode != BlobModeLocal && reportsMode != BlobModeS3 && reportsMode != BlobModeAuto {
		log.Printf("WARNING: unknown REPORTS_MODE=%q, fallback to %s", reportsMode, BlobModeLocal)
		reportsMode = BlobModeLocal
	}

	// S3_PRESIGN_TTL_SECONDS (default: 900, enforce > 0)
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		PresignTTLSeconds: s3PresignTTL,
		PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
	}

	blobCfg := BlobConfig{
		Mode:           blobMode,
		ReportsMode:    reportsMode,
		ReportsModeSet: reportsModeSet,
		S3:             s3Cfg,
	}

	// ---------- Foods ----------
	// FOODS_SEARCH_LIMIT (default: 50)
	foodsSearchLimit := envInt("FOODS_SEARCH_LIMIT", 50)
	if foodsSearchLimit <= 0 {
		foodsSearchLimit = 50
	}

	// OFF_ENABLED: barcode fallback to Open Food Facts (default: on)
	offEnabledRaw := strings.TrimSpace(os.Getenv("OFF_ENABLED"))
	offEnabled := true
	if offEnabledRaw != "" {
		offEnabled = parseBoolEnv("OFF_ENABLED")
	}

	offBaseURL := strings.TrimSpace(os.Getenv("OFF_BASE_URL"))
	if offBaseURL == "" {
		offBaseURL = "https://world.openfoodfacts.org"
	}

	offTimeoutSeconds := envInt("OFF_TIMEOUT_SECONDS", 10)
	if offTimeoutSeconds <= 0 {
		offTimeoutSeconds = 10
	}

	// ---------- Reports ----------
	// REPORTS_MAX_RANGE_DAYS (default: 90)
	reportsMaxRangeDays := envInt("REPORTS_MAX_RANGE_DAYS", 90)

	// REPORTS_DEFAULT_TTL_HOURS (default: 168)
	reportsDefaultTTL := envInt("REPORTS_DEFAULT_TTL_HOURS", 168)

	// ---------- Auth ----------
	// AUTH_MODE (default: none)
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = "none"
	}
	if authMode != "none" && authMode != "dev" {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = "none"
	}
	authRequired := authMode != "none" && (os.Getenv("AUTH_REQUIRED") == "1" || strings.EqualFold(os.Getenv("AUTH_REQUIRED"), "true"))

	// JWT_SECRET
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	// JWT_ISSUER (default: "nutrition-engine")
	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "nutrition-engine"
	}

	// JWT_TTL_MINUTES (default: 10080 = 7 days)
	jwtTTLMinutes := envInt("JWT_TTL_MINUTES", 10080)

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		Blob: blobCfg,

		FoodsSearchLimit:  foodsSearchLimit,
		OFFEnabled:        offEnabled,
		OFFBaseURL:        offBaseURL,
		OFFTimeoutSeconds: offTimeoutSeconds,

		ReportsMaxRangeDays:    reportsMaxRangeDays,
		ReportsDefaultTTLHours: reportsDefaultTTL,

		AuthMode:      authMode,
		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: jwtTTLMinutes,

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
