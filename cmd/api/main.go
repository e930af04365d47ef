package main

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
	"github.com/brunosouza-justauto/eng-sub005/internal/dbmigrate"
	"github.com/brunosouza-justauto/eng-sub005/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("======== Nutrition Engine API ========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Database ----
	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup {
		if cfg.DatabaseURLDirect != "" {
			log.Printf("  migrations_via   = DATABASE_URL_DIRECT")
		} else {
			log.Printf("  migrations_via   = (will fail: DATABASE_URL_DIRECT not set)")
		}
	}

	// ---- Auth ----
	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	// ---- Foods ----
	log.Println("---- foods ----")
	log.Printf("  search_limit     = %d", cfg.FoodsSearchLimit)
	log.Printf("  off_enabled      = %t", cfg.OFFEnabled)
	if cfg.OFFEnabled {
		log.Printf("  off_base_url     = %s", cfg.OFFBaseURL)
		log.Printf("  off_timeout      = %ds", cfg.OFFTimeoutSeconds)
	}

	// ---- Blob / S3 ----
	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	log.Printf("  reports_mode     = %s (effective=%s)", displayReportsMode(cfg), cfg.Blob.EffectiveReportsMode())
	log.Printf("  reports_max_range = %d days", cfg.ReportsMaxRangeDays)
	log.Printf("  reports_ttl       = %dh", cfg.ReportsDefaultTTLHours)
	if cfg.Blob.Mode != config.BlobModeLocal || cfg.Blob.EffectiveReportsMode() != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Println("======================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "prod" || cfg.Env == "staging"

	// S3 hard-mode validation
	needsS3 := cfg.Blob.Mode == config.BlobModeS3 || cfg.Blob.EffectiveReportsMode() == config.BlobModeS3
	if needsS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE or REPORTS_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	// JWT_SECRET must not be default in production
	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	// DATABASE_URL must be set in production
	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func displayReportsMode(cfg *config.Config) string {
	if cfg.Blob.ReportsModeSet {
		return cfg.Blob.ReportsMode
	}
	return fmt.Sprintf("(inherits BLOB_MODE=%s)", cfg.Blob.Mode)
}
