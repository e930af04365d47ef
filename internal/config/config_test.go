package config

import "testing"

func TestS3ConfigIsConfigured(t *testing.T) {
	t.Run("empty config is not configured", func(t *testing.T) {
		cfg := S3Config{}
		if cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=false for empty config")
		}
	})

	t.Run("required fields set is configured", func(t *testing.T) {
		cfg := S3Config{
			Endpoint:        "https://storage.yandexcloud.net",
			Region:          "ru-central1",
			Bucket:          "bucket",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
			PublicBaseURL:   "https://storage.yandexcloud.net/bucket",
		}
		if !cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=true when all required fields are set")
		}
	})
}

func TestS3ConfigDiagnostics(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		level, code, _ := (S3Config{}).Diagnostics()
		if level != "INFO" || code != "s3_not_configured" {
			t.Fatalf("expected INFO/s3_not_configured, got %s/%s", level, code)
		}
	})

	t.Run("partial config", func(t *testing.T) {
		level, code, _ := (S3Config{Endpoint: "https://storage.yandexcloud.net"}).Diagnostics()
		if level != "WARN" || code != "s3_partial_config" {
			t.Fatalf("expected WARN/s3_partial_config, got %s/%s", level, code)
		}
	})
}

func TestBlobConfigEffectiveReportsMode(t *testing.T) {
	t.Run("override set", func(t *testing.T) {
		cfg := BlobConfig{Mode: BlobModeLocal, ReportsMode: BlobModeS3, ReportsModeSet: true}
		if got := cfg.EffectiveReportsMode(); got != BlobModeS3 {
			t.Fatalf("expected s3, got %s", got)
		}
	})

	t.Run("falls back to blob mode", func(t *testing.T) {
		cfg := BlobConfig{Mode: BlobModeAuto, ReportsMode: BlobModeLocal}
		if got := cfg.EffectiveReportsMode(); got != BlobModeAuto {
			t.Fatalf("expected auto, got %s", got)
		}
	})
}

func TestParseCORSOrigins(t *testing.T) {
	t.Run("local default", func(t *testing.T) {
		origins := parseCORSOrigins("", "local")
		if len(origins) != 2 {
			t.Fatalf("expected 2 default local origins, got %v", origins)
		}
	})

	t.Run("prod empty denies", func(t *testing.T) {
		if origins := parseCORSOrigins("", "prod"); origins != nil {
			t.Fatalf("expected nil origins for prod, got %v", origins)
		}
	})

	t.Run("trims and skips empty entries", func(t *testing.T) {
		origins := parseCORSOrigins(" https://a.example , ,https://b.example", "prod")
		if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
			t.Fatalf("unexpected origins: %v", origins)
		}
	})
}
