package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Backend.Timeout != 10*time.Second || cfg.Session.TTL != 12*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.AuditWorkers != 4 || cfg.Mongo.Database != "jobcards" || cfg.IsProduction() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":             "production",
		"BACKEND_URL":     "https://jobs.example.org",
		"BACKEND_TIMEOUT": "3s",
		"COOKIE_SECURE":   "true",
		"REDIS_DB":        "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() || cfg.Backend.URL != "https://jobs.example.org" || cfg.Backend.Timeout != 3*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.Session.CookieSecure || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"BACKEND_TIMEOUT": "soon"}))
	if err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
