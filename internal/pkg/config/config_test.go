package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo || cfg.Cache.Backend != CacheBackendRedis {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.Lifetime != 24*time.Hour {
		t.Fatalf("expected 24h token lifetime, got %s", cfg.JWT.Lifetime)
	}
	if cfg.Cleanup.RetentionDays != 30 || cfg.Cleanup.Schedule != "0 0 2 * * *" || !cfg.Cleanup.Enabled {
		t.Fatalf("unexpected cleanup defaults: %+v", cfg.Cleanup)
	}
	if cfg.Cache.TTLUsers != 30*time.Minute || cfg.Cache.TTLSearch != 2*time.Minute {
		t.Fatalf("unexpected cache TTLs: %+v", cfg.Cache)
	}
	if cfg.Redis.Timeout != 2*time.Second {
		t.Fatalf("expected 2s redis timeout, got %s", cfg.Redis.Timeout)
	}
	if cfg.Authz.ConcealMissing {
		t.Fatalf("missing resources should not be concealed by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":           "postgres",
		"CACHE_BACKEND":          "memory",
		"JWT_SECRET":             "s3cret",
		"JWT_LIFETIME":           "90m",
		"CLEANUP_RETENTION_DAYS": "7",
		"AUTHZ_CONCEAL_MISSING":  "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.Cache.Backend != CacheBackendMemory {
		t.Fatalf("unexpected drivers: %+v", cfg)
	}
	if cfg.JWT.Lifetime != 90*time.Minute || cfg.Cleanup.RetentionDays != 7 || !cfg.Authz.ConcealMissing {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		t.Fatalf("secret configured: %v", err)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver": {"STORE_DRIVER": "cassandra"},
		"unknown cache":  {"CACHE_BACKEND": "memcached"},
		"zero retention": {"CLEANUP_RETENTION_DAYS": "0"},
		"not a number":   {"CLEANUP_RETENTION_DAYS": "thirty"},
		"bad duration":   {"JWT_LIFETIME": "forever"},
	}
	for name, env := range tests {
		if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRequireJWTSecret(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.RequireJWTSecret(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}
