package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.CacheDriver != "memory" {
		t.Errorf("CacheDriver = %q", cfg.CacheDriver)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Invalidation.Topic != "cdss-invalidation" {
		t.Errorf("Topic = %q", cfg.Invalidation.Topic)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CACHE_TTL_DEFAULT", "30s")
	t.Setenv("CACHE_TTL_OVERRIDES", "referencetables=24h, telemetrystations=5m,=1s,bad")
	t.Setenv("CELL_RES", "99")
	t.Setenv("INVALIDATION_ENABLED", "yes")

	cfg := FromEnv()
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if len(cfg.CacheTTLOvr) != 2 {
		t.Fatalf("CacheTTLOvr = %v", cfg.CacheTTLOvr)
	}
	if cfg.CacheTTLOvr["referencetables"] != 24*time.Hour {
		t.Errorf("referencetables = %v", cfg.CacheTTLOvr["referencetables"])
	}
	if cfg.CellRes != 15 {
		t.Errorf("CellRes = %d, want clamped to 15", cfg.CellRes)
	}
	if !cfg.Invalidation.Enabled {
		t.Error("Invalidation.Enabled should be true")
	}
}
