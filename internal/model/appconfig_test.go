package model

import (
	"fmt"
	"testing"
	"time"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.DefaultPackageID != "standard-shower" {
		t.Errorf("expected default package standard-shower, got %s", cfg.DefaultPackageID)
	}
	if err := cfg.DefaultStructure.Validate(); err != nil {
		t.Errorf("default structure should be valid: %v", err)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentExports == nil {
		t.Error("RecentExports should not be nil")
	}
	if cfg.CrmBaseURL != "" {
		t.Error("expected offline CRM by default")
	}
}

func TestRotateIntervalFallback(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.RotateIntervalMs = 0
	if got := cfg.RotateInterval(); got != 40*time.Millisecond {
		t.Errorf("expected fallback 40ms, got %v", got)
	}
	cfg.RotateIntervalMs = 100
	if got := cfg.RotateInterval(); got != 100*time.Millisecond {
		t.Errorf("expected 100ms, got %v", got)
	}
	cfg.CrmTimeoutSeconds = -1
	if got := cfg.CrmTimeout(); got != 15*time.Second {
		t.Errorf("expected fallback 15s, got %v", got)
	}
}

func TestAddRecentExport(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentExport("a.pdf")
	cfg.AddRecentExport("b.pdf")
	cfg.AddRecentExport("a.pdf")

	if len(cfg.RecentExports) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(cfg.RecentExports))
	}
	if cfg.RecentExports[0] != "a.pdf" {
		t.Errorf("expected a.pdf first, got %s", cfg.RecentExports[0])
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentExport(fmt.Sprintf("%d.pdf", i))
	}
	if len(cfg.RecentExports) != maxRecentExports {
		t.Errorf("expected list capped at %d, got %d", maxRecentExports, len(cfg.RecentExports))
	}
}
