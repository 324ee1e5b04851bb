package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultPackageID = "door-shower"
	cfg.Theme = "dark"
	cfg.CrmBaseURL = "https://crm.example.com/api"
	cfg.RecentExports = []string{"/tmp/quote-1.pdf", "/tmp/quote-2.pdf"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultPackageID != "door-shower" {
		t.Errorf("expected DefaultPackageID=door-shower, got %s", loaded.DefaultPackageID)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.CrmBaseURL != cfg.CrmBaseURL {
		t.Errorf("expected CrmBaseURL=%s, got %s", cfg.CrmBaseURL, loaded.CrmBaseURL)
	}
	if len(loaded.RecentExports) != 2 {
		t.Errorf("expected 2 recent exports, got %d", len(loaded.RecentExports))
	}
	if loaded.DefaultStructure != cfg.DefaultStructure {
		t.Errorf("structure mismatch: %+v vs %+v", loaded.DefaultStructure, cfg.DefaultStructure)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DefaultPackageID != model.DefaultAppConfig().DefaultPackageID {
		t.Errorf("expected default package, got %s", cfg.DefaultPackageID)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
	if cfg.RotateIntervalMs != 40 {
		t.Errorf("expected default RotateIntervalMs=40, got %d", cfg.RotateIntervalMs)
	}
	if cfg.RecentExports == nil {
		t.Error("expected non-nil RecentExports")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDefaultConfigDir(t *testing.T) {
	if filepath.Base(DefaultConfigDir()) != ".glassquote" {
		t.Errorf("unexpected config dir %s", DefaultConfigDir())
	}
	if filepath.Base(DefaultConfigPath()) != "config.json" {
		t.Errorf("unexpected config path %s", DefaultConfigPath())
	}
}
