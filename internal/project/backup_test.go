package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.Theme = "dark"
	templates := model.NewTemplateStore()
	templates.Add(model.NewDesignTemplate("Alcove", "", "standard-shower", model.DefaultStructure()))

	if err := ExportAllData(path, cfg, model.ModeCountertop, templates); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", backup.Config.Theme)
	}
	if backup.Mode != model.ModeCountertop {
		t.Errorf("expected countertop mode, got %s", backup.Mode)
	}
	if len(backup.Templates.Templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(backup.Templates.Templates))
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestImportAllDataDefaultsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0","config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Mode != model.ModeGlass {
		t.Errorf("expected glass, got %s", backup.Mode)
	}
	if backup.Config.RecentExports == nil || backup.Templates.Templates == nil {
		t.Error("expected non-nil slices")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
