package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all local data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Mode      model.Mode          `json:"mode"`
	Templates model.TemplateStore `json:"templates"`
}

// ExportAllData writes config, mode and templates to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, mode model.Mode, templates model.TemplateStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Mode:      mode,
		Templates: templates,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentExports == nil {
		backup.Config.RecentExports = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.DesignTemplate{}
	}
	if _, ok := model.ParseMode(string(backup.Mode)); !ok {
		backup.Mode = model.DefaultMode
	}
	return backup, nil
}
