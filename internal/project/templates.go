package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// DefaultTemplatePath returns ~/.glassquote/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, fmt.Errorf("failed to parse templates: %w", err)
	}
	if store.Templates == nil {
		store.Templates = []model.DesignTemplate{}
	}
	return store, nil
}

// LoadDefaultTemplates loads templates from the default path.
func LoadDefaultTemplates() (model.TemplateStore, error) {
	return LoadTemplates(DefaultTemplatePath())
}

// SaveDefaultTemplates saves templates to the default path.
func SaveDefaultTemplates(store model.TemplateStore) error {
	return SaveTemplates(DefaultTemplatePath(), store)
}
