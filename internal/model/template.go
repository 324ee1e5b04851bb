package model

import (
	"time"

	"github.com/google/uuid"
)

// DesignTemplate is a saved structure configuration and package choice.
// It never carries derived geometry or prices; those are recomputed on load.
type DesignTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	PackageID   string          `json:"package_id"`
	Structure   StructureConfig `json:"structure"`
}

// NewDesignTemplate creates a template from the current configuration.
func NewDesignTemplate(name, description, packageID string, cfg StructureConfig) DesignTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return DesignTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		PackageID:   packageID,
		Structure:   cfg,
	}
}

// TemplateStore holds a collection of design templates.
type TemplateStore struct {
	Templates []DesignTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []DesignTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t DesignTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// Upsert stores t, replacing a template with the same name in place. The
// replaced template keeps its ID and creation time. Returns true on replace.
func (ts *TemplateStore) Upsert(t DesignTemplate) bool {
	if existing := ts.FindByName(t.Name); existing != nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		*existing = t
		return true
	}
	ts.Add(t)
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *DesignTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *DesignTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
