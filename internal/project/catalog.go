package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/GlassQuote/internal/catalog"
)

// DefaultCatalogPath returns ~/.glassquote/catalog.yaml, the local override
// of the embedded catalog.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.yaml")
}

// SaveCatalog writes cat as YAML, creating parent directories.
func SaveCatalog(path string, cat *catalog.Catalog) error {
	data, err := cat.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the catalog at path. A missing file yields the embedded
// default catalog, which is then written to path. An invalid file is an
// error, never a silent fallback.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cat, err := catalog.LoadDefault()
		if err != nil {
			return nil, err
		}
		if saveErr := SaveCatalog(path, cat); saveErr != nil {
			return cat, saveErr
		}
		return cat, nil
	}
	cat, err := catalog.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// LoadOrCreateCatalog loads the catalog from the default path.
func LoadOrCreateCatalog() (*catalog.Catalog, string, error) {
	path := DefaultCatalogPath()
	cat, err := LoadCatalog(path)
	return cat, path, err
}

// ImportCatalog merges the components and packages of the catalog at path
// into existing. Entries whose ID already exists are skipped. The merged
// catalog is validated as a whole.
func ImportCatalog(path string, existing *catalog.Catalog) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	imported, err := catalog.Parse(data)
	if err != nil {
		return existing, fmt.Errorf("failed to parse imported catalog: %w", err)
	}

	doc := existing.Document()
	componentIDs := make(map[string]bool, len(doc.Components))
	for _, c := range doc.Components {
		componentIDs[c.ID] = true
	}
	packageIDs := make(map[string]bool, len(doc.Packages))
	for _, p := range doc.Packages {
		packageIDs[p.ID] = true
	}

	for _, c := range imported.ListComponents() {
		if !componentIDs[c.ID] {
			doc.Components = append(doc.Components, c)
			componentIDs[c.ID] = true
		}
	}
	for _, p := range imported.ListPackages() {
		if !packageIDs[p.ID] {
			doc.Packages = append(doc.Packages, p)
			packageIDs[p.ID] = true
		}
	}

	merged, err := catalog.New(doc)
	if err != nil {
		return existing, fmt.Errorf("merged catalog is invalid: %w", err)
	}
	return merged, nil
}
