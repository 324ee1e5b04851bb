// Package catalog is the read-only registry of priced glass components and
// the packages that bundle them.
package catalog

import (
	"embed"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/GlassQuote/internal/model"
)

//go:embed default_catalog.yaml
var defaultCatalogFS embed.FS

const defaultCatalogFile = "default_catalog.yaml"

// Document is the on-disk shape of a catalog.
type Document struct {
	Currency   model.Currency    `yaml:"currency" json:"currency"`
	Components []model.Component `yaml:"components" json:"components"`
	Packages   []model.Package   `yaml:"packages" json:"packages"`
}

// Catalog is immutable after construction. Accessors return copies.
type Catalog struct {
	currency     model.Currency
	components   []model.Component
	componentIdx map[string]int
	packages     []model.Package
	packageIdx   map[string]int
}

// New validates the given components and packages and builds a catalog.
// Any dangling reference or malformed package is reported as a configuration
// error wrapping model.ErrNotFound or describing the bad field.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		currency:     doc.Currency,
		componentIdx: make(map[string]int, len(doc.Components)),
		packageIdx:   make(map[string]int, len(doc.Packages)),
	}
	if c.currency.Code == "" {
		c.currency = model.DefaultCurrency()
	}
	if c.currency.MinorUnits < 0 {
		return nil, fmt.Errorf("catalog currency %s: negative minor units", c.currency.Code)
	}

	for _, comp := range doc.Components {
		if comp.ID == "" {
			return nil, fmt.Errorf("catalog component %q: missing id", comp.Name)
		}
		if _, dup := c.componentIdx[comp.ID]; dup {
			return nil, fmt.Errorf("catalog component %s: duplicate id", comp.ID)
		}
		if !comp.Category.Valid() {
			return nil, fmt.Errorf("catalog component %s: unknown category %q", comp.ID, comp.Category)
		}
		if !comp.Unit.Valid() {
			return nil, fmt.Errorf("catalog component %s: unknown unit %q", comp.ID, comp.Unit)
		}
		if comp.UnitPrice < 0 || !finite(comp.UnitPrice) {
			return nil, fmt.Errorf("catalog component %s: invalid unit price %v", comp.ID, comp.UnitPrice)
		}
		c.componentIdx[comp.ID] = len(c.components)
		c.components = append(c.components, comp)
	}

	for _, pkg := range doc.Packages {
		if err := c.validatePackage(pkg); err != nil {
			return nil, err
		}
		c.packageIdx[pkg.ID] = len(c.packages)
		c.packages = append(c.packages, pkg.Clone())
	}
	return c, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Catalog) validatePackage(pkg model.Package) error {
	if pkg.ID == "" {
		return fmt.Errorf("catalog package %q: missing id", pkg.Name)
	}
	if _, dup := c.packageIdx[pkg.ID]; dup {
		return fmt.Errorf("catalog package %s: duplicate id", pkg.ID)
	}
	switch pkg.Front {
	case model.FrontNone:
	case model.FrontDoor:
		if pkg.DoorWidth <= 0 || !finite(pkg.DoorWidth) {
			return fmt.Errorf("catalog package %s: door front needs a positive door_width", pkg.ID)
		}
	default:
		return fmt.Errorf("catalog package %s: unknown front %q", pkg.ID, pkg.Front)
	}
	params := []struct {
		name string
		v    float64
	}{
		{"door_gap", pkg.DoorGap},
		{"min_fixed_width", pkg.MinFixedWidth},
		{"wall_clearance", pkg.WallClearance},
		{"corner_allowance", pkg.CornerAllowance},
		{"floor_clearance", pkg.FloorClearance},
	}
	for _, p := range params {
		if p.v < 0 || !finite(p.v) {
			return fmt.Errorf("catalog package %s: %s must be a finite, non-negative number", pkg.ID, p.name)
		}
	}

	glassItems := 0
	for i, it := range pkg.Items {
		idx, ok := c.componentIdx[it.ComponentID]
		if !ok {
			return fmt.Errorf("catalog package %s item %d: component %q: %w", pkg.ID, i, it.ComponentID, model.ErrNotFound)
		}
		if !it.Basis.Valid() {
			return fmt.Errorf("catalog package %s item %d: unknown basis %q", pkg.ID, i, it.Basis)
		}
		if it.Factor <= 0 || !finite(it.Factor) {
			return fmt.Errorf("catalog package %s item %d: factor must be positive", pkg.ID, i)
		}
		if it.Basis == model.BasisGlass {
			glassItems++
			if c.components[idx].Category != model.CategoryPanel {
				return fmt.Errorf("catalog package %s: glass item %s is not a panel component", pkg.ID, it.ComponentID)
			}
		}
	}
	if glassItems != 1 {
		return fmt.Errorf("catalog package %s: expected exactly one glass item, found %d", pkg.ID, glassItems)
	}
	return nil
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc)
}

// DefaultData returns the embedded default catalog source.
func DefaultData() ([]byte, error) {
	return defaultCatalogFS.ReadFile(defaultCatalogFile)
}

// LoadDefault parses the embedded default catalog.
func LoadDefault() (*Catalog, error) {
	data, err := DefaultData()
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return Parse(data)
}

// GetComponent returns the component with the given ID.
func (c *Catalog) GetComponent(id string) (model.Component, error) {
	idx, ok := c.componentIdx[id]
	if !ok {
		return model.Component{}, fmt.Errorf("component %q: %w", id, model.ErrNotFound)
	}
	return c.components[idx], nil
}

// GetPackage returns a copy of the package with the given ID.
func (c *Catalog) GetPackage(id string) (model.Package, error) {
	idx, ok := c.packageIdx[id]
	if !ok {
		return model.Package{}, fmt.Errorf("package %q: %w", id, model.ErrNotFound)
	}
	return c.packages[idx].Clone(), nil
}

// ListPackages returns every package in load order.
func (c *Catalog) ListPackages() []model.Package {
	out := make([]model.Package, len(c.packages))
	for i, p := range c.packages {
		out[i] = p.Clone()
	}
	return out
}

// ListComponents returns every component in load order.
func (c *Catalog) ListComponents() []model.Component {
	out := make([]model.Component, len(c.components))
	copy(out, c.components)
	return out
}

// Currency returns the currency quotes are priced in.
func (c *Catalog) Currency() model.Currency {
	return c.currency
}

// Document returns a copy of the catalog in its serialisable form.
func (c *Catalog) Document() Document {
	return Document{
		Currency:   c.currency,
		Components: c.ListComponents(),
		Packages:   c.ListPackages(),
	}
}

// Encode serialises the catalog as YAML.
func (c *Catalog) Encode() ([]byte, error) {
	data, err := yaml.Marshal(c.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// WithPrices returns a new catalog with unit prices replaced by ID.
// IDs that match no component are returned as unknown and otherwise ignored.
func (c *Catalog) WithPrices(prices map[string]float64) (*Catalog, []string, error) {
	doc := c.Document()
	seen := make(map[string]bool, len(prices))
	for i := range doc.Components {
		if p, ok := prices[doc.Components[i].ID]; ok {
			doc.Components[i].UnitPrice = p
			seen[doc.Components[i].ID] = true
		}
	}
	var unknown []string
	for id := range prices {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	next, err := New(doc)
	if err != nil {
		return nil, nil, err
	}
	return next, unknown, nil
}
