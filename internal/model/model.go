package model

// Category classifies a catalog component.
type Category string

const (
	CategoryPanel    Category = "panel"
	CategoryHinge    Category = "hinge"
	CategoryProfile  Category = "profile"
	CategoryHardware Category = "hardware"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPanel, CategoryHinge, CategoryProfile, CategoryHardware:
		return true
	}
	return false
}

// Unit is the unit of measure a component is priced in.
type Unit string

const (
	UnitItem        Unit = "item"
	UnitLinearMeter Unit = "linear_meter"
	UnitSquareMeter Unit = "square_meter"
)

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case UnitItem, UnitLinearMeter, UnitSquareMeter:
		return true
	}
	return false
}

// Symbol returns a short label for quote tables.
func (u Unit) Symbol() string {
	switch u {
	case UnitLinearMeter:
		return "m"
	case UnitSquareMeter:
		return "m²"
	default:
		return "pc"
	}
}

// Component is a priced catalog entry (glass, hinge, profile, handle...).
type Component struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Category  Category `json:"category" yaml:"category"`
	UnitPrice float64  `json:"unit_price" yaml:"unit_price"` // currency units per Unit
	Unit      Unit     `json:"unit" yaml:"unit"`
}

// Basis selects what a package item's quantity is counted against.
type Basis string

const (
	BasisGlass           Basis = "glass"             // the glass of every derived panel
	BasisPerPanel        Basis = "per_panel"         // factor x panels
	BasisPerFixedPanel   Basis = "per_fixed_panel"   // factor x fixed panels
	BasisPerDoor         Basis = "per_door"          // factor x door leaves
	BasisPerCorner       Basis = "per_corner"        // factor x glass-to-glass corners
	BasisPerWallJoint    Basis = "per_wall_joint"    // factor x panel edges against a wall
	BasisPanelBottomEdge Basis = "panel_bottom_edge" // run along each panel's bottom edge
	BasisPerStructure    Basis = "per_structure"     // factor, once
)

// Valid reports whether b is one of the known bases.
func (b Basis) Valid() bool {
	switch b {
	case BasisGlass, BasisPerPanel, BasisPerFixedPanel, BasisPerDoor, BasisPerCorner,
		BasisPerWallJoint, BasisPanelBottomEdge, BasisPerStructure:
		return true
	}
	return false
}

// PackageItem binds a component to a quantity formula.
type PackageItem struct {
	ComponentID string  `json:"component_id" yaml:"component"`
	Basis       Basis   `json:"basis" yaml:"basis"`
	Factor      float64 `json:"factor" yaml:"factor"`
}

// FrontEntry describes what, if anything, closes the front of the structure.
type FrontEntry string

const (
	FrontNone FrontEntry = "none" // walk-in, no front glass
	FrontDoor FrontEntry = "door" // hinged door, optionally with a fixed side panel
)

// Package is a named bundle of components with construction parameters.
type Package struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Items       []PackageItem `json:"items" yaml:"items"`

	Front           FrontEntry `json:"front" yaml:"front"`
	DoorWidth       float64    `json:"door_width" yaml:"door_width"`             // mm
	DoorGap         float64    `json:"door_gap" yaml:"door_gap"`                 // mm between door leaf and fixed panel
	MinFixedWidth   float64    `json:"min_fixed_width" yaml:"min_fixed_width"`   // mm; narrower remainders join the door
	WallClearance   float64    `json:"wall_clearance" yaml:"wall_clearance"`     // mm per edge against a wall
	CornerAllowance float64    `json:"corner_allowance" yaml:"corner_allowance"` // mm shared by two glass edges at a corner
	FloorClearance  float64    `json:"floor_clearance" yaml:"floor_clearance"`   // mm
}

// GlassItem returns the package's glass item. Catalog loading guarantees exactly one.
func (p Package) GlassItem() (PackageItem, bool) {
	for _, it := range p.Items {
		if it.Basis == BasisGlass {
			return it, true
		}
	}
	return PackageItem{}, false
}

// Clone returns a copy that shares no slices with p.
func (p Package) Clone() Package {
	cp := p
	cp.Items = make([]PackageItem, len(p.Items))
	copy(cp.Items, p.Items)
	return cp
}

// Currency describes how quote totals are rounded and labelled.
type Currency struct {
	Code       string `json:"code" yaml:"code"`
	MinorUnits int32  `json:"minor_units" yaml:"minor_units"`
}

// DefaultCurrency is used when a catalog does not declare one.
func DefaultCurrency() Currency {
	return Currency{Code: "EUR", MinorUnits: 2}
}
