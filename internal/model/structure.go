package model

import (
	"fmt"
	"math"
)

// Axis selects one of the structure's three dimensions.
type Axis int

const (
	AxisWidth Axis = iota
	AxisDepth
	AxisHeight
)

func (a Axis) String() string {
	switch a {
	case AxisWidth:
		return "width"
	case AxisDepth:
		return "depth"
	case AxisHeight:
		return "height"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Side is one vertical face of the structure. The declaration order is the
// canonical order used for derivation, ids and corner attribution.
type Side int

const (
	SideLeft Side = iota
	SideBack
	SideRight
	SideFront
)

// CanonicalSides lists every side in canonical order.
var CanonicalSides = []Side{SideLeft, SideBack, SideRight, SideFront}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideBack:
		return "back"
	case SideRight:
		return "right"
	case SideFront:
		return "front"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide converts a side name to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return SideLeft, nil
	case "back":
		return SideBack, nil
	case "right":
		return SideRight, nil
	case "front":
		return SideFront, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// StructureConfig is the user-entered shape of one glass structure.
// Dimensions are millimetres. The front never carries a wall.
type StructureConfig struct {
	Width        float64 `json:"width"`
	Depth        float64 `json:"depth"`
	Height       float64 `json:"height"`
	HasLeftWall  bool    `json:"has_left_wall"`
	HasRightWall bool    `json:"has_right_wall"`
	HasBackWall  bool    `json:"has_back_wall"`
}

// DefaultStructure returns a common corner-shower footprint against a back wall.
func DefaultStructure() StructureConfig {
	return StructureConfig{
		Width:       1200,
		Depth:       900,
		Height:      2000,
		HasBackWall: true,
	}
}

// Dimension returns the value along axis a.
func (c StructureConfig) Dimension(a Axis) float64 {
	switch a {
	case AxisWidth:
		return c.Width
	case AxisDepth:
		return c.Depth
	default:
		return c.Height
	}
}

// HasWall reports whether side s is a solid wall.
func (c StructureConfig) HasWall(s Side) bool {
	switch s {
	case SideLeft:
		return c.HasLeftWall
	case SideRight:
		return c.HasRightWall
	case SideBack:
		return c.HasBackWall
	default:
		return false
	}
}

// SideLength returns the horizontal extent of side s.
func (c StructureConfig) SideLength(s Side) float64 {
	if s == SideLeft || s == SideRight {
		return c.Depth
	}
	return c.Width
}

// OpenSides returns the non-wall sides among left, back and right in canonical order.
func (c StructureConfig) OpenSides() []Side {
	var out []Side
	for _, s := range []Side{SideLeft, SideBack, SideRight} {
		if !c.HasWall(s) {
			out = append(out, s)
		}
	}
	return out
}

// Complete reports whether at least one wall-capable side remains open.
func (c StructureConfig) Complete() bool {
	return len(c.OpenSides()) > 0
}

// ValidateDimension checks a single dimension value.
func ValidateDimension(a Axis, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive finite number, got %v", ErrInvalidDimension, a, v)
	}
	return nil
}

// Validate checks dimensions and the open-side invariant.
func (c StructureConfig) Validate() error {
	for _, a := range []Axis{AxisWidth, AxisDepth, AxisHeight} {
		if err := ValidateDimension(a, c.Dimension(a)); err != nil {
			return err
		}
	}
	if !c.Complete() {
		return fmt.Errorf("%w: every side is walled, nothing to glaze", ErrIncomplete)
	}
	return nil
}
