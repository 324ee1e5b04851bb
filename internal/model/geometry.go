package model

import "math"

// Vec3 is a point in structure space, millimetres. The origin is the
// front-left floor corner; X runs along the width, Y up, Z from front to back.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// PanelKind distinguishes fixed glass from a swinging door leaf.
type PanelKind string

const (
	PanelFixed PanelKind = "fixed"
	PanelDoor  PanelKind = "door"
)

// PanelPlacement is one positioned sheet of glass.
// Position is the bottom corner the panel grows from; Orientation is the
// direction of its width in degrees about the vertical axis (0 = +X, 90 = +Z).
type PanelPlacement struct {
	ID          string    `json:"id"`
	Side        Side      `json:"side"`
	Kind        PanelKind `json:"kind"`
	ComponentID string    `json:"component_id"`
	Position    Vec3      `json:"position"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Orientation float64   `json:"orientation"`
}

// Area returns the glass area in square metres.
func (p PanelPlacement) Area() float64 {
	return p.Width * p.Height / 1e6
}

// Corners returns the four panel corners in drawing order:
// bottom-start, bottom-end, top-end, top-start.
func (p PanelPlacement) Corners() [4]Vec3 {
	dx, dz := orientationVector(p.Orientation)
	b0 := p.Position
	b1 := Vec3{X: b0.X + dx*p.Width, Y: b0.Y, Z: b0.Z + dz*p.Width}
	return [4]Vec3{
		b0,
		b1,
		{X: b1.X, Y: b0.Y + p.Height, Z: b1.Z},
		{X: b0.X, Y: b0.Y + p.Height, Z: b0.Z},
	}
}

func orientationVector(deg float64) (float64, float64) {
	switch NormalizeAngle(deg) {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	r := deg * math.Pi / 180
	return math.Cos(r), math.Sin(r)
}

// HardwareInstance is one placed non-glass item. Quantity is in the
// component's unit: pieces for items, metres for linear components.
type HardwareInstance struct {
	ID          string   `json:"id"`
	ComponentID string   `json:"component_id"`
	Category    Category `json:"category"`
	Position    Vec3     `json:"position"`
	Quantity    float64  `json:"quantity"`
	PanelID     string   `json:"panel_id"`
}

// WallPlacement is a solid wall, carried so previews can draw it.
type WallPlacement struct {
	Side   Side    `json:"side"`
	From   Vec3    `json:"from"`
	To     Vec3    `json:"to"`
	Height float64 `json:"height"`
}

// GeometryInstance is the derived bill of geometry for one configuration.
// It is rebuilt on every change and never edited in place.
type GeometryInstance struct {
	PackageID string             `json:"package_id"`
	Bounds    Vec3               `json:"bounds"`
	Panels    []PanelPlacement   `json:"panels"`
	Hardware  []HardwareInstance `json:"hardware"`
	Walls     []WallPlacement    `json:"walls"`
}

// Center returns the point the vertical rotation axis passes through.
func (g GeometryInstance) Center() Vec3 {
	return Vec3{X: g.Bounds.X / 2, Y: 0, Z: g.Bounds.Z / 2}
}

// FindPanelByID returns a pointer to the panel with the given ID, or nil.
func (g *GeometryInstance) FindPanelByID(id string) *PanelPlacement {
	for i := range g.Panels {
		if g.Panels[i].ID == id {
			return &g.Panels[i]
		}
	}
	return nil
}

// CountPanels returns how many panels are of the given kind.
func (g GeometryInstance) CountPanels(kind PanelKind) int {
	n := 0
	for _, p := range g.Panels {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (g GeometryInstance) Clone() GeometryInstance {
	cp := g
	cp.Panels = append([]PanelPlacement(nil), g.Panels...)
	cp.Hardware = append([]HardwareInstance(nil), g.Hardware...)
	cp.Walls = append([]WallPlacement(nil), g.Walls...)
	return cp
}
