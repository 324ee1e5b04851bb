// Package view projects derived geometry into a camera-space scene and
// drives the preview's rotation angle.
package view

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// Camera describes how the rotated structure is viewed.
type Camera struct {
	Elevation float64 `json:"elevation"` // degrees above the horizon
	Distance  float64 `json:"distance"`  // mm from the centre; 0 = orthographic
}

// ErrInvalidCamera is returned by Camera.Validate.
var ErrInvalidCamera = errors.New("invalid camera")

// nearPlane is the smallest camera-to-point distance, in mm, used for
// perspective division.
const nearPlane = 1.0

// DefaultCamera looks slightly down at the structure from the front.
func DefaultCamera() Camera {
	return Camera{Elevation: 25, Distance: 6000}
}

// FitCamera is DefaultCamera moved back far enough that geom stays in front
// of it at every angle.
func FitCamera(geom model.GeometryInstance) Camera {
	cam := DefaultCamera()
	cam.Distance = math.Max(cam.Distance, 3*Reach(geom))
	return cam
}

// Reach is the radius of the sphere, centred on the rotation axis at mid
// height, that contains geom at any angle and elevation.
func Reach(geom model.GeometryInstance) float64 {
	b := geom.Bounds
	return math.Sqrt(b.X*b.X+b.Y*b.Y+b.Z*b.Z) / 2
}

// Validate rejects cameras that would place part of geom at or behind the
// eye. Distance 0 selects the orthographic projection.
func (cam Camera) Validate(geom model.GeometryInstance) error {
	if math.IsNaN(cam.Elevation) || math.IsInf(cam.Elevation, 0) {
		return fmt.Errorf("%w: elevation must be finite", ErrInvalidCamera)
	}
	if math.IsNaN(cam.Distance) || math.IsInf(cam.Distance, 0) || cam.Distance < 0 {
		return fmt.Errorf("%w: distance must be 0 or a positive number", ErrInvalidCamera)
	}
	if r := Reach(geom); cam.Distance > 0 && cam.Distance <= r {
		return fmt.Errorf("%w: distance %.0f mm must exceed %.0f mm for this structure", ErrInvalidCamera, cam.Distance, r)
	}
	return nil
}

// Point2 is a projected point. X grows right, Y grows up.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// QuadKind tells the renderer how to draw a quad.
type QuadKind string

const (
	QuadPanel QuadKind = "panel"
	QuadDoor  QuadKind = "door"
	QuadWall  QuadKind = "wall"
)

// Quad is a projected panel or wall. Corners are rotated and centred on the
// rotation axis; Depth is the mean camera depth, larger is farther.
type Quad struct {
	ID        string        `json:"id"`
	Kind      QuadKind      `json:"kind"`
	Side      model.Side    `json:"side"`
	Corners   [4]model.Vec3 `json:"corners"`
	Projected [4]Point2     `json:"projected"`
	Depth     float64       `json:"depth"`
}

// Marker is a projected hardware position.
type Marker struct {
	ID          string         `json:"id"`
	ComponentID string         `json:"component_id"`
	Category    model.Category `json:"category"`
	Position    model.Vec3     `json:"position"`
	Projected   Point2         `json:"projected"`
	Depth       float64        `json:"depth"`
}

// Scene is everything a renderer needs for one frame.
// Quads are sorted far to near so painters can draw in order.
type Scene struct {
	Angle    float64  `json:"angle"`
	Camera   Camera   `json:"camera"`
	Quads    []Quad   `json:"quads"`
	Hardware []Marker `json:"hardware"`
}

// Rotate turns p about the vertical axis through centre by angle degrees and
// returns it relative to that axis.
func Rotate(p, centre model.Vec3, angle float64) model.Vec3 {
	r := model.NormalizeAngle(angle) * math.Pi / 180
	sin, cos := math.Sincos(r)
	x := p.X - centre.X
	z := p.Z - centre.Z
	return model.Vec3{
		X: x*cos - z*sin,
		Y: p.Y,
		Z: x*sin + z*cos,
	}
}

// project maps a rotated point onto the image plane.
func (cam Camera) project(p model.Vec3, midHeight float64) (Point2, float64) {
	e := cam.Elevation * math.Pi / 180
	sin, cos := math.Sincos(e)
	y := p.Y - midHeight
	sy := y*cos + p.Z*sin
	depth := p.Z*cos - y*sin
	f := 1.0
	if cam.Distance > 0 {
		f = cam.Distance / math.Max(cam.Distance+depth, nearPlane)
	}
	return Point2{X: p.X * f, Y: sy * f}, depth
}

// Project is a pure function of its arguments: every panel corner, wall
// corner and hardware position is rotated about the structure's vertical
// axis by angle and then projected through cam.
func Project(geom model.GeometryInstance, angle float64, cam Camera) Scene {
	centre := geom.Center()
	mid := geom.Bounds.Y / 2
	sc := Scene{
		Angle:    model.NormalizeAngle(angle),
		Camera:   cam,
		Quads:    make([]Quad, 0, len(geom.Panels)+len(geom.Walls)),
		Hardware: make([]Marker, 0, len(geom.Hardware)),
	}

	quad := func(id string, kind QuadKind, side model.Side, corners [4]model.Vec3) Quad {
		q := Quad{ID: id, Kind: kind, Side: side}
		for i, c := range corners {
			q.Corners[i] = Rotate(c, centre, angle)
			var d float64
			q.Projected[i], d = cam.project(q.Corners[i], mid)
			q.Depth += d / 4
		}
		return q
	}

	for _, w := range geom.Walls {
		corners := [4]model.Vec3{
			w.From,
			w.To,
			{X: w.To.X, Y: w.Height, Z: w.To.Z},
			{X: w.From.X, Y: w.Height, Z: w.From.Z},
		}
		sc.Quads = append(sc.Quads, quad("wall-"+w.Side.String(), QuadWall, w.Side, corners))
	}
	for _, p := range geom.Panels {
		kind := QuadPanel
		if p.Kind == model.PanelDoor {
			kind = QuadDoor
		}
		sc.Quads = append(sc.Quads, quad(p.ID, kind, p.Side, p.Corners()))
	}
	sort.SliceStable(sc.Quads, func(i, j int) bool { return sc.Quads[i].Depth > sc.Quads[j].Depth })

	for _, h := range geom.Hardware {
		pos := Rotate(h.Position, centre, angle)
		proj, d := cam.project(pos, mid)
		sc.Hardware = append(sc.Hardware, Marker{
			ID:          h.ID,
			ComponentID: h.ComponentID,
			Category:    h.Category,
			Position:    pos,
			Projected:   proj,
			Depth:       d,
		})
	}
	sort.SliceStable(sc.Hardware, func(i, j int) bool { return sc.Hardware[i].Depth > sc.Hardware[j].Depth })
	return sc
}

// Bounds returns the extent of every projected point in the scene.
func (s Scene) Bounds() (lo, hi Point2, ok bool) {
	first := true
	grow := func(p Point2) {
		if first {
			lo, hi, first = p, p, false
			return
		}
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	for _, q := range s.Quads {
		for _, p := range q.Projected {
			grow(p)
		}
	}
	for _, m := range s.Hardware {
		grow(m.Projected)
	}
	return lo, hi, !first
}
