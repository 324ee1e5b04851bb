package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// ComponentLookup resolves component IDs. *catalog.Catalog satisfies it.
type ComponentLookup interface {
	GetComponent(id string) (model.Component, error)
}

// Deriver turns a StructureConfig and Package into positioned panels and hardware.
type Deriver struct {
	components ComponentLookup
}

func New(components ComponentLookup) *Deriver {
	return &Deriver{components: components}
}

// endKind is what a panel edge or side end butts against.
type endKind int

const (
	endFree endKind = iota
	endWall
	endGlass
)

// sideLayout fixes where a side runs: from its start neighbour to its end
// neighbour, beginning at origin and heading along orientation.
type sideLayout struct {
	start, end  model.Side
	origin      model.Vec3
	orientation float64
	length      float64
}

func layoutOf(cfg model.StructureConfig, s model.Side) sideLayout {
	switch s {
	case model.SideLeft:
		return sideLayout{start: model.SideFront, end: model.SideBack, origin: model.Vec3{}, orientation: 90, length: cfg.Depth}
	case model.SideBack:
		return sideLayout{start: model.SideLeft, end: model.SideRight, origin: model.Vec3{Z: cfg.Depth}, orientation: 0, length: cfg.Width}
	case model.SideRight:
		return sideLayout{start: model.SideFront, end: model.SideBack, origin: model.Vec3{X: cfg.Width}, orientation: 90, length: cfg.Depth}
	default:
		return sideLayout{start: model.SideLeft, end: model.SideRight, origin: model.Vec3{}, orientation: 0, length: cfg.Width}
	}
}

// along returns the point dist millimetres from origin in the side's direction.
func (l sideLayout) along(dist float64) model.Vec3 {
	if l.orientation == 90 {
		return model.Vec3{X: l.origin.X, Y: l.origin.Y, Z: l.origin.Z + dist}
	}
	return model.Vec3{X: l.origin.X + dist, Y: l.origin.Y, Z: l.origin.Z}
}

// segment is a derived panel plus what each of its vertical edges meets.
type segment struct {
	panel     model.PanelPlacement
	startEdge endKind
	endEdge   endKind
}

// corner is a glass-to-glass joint attributed to the first side in canonical order.
type corner struct {
	seg     int // index into derivation.segments
	atStart bool
}

// wallJoint is a panel edge against a solid wall.
type wallJoint struct {
	seg     int
	atStart bool
}

type derivation struct {
	cfg      model.StructureConfig
	pkg      model.Package
	segments []segment
	corners  []corner
	joints   []wallJoint
	seq      map[string]int
	hardware []model.HardwareInstance
}

// carriesGlass reports whether side s gets panels under pkg.
func carriesGlass(cfg model.StructureConfig, pkg model.Package, s model.Side) bool {
	if s == model.SideFront {
		return pkg.Front == model.FrontDoor
	}
	return !cfg.HasWall(s)
}

func (d *derivation) endKindOf(neighbour model.Side) endKind {
	switch {
	case d.cfg.HasWall(neighbour):
		return endWall
	case carriesGlass(d.cfg, d.pkg, neighbour):
		return endGlass
	default:
		return endFree
	}
}

func (d *derivation) deduction(k endKind) float64 {
	switch k {
	case endWall:
		return d.pkg.WallClearance
	case endGlass:
		return d.pkg.CornerAllowance / 2
	default:
		return 0
	}
}

// Derive builds the GeometryInstance for cfg under pkg. It is a pure function
// of its inputs: identical arguments yield identical panels, hardware and IDs.
// Fully walled configurations fail with model.ErrIncomplete; any side whose
// open span or panel height is not positive fails with
// model.ErrGeometryInfeasible and no partial result.
func (dv *Deriver) Derive(cfg model.StructureConfig, pkg model.Package) (model.GeometryInstance, error) {
	if err := cfg.Validate(); err != nil {
		return model.GeometryInstance{}, err
	}
	glass, ok := pkg.GlassItem()
	if !ok {
		return model.GeometryInstance{}, fmt.Errorf("package %s glass item: %w", pkg.ID, model.ErrNotFound)
	}
	if _, err := dv.components.GetComponent(glass.ComponentID); err != nil {
		return model.GeometryInstance{}, fmt.Errorf("package %s: %w", pkg.ID, err)
	}

	panelHeight := cfg.Height - pkg.FloorClearance
	if panelHeight <= 0 {
		return model.GeometryInstance{}, fmt.Errorf("%w: height %.1f mm leaves no glass above %.1f mm floor clearance",
			model.ErrGeometryInfeasible, cfg.Height, pkg.FloorClearance)
	}

	d := &derivation{cfg: cfg, pkg: pkg, seq: make(map[string]int)}
	for _, side := range model.CanonicalSides {
		if !carriesGlass(cfg, pkg, side) {
			continue
		}
		if err := d.deriveSide(side, glass.ComponentID, panelHeight); err != nil {
			return model.GeometryInstance{}, err
		}
	}
	if len(d.segments) == 0 {
		return model.GeometryInstance{}, fmt.Errorf("%w: no open side produced a panel", model.ErrGeometryInfeasible)
	}

	for _, it := range pkg.Items {
		if it.Basis == model.BasisGlass {
			continue
		}
		comp, err := dv.components.GetComponent(it.ComponentID)
		if err != nil {
			return model.GeometryInstance{}, fmt.Errorf("package %s: %w", pkg.ID, err)
		}
		d.placeItem(it, comp)
	}

	geom := model.GeometryInstance{
		PackageID: pkg.ID,
		Bounds:    model.Vec3{X: cfg.Width, Y: cfg.Height, Z: cfg.Depth},
		Panels:    make([]model.PanelPlacement, len(d.segments)),
		Hardware:  d.hardware,
		Walls:     walls(cfg),
	}
	for i, s := range d.segments {
		geom.Panels[i] = s.panel
	}
	if geom.Hardware == nil {
		geom.Hardware = []model.HardwareInstance{}
	}
	return geom, nil
}

func (d *derivation) deriveSide(side model.Side, glassID string, panelHeight float64) error {
	l := layoutOf(d.cfg, side)
	startK := d.endKindOf(l.start)
	endK := d.endKindOf(l.end)
	dStart := d.deduction(startK)
	span := l.length - dStart - d.deduction(endK)
	if span <= 0 {
		return fmt.Errorf("%w: %s side span %.1f mm after clearances", model.ErrGeometryInfeasible, side, span)
	}

	mk := func(kind model.PanelKind, offset, width float64) model.PanelPlacement {
		pos := l.along(offset)
		pos.Y = d.pkg.FloorClearance
		return model.PanelPlacement{
			ID:          fmt.Sprintf("%s-%s", side, kind),
			Side:        side,
			Kind:        kind,
			ComponentID: glassID,
			Position:    pos,
			Width:       width,
			Height:      panelHeight,
			Orientation: l.orientation,
		}
	}

	first := len(d.segments)
	if side == model.SideFront {
		door := d.pkg.DoorWidth
		if span > door+d.pkg.DoorGap+d.pkg.MinFixedWidth {
			fixed := span - door - d.pkg.DoorGap
			d.segments = append(d.segments,
				segment{panel: mk(model.PanelFixed, dStart, fixed), startEdge: startK, endEdge: endFree},
				segment{panel: mk(model.PanelDoor, dStart+fixed+d.pkg.DoorGap, door), startEdge: endFree, endEdge: endK},
			)
		} else {
			d.segments = append(d.segments, segment{panel: mk(model.PanelDoor, dStart, span), startEdge: startK, endEdge: endK})
		}
	} else {
		d.segments = append(d.segments, segment{panel: mk(model.PanelFixed, dStart, span), startEdge: startK, endEdge: endK})
	}
	last := len(d.segments) - 1

	d.recordEnd(side, l.start, startK, first, true)
	d.recordEnd(side, l.end, endK, last, false)
	return nil
}

func (d *derivation) recordEnd(side, neighbour model.Side, k endKind, seg int, atStart bool) {
	switch k {
	case endWall:
		d.joints = append(d.joints, wallJoint{seg: seg, atStart: atStart})
	case endGlass:
		if neighbour > side {
			d.corners = append(d.corners, corner{seg: seg, atStart: atStart})
		}
	}
}

// anchor is where an item attaches: a vertical edge (run == 0) or a
// horizontal run along a panel.
type anchor struct {
	panel  model.PanelPlacement
	base   model.Vec3
	rise   float64
	run    float64
	runDir model.Vec3
}

func edgeAnchor(p model.PanelPlacement, atStart bool) anchor {
	base := p.Position
	if !atStart {
		base = p.Corners()[1]
	}
	return anchor{panel: p, base: base, rise: p.Height}
}

func runAnchor(p model.PanelPlacement, y float64) anchor {
	c := p.Corners()
	base := c[0]
	base.Y = y
	dir := model.Vec3{X: (c[1].X - c[0].X) / p.Width, Z: (c[1].Z - c[0].Z) / p.Width}
	return anchor{panel: p, base: base, run: p.Width, runDir: dir}
}

func (d *derivation) anchorsFor(it model.PackageItem, comp model.Component) []anchor {
	var out []anchor
	switch it.Basis {
	case model.BasisPerPanel:
		for _, s := range d.segments {
			out = append(out, edgeAnchor(s.panel, true))
		}
	case model.BasisPerFixedPanel:
		for _, s := range d.segments {
			if s.panel.Kind == model.PanelFixed {
				out = append(out, edgeAnchor(s.panel, s.startEdge != endFree || s.endEdge == endFree))
			}
		}
	case model.BasisPerDoor:
		for _, s := range d.segments {
			if s.panel.Kind == model.PanelDoor {
				// hinges on the start edge, everything else on the closing edge
				out = append(out, edgeAnchor(s.panel, comp.Category == model.CategoryHinge))
			}
		}
	case model.BasisPerCorner:
		for _, c := range d.corners {
			out = append(out, edgeAnchor(d.segments[c.seg].panel, c.atStart))
		}
	case model.BasisPerWallJoint:
		for _, j := range d.joints {
			out = append(out, edgeAnchor(d.segments[j.seg].panel, j.atStart))
		}
	case model.BasisPanelBottomEdge:
		for _, s := range d.segments {
			out = append(out, runAnchor(s.panel, s.panel.Position.Y))
		}
	case model.BasisPerStructure:
		p := d.segments[0].panel
		out = append(out, runAnchor(p, p.Position.Y+p.Height))
	}
	return out
}

func (d *derivation) placeItem(it model.PackageItem, comp model.Component) {
	for _, a := range d.anchorsFor(it, comp) {
		switch {
		case comp.Unit == model.UnitItem:
			n := int(math.Ceil(it.Factor))
			for i := 0; i < n; i++ {
				frac := float64(2*i+1) / float64(2*n)
				pos := a.base
				if a.run > 0 {
					pos = pos.Add(model.Vec3{X: a.runDir.X * a.run * frac, Z: a.runDir.Z * a.run * frac})
				} else {
					pos.Y += a.rise * frac
				}
				d.emit(comp, a.panel.ID, pos, 1)
			}
		case it.Basis == model.BasisPerStructure:
			d.emit(comp, a.panel.ID, a.base, it.Factor)
		case comp.Unit == model.UnitSquareMeter:
			d.emit(comp, a.panel.ID, a.base, it.Factor*a.panel.Area())
		default:
			length := a.rise
			if a.run > 0 {
				length = a.run
			}
			d.emit(comp, a.panel.ID, a.base, it.Factor*length/1000)
		}
	}
}

func (d *derivation) emit(comp model.Component, panelID string, pos model.Vec3, qty float64) {
	d.seq[comp.ID]++
	d.hardware = append(d.hardware, model.HardwareInstance{
		ID:          fmt.Sprintf("%s-%d", comp.ID, d.seq[comp.ID]),
		ComponentID: comp.ID,
		Category:    comp.Category,
		Position:    pos,
		Quantity:    qty,
		PanelID:     panelID,
	})
}

func walls(cfg model.StructureConfig) []model.WallPlacement {
	out := []model.WallPlacement{}
	if cfg.HasLeftWall {
		out = append(out, model.WallPlacement{Side: model.SideLeft, From: model.Vec3{}, To: model.Vec3{Z: cfg.Depth}, Height: cfg.Height})
	}
	if cfg.HasBackWall {
		out = append(out, model.WallPlacement{Side: model.SideBack, From: model.Vec3{Z: cfg.Depth}, To: model.Vec3{X: cfg.Width, Z: cfg.Depth}, Height: cfg.Height})
	}
	if cfg.HasRightWall {
		out = append(out, model.WallPlacement{Side: model.SideRight, From: model.Vec3{X: cfg.Width}, To: model.Vec3{X: cfg.Width, Z: cfg.Depth}, Height: cfg.Height})
	}
	return out
}
