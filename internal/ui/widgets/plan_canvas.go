package widgets

import (
	"fmt"
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/model"
)

var (
	colorFloor = color.NRGBA{R: 238, G: 238, B: 232, A: 255}
	colorWall  = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	colorGlass = color.NRGBA{R: 40, G: 140, B: 210, A: 255}
	colorDoor  = color.NRGBA{R: 230, G: 140, B: 20, A: 255}
	colorFix   = color.NRGBA{R: 120, G: 120, B: 130, A: 255}
)

// PlanCanvas draws the structure's footprint from above with the front at
// the bottom: walls in grey, fixed glass in blue, door leaves in orange.
type PlanCanvas struct {
	widget.BaseWidget
	geom      model.GeometryInstance
	stale     bool
	maxWidth  float32
	maxHeight float32
}

func NewPlanCanvas(geom model.GeometryInstance, maxW, maxH float32) *PlanCanvas {
	pc := &PlanCanvas{
		geom:      geom,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetGeometry replaces the drawn geometry. Stale geometry is drawn faded.
func (pc *PlanCanvas) SetGeometry(geom model.GeometryInstance, stale bool) {
	pc.geom = geom
	pc.stale = stale
	pc.Refresh()
}

func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPlanCanvasRenderer(pc)
}

type planCanvasRenderer struct {
	pc      *PlanCanvas
	objects []fyne.CanvasObject
}

func newPlanCanvasRenderer(pc *PlanCanvas) *planCanvasRenderer {
	r := &planCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *planCanvasRenderer) scale() float32 {
	g := r.pc.geom
	if g.Bounds.X <= 0 || g.Bounds.Z <= 0 {
		return 0
	}
	scale := r.pc.maxWidth / float32(g.Bounds.X)
	if s := r.pc.maxHeight / float32(g.Bounds.Z); s < scale {
		scale = s
	}
	return scale
}

func (r *planCanvasRenderer) rebuild() {
	r.objects = nil

	g := r.pc.geom
	scale := r.scale()
	if scale <= 0 {
		return
	}
	canvasW := float32(g.Bounds.X) * scale
	canvasH := float32(g.Bounds.Z) * scale
	toPos := func(v model.Vec3) fyne.Position {
		return fyne.NewPos(float32(v.X)*scale, (float32(g.Bounds.Z)-float32(v.Z))*scale)
	}
	fade := func(c color.NRGBA) color.NRGBA {
		if r.pc.stale {
			c.A = 90
		}
		return c
	}

	bg := canvas.NewRectangle(colorFloor)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	for _, w := range g.Walls {
		line := canvas.NewLine(fade(colorWall))
		line.StrokeWidth = 6
		line.Position1 = toPos(w.From)
		line.Position2 = toPos(w.To)
		r.objects = append(r.objects, line)
	}

	for _, p := range g.Panels {
		col := colorGlass
		if p.Kind == model.PanelDoor {
			col = colorDoor
		}
		c := p.Corners()
		line := canvas.NewLine(fade(col))
		line.StrokeWidth = 3
		line.Position1 = toPos(c[0])
		line.Position2 = toPos(c[1])
		r.objects = append(r.objects, line)

		mid := fyne.NewPos((line.Position1.X+line.Position2.X)/2, (line.Position1.Y+line.Position2.Y)/2)
		label := canvas.NewText(fmt.Sprintf("%s %.0f", p.ID, p.Width), fade(col))
		label.TextSize = 9
		label.Move(fyne.NewPos(mid.X+4, mid.Y+2))
		r.objects = append(r.objects, label)
	}

	for _, h := range g.Hardware {
		if h.Category == model.CategoryProfile {
			continue
		}
		dot := canvas.NewCircle(fade(colorFix))
		pos := toPos(h.Position)
		dot.Resize(fyne.NewSize(5, 5))
		dot.Move(fyne.NewPos(pos.X-2.5, pos.Y-2.5))
		r.objects = append(r.objects, dot)
	}
}

func (r *planCanvasRenderer) Layout(size fyne.Size)        {}
func (r *planCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *planCanvasRenderer) Destroy()                     {}
func (r *planCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *planCanvasRenderer) MinSize() fyne.Size {
	g := r.pc.geom
	scale := r.scale()
	if scale <= 0 {
		return fyne.NewSize(r.pc.maxWidth, r.pc.maxHeight)
	}
	return fyne.NewSize(float32(g.Bounds.X)*scale, float32(g.Bounds.Z)*scale)
}

// RenderPanelSummary creates the plan view with a per-component cut list
// underneath.
func RenderPanelSummary(plan *PlanCanvas, geom model.GeometryInstance) fyne.CanvasObject {
	items := []fyne.CanvasObject{plan, widget.NewSeparator()}

	header := widget.NewLabel(fmt.Sprintf("%d panels, %d doors, %.2f m² glass",
		len(geom.Panels), geom.CountPanels(model.PanelDoor), totalGlassArea(geom)))
	header.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, header)

	for _, line := range PanelBreakdown(geom) {
		items = append(items, widget.NewLabel(line))
	}
	return container.NewVBox(items...)
}

func totalGlassArea(g model.GeometryInstance) float64 {
	var a float64
	for _, p := range g.Panels {
		a += p.Area()
	}
	return a
}

// PanelBreakdown groups panels by glass component and size, in first-seen
// order of component, largest size first.
func PanelBreakdown(g model.GeometryInstance) []string {
	type sizeKey struct {
		component string
		w, h      float64
	}
	var order []string
	counts := make(map[sizeKey]int)
	sizes := make(map[string][]sizeKey)

	for _, p := range g.Panels {
		key := sizeKey{p.ComponentID, p.Width, p.Height}
		if _, seen := sizes[p.ComponentID]; !seen {
			order = append(order, p.ComponentID)
		}
		if counts[key] == 0 {
			sizes[p.ComponentID] = append(sizes[p.ComponentID], key)
		}
		counts[key]++
	}

	var lines []string
	for _, comp := range order {
		keys := sizes[comp]
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].w*keys[i].h > keys[j].w*keys[j].h })
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %d x %.0f x %.0f mm", comp, counts[k], k.w, k.h))
		}
	}
	return lines
}
