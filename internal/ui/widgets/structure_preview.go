package widgets

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/view"
)

var colorStale = color.NRGBA{R: 200, G: 40, B: 40, A: 255}

// StructurePreview shows the rotated structure as a rasterised scene.
// The raster is regenerated at the widget's pixel size on every refresh.
type StructurePreview struct {
	widget.BaseWidget
	scene     view.Scene
	hasScene  bool
	stale     bool
	minWidth  float32
	minHeight float32
}

// NewStructurePreview creates an empty preview.
func NewStructurePreview(minW, minH float32) *StructurePreview {
	sp := &StructurePreview{minWidth: minW, minHeight: minH}
	sp.ExtendBaseWidget(sp)
	return sp
}

// SetScene replaces the scene. Must be called on the UI goroutine.
func (sp *StructurePreview) SetScene(scene view.Scene, stale bool) {
	sp.scene = scene
	sp.hasScene = true
	sp.stale = stale
	sp.Refresh()
}

// Clear removes the scene.
func (sp *StructurePreview) Clear() {
	sp.scene = view.Scene{}
	sp.hasScene = false
	sp.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (sp *StructurePreview) CreateRenderer() fyne.WidgetRenderer {
	r := &structurePreviewRenderer{sp: sp}
	r.raster = canvas.NewRaster(r.generate)
	r.note = canvas.NewText("", colorStale)
	r.note.TextSize = 11
	r.note.TextStyle = fyne.TextStyle{Bold: true}
	r.objects = []fyne.CanvasObject{r.raster, r.note}
	r.Refresh()
	return r
}

type structurePreviewRenderer struct {
	sp      *StructurePreview
	raster  *canvas.Raster
	note    *canvas.Text
	objects []fyne.CanvasObject
}

func (r *structurePreviewRenderer) generate(w, h int) image.Image {
	if !r.sp.hasScene || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return view.RenderImage(r.sp.scene, w, h)
}

func (r *structurePreviewRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.raster.Move(fyne.NewPos(0, 0))
	r.note.Move(fyne.NewPos(6, 4))
}

func (r *structurePreviewRenderer) Refresh() {
	if r.sp.stale {
		r.note.Text = "Outdated: last valid configuration shown"
	} else {
		r.note.Text = ""
	}
	r.note.Refresh()
	r.raster.Refresh()
}

func (r *structurePreviewRenderer) Destroy()                     {}
func (r *structurePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *structurePreviewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.sp.minWidth, r.sp.minHeight)
}
