package view

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/piwi3910/GlassQuote/internal/model"
)

var (
	backgroundColor = color.RGBA{R: 250, G: 250, B: 252, A: 255}
	wallFill        = color.RGBA{R: 200, G: 196, B: 188, A: 255}
	wallEdge        = color.RGBA{R: 120, G: 116, B: 108, A: 255}
	glassFill       = color.RGBA{R: 150, G: 200, B: 230, A: 110}
	doorFill        = color.RGBA{R: 120, G: 180, B: 225, A: 140}
	glassEdge       = color.RGBA{R: 40, G: 90, B: 130, A: 255}
)

// categoryColor picks a marker colour for a hardware category.
func categoryColor(c model.Category) color.Color {
	switch c {
	case model.CategoryHinge:
		return color.RGBA{R: 200, G: 60, B: 40, A: 255}
	case model.CategoryProfile:
		return color.RGBA{R: 90, G: 90, B: 90, A: 255}
	default:
		return color.RGBA{R: 230, G: 150, B: 20, A: 255}
	}
}

// RenderImage rasterises a scene, scaled to fit width x height with a margin.
// Quads are painted far to near.
func RenderImage(scene Scene, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	lo, hi, ok := scene.Bounds()
	if !ok {
		return dc.Image()
	}
	spanX := math.Max(hi.X-lo.X, 1)
	spanY := math.Max(hi.Y-lo.Y, 1)
	scale := math.Min(float64(width)*0.85/spanX, float64(height)*0.85/spanY)
	cx := (lo.X + hi.X) / 2
	cy := (lo.Y + hi.Y) / 2
	toPx := func(p Point2) (float64, float64) {
		return float64(width)/2 + (p.X-cx)*scale, float64(height)/2 - (p.Y-cy)*scale
	}

	for _, q := range scene.Quads {
		for i, p := range q.Projected {
			x, y := toPx(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		switch q.Kind {
		case QuadWall:
			dc.SetColor(wallFill)
			dc.FillPreserve()
			dc.SetColor(wallEdge)
			dc.SetLineWidth(1)
		case QuadDoor:
			dc.SetColor(doorFill)
			dc.FillPreserve()
			dc.SetColor(glassEdge)
			dc.SetLineWidth(2)
		default:
			dc.SetColor(glassFill)
			dc.FillPreserve()
			dc.SetColor(glassEdge)
			dc.SetLineWidth(2)
		}
		dc.Stroke()
	}

	r := math.Max(2, float64(width)/160)
	for _, m := range scene.Hardware {
		x, y := toPx(m.Projected)
		dc.SetColor(categoryColor(m.Category))
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
	return dc.Image()
}

// RenderPNG encodes the scene as a PNG.
func RenderPNG(scene Scene, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", width, height)
	}
	dc := gg.NewContextForImage(RenderImage(scene, width, height))
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
