package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// DXF layer names.
const (
	LayerWalls  = "WALLS"
	LayerPanels = "PANELS"
	LayerDoors  = "DOORS"
	LayerText   = "TEXT"
)

// ExportPlanDXF writes the top-down plan to path in millimetres, one line per
// wall and panel. Y in the drawing is the structure's depth axis.
func ExportPlanDXF(path string, g model.GeometryInstance) error {
	if len(g.Panels) == 0 {
		return fmt.Errorf("no panels to export")
	}

	d := dxf.NewDrawing()
	for _, layer := range []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerWalls, color.White},
		{LayerPanels, color.Cyan},
		{LayerDoors, color.Yellow},
		{LayerText, color.Green},
	} {
		if _, err := d.AddLayer(layer.name, layer.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer.name, err)
		}
	}

	if err := d.ChangeLayer(LayerWalls); err != nil {
		return err
	}
	for _, w := range g.Walls {
		if _, err := d.Line(w.From.X, w.From.Z, 0, w.To.X, w.To.Z, 0); err != nil {
			return fmt.Errorf("failed to draw %s wall: %w", w.Side, err)
		}
	}

	for _, p := range g.Panels {
		layer := LayerPanels
		if p.Kind == model.PanelDoor {
			layer = LayerDoors
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		c := p.Corners()
		if _, err := d.Line(c[0].X, c[0].Z, 0, c[1].X, c[1].Z, 0); err != nil {
			return fmt.Errorf("failed to draw panel %s: %w", p.ID, err)
		}

		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		label := fmt.Sprintf("%s %.0fx%.0f", p.ID, p.Width, p.Height)
		if _, err := d.Text(label, (c[0].X+c[1].X)/2, (c[0].Z+c[1].Z)/2+20, 0, 25); err != nil {
			return fmt.Errorf("failed to label panel %s: %w", p.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}
