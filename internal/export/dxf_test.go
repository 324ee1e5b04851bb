package export

import (
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func TestExportPlanDXF(t *testing.T) {
	_, geom := buildTestQuote(t)
	path := filepath.Join(t.TempDir(), "plan.dxf")

	if err := ExportPlanDXF(path, geom); err != nil {
		t.Fatalf("ExportPlanDXF returned error: %v", err)
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("cannot reopen DXF: %v", err)
	}
	var lines, texts int
	for _, e := range drawing.Entities() {
		switch e.(type) {
		case *entity.Line:
			lines++
		case *entity.Text:
			texts++
		}
	}
	if want := len(geom.Walls) + len(geom.Panels); lines != want {
		t.Errorf("expected %d lines, got %d", want, lines)
	}
	if texts != len(geom.Panels) {
		t.Errorf("expected %d panel labels, got %d", len(geom.Panels), texts)
	}
}

func TestExportPlanDXF_NoPanels(t *testing.T) {
	if err := ExportPlanDXF(filepath.Join(t.TempDir(), "x.dxf"), model.GeometryInstance{}); err == nil {
		t.Fatal("expected error for geometry without panels")
	}
}
