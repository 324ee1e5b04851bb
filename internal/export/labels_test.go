package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func TestCollectPanelLabels(t *testing.T) {
	q, geom := buildTestQuote(t)
	labels := CollectPanelLabels(q.ID, geom)

	if len(labels) != len(geom.Panels) {
		t.Fatalf("expected %d labels, got %d", len(geom.Panels), len(labels))
	}
	var doors int
	for i, l := range labels {
		if l.PanelID != geom.Panels[i].ID {
			t.Errorf("label %d: panel %q, want %q", i, l.PanelID, geom.Panels[i].ID)
		}
		if l.QuoteID != q.ID {
			t.Errorf("label %d: quote %q", i, l.QuoteID)
		}
		if l.Kind == string(model.PanelDoor) {
			doors++
			// 2 hinges + handle
			if l.Hardware < 3 {
				t.Errorf("door label counts %d fittings", l.Hardware)
			}
		}
	}
	if doors != 1 {
		t.Errorf("expected 1 door label, got %d", doors)
	}
}

func TestPanelLabel_JSONRoundTrip(t *testing.T) {
	in := PanelLabel{QuoteID: "q1", PanelID: "front-door", Side: "front", Kind: "door", Width: 700, Height: 1990, Hardware: 4}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out PanelLabel
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestExportPanelLabels_CreatesFile(t *testing.T) {
	q, geom := buildTestQuote(t)
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportPanelLabels(path, q.ID, geom); err != nil {
		t.Fatalf("ExportPanelLabels returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("labels file is empty")
	}
}

func TestExportPanelLabels_NoPanels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportPanelLabels(path, "q", model.GeometryInstance{}); err == nil {
		t.Fatal("expected error for geometry without panels")
	}
}
