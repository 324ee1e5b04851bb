package configurator

import (
	"testing"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func widthState(width float64, label string) state {
	cfg := model.DefaultStructure()
	cfg.Width = width
	return state{cfg: cfg, packageID: "standard-shower", label: label}
}

func TestNewTimeline(t *testing.T) {
	tl := newTimeline(widthState(1000, ""))
	if tl.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, tl.maxDepth)
	}
	if tl.current().cfg.Width != 1000 {
		t.Errorf("expected the initial state to be current, got width %v", tl.current().cfg.Width)
	}
	if tl.undoLabel() != "" || tl.redoLabel() != "" {
		t.Error("a new timeline has nothing to undo or redo")
	}
	if _, _, ok := tl.back(); ok {
		t.Error("back on a new timeline should fail")
	}
	if _, ok := tl.forward(); ok {
		t.Error("forward on a new timeline should fail")
	}
}

func TestTimelineBackAndForward(t *testing.T) {
	tl := newTimeline(widthState(1000, ""))
	tl.record(widthState(1100, "Set width"))
	tl.record(widthState(1100, "Add left wall"))

	if got := tl.undoLabel(); got != "Add left wall" {
		t.Errorf("expected undo label 'Add left wall', got %q", got)
	}

	s, undone, ok := tl.back()
	if !ok || undone != "Add left wall" {
		t.Fatalf("back: ok=%v undone=%q", ok, undone)
	}
	if s.label != "Set width" {
		t.Errorf("expected to land on the 'Set width' state, got %q", s.label)
	}
	if got := tl.redoLabel(); got != "Add left wall" {
		t.Errorf("expected redo label 'Add left wall', got %q", got)
	}

	s, ok = tl.forward()
	if !ok || s.label != "Add left wall" {
		t.Fatalf("forward: ok=%v label=%q", ok, s.label)
	}
	if tl.redoLabel() != "" {
		t.Error("nothing should be redoable at the newest state")
	}
}

func TestTimelineRecordDropsRedo(t *testing.T) {
	tl := newTimeline(widthState(1000, ""))
	tl.record(widthState(1100, "a"))
	tl.record(widthState(1200, "b"))
	tl.back()
	tl.back()
	tl.record(widthState(1300, "c"))

	if tl.redoLabel() != "" {
		t.Error("record should drop the redoable states")
	}
	if len(tl.states) != 2 {
		t.Errorf("expected initial + c, got %d states", len(tl.states))
	}
	s, _, _ := tl.back()
	if s.cfg.Width != 1000 {
		t.Errorf("expected to return to the initial width, got %v", s.cfg.Width)
	}
}

func TestTimelineMaxDepth(t *testing.T) {
	tl := newTimeline(widthState(1000, ""))
	for i := 1; i <= defaultMaxDepth+10; i++ {
		tl.record(widthState(float64(1000+i), "step"))
	}
	if len(tl.states) != defaultMaxDepth+1 {
		t.Errorf("expected %d states, got %d", defaultMaxDepth+1, len(tl.states))
	}
	if tl.states[0].cfg.Width != 1010 {
		t.Errorf("expected the oldest states dropped, first width %v", tl.states[0].cfg.Width)
	}
	undos := 0
	for {
		if _, _, ok := tl.back(); !ok {
			break
		}
		undos++
	}
	if undos != defaultMaxDepth {
		t.Errorf("expected %d undoable edits, got %d", defaultMaxDepth, undos)
	}
}
