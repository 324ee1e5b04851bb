package configurator

import "github.com/piwi3910/GlassQuote/internal/model"

const defaultMaxDepth = 50

// state is one accepted configuration and the edit that produced it.
type state struct {
	cfg       model.StructureConfig
	packageID string
	label     string // empty for the state the editor started from
}

// timeline is the editor's linear edit history. states[cursor] is what the
// editor shows; states after the cursor are redoable and are dropped by
// the next edit. At most maxDepth edits stay undoable.
type timeline struct {
	states   []state
	cursor   int
	maxDepth int
}

func newTimeline(initial state) *timeline {
	return &timeline{states: []state{initial}, maxDepth: defaultMaxDepth}
}

func (t *timeline) current() state {
	return t.states[t.cursor]
}

// record makes s the current state.
func (t *timeline) record(s state) {
	t.states = append(t.states[:t.cursor+1], s)
	if over := len(t.states) - (t.maxDepth + 1); over > 0 {
		t.states = append([]state(nil), t.states[over:]...)
	}
	t.cursor = len(t.states) - 1
}

// back steps to the previous state and returns it with the label of the
// edit that was undone.
func (t *timeline) back() (state, string, bool) {
	if t.cursor == 0 {
		return state{}, "", false
	}
	undone := t.states[t.cursor].label
	t.cursor--
	return t.states[t.cursor], undone, true
}

// forward reapplies the next edit.
func (t *timeline) forward() (state, bool) {
	if t.cursor == len(t.states)-1 {
		return state{}, false
	}
	t.cursor++
	return t.states[t.cursor], true
}

func (t *timeline) undoLabel() string {
	if t.cursor == 0 {
		return ""
	}
	return t.states[t.cursor].label
}

func (t *timeline) redoLabel() string {
	if t.cursor == len(t.states)-1 {
		return ""
	}
	return t.states[t.cursor+1].label
}
