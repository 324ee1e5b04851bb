// Package configurator holds the user-editable dimensions, walls and package
// choice for one glass structure.
package configurator

import (
	"fmt"
	"sync"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// PackageLookup resolves package IDs. *catalog.Catalog satisfies it.
type PackageLookup interface {
	GetPackage(id string) (model.Package, error)
}

// Change is delivered to subscribers after every accepted edit.
type Change struct {
	Config     model.StructureConfig
	PackageID  string
	Incomplete bool
	Label      string
}

// Listener receives change notifications. It is called without the editor's
// lock held and may read the editor.
type Listener func(Change)

// Editor owns one StructureConfig for the lifetime of an editing session.
// Rejected edits leave the configuration untouched and emit nothing.
type Editor struct {
	mu        sync.Mutex
	packages  PackageLookup
	history   *timeline
	listeners map[int]Listener
	nextID    int
}

// New creates an editor. The initial dimensions must be valid; the initial
// walls may leave the configuration incomplete.
func New(packages PackageLookup, cfg model.StructureConfig, packageID string) (*Editor, error) {
	for _, a := range []model.Axis{model.AxisWidth, model.AxisDepth, model.AxisHeight} {
		if err := model.ValidateDimension(a, cfg.Dimension(a)); err != nil {
			return nil, err
		}
	}
	if _, err := packages.GetPackage(packageID); err != nil {
		return nil, fmt.Errorf("failed to select package: %w", err)
	}
	return &Editor{
		packages:  packages,
		history:   newTimeline(state{cfg: cfg, packageID: packageID}),
		listeners: make(map[int]Listener),
	}, nil
}

// Config returns the current configuration.
func (e *Editor) Config() model.StructureConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.current().cfg
}

// PackageID returns the selected package.
func (e *Editor) PackageID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.current().packageID
}

// Incomplete reports whether every wall-capable side is walled.
func (e *Editor) Incomplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.history.current().cfg.Complete()
}

// Subscribe registers l and returns a function that removes it.
func (e *Editor) Subscribe(l Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// SetDimension sets one axis. Non-positive or non-finite values fail with
// model.ErrInvalidDimension and keep the prior value.
func (e *Editor) SetDimension(axis model.Axis, value float64) error {
	if err := model.ValidateDimension(axis, value); err != nil {
		return err
	}
	return e.apply("Set "+axis.String(), func(c *model.StructureConfig, _ *string) {
		switch axis {
		case model.AxisWidth:
			c.Width = value
		case model.AxisDepth:
			c.Depth = value
		case model.AxisHeight:
			c.Height = value
		}
	})
}

// SetWall marks side as a solid wall or opens it. The front cannot carry a
// wall and fails with model.ErrInvalidSide. Walling every side is accepted
// and flags the configuration incomplete.
func (e *Editor) SetWall(side model.Side, present bool) error {
	label := "Open " + side.String() + " side"
	if present {
		label = "Add " + side.String() + " wall"
	}
	var target *bool
	err := e.apply(label, func(c *model.StructureConfig, _ *string) {
		switch side {
		case model.SideLeft:
			target = &c.HasLeftWall
		case model.SideRight:
			target = &c.HasRightWall
		case model.SideBack:
			target = &c.HasBackWall
		default:
			return
		}
		*target = present
	})
	if err == nil && target == nil {
		return fmt.Errorf("%w: %s cannot carry a wall", model.ErrInvalidSide, side)
	}
	return err
}

// SelectPackage switches the package. Unknown IDs fail with model.ErrNotFound.
func (e *Editor) SelectPackage(id string) error {
	if _, err := e.packages.GetPackage(id); err != nil {
		return err
	}
	return e.apply("Select package", func(_ *model.StructureConfig, pkg *string) {
		*pkg = id
	})
}

// Load replaces the configuration with a saved design as a single undoable step.
func (e *Editor) Load(t model.DesignTemplate) error {
	for _, a := range []model.Axis{model.AxisWidth, model.AxisDepth, model.AxisHeight} {
		if err := model.ValidateDimension(a, t.Structure.Dimension(a)); err != nil {
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
	}
	if _, err := e.packages.GetPackage(t.PackageID); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}
	return e.apply("Load "+t.Name, func(c *model.StructureConfig, pkg *string) {
		*c = t.Structure
		*pkg = t.PackageID
	})
}

// Undo restores the previous configuration. Returns false if there is none.
// The change is labelled "Undo <edit>".
func (e *Editor) Undo() bool {
	e.mu.Lock()
	s, undone, ok := e.history.back()
	if !ok {
		e.mu.Unlock()
		return false
	}
	ch, ls := e.changeLocked(s, "Undo "+undone)
	e.mu.Unlock()

	notify(ls, ch)
	return true
}

// Redo reapplies an undone edit. Returns false if there is none.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	s, ok := e.history.forward()
	if !ok {
		e.mu.Unlock()
		return false
	}
	ch, ls := e.changeLocked(s, "Redo "+s.label)
	e.mu.Unlock()

	notify(ls, ch)
	return true
}

// CanUndo reports whether Undo would succeed.
func (e *Editor) CanUndo() bool {
	return e.UndoLabel() != ""
}

// CanRedo reports whether Redo would succeed.
func (e *Editor) CanRedo() bool {
	return e.RedoLabel() != ""
}

// UndoLabel names the edit Undo would revert, or "" if there is none.
func (e *Editor) UndoLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.undoLabel()
}

// RedoLabel names the edit Redo would reapply, or "" if there is none.
func (e *Editor) RedoLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.redoLabel()
}

func (e *Editor) apply(label string, mutate func(*model.StructureConfig, *string)) error {
	e.mu.Lock()
	cur := e.history.current()
	next := state{cfg: cur.cfg, packageID: cur.packageID, label: label}
	mutate(&next.cfg, &next.packageID)
	if next.cfg == cur.cfg && next.packageID == cur.packageID {
		e.mu.Unlock()
		return nil
	}
	e.history.record(next)
	ch, ls := e.changeLocked(next, label)
	e.mu.Unlock()

	notify(ls, ch)
	return nil
}

func (e *Editor) changeLocked(s state, label string) (Change, []Listener) {
	ls := make([]Listener, 0, len(e.listeners))
	for id := 0; id < e.nextID; id++ {
		if l, ok := e.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	return Change{
		Config:     s.cfg,
		PackageID:  s.packageID,
		Incomplete: !s.cfg.Complete(),
		Label:      label,
	}, ls
}

func notify(ls []Listener, ch Change) {
	for _, l := range ls {
		l(ch)
	}
}
