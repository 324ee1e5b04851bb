// Package session wires one editing session together: the configurator
// feeds geometry derivation and pricing, the view controller drives the
// preview, and commits go to the host CRM.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/piwi3910/GlassQuote/internal/configurator"
	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
	"github.com/piwi3910/GlassQuote/internal/view"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Catalog is everything a session reads from the loaded catalog.
type Catalog interface {
	engine.Catalog
	GetPackage(id string) (model.Package, error)
}

// Result is the latest derived geometry and quote. When a recompute fails
// the previous geometry and quote are kept, Stale is set and Err holds the
// reason.
type Result struct {
	Config    model.StructureConfig
	PackageID string
	Geometry  model.GeometryInstance
	Quote     model.Quote
	Valid     bool // a geometry and quote have been computed at least once
	Stale     bool
	Err       error
}

// CommitResult is delivered once a commit finishes.
type CommitResult struct {
	Quote model.Quote
	Ack   model.SyncAck
	Err   error
}

// Options tune a session. Zero values select defaults.
type Options struct {
	Ticks      view.TickSource
	RotateStep float64
	Now        func() time.Time
	Log        zerolog.Logger
}

// Session owns one StructureConfig and ViewState for as long as the
// configurator is open.
type Session struct {
	mu        sync.Mutex
	cat       Catalog
	editor    *configurator.Editor
	deriver   *engine.Deriver
	rotator   *view.Controller
	crm       *crm.Adapter
	log       zerolog.Logger
	now       func() time.Time
	result    Result
	listeners []func(Result)
	unsub     func()
	closed    bool
}

// New starts a session on cfg with packageID selected. A nil adapter runs
// the session offline.
func New(cat Catalog, cfg model.StructureConfig, packageID string, adapter *crm.Adapter, opts Options) (*Session, error) {
	editor, err := configurator.New(cat, cfg, packageID)
	if err != nil {
		return nil, err
	}
	if opts.Ticks == nil {
		opts.Ticks = view.IntervalTicks{Interval: view.DefaultInterval}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if adapter == nil {
		adapter = crm.NewAdapter(crm.Offline{}, nil, opts.Log)
	}

	s := &Session{
		cat:     cat,
		editor:  editor,
		deriver: engine.New(cat),
		rotator: view.NewController(opts.Ticks, opts.RotateStep, opts.Log),
		crm:     adapter,
		log:     opts.Log.With().Str("component", "session").Logger(),
		now:     opts.Now,
	}
	s.result = s.compute(Result{}, cfg, packageID)
	s.unsub = editor.Subscribe(s.onChange)
	return s, nil
}

// Editor returns the configurator the session listens to.
func (s *Session) Editor() *configurator.Editor { return s.editor }

// View returns the preview's rotate controller.
func (s *Session) View() *view.Controller { return s.rotator }

// CRM returns the sync adapter.
func (s *Session) CRM() *crm.Adapter { return s.crm }

// OnResult registers fn to receive every recomputed Result.
func (s *Session) OnResult(fn func(Result)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Result returns the latest result.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// CanCommit reports whether the current quote is fresh and a host CRM is
// attached.
func (s *Session) CanCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitBlockerLocked() == nil
}

// Scene projects the current geometry at the controller's angle. ok is false
// until a geometry has been derived.
func (s *Session) Scene(cam view.Camera) (view.Scene, bool) {
	res := s.Result()
	if !res.Valid {
		return view.Scene{}, false
	}
	return view.Project(res.Geometry, s.rotator.State().Angle, cam), true
}

// Compare prices the current configuration under every package.
func (s *Session) Compare() []engine.ComparisonResult {
	return engine.ComparePackages(s.cat, s.editor.Config())
}

func (s *Session) onChange(ch configurator.Change) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.result = s.compute(s.result, ch.Config, ch.PackageID)
	res, ls := s.result, append(([]func(Result))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range ls {
		fn(res)
	}
}

// compute derives and prices cfg. On failure prev's geometry and quote are
// kept and marked stale.
func (s *Session) compute(prev Result, cfg model.StructureConfig, packageID string) Result {
	fail := func(err error) Result {
		if !model.IsUserError(err) {
			s.log.Error().Err(err).Str("package", packageID).Msg("recompute failed")
		}
		prev.Stale = true
		prev.Err = err
		return prev
	}

	pkg, err := s.cat.GetPackage(packageID)
	if err != nil {
		return fail(err)
	}
	geom, err := s.deriver.Derive(cfg, pkg)
	if err != nil {
		return fail(err)
	}
	quote, err := pricing.Price(geom, s.cat)
	if err != nil {
		return fail(err)
	}
	return Result{
		Config:    cfg,
		PackageID: packageID,
		Geometry:  geom,
		Quote:     quote,
		Valid:     true,
	}
}

func (s *Session) commitBlockerLocked() error {
	switch {
	case s.closed:
		return ErrClosed
	case !s.crm.Online():
		return model.ErrHostUnavailable
	case s.result.Err != nil:
		return s.result.Err
	case !s.result.Valid:
		return model.ErrIncomplete
	}
	return nil
}

// snapshot returns an issued copy of the current quote and geometry.
func (s *Session) snapshot() (model.Quote, model.GeometryInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commitBlockerLocked(); err != nil {
		return model.Quote{}, model.GeometryInstance{}, err
	}
	return s.result.Quote.Issue(s.now()), s.result.Geometry.Clone(), nil
}

// Commit syncs the current quote to leadID and waits for the outcome.
func (s *Session) Commit(ctx context.Context, leadID string) CommitResult {
	q, g, err := s.snapshot()
	if err != nil {
		return CommitResult{Err: fmt.Errorf("cannot commit: %w", err)}
	}
	ack, err := s.crm.Sync(ctx, leadID, q, g)
	return CommitResult{Quote: q, Ack: ack, Err: err}
}

// CommitAsync snapshots the current quote and syncs it in the background.
// done runs on the sync goroutine unless the session was closed first, in
// which case the outcome is only logged. The returned error means nothing
// was started.
func (s *Session) CommitAsync(leadID string, done func(CommitResult)) error {
	q, g, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("cannot commit: %w", err)
	}
	go func() {
		ack, err := s.crm.Sync(context.Background(), leadID, q, g)
		res := CommitResult{Quote: q, Ack: ack, Err: err}

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			s.log.Info().Err(err).Str("quote", q.ID).Msg("commit finished after session closed")
			return
		}
		if done != nil {
			done(res)
		}
	}()
	return nil
}

// Close stops the preview rotation, detaches from the editor and abandons
// in-flight commits. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.mu.Unlock()

	unsub()
	s.rotator.Close()
}
