package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// Call names reported by SyncError.
const (
	CallNote       = "note"
	CallProducts   = "products"
	CallAttachment = "attachment"
)

// SyncError reports which required calls failed during Sync. It matches
// model.ErrCrmSyncFailure and every underlying cause under errors.Is.
type SyncError struct {
	LeadID string
	Failed []string
	Causes []error
}

func (e *SyncError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, name := range e.Failed {
		parts[i] = fmt.Sprintf("%s: %v", name, e.Causes[i])
	}
	return fmt.Sprintf("%v for lead %s (%s)", model.ErrCrmSyncFailure, e.LeadID, strings.Join(parts, "; "))
}

func (e *SyncError) Unwrap() []error {
	return append([]error{model.ErrCrmSyncFailure}, e.Causes...)
}

// Attachment renders the file attached to the lead on commit.
type Attachment func(q model.Quote, g model.GeometryInstance) (data []byte, filename string, err error)

// Adapter pushes committed quotes into a host lead.
type Adapter struct {
	host   Host
	online bool
	attach Attachment
	log    zerolog.Logger
}

// NewAdapter wraps host. A nil attach skips the attachment call.
func NewAdapter(host Host, attach Attachment, log zerolog.Logger) *Adapter {
	if host == nil {
		host = Offline{}
	}
	return &Adapter{
		host:   host,
		online: !IsOffline(host),
		attach: attach,
		log:    log.With().Str("component", "crm-sync").Logger(),
	}
}

// Online reports whether a host CRM is attached.
func (a *Adapter) Online() bool { return a.online }

// Lead fetches the host's current lead.
func (a *Adapter) Lead(ctx context.Context) (model.Lead, error) {
	if !a.online {
		return model.Lead{}, model.ErrHostUnavailable
	}
	lead, err := a.host.GetLeadData(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to load lead")
		return model.Lead{}, err
	}
	return lead, nil
}

// Sync adds a summary note, the quote's product lines and an optional
// attachment to the lead. Note and products are required; the attachment is
// best effort. Quote and geometry are copied before any call is made, and
// no call is retried.
func (a *Adapter) Sync(ctx context.Context, leadID string, quote model.Quote, geom model.GeometryInstance) (model.SyncAck, error) {
	q := quote.Clone()
	g := geom.Clone()
	ack := model.SyncAck{LeadID: leadID, QuoteID: q.ID}

	if !a.online {
		ack.Skipped = true
		a.log.Info().Str("quote", q.ID).Msg("offline, quote not synced")
		return ack, nil
	}
	if strings.TrimSpace(leadID) == "" {
		return ack, fmt.Errorf("%w: no lead selected", model.ErrCrmSyncFailure)
	}

	note := NoteText(q)
	lines := ProductLines(q)

	var noteErr, productsErr, attachErr error
	var eg errgroup.Group
	eg.Go(func() error {
		noteErr = a.host.AddNote(ctx, leadID, note)
		return nil
	})
	eg.Go(func() error {
		productsErr = a.host.AddProducts(ctx, leadID, lines)
		return nil
	})
	if a.attach != nil {
		eg.Go(func() error {
			data, name, err := a.attach(q, g)
			if err != nil {
				attachErr = fmt.Errorf("failed to render attachment: %w", err)
				return nil
			}
			attachErr = a.host.AttachFile(ctx, leadID, data, name)
			return nil
		})
	}
	_ = eg.Wait()

	if noteErr == nil {
		ack.NoteAdded = true
	}
	if productsErr == nil {
		ack.ProductsAdded = len(lines)
	}
	if a.attach != nil {
		if attachErr != nil {
			ack.AttachmentError = attachErr.Error()
			a.log.Warn().Err(attachErr).Str("lead", leadID).Str("quote", q.ID).Msg("attachment failed")
		} else {
			ack.AttachmentAdded = true
		}
	}

	serr := &SyncError{LeadID: leadID}
	if noteErr != nil {
		serr.Failed = append(serr.Failed, CallNote)
		serr.Causes = append(serr.Causes, noteErr)
	}
	if productsErr != nil {
		serr.Failed = append(serr.Failed, CallProducts)
		serr.Causes = append(serr.Causes, productsErr)
	}
	if len(serr.Failed) > 0 {
		a.log.Error().Err(serr).Str("quote", q.ID).Msg("quote sync incomplete")
		return ack, serr
	}

	a.log.Info().
		Str("lead", leadID).
		Str("quote", q.ID).
		Int("products", ack.ProductsAdded).
		Bool("attachment", ack.AttachmentAdded).
		Msg("quote synced")
	return ack, nil
}

// IsSyncError reports whether err came from a failed required call.
func IsSyncError(err error) bool {
	var se *SyncError
	return errors.As(err, &se)
}
