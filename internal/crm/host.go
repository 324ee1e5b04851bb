// Package crm pushes committed quotes into the host CRM's lead record.
package crm

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// ProductLine is one quote line as registered on the host lead.
type ProductLine struct {
	ComponentID string          `json:"component_id"`
	Name        string          `json:"name"`
	Unit        model.Unit      `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}

// Host is the capability surface the host CRM exposes to the widget.
type Host interface {
	GetLeadData(ctx context.Context) (model.Lead, error)
	AddNote(ctx context.Context, leadID, text string) error
	AddProducts(ctx context.Context, leadID string, lines []ProductLine) error
	AttachFile(ctx context.Context, leadID string, data []byte, filename string) error
}

// Offline is the Host used when the widget runs outside a host CRM.
// Every call fails with model.ErrHostUnavailable.
type Offline struct{}

func (Offline) GetLeadData(context.Context) (model.Lead, error) {
	return model.Lead{}, model.ErrHostUnavailable
}

func (Offline) AddNote(context.Context, string, string) error {
	return model.ErrHostUnavailable
}

func (Offline) AddProducts(context.Context, string, []ProductLine) error {
	return model.ErrHostUnavailable
}

func (Offline) AttachFile(context.Context, string, []byte, string) error {
	return model.ErrHostUnavailable
}

// Config selects and configures the host CRM connection.
type Config struct {
	BaseURL string
	LeadID  string // current lead; empty asks the host for its current lead
	Secret  string // HS256 key for bearer tokens; empty sends no Authorization
	Issuer  string
	Timeout time.Duration
}

// ConfigFromEnv reads GLASSQUOTE_CRM_* variables.
func ConfigFromEnv() Config {
	timeoutSec, err := strconv.Atoi(strings.TrimSpace(os.Getenv("GLASSQUOTE_CRM_TIMEOUT_SECONDS")))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 15
	}
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("GLASSQUOTE_CRM_BASE_URL")),
		LeadID:  strings.TrimSpace(os.Getenv("GLASSQUOTE_CRM_LEAD_ID")),
		Secret:  strings.TrimSpace(os.Getenv("GLASSQUOTE_CRM_SECRET")),
		Issuer:  strings.TrimSpace(os.Getenv("GLASSQUOTE_CRM_ISSUER")),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Detect returns an HTTP host when a base URL is configured and Offline otherwise.
// Callers check the capability once here instead of at every call site.
func Detect(cfg Config, log zerolog.Logger) Host {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		log.Info().Msg("no host CRM configured, running offline")
		return Offline{}
	}
	return NewHTTPHost(cfg, log)
}

// IsOffline reports whether h is the offline host.
func IsOffline(h Host) bool {
	switch h.(type) {
	case Offline, *Offline, nil:
		return true
	}
	return false
}
