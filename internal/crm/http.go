package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// HTTPError is a non-2xx response from the host CRM.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("crm http %d: %s", e.StatusCode, e.Body)
}

// HTTPHost talks to a host CRM over its REST API.
type HTTPHost struct {
	log        zerolog.Logger
	baseURL    string
	leadID     string
	secret     []byte
	issuer     string
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPHost applies defaults to cfg and returns a host bound to cfg.BaseURL.
func NewHTTPHost(cfg Config, log zerolog.Logger) *HTTPHost {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "glassquote"
	}
	return &HTTPHost{
		log:        log.With().Str("component", "crm").Logger(),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		leadID:     strings.TrimSpace(cfg.LeadID),
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

type leadResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"contact"`
}

// GetLeadData fetches the configured lead, or the host's current lead when
// none is configured.
func (h *HTTPHost) GetLeadData(ctx context.Context) (model.Lead, error) {
	id := h.leadID
	if id == "" {
		id = "current"
	}
	req, err := h.newRequest(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), nil, "")
	if err != nil {
		return model.Lead{}, err
	}
	body, err := h.do(req)
	if err != nil {
		return model.Lead{}, err
	}
	var resp leadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Lead{}, fmt.Errorf("failed to decode lead: %w", err)
	}
	if resp.ID == "" {
		return model.Lead{}, fmt.Errorf("lead response without id: %w", model.ErrNotFound)
	}
	return model.Lead{
		ID:   resp.ID,
		Name: resp.Name,
		Contact: model.Contact{
			Name:  resp.Contact.Name,
			Phone: resp.Contact.Phone,
			Email: resp.Contact.Email,
		},
	}, nil
}

// AddNote posts a plain-text note on the lead.
func (h *HTTPHost) AddNote(ctx context.Context, leadID, text string) error {
	return h.postJSON(ctx, "/leads/"+url.PathEscape(leadID)+"/notes", map[string]string{"text": text})
}

// AddProducts registers quote lines as products on the lead.
func (h *HTTPHost) AddProducts(ctx context.Context, leadID string, lines []ProductLine) error {
	return h.postJSON(ctx, "/leads/"+url.PathEscape(leadID)+"/products", map[string]any{"products": lines})
}

// AttachFile uploads data as a multipart form file.
func (h *HTTPHost) AttachFile(ctx context.Context, leadID string, data []byte, filename string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := h.newRequest(ctx, http.MethodPost, "/leads/"+url.PathEscape(leadID)+"/files", &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	_, err = h.do(req)
	return err
}

func (h *HTTPHost) postJSON(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := h.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json")
	if err != nil {
		return err
	}
	_, err = h.do(req)
	return err
}

func (h *HTTPHost) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if len(h.secret) > 0 {
		tok, err := h.token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (h *HTTPHost) token() (string, error) {
	now := h.now()
	claims := jwt.RegisteredClaims{
		Issuer:    h.issuer,
		Subject:   h.leadID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (h *HTTPHost) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read crm response: %w", err)
	}
	h.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("crm call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
