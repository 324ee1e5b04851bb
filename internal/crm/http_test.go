package crm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GlassQuote/internal/model"
)

const testSecret = "s3cret"

func checkBearer(t *testing.T, r *http.Request) {
	t.Helper()
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims := tok.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "glassquote", claims.Issuer)
}

func TestHTTPHost_RoundTrip(t *testing.T) {
	var gotNote string
	var gotProducts struct {
		Products []ProductLine `json:"products"`
	}
	var gotFile, gotFileBody string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /leads/L-7", func(w http.ResponseWriter, r *http.Request) {
		checkBearer(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"L-7","name":"Shower","contact":{"name":"Ana","phone":"+1","email":"a@x.io"}}`)
	})
	mux.HandleFunc("POST /leads/L-7/notes", func(w http.ResponseWriter, r *http.Request) {
		checkBearer(t, r)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotNote = body["text"]
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /leads/L-7/products", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotProducts))
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /leads/L-7/files", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotFile, gotFileBody = hdr.Filename, string(b)
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	host := NewHTTPHost(Config{BaseURL: srv.URL, LeadID: "L-7", Secret: testSecret, Timeout: 2 * time.Second}, zerolog.Nop())
	ctx := context.Background()

	lead, err := host.GetLeadData(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Lead{ID: "L-7", Name: "Shower", Contact: model.Contact{Name: "Ana", Phone: "+1", Email: "a@x.io"}}, lead)

	a := NewAdapter(host, pngAttachment, zerolog.Nop())
	ack, err := a.Sync(ctx, lead.ID, sampleQuote(), model.GeometryInstance{})
	require.NoError(t, err)
	assert.True(t, ack.AttachmentAdded)

	assert.Contains(t, gotNote, "quote q1")
	require.Len(t, gotProducts.Products, 2)
	assert.Equal(t, "250", gotProducts.Products[0].Total.String())
	assert.Equal(t, "EUR", gotProducts.Products[0].Currency)
	assert.Equal(t, "quote.png", gotFile)
	assert.Equal(t, "png", gotFileBody)
}

func TestHTTPHost_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/products") {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	host := NewHTTPHost(Config{BaseURL: srv.URL}, zerolog.Nop())
	err := host.AddProducts(context.Background(), "L-1", nil)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTooManyRequests, he.StatusCode)
	assert.Equal(t, "quota exceeded", he.Body)

	_, err = NewAdapter(host, nil, zerolog.Nop()).Sync(context.Background(), "L-1", sampleQuote(), model.GeometryInstance{})
	assert.ErrorIs(t, err, model.ErrCrmSyncFailure)
	assert.ErrorAs(t, err, &he)
}

func TestHTTPHost_CurrentLeadAndNoAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leads/current", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	_, err := NewHTTPHost(Config{BaseURL: srv.URL}, zerolog.Nop()).GetLeadData(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GLASSQUOTE_CRM_BASE_URL", " http://crm ")
	t.Setenv("GLASSQUOTE_CRM_LEAD_ID", "L-9")
	t.Setenv("GLASSQUOTE_CRM_TIMEOUT_SECONDS", "nope")
	cfg := ConfigFromEnv()
	assert.Equal(t, "http://crm", cfg.BaseURL)
	assert.Equal(t, "L-9", cfg.LeadID)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
