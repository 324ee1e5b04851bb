package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
	"github.com/piwi3910/GlassQuote/internal/view"
)

const (
	defaultRenderWidth  = 800
	defaultRenderHeight = 600
	maxRenderSide       = 2000
)

// structureRequest is the body shared by the quote, scene, render and
// commit endpoints.
type structureRequest struct {
	Structure model.StructureConfig `json:"structure"`
	PackageID string                `json:"package_id"`
	Angle     float64               `json:"angle"`
	Camera    *view.Camera          `json:"camera,omitempty"`
	Width     int                   `json:"width,omitempty"`
	Height    int                   `json:"height,omitempty"`
}

type quoteResponse struct {
	Geometry model.GeometryInstance `json:"geometry"`
	Quote    model.Quote            `json:"quote"`
}

type comparisonEntry struct {
	PackageID     string       `json:"package_id"`
	PackageName   string       `json:"package_name"`
	OK            bool         `json:"ok"`
	Error         string       `json:"error,omitempty"`
	Code          string       `json:"code,omitempty"`
	Quote         *model.Quote `json:"quote,omitempty"`
	PanelCount    int          `json:"panel_count"`
	DoorCount     int          `json:"door_count"`
	HardwareCount int          `json:"hardware_count"`
}

type commitResponse struct {
	Quote model.Quote   `json:"quote"`
	Ack   model.SyncAck `json:"ack"`
}

type modeBody struct {
	Mode string `json:"mode"`
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{
		"status":          "ok",
		"crm":             s.adapter.Online(),
		"time":            s.now().UTC().Format(time.RFC3339),
		"packages":        len(s.cat.ListPackages()),
		"currency":        s.cat.Currency().Code,
		"default_package": s.defaultPkg,
	})
}

func (s *Server) listPackages(c *gin.Context) {
	success(c, s.cat.ListPackages())
}

func (s *Server) getComponent(c *gin.Context) {
	comp, err := s.cat.GetComponent(c.Param("id"))
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	success(c, comp)
}

func (s *Server) bind(c *gin.Context) (structureRequest, bool) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, BadRequest(fmt.Sprintf("invalid request body: %v", err)), nil)
		return req, false
	}
	if req.PackageID == "" {
		req.PackageID = s.defaultPkg
	}
	return req, true
}

// derive validates, derives and prices one request.
func (s *Server) derive(req structureRequest) (model.GeometryInstance, model.Quote, error) {
	if err := req.Structure.Validate(); err != nil {
		return model.GeometryInstance{}, model.Quote{}, err
	}
	pkg, err := s.cat.GetPackage(req.PackageID)
	if err != nil {
		return model.GeometryInstance{}, model.Quote{}, err
	}
	geom, err := s.deriver.Derive(req.Structure, pkg)
	if err != nil {
		return model.GeometryInstance{}, model.Quote{}, err
	}
	quote, err := pricing.Price(geom, s.cat)
	if err != nil {
		return model.GeometryInstance{}, model.Quote{}, err
	}
	return geom, quote, nil
}

func (s *Server) quote(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	geom, quote, err := s.derive(req)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	success(c, quoteResponse{Geometry: geom, Quote: quote})
}

func (s *Server) compare(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	if err := req.Structure.Validate(); err != nil {
		s.handleError(c, err, nil)
		return
	}

	results := engine.ComparePackages(s.cat, req.Structure)
	entries := make([]comparisonEntry, 0, len(results))
	for _, r := range results {
		e := comparisonEntry{
			PackageID:     r.Package.ID,
			PackageName:   r.Package.Name,
			OK:            r.OK(),
			PanelCount:    r.PanelCount,
			DoorCount:     r.DoorCount,
			HardwareCount: r.HardwareCount,
		}
		if r.OK() {
			q := r.Quote
			e.Quote = &q
		} else {
			apiErr := FromError(r.Err)
			e.Error, e.Code = apiErr.Message, apiErr.Code
		}
		entries = append(entries, e)
	}

	cheapest := ""
	if best := engine.Cheapest(results); best != nil {
		cheapest = best.Package.ID
	}
	success(c, gin.H{"results": entries, "cheapest": cheapest})
}

// camera returns the requested camera, or one fitted to geom.
func (req structureRequest) camera(geom model.GeometryInstance) (view.Camera, error) {
	if req.Camera == nil {
		return view.FitCamera(geom), nil
	}
	if err := req.Camera.Validate(geom); err != nil {
		return view.Camera{}, BadRequest(err.Error())
	}
	return *req.Camera, nil
}

func (s *Server) scene(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	geom, _, err := s.derive(req)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	cam, err := req.camera(geom)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	success(c, view.Project(geom, req.Angle, cam))
}

func (s *Server) render(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	w, h := req.Width, req.Height
	if w <= 0 {
		w = defaultRenderWidth
	}
	if h <= 0 {
		h = defaultRenderHeight
	}
	if w > maxRenderSide || h > maxRenderSide {
		s.handleError(c, BadRequest(fmt.Sprintf("render size %dx%d exceeds %d", w, h, maxRenderSide)), nil)
		return
	}
	geom, _, err := s.derive(req)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	cam, err := req.camera(geom)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	png, err := view.RenderPNG(view.Project(geom, req.Angle, cam), w, h)
	if err != nil {
		s.handleError(c, fmt.Errorf("failed to render preview: %w", err), nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) lead(c *gin.Context) {
	lead, err := s.adapter.Lead(c.Request.Context())
	if err != nil {
		if !errors.Is(err, model.ErrHostUnavailable) && !errors.Is(err, model.ErrNotFound) {
			err = &APIError{Status: http.StatusBadGateway, Code: CodeCrmError, Message: "host crm request failed", Err: err}
		}
		s.handleError(c, err, nil)
		return
	}
	success(c, lead)
}

func (s *Server) commit(c *gin.Context) {
	if !s.adapter.Online() {
		s.handleError(c, model.ErrHostUnavailable, nil)
		return
	}
	req, ok := s.bind(c)
	if !ok {
		return
	}
	geom, quote, err := s.derive(req)
	if err != nil {
		s.handleError(c, err, nil)
		return
	}
	quote = quote.Issue(s.now())

	ack, err := s.adapter.Sync(c.Request.Context(), c.Param("leadId"), quote, geom)
	if err != nil {
		var syncErr *crm.SyncError
		extra := gin.H{"data": commitResponse{Quote: quote, Ack: ack}}
		if errors.As(err, &syncErr) {
			extra["failed"] = syncErr.Failed
		}
		s.handleError(c, err, extra)
		return
	}
	s.log.Info().Str("lead", ack.LeadID).Str("quote", quote.ID).Msg("quote committed")
	success(c, commitResponse{Quote: quote, Ack: ack})
}

func (s *Server) getMode(c *gin.Context) {
	success(c, modeBody{Mode: string(s.modes.Load())})
}

func (s *Server) putMode(c *gin.Context) {
	var body modeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.handleError(c, BadRequest(fmt.Sprintf("invalid request body: %v", err)), nil)
		return
	}
	mode, ok := model.ParseMode(body.Mode)
	if !ok {
		s.handleError(c, NewAPIError(http.StatusBadRequest, CodeInvalidMode, fmt.Sprintf("unknown mode %q", body.Mode)), nil)
		return
	}
	if err := s.modes.Save(mode); err != nil {
		s.handleError(c, fmt.Errorf("failed to save mode: %w", err), nil)
		return
	}
	success(c, modeBody{Mode: string(mode)})
}
