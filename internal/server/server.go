// Package server exposes the configurator, pricing engine and CRM sync over
// a JSON HTTP API so the widget can be embedded in a host CRM page.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/project"
)

// Catalog is what the handlers read. *catalog.Catalog satisfies it.
type Catalog interface {
	engine.Catalog
	GetPackage(id string) (model.Package, error)
}

// Options configures a Server. Zero values get defaults.
type Options struct {
	DefaultPackageID string
	AllowOrigins     []string
	Now              func() time.Time
	Log              zerolog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	cat        Catalog
	deriver    *engine.Deriver
	adapter    *crm.Adapter
	modes      *project.ModeStore
	defaultPkg string
	origins    []string
	now        func() time.Time
	log        zerolog.Logger
}

// New creates a Server. A nil adapter runs offline; a nil mode store
// disables the /api/mode routes.
func New(cat Catalog, adapter *crm.Adapter, modes *project.ModeStore, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultPackageID == "" {
		opts.DefaultPackageID = model.DefaultAppConfig().DefaultPackageID
	}
	log := opts.Log.With().Str("component", "server").Logger()
	if adapter == nil {
		adapter = crm.NewAdapter(nil, nil, log)
	}
	return &Server{
		cat:        cat,
		deriver:    engine.New(cat),
		adapter:    adapter,
		modes:      modes,
		defaultPkg: opts.DefaultPackageID,
		origins:    opts.AllowOrigins,
		now:        opts.Now,
		log:        log,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(s.log))
	router.Use(Recovery(s.log))
	router.Use(CORS(s.origins))
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the API under /api.
func (s *Server) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	api.GET("/health", s.health)
	api.GET("/packages", s.listPackages)
	api.GET("/components/:id", s.getComponent)
	api.POST("/quote", s.quote)
	api.POST("/compare", s.compare)
	api.POST("/scene", s.scene)
	api.POST("/render", s.render)
	api.GET("/lead", s.lead)
	api.POST("/leads/:leadId/commit", s.commit)
	if s.modes != nil {
		api.GET("/mode", s.getMode)
		api.PUT("/mode", s.putMode)
	}
}
