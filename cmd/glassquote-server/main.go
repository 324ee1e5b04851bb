// GlassQuote widget server: the configurator's HTTP API for CRM-embedded
// front ends. Settings come from the environment, see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/GlassQuote/internal/config"
	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/export"
	"github.com/piwi3910/GlassQuote/internal/logging"
	"github.com/piwi3910/GlassQuote/internal/project"
	"github.com/piwi3910/GlassQuote/internal/server"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, logging.ParseFormat(cfg.LogFormat))

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := project.LoadCatalog(cfg.CatalogPath)
	if cat == nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load catalog")
	}
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CatalogPath).Msg("using default catalog")
	}

	adapter := crm.NewAdapter(crm.Detect(cfg.CRM, log), export.QuotePDF, log)
	srvAPI := server.New(cat, adapter, project.NewModeStore(cfg.UIStatePath), server.Options{
		AllowOrigins: cfg.AllowOrigins,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srvAPI.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Bool("crm", adapter.Online()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
