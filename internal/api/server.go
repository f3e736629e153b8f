// Package api wires the portfolio routes: the rendered home page, the JSON
// API, static assets and metrics.
package api

import (
	"context"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/portfolio/internal/badge"
	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/logger"
	"github.com/jonesrussell/portfolio/internal/middleware"
	"github.com/jonesrussell/portfolio/internal/server"
	"github.com/jonesrussell/portfolio/internal/service"
	"github.com/jonesrussell/portfolio/internal/telemetry"
)

const healthMessage = "Portfolio API is running"

// Dependencies are the collaborators NewServer wires together.
type Dependencies struct {
	Config    *config.Config
	Logger    logger.Logger
	Store     service.ContentStore
	Telemetry *telemetry.Provider
}

// NewServer builds the HTTP server. The rate limiter's sweeper stops when ctx
// is done.
func NewServer(ctx context.Context, deps Dependencies) (*server.Server, error) {
	cfg := deps.Config

	templates, err := newTemplateRenderer(cfg.Site, deps.Logger)
	if err != nil {
		return nil, err
	}
	if cfg.Site.ReloadTemplates {
		if watchErr := templates.watch(ctx); watchErr != nil {
			deps.Logger.Warn("Template reloading disabled", logger.Error(watchErr))
		}
	}

	var badgeHTML template.HTML
	if !cfg.Site.BadgeDisabled {
		badgeHTML, err = badge.Render(cfg.Cosmic.BucketSlug)
		if err != nil {
			return nil, err
		}
	}

	handler := NewHandler(service.NewPortfolioService(deps.Store), cfg.Site, badgeHTML)

	builder := server.NewBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(deps.Logger).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithHealthMessage(healthMessage).
		WithCORSOrigins(cfg.CORS.AllowedOrigins).
		WithRoutes(func(router *gin.Engine) {
			router.HTMLRender = templates
			router.Static("/static", cfg.Site.StaticDir)
			if deps.Telemetry != nil {
				router.GET("/metrics", gin.WrapH(deps.Telemetry.Handler()))
			}
			setupRoutes(ctx, router, handler, cfg.RateLimit, deps.Telemetry)
		})
	if deps.Telemetry != nil {
		builder = builder.WithRequestObserver(deps.Telemetry)
	}

	return builder.Build(), nil
}

func setupRoutes(
	ctx context.Context,
	router *gin.Engine,
	h *Handler,
	rl config.RateLimitConfig,
	tp *telemetry.Provider,
) {
	router.GET("/", h.Index)

	v := router.Group("/api")
	if rl.Enabled {
		var opts []middleware.RateLimitOption
		if tp != nil {
			opts = append(opts, middleware.OnReject(tp.IncrementRateLimited))
		}
		v.Use(middleware.RateLimiter(rl.RequestsPerSecond, rl.Burst, ctx.Done(), opts...))
	}

	v.GET("/projects", h.ListProjects)
	v.GET("/projects/:slug", h.GetProject)
	v.GET("/project-categories", h.ProjectCategories)
	v.GET("/skills", h.Skills)
	v.GET("/about", h.About)
}
