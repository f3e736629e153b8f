package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/portfolio/internal/logger"
)

// Builder provides a fluent API for building the HTTP server.
type Builder struct {
	config      *Config
	logger      logger.Logger
	observer    RequestObserver
	setupRoutes func(*gin.Engine)
	now         func() time.Time
}

// NewBuilder creates a builder for a service listening on port.
func NewBuilder(serviceName string, port int) *Builder {
	return &Builder{
		config: &Config{ServiceName: serviceName, Port: port},
		now:    time.Now,
	}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	b.logger = log
	return b
}

// WithDebug enables or disables gin debug mode.
func (b *Builder) WithDebug(debug bool) *Builder {
	b.config.Debug = debug
	return b
}

// WithVersion sets the service version.
func (b *Builder) WithVersion(version string) *Builder {
	b.config.ServiceVersion = version
	return b
}

// WithHealthMessage sets the message reported by /health.
func (b *Builder) WithHealthMessage(msg string) *Builder {
	b.config.HealthMessage = msg
	return b
}

// WithCORSOrigins sets allowed CORS origins.
func (b *Builder) WithCORSOrigins(origins []string) *Builder {
	b.config.CORS.AllowedOrigins = origins
	return b
}

// WithRequestObserver reports every request to obs.
func (b *Builder) WithRequestObserver(obs RequestObserver) *Builder {
	b.observer = obs
	return b
}

// WithRoutes sets the route setup function.
func (b *Builder) WithRoutes(setupRoutes func(*gin.Engine)) *Builder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server. Middleware order: recovery, request ID and
// context logger, access log, metrics, CORS. Health routes are registered
// before service routes.
func (b *Builder) Build() *Server {
	cfg := b.config
	cfg.SetDefaults()

	log := b.logger
	if log == nil {
		log = logger.NewNop()
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDLoggerMiddleware(log))
	router.Use(LoggerMiddleware(log))
	if b.observer != nil {
		router.Use(MetricsMiddleware(b.observer))
	}
	router.Use(CORSMiddleware(cfg.CORS))

	RegisterHealthRoutes(router, cfg, b.now())

	if b.setupRoutes != nil {
		b.setupRoutes(router)
	}

	return &Server{
		router: router,
		server: newHTTPServer(cfg, router),
		logger: log,
		config: cfg,
	}
}
