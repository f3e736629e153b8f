// Package config loads the portfolio service configuration from config.yml,
// .env files and environment variables.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName    = "portfolio"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8000

	defaultCosmicAPIURL  = "https://api.cosmicjs.com/v3"
	defaultCosmicTimeout = 10 * time.Second

	defaultTemplatesDir  = "templates"
	defaultStaticDir     = "static"
	defaultSiteTitle     = "Python Developer Portfolio"
	defaultExcerptLength = 150
	defaultImageWidth    = 400
	defaultImageHeight   = 300
	defaultImageQuality  = 80

	defaultRequestsPerSecond = 10
	defaultBurst             = 20

	defaultPprofPort    = "6060"
	defaultPyroscopeURL = "http://pyroscope:4040"
	defaultEnvironment  = "development"

	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "json"

	maxPort         = 65535
	maxImageQuality = 100
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Cosmic    CosmicConfig    `yaml:"cosmic"`
	Site      SiteConfig      `yaml:"site"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `env:"APP_VERSION" yaml:"version"`
	Port    int    `env:"PORT"        yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"   yaml:"debug"`
}

// CosmicConfig identifies the content bucket and its credentials.
type CosmicConfig struct {
	BucketSlug string `env:"COSMIC_BUCKET_SLUG" yaml:"bucket_slug"`
	ReadKey    string `env:"COSMIC_READ_KEY"    yaml:"read_key"`
	// WriteKey is accepted for parity with the bucket settings; the service never writes.
	WriteKey string        `env:"COSMIC_WRITE_KEY" yaml:"write_key"`
	APIURL   string        `env:"COSMIC_API_URL"   yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SiteConfig controls page rendering.
type SiteConfig struct {
	Title         string `env:"SITE_TITLE" yaml:"title"`
	TemplatesDir  string `yaml:"templates_dir"`
	StaticDir     string `yaml:"static_dir"`
	ExcerptLength int    `yaml:"excerpt_length"`
	ImageWidth    int    `yaml:"image_width"`
	ImageHeight   int    `yaml:"image_height"`
	ImageQuality  int    `yaml:"image_quality"`
	BadgeDisabled bool   `env:"SITE_BADGE_DISABLED" yaml:"badge_disabled"`

	// ReloadTemplates re-parses templates when files in TemplatesDir change.
	ReloadTemplates bool `env:"SITE_RELOAD_TEMPLATES" yaml:"reload_templates"`
}

// RateLimitConfig throttles the JSON API per client IP.
type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// CORSConfig holds CORS configuration for the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ORIGINS" yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// ProfilingConfig enables pprof and Pyroscope continuous profiling.
type ProfilingConfig struct {
	Pprof        bool   `env:"ENABLE_PROFILING"            yaml:"pprof"`
	PprofPort    string `env:"PPROF_PORT"                  yaml:"pprof_port"`
	Continuous   bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"continuous"`
	PyroscopeURL string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment  string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// Load reads the configuration at path, applies defaults and env overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}
	return cfg, nil
}

// Read is Load without validation, for commands that only inspect settings.
func Read(path string) (*Config, error) {
	return LoadFile[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setCosmicDefaults(&cfg.Cosmic)
	setSiteDefaults(&cfg.Site)
	setRateLimitDefaults(&cfg.RateLimit)
	setProfilingDefaults(&cfg.Profiling)

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFormat
	}
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultServiceVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setCosmicDefaults(c *CosmicConfig) {
	if c.APIURL == "" {
		c.APIURL = defaultCosmicAPIURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultCosmicTimeout
	}
}

func setSiteDefaults(s *SiteConfig) {
	if s.Title == "" {
		s.Title = defaultSiteTitle
	}
	if s.TemplatesDir == "" {
		s.TemplatesDir = defaultTemplatesDir
	}
	if s.StaticDir == "" {
		s.StaticDir = defaultStaticDir
	}
	if s.ExcerptLength == 0 {
		s.ExcerptLength = defaultExcerptLength
	}
	if s.ImageWidth == 0 {
		s.ImageWidth = defaultImageWidth
	}
	if s.ImageHeight == 0 {
		s.ImageHeight = defaultImageHeight
	}
	if s.ImageQuality == 0 {
		s.ImageQuality = defaultImageQuality
	}
}

func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.RequestsPerSecond == 0 {
		rl.RequestsPerSecond = defaultRequestsPerSecond
	}
	if rl.Burst == 0 {
		rl.Burst = defaultBurst
	}
}

func setProfilingDefaults(p *ProfilingConfig) {
	if p.PprofPort == "" {
		p.PprofPort = defaultPprofPort
	}
	if p.PyroscopeURL == "" {
		p.PyroscopeURL = defaultPyroscopeURL
	}
	if p.Environment == "" {
		p.Environment = defaultEnvironment
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > maxPort {
		return &ValidationError{Field: "service.port", Message: fmt.Sprintf("invalid port: %d", c.Service.Port)}
	}
	if c.Cosmic.BucketSlug == "" {
		return &ValidationError{Field: "cosmic.bucket_slug", Message: "is required"}
	}
	if c.Cosmic.APIURL == "" {
		return &ValidationError{Field: "cosmic.api_url", Message: "is required"}
	}
	if c.Site.ImageWidth < 1 || c.Site.ImageHeight < 1 {
		return &ValidationError{Field: "site.image_width", Message: "image dimensions must be positive"}
	}
	if c.Site.ImageQuality < 1 || c.Site.ImageQuality > maxImageQuality {
		return &ValidationError{Field: "site.image_quality", Message: "must be between 1 and 100"}
	}
	if c.Site.ExcerptLength < 1 {
		return &ValidationError{Field: "site.excerpt_length", Message: "must be greater than 0"}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return &ValidationError{Field: "rate_limit", Message: "requests_per_second and burst must be positive"}
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return validateLogFormat(c.Logging.Format)
}
