// Package cosmic reads portfolio content from the Cosmic headless CMS REST
// API. Reads never fail from the caller's point of view: transport, status
// and decoding errors are logged and reported as empty or absent results.
package cosmic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/domain"
	"github.com/jonesrussell/portfolio/internal/logger"
	"github.com/jonesrussell/portfolio/internal/telemetry"
)

const (
	defaultProps = "id,slug,title,type,content,status,thumbnail,metadata,created_at,modified_at,published_at"
	defaultDepth = 1

	maxIdleConnsPerHost = 10
	idleConnTimeout     = 90 * time.Second
)

// Client reads objects from one Cosmic bucket.
type Client struct {
	baseURL    string
	bucket     string
	readKey    string
	httpClient *http.Client
	log        logger.Logger
	telemetry  *telemetry.Provider
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTelemetry records metrics and spans for every read.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(c *Client) {
		c.telemetry = p
		if p != nil {
			c.tracer = p.Tracer
		}
	}
}

// NewClient creates a Client for the configured bucket.
func NewClient(cfg config.CosmicConfig, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNop()
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		bucket:  cfg.BucketSlug,
		readKey: cfg.ReadKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConnsPerHost:   maxIdleConnsPerHost,
				IdleConnTimeout:       idleConnTimeout,
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		log:    log.With(logger.String("component", "cosmic")),
		tracer: noop.NewTracerProvider().Tracer("cosmic"),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// objectsResponse is the body of GET /buckets/{bucket}/objects.
type objectsResponse struct {
	Objects []domain.Record `json:"objects"`
	Total   int             `json:"total"`
}

// Projects fetches every project. The result is empty on any failure.
func (c *Client) Projects(ctx context.Context) domain.Result[[]domain.Record] {
	return c.list(ctx, domain.CollectionProjects)
}

// Skills fetches every skill. The result is empty on any failure.
func (c *Client) Skills(ctx context.Context) domain.Result[[]domain.Record] {
	return c.list(ctx, domain.CollectionSkills)
}

// ProjectBySlug fetches one project. The result is absent when no project has
// the slug or the read fails.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) domain.Result[*domain.Record] {
	if slug == "" {
		return domain.Single(nil, nil)
	}
	return c.first(ctx, domain.CollectionProjects, slug)
}

// About fetches the singleton about record: the first object of the about
// collection.
func (c *Client) About(ctx context.Context) domain.Result[*domain.Record] {
	return c.first(ctx, domain.CollectionAbout, "")
}

// logFor prefers the request-scoped logger so failures carry the request ID.
func (c *Client) logFor(ctx context.Context) logger.Logger {
	reqLog := logger.FromContextOr(ctx, nil)
	if reqLog == nil {
		return c.log
	}
	return reqLog.With(logger.String("component", "cosmic"))
}

func (c *Client) list(ctx context.Context, collection string) domain.Result[[]domain.Record] {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "cosmic.list",
		trace.WithAttributes(attribute.String("cosmic.collection", collection)))
	defer span.End()

	records, err := c.getObjects(ctx, map[string]string{"type": collection}, 0)
	if IsNotFound(err) {
		err = nil
	}

	result := domain.Records(records, err)
	if err != nil {
		c.logFor(ctx).Error("Failed to fetch content",
			logger.String("collection", collection),
			logger.Error(err),
		)
	}
	span.SetAttributes(attribute.Int("cosmic.objects", len(result.Value)))
	c.finish(ctx, span, collection, result.Status, err, start)
	return result
}

func (c *Client) first(ctx context.Context, collection, slug string) domain.Result[*domain.Record] {
	start := time.Now()
	attrs := []attribute.KeyValue{attribute.String("cosmic.collection", collection)}
	if slug != "" {
		attrs = append(attrs, attribute.String("cosmic.slug", slug))
	}
	ctx, span := c.tracer.Start(ctx, "cosmic.get", trace.WithAttributes(attrs...))
	defer span.End()

	query := map[string]string{"type": collection}
	if slug != "" {
		query["slug"] = slug
	}

	records, err := c.getObjects(ctx, query, 1)
	if IsNotFound(err) {
		err = nil
	}

	var record *domain.Record
	if err == nil && len(records) > 0 {
		record = &records[0]
	}

	result := domain.Single(record, err)
	if err != nil {
		fields := []logger.Field{logger.String("collection", collection), logger.Error(err)}
		if slug != "" {
			fields = append(fields, logger.String("slug", slug))
		}
		c.logFor(ctx).Error("Failed to fetch content", fields...)
	}
	c.finish(ctx, span, collection, result.Status, err, start)
	return result
}

func (c *Client) finish(ctx context.Context, span trace.Span, collection string, status domain.Status, err error, start time.Time) {
	outcome := string(status)
	if err != nil {
		outcome = telemetry.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("cosmic.outcome", outcome))

	if c.telemetry != nil {
		c.telemetry.RecordContentFetch(ctx, collection, outcome, time.Since(start))
	}
}

// getObjects performs one objects query. limit 0 leaves the page size to the
// API.
func (c *Client) getObjects(ctx context.Context, query map[string]string, limit int) ([]domain.Record, error) {
	endpoint, err := c.objectsURL(query, limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if apiErr := parseAPIError(resp); apiErr != nil {
		return nil, apiErr
	}

	var body objectsResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return body.Objects, nil
}

func (c *Client) objectsURL(query map[string]string, limit int) (string, error) {
	if c.bucket == "" {
		return "", errors.New("bucket slug is not configured")
	}

	q, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	params := url.Values{}
	params.Set("query", string(q))
	params.Set("props", defaultProps)
	params.Set("depth", strconv.Itoa(defaultDepth))
	if c.readKey != "" {
		params.Set("read_key", c.readKey)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	return c.baseURL + "/buckets/" + url.PathEscape(c.bucket) + "/objects?" + params.Encode(), nil
}
