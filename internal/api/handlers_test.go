package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/portfolio/internal/api"
	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/domain"
	"github.com/jonesrussell/portfolio/internal/logger"
	"github.com/jonesrussell/portfolio/internal/server"
	"github.com/jonesrussell/portfolio/internal/telemetry"
)

type fakeStore struct {
	projects []domain.Record
	skills   []domain.Record
	about    *domain.Record
	err      error
}

func (f *fakeStore) Projects(context.Context) domain.Result[[]domain.Record] {
	if f.err != nil {
		return domain.Records(nil, f.err)
	}
	return domain.Records(f.projects, nil)
}

func (f *fakeStore) ProjectBySlug(_ context.Context, slug string) domain.Result[*domain.Record] {
	if f.err != nil {
		return domain.Single(nil, f.err)
	}
	for i := range f.projects {
		if f.projects[i].Slug == slug {
			return domain.Single(&f.projects[i], nil)
		}
	}
	return domain.Single(nil, nil)
}

func (f *fakeStore) Skills(context.Context) domain.Result[[]domain.Record] {
	if f.err != nil {
		return domain.Records(nil, f.err)
	}
	return domain.Records(f.skills, nil)
}

func (f *fakeStore) About(context.Context) domain.Result[*domain.Record] {
	if f.err != nil {
		return domain.Single(nil, f.err)
	}
	return domain.Single(f.about, nil)
}

func opt(key, value string) map[string]any {
	return map[string]any{"key": key, "value": value}
}

func contentStore() *fakeStore {
	return &fakeStore{
		projects: []domain.Record{
			{
				Slug:  "site",
				Title: "Portfolio Site",
				Metadata: domain.Metadata{
					"category":       opt("web", "Web Applications"),
					"description":    "<p>A portfolio built with <strong>Go</strong>.</p>",
					"tech_stack":     "Go, Gin; Cosmic",
					"github_url":     "https://github.com/example/site",
					"live_url":       "not a url",
					"featured_image": map[string]any{"imgix_url": "https://imgix.cosmicjs.com/site.png"},
				},
			},
			{
				Slug:     "cli",
				Title:    "Content CLI",
				Metadata: domain.Metadata{"category": opt("tools", "Tools")},
			},
			{
				Slug:     "api",
				Title:    "API Gateway",
				Metadata: domain.Metadata{"category": opt("web", "Web Applications")},
			},
		},
		skills: []domain.Record{
			{Slug: "docker", Title: "Docker", Metadata: domain.Metadata{
				"category": opt("tools", "Tools"), "proficiency": opt("advanced", "Advanced"),
			}},
			{Slug: "go", Title: "Go", Metadata: domain.Metadata{
				"category": opt("programming_languages", "Programming Languages"),
				"proficiency": opt("expert", "Expert"), "years_experience": 6.0,
			}},
			{Slug: "gin", Title: "Gin", Metadata: domain.Metadata{
				"category": opt("frameworks", "Frameworks"), "proficiency": opt("advanced", "Advanced"),
				"years_experience": 1.0,
			}},
		},
		about: &domain.Record{
			Slug:    "about",
			Title:   "Jane Developer",
			Content: `<p onclick="track()">I build services.</p><script>alert(1)</script>`,
			Metadata: domain.Metadata{
				"email":  "jane@example.com",
				"github": "https://github.com/jane",
			},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{Name: "portfolio", Version: "1.2.3", Port: 8000},
		Cosmic:  config.CosmicConfig{BucketSlug: "jane-portfolio"},
		Site: config.SiteConfig{
			Title:         "Jane's Portfolio",
			TemplatesDir:  "../../templates",
			StaticDir:     "../../static",
			ExcerptLength: 150,
			ImageWidth:    400,
			ImageHeight:   300,
			ImageQuality:  80,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newServer(t *testing.T, store *fakeStore, mutate ...func(*config.Config)) *server.Server {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tp := telemetry.NewProviderWithRegistry(prometheus.NewRegistry())
	srv, err := api.NewServer(ctx, api.Dependencies{
		Config:    cfg,
		Logger:    logger.NewNop(),
		Store:     store,
		Telemetry: tp,
	})
	require.NoError(t, err)
	return srv
}

func do(srv *server.Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	req.RemoteAddr = "10.0.0.1:5555"
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIndex(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "Jane's Portfolio", doc.Find("title").Text())
	assert.Equal(t, "Jane Developer", strings.TrimSpace(doc.Find(".hero-title").Text()))

	var categories []string
	doc.Find(".skill-category").Each(func(_ int, s *goquery.Selection) {
		categories = append(categories, s.AttrOr("data-category", ""))
	})
	assert.Equal(t, []string{"programming_languages", "frameworks", "tools"}, categories)

	goSkill := doc.Find(`.skill-item[data-slug="go"]`)
	assert.Equal(t, "6 years", goSkill.Find(".skill-years").Text())
	style := goSkill.Find(".skill-progress").AttrOr("style", "")
	assert.Contains(t, style, "width: 100%")
	assert.Contains(t, style, "#10b981")
	assert.Equal(t, "1 year", doc.Find(`.skill-item[data-slug="gin"] .skill-years`).Text())

	var projects []string
	doc.Find(".project-card").Each(func(_ int, s *goquery.Selection) {
		projects = append(projects, s.AttrOr("data-slug", ""))
	})
	assert.Equal(t, []string{"api", "site", "cli"}, projects)

	site := doc.Find(`.project-card[data-slug="site"]`)
	assert.Equal(t,
		"https://imgix.cosmicjs.com/site.png?w=400&h=300&fit=crop&auto=format,compress&q=80",
		site.Find(".project-image").AttrOr("src", ""))
	assert.Equal(t, "A portfolio built with Go.", site.Find(".project-description").Text())
	assert.Equal(t, 3, site.Find(".tech-tag").Length())
	assert.Equal(t, 1, site.Find(".project-link").Length(), "invalid live_url must be skipped")

	about := doc.Find(".about-content")
	assert.Equal(t, "I build services.", about.Text())
	assert.Equal(t, 0, about.Find("script").Length())
	_, hasOnclick := about.Find("p").Attr("onclick")
	assert.False(t, hasOnclick)

	assert.Equal(t, "mailto:jane@example.com", doc.Find(".contact-links a").First().AttrOr("href", ""))
	assert.Contains(t, doc.Find("footer").Text(), "Jane's Portfolio")

	assert.Contains(t, body, "cosmic-badge-dismissed")
}

func TestIndex_StoreDown(t *testing.T) {
	srv := newServer(t, &fakeStore{err: errors.New("connection refused")})

	w := do(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find(".project-card").Length())
	assert.Equal(t, 0, doc.Find(".skill-category").Length())
	assert.Equal(t, 3, doc.Find(".empty-state").Length())
}

func TestIndex_BadgeDisabled(t *testing.T) {
	srv := newServer(t, contentStore(), func(c *config.Config) { c.Site.BadgeDisabled = true })

	w := do(srv, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "cosmic-badge-dismissed")
}

func TestListProjects(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/api/projects")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Projects []domain.Record `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Projects, 3)
}

func TestListProjects_StoreDownIsEmptyList(t *testing.T) {
	srv := newServer(t, &fakeStore{err: errors.New("timeout")})

	w := do(srv, http.MethodGet, "/api/projects")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects":[]}`, w.Body.String())
}

func TestGetProject(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/api/projects/cli")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Project domain.Record `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Content CLI", body.Project.Title)
}

func TestGetProject_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
	}{
		{name: "absent", store: contentStore()},
		{name: "store down", store: &fakeStore{err: errors.New("connection reset")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.store)

			w := do(srv, http.MethodGet, "/api/projects/missing")

			assert.Equal(t, http.StatusNotFound, w.Code)
			body := decode(t, w)
			assert.JSONEq(t, `"Project not found"`, string(body["detail"]))
			assert.JSONEq(t, `"NOT_FOUND"`, string(body["code"]))
		})
	}
}

func TestSkills_OrderedCategories(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/api/skills")
	require.Equal(t, http.StatusOK, w.Code)

	raw := w.Body.String()
	langs := strings.Index(raw, `"programming_languages"`)
	frameworks := strings.Index(raw, `"frameworks"`)
	tools := strings.Index(raw, `"tools":{`)
	require.NotEqual(t, -1, langs)
	assert.Less(t, langs, frameworks)
	assert.Less(t, frameworks, tools)

	var body struct {
		Skills map[string]struct {
			Name   string          `json:"name"`
			Skills []domain.Record `json:"skills"`
		} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Programming Languages", body.Skills["programming_languages"].Name)
	assert.Len(t, body.Skills["tools"].Skills, 1)
}

func TestProjectCategories(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/api/project-categories")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories map[string]struct {
			Name     string          `json:"name"`
			Projects []domain.Record `json:"projects"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	web := body.Categories["web"]
	assert.Equal(t, "Web Applications", web.Name)
	require.Len(t, web.Projects, 2)
	assert.Equal(t, "API Gateway", web.Projects[0].Title)
}

func TestAbout(t *testing.T) {
	srv := newServer(t, contentStore())

	w := do(srv, http.MethodGet, "/api/about")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w)["about"]), `"Jane Developer"`)
}

func TestAbout_NotFound(t *testing.T) {
	srv := newServer(t, &fakeStore{})

	w := do(srv, http.MethodGet, "/api/about")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `"About information not found"`, string(decode(t, w)["detail"]))
}

func TestHealth(t *testing.T) {
	srv := newServer(t, &fakeStore{err: errors.New("down")})

	w := do(srv, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.JSONEq(t, `"healthy"`, string(body["status"]))
	assert.JSONEq(t, `"Portfolio API is running"`, string(body["message"]))
	assert.JSONEq(t, `"1.2.3"`, string(body["version"]))
}

func TestStaticAndMetrics(t *testing.T) {
	srv := newServer(t, contentStore())

	css := do(srv, http.MethodGet, "/static/css/style.css")
	assert.Equal(t, http.StatusOK, css.Code)

	do(srv, http.MethodGet, "/api/projects")
	metrics := do(srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `portfolio_http_requests_total{method="GET",route="/api/projects",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, contentStore(), func(c *config.Config) { c.RateLimit.Enabled = true })

	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/projects").Code)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/skills").Code)

	w := do(srv, http.MethodGet, "/api/about")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/").Code, "page is not rate limited")

	metrics := do(srv, http.MethodGet, "/metrics")
	assert.Contains(t, metrics.Body.String(), "portfolio_rate_limited_total 1")
}

func TestNewServer_MissingTemplates(t *testing.T) {
	_, err := api.NewServer(context.Background(), api.Dependencies{
		Config: func() *config.Config {
			cfg := testConfig()
			cfg.Site.TemplatesDir = t.TempDir()
			return cfg
		}(),
		Logger: logger.NewNop(),
		Store:  &fakeStore{},
	})

	assert.Error(t, err)
}
