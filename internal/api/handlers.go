package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/service"
)

const indexTemplate = "index.html"

// Handler serves the portfolio page and JSON API.
type Handler struct {
	svc   *service.PortfolioService
	site  config.SiteConfig
	badge template.HTML
}

// NewHandler creates a Handler. badge is the pre-rendered attribution widget;
// an empty value omits it.
func NewHandler(svc *service.PortfolioService, site config.SiteConfig, badge template.HTML) *Handler {
	return &Handler{svc: svc, site: site, badge: badge}
}

// Index renders the home page.
func (h *Handler) Index(c *gin.Context) {
	page := h.svc.HomePage(c.Request.Context())

	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"Title":         h.site.Title,
		"Projects":      page.Projects,
		"ProjectGroups": page.ProjectGroups.Groups,
		"SkillGroups":   page.SkillGroups.Groups,
		"About":         page.About,
		"CurrentYear":   page.CurrentYear,
		"Badge":         h.badge,
	})
}

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.svc.Projects(c.Request.Context())})
}

// GetProject handles GET /api/projects/:slug.
func (h *Handler) GetProject(c *gin.Context) {
	project, ok := h.svc.Project(c.Request.Context(), c.Param("slug"))
	if !ok {
		notFound(c, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Skills handles GET /api/skills.
func (h *Handler) Skills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"skills": h.svc.SkillGroups(c.Request.Context())})
}

// ProjectCategories handles GET /api/project-categories.
func (h *Handler) ProjectCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.svc.ProjectGroups(c.Request.Context())})
}

// About handles GET /api/about.
func (h *Handler) About(c *gin.Context) {
	about, ok := h.svc.About(c.Request.Context())
	if !ok {
		notFound(c, "About information not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"about": about})
}

func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     detail,
		"code":      "NOT_FOUND",
		"detail":    detail,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
