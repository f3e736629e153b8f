package api

import (
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin/render"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/logger"
)

// templateRenderer is a gin HTMLRender whose template set can be swapped
// while the server is running.
type templateRenderer struct {
	mu   sync.RWMutex
	tmpl *template.Template
	site config.SiteConfig
	log  logger.Logger
}

func newTemplateRenderer(site config.SiteConfig, log logger.Logger) (*templateRenderer, error) {
	tmpl, err := loadTemplates(site)
	if err != nil {
		return nil, err
	}
	return &templateRenderer{tmpl: tmpl, site: site, log: log}, nil
}

// Instance implements render.HTMLRender.
func (r *templateRenderer) Instance(name string, data any) render.Render {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()
	return render.HTML{Template: tmpl, Name: name, Data: data}
}

// reload re-parses the templates directory. A parse error keeps the previous
// set in place.
func (r *templateRenderer) reload() error {
	tmpl, err := loadTemplates(r.site)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// watch reloads templates whenever an .html file in the templates directory
// changes, until ctx is done.
func (r *templateRenderer) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	if addErr := watcher.Add(r.site.TemplatesDir); addErr != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", r.site.TemplatesDir, addErr)
	}

	r.log.Info("Watching templates for changes", logger.String("dir", r.site.TemplatesDir))

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				r.handleEvent(event)
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Warn("Template watcher error", logger.Error(watchErr))
			}
		}
	}()
	return nil
}

func (r *templateRenderer) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".html") || event.Op == fsnotify.Chmod {
		return
	}
	if err := r.reload(); err != nil {
		r.log.Error("Failed to reload templates",
			logger.String("file", event.Name),
			logger.Error(err),
		)
		return
	}
	r.log.Info("Templates reloaded", logger.String("file", event.Name))
}

// loadTemplates parses every *.html file in the templates directory with the
// page helpers installed.
func loadTemplates(site config.SiteConfig) (*template.Template, error) {
	pattern := filepath.Join(site.TemplatesDir, "*.html")
	tmpl, err := template.New("").Funcs(FuncMap(site)).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("load templates %s: %w", pattern, err)
	}
	return tmpl, nil
}
