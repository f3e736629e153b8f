package api

import (
	"html/template"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/transform"
)

// FuncMap returns the helpers available to page templates. Image and excerpt
// sizes come from the site configuration.
func FuncMap(site config.SiteConfig) template.FuncMap {
	return template.FuncMap{
		// Content from the CMS is trusted markup once scripts and event
		// handlers are stripped.
		"clean_html": func(s string) template.HTML {
			//nolint:gosec // filtered by CleanHTML
			return template.HTML(transform.CleanHTML(s))
		},
		"truncate": func(s string, n ...int) string {
			limit := site.ExcerptLength
			if len(n) > 0 {
				limit = n[0]
			}
			return transform.TruncateText(s, limit)
		},
		"extract_text": transform.ExtractTextFromHTML,
		"excerpt": func(s string) string {
			return transform.TruncateText(transform.ExtractTextFromHTML(s), site.ExcerptLength)
		},
		"tech_stack": func(v any) []string {
			s, _ := v.(string)
			return transform.FormatTechStack(s)
		},
		"proficiency_percentage": transform.ProficiencyPercentage,
		"proficiency_color":      transform.ProficiencyColor,
		"years_experience":       transform.FormatYearsExperience,
		"optimize_image": func(url string) string {
			return transform.OptimizeImageURL(url, site.ImageWidth, site.ImageHeight, site.ImageQuality)
		},
		"valid_url": transform.ValidateURL,
		"meta": func(data any, path string) any {
			return transform.SafeGetNestedValue(data, path, "")
		},
		"meta_str": func(data any, path string) string {
			s, _ := transform.SafeGetNestedValue(data, path, "").(string)
			return s
		},
		"current_year": transform.CurrentYear,
	}
}
