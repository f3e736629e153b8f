package transform

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/portfolio/internal/domain"
)

// ImageCDNHost is the image service whose URLs accept resize parameters.
const ImageCDNHost = "imgix.cosmicjs.com"

const neutralColor = "#64748b"

var (
	techSplitRe = regexp.MustCompile(`[,;]`)

	urlRe = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)

	proficiencyPercent = map[string]int{
		"beginner":     25,
		"intermediate": 50,
		"advanced":     75,
		"expert":       100,
	}

	proficiencyColor = map[string]string{
		"beginner":     "#ef4444",
		"intermediate": "#f59e0b",
		"advanced":     "#2563eb",
		"expert":       "#10b981",
	}
)

// FormatTechStack splits a comma or semicolon separated list into trimmed,
// non-empty names. Duplicates are kept.
func FormatTechStack(stack string) []string {
	if stack == "" {
		return []string{}
	}
	parts := techSplitRe.Split(stack, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProficiencyPercentage maps a proficiency key to a progress bar width.
func ProficiencyPercentage(key string) int {
	return proficiencyPercent[strings.ToLower(key)]
}

// ProficiencyColor maps a proficiency key to a hex colour; unknown keys are gray.
func ProficiencyColor(key string) string {
	if c, ok := proficiencyColor[strings.ToLower(key)]; ok {
		return c
	}
	return neutralColor
}

// FormatYearsExperience renders "1 year" or "N years". Zero, missing and
// non-numeric values render as "".
func FormatYearsExperience(years any) string {
	n, ok := domain.ToInt(years)
	if !ok || n == 0 {
		return ""
	}
	if n == 1 {
		return "1 year"
	}
	return strconv.Itoa(n) + " years"
}

// OptimizeImageURL appends resize, format and quality parameters to image CDN
// URLs. Other URLs are returned unchanged.
func OptimizeImageURL(imageURL string, width, height, quality int) string {
	if imageURL == "" {
		return ""
	}
	if !isImageCDN(imageURL) {
		return imageURL
	}

	sep := "?"
	if strings.Contains(imageURL, "?") {
		sep = "&"
	}
	return imageURL + sep +
		"w=" + strconv.Itoa(width) +
		"&h=" + strconv.Itoa(height) +
		"&fit=crop&auto=format,compress" +
		"&q=" + strconv.Itoa(quality)
}

// isImageCDN compares the host portion of a URL without full parsing, so
// URLs that net/url would reject still match.
func isImageCDN(raw string) bool {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		rest = rest[:i]
	}
	return strings.EqualFold(rest, ImageCDNHost)
}

// ValidateURL reports whether s looks like an http(s) URL with a domain,
// localhost or dotted-quad host.
func ValidateURL(s string) bool {
	if s == "" {
		return false
	}
	return urlRe.MatchString(s)
}

// CurrentYear returns the current year as a string.
func CurrentYear() string {
	return strconv.Itoa(time.Now().Year())
}
