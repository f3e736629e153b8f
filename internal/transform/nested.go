package transform

import (
	"strings"

	"github.com/jonesrussell/portfolio/internal/domain"
)

// SafeGetNestedValue resolves a dot-separated path such as "category.value"
// through nested maps. It returns def when any segment is missing or an
// intermediate value is not a map.
func SafeGetNestedValue(data any, path string, def any) any {
	current := data
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return def
		}
		next, ok := m[key]
		if !ok {
			return def
		}
		current = next
	}
	return current
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.Metadata:
		return m, true
	case domain.Record:
		return recordMap(&m), true
	case *domain.Record:
		if m == nil {
			return nil, false
		}
		return recordMap(m), true
	default:
		return nil, false
	}
}

// recordMap exposes a record's fields under their JSON names so paths like
// "metadata.category.key" resolve against typed records.
func recordMap(r *domain.Record) map[string]any {
	return map[string]any{
		"id":           r.ID,
		"slug":         r.Slug,
		"title":        r.Title,
		"type":         r.Type,
		"content":      r.Content,
		"status":       r.Status,
		"thumbnail":    r.Thumbnail,
		"created_at":   r.CreatedAt,
		"modified_at":  r.ModifiedAt,
		"published_at": r.PublishedAt,
		"metadata":     map[string]any(r.Metadata),
	}
}
