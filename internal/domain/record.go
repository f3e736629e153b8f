// Package domain holds the content records served by the portfolio.
package domain

import (
	"math"
	"strconv"
	"strings"
)

// Collection types stored in the content bucket.
const (
	CollectionProjects = "projects"
	CollectionSkills   = "skills"
	CollectionAbout    = "about"
)

// Metadata keys read by the transforms.
const (
	MetaCategory        = "category"
	MetaProficiency     = "proficiency"
	MetaYearsExperience = "years_experience"
)

// Record is a content object as returned by the content store. Slug is unique
// within its collection.
type Record struct {
	ID          string   `json:"id,omitempty"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Type        string   `json:"type,omitempty"`
	Content     string   `json:"content,omitempty"`
	Status      string   `json:"status,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	ModifiedAt  string   `json:"modified_at,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

// Metadata is the free-form field set of a record: strings, numbers and
// nested objects decoded from JSON.
type Metadata map[string]any

// Option is a select-field value: a machine key and its display label.
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Option reads a select field. A nested {"key","value"} object is the usual
// shape; a bare string is treated as both key and label. The boolean is false
// when the field is missing or has no usable key.
func (m Metadata) Option(name string) (Option, bool) {
	raw, ok := m[name]
	if !ok || raw == nil {
		return Option{}, false
	}

	switch v := raw.(type) {
	case map[string]any:
		key, _ := v["key"].(string)
		if key == "" {
			return Option{}, false
		}
		value, _ := v["value"].(string)
		if value == "" {
			value = key
		}
		return Option{Key: key, Value: value}, true
	case string:
		if v == "" {
			return Option{}, false
		}
		return Option{Key: v, Value: v}, true
	default:
		return Option{}, false
	}
}

// String returns a string field, or "" when missing or not a string.
func (m Metadata) String(name string) string {
	s, _ := m[name].(string)
	return s
}

// Int returns an integral field. JSON numbers are truncated toward zero and
// numeric strings are parsed; anything else yields 0.
func (m Metadata) Int(name string) int {
	n, _ := ToInt(m[name])
	return n
}

// ToInt converts a decoded JSON value to an int. Floats are truncated toward
// zero; strings must hold a base-10 integer, optionally padded with spaces.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
