// Package transform reshapes content records for display: category grouping,
// ordering, markup sanitising and small formatting helpers. Everything here is
// pure and safe for concurrent use.
package transform

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"

	"github.com/jonesrussell/portfolio/internal/domain"
)

// Default bucket for records without a usable category.
const (
	DefaultCategoryKey  = "other"
	DefaultCategoryName = "Other"
)

// Item field names used when a grouping is encoded as JSON.
const (
	skillsField   = "skills"
	projectsField = "projects"
)

// preferredSkillCategories is the display order for skill groups. Categories
// not listed follow in first-seen order.
var preferredSkillCategories = []string{
	"programming_languages",
	"frameworks",
	"databases",
	"tools",
	"cloud",
	"other",
}

// proficiencyRank orders skills; unknown levels rank 0.
var proficiencyRank = map[string]int{
	"expert":       4,
	"advanced":     3,
	"intermediate": 2,
	"beginner":     1,
}

// CategoryGroup is one named bucket of records.
type CategoryGroup struct {
	Key   string
	Name  string
	Items []domain.Record
}

// Grouping is an ordered set of category groups. It encodes to JSON as an
// object keyed by category key, preserving group order:
//
//	{"frameworks": {"name": "Frameworks", "skills": [...]}}
type Grouping struct {
	Groups     []CategoryGroup
	itemsField string
}

// Len returns the number of groups.
func (g Grouping) Len() int {
	return len(g.Groups)
}

// Keys returns the category keys in order.
func (g Grouping) Keys() []string {
	keys := make([]string, len(g.Groups))
	for i := range g.Groups {
		keys[i] = g.Groups[i].Key
	}
	return keys
}

// Get returns the group with the given key.
func (g Grouping) Get(key string) (CategoryGroup, bool) {
	for _, group := range g.Groups {
		if group.Key == key {
			return group, true
		}
	}
	return CategoryGroup{}, false
}

// Total returns the number of records across all groups.
func (g Grouping) Total() int {
	n := 0
	for _, group := range g.Groups {
		n += len(group.Items)
	}
	return n
}

// MarshalJSON writes the groups as an ordered JSON object.
func (g Grouping) MarshalJSON() ([]byte, error) {
	field := g.itemsField
	if field == "" {
		field = "items"
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Key)
		if err != nil {
			return nil, err
		}
		items := group.Items
		if items == nil {
			items = []domain.Record{}
		}
		body, err := json.Marshal(map[string]any{"name": group.Name, field: items})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// categoryOf returns the record's category, falling back to other/Other.
func categoryOf(rec domain.Record) domain.Option {
	if opt, ok := rec.Metadata.Option(domain.MetaCategory); ok {
		return opt
	}
	return domain.Option{Key: DefaultCategoryKey, Value: DefaultCategoryName}
}

// bucket groups records by category key in first-seen order. Input order is
// kept inside each bucket.
func bucket(records []domain.Record) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, rec := range records {
		cat := categoryOf(rec)
		i, ok := index[cat.Key]
		if !ok {
			i = len(groups)
			index[cat.Key] = i
			groups = append(groups, CategoryGroup{Key: cat.Key, Name: cat.Value})
		}
		groups[i].Items = append(groups[i].Items, rec)
	}
	return groups
}

// ProficiencyRank returns the sort rank of a proficiency key.
func ProficiencyRank(key string) int {
	return proficiencyRank[key]
}

func skillRank(rec domain.Record) int {
	opt, ok := rec.Metadata.Option(domain.MetaProficiency)
	if !ok {
		return 0
	}
	return ProficiencyRank(opt.Key)
}

// GroupSkillsByCategory buckets skills by category, orders each bucket by
// proficiency rank then years of experience (both descending, stable), and
// orders the buckets by the preferred category sequence followed by any
// other categories in first-seen order. Every input record appears in
// exactly one group.
func GroupSkillsByCategory(skills []domain.Record) Grouping {
	groups := bucket(skills)

	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b domain.Record) int {
			if c := cmp.Compare(skillRank(b), skillRank(a)); c != 0 {
				return c
			}
			return cmp.Compare(
				b.Metadata.Int(domain.MetaYearsExperience),
				a.Metadata.Int(domain.MetaYearsExperience),
			)
		})
	}

	ordered := make([]CategoryGroup, 0, len(groups))
	placed := make(map[string]bool, len(groups))
	for _, key := range preferredSkillCategories {
		for _, group := range groups {
			if group.Key == key {
				ordered = append(ordered, group)
				placed[key] = true
				break
			}
		}
	}
	for _, group := range groups {
		if !placed[group.Key] {
			ordered = append(ordered, group)
		}
	}

	return Grouping{Groups: ordered, itemsField: skillsField}
}

// SortProjectsByCategory buckets projects by category in first-seen order and
// sorts each bucket by title ascending.
func SortProjectsByCategory(projects []domain.Record) Grouping {
	groups := bucket(projects)

	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b domain.Record) int {
			return cmp.Compare(a.Title, b.Title)
		})
	}

	return Grouping{Groups: groups, itemsField: projectsField}
}
