package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/portfolio/internal/domain"
	"github.com/jonesrussell/portfolio/internal/service"
)

// fakeStore serves fixed records; a non-nil err makes every read fail the way
// the content client reports failures.
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

func category(key, value string) map[string]any {
	return map[string]any{"key": key, "value": value}
}

func newStore() *fakeStore {
	return &fakeStore{
		projects: []domain.Record{
			{Slug: "web-b", Title: "Beta", Metadata: domain.Metadata{"category": category("web", "Web")}},
			{Slug: "cli", Title: "CLI", Metadata: domain.Metadata{"category": category("tools", "Tools")}},
			{Slug: "web-a", Title: "Alpha", Metadata: domain.Metadata{"category": category("web", "Web")}},
		},
		skills: []domain.Record{
			{Slug: "docker", Metadata: domain.Metadata{
				"category":    category("tools", "Tools"),
				"proficiency": category("advanced", "Advanced"),
			}},
			{Slug: "go", Metadata: domain.Metadata{
				"category":    category("programming_languages", "Programming Languages"),
				"proficiency": category("expert", "Expert"),
			}},
		},
		about: &domain.Record{Slug: "about", Title: "About me"},
	}
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	svc := service.NewPortfolioService(newStore())

	page := svc.HomePage(context.Background())

	assert.Len(t, page.Projects, 3)
	assert.Equal(t, []string{"web", "tools"}, page.ProjectGroups.Keys())
	assert.Equal(t, []string{"programming_languages", "tools"}, page.SkillGroups.Keys())
	require.NotNil(t, page.About)
	assert.Equal(t, "About me", page.About.Title)
	assert.NotEmpty(t, page.CurrentYear)

	web, ok := page.ProjectGroups.Get("web")
	require.True(t, ok)
	assert.Equal(t, "Alpha", web.Items[0].Title)
}

func TestHomePage_StoreDownRendersEmptySections(t *testing.T) {
	t.Parallel()

	svc := service.NewPortfolioService(&fakeStore{err: errors.New("connection refused")})

	page := svc.HomePage(context.Background())

	assert.Empty(t, page.Projects)
	assert.Equal(t, 0, page.ProjectGroups.Len())
	assert.Equal(t, 0, page.SkillGroups.Len())
	assert.Nil(t, page.About)
}

func TestProject(t *testing.T) {
	t.Parallel()

	svc := service.NewPortfolioService(newStore())

	p, ok := svc.Project(context.Background(), "cli")
	require.True(t, ok)
	assert.Equal(t, "CLI", p.Title)

	p, ok = svc.Project(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestAbout_Absent(t *testing.T) {
	t.Parallel()

	svc := service.NewPortfolioService(&fakeStore{})

	about, ok := svc.About(context.Background())

	assert.False(t, ok)
	assert.Nil(t, about)
}

func TestSkillGroupsAndProjectGroups(t *testing.T) {
	t.Parallel()

	svc := service.NewPortfolioService(newStore())

	assert.Equal(t, 2, svc.SkillGroups(context.Background()).Total())
	assert.Equal(t, 3, svc.ProjectGroups(context.Background()).Total())
	assert.Len(t, svc.Projects(context.Background()), 3)
}
