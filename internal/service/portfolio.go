// Package service composes content store reads with the transforms into the
// view models served by the page and the JSON API.
package service

import (
	"context"
	"sync"

	"github.com/jonesrussell/portfolio/internal/domain"
	"github.com/jonesrussell/portfolio/internal/transform"
)

// ContentStore reads the three content collections. Implementations absorb
// failures and report them through the result status.
type ContentStore interface {
	Projects(ctx context.Context) domain.Result[[]domain.Record]
	ProjectBySlug(ctx context.Context, slug string) domain.Result[*domain.Record]
	Skills(ctx context.Context) domain.Result[[]domain.Record]
	About(ctx context.Context) domain.Result[*domain.Record]
}

// HomePage is everything the index page renders.
type HomePage struct {
	Projects      []domain.Record
	ProjectGroups transform.Grouping
	Skills        []domain.Record
	SkillGroups   transform.Grouping
	About         *domain.Record
	CurrentYear   string
}

// PortfolioService serves view models built from a ContentStore.
type PortfolioService struct {
	store ContentStore
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(store ContentStore) *PortfolioService {
	return &PortfolioService{store: store}
}

// HomePage fetches projects, skills and about concurrently and groups them.
// Any fetch that fails contributes an empty section.
func (s *PortfolioService) HomePage(ctx context.Context) HomePage {
	var (
		wg       sync.WaitGroup
		projects domain.Result[[]domain.Record]
		skills   domain.Result[[]domain.Record]
		about    domain.Result[*domain.Record]
	)

	wg.Go(func() { projects = s.store.Projects(ctx) })
	wg.Go(func() { skills = s.store.Skills(ctx) })
	wg.Go(func() { about = s.store.About(ctx) })
	wg.Wait()

	return HomePage{
		Projects:      projects.Value,
		ProjectGroups: transform.SortProjectsByCategory(projects.Value),
		Skills:        skills.Value,
		SkillGroups:   transform.GroupSkillsByCategory(skills.Value),
		About:         about.Value,
		CurrentYear:   transform.CurrentYear(),
	}
}

// Projects returns every project in store order.
func (s *PortfolioService) Projects(ctx context.Context) []domain.Record {
	return s.store.Projects(ctx).Value
}

// Project returns the project with slug, or false when it is absent.
func (s *PortfolioService) Project(ctx context.Context, slug string) (*domain.Record, bool) {
	res := s.store.ProjectBySlug(ctx, slug)
	return res.Value, res.Found()
}

// SkillGroups returns skills grouped by category in display order.
func (s *PortfolioService) SkillGroups(ctx context.Context) transform.Grouping {
	return transform.GroupSkillsByCategory(s.store.Skills(ctx).Value)
}

// ProjectGroups returns projects grouped by category, sorted by title.
func (s *PortfolioService) ProjectGroups(ctx context.Context) transform.Grouping {
	return transform.SortProjectsByCategory(s.store.Projects(ctx).Value)
}

// About returns the about record, or false when it is absent.
func (s *PortfolioService) About(ctx context.Context) (*domain.Record, bool) {
	res := s.store.About(ctx)
	return res.Value, res.Found()
}
