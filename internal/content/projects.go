package content

import (
	"context"
	"fmt"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const projectsEndpoint = "/projects"

func (s *Service) GetAllProjects(ctx context.Context) []model.Project {
	return soft(s, "fetching projects", []model.Project{}, func() ([]model.Project, error) {
		q := strapi.NewQuery().Populate("*").Sort("order:asc", "createdAt:desc")
		res, err := find[[]strapi.Project](ctx, s, projectsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.Project), nil
	})
}

func (s *Service) GetFeaturedProjects(ctx context.Context) []model.Project {
	return soft(s, "fetching featured projects", []model.Project{}, func() ([]model.Project, error) {
		q := strapi.NewQuery().Populate("*").Eq("featured", true).Sort("order:asc")
		res, err := find[[]strapi.Project](ctx, s, projectsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.Project), nil
	})
}

func (s *Service) GetProjectBySlug(ctx context.Context, slug string) *model.Project {
	return soft(s, fmt.Sprintf("fetching project with slug %q", slug), nil, func() (*model.Project, error) {
		q := strapi.NewQuery().Populate("*").Eq("slug", slug)
		res, err := find[[]strapi.Project](ctx, s, projectsEndpoint, q)
		if err != nil || len(res.Data) == 0 {
			return nil, err
		}
		p := s.norm.Project(res.Data[0])
		return &p, nil
	})
}

// GetPaginatedProjects returns one page of projects, 9 per page by default.
func (s *Service) GetPaginatedProjects(ctx context.Context, page, pageSize int) model.Page[model.Project] {
	page, pageSize = pageDefaults(page, pageSize, 9)
	empty := model.Page[model.Project]{Items: []model.Project{}}
	return soft(s, "fetching paginated projects", empty, func() (model.Page[model.Project], error) {
		q := strapi.NewQuery().Populate("*").Page(page, pageSize).Sort("order:asc", "createdAt:desc")
		res, err := find[[]strapi.Project](ctx, s, projectsEndpoint, q)
		if err != nil {
			return empty, err
		}
		return model.Page[model.Project]{
			Items:      mapAll(res.Data, s.norm.Project),
			Pagination: s.norm.Pagination(res.Meta.Pagination),
		}, nil
	})
}
