package content

import (
	"context"
	"fmt"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const podcastsEndpoint = "/podcasts"

func (s *Service) GetAllPodcasts(ctx context.Context) []model.Podcast {
	return soft(s, "fetching podcasts", []model.Podcast{}, func() ([]model.Podcast, error) {
		q := strapi.NewQuery().Populate("*").Sort("pubDate:desc")
		res, err := find[[]strapi.Podcast](ctx, s, podcastsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.Podcast), nil
	})
}

func (s *Service) GetPodcastBySlug(ctx context.Context, slug string) *model.Podcast {
	return soft(s, fmt.Sprintf("fetching podcast %q", slug), nil, func() (*model.Podcast, error) {
		q := strapi.NewQuery().Populate("*").Eq("slug", slug)
		res, err := find[[]strapi.Podcast](ctx, s, podcastsEndpoint, q)
		if err != nil || len(res.Data) == 0 {
			return nil, err
		}
		p := s.norm.Podcast(res.Data[0])
		return &p, nil
	})
}

func (s *Service) GetFeaturedPodcasts(ctx context.Context) []model.Podcast {
	return soft(s, "fetching featured podcasts", []model.Podcast{}, func() ([]model.Podcast, error) {
		q := strapi.NewQuery().Populate("*").Eq("featured", true).Sort("pubDate:desc")
		res, err := find[[]strapi.Podcast](ctx, s, podcastsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.Podcast), nil
	})
}
