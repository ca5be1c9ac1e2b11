package content

import (
	"context"
	"fmt"
	"sort"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const postsEndpoint = "/blog-posts"

func publishedPosts() *strapi.Query {
	return strapi.NewQuery().Populate("*").Eq("draft", false).Sort("pubDate:desc")
}

// GetAllBlogPosts returns every non-draft post, newest first.
func (s *Service) GetAllBlogPosts(ctx context.Context) []model.BlogPost {
	return soft(s, "fetching blog posts", []model.BlogPost{}, func() ([]model.BlogPost, error) {
		res, err := find[[]strapi.BlogPost](ctx, s, postsEndpoint, publishedPosts())
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.BlogPost), nil
	})
}

// GetBlogPostBySlug returns the post with the given slug, or nil.
func (s *Service) GetBlogPostBySlug(ctx context.Context, slug string) *model.BlogPost {
	return soft(s, fmt.Sprintf("fetching blog post with slug %q", slug), nil, func() (*model.BlogPost, error) {
		q := strapi.NewQuery().Populate("*").Eq("slug", slug)
		res, err := find[[]strapi.BlogPost](ctx, s, postsEndpoint, q)
		if err != nil || len(res.Data) == 0 {
			return nil, err
		}
		p := s.norm.BlogPost(res.Data[0])
		return &p, nil
	})
}

// GetBlogPostsByTag returns published posts whose tags contain tag.
func (s *Service) GetBlogPostsByTag(ctx context.Context, tag string) []model.BlogPost {
	return soft(s, fmt.Sprintf("fetching blog posts with tag %q", tag), []model.BlogPost{}, func() ([]model.BlogPost, error) {
		q := publishedPosts().Contains("tags", tag)
		res, err := find[[]strapi.BlogPost](ctx, s, postsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.BlogPost), nil
	})
}

// GetAllTags returns the sorted set of tags used by published posts.
func (s *Service) GetAllTags(ctx context.Context) []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, p := range s.GetAllBlogPosts(ctx) {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok || tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// GetPaginatedBlogPosts returns one page of published posts. Non-positive
// arguments fall back to page 1 of 10.
func (s *Service) GetPaginatedBlogPosts(ctx context.Context, page, pageSize int) model.Page[model.BlogPost] {
	page, pageSize = pageDefaults(page, pageSize, 10)
	empty := model.Page[model.BlogPost]{Items: []model.BlogPost{}}
	return soft(s, "fetching paginated blog posts", empty, func() (model.Page[model.BlogPost], error) {
		res, err := find[[]strapi.BlogPost](ctx, s, postsEndpoint, publishedPosts().Page(page, pageSize))
		if err != nil {
			return empty, err
		}
		return model.Page[model.BlogPost]{
			Items:      mapAll(res.Data, s.norm.BlogPost),
			Pagination: s.norm.Pagination(res.Meta.Pagination),
		}, nil
	})
}

// FindBlogPostBySlug looks up the raw entry for slug. Unlike the getters it
// reports failures, since the importer must not create duplicates when the
// lookup breaks.
func (s *Service) FindBlogPostBySlug(ctx context.Context, slug string) (*strapi.BlogPost, error) {
	res, err := find[[]strapi.BlogPost](ctx, s, postsEndpoint, strapi.NewQuery().Eq("slug", slug))
	if err != nil {
		return nil, fmt.Errorf("looking up post %q: %w", slug, err)
	}
	if len(res.Data) == 0 {
		return nil, nil
	}
	return &res.Data[0], nil
}

// SaveBlogPost updates the entry with documentID, or creates a new one when
// documentID is empty. It returns the entry's documentId.
func (s *Service) SaveBlogPost(ctx context.Context, documentID string, fields map[string]any) (string, error) {
	var (
		res strapi.Response[strapi.BlogPost]
		err error
	)
	if documentID == "" {
		res, err = strapi.Create[strapi.BlogPost](ctx, s.client, postsEndpoint, fields)
	} else {
		res, err = strapi.Update[strapi.BlogPost](ctx, s.client, postsEndpoint+"/"+documentID, fields)
	}
	if err != nil {
		return "", fmt.Errorf("saving post: %w", err)
	}
	return res.Data.DocumentID, nil
}

func pageDefaults(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}
