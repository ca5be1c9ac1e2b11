package content

import (
	"context"
	"fmt"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const likesEndpoint = "/likes"

func (s *Service) GetLikeCountByPostID(ctx context.Context, postID string) int {
	return soft(s, fmt.Sprintf("fetching like count for post %q", postID), 0, func() (int, error) {
		q := strapi.NewQuery().Eq("blog_post.documentId", postID)
		res, err := find[[]strapi.Like](ctx, s, likesEndpoint, q)
		if err != nil {
			return 0, err
		}
		if res.Meta.Pagination != nil && res.Meta.Pagination.Total > len(res.Data) {
			return res.Meta.Pagination.Total, nil
		}
		return len(res.Data), nil
	})
}

// FindLike returns the like the session left on the post, or nil when there
// is none or the lookup failed.
func (s *Service) FindLike(ctx context.Context, postID, sessionID string) *model.Like {
	return soft(s, "checking like status", nil, func() (*model.Like, error) {
		q := strapi.NewQuery().Eq("blog_post.documentId", postID).Eq("sessionId", sessionID)
		res, err := find[[]strapi.Like](ctx, s, likesEndpoint, q)
		if err != nil || len(res.Data) == 0 {
			return nil, err
		}
		l := s.norm.Like(res.Data[0])
		return &l, nil
	})
}

func (s *Service) CheckIfLiked(ctx context.Context, postID, sessionID string) bool {
	return s.FindLike(ctx, postID, sessionID) != nil
}

// CreateLike records a like. The CMS rejects a second like from the same
// session, which shows up here as false.
func (s *Service) CreateLike(ctx context.Context, postID, sessionID string) bool {
	return soft(s, "creating like", false, func() (bool, error) {
		_, err := strapi.Create[strapi.Like](ctx, s.client, likesEndpoint, map[string]any{
			"blog_post": postID,
			"sessionId": sessionID,
		})
		return err == nil, err
	})
}

// DeleteLike removes a like. The session id is the only proof of ownership
// the CMS checks.
func (s *Service) DeleteLike(ctx context.Context, likeID, sessionID string) bool {
	return soft(s, "deleting like", false, func() (bool, error) {
		err := strapi.Delete(ctx, s.client, likesEndpoint+"/"+likeID, strapi.NewQuery().Set("sessionId", sessionID))
		return err == nil, err
	})
}
