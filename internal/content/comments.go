package content

import (
	"context"
	"fmt"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const commentsEndpoint = "/comments"

// GetCommentsByPostID returns the approved comments of a post, newest first,
// each with its direct parent expanded.
func (s *Service) GetCommentsByPostID(ctx context.Context, postID string) []model.Comment {
	return soft(s, fmt.Sprintf("fetching comments for post %q", postID), []model.Comment{}, func() ([]model.Comment, error) {
		q := strapi.NewQuery().
			Eq("blog_post.documentId", postID).
			Eq("approved", true).
			Populate("parentComment").
			Sort("createdAt:desc")
		res, err := find[[]strapi.Comment](ctx, s, commentsEndpoint, q)
		if err != nil {
			return nil, err
		}
		out := make([]model.Comment, 0, len(res.Data))
		for _, c := range res.Data {
			if c.Approved {
				out = append(out, s.norm.Comment(c))
			}
		}
		return out, nil
	})
}

// CreateComment submits a comment for moderation. It always goes in
// unapproved; nil means the submission failed.
func (s *Service) CreateComment(ctx context.Context, in model.NewComment) *model.Comment {
	return soft(s, "creating comment", nil, func() (*model.Comment, error) {
		data := map[string]any{
			"content":     in.Content,
			"authorName":  in.AuthorName,
			"authorEmail": in.AuthorEmail,
			"blog_post":   in.BlogPostID,
			"approved":    false,
		}
		if in.AuthorWebsite != "" {
			data["authorWebsite"] = in.AuthorWebsite
		}
		if in.ParentCommentID != "" {
			data["parentComment"] = in.ParentCommentID
		}
		res, err := strapi.Create[strapi.Comment](ctx, s.client, commentsEndpoint, data)
		if err != nil {
			return nil, err
		}
		c := s.norm.Comment(res.Data)
		return &c, nil
	})
}

// ListPendingComments returns comments awaiting moderation, optionally for
// a single post. It needs an API token with moderation rights.
func (s *Service) ListPendingComments(ctx context.Context, postID string) []model.Comment {
	return soft(s, "fetching pending comments", []model.Comment{}, func() ([]model.Comment, error) {
		q := strapi.NewQuery().Eq("approved", false).Populate("parentComment").Sort("createdAt:asc")
		if postID != "" {
			q.Eq("blog_post.documentId", postID)
		}
		res, err := find[[]strapi.Comment](ctx, s, commentsEndpoint, q)
		if err != nil {
			return nil, err
		}
		return mapAll(res.Data, s.norm.Comment), nil
	})
}

// ApproveComment flips the moderation flag so the comment becomes public.
func (s *Service) ApproveComment(ctx context.Context, commentID string) bool {
	return soft(s, fmt.Sprintf("approving comment %q", commentID), false, func() (bool, error) {
		_, err := strapi.Update[strapi.Comment](ctx, s.client, commentsEndpoint+"/"+commentID, map[string]any{"approved": true})
		return err == nil, err
	})
}

// DeleteComment removes a comment, typically one rejected in moderation.
func (s *Service) DeleteComment(ctx context.Context, commentID string) bool {
	return soft(s, fmt.Sprintf("deleting comment %q", commentID), false, func() (bool, error) {
		err := strapi.Delete(ctx, s.client, commentsEndpoint+"/"+commentID, nil)
		return err == nil, err
	})
}
