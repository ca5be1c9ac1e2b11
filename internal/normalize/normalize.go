// Package normalize turns CMS wire entries into the site's view models.
// Every function here is pure: the only input besides the entry is the CMS
// base URL that relative media paths are resolved against.
package normalize

import (
	"strings"
	"time"

	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

// Normalizer converts wire entries for one CMS origin.
type Normalizer struct {
	baseURL string
}

func New(baseURL string) Normalizer {
	return Normalizer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (n Normalizer) BlogPost(p strapi.BlogPost) model.BlogPost {
	approved := 0
	for _, c := range p.Comments {
		if c.Approved {
			approved++
		}
	}
	return model.BlogPost{
		ID:            p.DocumentID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		PubDate:       parseTime(p.PubDate),
		Author:        p.Author,
		Tags:          p.Tags,
		Draft:         p.Draft,
		Body:          p.Body,
		Image:         n.image(p.Image, p.Title),
		CommentsCount: approved,
		LikesCount:    len(p.Likes),
	}
}

func (n Normalizer) Project(p strapi.Project) model.Project {
	gallery := make([]model.Image, 0, len(p.Gallery))
	for _, m := range p.Gallery {
		if m.URL == "" {
			continue
		}
		gallery = append(gallery, model.Image{
			URL: n.mediaURL(m.URL),
			Alt: firstNonEmpty(m.AlternativeText, p.Title),
		})
	}
	status := model.ProjectStatus(p.Status)
	if !status.Valid() {
		status = ""
	}
	return model.Project{
		ID:           p.DocumentID,
		Slug:         p.Slug,
		Title:        p.Title,
		Description:  p.Description,
		Body:         p.Body,
		Technologies: p.Technologies,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
		Featured:     p.Featured,
		StartDate:    parseOptionalTime(p.StartDate),
		EndDate:      parseOptionalTime(p.EndDate),
		Image:        n.image(p.Image, p.Title),
		Gallery:      gallery,
		Tags:         p.Tags,
		Status:       status,
		Order:        p.Order,
	}
}

func (n Normalizer) Podcast(p strapi.Podcast) model.Podcast {
	return model.Podcast{
		ID:            p.DocumentID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		AudioURL:      p.AudioURL,
		Duration:      p.Duration,
		PubDate:       parseTime(p.PubDate),
		CoverImage:    n.image(p.CoverImage, p.Title),
		Tags:          p.Tags,
		Transcript:    p.Transcript,
		Author:        p.Author,
		EpisodeNumber: p.EpisodeNumber,
		Season:        p.Season,
		Featured:      p.Featured,
	}
}

// Comment expands the parent comment one level deep. Anything above the
// direct parent is dropped even when the payload carries it.
func (n Normalizer) Comment(c strapi.Comment) model.Comment {
	out := comment(c)
	if c.ParentComment != nil {
		parent := comment(*c.ParentComment)
		out.ParentComment = &parent
	}
	return out
}

func comment(c strapi.Comment) model.Comment {
	return model.Comment{
		ID:            c.DocumentID,
		Content:       c.Content,
		AuthorName:    c.AuthorName,
		AuthorWebsite: c.AuthorWebsite,
		Approved:      c.Approved,
		CreatedAt:     parseTime(c.CreatedAt),
	}
}

func (n Normalizer) Like(l strapi.Like) model.Like {
	return model.Like{
		ID:        l.DocumentID,
		SessionID: l.SessionID,
		CreatedAt: parseTime(l.CreatedAt),
	}
}

func (n Normalizer) Pagination(p *strapi.Pagination) *model.Pagination {
	if p == nil {
		return nil
	}
	return &model.Pagination{
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: p.PageCount,
		Total:     p.Total,
	}
}

// image resolves an image component. Without a media URL there is no image
// at all; alt text falls back from the explicit alt to the media's
// alternative text to the entity title.
func (n Normalizer) image(f *strapi.ImageField, title string) *model.Image {
	if f == nil || f.URL == nil || f.URL.URL == "" {
		return nil
	}
	return &model.Image{
		URL: n.mediaURL(f.URL.URL),
		Alt: firstNonEmpty(f.Alt, f.URL.AlternativeText, title),
	}
}

func (n Normalizer) mediaURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return n.baseURL + u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time for empty or unparseable input.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseOptionalTime(s string) *time.Time {
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}
