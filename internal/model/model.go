package model

import "time"

// Image is a fully resolved image reference. A view model either carries a
// complete Image or none at all.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// BlogPost represents a single published (or draft) blog entry.
type BlogPost struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PubDate       time.Time `json:"pubDate"`
	Author        string    `json:"author,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Draft         bool      `json:"draft"`
	Body          string    `json:"body,omitempty"`
	Image         *Image    `json:"image,omitempty"`
	CommentsCount int       `json:"commentsCount"`
	LikesCount    int       `json:"likesCount"`
}

// ProjectStatus is the lifecycle stage of a portfolio project.
type ProjectStatus string

const (
	StatusPlanning    ProjectStatus = "planning"
	StatusInProgress  ProjectStatus = "in-progress"
	StatusCompleted   ProjectStatus = "completed"
	StatusMaintenance ProjectStatus = "maintenance"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusMaintenance:
		return true
	}
	return false
}

// Project represents a portfolio project page.
type Project struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Body         string        `json:"body,omitempty"`
	Technologies []string      `json:"technologies,omitempty"`
	LiveURL      string        `json:"liveUrl,omitempty"`
	GithubURL    string        `json:"githubUrl,omitempty"`
	Featured     bool          `json:"featured"`
	StartDate    *time.Time    `json:"startDate,omitempty"`
	EndDate      *time.Time    `json:"endDate,omitempty"`
	Image        *Image        `json:"image,omitempty"`
	Gallery      []Image       `json:"gallery"`
	Tags         []string      `json:"tags,omitempty"`
	Status       ProjectStatus `json:"status,omitempty"`
	Order        int           `json:"order"`
}

// Podcast represents a single podcast episode.
type Podcast struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AudioURL      string    `json:"audioUrl"`
	Duration      string    `json:"duration,omitempty"`
	PubDate       time.Time `json:"pubDate"`
	CoverImage    *Image    `json:"coverImage,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Transcript    string    `json:"transcript,omitempty"`
	Author        string    `json:"author,omitempty"`
	EpisodeNumber int       `json:"episodeNumber,omitempty"`
	Season        int       `json:"season,omitempty"`
	Featured      bool      `json:"featured"`
}

// Comment is a reader comment on a blog post. ParentComment is a lookup of
// the comment being replied to and never carries a parent of its own.
type Comment struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"authorName"`
	AuthorWebsite string    `json:"authorWebsite,omitempty"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"createdAt"`
	ParentComment *Comment  `json:"parentComment,omitempty"`
}

// Like records that an anonymous session liked a post.
type Like struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tag is a post tag with its slug id.
type Tag struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// NewComment is the payload a reader submits through the comment form.
type NewComment struct {
	Content         string
	AuthorName      string
	AuthorEmail     string
	AuthorWebsite   string
	BlogPostID      string
	ParentCommentID string
}
