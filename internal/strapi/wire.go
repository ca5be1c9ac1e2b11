package strapi

// Wire-level shapes of the CMS entries. Field names follow the Strapi v5
// flattened response format.

type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Media is an uploaded file as returned by the media library.
type Media struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
}

// ImageField is the shared.image component: a media reference plus alt text.
type ImageField struct {
	URL *Media `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type BlogPost struct {
	ID          int         `json:"id"`
	DocumentID  string      `json:"documentId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PubDate     string      `json:"pubDate"`
	Author      string      `json:"author,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Draft       bool        `json:"draft"`
	Slug        string      `json:"slug"`
	Body        string      `json:"body,omitempty"`
	Image       *ImageField `json:"image,omitempty"`
	Comments    []Comment   `json:"comments,omitempty"`
	Likes       []Like      `json:"likes,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
	PublishedAt string      `json:"publishedAt,omitempty"`
}

type Project struct {
	ID           int         `json:"id"`
	DocumentID   string      `json:"documentId"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Slug         string      `json:"slug"`
	Body         string      `json:"body,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
	LiveURL      string      `json:"liveUrl,omitempty"`
	GithubURL    string      `json:"githubUrl,omitempty"`
	Featured     bool        `json:"featured"`
	StartDate    string      `json:"startDate,omitempty"`
	EndDate      string      `json:"endDate,omitempty"`
	Image        *ImageField `json:"image,omitempty"`
	Gallery      []Media     `json:"gallery,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	Status       string      `json:"status,omitempty"`
	Order        int         `json:"order"`
	CreatedAt    string      `json:"createdAt,omitempty"`
	UpdatedAt    string      `json:"updatedAt,omitempty"`
	PublishedAt  string      `json:"publishedAt,omitempty"`
}

type Podcast struct {
	ID            int         `json:"id"`
	DocumentID    string      `json:"documentId"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	AudioURL      string      `json:"audioUrl"`
	Duration      string      `json:"duration,omitempty"`
	PubDate       string      `json:"pubDate"`
	CoverImage    *ImageField `json:"coverImage,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Transcript    string      `json:"transcript,omitempty"`
	Author        string      `json:"author,omitempty"`
	EpisodeNumber int         `json:"episodeNumber,omitempty"`
	Season        int         `json:"season,omitempty"`
	Featured      bool        `json:"featured"`
	CreatedAt     string      `json:"createdAt,omitempty"`
	UpdatedAt     string      `json:"updatedAt,omitempty"`
	PublishedAt   string      `json:"publishedAt,omitempty"`
}

type Comment struct {
	ID            int      `json:"id"`
	DocumentID    string   `json:"documentId"`
	Content       string   `json:"content"`
	AuthorName    string   `json:"authorName"`
	AuthorEmail   string   `json:"authorEmail,omitempty"`
	AuthorWebsite string   `json:"authorWebsite,omitempty"`
	Approved      bool     `json:"approved"`
	ParentComment *Comment `json:"parentComment,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

type Like struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	SessionID  string `json:"sessionId"`
	CreatedAt  string `json:"createdAt"`
}
