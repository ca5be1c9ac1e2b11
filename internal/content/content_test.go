package content

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aniekan-akpan/theblog/internal/cms"
	"github.com/aniekan-akpan/theblog/internal/model"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

const adminToken = "admin-token"

var quiet = log.New(io.Discard, "", 0)

// setupCMS starts a local CMS and returns a public service and an admin
// service talking to it.
func setupCMS(t *testing.T) (public, admin *Service) {
	t.Helper()
	srv, closeDB, err := cms.OpenServer(":memory:", adminToken, quiet)
	if err != nil {
		t.Fatalf("OpenServer: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		closeDB()
	})
	public = New(strapi.NewClient(strapi.Config{BaseURL: ts.URL}), quiet)
	admin = New(strapi.NewClient(strapi.Config{BaseURL: ts.URL, APIToken: adminToken}), quiet)
	return public, admin
}

func savePost(t *testing.T, admin *Service, fields map[string]any) string {
	t.Helper()
	id, err := admin.SaveBlogPost(context.Background(), "", fields)
	if err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	return id
}

func TestRequestsUseCMSConventions(t *testing.T) {
	var got url.Values
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, path = r.URL.Query(), r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[],"meta":{"pagination":{"page":2,"pageSize":5,"pageCount":0,"total":0}}}`)
	}))
	defer ts.Close()
	svc := New(strapi.NewClient(strapi.Config{BaseURL: ts.URL}), quiet)
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func()
		wantPath string
		want     map[string]string
	}{
		{
			name:     "all posts",
			call:     func() { svc.GetAllBlogPosts(ctx) },
			wantPath: "/api/blog-posts",
			want:     map[string]string{"populate": "*", "filters[draft][$eq]": "false", "sort": "pubDate:desc"},
		},
		{
			name:     "posts by tag",
			call:     func() { svc.GetBlogPostsByTag(ctx, "go") },
			wantPath: "/api/blog-posts",
			want:     map[string]string{"filters[tags][$contains]": "go", "filters[draft][$eq]": "false"},
		},
		{
			name:     "paginated posts",
			call:     func() { svc.GetPaginatedBlogPosts(ctx, 2, 5) },
			wantPath: "/api/blog-posts",
			want:     map[string]string{"pagination[page]": "2", "pagination[pageSize]": "5"},
		},
		{
			name:     "paginated defaults",
			call:     func() { svc.GetPaginatedProjects(ctx, 0, 0) },
			wantPath: "/api/projects",
			want:     map[string]string{"pagination[page]": "1", "pagination[pageSize]": "9"},
		},
		{
			name:     "projects order",
			call:     func() { svc.GetAllProjects(ctx) },
			wantPath: "/api/projects",
			want:     map[string]string{"sort": "order:asc,createdAt:desc", "populate": "*"},
		},
		{
			name:     "slug is escaped",
			call:     func() { svc.GetProjectBySlug(ctx, "a&b=c") },
			wantPath: "/api/projects",
			want:     map[string]string{"filters[slug][$eq]": "a&b=c"},
		},
		{
			name:     "comments",
			call:     func() { svc.GetCommentsByPostID(ctx, "doc1") },
			wantPath: "/api/comments",
			want: map[string]string{
				"filters[blog_post][documentId][$eq]": "doc1",
				"filters[approved][$eq]":              "true",
				"populate":                            "parentComment",
				"sort":                                "createdAt:desc",
			},
		},
		{
			name:     "like lookup",
			call:     func() { svc.CheckIfLiked(ctx, "doc1", "session_1_abc") },
			wantPath: "/api/likes",
			want:     map[string]string{"filters[blog_post][documentId][$eq]": "doc1", "filters[sessionId][$eq]": "session_1_abc"},
		},
		{
			name:     "featured podcasts",
			call:     func() { svc.GetFeaturedPodcasts(ctx) },
			wantPath: "/api/podcasts",
			want:     map[string]string{"filters[featured][$eq]": "true", "sort": "pubDate:desc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			for k, v := range tt.want {
				if got.Get(k) != v {
					t.Errorf("%s = %q, want %q", k, got.Get(k), v)
				}
			}
		})
	}
}

func TestFailuresFallBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"data":null,"error":{"status":500,"name":"ApplicationError","message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer ts.Close()
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	for name, base := range map[string]string{"server error": ts.URL, "unreachable": closed.URL} {
		t.Run(name, func(t *testing.T) {
			svc := New(strapi.NewClient(strapi.Config{BaseURL: base}), quiet)
			ctx := context.Background()

			if got := svc.GetAllBlogPosts(ctx); got == nil || len(got) != 0 {
				t.Errorf("GetAllBlogPosts = %v, want empty", got)
			}
			if got := svc.GetBlogPostBySlug(ctx, "x"); got != nil {
				t.Errorf("GetBlogPostBySlug = %v, want nil", got)
			}
			if got := svc.GetAllTags(ctx); len(got) != 0 {
				t.Errorf("GetAllTags = %v", got)
			}
			if got := svc.GetPaginatedBlogPosts(ctx, 1, 10); len(got.Items) != 0 || got.Pagination != nil {
				t.Errorf("GetPaginatedBlogPosts = %+v", got)
			}
			if got := svc.GetAllProjects(ctx); len(got) != 0 {
				t.Errorf("GetAllProjects = %v", got)
			}
			if got := svc.GetPodcastBySlug(ctx, "x"); got != nil {
				t.Errorf("GetPodcastBySlug = %v", got)
			}
			if got := svc.GetCommentsByPostID(ctx, "p"); got == nil || len(got) != 0 {
				t.Errorf("GetCommentsByPostID = %v", got)
			}
			if got := svc.CreateComment(ctx, model.NewComment{Content: "x"}); got != nil {
				t.Errorf("CreateComment = %v", got)
			}
			if got := svc.GetLikeCountByPostID(ctx, "p"); got != 0 {
				t.Errorf("GetLikeCountByPostID = %d", got)
			}
			if svc.CheckIfLiked(ctx, "p", "s") {
				t.Error("CheckIfLiked = true")
			}
			if svc.CreateLike(ctx, "p", "s") || svc.DeleteLike(ctx, "l", "s") {
				t.Error("like mutation reported success")
			}
			if svc.ApproveComment(ctx, "c") || svc.DeleteComment(ctx, "c") {
				t.Error("moderation reported success")
			}
			if _, err := svc.FindBlogPostBySlug(ctx, "x"); err == nil {
				t.Error("FindBlogPostBySlug swallowed the error")
			}
		})
	}
}

func TestPostsAgainstCMS(t *testing.T) {
	public, admin := setupCMS(t)
	ctx := context.Background()

	first := savePost(t, admin, map[string]any{
		"title": "First", "slug": "first", "pubDate": "2024-01-01", "tags": []string{"Go", "web"},
		"image": map[string]any{"url": map[string]any{"url": "/uploads/first.png"}},
	})
	savePost(t, admin, map[string]any{"title": "Second", "slug": "second", "pubDate": "2024-02-01", "tags": []string{"go"}})
	savePost(t, admin, map[string]any{"title": "Draft", "slug": "draft", "pubDate": "2024-03-01", "draft": true})

	posts := public.GetAllBlogPosts(ctx)
	if len(posts) != 2 || posts[0].Slug != "second" || posts[1].Slug != "first" {
		t.Fatalf("posts = %+v", posts)
	}
	if img := posts[1].Image; img == nil || img.URL != public.client.BaseURL()+"/uploads/first.png" || img.Alt != "First" {
		t.Errorf("image = %+v", img)
	}
	if posts[0].Image != nil {
		t.Errorf("post without image got %+v", posts[0].Image)
	}

	if got := public.GetBlogPostBySlug(ctx, "first"); got == nil || got.ID != first {
		t.Errorf("GetBlogPostBySlug = %+v", got)
	}
	if got := public.GetBlogPostBySlug(ctx, "missing"); got != nil {
		t.Errorf("missing slug = %+v", got)
	}
	if got := public.GetBlogPostsByTag(ctx, "web"); len(got) != 1 || got[0].Slug != "first" {
		t.Errorf("GetBlogPostsByTag = %+v", got)
	}
	if got := public.GetAllTags(ctx); len(got) != 3 || got[0] != "Go" || got[1] != "go" || got[2] != "web" {
		t.Errorf("GetAllTags = %v", got)
	}

	page := public.GetPaginatedBlogPosts(ctx, 1, 1)
	if len(page.Items) != 1 || page.Pagination == nil || page.Pagination.Total != 2 || !page.HasNext() {
		t.Errorf("page = %+v", page)
	}

	// Saving with an id updates in place.
	if _, err := admin.SaveBlogPost(ctx, first, map[string]any{"title": "First, edited"}); err != nil {
		t.Fatal(err)
	}
	found, err := admin.FindBlogPostBySlug(ctx, "first")
	if err != nil || found == nil || found.Title != "First, edited" {
		t.Errorf("FindBlogPostBySlug = %+v, %v", found, err)
	}
	if found, err := admin.FindBlogPostBySlug(ctx, "nope"); err != nil || found != nil {
		t.Errorf("missing FindBlogPostBySlug = %+v, %v", found, err)
	}
}

func TestCommentsAgainstCMS(t *testing.T) {
	public, admin := setupCMS(t)
	ctx := context.Background()
	postID := savePost(t, admin, map[string]any{"title": "Post", "slug": "post"})

	c := public.CreateComment(ctx, model.NewComment{
		Content: "Great read", AuthorName: "Ada", AuthorEmail: "ada@example.com", BlogPostID: postID,
	})
	if c == nil || c.Approved || c.ID == "" {
		t.Fatalf("CreateComment = %+v", c)
	}
	if got := public.GetCommentsByPostID(ctx, postID); len(got) != 0 {
		t.Fatalf("unapproved comment visible: %+v", got)
	}
	if got := public.ListPendingComments(ctx, postID); len(got) != 0 {
		t.Errorf("public pending list = %+v", got)
	}
	if public.ApproveComment(ctx, c.ID) {
		t.Error("anonymous approve succeeded")
	}

	pending := admin.ListPendingComments(ctx, postID)
	if len(pending) != 1 || pending[0].ID != c.ID {
		t.Fatalf("pending = %+v", pending)
	}
	if !admin.ApproveComment(ctx, c.ID) {
		t.Fatal("ApproveComment failed")
	}

	reply := public.CreateComment(ctx, model.NewComment{
		Content: "Agreed", AuthorName: "Bob", AuthorEmail: "bob@example.com",
		AuthorWebsite: "https://bob.example", BlogPostID: postID, ParentCommentID: c.ID,
	})
	if reply == nil {
		t.Fatal("reply failed")
	}
	admin.ApproveComment(ctx, reply.ID)

	comments := public.GetCommentsByPostID(ctx, postID)
	if len(comments) != 2 {
		t.Fatalf("comments = %+v", comments)
	}
	var r model.Comment
	for _, cm := range comments {
		if cm.ID == reply.ID {
			r = cm
		}
	}
	if r.ParentComment == nil || r.ParentComment.ID != c.ID || r.ParentComment.ParentComment != nil {
		t.Errorf("reply parent = %+v", r.ParentComment)
	}
	if r.AuthorWebsite != "https://bob.example" {
		t.Errorf("website = %q", r.AuthorWebsite)
	}

	// Counts on the post include approved comments only.
	public.CreateComment(ctx, model.NewComment{Content: "spam", AuthorName: "X", AuthorEmail: "x@y.z", BlogPostID: postID})
	if post := public.GetBlogPostBySlug(ctx, "post"); post == nil || post.CommentsCount != 2 {
		t.Errorf("post = %+v", post)
	}

	if !admin.DeleteComment(ctx, reply.ID) {
		t.Error("DeleteComment failed")
	}
	if got := public.GetCommentsByPostID(ctx, postID); len(got) != 1 {
		t.Errorf("after delete = %+v", got)
	}
}

func TestUnapprovedParentStaysHidden(t *testing.T) {
	public, admin := setupCMS(t)
	ctx := context.Background()
	postID := savePost(t, admin, map[string]any{"title": "Post", "slug": "post"})

	held := public.CreateComment(ctx, model.NewComment{
		Content: "awaiting moderation", AuthorName: "Ada", AuthorEmail: "ada@example.com", BlogPostID: postID,
	})
	if held == nil {
		t.Fatal("CreateComment failed")
	}
	if got := public.CreateComment(ctx, model.NewComment{
		Content: "reply", AuthorName: "Bob", AuthorEmail: "bob@example.com", BlogPostID: postID, ParentCommentID: held.ID,
	}); got != nil {
		t.Fatalf("reply to unapproved comment accepted: %+v", got)
	}

	reply := admin.CreateComment(ctx, model.NewComment{
		Content: "reply", AuthorName: "Bob", AuthorEmail: "bob@example.com", BlogPostID: postID, ParentCommentID: held.ID,
	})
	if reply == nil || !admin.ApproveComment(ctx, reply.ID) {
		t.Fatal("admin reply failed")
	}

	comments := public.GetCommentsByPostID(ctx, postID)
	if len(comments) != 1 || comments[0].ID != reply.ID {
		t.Fatalf("comments = %+v", comments)
	}
	if p := comments[0].ParentComment; p != nil {
		t.Errorf("unapproved parent visible: %+v", p)
	}
	if post := public.GetBlogPostBySlug(ctx, "post"); post == nil || post.CommentsCount != 1 {
		t.Errorf("post = %+v", post)
	}
}

func TestLikesAgainstCMS(t *testing.T) {
	public, admin := setupCMS(t)
	ctx := context.Background()
	postID := savePost(t, admin, map[string]any{"title": "Post", "slug": "post"})
	const session = "session_1700000000000_abcdef123"

	if public.CheckIfLiked(ctx, postID, session) {
		t.Fatal("liked before liking")
	}
	if !public.CreateLike(ctx, postID, session) {
		t.Fatal("CreateLike failed")
	}
	if public.CreateLike(ctx, postID, session) {
		t.Error("duplicate like accepted")
	}
	public.CreateLike(ctx, postID, "session_other")

	if got := public.GetLikeCountByPostID(ctx, postID); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if post := public.GetBlogPostBySlug(ctx, "post"); post == nil || post.LikesCount != 2 {
		t.Errorf("post = %+v", post)
	}

	like := public.FindLike(ctx, postID, session)
	if like == nil || like.SessionID != session {
		t.Fatalf("FindLike = %+v", like)
	}
	if public.DeleteLike(ctx, like.ID, "session_other") {
		t.Error("deleted someone else's like")
	}
	if !public.DeleteLike(ctx, like.ID, session) {
		t.Fatal("DeleteLike failed")
	}
	if public.CheckIfLiked(ctx, postID, session) {
		t.Error("still liked after delete")
	}
	if got := public.GetLikeCountByPostID(ctx, postID); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestProjectsAndPodcastsAgainstCMS(t *testing.T) {
	public, admin := setupCMS(t)
	ctx := context.Background()

	for _, p := range []map[string]any{
		{"title": "Later", "slug": "later", "order": 2},
		{"title": "Sooner", "slug": "sooner", "order": 1, "featured": true, "status": "completed", "startDate": "2023-05-01"},
	} {
		if _, err := strapi.Create[strapi.Project](ctx, admin.client, projectsEndpoint, p); err != nil {
			t.Fatal(err)
		}
	}
	projects := public.GetAllProjects(ctx)
	if len(projects) != 2 || projects[0].Slug != "sooner" {
		t.Fatalf("projects = %+v", projects)
	}
	if projects[0].Status != model.StatusCompleted || projects[0].StartDate == nil || projects[0].EndDate != nil {
		t.Errorf("project = %+v", projects[0])
	}
	if got := public.GetFeaturedProjects(ctx); len(got) != 1 || got[0].Slug != "sooner" {
		t.Errorf("featured = %+v", got)
	}
	if got := public.GetProjectBySlug(ctx, "later"); got == nil || got.Title != "Later" {
		t.Errorf("GetProjectBySlug = %+v", got)
	}

	for _, p := range []map[string]any{
		{"title": "Ep 1", "slug": "ep-1", "audioUrl": "https://cdn.example/1.mp3", "pubDate": "2024-01-01", "episodeNumber": 1},
		{"title": "Ep 2", "slug": "ep-2", "audioUrl": "https://cdn.example/2.mp3", "pubDate": "2024-02-01", "episodeNumber": 2, "featured": true},
	} {
		if _, err := strapi.Create[strapi.Podcast](ctx, admin.client, podcastsEndpoint, p); err != nil {
			t.Fatal(err)
		}
	}
	podcasts := public.GetAllPodcasts(ctx)
	if len(podcasts) != 2 || podcasts[0].EpisodeNumber != 2 {
		t.Fatalf("podcasts = %+v", podcasts)
	}
	if got := public.GetFeaturedPodcasts(ctx); len(got) != 1 || got[0].Slug != "ep-2" {
		t.Errorf("featured = %+v", got)
	}
	if got := public.GetPodcastBySlug(ctx, "ep-1"); got == nil || got.AudioURL != "https://cdn.example/1.mp3" {
		t.Errorf("GetPodcastBySlug = %+v", got)
	}
}
