package widget

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/aniekan-akpan/theblog/internal/cms"
	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

var quiet = log.New(io.Discard, "", 0)

// setupBlog starts a local CMS holding one post and returns a public
// service, an admin service and the post id.
func setupBlog(t *testing.T) (*content.Service, *content.Service, string) {
	t.Helper()
	srv, closeDB, err := cms.OpenServer(":memory:", "admin", quiet)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		closeDB()
	})
	admin := content.New(strapi.NewClient(strapi.Config{BaseURL: ts.URL, APIToken: "admin"}), quiet)
	postID, err := admin.SaveBlogPost(context.Background(), "", map[string]any{"title": "Post", "slug": "post"})
	if err != nil {
		t.Fatal(err)
	}
	public := content.New(strapi.NewClient(strapi.Config{BaseURL: ts.URL}), quiet)
	return public, admin, postID
}
