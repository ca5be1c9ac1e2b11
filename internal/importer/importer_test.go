package importer

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aniekan-akpan/theblog/internal/cms"
	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

var quiet = log.New(io.Discard, "", 0)

func setupCMS(t *testing.T) *content.Service {
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
	return content.New(strapi.NewClient(strapi.Config{BaseURL: ts.URL, APIToken: "admin"}), quiet)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	src := `---
title: Hello, World
description: A first post
pubDate: "2024-03-05"
author: Ada
tags: [go, web]
draft: true
---

Body text.
`
	p := Parse("posts/hello.md", []byte(src))
	if p.Title != "Hello, World" || p.Slug != "hello-world" || p.Description != "A first post" || p.Author != "Ada" {
		t.Errorf("post = %+v", p)
	}
	if !p.Draft || len(p.Tags) != 2 || p.Tags[1] != "web" {
		t.Errorf("post = %+v", p)
	}
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC); !p.PubDate.Equal(want) {
		t.Errorf("pubDate = %v, want %v", p.PubDate, want)
	}
	if p.Body != "Body text." {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParseFallbacks(t *testing.T) {
	p := Parse("content/my_first-post.md", []byte("# Just markdown\n"))
	if p.Title != "My First Post" || p.Slug != "my-first-post" {
		t.Errorf("post = %+v", p)
	}
	if !p.PubDate.IsZero() {
		t.Errorf("pubDate = %v", p.PubDate)
	}

	p = Parse("x.md", []byte("---\ntitle: Dated\nslug: custom\ndate: 2023-12-31T10:00:00Z\n---\nbody"))
	if p.Slug != "custom" || p.PubDate.Year() != 2023 {
		t.Errorf("post = %+v", p)
	}
}

func TestImportDirUpsertsBySlug(t *testing.T) {
	svc := setupCMS(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.md"), "---\ntitle: One\npubDate: \"2024-01-01\"\n---\nfirst")
	writeFile(t, filepath.Join(dir, "nested", "two.md"), "---\ntitle: Two\n---\nsecond")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	im := New(svc, quiet)
	res, err := im.ImportDir(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 2 || res.Updated != 0 || len(res.Failed) != 0 {
		t.Fatalf("first import = %+v", res)
	}

	writeFile(t, filepath.Join(dir, "one.md"), "---\ntitle: One\npubDate: \"2024-01-01\"\n---\nedited")
	res, err = im.ImportDir(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 0 || res.Updated != 2 {
		t.Fatalf("second import = %+v", res)
	}

	posts := svc.GetAllBlogPosts(ctx)
	if len(posts) != 2 {
		t.Fatalf("posts = %+v", posts)
	}
	post := svc.GetBlogPostBySlug(ctx, "one")
	if post == nil || post.Body != "edited" || post.PubDate.Year() != 2024 {
		t.Errorf("post = %+v", post)
	}
}

func TestReimportClearsRemovedFields(t *testing.T) {
	svc := setupCMS(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "post.md")
	im := New(svc, quiet)

	writeFile(t, path, "---\ntitle: Post\nauthor: Ada\ntags: [go, web]\npubDate: \"2024-01-01\"\n---\nbody")
	if created, err := im.ImportFile(ctx, path); err != nil || !created {
		t.Fatalf("first import: created=%v err=%v", created, err)
	}
	if post := svc.GetBlogPostBySlug(ctx, "post"); post == nil || post.Author != "Ada" || len(post.Tags) != 2 {
		t.Fatalf("post = %+v", post)
	}

	writeFile(t, path, "---\ntitle: Post\n---\nbody")
	if created, err := im.ImportFile(ctx, path); err != nil || created {
		t.Fatalf("second import: created=%v err=%v", created, err)
	}
	post := svc.GetBlogPostBySlug(ctx, "post")
	if post == nil {
		t.Fatal("post missing after re-import")
	}
	if post.Author != "" || len(post.Tags) != 0 || !post.PubDate.IsZero() {
		t.Errorf("stale fields kept: author=%q tags=%v pubDate=%v", post.Author, post.Tags, post.PubDate)
	}
}

func TestImportDirMissing(t *testing.T) {
	im := New(setupCMS(t), quiet)
	if _, err := im.ImportDir(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing directory imported")
	}
}

func TestImportDirReportsFailures(t *testing.T) {
	ts := httptest.NewServer(nil)
	ts.Close()
	svc := content.New(strapi.NewClient(strapi.Config{BaseURL: ts.URL}), quiet)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "---\ntitle: A\n---\n")

	res, err := New(svc, quiet).ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Failed) != 1 || res.Created != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestWatchReimports(t *testing.T) {
	svc := setupCMS(t)
	dir := t.TempDir()
	im := New(svc, quiet)
	im.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- im.Watch(ctx, dir) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "watched.md"), "---\ntitle: Watched\n---\nhi")

	deadline := time.Now().Add(5 * time.Second)
	for svc.GetBlogPostBySlug(context.Background(), "watched") == nil {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("watched file never imported")
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch = %v", err)
	}
}
