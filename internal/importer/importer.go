// Package importer loads markdown posts with YAML frontmatter into the CMS.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

// PostStore is where imported posts end up.
type PostStore interface {
	FindBlogPostBySlug(ctx context.Context, slug string) (*strapi.BlogPost, error)
	SaveBlogPost(ctx context.Context, documentID string, fields map[string]any) (string, error)
}

// Post is a parsed markdown file.
type Post struct {
	Title       string
	Slug        string
	Description string
	PubDate     time.Time
	Author      string
	Tags        []string
	Draft       bool
	Body        string
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	PubDate     string   `yaml:"pubDate"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Result counts what an import did.
type Result struct {
	Created int
	Updated int
	Failed  []string
}

type Importer struct {
	store    PostStore
	log      *log.Logger
	debounce time.Duration
}

func New(store PostStore, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{store: store, log: logger, debounce: 500 * time.Millisecond}
}

// Parse reads one markdown file. A file without usable frontmatter is taken
// as pure markdown; the title then comes from the file name.
func Parse(name string, src []byte) Post {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		body = src
		fm = frontMatter{}
	}

	p := Post{
		Title:       fm.Title,
		Slug:        fm.Slug,
		Description: fm.Description,
		Author:      fm.Author,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Body:        strings.TrimSpace(string(body)),
	}
	if p.Title == "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
		p.Title = cases.Title(language.English).String(base)
	}
	if p.Slug == "" {
		p.Slug = content.Slugify(p.Title)
	}
	date := fm.PubDate
	if date == "" {
		date = fm.Date
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, date); err == nil {
			p.PubDate = t
			break
		}
	}
	return p
}

// fields is the full document of p. Every field is sent so that removing
// one from the frontmatter clears it on re-import.
func (p Post) fields() map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	var pubDate any
	if !p.PubDate.IsZero() {
		pubDate = p.PubDate.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return map[string]any{
		"title":       p.Title,
		"slug":        p.Slug,
		"description": p.Description,
		"author":      p.Author,
		"tags":        tags,
		"pubDate":     pubDate,
		"draft":       p.Draft,
		"body":        p.Body,
	}
}

// ImportFile upserts the post in path by slug and reports whether it was
// created.
func (im *Importer) ImportFile(ctx context.Context, path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	p := Parse(path, src)
	if p.Slug == "" {
		return false, fmt.Errorf("no slug for '%s'", path)
	}
	existing, err := im.store.FindBlogPostBySlug(ctx, p.Slug)
	if err != nil {
		return false, err
	}
	var id string
	if existing != nil {
		id = existing.DocumentID
	}
	if _, err := im.store.SaveBlogPost(ctx, id, p.fields()); err != nil {
		return false, fmt.Errorf("importing '%s': %w", path, err)
	}
	return existing == nil, nil
}

// ImportDir imports every .md file under dir. Files that fail are logged
// and listed in the result; only a failing walk is an error.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Result, error) {
	var res Result
	if _, err := os.Stat(dir); err != nil {
		return res, fmt.Errorf("content directory '%s': %w", dir, err)
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		created, err := im.ImportFile(ctx, path)
		switch {
		case err != nil:
			im.log.Printf("Error importing %s: %v", path, err)
			res.Failed = append(res.Failed, path)
		case created:
			im.log.Printf("Created post from %s", path)
			res.Created++
		default:
			im.log.Printf("Updated post from %s", path)
			res.Updated++
		}
		return nil
	})
	return res, err
}
