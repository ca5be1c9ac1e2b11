package content

import (
	"regexp"
	"strings"

	"github.com/aniekan-akpan/theblog/internal/model"
)

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify lowercases title, drops anything but letters, digits, spaces and
// dashes, and joins the words with single dashes.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugDashes.ReplaceAllString(s, "-")
}

// TagsFromPosts collects the distinct tags of posts. Tags that slugify to
// the same id are merged and the first spelling wins.
func TagsFromPosts(posts []model.BlogPost) []model.Tag {
	seen := map[string]bool{}
	tags := []model.Tag{}
	for _, p := range posts {
		for _, name := range p.Tags {
			if name == "" {
				continue
			}
			id := Slugify(name)
			if seen[id] {
				continue
			}
			seen[id] = true
			tags = append(tags, model.Tag{Name: name, ID: id})
		}
	}
	return tags
}

// PostsByTag filters posts to those carrying a tag whose slug is tagID.
func PostsByTag(posts []model.BlogPost, tagID string) []model.BlogPost {
	out := []model.BlogPost{}
	for _, p := range posts {
		for _, name := range p.Tags {
			if Slugify(name) == tagID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
