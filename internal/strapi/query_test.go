package strapi

import "testing"

func TestQueryConventions(t *testing.T) {
	q := NewQuery().
		Populate("*").
		Eq("blog_post.documentId", "post-1").
		Eq("approved", true).
		Contains("tags", "go").
		Sort("order:asc", "createdAt:desc").
		Page(2, 9).
		Set("sessionId", "session_1")

	v := q.Values()
	cases := map[string]string{
		"populate":                         "*",
		"filters[blog_post][documentId][$eq]": "post-1",
		"filters[approved][$eq]":           "true",
		"filters[tags][$contains]":         "go",
		"sort":                             "order:asc,createdAt:desc",
		"pagination[page]":                 "2",
		"pagination[pageSize]":             "9",
		"sessionId":                        "session_1",
	}
	for key, want := range cases {
		if got := v.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestNilQueryIsEmpty(t *testing.T) {
	var q *Query
	if len(q.Values()) != 0 {
		t.Error("nil query should have no values")
	}
}

func TestValuesIsACopy(t *testing.T) {
	q := NewQuery().Eq("slug", "a")
	v := q.Values()
	v.Set("filters[slug][$eq]", "b")
	if got := q.Values().Get("filters[slug][$eq]"); got != "a" {
		t.Errorf("query mutated through Values: %q", got)
	}
}
