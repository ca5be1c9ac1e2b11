package content

import (
	"sort"
	"time"

	"github.com/aniekan-akpan/theblog/internal/model"
)

var epoch = time.Unix(0, 0)

// SortByDateDesc orders items newest first. dates yields a primary and a
// fallback date; a zero time means the date is missing. Items without either
// date are compared as the Unix epoch, which puts them after dated items.
func SortByDateDesc[T any](items []T, dates func(T) (primary, fallback time.Time)) {
	key := func(it T) time.Time {
		primary, fallback := dates(it)
		switch {
		case !primary.IsZero():
			return primary
		case !fallback.IsZero():
			return fallback
		}
		return epoch
	}
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]).After(key(items[j]))
	})
}

// PostDates is the date accessor for blog posts.
func PostDates(p model.BlogPost) (time.Time, time.Time) {
	return p.PubDate, time.Time{}
}

// ProjectDates sorts projects by end date, falling back to start date.
func ProjectDates(p model.Project) (time.Time, time.Time) {
	var end, start time.Time
	if p.EndDate != nil {
		end = *p.EndDate
	}
	if p.StartDate != nil {
		start = *p.StartDate
	}
	return end, start
}

// PodcastDates is the date accessor for podcast episodes.
func PodcastDates(p model.Podcast) (time.Time, time.Time) {
	return p.PubDate, time.Time{}
}
