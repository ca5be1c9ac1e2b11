// Package content is the site's data-access layer. It queries the CMS,
// normalizes the answers into view models and never lets an error escape:
// reads fall back to an empty value, mutations report success as a bool.
package content

import (
	"context"
	"log"

	"github.com/aniekan-akpan/theblog/internal/normalize"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

// Service reads and writes site content through one CMS client.
type Service struct {
	client *strapi.Client
	norm   normalize.Normalizer
	log    *log.Logger
}

func New(client *strapi.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		client: client,
		norm:   normalize.New(client.BaseURL()),
		log:    logger,
	}
}

// soft runs fn and substitutes fallback when it fails. It is the single
// recovery policy of the package.
func soft[T any](s *Service, what string, fallback T, fn func() (T, error)) T {
	v, err := fn()
	if err != nil {
		s.log.Printf("Error %s: %v", what, err)
		return fallback
	}
	return v
}

func mapAll[W, V any](items []W, f func(W) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

func find[T any](ctx context.Context, s *Service, endpoint string, q *strapi.Query) (strapi.Response[T], error) {
	return strapi.Find[T](ctx, s.client, endpoint, q)
}
