// Package catalog turns free-text queries into normalized CatalogItem lists
// backed by the external film and book catalogs.
package catalog

import (
	"context"
	"strings"

	"journalapi/internal/entity"
)

// ResultLimit caps every upstream query.
const ResultLimit = 10

// Searcher never fails: upstream errors are logged and yield an empty list.
type Searcher interface {
	Search(ctx context.Context, query string) []entity.CatalogItem
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) []entity.CatalogItem

func (f SearcherFunc) Search(ctx context.Context, query string) []entity.CatalogItem {
	return f(ctx, query)
}

type Service struct {
	searchers map[entity.Domain]Searcher
}

func NewService(film, book Searcher) *Service {
	return &Service{searchers: map[entity.Domain]Searcher{
		entity.DomainFilm: film,
		entity.DomainBook: book,
	}}
}

// Searcher returns the searcher for d, or nil for an unknown domain.
func (s *Service) Searcher(d entity.Domain) Searcher {
	return s.searchers[d]
}

// Search returns an empty list without calling upstream for a blank query.
func (s *Service) Search(ctx context.Context, d entity.Domain, query string) []entity.CatalogItem {
	sr, ok := s.searchers[d]
	if !ok || strings.TrimSpace(query) == "" {
		return []entity.CatalogItem{}
	}
	items := sr.Search(ctx, strings.TrimSpace(query))
	if items == nil {
		return []entity.CatalogItem{}
	}
	return items
}
