package catalog

import (
	"context"
	"strconv"
	"strings"

	"journalapi/internal/entity"
	"journalapi/internal/platform/aladin"
	"journalapi/internal/platform/openlibrary"

	"go.uber.org/zap"
)

type bookSource interface {
	Configured() bool
	SearchBooks(ctx context.Context, title string, limit int) ([]aladin.Item, error)
}

type openLibrarySource interface {
	SearchByTitle(ctx context.Context, title string, limit int) (*openlibrary.SearchResponse, error)
}

// BookSearcher searches Aladin, or Open Library when no Aladin key is set.
type BookSearcher struct {
	aladin   bookSource
	fallback openLibrarySource
	log      *zap.Logger
}

func NewBookSearcher(primary bookSource, fallback openLibrarySource, log *zap.Logger) *BookSearcher {
	return &BookSearcher{aladin: primary, fallback: fallback, log: log}
}

func (s *BookSearcher) Search(ctx context.Context, query string) []entity.CatalogItem {
	if strings.TrimSpace(query) == "" {
		return []entity.CatalogItem{}
	}
	if s.aladin != nil && s.aladin.Configured() {
		return s.searchAladin(ctx, query)
	}
	if s.fallback != nil {
		return s.searchOpenLibrary(ctx, query)
	}
	s.log.Warn("book search skipped: no catalog configured", zap.String("query", query))
	return []entity.CatalogItem{}
}

func (s *BookSearcher) searchAladin(ctx context.Context, query string) []entity.CatalogItem {
	books, err := s.aladin.SearchBooks(ctx, query, ResultLimit)
	if err != nil {
		s.log.Error("book search failed", zap.String("domain", string(entity.DomainBook)), zap.String("query", query), zap.Error(err))
		return []entity.CatalogItem{}
	}

	items := make([]entity.CatalogItem, 0, len(books))
	for _, b := range books {
		author := ParseAuthor(b.Author)
		items = append(items, entity.CatalogItem{
			ExternalID:   strconv.FormatInt(b.ItemID, 10),
			Title:        b.Title,
			SubtitleInfo: entity.JoinInfo(author, b.Publisher, b.PubDate),
			ImageURL:     b.Cover,
			Author:       author,
		})
	}
	return items
}

func (s *BookSearcher) searchOpenLibrary(ctx context.Context, query string) []entity.CatalogItem {
	res, err := s.fallback.SearchByTitle(ctx, query, ResultLimit)
	if err != nil {
		s.log.Error("book search failed", zap.String("domain", string(entity.DomainBook)), zap.String("query", query), zap.Error(err))
		return []entity.CatalogItem{}
	}

	items := make([]entity.CatalogItem, 0, len(res.Docs))
	for _, d := range res.Docs {
		author := strings.Join(d.AuthorNames, ", ")
		var publisher, year string
		if len(d.Publishers) > 0 {
			publisher = d.Publishers[0]
		}
		if d.FirstPublishYear > 0 {
			year = strconv.Itoa(d.FirstPublishYear)
		}
		items = append(items, entity.CatalogItem{
			ExternalID:   strings.TrimPrefix(d.Key, "/works/"),
			Title:        d.Title,
			SubtitleInfo: entity.JoinInfo(author, publisher, year),
			ImageURL:     openlibrary.CoverURL(d.CoverID),
			Author:       author,
			Year:         d.FirstPublishYear,
		})
	}
	return items
}

var authorTags = []string{"(지은이)", "(저자)"}

// ParseAuthor keeps the entries of a raw Aladin author list tagged as the
// writer, with the tag removed. Untagged lists fall back to their first entry.
func ParseAuthor(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	entries := strings.Split(raw, ",")

	var writers []string
	for _, e := range entries {
		for _, tag := range authorTags {
			if strings.Contains(e, tag) {
				writers = append(writers, strings.TrimSpace(strings.ReplaceAll(e, tag, "")))
				break
			}
		}
	}
	if len(writers) > 0 {
		return strings.Join(writers, ", ")
	}
	return strings.TrimSpace(entries[0])
}
