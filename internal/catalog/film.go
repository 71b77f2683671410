package catalog

import (
	"context"
	"strings"

	"journalapi/internal/entity"
	"journalapi/internal/platform/kmdb"
	"journalapi/internal/platform/kofic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type movieSource interface {
	Configured() bool
	SearchMovies(ctx context.Context, title string, limit int) ([]kofic.Movie, error)
}

type posterSource interface {
	Configured() bool
	SearchByTitle(ctx context.Context, title string) ([]kmdb.Film, error)
}

// FilmSearcher searches KOFIC and backfills posters from KMDb.
type FilmSearcher struct {
	movies      movieSource
	posters     posterSource
	concurrency int
	log         *zap.Logger
}

func NewFilmSearcher(movies movieSource, posters posterSource, concurrency int, log *zap.Logger) *FilmSearcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FilmSearcher{movies: movies, posters: posters, concurrency: concurrency, log: log}
}

func (s *FilmSearcher) Search(ctx context.Context, query string) []entity.CatalogItem {
	if strings.TrimSpace(query) == "" {
		return []entity.CatalogItem{}
	}
	if !s.movies.Configured() {
		s.log.Warn("film search skipped: KOFIC key missing", zap.String("query", query))
		return []entity.CatalogItem{}
	}

	movies, err := s.movies.SearchMovies(ctx, query, ResultLimit)
	if err != nil {
		s.log.Error("film search failed", zap.String("domain", string(entity.DomainFilm)), zap.String("query", query), zap.Error(err))
		return []entity.CatalogItem{}
	}

	items := make([]entity.CatalogItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, movieItem(m))
	}

	if s.posters != nil && s.posters.Configured() {
		s.backfillPosters(ctx, items)
	}
	return items
}

func movieItem(m kofic.Movie) entity.CatalogItem {
	directors := make([]string, 0, len(m.Directors))
	for _, d := range m.Directors {
		if name := strings.TrimSpace(d.PeopleNm); name != "" {
			directors = append(directors, name)
		}
	}
	return entity.CatalogItem{
		ExternalID:   m.MovieCd,
		Title:        m.MovieNm,
		SubtitleInfo: entity.JoinInfo(m.PrdtYear, strings.Join(directors, ", "), m.TypeNm, m.RepGenreNm),
		Year:         m.Year(),
	}
}

// backfillPosters looks every item up concurrently. Each goroutine owns one
// index, and a failed lookup leaves that item without an image.
func (s *FilmSearcher) backfillPosters(ctx context.Context, items []entity.CatalogItem) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range items {
		g.Go(func() error {
			films, err := s.posters.SearchByTitle(gctx, items[i].Title)
			if err != nil {
				s.log.Warn("poster lookup failed", zap.String("title", items[i].Title), zap.Error(err))
				return nil
			}
			items[i].ImageURL = MatchPoster(films, items[i].Title, items[i].Year)
			return nil
		})
	}
	_ = g.Wait()
}

// MatchPoster prefers a result produced within a year of year, then one whose
// normalized title equals title. Results without a poster are ignored.
func MatchPoster(films []kmdb.Film, title string, year int) string {
	if year > 0 {
		for _, f := range films {
			if f.Year > 0 && abs(f.Year-year) <= 1 && f.Poster() != "" {
				return f.Poster()
			}
		}
	}
	want := kmdb.NormalizeTitle(title)
	for _, f := range films {
		if f.Title == want && f.Poster() != "" {
			return f.Poster()
		}
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
