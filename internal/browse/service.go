package browse

import (
	"context"
	"fmt"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/record"
)

// RecordReader is the slice of the record service the views read through.
type RecordReader interface {
	All(ctx context.Context, key record.Key) ([]entity.Record, error)
}

type Service struct {
	records RecordReader
	now     func() time.Time
}

func NewService(records RecordReader) *Service {
	return &Service{records: records, now: time.Now}
}

// Today is the local calendar date used for the "today" highlight.
func (s *Service) Today() entity.Date {
	return entity.DateOf(s.now())
}

func (s *Service) Calendar(ctx context.Context, key record.Key, m MonthRef) (Calendar, error) {
	recs, err := s.records.All(ctx, key)
	if err != nil {
		return Calendar{}, fmt.Errorf("calendar %s: %w", key.Domain, err)
	}
	return BuildCalendar(m, recs, s.Today()), nil
}

// ClickDay resolves a click on the given day of the displayed month.
func (s *Service) ClickDay(ctx context.Context, key record.Key, date entity.Date, click, container Point) (ClickOutcome, error) {
	recs, err := s.records.All(ctx, key)
	if err != nil {
		return ClickOutcome{}, fmt.Errorf("calendar click %s: %w", key.Domain, err)
	}
	label := date.Label()
	var onDay []entity.Record
	for _, r := range recs {
		if r.ConsumedOnLabel == label {
			onDay = append(onDay, r)
		}
	}
	return Click(key.Domain, onDay, click, container), nil
}

func (s *Service) Stats(ctx context.Context, sessionID string) (Stats, error) {
	films, err := s.records.All(ctx, record.NewKey(sessionID, entity.DomainFilm))
	if err != nil {
		return Stats{}, fmt.Errorf("stats films: %w", err)
	}
	books, err := s.records.All(ctx, record.NewKey(sessionID, entity.DomainBook))
	if err != nil {
		return Stats{}, fmt.Errorf("stats books: %w", err)
	}
	return BuildStats(films, books), nil
}
