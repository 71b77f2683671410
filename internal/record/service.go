package record

import (
	"context"
	"errors"
	"sort"

	"journalapi/internal/entity"

	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	ids  *IDGenerator
	log  *zap.Logger
}

func NewService(repo Repository, ids *IDGenerator, log *zap.Logger) *Service {
	return &Service{repo: repo, ids: ids, log: log}
}

// Create assigns a fresh id and appends the record.
func (s *Service) Create(ctx context.Context, key Key, rec entity.Record) (entity.Record, error) {
	rec.ID = s.ids.Next()
	if err := s.repo.Append(ctx, key, rec); err != nil {
		return entity.Record{}, err
	}
	return rec, nil
}

// All returns the collection in insertion order. A malformed collection reads
// as empty.
func (s *Service) All(ctx context.Context, key Key) ([]entity.Record, error) {
	recs, err := s.repo.ListAll(ctx, key)
	if errors.Is(err, ErrMalformed) {
		s.log.Warn("treating malformed collection as empty",
			zap.String("domain", string(key.Domain)), zap.Error(err))
		return []entity.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// List returns the collection newest first (id descending).
func (s *Service) List(ctx context.Context, key Key) ([]entity.Record, error) {
	recs, err := s.All(ctx, key)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(recs)
	return recs, nil
}

func (s *Service) Get(ctx context.Context, key Key, id int64) (entity.Record, error) {
	return s.repo.FindByID(ctx, key, id)
}

func (s *Service) Delete(ctx context.Context, key Key, id int64) error {
	return s.repo.Remove(ctx, key, id)
}

// SortNewestFirst orders records by id descending, in place.
func SortNewestFirst(recs []entity.Record) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
}
