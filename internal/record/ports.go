package record

import (
	"context"

	"journalapi/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=record

// Repository defines the contract for record storage.
type Repository interface {
	Append(ctx context.Context, key Key, rec entity.Record) error
	ListAll(ctx context.Context, key Key) ([]entity.Record, error)
	FindByID(ctx context.Context, key Key, id int64) (entity.Record, error)
	Remove(ctx context.Context, key Key, id int64) error
}
