package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"journalapi/internal/entity"
)

// BlobStore keeps one serialized collection per key. Get returns nil, nil
// for a key that was never written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// BlobRepo implements Repository as read-modify-write over whole serialized
// lists. Writers to the same key are serialized in-process.
type BlobRepo struct {
	store BlobStore
	locks keyLocks
}

func NewBlobRepo(store BlobStore) *BlobRepo {
	return &BlobRepo{store: store, locks: keyLocks{locks: make(map[string]*keyLock)}}
}

func (r *BlobRepo) read(ctx context.Context, key string) ([]entity.Record, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) == 0 {
		return []entity.Record{}, nil
	}
	var recs []entity.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	if recs == nil {
		recs = []entity.Record{}
	}
	return recs, nil
}

func (r *BlobRepo) write(ctx context.Context, key string, recs []entity.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *BlobRepo) Append(ctx context.Context, key Key, rec entity.Record) error {
	k := key.String()
	unlock := r.locks.lock(k)
	defer unlock()

	recs, err := r.read(ctx, k)
	if err != nil {
		return err
	}
	return r.write(ctx, k, append(recs, rec))
}

func (r *BlobRepo) ListAll(ctx context.Context, key Key) ([]entity.Record, error) {
	return r.read(ctx, key.String())
}

func (r *BlobRepo) FindByID(ctx context.Context, key Key, id int64) (entity.Record, error) {
	recs, err := r.read(ctx, key.String())
	if err != nil {
		return entity.Record{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return entity.Record{}, ErrNotFound
}

func (r *BlobRepo) Remove(ctx context.Context, key Key, id int64) error {
	k := key.String()
	unlock := r.locks.lock(k)
	defer unlock()

	recs, err := r.read(ctx, k)
	if err != nil {
		return err
	}
	kept := make([]entity.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return ErrNotFound
	}
	return r.write(ctx, k, kept)
}

type keyLock struct {
	sync.Mutex
	refs int
}

// keyLocks hands out one mutex per key and forgets it once unused.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
