package record

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps serialized collections as files under basePath, one
// directory per session.
type DiskStore struct {
	d *diskv.Diskv
}

func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	b, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (s *DiskStore) Put(_ context.Context, key string, data []byte) error {
	return s.d.Write(key, data)
}

// keyToPathTransform maps "<session>:<storageKey>" to <session>/<storageKey>.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, ":")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), ":")
}
