// Package record persists finished reviews, one collection per browser
// session and domain.
package record

import (
	"errors"
	"fmt"

	"journalapi/internal/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrMalformed = errors.New("stored collection is malformed")
)

// Key names one collection. Film and book collections never share records.
type Key struct {
	SessionID string
	Domain    entity.Domain
}

func NewKey(sessionID string, d entity.Domain) Key {
	return Key{SessionID: sessionID, Domain: d}
}

// String is the blob name, "<session>:<storageKey>".
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.SessionID, k.Domain.StorageKey())
}
