package record

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerator_MonotonicWithFrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := &IDGenerator{now: func() time.Time { return frozen }}

	assert.Equal(t, int64(1_700_000_000_000), g.Next())
	assert.Equal(t, int64(1_700_000_000_001), g.Next())
	assert.Equal(t, int64(1_700_000_000_002), g.Next())
}

func TestIDGenerator_UniqueUnderConcurrency(t *testing.T) {
	g := NewIDGenerator()
	const n = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestIDGenerator_TracksClock(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewIDGenerator().Next()
	assert.GreaterOrEqual(t, id, before)
}
