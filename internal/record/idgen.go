package record

import (
	"sync/atomic"
	"time"
)

// IDGenerator hands out creation-time ids in Unix milliseconds. When the
// clock has not advanced past the last id, the last id plus one is used, so
// ids are strictly increasing within the process.
type IDGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next() int64 {
	for {
		last := g.last.Load()
		id := g.now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		if g.last.CompareAndSwap(last, id) {
			return id
		}
	}
}
