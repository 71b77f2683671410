// Package selection drives the search, pick-date, confirm dialog that leads
// to the review composer.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"journalapi/internal/catalog"
	"journalapi/internal/entity"

	"go.uber.org/zap"
)

var (
	ErrInvalidTransition = errors.New("invalid selection transition")
	ErrUnknownItem       = errors.New("item is not in the current results")
)

// Snapshot is a read-only view of a flow.
type Snapshot struct {
	Domain          entity.Domain        `json:"domain"`
	Stage           Stage                `json:"stage"`
	Query           string               `json:"query"`
	Results         []entity.CatalogItem `json:"results"`
	Loading         bool                 `json:"loading"`
	NoResults       bool                 `json:"no_results"`
	Item            *entity.CatalogItem  `json:"item,omitempty"`
	ConsumedOn      *entity.Date         `json:"consumed_on,omitempty"`
	ConsumedOnLabel string               `json:"consumed_on_label,omitempty"`
	CanProceed      bool                 `json:"can_proceed"`
}

// Flow is one dialog instance. Item is set only from date_picking on and
// date only in confirming, so confirming always has both.
type Flow struct {
	mu        sync.Mutex
	domain    entity.Domain
	searcher  catalog.Searcher
	debouncer *catalog.Debouncer
	log       *zap.Logger
	now       func() time.Time

	stage   Stage
	query   string
	settled string
	results []entity.CatalogItem
	loading bool
	item    *entity.CatalogItem
	date    *entity.Date
	touched time.Time
}

func NewFlow(domain entity.Domain, searcher catalog.Searcher, quiet time.Duration, log *zap.Logger) *Flow {
	f := &Flow{
		domain:    domain,
		searcher:  searcher,
		debouncer: catalog.NewDebouncer(quiet),
		log:       log,
		now:       time.Now,
	}
	f.touched = f.now()
	return f
}

// reset clears everything a close must not leave behind. Callers hold mu.
func (f *Flow) reset(stage Stage) {
	f.debouncer.Cancel()
	f.stage = stage
	f.query = ""
	f.settled = ""
	f.results = []entity.CatalogItem{}
	f.loading = false
	f.item = nil
	f.date = nil
}

func (f *Flow) touch() {
	f.touched = f.now()
}

func (f *Flow) markUsed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()
}

// Open starts a fresh dialog regardless of the current stage.
func (f *Flow) Open() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()
	f.reset(StageSearching)
	return f.snapshot()
}

// SetQuery records the input text and schedules a debounced search. A blank
// query clears results immediately without calling upstream.
func (f *Flow) SetQuery(q string) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.stage != StageSearching {
		return f.snapshot(), fmt.Errorf("%w: set query while %s", ErrInvalidTransition, f.stage)
	}

	f.query = q
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		f.debouncer.Cancel()
		f.results = []entity.CatalogItem{}
		f.settled = ""
		f.loading = false
		return f.snapshot(), nil
	}

	f.loading = true
	f.debouncer.Trigger(func(gen uint64) {
		f.runSearch(gen, trimmed)
	})
	return f.snapshot(), nil
}

// runSearch executes outside the lock. Its result is applied only if no newer
// input, close or pick has happened since it was scheduled.
func (f *Flow) runSearch(gen uint64, q string) {
	items := f.searcher.Search(context.Background(), q)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.debouncer.IsCurrent(gen) || f.stage != StageSearching {
		f.log.Debug("dropping stale search result", zap.String("domain", string(f.domain)), zap.String("query", q))
		return
	}
	if items == nil {
		items = []entity.CatalogItem{}
	}
	f.results = items
	f.settled = q
	f.loading = false
}

// Pick moves to date_picking with the chosen result.
func (f *Flow) Pick(externalID string) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.stage != StageSearching {
		return f.snapshot(), fmt.Errorf("%w: pick while %s", ErrInvalidTransition, f.stage)
	}
	for i := range f.results {
		if f.results[i].ExternalID == externalID {
			item := f.results[i]
			f.debouncer.Cancel()
			f.loading = false
			f.item = &item
			f.stage = StageDatePicking
			return f.snapshot(), nil
		}
	}
	return f.snapshot(), fmt.Errorf("%w: %q", ErrUnknownItem, externalID)
}

// PickDate moves to confirming. A nil date is a no-op.
func (f *Flow) PickDate(d *entity.Date) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.stage != StageDatePicking {
		return f.snapshot(), fmt.Errorf("%w: pick date while %s", ErrInvalidTransition, f.stage)
	}
	if d == nil || d.IsZero() {
		return f.snapshot(), nil
	}
	date := *d
	f.date = &date
	f.stage = StageConfirming
	return f.snapshot(), nil
}

// Back steps one stage towards searching, clearing what that stage chose.
func (f *Flow) Back() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	switch f.stage {
	case StageConfirming:
		f.date = nil
		f.stage = StageDatePicking
	case StageDatePicking:
		f.item = nil
		f.stage = StageSearching
	default:
		return f.snapshot(), fmt.Errorf("%w: back while %s", ErrInvalidTransition, f.stage)
	}
	return f.snapshot(), nil
}

// Close resets the flow from any stage and drops in-flight results.
func (f *Flow) Close() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()
	f.reset(StageClosed)
	return f.snapshot()
}

// Proceed hands out the completed selection and closes the flow.
func (f *Flow) Proceed() (entity.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.stage != StageConfirming || f.item == nil || f.date == nil {
		return entity.Selection{}, fmt.Errorf("%w: proceed while %s", ErrInvalidTransition, f.stage)
	}
	sel := entity.Selection{
		Domain:     f.domain,
		Item:       *f.item,
		ConsumedOn: *f.date,
	}
	f.reset(StageClosed)
	return sel, nil
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Flow) snapshot() Snapshot {
	s := Snapshot{
		Domain:  f.domain,
		Stage:   f.stage,
		Query:   f.query,
		Results: append([]entity.CatalogItem{}, f.results...),
		Loading: f.loading,
	}
	s.NoResults = f.stage == StageSearching && !f.loading && f.settled != "" && len(f.results) == 0
	if f.item != nil {
		item := *f.item
		s.Item = &item
	}
	if f.date != nil {
		d := *f.date
		s.ConsumedOn = &d
		s.ConsumedOnLabel = d.Label()
	}
	s.CanProceed = f.stage == StageConfirming
	return s
}

func (f *Flow) idleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}
