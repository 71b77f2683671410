// Package composer holds the review being written for a confirmed selection
// and the optional generated summary and rewrite.
package composer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/record"

	"go.uber.org/zap"
)

var (
	ErrInvalidAccess = errors.New("composer opened without a confirmed selection")
	ErrIncomplete    = errors.New("title and body are both required")
	ErrEmptyBody     = errors.New("body is empty")
	ErrNotConfigured = errors.New("text generation is not configured")
	ErrUnavailable   = errors.New("text generation is unavailable")
	ErrNothingStaged = errors.New("no rewrite is staged")
)

// Generator turns a prompt into prose.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// RecordCreator persists a finished review, assigning its id.
type RecordCreator interface {
	Create(ctx context.Context, key record.Key, rec entity.Record) (entity.Record, error)
}

// Draft is the navigation payload handed over by the selection flow plus
// whatever the composer has fetched for it.
type Draft struct {
	Domain          entity.Domain `json:"domain"`
	SubjectTitle    string        `json:"subject_title"`
	SubjectInfo     string        `json:"subject_info"`
	Author          string        `json:"author,omitempty"`
	ConsumedOnLabel string        `json:"consumed_on_label"`
	CoverImageURL   string        `json:"cover_image_url,omitempty"`
	Description     string        `json:"description,omitempty"`
	StagedRewrite   *string       `json:"staged_rewrite,omitempty"`

	touched time.Time
}

// Valid reports whether the draft carries everything the composer needs.
func (d *Draft) Valid() bool {
	return d != nil &&
		strings.TrimSpace(d.SubjectTitle) != "" &&
		strings.TrimSpace(d.ConsumedOnLabel) != "" &&
		strings.TrimSpace(d.SubjectInfo) != ""
}

// DraftFromSelection fixes the date label at handoff time.
func DraftFromSelection(sel entity.Selection) Draft {
	return Draft{
		Domain:          sel.Domain,
		SubjectTitle:    sel.Item.Title,
		SubjectInfo:     sel.Item.SubtitleInfo,
		Author:          sel.Item.Author,
		ConsumedOnLabel: sel.ConsumedOn.Label(),
		CoverImageURL:   sel.Item.ImageURL,
	}
}

type draftKey struct {
	session string
	domain  entity.Domain
}

// Service keeps one draft per (session, domain). Drafts untouched for longer
// than idle are evicted; idle <= 0 keeps them until submit or discard.
type Service struct {
	mu         sync.Mutex
	drafts     map[draftKey]*Draft
	records    RecordCreator
	summarizer Generator
	rewriter   Generator
	idle       time.Duration
	now        func() time.Time
	log        *zap.Logger
	done       chan struct{}
	stopOnce   sync.Once
}

func NewService(records RecordCreator, summarizer, rewriter Generator, idle time.Duration, log *zap.Logger) *Service {
	s := &Service{
		drafts:     make(map[draftKey]*Draft),
		records:    records,
		summarizer: summarizer,
		rewriter:   rewriter,
		idle:       idle,
		now:        time.Now,
		log:        log,
		done:       make(chan struct{}),
	}
	if idle > 0 {
		go s.cleanupDrafts()
	}
	return s
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Service) cleanupDrafts() {
	ticker := time.NewTicker(s.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evictIdle(now)
		}
	}
}

func (s *Service) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for k, d := range s.drafts {
		if now.Sub(d.touched) > s.idle {
			delete(s.drafts, k)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Debug("evicted idle drafts", zap.Int("count", evicted))
	}
	return evicted
}

// Begin stores the selection as the session's draft, replacing any earlier one.
func (s *Service) Begin(sessionID string, sel entity.Selection) {
	d := DraftFromSelection(sel)
	s.mu.Lock()
	defer s.mu.Unlock()
	d.touched = s.now()
	s.drafts[draftKey{sessionID, sel.Domain}] = &d
}

// draft marks the current draft as used and returns a copy. Callers hold mu.
func (s *Service) draft(sessionID string, domain entity.Domain) (Draft, error) {
	d, ok := s.drafts[draftKey{sessionID, domain}]
	if !ok || !d.Valid() {
		return Draft{}, ErrInvalidAccess
	}
	d.touched = s.now()
	out := *d
	if d.StagedRewrite != nil {
		staged := *d.StagedRewrite
		out.StagedRewrite = &staged
	}
	return out, nil
}

func (s *Service) Current(sessionID string, domain entity.Domain) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft(sessionID, domain)
}

// Submit saves the review and clears the draft.
func (s *Service) Submit(ctx context.Context, sessionID string, domain entity.Domain, title, body string) (entity.Record, error) {
	s.mu.Lock()
	d, err := s.draft(sessionID, domain)
	s.mu.Unlock()
	if err != nil {
		return entity.Record{}, err
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return entity.Record{}, ErrIncomplete
	}

	rec, err := s.records.Create(ctx, record.NewKey(sessionID, domain), entity.Record{
		Title:           title,
		Body:            body,
		SubjectTitle:    d.SubjectTitle,
		SubjectInfo:     d.SubjectInfo,
		ConsumedOnLabel: d.ConsumedOnLabel,
		CoverImageURL:   d.CoverImageURL,
	})
	if err != nil {
		return entity.Record{}, err
	}

	s.Discard(sessionID, domain)
	return rec, nil
}

// Discard drops the draft and any staged rewrite.
func (s *Service) Discard(sessionID string, domain entity.Domain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftKey{sessionID, domain})
}

// FetchDescription asks for a summary of the subject. An upstream failure is
// reported as an inline message in place of the summary, not as an error.
func (s *Service) FetchDescription(ctx context.Context, sessionID string, domain entity.Domain) (string, error) {
	d, err := s.Current(sessionID, domain)
	if err != nil {
		return "", err
	}
	if s.summarizer == nil || !s.summarizer.Configured() {
		return "", ErrNotConfigured
	}

	text, err := s.summarizer.Generate(ctx, summaryPrompt(&d))
	if err != nil {
		s.log.Error("description generation failed",
			zap.String("domain", string(domain)), zap.String("subject", d.SubjectTitle), zap.Error(err))
		text = descriptionFailed(domain)
	}

	s.mu.Lock()
	if cur, ok := s.drafts[draftKey{sessionID, domain}]; ok {
		cur.Description = text
	}
	s.mu.Unlock()
	return text, nil
}

// Refine stages a rewrite of body. Nothing changes until ApplyRefinement.
func (s *Service) Refine(ctx context.Context, sessionID string, domain entity.Domain, body string) (string, error) {
	d, err := s.Current(sessionID, domain)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyBody
	}
	if s.rewriter == nil || !s.rewriter.Configured() {
		return "", ErrNotConfigured
	}

	text, err := s.rewriter.Generate(ctx, rewritePrompt(&d, body))
	if err != nil {
		s.log.Error("rewrite generation failed",
			zap.String("domain", string(domain)), zap.String("subject", d.SubjectTitle), zap.Error(err))
		return "", errors.Join(ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drafts[draftKey{sessionID, domain}]
	if !ok {
		return "", ErrInvalidAccess
	}
	cur.StagedRewrite = &text
	return text, nil
}

// ApplyRefinement returns the staged rewrite, which becomes the new body,
// and clears it.
func (s *Service) ApplyRefinement(sessionID string, domain entity.Domain) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.draft(sessionID, domain); err != nil {
		return "", err
	}
	cur := s.drafts[draftKey{sessionID, domain}]
	if cur.StagedRewrite == nil {
		return "", ErrNothingStaged
	}
	text := *cur.StagedRewrite
	cur.StagedRewrite = nil
	return text, nil
}

// CancelRefinement discards the staged rewrite, if any.
func (s *Service) CancelRefinement(sessionID string, domain entity.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.draft(sessionID, domain); err != nil {
		return err
	}
	s.drafts[draftKey{sessionID, domain}].StagedRewrite = nil
	return nil
}
