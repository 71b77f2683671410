package composer

import (
	"context"
	"errors"
	"testing"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/record"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockGenerator struct {
	mock.Mock
	configured bool
}

func (m *mockGenerator) Configured() bool { return m.configured }

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var (
	bookSelection = entity.Selection{
		Domain: entity.DomainBook,
		Item: entity.CatalogItem{
			ExternalID:   "8937460440",
			Title:        "데미안",
			SubtitleInfo: "헤르만 헤세 | 민음사 | 2000-12-20",
			Author:       "헤르만 헤세",
			ImageURL:     "https://image.aladin.co.kr/demian.jpg",
		},
		ConsumedOn: entity.NewDate(2024, 5, 1),
	}
	filmSelection = entity.Selection{
		Domain: entity.DomainFilm,
		Item: entity.CatalogItem{
			ExternalID:   "20112207",
			Title:        "기생충",
			SubtitleInfo: "2019 | 봉준호 | 장편 | 드라마",
		},
		ConsumedOn: entity.NewDate(2024, 12, 25),
	}
)

type fixture struct {
	svc        *Service
	repo       *record.MockRepository
	summarizer *mockGenerator
	rewriter   *mockGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)
	records := record.NewService(repo, record.NewIDGenerator(), zap.NewNop())
	f := &fixture{
		repo:       repo,
		summarizer: &mockGenerator{configured: true},
		rewriter:   &mockGenerator{configured: true},
	}
	f.svc = NewService(records, f.summarizer, f.rewriter, 0, zap.NewNop())
	return f
}

func TestDraftFromSelection(t *testing.T) {
	d := DraftFromSelection(bookSelection)
	assert.Equal(t, entity.DomainBook, d.Domain)
	assert.Equal(t, "데미안", d.SubjectTitle)
	assert.Equal(t, "헤르만 헤세 | 민음사 | 2000-12-20", d.SubjectInfo)
	assert.Equal(t, "헤르만 헤세", d.Author)
	assert.Equal(t, "2024년 5월 1일", d.ConsumedOnLabel)
	assert.Equal(t, "https://image.aladin.co.kr/demian.jpg", d.CoverImageURL)
	assert.True(t, d.Valid())
}

func TestCurrent_InvalidAccess(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Current("s1", entity.DomainFilm)
	assert.ErrorIs(t, err, ErrInvalidAccess)

	f.svc.Begin("s1", entity.Selection{Domain: entity.DomainFilm, Item: entity.CatalogItem{Title: "제목"}})
	_, err = f.svc.Current("s1", entity.DomainFilm)
	assert.ErrorIs(t, err, ErrInvalidAccess, "missing date label and info")
}

func TestCurrent_ScopedBySessionAndDomain(t *testing.T) {
	f := newFixture(t)
	f.svc.Begin("s1", filmSelection)

	d, err := f.svc.Current("s1", entity.DomainFilm)
	require.NoError(t, err)
	assert.Equal(t, "기생충", d.SubjectTitle)

	_, err = f.svc.Current("s1", entity.DomainBook)
	assert.ErrorIs(t, err, ErrInvalidAccess)
	_, err = f.svc.Current("s2", entity.DomainFilm)
	assert.ErrorIs(t, err, ErrInvalidAccess)
}

func TestSubmit(t *testing.T) {
	t.Run("saves with draft fields and clears the draft", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", bookSelection)

		f.repo.EXPECT().Append(gomock.Any(), record.NewKey("s1", entity.DomainBook), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ record.Key, r entity.Record) error {
				assert.NotZero(t, r.ID)
				assert.Equal(t, "성장", r.Title)
				assert.Equal(t, "알을 깨고 나오는 이야기", r.Body)
				assert.Equal(t, "데미안", r.SubjectTitle)
				assert.Equal(t, "2024년 5월 1일", r.ConsumedOnLabel)
				assert.Equal(t, "https://image.aladin.co.kr/demian.jpg", r.CoverImageURL)
				return nil
			})

		rec, err := f.svc.Submit(context.Background(), "s1", entity.DomainBook, "성장", "알을 깨고 나오는 이야기")
		require.NoError(t, err)
		assert.NotZero(t, rec.ID)

		_, err = f.svc.Current("s1", entity.DomainBook)
		assert.ErrorIs(t, err, ErrInvalidAccess)
	})

	t.Run("blank title or body is rejected without saving", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)

		_, err := f.svc.Submit(context.Background(), "s1", entity.DomainFilm, "  ", "body")
		assert.ErrorIs(t, err, ErrIncomplete)
		_, err = f.svc.Submit(context.Background(), "s1", entity.DomainFilm, "title", "\n")
		assert.ErrorIs(t, err, ErrIncomplete)

		_, err = f.svc.Current("s1", entity.DomainFilm)
		assert.NoError(t, err, "draft survives a rejected submit")
	})

	t.Run("store failure keeps the draft", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)
		f.repo.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(record.ErrMalformed)

		_, err := f.svc.Submit(context.Background(), "s1", entity.DomainFilm, "t", "b")
		assert.ErrorIs(t, err, record.ErrMalformed)
		_, err = f.svc.Current("s1", entity.DomainFilm)
		assert.NoError(t, err)
	})

	t.Run("without a draft", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Submit(context.Background(), "s1", entity.DomainFilm, "t", "b")
		assert.ErrorIs(t, err, ErrInvalidAccess)
	})
}

func TestFetchDescription(t *testing.T) {
	t.Run("book prompt carries author and title", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", bookSelection)
		f.summarizer.On("Generate", mock.Anything, "'헤르만 헤세' 쓴 '데미안'의 줄거리와 핵심 내용을 요약해서 알려줘").
			Return("싱클레어의 성장기", nil)

		text, err := f.svc.FetchDescription(context.Background(), "s1", entity.DomainBook)
		require.NoError(t, err)
		assert.Equal(t, "싱클레어의 성장기", text)

		d, _ := f.svc.Current("s1", entity.DomainBook)
		assert.Equal(t, "싱클레어의 성장기", d.Description)
		f.summarizer.AssertExpectations(t)
	})

	t.Run("book without author is named by title", func(t *testing.T) {
		f := newFixture(t)
		sel := bookSelection
		sel.Item.Author = ""
		f.svc.Begin("s1", sel)
		f.summarizer.On("Generate", mock.Anything, "책 '데미안'의 줄거리와 핵심 내용을 요약해서 알려줘").
			Return("요약", nil)

		_, err := f.svc.FetchDescription(context.Background(), "s1", entity.DomainBook)
		require.NoError(t, err)
		f.summarizer.AssertExpectations(t)
	})

	t.Run("upstream failure becomes inline text", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)
		f.summarizer.On("Generate", mock.Anything, "영화 '기생충' 줄거리 알려줘").Return("", errors.New("503"))

		text, err := f.svc.FetchDescription(context.Background(), "s1", entity.DomainFilm)
		require.NoError(t, err)
		assert.Equal(t, "줄거리를 불러오는 중 오류가 발생했습니다.", text)
	})

	t.Run("not configured makes no call", func(t *testing.T) {
		f := newFixture(t)
		f.summarizer.configured = false
		f.svc.Begin("s1", filmSelection)

		_, err := f.svc.FetchDescription(context.Background(), "s1", entity.DomainFilm)
		assert.ErrorIs(t, err, ErrNotConfigured)
		f.summarizer.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestRefine(t *testing.T) {
	t.Run("stages then applies", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)
		f.rewriter.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return assert.Contains(t, p, "기생충") && assert.Contains(t, p, "재밌었다")
		})).Return("깊은 여운이 남았다", nil)

		staged, err := f.svc.Refine(context.Background(), "s1", entity.DomainFilm, "재밌었다")
		require.NoError(t, err)
		assert.Equal(t, "깊은 여운이 남았다", staged)

		d, _ := f.svc.Current("s1", entity.DomainFilm)
		require.NotNil(t, d.StagedRewrite)

		body, err := f.svc.ApplyRefinement("s1", entity.DomainFilm)
		require.NoError(t, err)
		assert.Equal(t, "깊은 여운이 남았다", body)

		_, err = f.svc.ApplyRefinement("s1", entity.DomainFilm)
		assert.ErrorIs(t, err, ErrNothingStaged)
	})

	t.Run("cancel drops the staged text", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", bookSelection)
		f.rewriter.On("Generate", mock.Anything, mock.Anything).Return("다듬은 글", nil)

		_, err := f.svc.Refine(context.Background(), "s1", entity.DomainBook, "원래 글")
		require.NoError(t, err)
		require.NoError(t, f.svc.CancelRefinement("s1", entity.DomainBook))

		_, err = f.svc.ApplyRefinement("s1", entity.DomainBook)
		assert.ErrorIs(t, err, ErrNothingStaged)
	})

	t.Run("blank body", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)
		_, err := f.svc.Refine(context.Background(), "s1", entity.DomainFilm, "   ")
		assert.ErrorIs(t, err, ErrEmptyBody)
		f.rewriter.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t)
		f.rewriter.configured = false
		f.svc.Begin("s1", filmSelection)
		_, err := f.svc.Refine(context.Background(), "s1", entity.DomainFilm, "글")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Begin("s1", filmSelection)
		f.rewriter.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

		_, err := f.svc.Refine(context.Background(), "s1", entity.DomainFilm, "글")
		assert.ErrorIs(t, err, ErrUnavailable)
		d, _ := f.svc.Current("s1", entity.DomainFilm)
		assert.Nil(t, d.StagedRewrite)
	})
}

func TestDiscard(t *testing.T) {
	f := newFixture(t)
	f.svc.Begin("s1", filmSelection)
	f.svc.Discard("s1", entity.DomainFilm)
	_, err := f.svc.Current("s1", entity.DomainFilm)
	assert.ErrorIs(t, err, ErrInvalidAccess)
}

func TestRewritePrompt_Author(t *testing.T) {
	d := DraftFromSelection(bookSelection)
	assert.Contains(t, rewritePrompt(&d, "본문"), "책 '헤르만 헤세' 의 '데미안'에 대한")

	d.Author = " "
	p := rewritePrompt(&d, "본문")
	assert.Contains(t, p, "책 '데미안'에 대한")
	assert.NotContains(t, p, "''")
}

func TestEvictIdle(t *testing.T) {
	f := newFixture(t)
	f.svc.idle = time.Hour
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	f.svc.Begin("old", filmSelection)
	now = now.Add(90 * time.Minute)
	f.svc.Begin("fresh", filmSelection)

	assert.Equal(t, 1, f.svc.evictIdle(now))
	_, err := f.svc.Current("old", entity.DomainFilm)
	assert.ErrorIs(t, err, ErrInvalidAccess)
	_, err = f.svc.Current("fresh", entity.DomainFilm)
	assert.NoError(t, err)
}

func TestEvictIdle_UseKeepsDraft(t *testing.T) {
	f := newFixture(t)
	f.svc.idle = time.Hour
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	f.svc.Begin("s1", bookSelection)
	now = now.Add(50 * time.Minute)
	_, err := f.svc.Current("s1", entity.DomainBook)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	assert.Zero(t, f.svc.evictIdle(now))
	_, err = f.svc.Current("s1", entity.DomainBook)
	assert.NoError(t, err)
}

func TestService_StopEndsCleanup(t *testing.T) {
	svc := NewService(nil, nil, nil, time.Millisecond, zap.NewNop())
	svc.Begin("s1", filmSelection)
	assert.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.drafts) == 0
	}, time.Second, 2*time.Millisecond)
	svc.Stop()
	svc.Stop()
}
