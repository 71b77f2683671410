package browse

import (
	"testing"
	"time"

	"journalapi/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int64, label, cover string) entity.Record {
	return entity.Record{ID: id, Title: "t", SubjectTitle: "s", ConsumedOnLabel: label, CoverImageURL: cover}
}

func TestMonthRef_PrevNext(t *testing.T) {
	assert.Equal(t, MonthRef{2023, time.December}, MonthRef{2024, time.January}.Prev())
	assert.Equal(t, MonthRef{2025, time.January}, MonthRef{2024, time.December}.Next())
	assert.Equal(t, MonthRef{2024, time.June}, MonthRef{2024, time.May}.Next())
	assert.Equal(t, "2024년 5월", MonthRef{2024, time.May}.Label())
}

func TestBuildCalendar(t *testing.T) {
	recs := []entity.Record{
		rec(1, "2024년 5월 1일", "a.jpg"),
		rec(2, "2024년 5월 1일", "b.jpg"),
		rec(3, "2024년 5월 20일", ""),
		rec(4, "2024년 6월 1일", "c.jpg"),
	}
	cal := BuildCalendar(MonthRef{2024, time.May}, recs, entity.NewDate(2024, 5, 20))

	assert.Equal(t, 3, cal.Leading, "May 1st 2024 is a Wednesday")
	require.Len(t, cal.Days, 31)
	assert.Equal(t, "2024년 5월", cal.Title)

	first := cal.Days[0]
	assert.Equal(t, "2024년 5월 1일", first.Label)
	assert.Len(t, first.Records, 2)
	assert.Equal(t, "a.jpg", first.CoverImageURL)
	assert.Equal(t, 1, first.Extra)
	assert.False(t, first.IsToday)

	twentieth := cal.Days[19]
	assert.True(t, twentieth.IsToday)
	assert.Len(t, twentieth.Records, 1)
	assert.Empty(t, twentieth.CoverImageURL)
	assert.Equal(t, "s", twentieth.CoverTitle)

	assert.NotNil(t, cal.Days[1].Records)
	assert.Empty(t, cal.Days[1].Records)

	assert.Equal(t, MonthRef{2024, time.April}, cal.Prev)
	assert.Equal(t, MonthRef{2024, time.June}, cal.Next)
}

func TestBuildCalendar_LeapFebruary(t *testing.T) {
	cal := BuildCalendar(MonthRef{2024, time.February}, nil, entity.Date{})
	assert.Len(t, cal.Days, 29)
	assert.Equal(t, 4, cal.Leading)
}

func TestClick(t *testing.T) {
	click := Point{X: 300, Y: 420}
	container := Point{X: 100, Y: 50}

	t.Run("no records", func(t *testing.T) {
		out := Click(entity.DomainFilm, nil, click, container)
		assert.Equal(t, ActionNone, out.Action)
		assert.Nil(t, out.Overlay)
	})

	t.Run("one record navigates", func(t *testing.T) {
		out := Click(entity.DomainBook, []entity.Record{rec(7, "", "")}, click, container)
		assert.Equal(t, ActionNavigate, out.Action)
		assert.Equal(t, "/v1/book/reviews/7", out.Location)
	})

	t.Run("several open an overlay", func(t *testing.T) {
		out := Click(entity.DomainFilm, []entity.Record{rec(1, "", "a"), rec(2, "", "")}, click, container)
		assert.Equal(t, ActionOverlay, out.Action)
		require.NotNil(t, out.Overlay)
		assert.Equal(t, Point{X: 215, Y: 360}, out.Overlay.Position)
		require.Len(t, out.Overlay.Entries, 2)
		assert.Equal(t, "/v1/film/reviews/2", out.Overlay.Entries[1].Location)
	})
}

func TestBuildStats(t *testing.T) {
	films := []entity.Record{
		rec(1, "2024년 5월 1일", ""),
		rec(2, "2023년 5월 9일", ""),
		rec(3, "2024년 12월 25일", ""),
	}
	books := []entity.Record{
		rec(4, "2024년 1월 2일", ""),
		rec(5, "broken", ""),
	}
	st := BuildStats(films, books)

	assert.Equal(t, 3, st.Film)
	assert.Equal(t, 2, st.Book)
	assert.Equal(t, 5, st.Total)
	require.Len(t, st.Monthly, 12)
	assert.Equal(t, MonthBucket{Name: "5월", Film: 2}, st.Monthly[4])
	assert.Equal(t, MonthBucket{Name: "1월", Book: 1}, st.Monthly[0])
	assert.Equal(t, MonthBucket{Name: "12월", Film: 1}, st.Monthly[11])

	require.Len(t, st.Ratio, 2)
	assert.Equal(t, 60, st.Ratio[0].Percent)
	assert.Equal(t, "영화 60%", st.Ratio[0].Label)
	assert.Equal(t, "독서 40%", st.Ratio[1].Label)
}

func TestBuildStats_Empty(t *testing.T) {
	st := BuildStats(nil, nil)
	assert.Zero(t, st.Total)
	for _, r := range st.Ratio {
		assert.Zero(t, r.Percent)
	}
	assert.Equal(t, "영화 0%", st.Ratio[0].Label)
}
