package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"
	"journalapi/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestMux(t *testing.T) (*http.ServeMux, *record.Service) {
	t.Helper()
	records := record.NewService(record.NewBlobRepo(record.NewMemoryStore()), record.NewIDGenerator(), zap.NewNop())
	svc := NewService(records)
	svc.now = func() time.Time { return time.Date(2024, time.May, 20, 9, 0, 0, 0, time.Local) }
	h := NewHTTPHandler(svc, zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/{domain}/calendar", h.Calendar)
	mux.HandleFunc("POST /v1/{domain}/calendar/click", h.Click)
	mux.HandleFunc("GET /v1/stats", h.Stats)
	return mux, records
}

func do(t *testing.T, mux http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r = r.WithContext(httpx.ContextWithSession(r.Context(), "s1"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func seed(t *testing.T, records *record.Service, d entity.Domain, labels ...string) {
	t.Helper()
	for _, l := range labels {
		_, err := records.Create(context.Background(), record.NewKey("s1", d), entity.Record{
			Title: "t", Body: "b", SubjectTitle: "s", ConsumedOnLabel: l,
		})
		require.NoError(t, err)
	}
}

func TestHTTPHandler_Calendar(t *testing.T) {
	mux, records := newTestMux(t)
	seed(t, records, entity.DomainFilm, "2024년 5월 3일")

	t.Run("defaults to the current month", func(t *testing.T) {
		w, env := do(t, mux, http.MethodGet, "/v1/film/calendar", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var cal Calendar
		require.NoError(t, json.Unmarshal(env.Data, &cal))
		assert.Equal(t, 2024, cal.Year)
		assert.Equal(t, time.May, cal.Month)
		assert.True(t, cal.Days[19].IsToday)
		assert.Len(t, cal.Days[2].Records, 1)
	})

	t.Run("explicit month", func(t *testing.T) {
		w, env := do(t, mux, http.MethodGet, "/v1/film/calendar?year=2023&month=2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var cal Calendar
		require.NoError(t, json.Unmarshal(env.Data, &cal))
		assert.Len(t, cal.Days, 28)
	})

	t.Run("collections do not mix", func(t *testing.T) {
		_, env := do(t, mux, http.MethodGet, "/v1/book/calendar?year=2024&month=5", nil)
		var cal Calendar
		require.NoError(t, json.Unmarshal(env.Data, &cal))
		assert.Empty(t, cal.Days[2].Records)
	})

	t.Run("invalid month", func(t *testing.T) {
		w, env := do(t, mux, http.MethodGet, "/v1/film/calendar?month=13", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestHTTPHandler_Click(t *testing.T) {
	mux, records := newTestMux(t)
	seed(t, records, entity.DomainBook, "2024년 5월 3일", "2024년 5월 3일", "2024년 5월 4일")

	click := func(date string) ClickOutcome {
		w, env := do(t, mux, http.MethodPost, "/v1/book/calendar/click", map[string]interface{}{
			"date": date, "client_x": 120, "client_y": 80, "container_left": 20, "container_top": 10,
		})
		require.Equal(t, http.StatusOK, w.Code)
		var out ClickOutcome
		require.NoError(t, json.Unmarshal(env.Data, &out))
		return out
	}

	assert.Equal(t, ActionNone, click("2024-05-05").Action)
	assert.Equal(t, ActionNavigate, click("2024-05-04").Action)

	out := click("2024-05-03")
	assert.Equal(t, ActionOverlay, out.Action)
	require.NotNil(t, out.Overlay)
	assert.Equal(t, Point{X: 115, Y: 60}, out.Overlay.Position)
	assert.Len(t, out.Overlay.Entries, 2)

	w, _ := do(t, mux, http.MethodPost, "/v1/book/calendar/click", map[string]interface{}{"client_x": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHTTPHandler_Stats(t *testing.T) {
	mux, records := newTestMux(t)
	seed(t, records, entity.DomainFilm, "2024년 5월 3일")
	seed(t, records, entity.DomainBook, "2024년 7월 1일", "2024년 7월 2일", "2024년 8월 1일")

	w, env := do(t, mux, http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st Stats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Monthly[6].Book)
	assert.Equal(t, 25, st.Ratio[0].Percent)
	assert.Equal(t, 75, st.Ratio[1].Percent)
}
