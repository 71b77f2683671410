package kmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchByTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kmdb_new2", r.URL.Query().Get("collection"))
		assert.Equal(t, "svc", r.URL.Query().Get("ServiceKey"))
		assert.Equal(t, "기생충", r.URL.Query().Get("title"))
		_, _ = w.Write([]byte(`{"TotalCount":2,"Data":[{"Result":[
			{"title":" !HS 기생충 !HE ","prodYear":"2019","posters":"http://p/1.jpg|http://p/2.jpg"},
			{"title":"기생충 2","prodYear":"","posters":""}]}]}`))
	}))
	defer srv.Close()

	films, err := NewClient(srv.URL, "svc", 100, time.Second).SearchByTitle(context.Background(), "기생충")
	require.NoError(t, err)
	require.Len(t, films, 2)

	assert.Equal(t, "기생충", films[0].Title)
	assert.Equal(t, 2019, films[0].Year)
	assert.Equal(t, "http://p/1.jpg", films[0].Poster())
	assert.Len(t, films[0].Posters, 2)

	assert.Equal(t, 0, films[1].Year)
	assert.Empty(t, films[1].Poster())
}

func TestSearchByTitle_MissingKey(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "", 1, time.Second).SearchByTitle(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "헤어질 결심", NormalizeTitle(" !HS 헤어질 !HE  결심 "))
	assert.Equal(t, "", NormalizeTitle(" !HS  !HE "))
}
