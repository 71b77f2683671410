package openlibrary

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
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("title"))
		assert.Equal(t, "journal-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL893415W","title":"Dune",
			"author_name":["Frank Herbert"],"publisher":["Chilton Books"],"first_publish_year":1965,"cover_i":11481354}]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "journal-test", 100, time.Second).SearchByTitle(context.Background(), "dune", 10)
	require.NoError(t, err)
	require.Len(t, res.Docs, 1)
	assert.Equal(t, "Frank Herbert", res.Docs[0].AuthorNames[0])
	assert.Equal(t, 1965, res.Docs[0].FirstPublishYear)
}

func TestSearchByTitle_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "ua", 100, time.Second).SearchByTitle(context.Background(), "dune", 10)
	assert.Error(t, err)
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-M.jpg", CoverURL(42))
	assert.Empty(t, CoverURL(0))
}
