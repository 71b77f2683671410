package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"
	"journalapi/internal/platform/crypto"
)

// TestSecret is long enough to pass config validation.
const TestSecret = "test-session-secret-0123456789abcdef"

// TestFilm is a catalog hit as the film searcher would produce it.
var TestFilm = entity.CatalogItem{
	ExternalID:   "20183782",
	Title:        "기생충",
	SubtitleInfo: "2019 | 봉준호 | 장편 | 드라마",
	ImageURL:     "http://file.koreafilm.or.kr/thm/02/00/05/46/tn_DPK016845.jpg",
	Year:         2019,
}

// TestBook is a catalog hit as the book searcher would produce it.
var TestBook = entity.CatalogItem{
	ExternalID:   "9788937460449",
	Title:        "데미안",
	SubtitleInfo: "헤르만 헤세 | 민음사 | 2000-12-20",
	ImageURL:     "https://image.aladin.co.kr/product/26/0/cover/8937460440_2.jpg",
	Author:       "헤르만 헤세",
}

// TestDate is the consumption date used across fixtures.
var TestDate = entity.NewDate(2024, time.May, 1)

// SessionCookie issues a signed session cookie and returns it with its sid.
func SessionCookie(secret string) (*http.Cookie, string) {
	token, sid, _ := crypto.GenerateSessionToken(secret)
	return &http.Cookie{Name: httpx.SessionCookieName, Value: token, Path: "/"}, sid
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithSession creates a request carrying the given session cookie.
func NewRequestWithSession(method, path string, body interface{}, cookie *http.Cookie) *http.Request {
	r := NewRequest(method, path, body)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// Data returns the envelope's data field as a map, or nil.
func (r RecordResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// ErrorCode returns the envelope's error code, or "".
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}

// AssertResponseBody checks if the response body contains expected field
func AssertResponseBody(t interface {
	Errorf(format string, args ...any)
}, body map[string]interface{}, key string, expectedValue interface{}) {
	value, ok := body[key]
	if !ok {
		t.Errorf("response body missing key %q", key)
		return
	}
	if value != expectedValue {
		t.Errorf("got %q for key %q, want %q", value, key, expectedValue)
	}
}
