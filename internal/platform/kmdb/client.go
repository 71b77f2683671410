// Package kmdb queries the KMDb (Korean Movie Database) search API for posters.
package kmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrMissingKey = errors.New("kmdb: service key not configured")

type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	limiter    *rate.Limiter
}

func NewClient(baseURL, key string, rps int, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		key:        key,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

func (c *Client) Configured() bool {
	return c.key != ""
}

// Film is a cleaned KMDb result.
type Film struct {
	Title   string
	Year    int
	Posters []string
}

type rawResult struct {
	Title    string `json:"title"`
	ProdYear string `json:"prodYear"`
	Posters  string `json:"posters"`
}

type searchResponse struct {
	TotalCount int `json:"TotalCount"`
	Data       []struct {
		Result []rawResult `json:"Result"`
	} `json:"Data"`
}

// SearchByTitle returns films matching title. KMDb wraps matched terms in
// " !HS " / " !HE " highlight markers; they are stripped here.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]Film, error) {
	if !c.Configured() {
		return nil, ErrMissingKey
	}
	q := url.Values{}
	q.Set("collection", "kmdb_new2")
	q.Set("detail", "Y")
	q.Set("ServiceKey", c.key)
	q.Set("title", title)
	u := c.baseURL + "?" + q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kmdb: unexpected status code: %d", resp.StatusCode)
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("kmdb: decode: %w", err)
	}

	var films []Film
	for _, d := range res.Data {
		for _, r := range d.Result {
			films = append(films, clean(r))
		}
	}
	return films, nil
}

func clean(r rawResult) Film {
	f := Film{Title: NormalizeTitle(r.Title)}
	if y, err := strconv.Atoi(strings.TrimSpace(r.ProdYear)); err == nil {
		f.Year = y
	}
	for _, p := range strings.Split(r.Posters, "|") {
		if p = strings.TrimSpace(p); p != "" {
			f.Posters = append(f.Posters, p)
		}
	}
	return f
}

var highlight = strings.NewReplacer("!HS", "", "!HE", "")

// NormalizeTitle strips highlight markers and collapses whitespace.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(highlight.Replace(s)), " ")
}

// Poster is the first poster URL, or "".
func (f Film) Poster() string {
	if len(f.Posters) == 0 {
		return ""
	}
	return f.Posters[0]
}
