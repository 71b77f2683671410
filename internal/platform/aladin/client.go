// Package aladin wraps the Aladin TTB item search API.
package aladin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

var ErrMissingKey = errors.New("aladin: ttb key not configured")

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

// Item is one element of the "item" array. Author is raw, e.g.
// "한강 (지은이), 홍길동 (옮긴이)".
type Item struct {
	ItemID       int64  `json:"itemId"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	PubDate      string `json:"pubDate"`
	Publisher    string `json:"publisher"`
	Cover        string `json:"cover"`
	CategoryName string `json:"categoryName"`
	ISBN13       string `json:"isbn13"`
}

type searchResponse struct {
	TotalResults int    `json:"totalResults"`
	Item         []Item `json:"item"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// SearchBooks runs a title search limited to books.
func (c *Client) SearchBooks(ctx context.Context, title string, limit int) ([]Item, error) {
	if !c.Configured() {
		return nil, ErrMissingKey
	}
	q := url.Values{}
	q.Set("ttbkey", c.key)
	q.Set("Query", title)
	q.Set("QueryType", "Title")
	q.Set("MaxResults", strconv.Itoa(limit))
	q.Set("start", "1")
	q.Set("SearchTarget", "Book")
	q.Set("output", "js")
	q.Set("Version", "20131101")
	u := c.baseURL + "/ttb/api/ItemSearch.aspx?" + q.Encode()

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
		return nil, fmt.Errorf("aladin: unexpected status code: %d", resp.StatusCode)
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("aladin: decode: %w", err)
	}
	if res.ErrorCode != 0 {
		return nil, fmt.Errorf("aladin: %s (%d)", res.ErrorMessage, res.ErrorCode)
	}
	return res.Item, nil
}
