// Package kofic talks to the KOFIC (Korean Film Council) open API movie list.
package kofic

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

var ErrMissingKey = errors.New("kofic: api key not configured")

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

type Director struct {
	PeopleNm string `json:"peopleNm"`
}

// Movie is one entry of movieListResult.movieList.
type Movie struct {
	MovieCd    string     `json:"movieCd"`
	MovieNm    string     `json:"movieNm"`
	PrdtYear   string     `json:"prdtYear"`
	TypeNm     string     `json:"typeNm"`
	RepGenreNm string     `json:"repGenreNm"`
	Directors  []Director `json:"directors"`
}

// Year parses PrdtYear, returning 0 when it is blank or not a number.
func (m Movie) Year() int {
	y, err := strconv.Atoi(m.PrdtYear)
	if err != nil {
		return 0
	}
	return y
}

type searchResponse struct {
	MovieListResult *struct {
		TotCnt    int     `json:"totCnt"`
		MovieList []Movie `json:"movieList"`
	} `json:"movieListResult"`
	FaultInfo *struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	} `json:"faultInfo"`
}

// SearchMovies looks movies up by title, returning at most limit entries.
func (c *Client) SearchMovies(ctx context.Context, title string, limit int) ([]Movie, error) {
	if !c.Configured() {
		return nil, ErrMissingKey
	}
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("movieNm", title)
	q.Set("itemPerPage", strconv.Itoa(limit))
	u := c.baseURL + "/movie/searchMovieList.json?" + q.Encode()

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	if res.FaultInfo != nil {
		return nil, fmt.Errorf("kofic: %s (%s)", res.FaultInfo.Message, res.FaultInfo.ErrorCode)
	}
	if res.MovieListResult == nil {
		return nil, errors.New("kofic: response missing movieListResult")
	}
	return res.MovieListResult.MovieList, nil
}

func (c *Client) get(ctx context.Context, u string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kofic: unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
