package infra_tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/shree5k/swipematch/internal/model"
)

var (
	ErrBadAPIKey     = errors.New("tmdb api key missing or invalid")
	ErrUnexpectedAPI = errors.New("unexpected tmdb response")
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	// Popular movies are paged; picking a random page keeps decks from
	// repeating between rooms.
	popularPages = 20

	minRating   = 3.0
	minFiltered = 5
)

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
}

func New(apiKey, baseURL string) (*Client, error) {
	if len(apiKey) < 10 {
		return nil, ErrBadAPIKey
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		logger:     slog.Default(),
	}, nil
}

type popularResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

// FetchDeck pulls a random page of popular movies and keeps the ones with a
// poster and a decent rating. If the filter leaves too few, page 1 with the
// poster-only filter serves as fallback.
func (c *Client) FetchDeck(ctx context.Context) ([]model.Movie, error) {
	page := rand.Intn(popularPages) + 1
	resp, err := c.popular(ctx, page)
	if err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(resp.Results))
	for _, m := range resp.Results {
		if m.PosterPath == "" || m.VoteAverage <= minRating {
			continue
		}
		movies = append(movies, model.Movie{ID: m.ID, Title: m.Title, PosterPath: m.PosterPath})
	}
	if len(movies) >= minFiltered {
		return movies, nil
	}

	c.logger.Warn("too few movies after filtering, falling back to page 1",
		"page", page, "kept", len(movies))

	resp, err = c.popular(ctx, 1)
	if err != nil {
		return nil, err
	}
	movies = movies[:0]
	for _, m := range resp.Results {
		if m.PosterPath == "" {
			continue
		}
		movies = append(movies, model.Movie{ID: m.ID, Title: m.Title, PosterPath: m.PosterPath})
	}
	return movies, nil
}

func (c *Client) popular(ctx context.Context, page int) (*popularResponse, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	q.Set("page", fmt.Sprint(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/movie/popular?%s", c.baseURL, q.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedAPI, resp.StatusCode)
	}

	var parsed popularResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedAPI, err)
	}
	return &parsed, nil
}
