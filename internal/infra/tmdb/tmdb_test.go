package infra_tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

func popularServer(t *testing.T, perPage func(page string) []fakeMovie) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("api_key"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": perPage(r.URL.Query().Get("page")),
		})
	}))
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("short", "")
	assert.ErrorIs(t, err, ErrBadAPIKey)
}

func TestFetchDeckFiltersPosterAndRating(t *testing.T) {
	srv := popularServer(t, func(string) []fakeMovie {
		return []fakeMovie{
			{ID: 1, Title: "Good", PosterPath: "/a.jpg", VoteAverage: 7.1},
			{ID: 2, Title: "No poster", PosterPath: "", VoteAverage: 8.0},
			{ID: 3, Title: "Low rated", PosterPath: "/c.jpg", VoteAverage: 2.0},
			{ID: 4, Title: "Good too", PosterPath: "/d.jpg", VoteAverage: 6.0},
			{ID: 5, Title: "Fine", PosterPath: "/e.jpg", VoteAverage: 5.0},
			{ID: 6, Title: "Fine", PosterPath: "/f.jpg", VoteAverage: 5.0},
			{ID: 7, Title: "Fine", PosterPath: "/g.jpg", VoteAverage: 5.0},
		}
	})
	defer srv.Close()

	client, err := New("test-api-key", srv.URL)
	require.NoError(t, err)

	deck, err := client.FetchDeck(context.Background())

	require.NoError(t, err)
	assert.Len(t, deck, 5)
	for _, m := range deck {
		assert.NotEmpty(t, m.PosterPath)
		assert.NotContains(t, []int64{2, 3}, m.ID)
	}
}

func TestFetchDeckFallsBackToPageOne(t *testing.T) {
	pagesServed := []string{}
	srv := popularServer(t, func(page string) []fakeMovie {
		pagesServed = append(pagesServed, page)
		if page == "1" {
			return []fakeMovie{
				// Page 1 entries pass the relaxed poster-only filter.
				{ID: 10, Title: "Fallback", PosterPath: "/x.jpg", VoteAverage: 1.0},
				{ID: 11, Title: "Fallback", PosterPath: "/y.jpg", VoteAverage: 1.0},
			}
		}
		// Whatever random page was hit first: nothing usable.
		return []fakeMovie{
			{ID: 1, Title: "No poster", PosterPath: "", VoteAverage: 9.0},
		}
	})
	defer srv.Close()

	client, err := New("test-api-key", srv.URL)
	require.NoError(t, err)

	deck, err := client.FetchDeck(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1", pagesServed[len(pagesServed)-1])
	assert.Len(t, deck, 2)
}

func TestFetchDeckSurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := New("test-api-key", srv.URL)
	require.NoError(t, err)

	_, err = client.FetchDeck(context.Background())

	assert.ErrorIs(t, err, ErrUnexpectedAPI)
}
