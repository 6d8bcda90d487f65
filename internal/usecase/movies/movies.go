package usecase_movies

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/shree5k/swipematch/internal/model"
)

var (
	ErrFailedToFetchDeck = errors.New("failed to fetch deck")
	ErrSupplyEmpty       = errors.New("movie supply returned nothing")
)

const DefaultDeckSize = 10

// Source yields candidate movies for one room. Implementations decide where
// they come from (TMDb, a local catalog).
type Source interface {
	FetchDeck(ctx context.Context) ([]model.Movie, error)
}

type Usecase struct {
	source   Source
	deckSize int
}

func New(source Source, deckSize int) *Usecase {
	if deckSize <= 0 {
		deckSize = DefaultDeckSize
	}
	return &Usecase{
		source:   source,
		deckSize: deckSize,
	}
}

// Deck builds the shared movie list for one room: fetch, shuffle, cap.
// An empty result is an error; a room without movies can never progress.
func (u *Usecase) Deck(ctx context.Context) ([]model.Movie, error) {
	movies, err := u.source.FetchDeck(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToFetchDeck, err)
	}
	if len(movies) == 0 {
		return nil, ErrSupplyEmpty
	}

	deck := make([]model.Movie, len(movies))
	copy(deck, movies)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	if len(deck) > u.deckSize {
		deck = deck[:u.deckSize]
	}
	return deck, nil
}
