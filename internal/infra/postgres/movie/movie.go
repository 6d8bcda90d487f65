package infra_postgres_movie

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shree5k/swipematch/internal/model"
)

// Repository serves decks out of a local movie catalog. Used when no TMDb
// key is configured.
type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// FetchDeck samples catalog entries that have a poster. Sampling here keeps
// decks varied even though the caller shuffles again.
func (r *Repository) FetchDeck(ctx context.Context) ([]model.Movie, error) {
	query := `
		SELECT id, title, poster_path
		FROM movies
		WHERE poster_path <> ''
		ORDER BY random()
		LIMIT 50
	`

	var movies []model.Movie
	if err := r.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	return movies, nil
}

func (r *Repository) Store(ctx context.Context, m model.Movie) error {
	query := `
		INSERT INTO movies (id, title, poster_path)
		VALUES (:id, :title, :poster_path)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path
	`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to store movie: %w", err)
	}
	return nil
}
