package app

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/shree5k/swipematch/internal/config"
	http_health "github.com/shree5k/swipematch/internal/delivery/http/health"
	http_init "github.com/shree5k/swipematch/internal/delivery/http/init"
	ws_session "github.com/shree5k/swipematch/internal/delivery/ws/session"
	infra_pg_init "github.com/shree5k/swipematch/internal/infra/postgres/init"
	infra_postgres_movie "github.com/shree5k/swipematch/internal/infra/postgres/movie"
	infra_redis_codeset "github.com/shree5k/swipematch/internal/infra/redis/codeset"
	infra_redis_init "github.com/shree5k/swipematch/internal/infra/redis/init"
	infra_tmdb "github.com/shree5k/swipematch/internal/infra/tmdb"
	"github.com/shree5k/swipematch/internal/logger"
	usecase_movies "github.com/shree5k/swipematch/internal/usecase/movies"
	usecase_registry "github.com/shree5k/swipematch/internal/usecase/registry"
)

const janitorInterval = time.Minute

func Go(cfg *config.Config) {
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	var mirror usecase_registry.CodeMirror
	if cfg.Redis.Addr != "" {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		mirror = infra_redis_codeset.New(redisConn, "swipematch:live_rooms")
	}

	moviesUC := usecase_movies.New(newMovieSource(cfg), cfg.Rooms.DeckSize)
	registry := usecase_registry.New(mirror)

	hub := ws_session.NewHub()
	gateway := ws_session.NewGateway(registry, moviesUC, hub)
	if cfg.Rooms.IdleTTL > 0 {
		go gateway.RunJanitor(context.Background(), cfg.Rooms.IdleTTL, janitorInterval)
	}

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_health.New())
	controllerPool.Add(ws_session.NewController(hub, gateway, cfg.Rooms.AllowedOrigins))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}

func newMovieSource(cfg *config.Config) usecase_movies.Source {
	if cfg.TMDb.APIKey != "" {
		client, err := infra_tmdb.New(cfg.TMDb.APIKey, cfg.TMDb.BaseURL)
		if err != nil {
			log.Fatalf("FATAL: TMDB_API_KEY is invalid: %v", err)
		}
		slog.Info("movie supply: tmdb")
		return client
	}
	if cfg.Postgres.Host != "" {
		pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
		slog.Info("movie supply: local catalog")
		return infra_postgres_movie.New(pgConn)
	}

	log.Fatal("FATAL: no movie supply configured, set TMDB_API_KEY or DB_HOST")
	return nil
}
