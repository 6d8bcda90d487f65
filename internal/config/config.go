package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	// Empty Addr disables the live-code mirror entirely.
	Addr     string
	Password string
	DB       int
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type TMDb struct {
	APIKey  string
	BaseURL string
}

type Rooms struct {
	DeckSize int
	// Zero keeps one-player rooms alive until the creator disconnects.
	IdleTTL        time.Duration
	AllowedOrigins []string
}

type Log struct {
	Level string
	JSON  bool
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	TMDb     TMDb
	Rooms    Rooms
	Log      Log
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		TMDb:     *newTMDb(),
		Rooms:    *newRooms(),
		Log:      *newLog(),
	}
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Host: getenv("HTTP_HOST", "0.0.0.0"),
		Port: getenv("HTTP_PORT", "3001"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Addr:     getenv("REDIS_ADDR", ""),
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getenvInt("REDIS_DB", 0),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", ""),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "swipematch"),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", "swipematch"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newTMDb() *TMDb {
	return &TMDb{
		APIKey:  getenv("TMDB_API_KEY", ""),
		BaseURL: getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
	}
}

func newRooms() *Rooms {
	return &Rooms{
		DeckSize:       getenvInt("ROOM_DECK_SIZE", 10),
		IdleTTL:        getenvDuration("ROOM_IDLE_TTL", 0),
		AllowedOrigins: getenvList("ALLOWED_ORIGINS"),
	}
}

func newLog() *Log {
	return &Log{
		Level: getenv("LOG_LEVEL", "info"),
		JSON:  getenv("LOG_FORMAT", "text") == "json",
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getenvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		fmt.Printf("%s %s is not a number, using %d\n", logtag, key, defaultValue)
		return defaultValue
	}
	return n
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		fmt.Printf("%s %s is not a duration, using %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	return d
}

func getenvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
