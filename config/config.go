package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	PgHost    string
	PgPort    string
	PgUser    string
	PgPass    string
	PgDBName  string
	PgSSLMode string
	BaseURL   string

	MediaRoot      string
	MediaURL       string
	UploadSubdir   string
	SeedDir        string
	MaxSearchLimit int

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:      getenv("PORT", "8000"),
		PgHost:    getenv("PG_HOST", "localhost"),
		PgPort:    getenv("PG_PORT", "5432"),
		PgUser:    os.Getenv("PG_USER"),
		PgPass:    os.Getenv("PG_PASS"),
		PgDBName:  os.Getenv("PG_DBNAME"),
		PgSSLMode: getenv("PG_SSLMODE", "disable"),
		BaseURL:   os.Getenv("BASE_URL"),

		MediaRoot:      getenv("MEDIA_ROOT", "./media"),
		MediaURL:       getenv("MEDIA_URL", "/media/"),
		UploadSubdir:   getenv("UPLOAD_SUBDIR", "herbs"),
		SeedDir:        os.Getenv("SEED_DIR"),
		MaxSearchLimit: getint("SEARCH_MAX_LIMIT", 100),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
