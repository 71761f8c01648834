package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime configuration loaded from env.
type Config struct {
	TMDBAPIKey       string
	Language         string
	FallbackLanguage string
	StorePath        string
	ValkeyAddr       string
	ValkeyPassword   string
	Sound            bool
	Env              string
}

func FromEnv() Config {
	c := Config{
		TMDBAPIKey:       os.Getenv("TMDB_API_KEY"),
		Language:         getEnv("TMDB_LANGUAGE", "pt-BR"),
		FallbackLanguage: getEnv("TMDB_FALLBACK_LANGUAGE", "en-US"),
		StorePath:        getEnv("CARTAZ_STORE_PATH", defaultStorePath()),
		ValkeyAddr:       os.Getenv("VALKEY_ADDR"),
		ValkeyPassword:   os.Getenv("VALKEY_PASSWORD"),
		Sound:            os.Getenv("CARTAZ_SOUND") != "0",
		Env:              getEnv("ENV", "development"),
	}
	return c
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cartaz.db"
	}
	return filepath.Join(dir, "cartaz", "cartaz.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
