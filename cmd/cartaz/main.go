package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cartaz/internal/config"
	"cartaz/internal/favorites"
	"cartaz/internal/migrate"
	"cartaz/internal/search"
	"cartaz/internal/ui"
	"cartaz/pkg/kv"
	"cartaz/pkg/tmdb"
)

func main() {
	_ = godotenv.Load() // best-effort
	cfg := config.FromEnv()

	// stderr would bleed into the TUI, so diagnostics go to a file next
	// to the store
	logPath := filepath.Join(filepath.Dir(cfg.StorePath), "cartaz.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	if cfg.TMDBAPIKey == "" {
		fmt.Fprintln(os.Stderr, "TMDB_API_KEY is required (see .env.example)")
		os.Exit(1)
	}

	store, closeStore := openStore(cfg)
	defer closeStore()

	client := tmdb.New(cfg.TMDBAPIKey, cfg.Language, cfg.FallbackLanguage)
	app := ui.New(client, favorites.New(store), search.NewStore(store), cfg.Sound)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program error")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore picks the persistence backend: valkey when configured, the
// local sqlite file otherwise, in-memory as a last resort so the app still
// runs (favorites just won't survive the session).
func openStore(cfg config.Config) (kv.Store, func()) {
	if cfg.ValkeyAddr != "" {
		vs, err := kv.NewValkey(cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err == nil {
			return vs, vs.Close
		}
		log.Error().Err(err).Msg("valkey connect failed, falling back to sqlite")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		log.Error().Err(err).Msg("store dir unavailable, using in-memory store")
		return kv.NewInMemory(), func() {}
	}
	ss, err := kv.NewSQLite(cfg.StorePath)
	if err != nil {
		log.Error().Err(err).Msg("sqlite open failed, using in-memory store")
		return kv.NewInMemory(), func() {}
	}
	if err := migrate.Up(ss.DB()); err != nil {
		log.Error().Err(err).Msg("store migrations failed, using in-memory store")
		_ = ss.Close()
		return kv.NewInMemory(), func() {}
	}
	return ss, func() { _ = ss.Close() }
}
