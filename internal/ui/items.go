package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"cartaz/pkg/tmdb"
)

type movieItem struct {
	movie tmdb.Movie
	fav   bool
}

func (m movieItem) Title() string {
	title := m.movie.Title
	if m.fav {
		title = "♥ " + title
	}
	if m.movie.VoteAverage > 0 {
		return fmt.Sprintf("%s  ★ %.1f", title, m.movie.VoteAverage)
	}
	return title
}

func (m movieItem) Description() string {
	parts := []string{}
	if d := formatDate(m.movie.ReleaseDate); d != "" {
		parts = append(parts, d)
	}
	if ov := strings.TrimSpace(m.movie.Overview); ov != "" {
		parts = append(parts, truncate(ov, 80))
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(m.movie.Title)
}

func buildMovieItems(movies []tmdb.Movie, favIDs map[int]bool) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, mv := range movies {
		items = append(items, movieItem{movie: mv, fav: favIDs[mv.ID]})
	}
	return items
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

func newMovieList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}
