package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"cartaz/pkg/tmdb"
)

// detailState holds everything the detail screen needs in memory. It is
// rebuilt on every mount and discarded on unmount.
type detailState struct {
	movieID int
	movie   *tmdb.Movie
	credits *tmdb.Credits
	fav     bool
	loading bool
	failed  bool
}

// formatDate renders an ISO-ish API date as dd/mm/yyyy. Malformed dates
// pass through unchanged; empty ones disappear.
func formatDate(s string) string {
	if s == "" {
		return ""
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("02/01/2006")
}

// formatRuntime renders minutes as "2h 23min".
func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "Duração não disponível"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dmin", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dmin", m)
	}
}

func formatGenres(genres []tmdb.Genre) string {
	if len(genres) == 0 {
		return "Gêneros não disponíveis"
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

func directors(credits *tmdb.Credits) []tmdb.Crew {
	if credits == nil {
		return nil
	}
	var out []tmdb.Crew
	for _, person := range credits.Crew {
		if person.Job == "Director" {
			out = append(out, person)
		}
	}
	return out
}

var writerJobs = map[string]bool{
	"Writer":       true,
	"Screenplay":   true,
	"Screenwriter": true,
	"Story":        true,
	"Script":       true,
	"Author":       true,
}

// writers collects everyone with a writing job, deduplicated by person so
// someone credited as both Writer and Screenplay appears once.
func writers(credits *tmdb.Credits) []tmdb.Crew {
	if credits == nil {
		return nil
	}
	seen := map[int]bool{}
	var out []tmdb.Crew
	for _, person := range credits.Crew {
		if !writerJobs[person.Job] && person.Department != "Writing" {
			continue
		}
		if seen[person.ID] {
			continue
		}
		seen[person.ID] = true
		out = append(out, person)
	}
	return out
}

var writerJobLabels = map[string]string{
	"Writer":       "Roteirista",
	"Screenplay":   "Roteiro",
	"Screenwriter": "Roteirista",
	"Story":        "História",
	"Script":       "Roteiro",
	"Author":       "Autor",
	"Writing":      "Roteirista",
}

func translateWriterJob(job string) string {
	if label, ok := writerJobLabels[job]; ok {
		return label
	}
	return "Roteirista"
}

var (
	detailTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	detailSectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	detailFaintStyle   = lipgloss.NewStyle().Faint(true)
	genreTagStyle      = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("160"))
)

func (m Model) detailView() string {
	d := m.detail
	if d.loading {
		return m.loadingView("Carregando detalhes")
	}
	if d.failed || d.movie == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).
			Render("Não foi possível carregar os detalhes do filme") +
			"\n\n" + hint("enter tentar novamente • esc voltar")
	}
	mv := d.movie

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(mv.Title))
	if d.fav {
		b.WriteString("  ♥")
	}
	b.WriteString("\n")

	meta := []string{fmt.Sprintf("★ %.1f", mv.VoteAverage)}
	if date := formatDate(mv.ReleaseDate); date != "" {
		meta = append(meta, date)
	}
	meta = append(meta, formatRuntime(mv.Runtime))
	b.WriteString(detailFaintStyle.Render(strings.Join(meta, " • ")))
	b.WriteString("\n")

	if len(mv.Genres) > 0 {
		tags := make([]string, 0, len(mv.Genres))
		for _, g := range mv.Genres {
			tags = append(tags, genreTagStyle.Render(g.Name))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tags...))
		b.WriteString("\n")
	}

	b.WriteString(detailSectionStyle.Render("Sinopse"))
	b.WriteString("\n")
	overview := strings.TrimSpace(mv.Overview)
	if overview == "" {
		overview = "Sinopse não disponível"
	}
	b.WriteString(wrap(overview, m.width-4))
	b.WriteString("\n")

	if ds := directors(d.credits); len(ds) > 0 {
		b.WriteString(detailSectionStyle.Render("Direção"))
		b.WriteString("\n")
		for _, person := range ds {
			b.WriteString(person.Name + "\n")
		}
	}
	if ws := writers(d.credits); len(ws) > 0 {
		b.WriteString(detailSectionStyle.Render("Roteiro"))
		b.WriteString("\n")
		for _, person := range ws {
			b.WriteString(fmt.Sprintf("%s %s\n", person.Name, detailFaintStyle.Render("("+translateWriterJob(person.Job)+")")))
		}
	}
	if d.credits != nil && len(d.credits.Cast) > 0 {
		b.WriteString(detailSectionStyle.Render("Elenco"))
		b.WriteString("\n")
		cast := d.credits.Cast
		if len(cast) > 10 {
			cast = cast[:10]
		}
		for _, person := range cast {
			line := fmt.Sprintf("%s %s", person.Name, detailFaintStyle.Render("como "+person.Character))
			if url := tmdb.ProfileURL(person.ProfilePath); url != "" {
				line += " " + detailFaintStyle.Render("· "+url)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(detailFaintStyle.Render("Pôster: " + tmdb.PosterURL(mv.PosterPath)))
	if backdrop := tmdb.BackdropURL(mv.BackdropPath); backdrop != "" {
		b.WriteString("\n" + detailFaintStyle.Render("Imagem de fundo: "+backdrop))
	}
	b.WriteString("\n\n" + hint("f favoritar • esc voltar"))
	return b.String()
}

// wrap is a plain greedy word wrapper for the synopsis block.
func wrap(s string, width int) string {
	if width < 20 {
		width = 72
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len([]rune(w)) > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len([]rune(w))
	}
	return b.String()
}
