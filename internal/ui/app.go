package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/xid"

	"cartaz/internal/favorites"
	"cartaz/internal/nav"
	"cartaz/internal/search"
	"cartaz/pkg/requestctx"
	"cartaz/pkg/tmdb"
)

type feedState struct {
	movies     []tmdb.Movie
	page       int
	totalPages int
	loading    bool
	status     tmdb.Status
}

// Model is the whole TUI. One screen is visible at a time, driven by the
// navigation controller; every fetch carries the generation current at
// launch so responses landing after a screen change are discarded.
type Model struct {
	client   *tmdb.Client
	favs     *favorites.Store
	sessions *search.Store
	nav      *nav.Controller
	sound    bool

	width  int
	height int

	feed       feedState
	moviesList list.Model

	session      search.Session
	searchStatus tmdb.Status
	searchNote   string
	searchInput  textinput.Model
	searchList   list.Model
	searchFocus  bool

	favList    list.Model
	favLoading bool
	favLoaded  bool
	favFailed  int

	detail detailState

	favIDs map[int]bool

	spinner spinner.Model
	gen     int
}

type feedMsg struct {
	gen  int
	resp tmdb.MovieResponse
}

type searchMsg struct {
	gen  int
	resp tmdb.MovieResponse
}

type favoritesMsg struct {
	gen    int
	movies []tmdb.Movie
	failed int
}

type detailMsg struct {
	gen     int
	movieID int
	movie   *tmdb.Movie
	credits *tmdb.Credits
	fav     bool
}

type favToggledMsg struct {
	movieID int
	fav     bool
}

type sessionRestoredMsg struct {
	gen     int
	session search.Session
	ok      bool
}

func New(client *tmdb.Client, favs *favorites.Store, sessions *search.Store, sound bool) Model {
	m := Model{
		client:   client,
		favs:     favs,
		sessions: sessions,
		nav:      nav.New(),
		sound:    sound,
		favIDs:   map[int]bool{},
	}

	m.moviesList = newMovieList("Filmes em Cartaz")
	m.searchList = newMovieList("Resultados")
	m.favList = newMovieList("Favoritos")

	ti := textinput.New()
	ti.Placeholder = "Buscar filmes..."
	ti.CharLimit = 120
	m.searchInput = ti
	m.searchFocus = true

	m.session = search.NewSession()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	m.spinner = sp

	return m
}

// fetchCtx mints a correlation id so the logs of one user action (primary
// call plus overview fallbacks) can be grouped.
func fetchCtx() context.Context {
	return requestctx.WithCorrelationID(context.Background(), xid.New().String())
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchFeedCmd(m.gen, 1), m.spinner.Tick)
}

// ---- commands --------------------------------------------------------------

func (m Model) fetchFeedCmd(gen, page int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return feedMsg{gen: gen, resp: client.ListNowPlaying(fetchCtx(), page)}
	}
}

func (m Model) fetchSearchCmd(gen int, query string, page int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return searchMsg{gen: gen, resp: client.Search(fetchCtx(), query, page)}
	}
}

func (m Model) fetchFavoritesCmd(gen int) tea.Cmd {
	client := m.client
	favs := m.favs
	return func() tea.Msg {
		ctx := fetchCtx()
		ids := favs.List(ctx)
		movies := make([]tmdb.Movie, 0, len(ids))
		failed := 0
		for _, id := range ids {
			movie, _ := client.GetDetails(ctx, id)
			if movie == nil {
				failed++
				continue
			}
			movies = append(movies, *movie)
		}
		return favoritesMsg{gen: gen, movies: movies, failed: failed}
	}
}

func (m Model) fetchDetailCmd(gen, movieID int) tea.Cmd {
	client := m.client
	favs := m.favs
	return func() tea.Msg {
		ctx := fetchCtx()
		movie, credits := client.GetDetails(ctx, movieID)
		if movie != nil && credits == nil {
			credits = client.GetCredits(ctx, movieID)
		}
		return detailMsg{
			gen:     gen,
			movieID: movieID,
			movie:   movie,
			credits: credits,
			fav:     favs.Has(ctx, movieID),
		}
	}
}

func (m Model) toggleFavoriteCmd(movieID int) tea.Cmd {
	favs := m.favs
	sound := m.sound
	return func() tea.Msg {
		fav := favs.Toggle(fetchCtx(), movieID)
		if fav && sound {
			// terminal stand-in for the favoriting sound effect
			_, _ = os.Stderr.WriteString("\a")
		}
		return favToggledMsg{movieID: movieID, fav: fav}
	}
}

func (m Model) restoreSearchCmd(gen int) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		s, ok := sessions.Restore(fetchCtx())
		return sessionRestoredMsg{gen: gen, session: s, ok: ok}
	}
}

func (m Model) saveSearchCmd() tea.Cmd {
	sessions := m.sessions
	s := m.session
	return func() tea.Msg {
		sessions.Save(fetchCtx(), s)
		return nil
	}
}

func (m Model) clearSearchCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		sessions.Clear(fetchCtx())
		return nil
	}
}

// ---- update ----------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.anythingLoading() {
			return m, cmd
		}
		return m, nil

	case feedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.feed.loading = false
		m.feed.status = msg.resp.Status
		if msg.resp.Status == tmdb.StatusFailed {
			return m, nil
		}
		if msg.resp.Page <= 1 {
			m.feed.movies = msg.resp.Results
		} else {
			m.feed.movies = append(m.feed.movies, msg.resp.Results...)
		}
		m.feed.page = msg.resp.Page
		m.feed.totalPages = msg.resp.TotalPages
		m.moviesList.SetItems(buildMovieItems(m.feed.movies, m.favIDs))
		return m, nil

	case searchMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.session.Loading = false
		m.searchStatus = msg.resp.Status
		if msg.resp.Status == tmdb.StatusFailed {
			return m, nil
		}
		m.session.Apply(msg.resp)
		m.searchList.SetItems(buildMovieItems(m.session.Results, m.favIDs))
		if len(m.session.Results) > 0 {
			m.searchFocus = false
			m.searchInput.Blur()
			return m, m.saveSearchCmd()
		}
		return m, nil

	case sessionRestoredMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.ok {
			m.session = msg.session
			m.searchStatus = tmdb.StatusOK
			m.searchInput.SetValue(m.session.Query)
			m.searchList.SetItems(buildMovieItems(m.session.Results, m.favIDs))
			m.searchFocus = false
			m.searchInput.Blur()
		}
		return m, nil

	case favoritesMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.favLoading = false
		m.favLoaded = true
		m.favFailed = msg.failed
		for _, mv := range msg.movies {
			m.favIDs[mv.ID] = true
		}
		m.favList.SetItems(buildMovieItems(msg.movies, m.favIDs))
		return m, nil

	case detailMsg:
		if msg.gen != m.gen || msg.movieID != m.detail.movieID {
			return m, nil
		}
		m.detail.loading = false
		m.detail.movie = msg.movie
		m.detail.credits = msg.credits
		m.detail.fav = msg.fav
		m.detail.failed = msg.movie == nil
		return m, nil

	case favToggledMsg:
		m.favIDs[msg.movieID] = msg.fav
		if !msg.fav {
			delete(m.favIDs, msg.movieID)
		}
		if m.detail.movieID == msg.movieID {
			m.detail.fav = msg.fav
		}
		m.moviesList.SetItems(buildMovieItems(m.feed.movies, m.favIDs))
		m.searchList.SetItems(buildMovieItems(m.session.Results, m.favIDs))
		if m.nav.Current() == nav.ScreenFavorites {
			m.gen++
			m.favLoading = true
			return m, tea.Batch(m.fetchFavoritesCmd(m.gen), m.spinner.Tick)
		}
		return m, nil
	}

	return m, m.updateActiveList(msg)
}

func (m *Model) updateActiveList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.nav.Current() {
	case nav.ScreenMovies:
		m.moviesList, cmd = m.moviesList.Update(msg)
	case nav.ScreenSearch:
		if !m.searchFocus {
			m.searchList, cmd = m.searchList.Update(msg)
		}
	case nav.ScreenFavorites:
		m.favList, cmd = m.favList.Update(msg)
	}
	return cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Sequence(m.saveSearchCmd(), tea.Quit)
	}

	// search input swallows plain keys while focused
	if m.nav.Current() == nav.ScreenSearch && m.searchFocus {
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitSearch()
		case tea.KeyEsc:
			m.searchFocus = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
	}

	switch key {
	case "q":
		return m, tea.Sequence(m.saveSearchCmd(), tea.Quit)
	case "1":
		return m.navigateTo(nav.ScreenMovies)
	case "2":
		return m.navigateTo(nav.ScreenSearch)
	case "3":
		return m.navigateTo(nav.ScreenFavorites)
	case "4":
		return m.navigateTo(nav.ScreenAbout)
	case "esc":
		if m.nav.Current() == nav.ScreenDetail {
			return m.goBackFromDetail()
		}
		return m, nil
	case "enter":
		switch m.nav.Current() {
		case nav.ScreenMovies:
			// retry only when there is nothing to select; a failed
			// load-more leaves the accumulated pages usable
			if m.feed.status == tmdb.StatusFailed && len(m.feed.movies) == 0 {
				return m.refreshFeed()
			}
			return m.openSelected(m.moviesList)
		case nav.ScreenSearch:
			return m.openSelected(m.searchList)
		case nav.ScreenFavorites:
			return m.openSelected(m.favList)
		case nav.ScreenDetail:
			if m.detail.failed {
				m.gen++
				m.detail.loading = true
				m.detail.failed = false
				return m, tea.Batch(m.fetchDetailCmd(m.gen, m.detail.movieID), m.spinner.Tick)
			}
		}
		return m, nil
	case "m":
		return m.loadMore()
	case "r":
		if m.nav.Current() == nav.ScreenMovies {
			return m.refreshFeed()
		}
		return m, nil
	case "/":
		if m.nav.Current() == nav.ScreenSearch {
			m.searchFocus = true
			return m, m.searchInput.Focus()
		}
		return m, nil
	case "x":
		if m.nav.Current() == nav.ScreenSearch {
			return m.clearSearch()
		}
		return m, nil
	case "f":
		return m.toggleSelectedFavorite()
	}

	return m, m.updateActiveList(msg)
}

func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.searchNote = "Digite algo para pesquisar"
		return m, nil
	}
	m.searchNote = ""
	m.gen++
	m.session.Reset()
	m.session.Query = query
	m.session.Loading = true
	return m, tea.Batch(m.fetchSearchCmd(m.gen, query, 1), m.spinner.Tick)
}

func (m Model) clearSearch() (tea.Model, tea.Cmd) {
	m.session.Reset()
	m.searchStatus = tmdb.StatusOK
	m.searchNote = ""
	m.searchInput.SetValue("")
	m.searchList.SetItems(nil)
	m.searchFocus = true
	return m, tea.Batch(m.clearSearchCmd(), m.searchInput.Focus())
}

func (m Model) refreshFeed() (tea.Model, tea.Cmd) {
	m.gen++
	m.feed = feedState{loading: true, page: 1}
	return m, tea.Batch(m.fetchFeedCmd(m.gen, 1), m.spinner.Tick)
}

// loadMore appends the next page; the busy flag and the last-page check
// make it a no-op while a request is in flight or at the end of the feed.
func (m Model) loadMore() (tea.Model, tea.Cmd) {
	switch m.nav.Current() {
	case nav.ScreenMovies:
		if m.feed.loading || m.feed.page >= m.feed.totalPages {
			return m, nil
		}
		m.gen++
		m.feed.loading = true
		return m, tea.Batch(m.fetchFeedCmd(m.gen, m.feed.page+1), m.spinner.Tick)
	case nav.ScreenSearch:
		if !m.session.CanLoadMore() {
			return m, nil
		}
		m.gen++
		m.session.Loading = true
		return m, tea.Batch(m.fetchSearchCmd(m.gen, m.session.Query, m.session.Page+1), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) openSelected(l list.Model) (tea.Model, tea.Cmd) {
	item, ok := l.SelectedItem().(movieItem)
	if !ok {
		return m, nil
	}
	if err := m.nav.OpenDetail(item.movie.ID); err != nil {
		return m, nil
	}
	m.gen++
	m.detail = detailState{movieID: item.movie.ID, loading: true}
	return m, tea.Batch(m.fetchDetailCmd(m.gen, item.movie.ID), m.spinner.Tick)
}

func (m Model) toggleSelectedFavorite() (tea.Model, tea.Cmd) {
	switch m.nav.Current() {
	case nav.ScreenDetail:
		if m.detail.movie != nil {
			return m, m.toggleFavoriteCmd(m.detail.movieID)
		}
	case nav.ScreenMovies:
		if item, ok := m.moviesList.SelectedItem().(movieItem); ok {
			return m, m.toggleFavoriteCmd(item.movie.ID)
		}
	case nav.ScreenSearch:
		if item, ok := m.searchList.SelectedItem().(movieItem); ok {
			return m, m.toggleFavoriteCmd(item.movie.ID)
		}
	case nav.ScreenFavorites:
		if item, ok := m.favList.SelectedItem().(movieItem); ok {
			return m, m.toggleFavoriteCmd(item.movie.ID)
		}
	}
	return m, nil
}

// navigateTo is the bottom bar: ordinary navigation that drops whatever the
// left screen had in flight. Leaving search persists the session first.
func (m Model) navigateTo(screen nav.Screen) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.nav.Current() == nav.ScreenSearch && screen != nav.ScreenSearch {
		cmds = append(cmds, m.saveSearchCmd())
	}
	if err := m.nav.NavigateTo(screen); err != nil {
		return m, nil
	}
	if cmd := m.mountScreen(screen); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) goBackFromDetail() (tea.Model, tea.Cmd) {
	target := m.nav.GoBack()
	if cmd := m.mountScreen(target); cmd != nil {
		return m, cmd
	}
	return m, nil
}

// mountScreen bumps the generation so in-flight fetches of the previous
// screen are dropped, and kicks off whatever the new screen needs.
func (m *Model) mountScreen(screen nav.Screen) tea.Cmd {
	m.gen++
	switch screen {
	case nav.ScreenMovies:
		if len(m.feed.movies) == 0 && !m.feed.loading {
			m.feed.loading = true
			m.feed.page = 1
			return tea.Batch(m.fetchFeedCmd(m.gen, 1), m.spinner.Tick)
		}
	case nav.ScreenSearch:
		if m.nav.TakeRestoreSearch() {
			return m.restoreSearchCmd(m.gen)
		}
		if !m.session.Searched {
			m.searchFocus = true
			return m.searchInput.Focus()
		}
	case nav.ScreenFavorites:
		m.favLoading = true
		return tea.Batch(m.fetchFavoritesCmd(m.gen), m.spinner.Tick)
	}
	return nil
}

func (m Model) anythingLoading() bool {
	return m.feed.loading || m.session.Loading || m.favLoading || m.detail.loading
}

func (m *Model) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 7
	if h < 6 {
		h = 6
	}
	m.moviesList.SetSize(m.width, h)
	m.searchList.SetSize(m.width, h-2)
	m.favList.SetSize(m.width, h)
}

// ---- view ------------------------------------------------------------------

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func hint(text string) string {
	return faintStyle.Render(text)
}

func (m Model) View() string {
	var body string
	switch m.nav.Current() {
	case nav.ScreenMovies:
		body = m.moviesView()
	case nav.ScreenSearch:
		body = m.searchView()
	case nav.ScreenFavorites:
		body = m.favoritesView()
	case nav.ScreenAbout:
		body = m.aboutView()
	case nav.ScreenDetail:
		body = m.detailView()
	}
	return m.headerView() + "\n\n" + body + "\n" + m.footerView()
}

func (m Model) headerView() string {
	return titleStyle.Render("CARTAZ") + " " + faintStyle.Render("• filmes em exibição")
}

func (m Model) footerView() string {
	if m.nav.Current() == nav.ScreenDetail {
		return ""
	}
	tabs := []struct {
		key    string
		label  string
		screen nav.Screen
	}{
		{"1", "Filmes", nav.ScreenMovies},
		{"2", "Pesquisar", nav.ScreenSearch},
		{"3", "Favoritos", nav.ScreenFavorites},
		{"4", "Sobre", nav.ScreenAbout},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.key + " " + t.label
		if m.nav.Current() == t.screen {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, faintStyle.Render(label))
		}
	}
	return "\n" + strings.Join(parts, "   ") + "   " + faintStyle.Render("q sair")
}

func (m Model) loadingView(title string) string {
	return fmt.Sprintf("%s %s", m.spinner.View(), title+"...")
}

func (m Model) moviesView() string {
	if m.feed.loading && len(m.feed.movies) == 0 {
		return m.loadingView("Carregando filmes")
	}
	if m.feed.status == tmdb.StatusFailed && len(m.feed.movies) == 0 {
		return errorStyle.Render("Não foi possível carregar os filmes em cartaz") +
			"\n\n" + hint("enter tentar novamente")
	}
	if len(m.feed.movies) == 0 {
		return "Nenhum filme em cartaz no momento"
	}
	footer := hint("enter detalhes • f favoritar • r atualizar")
	if m.feed.page < m.feed.totalPages {
		suffix := ""
		if m.feed.loading {
			suffix = "  " + m.spinner.View() + " carregando"
		}
		footer = hint(fmt.Sprintf("enter detalhes • f favoritar • m mais (página %d/%d) • r atualizar", m.feed.page, m.feed.totalPages)) + suffix
	}
	return m.moviesList.View() + "\n" + footer
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	if m.searchNote != "" {
		b.WriteString(errorStyle.Render(m.searchNote))
		b.WriteString("\n")
	}
	switch {
	case m.session.Loading:
		b.WriteString(m.loadingView("Pesquisando"))
	case m.searchStatus == tmdb.StatusFailed && len(m.session.Results) == 0:
		b.WriteString(errorStyle.Render("Não foi possível concluir a pesquisa"))
		b.WriteString("\n" + hint("/ editar a busca e enter para tentar novamente"))
	case m.session.Searched && len(m.session.Results) == 0:
		b.WriteString(fmt.Sprintf("Nenhum resultado para %q", m.session.Query))
	case m.session.Searched:
		b.WriteString(m.searchList.View())
		b.WriteString("\n")
		if m.searchStatus == tmdb.StatusFailed {
			// failed load-more keeps the pages already on screen
			b.WriteString(errorStyle.Render("Não foi possível carregar mais resultados"))
			b.WriteString("\n")
		}
		hints := "enter detalhes • f favoritar • / nova busca • x limpar"
		if m.session.CanLoadMore() {
			hints = fmt.Sprintf("enter detalhes • f favoritar • m mais (página %d/%d) • / nova busca • x limpar",
				m.session.Page, m.session.TotalPages)
		}
		b.WriteString(hint(hints))
	default:
		b.WriteString(hint("Digite um termo e pressione enter"))
	}
	return b.String()
}

func (m Model) favoritesView() string {
	if m.favLoading {
		return m.loadingView("Carregando favoritos")
	}
	if m.favLoaded && len(m.favList.Items()) == 0 {
		if m.favFailed > 0 {
			return errorStyle.Render("Não foi possível carregar os favoritos")
		}
		return "Nenhum favorito ainda\n\n" + hint("marque filmes com f para vê-los aqui")
	}
	view := m.favList.View()
	if m.favFailed > 0 {
		view += "\n" + errorStyle.Render(fmt.Sprintf("%d favorito(s) não puderam ser carregados", m.favFailed))
	}
	return view + "\n" + hint("enter detalhes • f remover dos favoritos")
}

func (m Model) aboutView() string {
	return strings.Join([]string{
		titleStyle.Render("Sobre o Cartaz"),
		"",
		"Cliente de terminal para acompanhar os filmes em cartaz,",
		"pesquisar títulos e guardar favoritos.",
		"",
		faintStyle.Render("Dados fornecidos por The Movie Database (TMDB)."),
		faintStyle.Render("Este produto usa a API do TMDB sem endosso ou certificação."),
	}, "\n")
}
