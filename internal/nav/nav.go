package nav

import "errors"

// Screen enumerates the app's destinations. Detail is the only one reached
// by explicit navigation with params; the rest sit on the bottom bar.
type Screen int

const (
	ScreenMovies Screen = iota
	ScreenSearch
	ScreenFavorites
	ScreenAbout
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenMovies:
		return "movies"
	case ScreenSearch:
		return "search"
	case ScreenFavorites:
		return "favorites"
	case ScreenAbout:
		return "about"
	case ScreenDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// DetailParams is the only required parameter bag. Origin is recorded by
// the controller when the detail screen is opened, so going back always
// returns to the true source screen no matter how many detail visits
// happened in between.
type DetailParams struct {
	MovieID int
	Origin  Screen
}

// SearchParams asks the search screen to restore its persisted session.
// The flag is one-shot: reading it clears it.
type SearchParams struct {
	RestoreSearch bool
}

var (
	ErrMissingMovieID = errors.New("detail screen requires a movie id")
	ErrDetailDirect   = errors.New("detail screen is not reachable from the bottom bar")
)

// Controller owns the current screen and the per-destination params.
type Controller struct {
	current Screen
	detail  DetailParams
	search  SearchParams
}

func New() *Controller {
	return &Controller{current: ScreenMovies}
}

func (c *Controller) Current() Screen { return c.current }

// Detail returns the params of the mounted detail screen.
func (c *Controller) Detail() DetailParams { return c.detail }

// TakeRestoreSearch reads and clears the restore flag, so a later visit to
// the search screen does not re-trigger a restore.
func (c *Controller) TakeRestoreSearch() bool {
	v := c.search.RestoreSearch
	c.search.RestoreSearch = false
	return v
}

// OpenDetail navigates to the detail screen for a movie, recording the
// current screen as the origin to return to.
func (c *Controller) OpenDetail(movieID int) error {
	if movieID <= 0 {
		return ErrMissingMovieID
	}
	c.detail = DetailParams{MovieID: movieID, Origin: c.current}
	c.current = ScreenDetail
	return nil
}

// NavigateTo switches to a bottom-bar destination, discarding the params
// of whatever screen is being left.
func (c *Controller) NavigateTo(screen Screen) error {
	if screen == ScreenDetail {
		return ErrDetailDirect
	}
	c.detail = DetailParams{}
	c.current = screen
	return nil
}

// GoBack leaves the detail screen for its origin. Returning to search
// arms the one-shot restore flag; from anywhere else it is a no-op.
func (c *Controller) GoBack() Screen {
	if c.current != ScreenDetail {
		return c.current
	}
	target := c.detail.Origin
	if target == ScreenDetail {
		target = ScreenMovies
	}
	if target == ScreenSearch {
		c.search.RestoreSearch = true
	}
	c.detail = DetailParams{}
	c.current = target
	return target
}
