package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"cartaz/pkg/requestctx"
)

// Status tells callers whether an empty result is real or the residue of a
// failed call. Methods never return errors; screens use Status to decide
// between "no results" and "try again".
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

type Client struct {
	APIKey           string
	BaseURL          string
	Language         string
	FallbackLanguage string
	Client           *http.Client
}

type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	GenreIDs     []int   `json:"genre_ids"`
	Genres       []Genre `json:"genres"`
	Runtime      int     `json:"runtime"`

	// TranslatedOverview marks an overview back-filled from the fallback
	// locale because the primary locale returned a blank one.
	TranslatedOverview bool `json:"-"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Cast struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type Crew struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type Credits struct {
	ID   int    `json:"id"`
	Cast []Cast `json:"cast"`
	Crew []Crew `json:"crew"`
}

type MovieResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Status       Status  `json:"-"`
}

type detailResp struct {
	Movie
	Credits *Credits `json:"credits"`
}

func New(apiKey, language, fallbackLanguage string) *Client {
	return &Client{
		APIKey:           apiKey,
		BaseURL:          "https://api.themoviedb.org/3",
		Language:         language,
		FallbackLanguage: fallbackLanguage,
		Client:           &http.Client{Timeout: 10 * time.Second},
	}
}

// punctuation-or-whitespace-only strings count as blank; the API sometimes
// fills untranslated overviews with a lone "." or "-".
var blankOverview = regexp.MustCompile(`^[.,/#!$%^&*;:{}=\-_` + "`" + `~()\s]+$`)

func overviewMissing(s string) bool {
	return strings.TrimSpace(s) == "" || blankOverview.MatchString(s)
}

func emptyResponse(status Status) MovieResponse {
	return MovieResponse{Page: 1, Results: []Movie{}, TotalPages: 0, TotalResults: 0, Status: status}
}

// get performs one API call with the fixed locale preference applied.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.APIKey == "" {
		return fmt.Errorf("missing TMDB API key")
	}
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("language", c.Language)
	q.Set("include_image_language", c.Language+",null")
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("tmdb status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// fillOverview issues at most one fallback-locale request for a movie whose
// overview came back blank and back-fills only that field.
func (c *Client) fillOverview(ctx context.Context, m *Movie) {
	if !overviewMissing(m.Overview) || c.FallbackLanguage == "" {
		return
	}
	u, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.BaseURL, m.ID))
	if err != nil {
		return
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("language", c.FallbackLanguage)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		c.logErr(ctx, err, "overview fallback", "movie_id", strconv.Itoa(m.ID))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logErr(ctx, fmt.Errorf("tmdb status %d", resp.StatusCode), "overview fallback", "movie_id", strconv.Itoa(m.ID))
		return
	}
	var fb Movie
	if err := json.NewDecoder(resp.Body).Decode(&fb); err != nil {
		c.logErr(ctx, err, "overview fallback", "movie_id", strconv.Itoa(m.ID))
		return
	}
	if overviewMissing(fb.Overview) {
		return
	}
	m.Overview = "(em inglês) " + fb.Overview
	m.TranslatedOverview = true
}

// fillOverviews back-fills a page of results, touching only movies whose
// overview is blank so a page costs at most one extra request per such movie.
func (c *Client) fillOverviews(ctx context.Context, movies []Movie) {
	for i := range movies {
		if overviewMissing(movies[i].Overview) {
			c.fillOverview(ctx, &movies[i])
		}
	}
}

// ListNowPlaying fetches one page of the in-theaters feed.
func (c *Client) ListNowPlaying(ctx context.Context, page int) MovieResponse {
	if page < 1 {
		page = 1
	}
	var out MovieResponse
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if err := c.get(ctx, "/movie/now_playing", params, &out); err != nil {
		c.logErr(ctx, err, "now playing", "page", strconv.Itoa(page))
		return emptyResponse(StatusFailed)
	}
	c.fillOverviews(ctx, out.Results)
	out.Status = StatusOK
	if len(out.Results) == 0 {
		out.Status = StatusEmpty
	}
	return out
}

// Search fetches one page of keyword search results. A blank query never
// reaches the network.
func (c *Client) Search(ctx context.Context, query string, page int) MovieResponse {
	if strings.TrimSpace(query) == "" {
		return emptyResponse(StatusEmpty)
	}
	if page < 1 {
		page = 1
	}
	var out MovieResponse
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		c.logErr(ctx, err, "search", "query", query)
		return emptyResponse(StatusFailed)
	}
	c.fillOverviews(ctx, out.Results)
	out.Status = StatusOK
	if len(out.Results) == 0 {
		out.Status = StatusEmpty
	}
	return out
}

// GetDetails fetches a movie with its credits appended. Both return values
// are nil when the upstream call fails for any reason.
func (c *Client) GetDetails(ctx context.Context, movieID int) (*Movie, *Credits) {
	var out detailResp
	params := url.Values{}
	params.Set("append_to_response", "credits")
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &out); err != nil {
		c.logErr(ctx, err, "movie details", "movie_id", strconv.Itoa(movieID))
		return nil, nil
	}
	c.fillOverview(ctx, &out.Movie)
	return &out.Movie, out.Credits
}

// GetCredits fetches the cast and crew for a movie. Returns nil on failure.
func (c *Client) GetCredits(ctx context.Context, movieID int) *Credits {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &out); err != nil {
		c.logErr(ctx, err, "movie credits", "movie_id", strconv.Itoa(movieID))
		return nil
	}
	return &out
}

func (c *Client) logErr(ctx context.Context, err error, call string, key, val string) {
	log.Error().
		Err(err).
		Str("call", call).
		Str(key, val).
		Str("correlation_id", requestctx.CorrelationID(ctx)).
		Msg("tmdb request failed")
}
