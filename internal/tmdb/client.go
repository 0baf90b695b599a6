package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
	"xtvredirect/entity"
	"xtvredirect/lib/sl"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p/w780"
	maxResults      = 5
	maxGenres       = 3
)

// Client is a read-only client for The Movie Database.
type Client struct {
	hc       *http.Client
	baseURL  string
	imageURL string
	apiKey   string
	log      *slog.Logger
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		hc:       &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		imageURL: defaultImageURL,
		apiKey:   apiKey,
		log:      logger.With(sl.Module("tmdb")),
	}
}

// SetBaseURL points the client at another API root.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// request performs a GET against endpoint and decodes the JSON body into out.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	log := c.log.With(slog.String("endpoint", endpoint))

	status := "ERROR"
	t1 := time.Now()
	defer func() {
		log.Debug("tmdb request completed",
			slog.String("duration", fmt.Sprintf("%.3fms", float64(time.Since(t1))/float64(time.Millisecond))),
			slog.String("status", status))
	}()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	status = resp.Status
	if resp.StatusCode >= 300 {
		log.Error("tmdb returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return fmt.Errorf("tmdb %s: %s", endpoint, resp.Status)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// Search looks up movies and series by title; people and other kinds are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	var page searchPage
	if err := c.request(ctx, "search/multi", url.Values{"query": {query}}, &page); err != nil {
		return nil, err
	}

	results := make([]entity.SearchResult, 0, maxResults)
	for _, item := range page.Results {
		mediaType, ok := entity.ParseCatalogType(item.MediaType)
		if !ok {
			continue
		}
		results = append(results, entity.SearchResult{
			CatalogId: item.ID,
			MediaType: mediaType,
			Title:     item.title(),
			Year:      year(item.date()),
			Overview:  item.Overview,
		})
		if len(results) == maxResults {
			break
		}
	}
	return results, nil
}

// Details fetches what the redirect preview shows for one title.
func (c *Client) Details(ctx context.Context, mediaType entity.MediaType, id int64) (*entity.Details, error) {
	kind := "movie"
	if mediaType.Canonical() == entity.MediaSeries {
		kind = "tv"
	}

	var d details
	if err := c.request(ctx, fmt.Sprintf("%s/%d", kind, id), nil, &d); err != nil {
		return nil, err
	}

	genres := make([]string, 0, maxGenres)
	for _, g := range d.Genres {
		if len(genres) == maxGenres {
			break
		}
		genres = append(genres, g.Name)
	}

	out := &entity.Details{
		Title:    d.title(),
		Year:     year(d.date()),
		Rating:   math.Round(d.VoteAverage*10) / 10,
		Genres:   strings.Join(genres, ", "),
		Overview: d.Overview,
	}
	if out.Overview == "" {
		out.Overview = "No description available."
	}
	if d.PosterPath != "" {
		out.PosterURL = c.imageURL + d.PosterPath
	}
	return out, nil
}

func year(date string) string {
	if len(date) < 4 {
		return "N/A"
	}
	return date[:4]
}
