package entity

import "strconv"

type MediaType string

const (
	MediaMovie  MediaType = "movie"
	MediaSeries MediaType = "series"
	// mediaTV is how the catalog, and records written by earlier releases, name series.
	mediaTV MediaType = "tv"
)

// Canonical folds legacy and catalog spellings into MediaMovie or MediaSeries.
// Records without a type are treated as series.
func (m MediaType) Canonical() MediaType {
	switch m {
	case MediaMovie:
		return MediaMovie
	default:
		return MediaSeries
	}
}

// Label is the short upper-case tag shown on search result buttons.
func (m MediaType) Label() string {
	if m.Canonical() == MediaMovie {
		return "MOVIE"
	}
	return "TV"
}

// ParseCatalogType maps the catalog's media_type values; ok is false for people, collections etc.
func ParseCatalogType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaMovie:
		return MediaMovie, true
	case mediaTV, MediaSeries:
		return MediaSeries, true
	}
	return "", false
}

// SearchResult is one candidate offered to the operator during setup.
type SearchResult struct {
	CatalogId int64     `json:"id"`
	MediaType MediaType `json:"media_type"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	Overview  string    `json:"overview"`
}

// Details is what the redirect preview is rendered from.
type Details struct {
	Title     string
	Year      string
	Rating    float64 // negative when unknown
	Genres    string
	Overview  string
	PosterURL string
}

// MinimalDetails is the fallback preview built from the stored record alone.
func MinimalDetails(title string) *Details {
	return &Details{
		Title:    title,
		Year:     "N/A",
		Rating:   -1,
		Genres:   "Unknown",
		Overview: "No description available.",
	}
}

func (d *Details) RatingLabel() string {
	if d.Rating < 0 {
		return "N/A"
	}
	return strconv.FormatFloat(d.Rating, 'f', 1, 64)
}

func (d *Details) HasPoster() bool {
	return d.PosterURL != ""
}
