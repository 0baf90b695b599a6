package tmdb

// titled carries both spellings: movies use title/release_date, series name/first_air_date.
type titled struct {
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

func (t titled) title() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

func (t titled) date() string {
	if t.ReleaseDate != "" {
		return t.ReleaseDate
	}
	return t.FirstAirDate
}

type searchItem struct {
	titled
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Overview  string `json:"overview"`
}

type searchPage struct {
	Page    int          `json:"page"`
	Results []searchItem `json:"results"`
}

type genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type details struct {
	titled
	ID          int64   `json:"id"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []genre `json:"genres"`
}
