package models

// CatalogMovie is one TMDB search result, the minimum we know about a movie
// before enrichment.
type CatalogMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// EnrichedMovie is the canonical record returned to clients: search-result
// fields plus detail, credit, video and watch-provider data. Every enrichment
// field has a defined default so a failed detail lookup degrades to a partial
// record instead of dropping the movie.
type EnrichedMovie struct {
	CatalogMovie

	Runtime    int                        `json:"runtime"`
	Genres     []Genre                    `json:"genres"`
	Credits    Credits                    `json:"credits"`
	Director   string                     `json:"director"`
	Videos     []Video                    `json:"videos"`
	SimilarIDs []int                      `json:"similar_ids"`
	Providers  map[string][]WatchProvider `json:"providers"` // region -> providers, nil when unavailable
	Status     string                     `json:"status"`
	Tagline    string                     `json:"tagline"`
}

// NewEnrichedMovie returns an EnrichedMovie carrying only catalog fields,
// with every enrichment field at its default.
func NewEnrichedMovie(cm CatalogMovie) EnrichedMovie {
	return EnrichedMovie{
		CatalogMovie: cm,
		Runtime:      0,
		Genres:       []Genre{},
		Credits:      Credits{Cast: []CastMember{}, Crew: []CrewMember{}},
		Videos:       []Video{},
		SimilarIDs:   []int{},
		Providers:    nil,
		Status:       "Unknown",
		Tagline:      "",
	}
}
