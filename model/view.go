package model

// Feedback marks a search result that was just added to a list.
type Feedback struct {
	ExternalId string     `json:"externalId"`
	Status     ListStatus `json:"status"`
}

type MovieView struct {
	MovieRecord
	Loading bool `json:"loading"`
}

type SearchResultView struct {
	SearchResult
	AddedToWatched   bool `json:"addedToWatched"`
	AddedToWatchlist bool `json:"addedToWatchlist"`
}

type View struct {
	Tab           Tab                  `json:"tab"`
	Movies        []MovieView          `json:"movies"`
	SearchResults []SearchResultView   `json:"searchResults"`
	Searching     bool                 `json:"searching"`
	EmptyMessage  string               `json:"emptyMessage"`
	WatchedCount  int                  `json:"watchedCount"`
	CanAnalyze    bool                 `json:"canAnalyze"`
	AnalysisHint  string               `json:"analysisHint"`
	Analyzing     bool                 `json:"analyzing"`
	Analysis      *TasteAnalysisResult `json:"analysis"`
	Error         string               `json:"error"`
}
