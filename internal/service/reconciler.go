package service

import (
	"movie_curator/configs"
	"movie_curator/model"
)

const MinWatchedForAnalysis = 3

const (
	emptyWatchlistMessage = "Your watchlist is empty!"
	emptyWatchedMessage   = "No movies marked as watched."
	emptySearchMessage    = "Search for movies to add them to your lists."
	analysisHintMessage   = "Mark at least 3 movies as watched to enable analysis."
)

// ViewInput is everything a projection depends on. It holds no references back
// into a session, so projecting is free of side effects.
type ViewInput struct {
	Records       []model.MovieRecord
	Tab           model.Tab
	Variant       configs.ListVariant
	SearchResults []model.SearchResult
	Searching     bool
	Feedback      *model.Feedback
	Pending       map[string]bool
	Analysis      *model.TasteAnalysisResult
	Analyzing     bool
	Error         string
}

//------------------------------------------
//------------------------------------------

func InToWatch(record *model.MovieRecord, variant configs.ListVariant) bool {
	if variant == configs.SingleList {
		return !record.Watched
	}
	return record.OnWatchlist
}

func InWatched(record *model.MovieRecord) bool {
	return record.Watched
}

func WatchedRecords(records []model.MovieRecord) []model.MovieRecord {
	result := make([]model.MovieRecord, 0, len(records))
	for i := range records {
		if InWatched(&records[i]) {
			result = append(result, records[i])
		}
	}
	return result
}

func FindByTitle(records []model.MovieRecord, title string) *model.MovieRecord {
	for i := range records {
		if records[i].SameTitle(title) {
			return &records[i]
		}
	}
	return nil
}

func FindById(records []model.MovieRecord, movieId string) *model.MovieRecord {
	for i := range records {
		if records[i].Id == movieId {
			return &records[i]
		}
	}
	return nil
}

//------------------------------------------
//------------------------------------------

// ProjectView derives the list or search view of one tab. Records are expected
// in creation order and the order is kept.
func ProjectView(in ViewInput) model.View {
	view := model.View{
		Tab:           in.Tab,
		Movies:        []model.MovieView{},
		SearchResults: []model.SearchResultView{},
		Searching:     in.Searching,
		Analyzing:     in.Analyzing,
		Analysis:      in.Analysis,
		Error:         in.Error,
	}

	for i := range in.Records {
		if InWatched(&in.Records[i]) {
			view.WatchedCount++
		}
	}
	view.CanAnalyze = view.WatchedCount >= MinWatchedForAnalysis && !in.Analyzing
	if view.WatchedCount < MinWatchedForAnalysis {
		view.AnalysisHint = analysisHintMessage
	}

	switch in.Tab {
	case model.TabToWatch, model.TabWatched:
		for i := range in.Records {
			record := &in.Records[i]
			if (in.Tab == model.TabToWatch && InToWatch(record, in.Variant)) ||
				(in.Tab == model.TabWatched && InWatched(record)) {
				view.Movies = append(view.Movies, model.MovieView{
					MovieRecord: *record,
					Loading:     in.Pending[record.Id],
				})
			}
		}
		if len(view.Movies) == 0 {
			if in.Tab == model.TabToWatch {
				view.EmptyMessage = emptyWatchlistMessage
			} else {
				view.EmptyMessage = emptyWatchedMessage
			}
		}
	default:
		view.SearchResults = DecorateSearchResults(in.SearchResults, in.Feedback)
		if len(view.SearchResults) == 0 && !in.Searching {
			view.EmptyMessage = emptySearchMessage
		}
	}

	return view
}

// DecorateSearchResults marks the result that was just added to a list.
func DecorateSearchResults(results []model.SearchResult, feedback *model.Feedback) []model.SearchResultView {
	views := make([]model.SearchResultView, 0, len(results))
	for _, r := range results {
		v := model.SearchResultView{SearchResult: r}
		if feedback != nil && r.ExternalId != "" && feedback.ExternalId == r.ExternalId {
			v.AddedToWatched = feedback.Status == model.StatusWatched
			v.AddedToWatchlist = feedback.Status == model.StatusToWatch
		}
		views = append(views, v)
	}
	return views
}

//------------------------------------------
//------------------------------------------

// PlanAdd returns the write needed when the added title already exists.
func PlanAdd(existing *model.MovieRecord, status model.ListStatus, variant configs.ListVariant) model.Mutation {
	switch {
	case status == model.StatusWatched && !existing.Watched:
		return updateMutation("watched", true)
	case status == model.StatusToWatch && variant == configs.DualList && !existing.OnWatchlist:
		return updateMutation("onWatchlist", true)
	}
	return model.Mutation{Kind: model.MutationNone}
}

// PlanRemoval removes a record from the list shown by tab. With two lists a
// record that still belongs to the other list only loses its flag.
func PlanRemoval(record *model.MovieRecord, tab model.Tab, variant configs.ListVariant) (model.Mutation, error) {
	if tab != model.TabToWatch && tab != model.TabWatched {
		return model.Mutation{}, model.ErrTabHasNoList
	}
	if variant == configs.SingleList {
		return model.Mutation{Kind: model.MutationDelete}, nil
	}

	if tab == model.TabToWatch {
		if record.Watched {
			return updateMutation("onWatchlist", false), nil
		}
		return model.Mutation{Kind: model.MutationDelete}, nil
	}
	if record.OnWatchlist {
		return updateMutation("watched", false), nil
	}
	return model.Mutation{Kind: model.MutationDelete}, nil
}

// PlanToggle flips the flag the tab toggles. A record left in no list is deleted.
func PlanToggle(record *model.MovieRecord, tab model.Tab, variant configs.ListVariant) (model.Mutation, error) {
	if tab != model.TabToWatch && tab != model.TabWatched {
		return model.Mutation{}, model.ErrTabHasNoList
	}
	if variant == configs.SingleList {
		return updateMutation("watched", !record.Watched), nil
	}

	watched, onWatchlist := record.Watched, record.OnWatchlist
	var mutation model.Mutation
	if tab == model.TabToWatch {
		watched = !watched
		mutation = updateMutation("watched", watched)
	} else {
		onWatchlist = !onWatchlist
		mutation = updateMutation("onWatchlist", onWatchlist)
	}
	if !watched && !onWatchlist {
		return model.Mutation{Kind: model.MutationDelete}, nil
	}
	return mutation, nil
}

func updateMutation(field string, value bool) model.Mutation {
	return model.Mutation{
		Kind:   model.MutationUpdate,
		Fields: map[string]interface{}{field: value},
	}
}
