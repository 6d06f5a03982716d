package service

import (
	"context"
	"fmt"
	"movie_curator/configs"
	"movie_curator/internal/repository"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"strings"
	"time"
)

const (
	minSearchLength  = 2
	msgUpdateFailed  = "Failed to update your list."
	msgAddFailed     = "Failed to add the movie."
	enrichWorkers    = 4
	enrichQueueLimit = 1000
)

type IMovieService interface {
	View(s *Session, tab model.Tab) model.View
	GetView(ctx context.Context, s *Session, tab model.Tab) (model.View, error)
	AddMovie(ctx context.Context, s *Session, req *model.AddMovieReq) (*model.AddMovieRes, error)
	RemoveFromList(ctx context.Context, s *Session, movieId string, tab model.Tab) error
	ToggleStatus(ctx context.Context, s *Session, movieId string, tab model.Tab) error
	Search(ctx context.Context, s *Session, query string) ([]model.SearchResultView, error)
	QueueSearch(s *Session, query string)
	AnalyzeTaste(ctx context.Context, s *Session) (*model.TasteAnalysisResult, error)
}

type MovieService struct {
	movieRepo     repository.IMovieRepository
	tracker       IEnrichmentTracker
	queue         *EnrichmentQueue
	metadata      IMetadataProvider
	analysis      ITasteAnalysisService
	variant       configs.ListVariant
	syncWait      time.Duration
	lookupTimeout time.Duration
}

type MovieServiceOptions struct {
	Variant       configs.ListVariant
	SyncWait      time.Duration
	LookupTimeout time.Duration
}

func NewMovieService(movieRepo repository.IMovieRepository, tracker IEnrichmentTracker, metadata IMetadataProvider,
	analysis ITasteAnalysisService, options MovieServiceOptions) *MovieService {
	m := &MovieService{
		movieRepo:     movieRepo,
		tracker:       tracker,
		queue:         NewEnrichmentQueue(enrichWorkers, enrichQueueLimit),
		metadata:      metadata,
		analysis:      analysis,
		variant:       options.Variant,
		syncWait:      options.SyncWait,
		lookupTimeout: options.LookupTimeout,
	}
	if m.variant == "" {
		m.variant = configs.DualList
	}
	if m.syncWait <= 0 {
		m.syncWait = 10 * time.Second
	}
	if m.lookupTimeout <= 0 {
		m.lookupTimeout = 10 * time.Second
	}

	m.queue.Start(m.consumeEnrichment)
	return m
}

func (m *MovieService) Close() {
	m.queue.Close()
}

//------------------------------------------
//------------------------------------------

func (m *MovieService) View(s *Session, tab model.Tab) model.View {
	state := s.State()
	return ProjectView(ViewInput{
		Records:       state.Records,
		Tab:           tab,
		Variant:       m.variant,
		SearchResults: state.SearchResults,
		Searching:     state.Searching,
		Feedback:      state.Feedback,
		Pending:       m.tracker.PendingIds(s.UserId),
		Analysis:      state.Analysis,
		Analyzing:     state.Analyzing,
		Error:         state.LastError,
	})
}

// GetView waits for the first snapshot so a fresh session is not shown empty.
func (m *MovieService) GetView(ctx context.Context, s *Session, tab model.Tab) (model.View, error) {
	if err := m.waitSynced(ctx, s); err != nil {
		return model.View{}, err
	}
	return m.View(s, tab), nil
}

//------------------------------------------
//------------------------------------------

// AddMovie adds a title to a list. A title already in the collection, compared
// case-insensitively, is updated in place instead of inserted twice.
func (m *MovieService) AddMovie(ctx context.Context, s *Session, req *model.AddMovieReq) (*model.AddMovieRes, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrEmptyTitle
	}
	if !req.Status.IsValid() {
		return nil, model.ErrInvalidStatus
	}
	if err := m.waitSynced(ctx, s); err != nil {
		return nil, err
	}

	// the lookup and the insert must not interleave with another add of the session
	s.addMux.Lock()
	defer s.addMux.Unlock()

	var res *model.AddMovieRes
	if existing := s.findByTitle(title); existing != nil {
		mutation := PlanAdd(existing, req.Status, m.variant)
		if err := m.applyMutation(ctx, s.UserId, existing.Id, mutation); err != nil {
			return nil, err
		}
		s.applyToPendingInsert(existing.Id, mutation)
		res = &model.AddMovieRes{Id: existing.Id, Title: existing.Title, Existing: true}
	} else {
		movie := &model.NewMovie{
			Title:             title,
			Watched:           req.Status == model.StatusWatched,
			OnWatchlist:       m.variant == configs.DualList && req.Status == model.StatusToWatch,
			WithWatchlistFlag: m.variant == configs.DualList,
		}
		id, err := m.movieRepo.InsertMovie(ctx, s.UserId, movie)
		if err != nil {
			errorMessage := fmt.Sprintf("Error adding movie %s: %s", title, err)
			errorHandler.SaveError(errorMessage, err)
			return nil, model.NewTransportError(msgAddFailed, err)
		}
		s.rememberInsert(model.MovieRecord{Id: id, Title: title, Watched: movie.Watched, OnWatchlist: movie.OnWatchlist})
		m.dispatchEnrichment(s.UserId, id, title)
		res = &model.AddMovieRes{Id: id, Title: title, Existing: false}
	}

	if req.ExternalId != "" {
		s.setFeedback(&model.Feedback{ExternalId: req.ExternalId, Status: req.Status})
	}
	return res, nil
}

func (m *MovieService) RemoveFromList(ctx context.Context, s *Session, movieId string, tab model.Tab) error {
	record, err := m.findRecord(ctx, s, movieId, tab)
	if err != nil {
		return err
	}
	mutation, err := PlanRemoval(record, tab, m.variant)
	if err != nil {
		return err
	}
	return m.applyMutation(ctx, s.UserId, record.Id, mutation)
}

func (m *MovieService) ToggleStatus(ctx context.Context, s *Session, movieId string, tab model.Tab) error {
	record, err := m.findRecord(ctx, s, movieId, tab)
	if err != nil {
		return err
	}
	mutation, err := PlanToggle(record, tab, m.variant)
	if err != nil {
		return err
	}
	if err = m.applyMutation(ctx, s.UserId, record.Id, mutation); err != nil {
		return err
	}
	if mutation.Kind != model.MutationDelete && !record.HasDetails() {
		m.dispatchEnrichment(s.UserId, record.Id, record.Title)
	}
	return nil
}

//------------------------------------------
//------------------------------------------

// Search queries the metadata service directly. Queries shorter than two
// characters return no results without a request.
func (m *MovieService) Search(ctx context.Context, s *Session, query string) ([]model.SearchResultView, error) {
	results, err := m.search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.setSearchQuery(query)
	s.setSearchResults(query, results, "")
	return DecorateSearchResults(results, s.State().Feedback), nil
}

// QueueSearch runs the search after the debounce window; a newer query cancels
// the pending one and results of an outdated query are dropped.
func (m *MovieService) QueueSearch(s *Session, query string) {
	s.setSearchQuery(query)
	if len(strings.TrimSpace(query)) < minSearchLength {
		s.searchDebouncer.Cancel()
		s.setSearchResults(query, []model.SearchResult{}, "")
		return
	}

	s.searchDebouncer.Trigger(func() {
		if !s.setSearching(query, true) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.lookupTimeout)
		defer cancel()

		results, err := m.search(ctx, query)
		if err != nil {
			s.setSearchResults(query, []model.SearchResult{}, model.UserMessage(err))
			return
		}
		s.setSearchResults(query, results, "")
	})
}

func (m *MovieService) search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return []model.SearchResult{}, nil
	}
	if configs.GetDbConfigs().DisableSearch {
		return nil, model.ErrSearchDisabled
	}

	results, err := m.metadata.SearchByQuery(ctx, query)
	if err != nil {
		errorMessage := fmt.Sprintf("Error searching OMDb for %s: %s", query, err)
		errorHandler.SaveError(errorMessage, err)
		if model.KindOf(err) == model.KindConfiguration {
			return nil, err
		}
		return nil, model.NewTransportError(model.MsgSearchFailed, err)
	}
	return results, nil
}

//------------------------------------------
//------------------------------------------

// AnalyzeTaste runs one analysis for the session. Only a complete result
// replaces the previous one; on failure the previous result stays.
func (m *MovieService) AnalyzeTaste(ctx context.Context, s *Session) (*model.TasteAnalysisResult, error) {
	if err := m.waitSynced(ctx, s); err != nil {
		return nil, err
	}
	records := s.Records()
	if err := m.analysis.CheckPreconditions(records); err != nil {
		s.setError(model.UserMessage(err))
		return nil, err
	}
	if !s.beginAnalysis() {
		return nil, model.ErrAnalysisInProgress
	}

	result, err := m.analysis.AnalyzeTaste(ctx, records)
	if err != nil {
		s.endAnalysis(nil, model.UserMessage(err))
		return nil, err
	}
	s.endAnalysis(result, "")
	return result, nil
}

//------------------------------------------
//------------------------------------------

func (m *MovieService) waitSynced(ctx context.Context, s *Session) error {
	ctx, cancel := context.WithTimeout(ctx, m.syncWait)
	defer cancel()
	return s.WaitSynced(ctx)
}

func (m *MovieService) findRecord(ctx context.Context, s *Session, movieId string, tab model.Tab) (*model.MovieRecord, error) {
	if tab != model.TabToWatch && tab != model.TabWatched {
		return nil, model.ErrTabHasNoList
	}
	if err := m.waitSynced(ctx, s); err != nil {
		return nil, err
	}
	record := FindById(s.Records(), movieId)
	if record == nil {
		return nil, model.ErrMovieNotFound
	}
	return record, nil
}

func (m *MovieService) applyMutation(ctx context.Context, userId string, movieId string, mutation model.Mutation) error {
	var err error
	switch mutation.Kind {
	case model.MutationUpdate:
		err = m.movieRepo.UpdateMovie(ctx, userId, movieId, mutation.Fields)
	case model.MutationDelete:
		err = m.movieRepo.DeleteMovie(ctx, userId, movieId)
	default:
		return nil
	}
	if err != nil {
		errorMessage := fmt.Sprintf("Error updating movie %s of user %s: %s", movieId, userId, err)
		errorHandler.SaveError(errorMessage, err)
		return model.NewTransportError(msgUpdateFailed, err)
	}
	return nil
}

func (m *MovieService) dispatchEnrichment(userId string, movieId string, title string) {
	job := EnrichmentJob{UserId: userId, MovieId: movieId, Title: title}
	if _, err := m.queue.Enqueue(job); err != nil {
		errorMessage := fmt.Sprintf("Enrichment queue full, skipping %s", title)
		errorHandler.SaveError(errorMessage, err)
	}
}

func (m *MovieService) consumeEnrichment(wid int, job EnrichmentJob) {
	ctx, cancel := context.WithTimeout(context.Background(), m.lookupTimeout)
	defer cancel()
	m.tracker.Enrich(ctx, job.UserId, job.MovieId, job.Title)
}
