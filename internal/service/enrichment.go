package service

import (
	"context"
	"fmt"
	"movie_curator/internal/repository"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/metrics"
	"sync"
)

const noDetailsFound = "No details found."

type IMetadataProvider interface {
	LookupByTitle(ctx context.Context, title string) (*model.MovieDetails, error)
	SearchByQuery(ctx context.Context, query string) ([]model.SearchResult, error)
}

type IEnrichmentTracker interface {
	Enrich(ctx context.Context, userId string, movieId string, title string) bool
	IsPending(userId string, movieId string) bool
	PendingIds(userId string) map[string]bool
}

type EnrichmentTracker struct {
	movieRepo repository.IMovieRepository
	metadata  IMetadataProvider
	mux       sync.Mutex
	pending   map[string]map[string]struct{}
	onChange  func(userId string)
}

func NewEnrichmentTracker(movieRepo repository.IMovieRepository, metadata IMetadataProvider) *EnrichmentTracker {
	return &EnrichmentTracker{
		movieRepo: movieRepo,
		metadata:  metadata,
		pending:   make(map[string]map[string]struct{}),
	}
}

// OnChange registers a callback run whenever a user's pending set changes.
func (e *EnrichmentTracker) OnChange(fn func(userId string)) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.onChange = fn
}

//------------------------------------------
//------------------------------------------

// Enrich fetches details for one record and writes them back. It returns false
// without doing anything when the record is already being enriched. A failed or
// unknown lookup leaves the record as it is.
func (e *EnrichmentTracker) Enrich(ctx context.Context, userId string, movieId string, title string) bool {
	if !e.start(userId, movieId) {
		return false
	}
	defer e.finish(userId, movieId)

	details, err := e.metadata.LookupByTitle(ctx, title)
	if err != nil {
		errorMessage := fmt.Sprintf("Failed to get details for %s: %s", title, err)
		errorHandler.SaveError(errorMessage, err)
		return true
	}
	if details == nil || !details.Found {
		// left untouched, null metadata reads as "no data available"
		logger.Debug().Str("title", title).Msg("no details found")
		return true
	}

	err = e.movieRepo.UpdateMovie(ctx, userId, movieId, map[string]interface{}{
		"description": details.Description,
		"posterUrl":   details.PosterUrl,
	})
	if err != nil {
		errorMessage := fmt.Sprintf("Failed to save details for %s: %s", title, err)
		errorHandler.SaveError(errorMessage, err)
	}
	return true
}

func (e *EnrichmentTracker) IsPending(userId string, movieId string) bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	_, ok := e.pending[userId][movieId]
	return ok
}

func (e *EnrichmentTracker) PendingIds(userId string) map[string]bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	ids := make(map[string]bool, len(e.pending[userId]))
	for id := range e.pending[userId] {
		ids[id] = true
	}
	return ids
}

//------------------------------------------
//------------------------------------------

func (e *EnrichmentTracker) start(userId string, movieId string) bool {
	e.mux.Lock()
	ids, ok := e.pending[userId]
	if !ok {
		ids = make(map[string]struct{})
		e.pending[userId] = ids
	}
	if _, exist := ids[movieId]; exist {
		e.mux.Unlock()
		return false
	}
	ids[movieId] = struct{}{}
	onChange := e.onChange
	e.mux.Unlock()

	metrics.EnrichmentPending.Inc()
	if onChange != nil {
		onChange(userId)
	}
	return true
}

func (e *EnrichmentTracker) finish(userId string, movieId string) {
	e.mux.Lock()
	delete(e.pending[userId], movieId)
	if len(e.pending[userId]) == 0 {
		delete(e.pending, userId)
	}
	onChange := e.onChange
	e.mux.Unlock()

	metrics.EnrichmentPending.Dec()
	if onChange != nil {
		onChange(userId)
	}
}

//------------------------------------------
//------------------------------------------

// GetMovieDetails looks a title up exactly. An unknown title is not an error:
// it yields no poster and a placeholder description.
func GetMovieDetails(ctx context.Context, metadata IMetadataProvider, title string) (*model.MovieDetails, error) {
	details, err := metadata.LookupByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if details == nil || !details.Found {
		description := noDetailsFound
		return &model.MovieDetails{Found: false, PosterUrl: nil, Description: &description}, nil
	}
	return details, nil
}
