package service

import (
	"context"
	"fmt"
	"movie_curator/internal/repository"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"sort"
)

type ICollectionWatcher interface {
	Watch(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error
}

type CollectionWatcher struct {
	movieRepo repository.IMovieRepository
}

func NewCollectionWatcher(movieRepo repository.IMovieRepository) *CollectionWatcher {
	return &CollectionWatcher{movieRepo: movieRepo}
}

//------------------------------------------
//------------------------------------------

// Watch delivers every snapshot of the user's collection ordered by creation
// time until ctx is cancelled. Listener failures are reported and returned.
func (w *CollectionWatcher) Watch(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error {
	err := w.movieRepo.WatchMovies(ctx, userId, func(records []model.MovieRecord) {
		SortByCreatedAt(records)
		onSnapshot(records)
	})
	if err != nil {
		errorMessage := fmt.Sprintf("Error fetching movies of user %s: %s", userId, err)
		errorHandler.SaveError(errorMessage, err)
	}
	return err
}

// SortByCreatedAt orders records ascending; a missing timestamp sorts first.
func SortByCreatedAt(records []model.MovieRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
