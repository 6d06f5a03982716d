package repository

import (
	"context"
	"errors"
	"fmt"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
)

type IMovieRepository interface {
	WatchMovies(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error
	InsertMovie(ctx context.Context, userId string, movie *model.NewMovie) (string, error)
	UpdateMovie(ctx context.Context, userId string, movieId string, fields map[string]interface{}) error
	DeleteMovie(ctx context.Context, userId string, movieId string) error
}

type MovieRepository struct {
	firestore *firestore.Client
	appId     string
}

func NewMovieRepository(firestoreClient *firestore.Client, appId string) *MovieRepository {
	return &MovieRepository{firestore: firestoreClient, appId: appId}
}

var ErrMalformedRecord = errors.New("malformed movie record")

//------------------------------------------
//------------------------------------------

func MoviesCollectionPath(appId string, userId string) string {
	return fmt.Sprintf("artifacts/%s/users/%s/movies", appId, userId)
}

func (m *MovieRepository) collection(userId string) *firestore.CollectionRef {
	return m.firestore.Collection(MoviesCollectionPath(m.appId, userId))
}

//------------------------------------------
//------------------------------------------

// WatchMovies blocks, calling onSnapshot with every record set the store pushes,
// until ctx is cancelled (nil error) or the listener fails.
func (m *MovieRepository) WatchMovies(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error {
	it := m.collection(userId).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		records := make([]model.MovieRecord, 0, len(docs))
		for _, doc := range docs {
			record, err := DecodeMovieRecord(doc.Ref.ID, doc.Data())
			if err != nil {
				errorMessage := fmt.Sprintf("Skipping movie record %s of user %s: %s", doc.Ref.ID, userId, err)
				errorHandler.SaveError(errorMessage, err)
				continue
			}
			records = append(records, record)
		}
		onSnapshot(records)
	}
}

func (m *MovieRepository) InsertMovie(ctx context.Context, userId string, movie *model.NewMovie) (string, error) {
	data := map[string]interface{}{
		"title":     movie.Title,
		"watched":   movie.Watched,
		"createdAt": firestore.ServerTimestamp,
	}
	if movie.WithWatchlistFlag {
		data["onWatchlist"] = movie.OnWatchlist
	}

	ref, _, err := m.collection(userId).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (m *MovieRepository) UpdateMovie(ctx context.Context, userId string, movieId string, fields map[string]interface{}) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}
	_, err := m.collection(userId).Doc(movieId).Update(ctx, updates)
	return err
}

func (m *MovieRepository) DeleteMovie(ctx context.Context, userId string, movieId string) error {
	_, err := m.collection(userId).Doc(movieId).Delete(ctx)
	return err
}

//------------------------------------------
//------------------------------------------

// DecodeMovieRecord validates a raw document. Metadata fields may be null,
// createdAt may be missing while the server timestamp is pending.
func DecodeMovieRecord(id string, data map[string]interface{}) (model.MovieRecord, error) {
	record := model.MovieRecord{Id: id}
	if id == "" {
		return record, fmt.Errorf("%w: empty id", ErrMalformedRecord)
	}

	title, ok := data["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return record, fmt.Errorf("%w: title must be a non-empty string", ErrMalformedRecord)
	}
	record.Title = title

	var err error
	if record.Watched, err = optionalBool(data, "watched"); err != nil {
		return record, err
	}
	if record.OnWatchlist, err = optionalBool(data, "onWatchlist"); err != nil {
		return record, err
	}
	if record.Description, err = optionalString(data, "description"); err != nil {
		return record, err
	}
	if record.PosterUrl, err = optionalString(data, "posterUrl"); err != nil {
		return record, err
	}

	switch v := data["createdAt"].(type) {
	case nil:
	case time.Time:
		record.CreatedAt = v
	default:
		return record, fmt.Errorf("%w: createdAt has type %T", ErrMalformedRecord, v)
	}

	return record, nil
}

func optionalBool(data map[string]interface{}, key string) (bool, error) {
	switch v := data[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%w: %s has type %T", ErrMalformedRecord, key, v)
	}
}

func optionalString(data map[string]interface{}, key string) (*string, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrMalformedRecord, key, v)
	}
}
