package service

import (
	"context"
	"fmt"
	"movie_curator/model"
	"sync"
	"time"
)

// fakeMovieRepo is an in-memory collection of a single user that pushes a
// snapshot to every watcher after each write, like the live store does.
type fakeMovieRepo struct {
	mux         sync.Mutex
	records     map[string]model.MovieRecord
	nextId      int
	inserts     []model.NewMovie
	updates     []fakeUpdate
	deletes     []string
	writeErr    error
	watchErr    error
	subscribers map[int]func([]model.MovieRecord)
	nextSub     int
	// insertDelay slows InsertMovie down, publishDelay holds back the snapshot of an insert
	insertDelay  time.Duration
	publishDelay time.Duration
}

type fakeUpdate struct {
	MovieId string
	Fields  map[string]interface{}
}

func newFakeMovieRepo(records ...model.MovieRecord) *fakeMovieRepo {
	r := &fakeMovieRepo{
		records:     make(map[string]model.MovieRecord),
		subscribers: make(map[int]func([]model.MovieRecord)),
	}
	for _, record := range records {
		r.records[record.Id] = record
	}
	return r
}

func (r *fakeMovieRepo) snapshot() []model.MovieRecord {
	records := make([]model.MovieRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records
}

func (r *fakeMovieRepo) publish() {
	r.mux.Lock()
	subs := make([]func([]model.MovieRecord), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mux.Unlock()
	for _, fn := range subs {
		r.mux.Lock()
		records := r.snapshot()
		r.mux.Unlock()
		fn(records)
	}
}

func (r *fakeMovieRepo) WatchMovies(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error {
	r.mux.Lock()
	if r.watchErr != nil {
		err := r.watchErr
		r.mux.Unlock()
		return err
	}
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = onSnapshot
	records := r.snapshot()
	r.mux.Unlock()

	onSnapshot(records)
	<-ctx.Done()

	r.mux.Lock()
	delete(r.subscribers, id)
	r.mux.Unlock()
	return nil
}

func (r *fakeMovieRepo) InsertMovie(ctx context.Context, userId string, movie *model.NewMovie) (string, error) {
	r.mux.Lock()
	insertDelay, publishDelay := r.insertDelay, r.publishDelay
	r.mux.Unlock()
	if insertDelay > 0 {
		time.Sleep(insertDelay)
	}

	r.mux.Lock()
	if r.writeErr != nil {
		r.mux.Unlock()
		return "", r.writeErr
	}
	r.inserts = append(r.inserts, *movie)
	r.nextId++
	id := fmt.Sprintf("new%d", r.nextId)
	record := model.MovieRecord{
		Id:        id,
		Title:     movie.Title,
		Watched:   movie.Watched,
		CreatedAt: time.Date(2030, 1, 1, 0, 0, r.nextId, 0, time.UTC),
	}
	// like the store, the flag is only written in dual-list mode
	if movie.WithWatchlistFlag {
		record.OnWatchlist = movie.OnWatchlist
	}
	r.records[id] = record
	r.mux.Unlock()

	if publishDelay > 0 {
		go func() {
			time.Sleep(publishDelay)
			r.publish()
		}()
	} else {
		r.publish()
	}
	return id, nil
}

func (r *fakeMovieRepo) UpdateMovie(ctx context.Context, userId string, movieId string, fields map[string]interface{}) error {
	r.mux.Lock()
	if r.writeErr != nil {
		r.mux.Unlock()
		return r.writeErr
	}
	r.updates = append(r.updates, fakeUpdate{MovieId: movieId, Fields: fields})
	record, ok := r.records[movieId]
	if ok {
		for k, v := range fields {
			switch k {
			case "watched":
				record.Watched = v.(bool)
			case "onWatchlist":
				record.OnWatchlist = v.(bool)
			case "description":
				record.Description = v.(*string)
			case "posterUrl":
				record.PosterUrl = v.(*string)
			}
		}
		r.records[movieId] = record
	}
	r.mux.Unlock()
	r.publish()
	return nil
}

func (r *fakeMovieRepo) DeleteMovie(ctx context.Context, userId string, movieId string) error {
	r.mux.Lock()
	if r.writeErr != nil {
		r.mux.Unlock()
		return r.writeErr
	}
	r.deletes = append(r.deletes, movieId)
	delete(r.records, movieId)
	r.mux.Unlock()
	r.publish()
	return nil
}

func (r *fakeMovieRepo) Inserts() []model.NewMovie {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]model.NewMovie(nil), r.inserts...)
}

func (r *fakeMovieRepo) Updates() []fakeUpdate {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]fakeUpdate(nil), r.updates...)
}

func (r *fakeMovieRepo) Deletes() []string {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]string(nil), r.deletes...)
}

func (r *fakeMovieRepo) CountTitle(title string) int {
	r.mux.Lock()
	defer r.mux.Unlock()
	count := 0
	for _, record := range r.records {
		if record.SameTitle(title) {
			count++
		}
	}
	return count
}

func (r *fakeMovieRepo) Record(id string) (model.MovieRecord, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	record, ok := r.records[id]
	return record, ok
}

//------------------------------------------
//------------------------------------------

type fakeMetadata struct {
	mux      sync.Mutex
	details  map[string]*model.MovieDetails
	errs     map[string]error
	search   []model.SearchResult
	errSrch  error
	lookups  []string
	searches []string
	release  chan struct{}
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		details: make(map[string]*model.MovieDetails),
		errs:    make(map[string]error),
	}
}

func (f *fakeMetadata) found(title string, description string, poster string) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.details[title] = &model.MovieDetails{Found: true, Description: &description, PosterUrl: &poster}
}

func (f *fakeMetadata) LookupByTitle(ctx context.Context, title string) (*model.MovieDetails, error) {
	f.mux.Lock()
	f.lookups = append(f.lookups, title)
	release := f.release
	details, err := f.details[title], f.errs[title]
	f.mux.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	if details == nil {
		return &model.MovieDetails{Found: false}, nil
	}
	return details, nil
}

func (f *fakeMetadata) SearchByQuery(ctx context.Context, query string) ([]model.SearchResult, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.searches = append(f.searches, query)
	if f.errSrch != nil {
		return nil, f.errSrch
	}
	return f.search, nil
}

func (f *fakeMetadata) Lookups() []string {
	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]string(nil), f.lookups...)
}

func (f *fakeMetadata) Searches() []string {
	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]string(nil), f.searches...)
}

//------------------------------------------
//------------------------------------------

type fakeGenerator struct {
	mux     sync.Mutex
	text    string
	err     error
	prompts []string
	release chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	g.mux.Lock()
	g.prompts = append(g.prompts, prompt)
	release := g.release
	g.mux.Unlock()
	if release != nil {
		<-release
	}
	return g.text, g.err
}

func (g *fakeGenerator) Calls() int {
	g.mux.Lock()
	defer g.mux.Unlock()
	return len(g.prompts)
}

//------------------------------------------
//------------------------------------------

func strPtr(s string) *string {
	return &s
}

func movie(id string, title string, watched bool, onWatchlist bool) model.MovieRecord {
	return model.MovieRecord{Id: id, Title: title, Watched: watched, OnWatchlist: onWatchlist}
}
