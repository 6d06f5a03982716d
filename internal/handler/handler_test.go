package handler

import (
	"bytes"
	"context"
	"io"
	"movie_curator/api/middleware"
	"movie_curator/configs"
	"movie_curator/internal/service"
	"movie_curator/model"
	"movie_curator/pkg/response"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleWatcher struct{}

func (idleWatcher) Watch(ctx context.Context, userId string, onSnapshot func([]model.MovieRecord)) error {
	onSnapshot([]model.MovieRecord{})
	<-ctx.Done()
	return nil
}

type stubMovieService struct {
	mux       sync.Mutex
	err       error
	calls     []string
	lastTab   model.Tab
	lastId    string
	lastReq   *model.AddMovieReq
	lastQuery string
	queued    string
}

func (s *stubMovieService) record(call string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.calls = append(s.calls, call)
	return s.err
}

func (s *stubMovieService) View(session *service.Session, tab model.Tab) model.View {
	s.mux.Lock()
	defer s.mux.Unlock()
	view := model.View{Tab: tab, Movies: []model.MovieView{}, SearchResults: []model.SearchResultView{}}
	if s.queued != "" {
		view.SearchResults = append(view.SearchResults, model.SearchResultView{SearchResult: model.SearchResult{Title: s.queued}})
	}
	return view
}

func (s *stubMovieService) GetView(ctx context.Context, session *service.Session, tab model.Tab) (model.View, error) {
	s.lastTab = tab
	if err := s.record("view"); err != nil {
		return model.View{}, err
	}
	return s.View(session, tab), nil
}

func (s *stubMovieService) AddMovie(ctx context.Context, session *service.Session, req *model.AddMovieReq) (*model.AddMovieRes, error) {
	s.lastReq = req
	if err := s.record("add"); err != nil {
		return nil, err
	}
	return &model.AddMovieRes{Id: "m1", Title: req.Title}, nil
}

func (s *stubMovieService) RemoveFromList(ctx context.Context, session *service.Session, movieId string, tab model.Tab) error {
	s.lastId, s.lastTab = movieId, tab
	return s.record("remove")
}

func (s *stubMovieService) ToggleStatus(ctx context.Context, session *service.Session, movieId string, tab model.Tab) error {
	s.lastId, s.lastTab = movieId, tab
	return s.record("toggle")
}

func (s *stubMovieService) Search(ctx context.Context, session *service.Session, query string) ([]model.SearchResultView, error) {
	s.lastQuery = query
	if err := s.record("search"); err != nil {
		return nil, err
	}
	return []model.SearchResultView{}, nil
}

// QueueSearch answers at once with a single result named after the query.
func (s *stubMovieService) QueueSearch(session *service.Session, query string) {
	_ = s.record("queue")
	s.mux.Lock()
	s.queued = query
	s.mux.Unlock()
	session.Notify()
}

func (s *stubMovieService) AnalyzeTaste(ctx context.Context, session *service.Session) (*model.TasteAnalysisResult, error) {
	if err := s.record("analyze"); err != nil {
		return nil, err
	}
	return &model.TasteAnalysisResult{Title: "t"}, nil
}

func newTestApp(t *testing.T, movieService *stubMovieService) *fiber.App {
	t.Helper()
	t.Setenv("SESSION_TOKEN_SECRET", "handler-secret")
	configs.LoadEnvVariables()

	sessions := service.NewSessionManager(idleWatcher{}, time.Millisecond, time.Millisecond, 0)
	t.Cleanup(sessions.Close)

	movieHandler := NewMovieHandler(movieService, sessions)
	analysisHandler := NewAnalysisHandler(movieService, sessions)

	app := fiber.New()
	v1 := app.Group("v1", middleware.IdentityMiddleware(nil))
	v1.Get("/session", NewSessionHandler().GetSession)
	v1.Get("/movies", movieHandler.GetMovies)
	v1.Post("/movies", movieHandler.AddMovie)
	v1.Delete("/movies/:id", movieHandler.RemoveMovie)
	v1.Put("/movies/:id/toggle", movieHandler.ToggleStatus)
	v1.Get("/search", movieHandler.Search)
	v1.Post("/analysis", analysisHandler.AnalyzeTaste)
	v1.Get("/analysis", analysisHandler.GetAnalysis)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method string, target string, body string) (int, response.ResponseErrorModel) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed response.ResponseErrorModel
	_ = json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed
}

func TestMovieHandler_AddMovie(t *testing.T) {
	stub := &stubMovieService{}
	app := newTestApp(t, stub)

	code, _ := doRequest(t, app, http.MethodPost, "/v1/movies", `{"title": "Heat", "status": "watched", "externalId": "tt0113277"}`)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, stub.lastReq)
	assert.Equal(t, "tt0113277", stub.lastReq.ExternalId)

	code, _ = doRequest(t, app, http.MethodPost, "/v1/movies", `{"title": "Heat", "status": "seen"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res := doRequest(t, app, http.MethodPost, "/v1/movies", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.BadRequestBody, res.ErrorMessage)

	stub.err = model.ErrEmptyTitle
	code, res = doRequest(t, app, http.MethodPost, "/v1/movies", `{"title": "  ", "status": "watched"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, model.ErrEmptyTitle.Message, res.ErrorMessage)
}

func TestMovieHandler_RemoveAndToggle(t *testing.T) {
	stub := &stubMovieService{}
	app := newTestApp(t, stub)

	code, _ := doRequest(t, app, http.MethodDelete, "/v1/movies/m42?tab=watched", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "m42", stub.lastId)
	assert.Equal(t, model.TabWatched, stub.lastTab)

	code, _ = doRequest(t, app, http.MethodPut, "/v1/movies/m7/toggle?tab=to-watch", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "m7", stub.lastId)
	assert.Equal(t, model.TabToWatch, stub.lastTab)

	code, _ = doRequest(t, app, http.MethodDelete, "/v1/movies/m42?tab=favourites", "")
	assert.Equal(t, http.StatusBadRequest, code)

	stub.err = model.ErrMovieNotFound
	code, res := doRequest(t, app, http.MethodDelete, "/v1/movies/gone?tab=watched", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, model.ErrMovieNotFound.Message, res.ErrorMessage)
}

func TestMovieHandler_GetMoviesUsesActiveTabByDefault(t *testing.T) {
	stub := &stubMovieService{}
	app := newTestApp(t, stub)

	code, _ := doRequest(t, app, http.MethodGet, "/v1/movies", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.TabSearch, stub.lastTab)

	code, _ = doRequest(t, app, http.MethodGet, "/v1/movies?tab=watched", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.TabWatched, stub.lastTab)
}

func TestMovieHandler_SearchErrors(t *testing.T) {
	stub := &stubMovieService{}
	app := newTestApp(t, stub)

	code, _ := doRequest(t, app, http.MethodGet, "/v1/search?q=heat", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "heat", stub.lastQuery)

	stub.err = model.ErrOmdbKeyMissing
	code, res := doRequest(t, app, http.MethodGet, "/v1/search?q=heat", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "OMDb API key not configured.", res.ErrorMessage)
}

func TestAnalysisHandler(t *testing.T) {
	stub := &stubMovieService{}
	app := newTestApp(t, stub)

	code, _ := doRequest(t, app, http.MethodPost, "/v1/analysis", "")
	assert.Equal(t, http.StatusOK, code)

	stub.err = model.ErrAnalysisInProgress
	code, _ = doRequest(t, app, http.MethodPost, "/v1/analysis", "")
	assert.Equal(t, http.StatusConflict, code)

	stub.err = model.ErrNotEnoughWatched
	code, res := doRequest(t, app, http.MethodPost, "/v1/analysis", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please mark at least 3 movies as watched for a good analysis.", res.ErrorMessage)

	code, _ = doRequest(t, app, http.MethodGet, "/v1/analysis", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestSessionHandler(t *testing.T) {
	app := newTestApp(t, &stubMovieService{})
	code, _ := doRequest(t, app, http.MethodGet, "/v1/session", "")
	assert.Equal(t, http.StatusOK, code)
}
