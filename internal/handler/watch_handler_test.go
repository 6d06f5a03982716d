package handler

import (
	"movie_curator/api/middleware"
	"movie_curator/configs"
	"movie_curator/internal/service"
	"movie_curator/model"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatchServer(t *testing.T, movieService *stubMovieService) string {
	t.Helper()
	t.Setenv("SESSION_TOKEN_SECRET", "watch-secret")
	configs.LoadEnvVariables()

	sessions := service.NewSessionManager(idleWatcher{}, time.Millisecond, time.Millisecond, 0)

	app := fiber.New()
	v1 := app.Group("v1", middleware.IdentityMiddleware(nil))
	v1.Get("/watch", NewWatchHandler(movieService, sessions).Watch)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		sessions.Close()
	})
	return ln.Addr().String()
}

// readEventUntil skips events until match accepts one.
func readEventUntil(t *testing.T, conn *websocket.Conn, match func(WatchEvent) bool) WatchEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var event WatchEvent
		require.NoError(t, conn.ReadJSON(&event))
		if match(event) {
			return event
		}
	}
}

func TestWatchHandler_RoundTrip(t *testing.T) {
	stub := &stubMovieService{}
	addr := startWatchServer(t, stub)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/v1/watch?tab=to-watch", nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readEventUntil(t, conn, func(e WatchEvent) bool { return e.Type == WatchEventView })
	require.NotNil(t, first.View)
	assert.Equal(t, model.TabToWatch, first.View.Tab)

	require.NoError(t, conn.WriteJSON(WatchMessage{Type: WatchMessageTab, Tab: "watched"}))
	switched := readEventUntil(t, conn, func(e WatchEvent) bool {
		return e.Type == WatchEventView && e.View.Tab == model.TabWatched
	})
	assert.Empty(t, switched.View.SearchResults)

	require.NoError(t, conn.WriteJSON(WatchMessage{Type: WatchMessageTab, Tab: "favourites"}))
	failed := readEventUntil(t, conn, func(e WatchEvent) bool { return e.Type == WatchEventError })
	assert.Equal(t, model.ErrInvalidTab.Message, failed.Error)

	require.NoError(t, conn.WriteJSON(WatchMessage{Type: WatchMessageTab, Tab: "search"}))
	require.NoError(t, conn.WriteJSON(WatchMessage{Type: WatchMessageSearch, Query: "heat"}))
	searched := readEventUntil(t, conn, func(e WatchEvent) bool {
		return e.Type == WatchEventView && e.View.Tab == model.TabSearch && len(e.View.SearchResults) == 1
	})
	assert.Equal(t, "heat", searched.View.SearchResults[0].Title)

	require.NoError(t, conn.WriteJSON(WatchMessage{Type: "dance"}))
	unknown := readEventUntil(t, conn, func(e WatchEvent) bool { return e.Type == WatchEventError })
	assert.Equal(t, "Unknown message type", unknown.Error)
}

func TestWatchHandler_RejectsPlainRequests(t *testing.T) {
	app := newTestApp(t, &stubMovieService{})
	sessions := service.NewSessionManager(idleWatcher{}, time.Millisecond, time.Millisecond, 0)
	t.Cleanup(sessions.Close)
	app.Get("/v1/watch", NewWatchHandler(&stubMovieService{}, sessions).Watch)

	code, _ := doRequest(t, app, "GET", "/v1/watch?tab=watched", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, code)

	code, _ = doRequest(t, app, "GET", "/v1/watch?tab=nowhere", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}
