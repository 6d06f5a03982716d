package handler

import (
	"movie_curator/api/middleware"
	"movie_curator/internal/service"
	"movie_curator/model"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/metrics"
	"movie_curator/pkg/response"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

const (
	WatchMessageTab    = "tab"
	WatchMessageSearch = "search"
	WatchEventView     = "view"
	WatchEventError    = "error"
)

// WatchMessage is sent by the client to switch tab or type into the search box.
type WatchMessage struct {
	Type  string `json:"type"`
	Tab   string `json:"tab"`
	Query string `json:"query"`
}

type WatchEvent struct {
	Type  string      `json:"type"`
	View  *model.View `json:"view,omitempty"`
	Error string      `json:"error,omitempty"`
}

type IWatchHandler interface {
	Watch(c *fiber.Ctx) error
}

type WatchHandler struct {
	movieService service.IMovieService
	sessions     service.ISessionManager
	upgrader     websocket.FastHTTPUpgrader
}

func NewWatchHandler(movieService service.IMovieService, sessions service.ISessionManager) *WatchHandler {
	return &WatchHandler{
		movieService: movieService,
		sessions:     sessions,
		upgrader: websocket.FastHTTPUpgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
				return middleware.IsAllowedOrigin(string(ctx.Request.Header.Peek(fiber.HeaderOrigin)))
			},
		},
	}
}

//------------------------------------------
//------------------------------------------

// Watch godoc
//
//	@Summary		Watch
//	@Description	Websocket pushing the view of the selected tab after every change.
//	@Description	Accepts {"type":"tab","tab":"watched"} and {"type":"search","query":"..."}.
//	@Tags			Movies
//	@Param			tab		query		string	false	"initial tab"
//	@Param			idToken	query		string	false	"firebase id token"
//	@Success		101
//	@Failure		400,401	{object}	response.ResponseErrorModel
//	@Router			/v1/watch [get]
func (m *WatchHandler) Watch(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return response.ResponseError(c, response.IdentityNotFound, fiber.StatusUnauthorized)
	}
	tab, err := model.ParseTab(c.Query("tab", ""))
	if err != nil {
		return response.ResponseCuratorError(c, err)
	}
	if !websocket.FastHTTPIsWebSocketUpgrade(c.Context()) {
		return response.ResponseError(c, "Websocket upgrade required", fiber.StatusUpgradeRequired)
	}

	userId := identity.UserId
	return m.upgrader.Upgrade(c.Context(), func(conn *websocket.Conn) {
		m.serve(conn, userId, tab)
	})
}

//------------------------------------------
//------------------------------------------

func (m *WatchHandler) serve(conn *websocket.Conn, userId string, tab model.Tab) {
	metrics.WebsocketConnections.Inc()
	defer metrics.WebsocketConnections.Dec()
	defer conn.Close()

	s := m.sessions.Acquire(userId)
	defer m.sessions.Release(s)
	changes, unsubscribe := s.Subscribe()
	defer unsubscribe()
	s.SetTab(tab)

	incoming := make(chan WatchMessage)
	closed := make(chan struct{})
	go readPump(conn, incoming, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if !m.writeView(conn, s, tab) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-s.Done():
			writeEvent(conn, WatchEvent{Type: WatchEventError, Error: model.ErrStoreNotSynced.Message})
			return
		case <-changes:
			if !m.writeView(conn, s, tab) {
				return
			}
		case msg := <-incoming:
			switch msg.Type {
			case WatchMessageTab:
				next, err := model.ParseTab(msg.Tab)
				if err != nil {
					if !writeEvent(conn, WatchEvent{Type: WatchEventError, Error: model.UserMessage(err)}) {
						return
					}
					continue
				}
				tab = next
				s.SetTab(tab)
			case WatchMessageSearch:
				m.movieService.QueueSearch(s, msg.Query)
			default:
				if !writeEvent(conn, WatchEvent{Type: WatchEventError, Error: "Unknown message type"}) {
					return
				}
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *WatchHandler) writeView(conn *websocket.Conn, s *service.Session, tab model.Tab) bool {
	view := m.movieService.View(s, tab)
	return writeEvent(conn, WatchEvent{Type: WatchEventView, View: &view})
}

func writeEvent(conn *websocket.Conn, event WatchEvent) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := conn.WriteJSON(event); err != nil {
		logger.Debug().Err(err).Msg("websocket write failed")
		return false
	}
	return true
}

func readPump(conn *websocket.Conn, incoming chan<- WatchMessage, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg WatchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		select {
		case incoming <- msg:
		case <-time.After(writeWait):
			return
		}
	}
}
