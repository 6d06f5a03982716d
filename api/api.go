package api

import (
	"context"
	"errors"
	"movie_curator/api/middleware"
	_ "movie_curator/docs"
	"movie_curator/internal/handler"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/response"
	"strings"
	"time"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const watchPath = "/v1/watch"

type Handlers struct {
	Movie    *handler.MovieHandler
	Analysis *handler.AnalysisHandler
	Session  *handler.SessionHandler
	Watch    *handler.WatchHandler
	Admin    *handler.AdminHandler
}

var router *fiber.App

func InitRouter(handlers Handlers, verifier middleware.IIdentityVerifier, requestTimeout time.Duration) *fiber.App {
	var defaultErrorHandler = func(c *fiber.Ctx, err error) error {
		// Status code defaults to 500
		code := fiber.StatusInternalServerError

		// Retrieve the custom status code if it's a *fiber.Error
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if !strings.Contains(err.Error(), "/favicon.ico") && code >= 500 {
			logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return response.ResponseError(c, "Internal Error", code)
	}

	router = fiber.New(fiber.Config{
		UnescapePath: true,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: defaultErrorHandler,
	})

	router.Use(helmet.New())
	router.Use(cors.New(cors.Config{
		AllowOriginsFunc: middleware.IsAllowedOrigin,
		AllowCredentials: true,
	}))
	router.Use(timeoutMiddleware(requestTimeout))
	router.Use(recover.New())
	router.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == watchPath
		},
	}))

	router.Use(fibersentry.New(fibersentry.Config{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	identity := middleware.IdentityMiddleware(verifier)

	v1 := router.Group("v1", identity)
	{
		v1.Get("/session", handlers.Session.GetSession)

		v1.Get("/movies", handlers.Movie.GetMovies)
		v1.Post("/movies", handlers.Movie.AddMovie)
		v1.Delete("/movies/:id", handlers.Movie.RemoveMovie)
		v1.Put("/movies/:id/toggle", handlers.Movie.ToggleStatus)
		v1.Get("/search", handlers.Movie.Search)

		v1.Post("/analysis", handlers.Analysis.AnalyzeTaste)
		v1.Get("/analysis", handlers.Analysis.GetAnalysis)

		v1.Get("/watch", handlers.Watch.Watch)
	}

	adminRoutes := router.Group("v1/admin", identity, middleware.AdminMiddleware)
	{
		adminRoutes.Get("/fetch_configs", handlers.Admin.FetchDbConfigs)
	}

	router.Get("/", HealthCheck)
	router.Get("/metrics", monitor.New())
	router.Get("/metrics/prometheus", adaptor.HTTPHandler(promhttp.Handler()))

	router.Get("/swagger/*", swagger.HandlerDefault) // default

	return router
}

func Start(addr string) error {
	return router.Listen(addr)
}

func Shutdown(timeout time.Duration) error {
	if router == nil {
		return nil
	}
	return router.ShutdownWithTimeout(timeout)
}

// timeoutMiddleware bounds the user context of a request. Long lived websocket
// connections are left alone.
func timeoutMiddleware(timeout time.Duration) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if c.Path() == watchPath {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// HealthCheck godoc
//
//	@Summary		Show the status of server.
//	@Description	get the status of server.
//	@Tags			System
//	@Success		200	{object}	map[string]interface{}
//	@Router			/ [get]
func HealthCheck(c *fiber.Ctx) error {
	res := map[string]interface{}{
		"data": "Server is up and running",
	}

	if err := c.JSON(res); err != nil {
		return err
	}

	return nil
}
