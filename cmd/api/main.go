package main

import (
	"movie_curator/api"
	"movie_curator/configs"
	"movie_curator/db/firebase"
	"movie_curator/db/mongodb"
	"movie_curator/db/redis"
	"movie_curator/internal/handler"
	"movie_curator/internal/repository"
	"movie_curator/internal/service"
	"movie_curator/pkg/gemini"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/omdb"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	geminiTimeoutFactor = 3
	detailsCacheTtl     = 24 * time.Hour
	searchCacheTtl      = 1 * time.Hour
)

// @title						Movie Curator
// @version					1.0
// @description				Watchlist curator with live lists, metadata enrichment and taste analysis.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and a firebase id token.
// @Accept						json
// @Produce					json
func main() {
	configs.LoadEnvVariables()
	cfg := configs.GetConfigs()
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if err := configs.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDns,
		Release:          cfg.SentryRelease,
		TracesSampleRate: 1,
		EnableTracing:    true,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("sentry.Init")
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	go redis.ConnectRedis()

	var mongoDb *mongo.Database
	if cfg.MongodbDatabaseUrl != "" {
		mongoDatabase, err := mongodb.NewDatabase()
		if err != nil {
			logger.Fatal().Err(err).Msg("could not initialize mongodb database connection")
		}
		defer mongoDatabase.Close()
		mongoDb = mongoDatabase.GetDB()
		go configs.LoadDbConfigs(mongoDb)
	} else {
		logger.Warn().Msg("MONGODB_DATABASE_URL is empty, dynamic configs disabled")
	}

	firebaseApp, err := firebase.NewFirebaseApp()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialize firebase")
	}
	defer firebaseApp.Close()

	lookupCache := service.NewLookupCacheService(detailsCacheTtl, searchCacheTtl)
	omdbClient := omdb.NewClient(cfg.OmdbApiUrl, cfg.OmdbApiKey, cfg.HttpTimeout, cfg.OmdbRateLimit, lookupCache)
	geminiClient := gemini.NewClient(cfg.GeminiApiUrl, cfg.GeminiApiKey, cfg.GeminiModel, cfg.HttpTimeout*geminiTimeoutFactor)

	movieRepo := repository.NewMovieRepository(firebaseApp.GetFirestore(), cfg.AppId)
	adminRepo := repository.NewAdminRepository(mongoDb)

	watcher := service.NewCollectionWatcher(movieRepo)
	sessionManager := service.NewSessionManager(watcher, cfg.SearchDebounce, cfg.FeedbackDuration, cfg.SessionLinger)
	defer sessionManager.Close()

	tracker := service.NewEnrichmentTracker(movieRepo, omdbClient)
	tracker.OnChange(sessionManager.Notify)
	analysisSvc := service.NewTasteAnalysisService(geminiClient, omdbClient)
	movieSvc := service.NewMovieService(movieRepo, tracker, omdbClient, analysisSvc, service.MovieServiceOptions{
		Variant:       cfg.ListVariant,
		SyncWait:      cfg.SyncWait,
		LookupTimeout: cfg.HttpTimeout,
	})
	defer movieSvc.Close()
	adminSvc := service.NewAdminService(adminRepo)

	api.InitRouter(api.Handlers{
		Movie:    handler.NewMovieHandler(movieSvc, sessionManager),
		Analysis: handler.NewAnalysisHandler(movieSvc, sessionManager),
		Session:  handler.NewSessionHandler(),
		Watch:    handler.NewWatchHandler(movieSvc, sessionManager),
		Admin:    handler.NewAdminHandler(adminSvc),
	}, firebaseApp, cfg.HttpTimeout*geminiTimeoutFactor+cfg.SyncWait)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down")
		_ = api.Shutdown(10 * time.Second)
	}()

	logger.Info().Str("port", cfg.Port).Str("listVariant", string(cfg.ListVariant)).Msg("server starting")
	if err := api.Start("0.0.0.0:" + cfg.Port); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
}
