package configs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
)

type ListVariant string

const (
	DualList   ListVariant = "dual"
	SingleList ListVariant = "single"
)

type ConfigStruct struct {
	Port                      string
	AppId                     string
	FirebaseProjectId         string
	FirebaseCredentialsFile   string
	OmdbApiKey                string
	OmdbApiUrl                string
	OmdbRateLimit             float64
	GeminiApiKey              string
	GeminiApiUrl              string
	GeminiModel               string
	SessionTokenSecret        string
	WaitForRedisConnectionSec int
	RedisUrl                  string
	RedisPassword             string
	MongodbDatabaseUrl        string
	MongodbDatabaseName       string
	CorsAllowedOrigins        []string
	SentryDns                 string
	SentryRelease             string
	PrintErrors               bool
	LogLevel                  string
	LogFormat                 string
	HttpTimeout               time.Duration
	SearchDebounce            time.Duration
	FeedbackDuration          time.Duration
	SessionLinger             time.Duration
	SyncWait                  time.Duration
	ListVariant               ListVariant
}

var configs = ConfigStruct{}

var ErrFirebaseConfigMissing = errors.New("firebase configuration is missing")

func GetConfigs() ConfigStruct {
	return configs
}

func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	configs.Port = getEnvDefault("PORT", "3000")
	configs.AppId = getEnvDefault("APP_ID", "default-app-id")
	configs.FirebaseProjectId = os.Getenv("FIREBASE_PROJECT_ID")
	if configs.FirebaseProjectId == "" {
		configs.FirebaseProjectId = projectIdFromWebConfig(os.Getenv("FIREBASE_CONFIG"))
	}
	configs.FirebaseCredentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")
	configs.OmdbApiKey = os.Getenv("OMDB_API_KEY")
	configs.OmdbApiUrl = getEnvDefault("OMDB_API_URL", "https://www.omdbapi.com/")
	configs.OmdbRateLimit, _ = strconv.ParseFloat(getEnvDefault("OMDB_RATE_LIMIT", "5"), 64)
	configs.GeminiApiKey = os.Getenv("GEMINI_API_KEY")
	configs.GeminiApiUrl = getEnvDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com")
	configs.GeminiModel = getEnvDefault("GEMINI_MODEL", "gemini-2.0-flash")
	configs.SessionTokenSecret = os.Getenv("SESSION_TOKEN_SECRET")
	configs.RedisUrl = os.Getenv("REDIS_URL")
	configs.RedisPassword = os.Getenv("REDIS_PASSWORD")
	configs.WaitForRedisConnectionSec, _ = strconv.Atoi(os.Getenv("WAIT_REDIS_CONNECTION_SEC"))
	configs.MongodbDatabaseUrl = os.Getenv("MONGODB_DATABASE_URL")
	configs.MongodbDatabaseName = os.Getenv("MONGODB_DATABASE_NAME")
	configs.CorsAllowedOrigins = strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), "---")
	for i := range configs.CorsAllowedOrigins {
		configs.CorsAllowedOrigins[i] = strings.TrimSpace(configs.CorsAllowedOrigins[i])
	}
	configs.SentryDns = os.Getenv("SENTRY_DNS")
	configs.SentryRelease = os.Getenv("SENTRY_RELEASE")
	configs.PrintErrors = os.Getenv("PRINT_ERRORS") == "true"
	configs.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	configs.LogFormat = getEnvDefault("LOG_FORMAT", "json")
	configs.HttpTimeout = time.Duration(getEnvInt("HTTP_TIMEOUT_SEC", 10)) * time.Second
	configs.SearchDebounce = time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond
	configs.FeedbackDuration = time.Duration(getEnvInt("FEEDBACK_DURATION_MS", 2000)) * time.Millisecond
	configs.SessionLinger = time.Duration(getEnvInt("SESSION_LINGER_SEC", 60)) * time.Second
	configs.SyncWait = time.Duration(getEnvInt("SYNC_WAIT_SEC", 10)) * time.Second
	configs.ListVariant = DualList
	if strings.ToLower(os.Getenv("LIST_VARIANT")) == string(SingleList) {
		configs.ListVariant = SingleList
	}
}

// Validate reports configuration problems that make startup pointless.
func Validate() error {
	if configs.FirebaseProjectId == "" {
		return ErrFirebaseConfigMissing
	}
	if configs.SessionTokenSecret == "" {
		return errors.New("SESSION_TOKEN_SECRET is missing")
	}
	return nil
}

//------------------------------------------
//------------------------------------------

// projectIdFromWebConfig accepts the firebase web config json the frontend uses.
func projectIdFromWebConfig(raw string) string {
	if raw == "" {
		return ""
	}
	var webConfig struct {
		ProjectId string `json:"projectId"`
	}
	if err := json.Unmarshal([]byte(raw), &webConfig); err != nil {
		log.Printf("Invalid FIREBASE_CONFIG format: %v", err)
		return ""
	}
	return webConfig.ProjectId
}

func getEnvDefault(key string, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
