package configs

import (
	"context"
	"movie_curator/pkg/logger"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DbConfigData struct {
	Id                   primitive.ObjectID `bson:"_id" json:"-"`
	Title                string             `bson:"title" json:"title"`
	CorsAllowedOrigins   []string           `bson:"corsAllowedOrigins" json:"corsAllowedOrigins"`
	DisableTasteAnalysis bool               `bson:"disableTasteAnalysis" json:"disableTasteAnalysis"`
	DisableSearch        bool               `bson:"disableSearch" json:"disableSearch"`
}

var rwm sync.RWMutex
var dbConfigs DbConfigData

func GetDbConfigs() DbConfigData {
	rwm.RLock()
	defer rwm.RUnlock()
	return dbConfigs
}

// SetDbConfigs replaces the dynamic configs, used when mongodb is not configured.
func SetDbConfigs(data DbConfigData) {
	rwm.Lock()
	defer rwm.Unlock()
	dbConfigs = data
}

func LoadDbConfigs(mongodb *mongo.Database) {
	tick := time.NewTicker(15 * time.Minute)
	defer tick.Stop()
	_ = FetchMongoDbConfigs(mongodb)
	for range tick.C {
		_ = FetchMongoDbConfigs(mongodb)
	}
}

func FetchMongoDbConfigs(mongodb *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var data DbConfigData
	err := mongodb.
		Collection("configs").
		FindOne(ctx, bson.D{{Key: "title", Value: "server configs"}}).
		Decode(&data)
	if err != nil {
		if configs.PrintErrors {
			logger.Warn().Err(err).Msg("could not get dbConfig from mongodb")
		}
		sentry.CaptureException(err)
		return err
	}

	SetDbConfigs(data)
	return nil
}
