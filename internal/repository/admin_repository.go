package repository

import (
	"errors"
	"movie_curator/configs"

	"go.mongodb.org/mongo-driver/mongo"
)

type IAdminRepository interface {
	ReloadDbConfigs() error
}

type AdminRepository struct {
	mongodb *mongo.Database
}

func NewAdminRepository(mongodb *mongo.Database) *AdminRepository {
	return &AdminRepository{mongodb: mongodb}
}

var ErrMongoNotConfigured = errors.New("mongodb is not configured")

//------------------------------------------
//------------------------------------------

func (r *AdminRepository) ReloadDbConfigs() error {
	if r.mongodb == nil {
		return ErrMongoNotConfigured
	}
	return configs.FetchMongoDbConfigs(r.mongodb)
}
