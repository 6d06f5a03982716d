package service

import (
	"context"
	"errors"
	"fmt"
	"movie_curator/db/redis"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	movieDetailsCachePrefix  = "movieDetails:"
	searchResultsCachePrefix = "search:"
)

// LookupCacheService keeps metadata lookups in redis. Without a redis connection
// every call is a miss and nothing is stored.
type LookupCacheService struct {
	detailsTtl time.Duration
	searchTtl  time.Duration
}

func NewLookupCacheService(detailsTtl time.Duration, searchTtl time.Duration) *LookupCacheService {
	return &LookupCacheService{detailsTtl: detailsTtl, searchTtl: searchTtl}
}

func cacheKey(prefix string, value string) string {
	return prefix + strings.ToLower(strings.TrimSpace(value))
}

//------------------------------------------
//------------------------------------------

func (c *LookupCacheService) GetMovieDetails(ctx context.Context, title string) (*model.MovieDetails, bool) {
	var details model.MovieDetails
	if !getCached(ctx, cacheKey(movieDetailsCachePrefix, title), &details) {
		return nil, false
	}
	return &details, true
}

func (c *LookupCacheService) SetMovieDetails(ctx context.Context, title string, details *model.MovieDetails) {
	setCached(ctx, cacheKey(movieDetailsCachePrefix, title), details, c.detailsTtl)
}

func (c *LookupCacheService) GetSearchResults(ctx context.Context, query string) ([]model.SearchResult, bool) {
	var results []model.SearchResult
	if !getCached(ctx, cacheKey(searchResultsCachePrefix, query), &results) {
		return nil, false
	}
	return results, true
}

func (c *LookupCacheService) SetSearchResults(ctx context.Context, query string, results []model.SearchResult) {
	setCached(ctx, cacheKey(searchResultsCachePrefix, query), results, c.searchTtl)
}

//------------------------------------------
//------------------------------------------

func getCached(ctx context.Context, key string, target interface{}) bool {
	result, err := redis.GetRedis(ctx, key)
	if err != nil {
		if !redis.IsNilError(err) && !errors.Is(err, redis.ErrNotConnected) {
			errorMessage := fmt.Sprintf("Redis Error on reading %s: %v", key, err)
			errorHandler.SaveError(errorMessage, err)
		}
		return false
	}
	if err = json.Unmarshal([]byte(result), target); err != nil {
		errorMessage := fmt.Sprintf("Redis Error on decoding %s: %v", key, err)
		errorHandler.SaveError(errorMessage, err)
		return false
	}
	return true
}

func setCached(ctx context.Context, key string, value interface{}, duration time.Duration) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on encoding %s: %v", key, err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(ctx, key, jsonData, duration)
	if err != nil && !errors.Is(err, redis.ErrNotConnected) {
		errorMessage := fmt.Sprintf("Redis Error on saving %s: %v", key, err)
		errorHandler.SaveError(errorMessage, err)
	}
}
