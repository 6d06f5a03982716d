// Package omdb is the movie metadata lookup client.
package omdb

import (
	"context"
	"fmt"
	"movie_curator/model"
	"movie_curator/pkg/fetch"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const notAvailable = "N/A"

// Cache stores lookup results between requests. A nil Cache disables caching.
type Cache interface {
	GetMovieDetails(ctx context.Context, title string) (*model.MovieDetails, bool)
	SetMovieDetails(ctx context.Context, title string, details *model.MovieDetails)
	GetSearchResults(ctx context.Context, query string) ([]model.SearchResult, bool)
	SetSearchResults(ctx context.Context, query string, results []model.SearchResult)
}

type Client struct {
	baseUrl string
	apiKey  string
	fetch   *fetch.Client
	limiter *rate.Limiter
	cache   Cache
}

func NewClient(baseUrl string, apiKey string, timeout time.Duration, requestsPerSec float64, cache Cache) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &Client{
		baseUrl: baseUrl,
		apiKey:  apiKey,
		fetch:   fetch.NewClient("omdb", timeout),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)+1),
		cache:   cache,
	}
}

//------------------------------------------
//------------------------------------------

type titleResponse struct {
	Response string `json:"Response"`
	Title    string `json:"Title"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Error    string `json:"Error"`
}

type searchResponse struct {
	Response string `json:"Response"`
	Search   []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbId string `json:"imdbID"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Error string `json:"Error"`
}

//------------------------------------------
//------------------------------------------

// LookupByTitle is an exact-title lookup. A title OMDb does not know yields
// Found=false and no error.
func (c *Client) LookupByTitle(ctx context.Context, title string) (*model.MovieDetails, error) {
	if c.apiKey == "" {
		return nil, model.ErrOmdbKeyMissing
	}
	if c.cache != nil {
		if cached, ok := c.cache.GetMovieDetails(ctx, title); ok {
			return cached, nil
		}
	}

	var data titleResponse
	if err := c.get(ctx, url.Values{"t": {title}}, &data); err != nil {
		return nil, err
	}

	details := &model.MovieDetails{Found: data.Response == "True"}
	if details.Found {
		details.PosterUrl = optional(data.Poster)
		details.Description = optional(data.Plot)
	}
	// misses are not cached so a later enrichment can retry
	if c.cache != nil && details.Found {
		c.cache.SetMovieDetails(ctx, title, details)
	}
	return details, nil
}

func (c *Client) SearchByQuery(ctx context.Context, query string) ([]model.SearchResult, error) {
	if c.apiKey == "" {
		return nil, model.ErrOmdbKeyMissing
	}
	if c.cache != nil {
		if cached, ok := c.cache.GetSearchResults(ctx, query); ok {
			return cached, nil
		}
	}

	var data searchResponse
	if err := c.get(ctx, url.Values{"s": {query}}, &data); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(data.Search))
	if data.Response == "True" {
		for _, item := range data.Search {
			results = append(results, model.SearchResult{
				Title:      item.Title,
				Year:       item.Year,
				PosterUrl:  optional(item.Poster),
				ExternalId: item.ImdbId,
			})
		}
	}
	if c.cache != nil {
		c.cache.SetSearchResults(ctx, query, results)
	}
	return results, nil
}

//------------------------------------------
//------------------------------------------

func (c *Client) get(ctx context.Context, params url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.NewTransportError("Failed to fetch from OMDb", err)
	}

	params.Set("apikey", c.apiKey)
	requestUrl := c.baseUrl
	if strings.Contains(requestUrl, "?") {
		requestUrl += "&" + params.Encode()
	} else {
		requestUrl += "?" + params.Encode()
	}

	resp, err := c.fetch.Get(ctx, requestUrl)
	if err != nil {
		return model.NewTransportError("Failed to fetch from OMDb", err)
	}
	if resp.StatusCode != 200 {
		return model.NewTransportError("Failed to fetch from OMDb", fmt.Errorf("status %d", resp.StatusCode))
	}
	if err = json.Unmarshal(resp.Body, target); err != nil {
		return model.NewSchemaError("Invalid response from OMDb", err)
	}
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" || value == notAvailable {
		return nil
	}
	return &value
}
