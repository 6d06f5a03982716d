package model

import (
	"strings"
	"time"
)

type MovieRecord struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Watched     bool      `json:"watched"`
	OnWatchlist bool      `json:"onWatchlist"`
	Description *string   `json:"description"`
	PosterUrl   *string   `json:"posterUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasDetails reports whether enrichment already wrote anything back.
func (m *MovieRecord) HasDetails() bool {
	return m.Description != nil || m.PosterUrl != nil
}

func (m *MovieRecord) SameTitle(title string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Title), strings.TrimSpace(title))
}

// NewMovie holds the fields written on first insert; createdAt is assigned by the store.
type NewMovie struct {
	Title       string
	Watched     bool
	OnWatchlist bool
	// WithWatchlistFlag is false for the single-list variant, which never stores onWatchlist.
	WithWatchlistFlag bool
}

//---------------------------------------
//---------------------------------------

type MovieDetails struct {
	Found       bool    `json:"found"`
	PosterUrl   *string `json:"posterUrl"`
	Description *string `json:"description"`
}

type SearchResult struct {
	Title      string  `json:"title"`
	Year       string  `json:"year"`
	PosterUrl  *string `json:"posterUrl"`
	ExternalId string  `json:"externalId"`
}

//---------------------------------------
//---------------------------------------

type ListStatus string

const (
	StatusWatched ListStatus = "watched"
	StatusToWatch ListStatus = "to-watch"
)

func (s ListStatus) IsValid() bool {
	return s == StatusWatched || s == StatusToWatch
}

type Tab string

const (
	TabSearch  Tab = "search"
	TabToWatch Tab = "to-watch"
	TabWatched Tab = "watched"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabSearch, TabToWatch, TabWatched:
		return Tab(s), nil
	case "":
		return TabSearch, nil
	}
	return "", ErrInvalidTab
}

type MutationKind string

const (
	MutationNone   MutationKind = "none"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// Mutation is a planned write against one canonical record.
type Mutation struct {
	Kind   MutationKind
	Fields map[string]interface{}
}

type AddMovieReq struct {
	Title      string     `json:"title" validate:"required,max=300"`
	Status     ListStatus `json:"status" validate:"required,oneof=watched to-watch"`
	ExternalId string     `json:"externalId" validate:"max=50"`
}

type AddMovieRes struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Existing bool   `json:"existing"`
}
