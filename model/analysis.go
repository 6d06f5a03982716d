package model

import "time"

type TasteAnalysisResult struct {
	Title           string           `json:"title"`
	Suggestion      string           `json:"suggestion"`
	Recommendations []Recommendation `json:"recommendations"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type Recommendation struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	PosterUrl   *string `json:"posterUrl"`
}

// TasteAnalysisReply is the shape demanded from the generation service.
type TasteAnalysisReply struct {
	Title           string   `json:"title" validate:"required"`
	Suggestion      string   `json:"suggestion" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"len=3,dive,required"`
}
