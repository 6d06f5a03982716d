package service

import (
	"context"
	"fmt"
	"movie_curator/configs"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"movie_curator/pkg/metrics"
	"movie_curator/pkg/validation"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc"
)

type ITextGenerator interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

type ITasteAnalysisService interface {
	CheckPreconditions(records []model.MovieRecord) error
	AnalyzeTaste(ctx context.Context, records []model.MovieRecord) (*model.TasteAnalysisResult, error)
}

type TasteAnalysisService struct {
	generator ITextGenerator
	metadata  IMetadataProvider
}

func NewTasteAnalysisService(generator ITextGenerator, metadata IMetadataProvider) *TasteAnalysisService {
	return &TasteAnalysisService{generator: generator, metadata: metadata}
}

//------------------------------------------
//------------------------------------------

func (a *TasteAnalysisService) CheckPreconditions(records []model.MovieRecord) error {
	if len(WatchedRecords(records)) < MinWatchedForAnalysis {
		return model.ErrNotEnoughWatched
	}
	if configs.GetDbConfigs().DisableTasteAnalysis {
		return model.ErrTasteAnalysisDisabled
	}
	return nil
}

// AnalyzeTaste runs one generation request over the watched titles, then looks
// up every recommendation concurrently. The result is returned only when all
// lookups have settled; a failed lookup leaves that entry without details.
func (a *TasteAnalysisService) AnalyzeTaste(ctx context.Context, records []model.MovieRecord) (*model.TasteAnalysisResult, error) {
	if err := a.CheckPreconditions(records); err != nil {
		return nil, err
	}

	watched := WatchedRecords(records)
	titles := make([]string, len(watched))
	for i := range watched {
		titles[i] = watched[i].Title
	}

	text, err := a.generator.Generate(ctx, BuildTastePrompt(titles), true)
	if err != nil {
		metrics.TasteAnalysisRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	reply, err := ParseTasteReply(text)
	if err != nil {
		metrics.TasteAnalysisRuns.WithLabelValues("malformed").Inc()
		errorHandler.SaveError("Error analyzing taste: malformed reply", err)
		return nil, err
	}

	recommendations := make([]model.Recommendation, len(reply.Recommendations))
	var wg conc.WaitGroup
	for i, title := range reply.Recommendations {
		i, title := i, title
		wg.Go(func() {
			recommendations[i] = model.Recommendation{Title: title}
			details, err := GetMovieDetails(ctx, a.metadata, title)
			if err != nil {
				errorMessage := fmt.Sprintf("Failed to get details for recommendation %s: %s", title, err)
				errorHandler.SaveError(errorMessage, err)
				return
			}
			recommendations[i].Description = details.Description
			recommendations[i].PosterUrl = details.PosterUrl
		})
	}
	wg.Wait()

	metrics.TasteAnalysisRuns.WithLabelValues("success").Inc()
	return &model.TasteAnalysisResult{
		Title:           reply.Title,
		Suggestion:      reply.Suggestion,
		Recommendations: recommendations,
		CreatedAt:       time.Now(),
	}, nil
}

//------------------------------------------
//------------------------------------------

func BuildTastePrompt(titles []string) string {
	return fmt.Sprintf("As a film expert, analyze this list of watched movies: %s. "+
		"Based on this list, generate a response in a valid JSON format. "+
		"The JSON object must contain three keys: "+
		"1) 'title': a creative, personalized title for the user (e.g., 'The Action Aficionado'). "+
		"2) 'suggestion': a brief, one-sentence summary of their taste and a suggestion. "+
		"3) 'recommendations': an array of exactly 3 movie titles they might enjoy.",
		strings.Join(titles, ", "))
}

// StripCodeFence removes markdown fences a model may wrap around its JSON.
func StripCodeFence(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseTasteReply accepts exactly one object with the keys title, suggestion and
// recommendations holding three non-empty titles. Anything else is a schema error.
func ParseTasteReply(text string) (*model.TasteAnalysisReply, error) {
	decoder := json.NewDecoder(strings.NewReader(StripCodeFence(text)))
	decoder.DisallowUnknownFields()

	var reply model.TasteAnalysisReply
	if err := decoder.Decode(&reply); err != nil {
		return nil, model.NewSchemaError(model.MsgCuratorBusy, err)
	}
	if decoder.More() {
		return nil, model.NewSchemaError(model.MsgCuratorBusy, fmt.Errorf("trailing data after reply object"))
	}

	// whitespace-only values count as missing
	reply.Title = strings.TrimSpace(reply.Title)
	reply.Suggestion = strings.TrimSpace(reply.Suggestion)
	for i := range reply.Recommendations {
		reply.Recommendations[i] = strings.TrimSpace(reply.Recommendations[i])
	}
	if err := validation.ValidateStruct(&reply); err != nil {
		return nil, model.NewSchemaError(model.MsgCuratorBusy, err)
	}
	return &reply, nil
}
