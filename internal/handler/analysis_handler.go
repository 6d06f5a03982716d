package handler

import (
	"movie_curator/internal/service"
	"movie_curator/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IAnalysisHandler interface {
	AnalyzeTaste(c *fiber.Ctx) error
	GetAnalysis(c *fiber.Ctx) error
}

type AnalysisHandler struct {
	movieService service.IMovieService
	sessions     service.ISessionManager
}

func NewAnalysisHandler(movieService service.IMovieService, sessions service.ISessionManager) *AnalysisHandler {
	return &AnalysisHandler{
		movieService: movieService,
		sessions:     sessions,
	}
}

//------------------------------------------
//------------------------------------------

// AnalyzeTaste godoc
//
//	@Summary		Analyze Taste
//	@Description	Run a taste analysis over the watched movies. Needs at least 3 watched movies.
//	@Tags			Analysis
//	@Success		200				{object}	response.ResponseOKWithDataModel{data=model.TasteAnalysisResult}
//	@Failure		400,409,502,503	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/analysis [post]
func (m *AnalysisHandler) AnalyzeTaste(c *fiber.Ctx) error {
	return withSession(c, m.sessions, func(s *service.Session) error {
		result, err := m.movieService.AnalyzeTaste(c.UserContext(), s)
		if err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOKWithData(c, result)
	})
}

// GetAnalysis godoc
//
//	@Summary		Get Analysis
//	@Description	The last published analysis of the session, null when none ran yet.
//	@Tags			Analysis
//	@Success		200	{object}	response.ResponseOKWithDataModel{data=model.TasteAnalysisResult}
//	@Security		BearerAuth
//	@Router			/v1/analysis [get]
func (m *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	return withSession(c, m.sessions, func(s *service.Session) error {
		return response.ResponseOKWithData(c, s.Analysis())
	})
}
