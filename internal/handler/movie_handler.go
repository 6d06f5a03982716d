package handler

import (
	"movie_curator/api/middleware"
	"movie_curator/internal/service"
	"movie_curator/model"
	"movie_curator/pkg/response"
	"movie_curator/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type IMovieHandler interface {
	GetMovies(c *fiber.Ctx) error
	AddMovie(c *fiber.Ctx) error
	RemoveMovie(c *fiber.Ctx) error
	ToggleStatus(c *fiber.Ctx) error
	Search(c *fiber.Ctx) error
}

type MovieHandler struct {
	movieService service.IMovieService
	sessions     service.ISessionManager
}

func NewMovieHandler(movieService service.IMovieService, sessions service.ISessionManager) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		sessions:     sessions,
	}
}

//------------------------------------------
//------------------------------------------

// GetMovies godoc
//
//	@Summary		Get Movies
//	@Description	View of one tab: list records, or search results with add feedback. Without tab the last selected tab is used.
//	@Tags			Movies
//	@Param			tab		query		string	false	"search, to-watch or watched"
//	@Success		200		{object}	response.ResponseOKWithDataModel{data=model.View}
//	@Failure		400,502	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/movies [get]
func (m *MovieHandler) GetMovies(c *fiber.Ctx) error {
	return withSession(c, m.sessions, func(s *service.Session) error {
		tab := s.State().ActiveTab
		if q := c.Query("tab", ""); q != "" {
			parsed, err := model.ParseTab(q)
			if err != nil {
				return response.ResponseCuratorError(c, err)
			}
			tab = parsed
		}

		view, err := m.movieService.GetView(c.UserContext(), s, tab)
		if err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOKWithData(c, view)
	})
}

// AddMovie godoc
//
//	@Summary		Add Movie
//	@Description	Add a title to a list. A title already in the collection is updated in place.
//	@Tags			Movies
//	@Param			body	body		model.AddMovieReq	true	"movie"
//	@Success		200		{object}	response.ResponseOKWithDataModel{data=model.AddMovieRes}
//	@Failure		400,502	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/movies [post]
func (m *MovieHandler) AddMovie(c *fiber.Ctx) error {
	var req model.AddMovieReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
	}

	return withSession(c, m.sessions, func(s *service.Session) error {
		res, err := m.movieService.AddMovie(c.UserContext(), s, &req)
		if err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOKWithData(c, res)
	})
}

// RemoveMovie godoc
//
//	@Summary		Remove Movie
//	@Description	Remove a record from the list of a tab. A record that is also in the other list only leaves this one.
//	@Tags			Movies
//	@Param			id			path		string	true	"movie id"
//	@Param			tab			query		string	true	"to-watch or watched"
//	@Success		200			{object}	response.ResponseOKModel
//	@Failure		400,404,502	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/movies/{id} [delete]
func (m *MovieHandler) RemoveMovie(c *fiber.Ctx) error {
	tab, err := model.ParseTab(c.Query("tab", ""))
	if err != nil {
		return response.ResponseCuratorError(c, err)
	}

	return withSession(c, m.sessions, func(s *service.Session) error {
		if err := m.movieService.RemoveFromList(c.UserContext(), s, c.Params("id"), tab); err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOK(c, "")
	})
}

// ToggleStatus godoc
//
//	@Summary		Toggle Status
//	@Description	In to-watch flips watched, in watched flips the watchlist flag. A record left in no list is deleted.
//	@Tags			Movies
//	@Param			id			path		string	true	"movie id"
//	@Param			tab			query		string	true	"to-watch or watched"
//	@Success		200			{object}	response.ResponseOKModel
//	@Failure		400,404,502	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/movies/{id}/toggle [put]
func (m *MovieHandler) ToggleStatus(c *fiber.Ctx) error {
	tab, err := model.ParseTab(c.Query("tab", ""))
	if err != nil {
		return response.ResponseCuratorError(c, err)
	}

	return withSession(c, m.sessions, func(s *service.Session) error {
		if err := m.movieService.ToggleStatus(c.UserContext(), s, c.Params("id"), tab); err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOK(c, "")
	})
}

// Search godoc
//
//	@Summary		Search
//	@Description	Search movie metadata by free text. Queries under two characters return nothing.
//	@Tags			Movies
//	@Param			q			query		string	true	"query"
//	@Success		200			{object}	response.ResponseOKWithDataModel{data=[]model.SearchResultView}
//	@Failure		400,502,503	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/search [get]
func (m *MovieHandler) Search(c *fiber.Ctx) error {
	return withSession(c, m.sessions, func(s *service.Session) error {
		results, err := m.movieService.Search(c.UserContext(), s, c.Query("q", ""))
		if err != nil {
			return response.ResponseCuratorError(c, err)
		}
		return response.ResponseOKWithData(c, results)
	})
}

//------------------------------------------
//------------------------------------------

func withSession(c *fiber.Ctx, sessions service.ISessionManager, fn func(s *service.Session) error) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return response.ResponseError(c, response.IdentityNotFound, fiber.StatusUnauthorized)
	}
	s := sessions.Acquire(identity.UserId)
	defer sessions.Release(s)
	return fn(s)
}
