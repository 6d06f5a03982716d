package handler

import (
	"movie_curator/api/middleware"
	"movie_curator/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ISessionHandler interface {
	GetSession(c *fiber.Ctx) error
}

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

//------------------------------------------
//------------------------------------------

// GetSession godoc
//
//	@Summary		Get Session
//	@Description	The identity of the caller. Anonymous callers get a session cookie.
//	@Tags			Session
//	@Success		200	{object}	response.ResponseOKWithDataModel{data=model.Identity}
//	@Failure		401	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/session [get]
func (m *SessionHandler) GetSession(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return response.ResponseError(c, response.IdentityNotFound, fiber.StatusUnauthorized)
	}
	return response.ResponseOKWithData(c, identity)
}
