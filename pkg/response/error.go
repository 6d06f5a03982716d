package response

import (
	"movie_curator/model"

	"github.com/gofiber/fiber/v2"
)

const (
	ServerError = "Server error, try again later"
	//----------------------
	InvalidToken     = "Invalid/Stale Token"
	AdminRequired    = "Admin permission required"
	IdentityNotFound = "Cannot resolve user identity"
	//----------------------
	BadRequestBody  = "Incorrect request body"
	InvalidTabParam = "Invalid tab"
	//----------------------
)

// ResponseCuratorError writes err with the status of its kind and its user message.
func ResponseCuratorError(c *fiber.Ctx, err error) error {
	code := model.GetErrorCode(err)
	if code == fiber.StatusInternalServerError {
		return ResponseError(c, ServerError, code)
	}
	return ResponseError(c, model.UserMessage(err), code)
}
