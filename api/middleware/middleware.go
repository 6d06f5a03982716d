package middleware

import (
	"context"
	"movie_curator/configs"
	"movie_curator/model"
	errorHandler "movie_curator/pkg/error"
	"movie_curator/pkg/response"
	"movie_curator/util"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookieName    = "curatorSession"
	identityLocalsKey    = "identity"
	sessionTokenDuration = 30 * 24 * time.Hour
)

type IIdentityVerifier interface {
	VerifyIdToken(ctx context.Context, idToken string) (*model.Identity, error)
}

var (
	LocalhostRegex = regexp.MustCompile(`(?i)^(https?://)?localhost(:\d{4})?$`)
)

// IsAllowedOrigin accepts localhost, the configured origins and the origins of
// the dynamic configs. An empty origin is a non-browser client.
func IsAllowedOrigin(origin string) bool {
	if origin == "" || LocalhostRegex.MatchString(origin) {
		return true
	}
	return slices.Contains(configs.GetConfigs().CorsAllowedOrigins, origin) ||
		slices.Contains(configs.GetDbConfigs().CorsAllowedOrigins, origin)
}

// IdentityMiddleware resolves the caller: a firebase id token when one is sent,
// otherwise the anonymous identity kept in the session cookie. A caller with
// neither gets a new anonymous identity.
func IdentityMiddleware(verifier IIdentityVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if idToken := bearerToken(c); idToken != "" {
			if verifier == nil {
				return response.ResponseError(c, "Unauthorized, sign-in is not configured", fiber.StatusUnauthorized)
			}
			identity, err := verifier.VerifyIdToken(c.UserContext(), idToken)
			if err != nil || identity == nil || identity.UserId == "" {
				return response.ResponseError(c, "Unauthorized, "+response.InvalidToken, fiber.StatusUnauthorized)
			}
			c.Locals(identityLocalsKey, identity)
			return c.Next()
		}

		if sessionToken := c.Cookies(SessionCookieName, ""); sessionToken != "" {
			if _, claims, err := util.VerifySessionToken(sessionToken); err == nil {
				c.Locals(identityLocalsKey, &model.Identity{UserId: claims.UserId, Anonymous: true})
				return c.Next()
			}
		}

		userId := util.NewAnonymousUserId()
		token, expiresAt, err := util.CreateSessionToken(userId, sessionTokenDuration)
		if err != nil {
			errorHandler.SaveError("Error creating session token", err)
			return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
		}
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.UnixMilli(expiresAt),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(identityLocalsKey, &model.Identity{UserId: userId, Anonymous: true})
		return c.Next()
	}
}

func AdminMiddleware(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return response.ResponseError(c, response.IdentityNotFound, fiber.StatusUnauthorized)
	}
	if !identity.IsAdmin {
		return response.ResponseError(c, "Forbidden, "+response.AdminRequired, fiber.StatusForbidden)
	}
	return c.Next()
}

func GetIdentity(c *fiber.Ctx) *model.Identity {
	identity, _ := c.Locals(identityLocalsKey).(*model.Identity)
	return identity
}

// bearerToken reads the Authorization header, or the idToken query parameter
// for websocket upgrades where browsers cannot set headers.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization, "")
	if strArr := strings.Fields(header); len(strArr) == 2 && strings.EqualFold(strArr[0], "Bearer") {
		return strArr[1]
	}
	return c.Query("idToken", "")
}
