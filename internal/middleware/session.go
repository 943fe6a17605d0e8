package middleware

import (
	"errors"

	"go-vtt-files/internal/apperrors"
	"go-vtt-files/internal/features/session"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionKey is the Locals key holding the resolved session.
const SessionKey = "session"

// Param reads a request parameter from the form body first, then the query
// string, so POST uploads and GET reads share the same field names.
func Param(c *fiber.Ctx, key string) string {
	if value := c.FormValue(key); value != "" {
		return value
	}
	return c.Query(key)
}

// CurrentSession returns the session stashed by SessionMiddleware.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	return sess
}

// SessionMiddleware resolves the session_id parameter against the session
// store and stashes the session for handlers. Missing token is a 400, an
// unresolvable one a 404, matching the upstream contract.
func SessionMiddleware(repo session.SessionRepository, skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Inject dummy session for dev
			c.Locals(SessionKey, &session.Session{
				Token:     "dev-session",
				AccountID: primitive.NilObjectID,
			})
			return c.Next()
		}

		token := Param(c, "session_id")
		if token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(apperrors.Response{
				Status: 400, Field: "session_id", Error: "required",
			})
		}

		sess, err := repo.FindByToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return c.Status(fiber.StatusNotFound).JSON(apperrors.Response{
					Status: 404, Field: "session_id", Error: "unknown",
				})
			}
			status, body := apperrors.HTTP(err)
			return c.Status(status).JSON(body)
		}

		c.Locals(SessionKey, sess)
		return c.Next()
	}
}
