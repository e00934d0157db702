package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emoji-explainer/internal/repository"
	"github.com/iliyamo/emoji-explainer/internal/utils"
)

// SessionAuth returns an Echo middleware that resolves a Bearer session
// token against the sessions table and injects the owning user's id and
// role into the request context.  Because sessions live in the database,
// logging out (which expires the row) takes effect immediately for every
// subsequent request — there is no stateless credential to outlive it.
// Handlers behind this middleware can read `c.Get("user_id")` and
// `c.Get("role")`.
func SessionAuth(sessions *repository.SessionRepo, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			sess, err := sessions.GetByTokenHash(ctx, utils.HashTokenRaw(raw))
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			if sess.Expired(time.Now().UTC()) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}

			u, err := users.GetByID(ctx, sess.UserID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
			}

			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
