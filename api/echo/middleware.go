package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/session"
)

// userContextKey is where RequireUser stores the merged user.
const userContextKey = "storefront.user"

// SessionGuard gates routes on the session manager. Every decision waits
// on the initialization barrier first, so a request racing the bootstrap
// never sees a half-initialized session.
type SessionGuard struct {
	sessions *session.Manager
}

// NewSessionGuard creates a new SessionGuard.
func NewSessionGuard(sessions *session.Manager) *SessionGuard {
	return &SessionGuard{sessions: sessions}
}

// RequireUser rejects requests without a live session.
func (g *SessionGuard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.sessions.AwaitInitialized(c.Request().Context()); err != nil {
			return err
		}

		user := g.sessions.CurrentUser()
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "authentication required",
			})
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RedirectAuthenticated sends signed-in users away from the login and
// signup routes.
func (g *SessionGuard) RedirectAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.sessions.AwaitInitialized(c.Request().Context()); err != nil {
			return err
		}

		if g.sessions.CurrentUser() != nil {
			return c.Redirect(http.StatusFound, "/")
		}
		return next(c)
	}
}

// currentUser returns the merged user stored by RequireUser.
func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}
