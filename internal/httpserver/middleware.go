package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/session"
)

// SessionMiddleware is the access gate: every mutating route and every
// "my data" view sits behind RequireLogin.
type SessionMiddleware struct {
	Sessions *session.Store
}

// RequireLogin resolves the session cookie to a logged-in account and
// puts it into the echo context. Browsers doing a GET are bounced to
// the login flow; everything else gets a plain 401.
func (m *SessionMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := m.sessionFromCookie(c)
		if err != nil || sess.UserID == 0 {
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}
			if c.Request().Method == http.MethodGet {
				return c.Redirect(http.StatusFound, "/auth/login")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}

		c.Set("userID", sess.UserID)
		c.Set("session", sess)
		return next(c)
	}
}

func (m *SessionMiddleware) sessionFromCookie(c echo.Context) (*models.Session, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil, session.ErrNoSession
	}
	return m.Sessions.Get(c.Request().Context(), cookie.Value)
}

func GetUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return id, nil
}
