package handlers

import (
	"net/http"
	"time"

	"github.com/lamdv/socialverse/backend/pkg/logging"
	"github.com/labstack/echo/v4"
)

// All endpoints answer with the same envelope: {"data": ...} on success,
// {"error": "<CODE>"} on failure.

func respondData(c echo.Context, v interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"data": v})
}

func respondError(c echo.Context, status int, code string) error {
	return c.JSON(status, echo.Map{"error": code})
}

// internalError logs the cause and answers with an opaque body.
func internalError(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).Error("internal error", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL_ERROR"})
}

const tokenCookieName = "token"

// setTokenCookie mirrors the session token into a cookie so browser clients
// keep their session without managing the Authorization header themselves.
func setTokenCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
