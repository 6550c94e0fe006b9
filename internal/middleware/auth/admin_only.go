package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, err := ParseSession(c, m.JWTSecret)
		if err != nil {
			return err
		}
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}
