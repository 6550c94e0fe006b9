package auth

import (
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	JWTSecret []byte
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, err := ParseSession(c, m.JWTSecret)
		if err != nil {
			return err
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}
