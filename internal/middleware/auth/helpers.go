package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ParseSession validates the accessToken cookie and returns the
// subject and role claims. Session issuance lives in a separate auth
// service; this side only checks signatures.
func ParseSession(c echo.Context, secret []byte) (uint, string, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	tokenString := cookie.Value
	if tokenString == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token: "+err.Error())
	}
	if !token.Valid {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	role, _ := claims["role"].(string)

	return uint(subRaw), role, nil
}

func setUserContext(c echo.Context, userID uint, role string) {
	c.Set("userID", userID)
	c.Set("role", role)
}

// UserID reads the authenticated user id the session middleware put
// into the request context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return id, nil
}
