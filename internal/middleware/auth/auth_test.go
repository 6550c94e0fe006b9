package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func newRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestRequireLoginNoCookie(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}
	c, _ := newRequest(t, "")

	var called bool
	err := m.RequireLogin(okHandler(&called))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	require.False(t, called)
}

func TestRequireLoginBadSignature(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(7)})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	c, _ := newRequest(t, signed)

	var called bool
	err = m.RequireLogin(okHandler(&called))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	require.False(t, called)
}

func TestRequireLoginSetsUserContext(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}
	c, rec := newRequest(t, signToken(t, jwt.MapClaims{"sub": float64(7), "role": "user"}))

	var called bool
	require.NoError(t, m.RequireLogin(okHandler(&called))(c))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := UserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)
	require.Equal(t, "user", c.Get("role"))
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}
	c, _ := newRequest(t, signToken(t, jwt.MapClaims{"sub": float64(7), "role": "user"}))

	var called bool
	err := m.RequireAdmin(okHandler(&called))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)
	require.False(t, called)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}
	c, _ := newRequest(t, signToken(t, jwt.MapClaims{"sub": float64(1), "role": "admin"}))

	var called bool
	require.NoError(t, m.RequireAdmin(okHandler(&called))(c))
	require.True(t, called)
}

func TestUserIDWithoutSession(t *testing.T) {
	c, _ := newRequest(t, "")
	_, err := UserID(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
