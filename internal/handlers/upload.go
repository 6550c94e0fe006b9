package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evanazhr/simple-pos-api/internal/upload"
)

type UploadHandler struct {
	Presigner *upload.Presigner
}

// AuthorizeUpload hands out a time-limited presigned URL so the client
// uploads directly to storage. This service never touches the bytes;
// the catalog later receives the resulting public URL on product
// creation.
func (h *UploadHandler) AuthorizeUpload(c echo.Context) error {
	if h.Presigner == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "uploads not configured")
	}

	auth, err := h.Presigner.AuthorizeUpload(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, auth)
}
