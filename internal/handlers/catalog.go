package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/evanazhr/simple-pos-api/internal/catalog"
	"github.com/evanazhr/simple-pos-api/internal/models"
	"github.com/evanazhr/simple-pos-api/internal/service/search"
	"github.com/evanazhr/simple-pos-api/internal/util"
)

type CatalogHandler struct {
	Svc      *catalog.Service
	Producer EventPublisher
	ES       *elasticsearch.Client
	Index    string
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cat, err := h.Svc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return catalogError(c, err)
	}

	publish(c, h.Producer, "category_events", fmt.Sprint(cat.ID), map[string]any{
		"type":       "category_created",
		"categoryID": cat.ID,
		"name":       cat.Name,
	})

	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cat, err := h.Svc.UpdateCategory(c.Request().Context(), uint(id), req.Name)
	if err != nil {
		return catalogError(c, err)
	}

	publish(c, h.Producer, "category_events", fmt.Sprint(cat.ID), map[string]any{
		"type":       "category_updated",
		"categoryID": cat.ID,
		"name":       cat.Name,
	})

	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteCategory(c.Request().Context(), uint(id)); err != nil {
		return catalogError(c, err)
	}

	publish(c, h.Producer, "category_events", fmt.Sprint(id), map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req catalog.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	prod, err := h.Svc.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return catalogError(c, err)
	}

	h.indexProduct(c, *prod)

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	prod, err := h.Svc.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	items, total, err := h.Svc.ListProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHandler) indexProduct(c echo.Context, p models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func catalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
