package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evanazhr/simple-pos-api/internal/cart"
	"github.com/evanazhr/simple-pos-api/internal/catalog"
	authmw "github.com/evanazhr/simple-pos-api/internal/middleware/auth"
)

type CartHandler struct {
	Carts    *cart.Store
	Catalog  *catalog.Service
	Producer EventPublisher
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"items": h.Carts.Get(userID).Lines()})
}

// AddToCart accepts only a product id; name, price and image come from
// the catalog so the cart never carries client-invented data.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	prod, err := h.Catalog.GetProduct(c.Request().Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	next := h.Carts.Add(userID, cart.Line{
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
		ImageURL:  prod.ImageURL,
	})

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": prod.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"items": next.Lines()})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	h.Carts.Clear(userID)

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.NoContent(http.StatusNoContent)
}
