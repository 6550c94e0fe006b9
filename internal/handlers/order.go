package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evanazhr/simple-pos-api/internal/cart"
	"github.com/evanazhr/simple-pos-api/internal/logging"
	authmw "github.com/evanazhr/simple-pos-api/internal/middleware/auth"
	"github.com/evanazhr/simple-pos-api/internal/order"
	"github.com/evanazhr/simple-pos-api/internal/payment"
)

type OrderHandler struct {
	Svc      *order.Service
	Carts    *cart.Store
	Producer EventPublisher
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req order.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return h.orderError(c, l, err)
	}

	h.Carts.Clear(userID)

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":        "order_created",
		"userID":      userID,
		"orderID":     result.Order.ID,
		"grand_total": result.Order.GrandTotal,
	})

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ord, err := h.Svc.GetOrder(c.Request().Context(), userID, uint(id))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ord)
}

// RetryPayment re-initiates payment for an order left dangling by a
// gateway failure during checkout.
func (h *OrderHandler) RetryPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.retry_payment")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	result, err := h.Svc.RetryPayment(ctx, userID, uint(id))
	if err != nil {
		return h.orderError(c, l, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "payment_reinitiated",
		"userID":  userID,
		"orderID": result.Order.ID,
	})

	return c.JSON(http.StatusOK, result)
}

// orderError keeps the failure classes of the checkout flow distinct:
// a gateway failure returns the persisted order id so the client can
// offer "retry payment for order X", and a reconciliation failure
// additionally exposes the external transaction id for the operator.
func (h *OrderHandler) orderError(c echo.Context, l *slog.Logger, err error) error {
	var initErr *order.PaymentInitError
	var reconErr *order.ReconciliationError

	switch {
	case errors.Is(err, order.ErrValidation):
		l.Warn("order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		l.Warn("order_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &initErr):
		l.Warn("order_error", "status", 502, "order_id", initErr.OrderID, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"message":   "payment initiation failed",
			"order_id":  initErr.OrderID,
			"retryable": payment.Retryable(initErr.Err),
		})
	case errors.As(err, &reconErr):
		l.Error("order_error", "status", 500, "order_id", reconErr.OrderID, "external_transaction_id", reconErr.ExternalID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message":                 "payment accepted but not recorded, manual reconciliation required",
			"order_id":                reconErr.OrderID,
			"external_transaction_id": reconErr.ExternalID,
		})
	default:
		l.Error("order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
