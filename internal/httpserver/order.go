package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/events"
	"github.com/fdtraverso/mercadito/internal/logging"
	"github.com/fdtraverso/mercadito/internal/metrics"
	"github.com/fdtraverso/mercadito/internal/service"
)

type OrderHandler struct {
	Orders   *service.OrderService
	Producer events.Publisher
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// Purchase buys one unit of the product in the path. The stock check
// and decrement happen atomically in the store; here we only translate
// the outcome.
func (h *OrderHandler) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.purchase")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	productID, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.Orders.Purchase(ctx, userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			l.Warn("purchase_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, domain.ErrSelfPurchase):
			metrics.PurchaseRejectionsTotal.WithLabelValues("self_purchase").Inc()
			l.Warn("purchase_error", "status", 403, "reason", "self purchase")
			return echo.NewHTTPError(http.StatusForbidden, "you cannot buy your own product")
		case errors.Is(err, domain.ErrOutOfStock):
			metrics.PurchaseRejectionsTotal.WithLabelValues("out_of_stock").Inc()
			l.Warn("purchase_error", "status", 400, "reason", "out of stock")
			return echo.NewHTTPError(http.StatusBadRequest, "product is out of stock")
		default:
			l.Error("purchase_error", "status", 500, "reason", "transaction failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "could not process purchase")
		}
	}

	metrics.PurchasesTotal.Inc()
	h.publish(c, map[string]any{
		"type":      "order_created",
		"orderID":   order.ID,
		"productID": order.ProductID,
		"buyerID":   order.BuyerID,
	})

	l.Info("purchase_success", "order_id", order.ID, "product_id", order.ProductID)
	return c.JSON(http.StatusCreated, order)
}

// Dispatch ships a pending order. Repeating it on a shipped order
// succeeds without re-effect.
func (h *OrderHandler) Dispatch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.dispatch")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := parseID(c)
	if err != nil {
		return err
	}

	order, changed, err := h.Orders.Dispatch(ctx, orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			l.Warn("dispatch_error", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, domain.ErrForbidden):
			l.Warn("dispatch_error", "status", 403, "reason", "not the seller")
			return echo.NewHTTPError(http.StatusForbidden, "you do not manage this order")
		default:
			l.Error("dispatch_error", "status", 500, "reason", "cannot dispatch order", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot dispatch order")
		}
	}

	if changed {
		metrics.DispatchesTotal.Inc()
		h.publish(c, map[string]any{
			"type":      "order_dispatched",
			"orderID":   order.ID,
			"productID": order.ProductID,
		})
	}

	l.Info("dispatch_success", "order_id", order.ID, "changed", changed)
	return c.JSON(http.StatusOK, order)
}
