package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fdtraverso/mercadito/internal/events"
	"github.com/fdtraverso/mercadito/internal/identity"
	"github.com/fdtraverso/mercadito/internal/logging"
	"github.com/fdtraverso/mercadito/internal/metrics"
	"github.com/fdtraverso/mercadito/internal/service"
	"github.com/fdtraverso/mercadito/internal/session"
)

type AuthHandler struct {
	Sessions *session.Store
	Accounts *service.AccountService
	Orders   *service.OrderService
	Provider identity.Provider
	Producer events.Publisher
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// Login starts the OAuth dance: an anonymous session carrying a fresh
// anti-forgery state, then a redirect to the provider.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	sess, err := h.Sessions.Create(ctx)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot create session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session")
	}

	state := uuid.NewString()
	if err := h.Sessions.SetState(ctx, sess, state); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot store state", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store state")
	}

	c.SetCookie(h.Sessions.Cookie(sess))
	return c.Redirect(http.StatusFound, h.Provider.AuthURL(state))
}

// Callback completes the flow: byte-for-byte state comparison, code
// exchange, account reconciliation, session upgrade. Any failure stops
// the flow before an account is created or touched.
func (h *AuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.callback")

	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		l.Warn("callback_error", "status", 403, "reason", "no session cookie")
		return echo.NewHTTPError(http.StatusForbidden, "state mismatch")
	}
	sess, err := h.Sessions.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			l.Warn("callback_error", "status", 403, "reason", "unknown session")
			return echo.NewHTTPError(http.StatusForbidden, "state mismatch")
		}
		l.Error("callback_error", "status", 500, "reason", "session lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
	}

	returned := c.QueryParam("state")
	if sess.OAuthState == "" || returned == "" ||
		subtle.ConstantTimeCompare([]byte(sess.OAuthState), []byte(returned)) != 1 {
		l.Warn("callback_error", "status", 403, "reason", "state mismatch")
		return echo.NewHTTPError(http.StatusForbidden, "state mismatch")
	}

	claims, err := h.Provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		l.Warn("callback_error", "status", 401, "reason", "code exchange failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	account, err := h.Accounts.Reconcile(ctx, claims)
	if err != nil {
		l.Error("callback_error", "status", 500, "reason", "reconcile failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	if err := h.Sessions.Login(ctx, sess, account.ID); err != nil {
		l.Error("callback_error", "status", 500, "reason", "session upgrade failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}
	c.SetCookie(h.Sessions.Cookie(sess))

	metrics.LoginsTotal.Inc()
	h.publish(c, "user_events", map[string]any{
		"type":   "account_logged_in",
		"userID": account.ID,
		"email":  account.Email,
	})

	l.Info("callback_success", "account_id", account.ID)
	return c.Redirect(http.StatusFound, "/auth/profile")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.Sessions.Revoke(ctx, cookie.Value); err != nil {
			l.Error("logout_error", "status", 500, "reason", "cannot revoke session", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
		}
	}

	c.SetCookie(session.DeleteCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	account, err := h.Accounts.Get(ctx, userID)
	if err != nil {
		l.Error("profile_error", "status", 500, "reason", "cannot load account", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load account")
	}

	return c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) MyPurchases(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.my_purchases")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Orders.Purchases(ctx, userID)
	if err != nil {
		l.Error("my_purchases_error", "status", 500, "reason", "cannot list purchases", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list purchases")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AuthHandler) MySales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.my_sales")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Orders.Sales(ctx, userID)
	if err != nil {
		l.Error("my_sales_error", "status", 500, "reason", "cannot list sales", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list sales")
	}

	return c.JSON(http.StatusOK, orders)
}
