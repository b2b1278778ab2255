package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fdtraverso/mercadito/internal/logging"
	"github.com/fdtraverso/mercadito/internal/search"
)

type SearchHandler struct {
	Svc *search.Service
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.search")

	if h.Svc == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := search.Normalize(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	total, products, err := h.Svc.Search(ctx, q)
	if err != nil {
		l.Error("search_error", "status", 500, "reason", "es query failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
