package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/service/analytics"
)

type AnalyticsHandler struct {
	Aggregator *analytics.Aggregator
}

func (h *AnalyticsHandler) Sales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.analytics_sales")

	report, err := h.Aggregator.Sales(ctx, c.QueryParam("period"))
	if err != nil {
		l.Error("analytics_sales_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.analytics_dashboard")

	stats, err := h.Aggregator.Dashboard(ctx)
	if err != nil {
		l.Error("analytics_dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, stats)
}
