package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
)

type OrderHandler struct {
	DB *gorm.DB
}

func (h *OrderHandler) List(c echo.Context) error {
	q := h.DB.Preload("Items")
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus sets any value from the enumerated set; transitions are
// deliberately unconstrained (no state-machine guard).
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !models.ValidOrderStatus(req.Status) {
		l.Warn("update_order_status_error", "status", 400, "reason", "unknown status", "value", req.Status)
		return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	order.Status = req.Status
	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		l.Error("update_order_status_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("update_order_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Order status updated to %s", req.Status),
		"order":   order,
	})
}
