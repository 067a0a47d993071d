package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/events"
	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/service/checkout"
	"github.com/chintukumar01/pharmatrack/internal/service/payment"
)

type OrderHandler struct {
	DB       *gorm.DB
	Engine   *checkout.Engine
	Payments *payment.Simulator
	Producer *events.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	var req struct {
		Items           []checkout.Line `json:"items"`
		ShippingAddress string          `json:"shipping_address"`
		PaymentMode     string          `json:"payment_mode"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Engine.PlaceOrder(ctx, user.ID, req.Items, req.ShippingAddress, req.PaymentMode)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrMedicineNotFound):
			l.Warn("create_order_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, checkout.ErrInsufficientStock):
			l.Warn("create_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrValidation):
			l.Warn("create_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("create_order_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, order.OrderNumber, map[string]any{
		"type":         "order_placed",
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})

	l.Info("create_order_success", "order_number", order.OrderNumber)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) OrderDetail(c echo.Context) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.Preload("Items").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.process_payment")

	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	mode := c.QueryParam("payment_mode")
	result, err := h.Payments.Process(ctx, &order, mode)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidMode) {
			l.Warn("process_payment_error", "status", 400, "reason", "invalid payment mode", "mode", mode)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payment mode")
		}
		l.Error("process_payment_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicOrderEvents, order.OrderNumber, map[string]any{
		"type":           "payment_processed",
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})

	l.Info("process_payment_success", "order_number", order.OrderNumber, "payment_status", order.PaymentStatus)
	return c.JSON(http.StatusOK, result)
}
