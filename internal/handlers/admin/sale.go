package admin

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/events"
	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/service/sale"
	"github.com/chintukumar01/pharmatrack/internal/util"
)

type SaleHandler struct {
	DB       *gorm.DB
	Recorder *sale.Recorder
	Producer *events.Producer
}

func (h *SaleHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_offline_sale")

	var req sale.Request
	if err := c.Bind(&req); err != nil {
		l.Warn("create_offline_sale_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	recorded, err := h.Recorder.Record(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrMedicineNotFound):
			l.Warn("create_offline_sale_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, sale.ErrInsufficientStock):
			l.Warn("create_offline_sale_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, sale.ErrValidation):
			l.Warn("create_offline_sale_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("create_offline_sale_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, recorded.InvoiceNumber, map[string]any{
		"type":           "offline_sale_recorded",
		"invoice_number": recorded.InvoiceNumber,
		"total_amount":   recorded.TotalAmount,
	})

	l.Info("create_offline_sale_success", "invoice_number", recorded.InvoiceNumber)
	return c.JSON(http.StatusCreated, recorded)
}

func (h *SaleHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var sales []models.OfflineSale
	if err := h.DB.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sales).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, sales)
}
