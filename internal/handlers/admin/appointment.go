package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
)

type AppointmentHandler struct {
	DB *gorm.DB
}

func (h *AppointmentHandler) List(c echo.Context) error {
	q := h.DB.Model(&models.Appointment{})
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if doctor := c.QueryParam("doctor"); doctor != "" {
		q = q.Where("doctor_name LIKE ?", "%"+doctor+"%")
	}
	if date := c.QueryParam("date"); date != "" {
		day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		next := day.Add(24 * time.Hour)
		q = q.Where("appointment_date >= ? AND appointment_date < ?", day, next)
	}

	var appointments []models.Appointment
	if err := q.Order("appointment_date DESC").Find(&appointments).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, appointments)
}

// UpdateStatus sets any value from the enumerated set; transitions are
// deliberately unconstrained (no state-machine guard).
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_appointment_status")

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
	if !models.ValidAppointmentStatus(req.Status) {
		l.Warn("update_appointment_status_error", "status", 400, "reason", "unknown status", "value", req.Status)
		return echo.NewHTTPError(http.StatusBadRequest, "unknown appointment status")
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}

	appointment.Status = req.Status
	if err := h.DB.Model(&appointment).Update("status", req.Status).Error; err != nil {
		l.Error("update_appointment_status_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("update_appointment_status_success", "appointment_id", appointment.ID, "appointment_status", appointment.Status)
	return c.JSON(http.StatusOK, echo.Map{
		"message":     fmt.Sprintf("Appointment %s successfully", strings.ToLower(req.Status)),
		"appointment": appointment,
	})
}
