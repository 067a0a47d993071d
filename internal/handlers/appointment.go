package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
)

type AppointmentHandler struct {
	DB *gorm.DB
}

// Doctors lists the static doctor reference data. Public.
func (h *AppointmentHandler) Doctors(c echo.Context) error {
	var doctors []models.Doctor
	if err := h.DB.Find(&doctors).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *AppointmentHandler) Book(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.book")

	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	var req struct {
		DoctorName      string    `json:"doctor_name"`
		Specialization  string    `json:"specialization"`
		AppointmentDate time.Time `json:"appointment_date"`
		AppointmentTime string    `json:"appointment_time"`
		Notes           string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("book_appointment_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.DoctorName == "" || req.Specialization == "" || req.AppointmentDate.IsZero() || req.AppointmentTime == "" {
		l.Warn("book_appointment_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_name, specialization, appointment_date and appointment_time required")
	}

	appointment := models.Appointment{
		UserID:          user.ID,
		DoctorName:      req.DoctorName,
		Specialization:  req.Specialization,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          models.AppointmentPending,
		Notes:           req.Notes,
	}
	if err := h.DB.Create(&appointment).Error; err != nil {
		l.Error("book_appointment_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("book_appointment_success", "appointment_id", appointment.ID)
	return c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) MyAppointments(c echo.Context) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return err
	}

	var appointments []models.Appointment
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("appointment_date DESC").
		Find(&appointments).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, appointments)
}
