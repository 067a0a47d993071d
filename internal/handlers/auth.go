package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/events"
	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/mailer"
	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/token"
	"github.com/chintukumar01/pharmatrack/internal/util"
)

// otpTTL is how long an issued code stays valid.
const otpTTL = time.Minute

type AuthHandler struct {
	DB     *gorm.DB
	Secret []byte
	Mailer mailer.Sender
	// IsAdmin is the authorization policy: it decides at login time whether
	// an email holds the admin role. Role is recomputed on every successful
	// verification, so policy changes take effect on the next login.
	IsAdmin  func(email string) bool
	Producer *events.Producer
}

func (h *AuthHandler) RequestOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.request_otp")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		l.Warn("request_otp_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	entry := models.OTP{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(otpTTL),
	}

	// A new request supersedes any live OTP for the same email.
	if err := h.DB.Where("email = ?", req.Email).Delete(&models.OTP{}).Error; err != nil {
		l.Error("request_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		l.Error("request_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.Mailer.SendOTP(req.Email, code); err != nil {
		l.Error("request_otp_error", "status", 500, "reason", "mail dispatch failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicUserEvents, req.Email, map[string]any{
		"type":  "otp_requested",
		"email": req.Email,
	})

	l.Info("request_otp_success", "email", req.Email)
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to email"})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_otp")

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OTP == "" {
		l.Warn("verify_otp_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "email and otp required")
	}

	var entry models.OTP
	err := h.DB.Where("email = ? AND code = ?", req.Email, req.OTP).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && util.ExpiredUTC(entry.ExpiresAt)) {
		l.Warn("verify_otp_error", "status", 401, "reason", "invalid or expired otp", "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired OTP")
	}
	if err != nil {
		l.Error("verify_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	// Single use.
	if err := h.DB.Delete(&entry).Error; err != nil {
		l.Error("verify_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	role := models.RoleUser
	if h.IsAdmin != nil && h.IsAdmin(req.Email) {
		role = models.RoleAdmin
	}

	var user models.User
	err = h.DB.Where("email = ?", req.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: req.Email, Role: role, IsActive: true}
		if err := h.DB.Create(&user).Error; err != nil {
			l.Error("verify_otp_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	case err != nil:
		l.Error("verify_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	default:
		if user.Role != role {
			user.Role = role
			if err := h.DB.Model(&user).Update("role", role).Error; err != nil {
				l.Error("verify_otp_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
		}
	}

	signed, err := token.Issue(h.Secret, user.Email, user.Role)
	if err != nil {
		l.Error("verify_otp_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicUserEvents, user.Email, map[string]any{
		"type":  "user_logged_in",
		"email": user.Email,
		"role":  user.Role,
	})

	l.Info("verify_otp_success", "email", user.Email, "role", user.Role)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": signed,
		"role":         user.Role,
	})
}
