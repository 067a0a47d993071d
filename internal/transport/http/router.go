package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/chintukumar01/pharmatrack/internal/handlers"
	"github.com/chintukumar01/pharmatrack/internal/handlers/admin"
	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/token"
)

type Deps struct {
	Secret            []byte
	AuthHandler       *handlers.AuthHandler
	MedicineHandler   *handlers.MedicineHandler
	OrderHandler      *handlers.OrderHandler
	AppointmentH      *handlers.AppointmentHandler
	SearchHandler     *handlers.SearchHandler
	AdminMedicines    *admin.MedicineHandler
	AdminOrders       *admin.OrderHandler
	AdminAppointments *admin.AppointmentHandler
	AdminSales        *admin.SaleHandler
	AdminAnalytics    *admin.AnalyticsHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/request-otp", d.AuthHandler.RequestOTP)
	auth.POST("/verify-otp", d.AuthHandler.VerifyOTP)

	// Public browsing requires no token.
	user := e.Group("/user")
	user.GET("/medicines", d.MedicineHandler.Browse)
	user.GET("/medicines/categories", d.MedicineHandler.Categories)
	user.GET("/medicines/search", d.SearchHandler.Search)
	user.GET("/medicines/:id", d.MedicineHandler.Detail)
	user.GET("/doctors", d.AppointmentH.Doctors)

	userOnly := user.Group("", token.Require(d.Secret, models.RoleUser))
	userOnly.POST("/orders", d.OrderHandler.CreateOrder)
	userOnly.GET("/orders", d.OrderHandler.MyOrders)
	userOnly.GET("/orders/:id", d.OrderHandler.OrderDetail)
	userOnly.POST("/orders/:id/payment", d.OrderHandler.ProcessPayment)
	userOnly.POST("/appointments", d.AppointmentH.Book)
	userOnly.GET("/appointments", d.AppointmentH.MyAppointments)

	adm := e.Group("/admin", token.Require(d.Secret, models.RoleAdmin))
	adm.GET("/medicines", d.AdminMedicines.List)
	adm.POST("/medicines", d.AdminMedicines.Create)
	adm.PUT("/medicines/:id", d.AdminMedicines.Update)
	adm.DELETE("/medicines/:id", d.AdminMedicines.Delete)

	adm.GET("/orders", d.AdminOrders.List)
	adm.PUT("/orders/:id/status", d.AdminOrders.UpdateStatus)

	adm.GET("/appointments", d.AdminAppointments.List)
	adm.PUT("/appointments/:id/status", d.AdminAppointments.UpdateStatus)

	adm.POST("/offline-sales", d.AdminSales.Create)
	adm.GET("/offline-sales", d.AdminSales.List)

	adm.GET("/analytics/sales", d.AdminAnalytics.Sales)
	adm.GET("/analytics/dashboard", d.AdminAnalytics.Dashboard)
}
