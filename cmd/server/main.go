package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/chintukumar01/pharmatrack/internal/config"
	"github.com/chintukumar01/pharmatrack/internal/es"
	"github.com/chintukumar01/pharmatrack/internal/events"
	"github.com/chintukumar01/pharmatrack/internal/handlers"
	"github.com/chintukumar01/pharmatrack/internal/handlers/admin"
	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/mailer"
	"github.com/chintukumar01/pharmatrack/internal/service/analytics"
	"github.com/chintukumar01/pharmatrack/internal/service/checkout"
	"github.com/chintukumar01/pharmatrack/internal/service/payment"
	"github.com/chintukumar01/pharmatrack/internal/service/sale"
	httpserver "github.com/chintukumar01/pharmatrack/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	secret := []byte(configuration.JWT_SECRET)
	adminEmail := configuration.ADMIN_EMAIL

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(configuration.KAFKA_ADDRESS)
	}

	searchHandler := &handlers.SearchHandler{Index: es.MedicineIndex}
	adminMedicines := &admin.MedicineHandler{DB: db, Index: es.MedicineIndex, Producer: producer}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler.ES = esClient
		adminMedicines.ES = esClient
	}

	smtp := &mailer.SMTPSender{
		Host:     configuration.SMTP_HOST,
		Port:     configuration.SMTP_PORT,
		From:     configuration.EMAIL_FROM,
		Password: configuration.EMAIL_PASSWORD,
	}

	deps := httpserver.Deps{
		Secret: secret,
		AuthHandler: &handlers.AuthHandler{
			DB:     db,
			Secret: secret,
			Mailer: smtp,
			// Single-tenant policy: one configured address holds admin,
			// matched exactly and case-sensitively.
			IsAdmin:  func(email string) bool { return adminEmail != "" && email == adminEmail },
			Producer: producer,
		},
		MedicineHandler: &handlers.MedicineHandler{DB: db},
		OrderHandler: &handlers.OrderHandler{
			DB:       db,
			Engine:   &checkout.Engine{DB: db},
			Payments: &payment.Simulator{DB: db},
			Producer: producer,
		},
		AppointmentH:      &handlers.AppointmentHandler{DB: db},
		SearchHandler:     searchHandler,
		AdminMedicines:    adminMedicines,
		AdminOrders:       &admin.OrderHandler{DB: db},
		AdminAppointments: &admin.AppointmentHandler{DB: db},
		AdminSales:        &admin.SaleHandler{DB: db, Recorder: &sale.Recorder{DB: db}, Producer: producer},
		AdminAnalytics:    &admin.AnalyticsHandler{Aggregator: &analytics.Aggregator{DB: db}},
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
