package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Medicine{}, &models.Order{}, &models.OrderItem{},
		&models.OfflineSale{}, &models.Appointment{},
	))
	return db
}

var orderSeq int

func seedOrder(t *testing.T, db *gorm.DB, mode, status string, total float64, items ...models.OrderItem) {
	t.Helper()
	orderSeq++
	order := models.Order{
		UserID:          1,
		OrderNumber:     fmt.Sprintf("ORD-TEST-%04d", orderSeq),
		Status:          status,
		TotalAmount:     total,
		PaymentMode:     mode,
		PaymentStatus:   models.PaymentStatusSuccess,
		ShippingAddress: "12 Park Street",
		Items:           items,
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestSalesReport(t *testing.T) {
	db := testDB(t)
	agg := &Aggregator{DB: db}

	seedOrder(t, db, models.PaymentModeUPI, models.OrderStatusPlaced, 300,
		models.OrderItem{MedicineID: 1, MedicineName: "Paracetamol", Quantity: 10, Price: 20, Subtotal: 200},
		models.OrderItem{MedicineID: 2, MedicineName: "Ibuprofen", Quantity: 2, Price: 50, Subtotal: 100},
	)
	seedOrder(t, db, models.PaymentModeUPI, models.OrderStatusDelivered, 100,
		models.OrderItem{MedicineID: 2, MedicineName: "Ibuprofen", Quantity: 2, Price: 50, Subtotal: 100},
	)
	seedOrder(t, db, models.PaymentModeCOD, models.OrderStatusShipped, 60,
		models.OrderItem{MedicineID: 1, MedicineName: "Paracetamol", Quantity: 3, Price: 20, Subtotal: 60},
	)
	// Cancelled orders contribute nothing.
	seedOrder(t, db, models.PaymentModeUPI, models.OrderStatusCancelled, 9999,
		models.OrderItem{MedicineID: 1, MedicineName: "Paracetamol", Quantity: 99, Price: 20, Subtotal: 1980},
	)

	require.NoError(t, db.Create(&models.OfflineSale{
		InvoiceNumber: "INV-20250314092653",
		Items:         "[]",
		Subtotal:      200,
		Tax:           10,
		TotalAmount:   210,
		PaymentMode:   models.SalePaymentCash,
	}).Error)

	report, err := agg.Sales(context.Background(), "daily")
	require.NoError(t, err)

	require.Equal(t, "daily", report.Period)
	require.InDelta(t, 400, report.OnlineRevenue, 1e-9)
	require.InDelta(t, 210, report.OfflineRevenue, 1e-9)
	require.InDelta(t, 610, report.TotalRevenue, 1e-9)

	require.EqualValues(t, 2, report.PaymentSplit[models.PaymentModeUPI].Orders)
	require.InDelta(t, 400, report.PaymentSplit[models.PaymentModeUPI].Revenue, 1e-9)
	require.EqualValues(t, 1, report.PaymentSplit[models.PaymentModeCOD].Orders)
	require.InDelta(t, 60, report.PaymentSplit[models.PaymentModeCOD].Revenue, 1e-9)

	require.Len(t, report.TopMedicines, 2)
	require.Equal(t, "Paracetamol", report.TopMedicines[0].Name)
	require.EqualValues(t, 13, report.TopMedicines[0].QuantitySold)
	require.InDelta(t, 260, report.TopMedicines[0].Revenue, 1e-9)
	require.Equal(t, "Ibuprofen", report.TopMedicines[1].Name)
	require.EqualValues(t, 4, report.TopMedicines[1].QuantitySold)
}

func TestSalesReportUnknownPeriodDefaultsToDaily(t *testing.T) {
	db := testDB(t)
	agg := &Aggregator{DB: db}

	report, err := agg.Sales(context.Background(), "yearly")
	require.NoError(t, err)
	require.Equal(t, "daily", report.Period)
	require.Zero(t, report.TotalRevenue)
}

func TestSalesReportWindow(t *testing.T) {
	db := testDB(t)
	agg := &Aggregator{DB: db}

	// Three days old: outside daily, inside weekly.
	old := models.Order{
		UserID:          1,
		OrderNumber:     "ORD-TEST-OLD",
		Status:          models.OrderStatusDelivered,
		TotalAmount:     500,
		PaymentMode:     models.PaymentModeUPI,
		PaymentStatus:   models.PaymentStatusSuccess,
		ShippingAddress: "12 Park Street",
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		UpdateColumn("created_at", time.Now().UTC().Add(-3*24*time.Hour)).Error)

	daily, err := agg.Sales(context.Background(), "daily")
	require.NoError(t, err)
	require.Zero(t, daily.TotalRevenue)

	weekly, err := agg.Sales(context.Background(), "weekly")
	require.NoError(t, err)
	require.Equal(t, "weekly", weekly.Period)
	require.InDelta(t, 500, weekly.TotalRevenue, 1e-9)
}

func TestDashboard(t *testing.T) {
	db := testDB(t)
	agg := &Aggregator{DB: db}

	require.NoError(t, db.Create(&models.Medicine{Name: "Paracetamol", Category: "General", Price: 20, Stock: 100, LowStockThreshold: 10}).Error)
	require.NoError(t, db.Create(&models.Medicine{Name: "Insulin", Category: "Diabetes", Price: 450, Stock: 3, LowStockThreshold: 10}).Error)

	require.NoError(t, db.Create(&models.Appointment{
		UserID: 1, DoctorName: "Dr. Rao", Specialization: "General",
		AppointmentDate: time.Now().UTC().Add(48 * time.Hour),
		AppointmentTime: "10:30", Status: models.AppointmentPending,
	}).Error)
	require.NoError(t, db.Create(&models.Appointment{
		UserID: 1, DoctorName: "Dr. Rao", Specialization: "General",
		AppointmentDate: time.Now().UTC().Add(72 * time.Hour),
		AppointmentTime: "11:00", Status: models.AppointmentApproved,
	}).Error)

	seedOrder(t, db, models.PaymentModeUPI, models.OrderStatusPlaced, 300)
	seedOrder(t, db, models.PaymentModeCOD, models.OrderStatusCancelled, 100)

	stats, err := agg.Dashboard(context.Background())
	require.NoError(t, err)

	require.EqualValues(t, 2, stats.TotalMedicines)
	require.EqualValues(t, 1, stats.LowStockItems)
	require.EqualValues(t, 1, stats.PendingAppointments)
	// Cancelled orders count toward today's order tally but not revenue.
	require.EqualValues(t, 2, stats.TodayOrders)
	require.InDelta(t, 300, stats.TodayRevenue, 1e-9)
}
