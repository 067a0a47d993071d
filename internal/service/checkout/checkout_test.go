package checkout

import (
	"context"
	"strings"
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
	require.NoError(t, db.AutoMigrate(&models.Medicine{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedMedicine(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Medicine {
	t.Helper()
	med := models.Medicine{Name: name, Category: "General", Price: price, Stock: stock}
	require.NoError(t, db.Create(&med).Error)
	return med
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var med models.Medicine
	require.NoError(t, db.First(&med, id).Error)
	return med.Stock
}

func TestPlaceOrder(t *testing.T) {
	db := testDB(t)
	engine := &Engine{DB: db}

	para := seedMedicine(t, db, "Paracetamol", 20, 100)
	ibu := seedMedicine(t, db, "Ibuprofen", 35.5, 40)

	order, err := engine.PlaceOrder(context.Background(), 1, []Line{
		{MedicineID: para.ID, Quantity: 3},
		{MedicineID: ibu.ID, Quantity: 2},
	}, "12 Park Street", models.PaymentModeUPI)
	require.NoError(t, err)

	require.Equal(t, models.OrderStatusPlaced, order.Status)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Equal(t, models.PaymentModeUPI, order.PaymentMode)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.InDelta(t, 3*20+2*35.5, order.TotalAmount, 1e-9)

	require.Len(t, order.Items, 2)
	require.Equal(t, "Paracetamol", order.Items[0].MedicineName)
	require.InDelta(t, 60, order.Items[0].Subtotal, 1e-9)
	require.InDelta(t, 20, order.Items[0].Price, 1e-9)

	require.Equal(t, 97, stockOf(t, db, para.ID))
	require.Equal(t, 38, stockOf(t, db, ibu.ID))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := testDB(t)
	engine := &Engine{DB: db}

	med := seedMedicine(t, db, "Paracetamol", 20, 10)

	order, err := engine.PlaceOrder(context.Background(), 1,
		[]Line{{MedicineID: med.ID, Quantity: 5}}, "12 Park Street", models.PaymentModeCOD)
	require.NoError(t, err)
	require.Equal(t, 5, stockOf(t, db, med.ID))
	require.NotNil(t, order)

	_, err = engine.PlaceOrder(context.Background(), 1,
		[]Line{{MedicineID: med.ID, Quantity: 6}}, "12 Park Street", models.PaymentModeCOD)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The failed attempt changed nothing.
	require.Equal(t, 5, stockOf(t, db, med.ID))
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.EqualValues(t, 1, orders)
}

func TestPlaceOrderAtomicRollback(t *testing.T) {
	db := testDB(t)
	engine := &Engine{DB: db}

	good := seedMedicine(t, db, "Paracetamol", 20, 100)
	scarce := seedMedicine(t, db, "Insulin", 450, 1)

	_, err := engine.PlaceOrder(context.Background(), 1, []Line{
		{MedicineID: good.ID, Quantity: 2},
		{MedicineID: scarce.ID, Quantity: 5},
	}, "12 Park Street", models.PaymentModeUPI)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The first line must not leak a decrement.
	require.Equal(t, 100, stockOf(t, db, good.ID))
	require.Equal(t, 1, stockOf(t, db, scarce.ID))

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.Zero(t, orders)
	require.Zero(t, items)
}

func TestPlaceOrderUnknownMedicine(t *testing.T) {
	db := testDB(t)
	engine := &Engine{DB: db}

	_, err := engine.PlaceOrder(context.Background(), 1,
		[]Line{{MedicineID: 999, Quantity: 1}}, "12 Park Street", models.PaymentModeUPI)
	require.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := testDB(t)
	engine := &Engine{DB: db}
	med := seedMedicine(t, db, "Paracetamol", 20, 10)

	cases := []struct {
		name    string
		lines   []Line
		address string
		mode    string
	}{
		{"empty items", nil, "12 Park Street", models.PaymentModeUPI},
		{"empty address", []Line{{MedicineID: med.ID, Quantity: 1}}, "", models.PaymentModeUPI},
		{"bad mode", []Line{{MedicineID: med.ID, Quantity: 1}}, "12 Park Street", "Cheque"},
		{"zero quantity", []Line{{MedicineID: med.ID, Quantity: 0}}, "12 Park Street", models.PaymentModeCOD},
		{"negative quantity", []Line{{MedicineID: med.ID, Quantity: -2}}, "12 Park Street", models.PaymentModeCOD},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.PlaceOrder(context.Background(), 1, tc.lines, tc.address, tc.mode)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	require.Equal(t, 10, stockOf(t, db, med.ID))
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	num := NewOrderNumber(now)
	require.True(t, strings.HasPrefix(num, "ORD-20250314092653-"))
	require.Len(t, num, len("ORD-20250314092653-")+4)
}
