package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
)

type PaymentSplit struct {
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopMedicine struct {
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type SalesReport struct {
	Period         string                  `json:"period"`
	TotalRevenue   float64                 `json:"total_revenue"`
	OnlineRevenue  float64                 `json:"online_revenue"`
	OfflineRevenue float64                 `json:"offline_revenue"`
	PaymentSplit   map[string]PaymentSplit `json:"payment_split"`
	TopMedicines   []TopMedicine           `json:"top_medicines"`
}

type DashboardStats struct {
	TotalMedicines      int64   `json:"total_medicines"`
	LowStockItems       int64   `json:"low_stock_items"`
	PendingAppointments int64   `json:"pending_appointments"`
	TodayOrders         int64   `json:"today_orders"`
	TodayRevenue        float64 `json:"today_revenue"`
}

// Aggregator builds read-only rollups over orders, offline sales and
// appointments. Cancelled orders are excluded from revenue everywhere.
type Aggregator struct {
	DB *gorm.DB
}

// Sales reports revenue for a trailing window: daily (1d), weekly (7d) or
// monthly (30d). Unknown periods fall back to daily.
func (a *Aggregator) Sales(ctx context.Context, period string) (*SalesReport, error) {
	now := time.Now().UTC()
	var start time.Time
	switch period {
	case "weekly":
		start = now.Add(-7 * 24 * time.Hour)
	case "monthly":
		start = now.Add(-30 * 24 * time.Hour)
	default:
		period = "daily"
		start = now.Add(-24 * time.Hour)
	}

	var onlineRows []struct {
		PaymentMode  string
		TotalOrders  int64
		TotalRevenue float64
	}
	if err := a.DB.WithContext(ctx).Model(&models.Order{}).
		Select("payment_mode, count(id) as total_orders, coalesce(sum(total_amount), 0) as total_revenue").
		Where("created_at >= ? AND status <> ?", start, models.OrderStatusCancelled).
		Group("payment_mode").
		Scan(&onlineRows).Error; err != nil {
		return nil, err
	}

	var offline struct {
		TotalSales   int64
		TotalRevenue float64
	}
	if err := a.DB.WithContext(ctx).Model(&models.OfflineSale{}).
		Select("count(id) as total_sales, coalesce(sum(total_amount), 0) as total_revenue").
		Where("created_at >= ?", start).
		Scan(&offline).Error; err != nil {
		return nil, err
	}

	var top []TopMedicine
	if err := a.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.medicine_name as name, sum(order_items.quantity) as quantity_sold, sum(order_items.subtotal) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.status <> ?", start, models.OrderStatusCancelled).
		Group("order_items.medicine_name").
		Order("quantity_sold DESC").
		Limit(10).
		Scan(&top).Error; err != nil {
		return nil, err
	}

	report := &SalesReport{
		Period:         period,
		OfflineRevenue: offline.TotalRevenue,
		PaymentSplit:   make(map[string]PaymentSplit, len(onlineRows)),
		TopMedicines:   top,
	}
	for _, row := range onlineRows {
		report.OnlineRevenue += row.TotalRevenue
		report.PaymentSplit[row.PaymentMode] = PaymentSplit{
			Orders:  row.TotalOrders,
			Revenue: row.TotalRevenue,
		}
	}
	report.TotalRevenue = report.OnlineRevenue + report.OfflineRevenue

	return report, nil
}

func (a *Aggregator) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := a.DB.WithContext(ctx)

	if err := db.Model(&models.Medicine{}).Count(&stats.TotalMedicines).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Medicine{}).
		Where("stock <= low_stock_threshold").
		Count(&stats.LowStockItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Appointment{}).
		Where("status = ?", models.AppointmentPending).
		Count(&stats.PendingAppointments).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := db.Model(&models.Order{}).
		Where("created_at >= ?", dayStart).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct{ Total float64 }
	if err := db.Model(&models.Order{}).
		Select("coalesce(sum(total_amount), 0) as total").
		Where("created_at >= ? AND status <> ?", dayStart, models.OrderStatusCancelled).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TodayRevenue = revenue.Total

	return stats, nil
}
