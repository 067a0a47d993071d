package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
)

var (
	ErrValidation        = errors.New("validation")
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Line is one cart entry: a catalog reference plus a quantity.
type Line struct {
	MedicineID uint `json:"medicine_id"`
	Quantity   int  `json:"quantity"`
}

// Engine converts a cart into a durable order and an inventory decrement as
// one transaction. If any line fails validation, nothing is persisted and no
// stock changes.
type Engine struct {
	DB *gorm.DB
}

func (e *Engine) PlaceOrder(ctx context.Context, userID uint, lines []Line, shippingAddress, paymentMode string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping_address required", ErrValidation)
	}
	if paymentMode != models.PaymentModeUPI && paymentMode != models.PaymentModeCOD {
		return nil, fmt.Errorf("%w: payment_mode must be UPI or COD", ErrValidation)
	}
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	var order *models.Order

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(lines))

		// Stock is checked against the value as read; there is no row lock
		// or conditional decrement (see DESIGN.md).
		for _, ln := range lines {
			var med models.Medicine
			if err := tx.First(&med, ln.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: medicine %d", ErrMedicineNotFound, ln.MedicineID)
				}
				return err
			}
			if med.Stock < ln.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, med.Name)
			}

			subtotal := med.Price * float64(ln.Quantity)
			total += subtotal
			items = append(items, models.OrderItem{
				MedicineID:   med.ID,
				MedicineName: med.Name,
				Quantity:     ln.Quantity,
				Price:        med.Price,
				Subtotal:     subtotal,
			})
		}

		order = &models.Order{
			UserID:          userID,
			OrderNumber:     NewOrderNumber(time.Now()),
			Status:          models.OrderStatusPlaced,
			TotalAmount:     total,
			PaymentMode:     paymentMode,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, it := range items {
			if err := tx.Model(&models.Medicine{}).
				Where("id = ?", it.MedicineID).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// NewOrderNumber builds a human-readable order identifier from a UTC
// timestamp and a random suffix. Uniqueness is probabilistic; there is no
// collision check.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.UTC().Format("20060102150405"), 1000+rand.Intn(9000))
}
