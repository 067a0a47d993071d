package sale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
)

// TaxRate is the flat tax applied on top of the submitted subtotal.
const TaxRate = 0.05

var (
	ErrValidation        = errors.New("validation")
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Item is a counter-sale line. Price and subtotal are client-computed and
// trusted as submitted; only stock sufficiency is validated.
type Item struct {
	MedicineID   uint    `json:"medicine_id"`
	MedicineName string  `json:"medicine_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Subtotal     float64 `json:"subtotal"`
}

type Request struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Items         []Item `json:"items"`
	PaymentMode   string `json:"payment_mode"`
}

// Recorder persists an in-store sale: same stock-decrement-and-persist
// contract as checkout, but with no user account and the line items stored
// as a single JSON blob.
type Recorder struct {
	DB *gorm.DB
}

func (r *Recorder) Record(ctx context.Context, req Request) (*models.OfflineSale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	switch req.PaymentMode {
	case models.SalePaymentCash, models.SalePaymentCard, models.SalePaymentUPI:
	default:
		return nil, fmt.Errorf("%w: payment_mode must be Cash, Card or UPI", ErrValidation)
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	var recorded *models.OfflineSale

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		for _, it := range req.Items {
			var med models.Medicine
			if err := tx.First(&med, it.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrMedicineNotFound, it.MedicineName)
				}
				return err
			}
			if med.Stock < it.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, med.Name)
			}
			if err := tx.Model(&models.Medicine{}).
				Where("id = ?", med.ID).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
				return err
			}
			subtotal += it.Subtotal
		}

		blob, err := json.Marshal(req.Items)
		if err != nil {
			return fmt.Errorf("serialize items: %w", err)
		}

		tax := subtotal * TaxRate
		recorded = &models.OfflineSale{
			InvoiceNumber: NewInvoiceNumber(time.Now()),
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Items:         string(blob),
			Subtotal:      subtotal,
			Tax:           tax,
			TotalAmount:   subtotal + tax,
			PaymentMode:   req.PaymentMode,
		}
		return tx.Create(recorded).Error
	})
	if err != nil {
		return nil, err
	}

	return recorded, nil
}

// NewInvoiceNumber is timestamp-derived and probabilistically unique, same
// caveat as order numbers.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s", now.UTC().Format("20060102150405"))
}
