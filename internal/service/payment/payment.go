package payment

import (
	"context"
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
)

// upiSuccessRate is the probability a mock UPI settlement succeeds.
const upiSuccessRate = 0.8

var ErrInvalidMode = errors.New("invalid payment mode")

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Simulator mocks settlement of an existing order. There is no idempotency
// guard: processing the same order twice re-draws the outcome and can
// overwrite an earlier Success with Failed.
type Simulator struct {
	DB *gorm.DB

	// Rand overrides the outcome source; nil means the global source.
	Rand *rand.Rand
}

func (s *Simulator) Process(ctx context.Context, order *models.Order, mode string) (*Result, error) {
	switch mode {
	case models.PaymentModeUPI:
		if s.draw() < upiSuccessRate {
			order.PaymentStatus = models.PaymentStatusSuccess
			if err := s.save(ctx, order); err != nil {
				return nil, err
			}
			return &Result{Success: true, Message: "Payment successful"}, nil
		}
		order.PaymentStatus = models.PaymentStatusFailed
		if err := s.save(ctx, order); err != nil {
			return nil, err
		}
		return &Result{Success: false, Message: "Payment failed"}, nil

	case models.PaymentModeCOD:
		order.PaymentStatus = models.PaymentStatusPending
		if err := s.save(ctx, order); err != nil {
			return nil, err
		}
		return &Result{Success: true, Message: "Order placed with Cash on Delivery"}, nil

	default:
		return nil, ErrInvalidMode
	}
}

func (s *Simulator) draw() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

func (s *Simulator) save(ctx context.Context, order *models.Order) error {
	return s.DB.WithContext(ctx).Model(order).
		UpdateColumn("payment_status", order.PaymentStatus).Error
}
