package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	OrderStatusPlaced    = "Placed"
	OrderStatusPacked    = "Packed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

const (
	PaymentModeUPI = "UPI"
	PaymentModeCOD = "COD"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusSuccess = "Success"
	PaymentStatusFailed  = "Failed"
)

const (
	AppointmentPending   = "Pending"
	AppointmentApproved  = "Approved"
	AppointmentRejected  = "Rejected"
	AppointmentCompleted = "Completed"
)

const (
	SalePaymentCash = "Cash"
	SalePaymentCard = "Card"
	SalePaymentUPI  = "UPI"
)

// OrderStatuses is the full enumerated set an admin may assign. Transitions
// are unconstrained: any listed value is settable regardless of current state.
var OrderStatuses = []string{
	OrderStatusPlaced, OrderStatusPacked, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled,
}

var AppointmentStatuses = []string{
	AppointmentPending, AppointmentApproved, AppointmentRejected, AppointmentCompleted,
}

type Medicine struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string     `gorm:"not null;index"           json:"name"`
	Category          string     `gorm:"not null;index"           json:"category"`
	Description       string     `json:"description"`
	Price             float64    `gorm:"not null"                 json:"price"`
	Stock             int        `gorm:"not null;default:0"       json:"stock"`
	LowStockThreshold int        `gorm:"default:10"               json:"low_stock_threshold"`
	Manufacturer      string     `json:"manufacturer"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"unique;not null;index"    json:"email"`
	Role      string    `gorm:"not null;default:user"    json:"role"`
	IsActive  bool      `gorm:"default:true"             json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// OTP is a transient login credential keyed by email only; it has no
// ownership relation to User rows.
type OTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"index;not null"           json:"email"`
	Code      string    `gorm:"not null"                 json:"-"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint        `gorm:"index;not null"           json:"user_id"`
	OrderNumber     string      `gorm:"unique;not null;index"    json:"order_number"`
	Status          string      `gorm:"not null;default:Placed;index" json:"status"`
	TotalAmount     float64     `gorm:"not null"                 json:"total_amount"`
	PaymentMode     string      `gorm:"not null"                 json:"payment_mode"`
	PaymentStatus   string      `gorm:"not null;default:Pending" json:"payment_status"`
	ShippingAddress string      `gorm:"type:text;not null"       json:"shipping_address"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `gorm:"index"                    json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem snapshots the medicine name and unit price at order time, so
// later catalog edits never alter historical orders.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      uint    `gorm:"index;not null"           json:"order_id"`
	MedicineID   uint    `gorm:"not null"                 json:"medicine_id"`
	MedicineName string  `gorm:"not null"                 json:"medicine_name"`
	Quantity     int     `gorm:"not null;check:quantity>0" json:"quantity"`
	Price        float64 `gorm:"not null"                 json:"price"`
	Subtotal     float64 `gorm:"not null"                 json:"subtotal"`
}

// OfflineSale stores its line items as one serialized JSON blob, not as
// relational rows. Immutable after creation.
type OfflineSale struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string    `gorm:"unique;not null;index"    json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Items         string    `gorm:"type:text;not null"       json:"items"`
	Subtotal      float64   `gorm:"not null"                 json:"subtotal"`
	Tax           float64   `gorm:"default:0"                json:"tax"`
	TotalAmount   float64   `gorm:"not null"                 json:"total_amount"`
	PaymentMode   string    `gorm:"not null"                 json:"payment_mode"`
	CreatedAt     time.Time `gorm:"index"                    json:"created_at"`
}

type Appointment struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"index;not null"           json:"user_id"`
	DoctorName      string    `gorm:"not null"                 json:"doctor_name"`
	Specialization  string    `gorm:"not null"                 json:"specialization"`
	AppointmentDate time.Time `gorm:"not null;index"           json:"appointment_date"`
	AppointmentTime string    `gorm:"not null"                 json:"appointment_time"`
	Status          string    `gorm:"not null;default:Pending;index" json:"status"`
	Notes           string    `gorm:"type:text"                json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Doctor is static reference data, seeded by the admin and read-only via
// the API. AvailableDays is a serialized list like "Mon,Tue,Wed".
type Doctor struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"not null"                 json:"name"`
	Specialization string `gorm:"not null"                 json:"specialization"`
	AvailableDays  string `gorm:"not null"                 json:"available_days"`
	AvailableTime  string `gorm:"not null"                 json:"available_time"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidAppointmentStatus(s string) bool {
	for _, v := range AppointmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
