package models

import (
	"time"
)

type TransactionStatus string

const (
	TransactionStatusPending             TransactionStatus = "pending"
	TransactionStatusWaitingConfirmation TransactionStatus = "waiting_confirmation"
	TransactionStatusCompleted           TransactionStatus = "completed"
	TransactionStatusCancelled           TransactionStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid              PaymentStatus = "unpaid"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusVerified            PaymentStatus = "verified"
	PaymentStatusRejected            PaymentStatus = "rejected"
)

// Payment methods
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodQRIS     = "qris"
	PaymentMethodCard     = "card"
)

// Transport methods
const (
	TransportPickup   = "pickup"
	TransportDelivery = "delivery"
)

// Transaction links one waste listing to one recycler through the
// booking, handover and payment lifecycle. Rows are never deleted.
type Transaction struct {
	ID         uint `gorm:"primarykey" json:"id"`
	WasteID    uint `gorm:"index;not null" json:"waste_id"`
	RecyclerID uint `gorm:"index;not null" json:"recycler_id"`

	Status        TransactionStatus `gorm:"size:32;index;not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"size:32;not null;default:'unpaid'" json:"payment_status"`

	// Booking details
	PickupDate        string   `json:"pickup_date"`
	PickupTime        string   `json:"pickup_time"`
	EstimatedQuantity *float64 `json:"estimated_quantity"`
	TransportMethod   string   `json:"transport_method"`
	ContactPerson     string   `json:"contact_person"`
	ContactPhone      string   `json:"contact_phone"`
	PickupAddress     string   `json:"pickup_address"`
	Notes             string   `gorm:"type:text" json:"notes"`
	DeliveryLatitude  *float64 `json:"delivery_latitude"`
	DeliveryLongitude *float64 `json:"delivery_longitude"`

	// Payment
	PaymentMethod    string     `json:"payment_method"`
	PaymentProofURL  string     `json:"payment_proof_url"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	WasteCost        float64    `json:"waste_cost"`
	ShippingCost     float64    `json:"shipping_cost"`
	TotalAmount      float64    `json:"total_amount"`
	PaymentDate      *time.Time `json:"payment_date"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Waste    *Waste `gorm:"foreignKey:WasteID" json:"waste,omitempty"`
	Recycler *User  `gorm:"foreignKey:RecyclerID" json:"recycler,omitempty"`
}

type BookingInput struct {
	PickupDate        string   `json:"pickup_date" validate:"max=20"`
	PickupTime        string   `json:"pickup_time" validate:"max=20"`
	EstimatedQuantity *float64 `json:"estimated_quantity"`
	TransportMethod   string   `json:"transport_method" validate:"omitempty,oneof=pickup delivery"`
	ContactPerson     string   `json:"contact_person" validate:"max=120"`
	ContactPhone      string   `json:"contact_phone" validate:"max=40"`
	PickupAddress     string   `json:"pickup_address"`
	Notes             string   `json:"notes"`
	DeliveryLatitude  *float64 `json:"delivery_latitude" validate:"omitempty,latitude"`
	DeliveryLongitude *float64 `json:"delivery_longitude" validate:"omitempty,longitude"`
}

type PaymentInput struct {
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cash transfer qris card"`
	PaymentProofURL string  `json:"payment_proof_url"`
	WasteCost       float64 `json:"waste_cost" validate:"gte=0"`
	ShippingCost    float64 `json:"shipping_cost" validate:"gte=0"`
	TotalAmount     float64 `json:"total_amount" validate:"gte=0"`
}

// CostQuote is the server side price of a booking.
type CostQuote struct {
	WasteCost    float64  `json:"waste_cost"`
	ShippingCost float64  `json:"shipping_cost"`
	TotalAmount  float64  `json:"total_amount"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}

// PaymentDetails is what either party sees about a booking's payment.
type PaymentDetails struct {
	TransactionID    uint          `json:"transaction_id"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentMethod    string        `json:"payment_method"`
	PaymentProofURL  string        `json:"payment_proof_url"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PaymentDate      *time.Time    `json:"payment_date"`
	WasteCost        float64       `json:"waste_cost"`
	ShippingCost     float64       `json:"shipping_cost"`
	TotalAmount      float64       `json:"total_amount"`
	ProducerBank     BankDetails   `json:"producer_bank"`
	Quote            CostQuote     `json:"quote"`
}
