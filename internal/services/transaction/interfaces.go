package transaction

import (
	"context"

	"lumbung/internal/models"
)

// Service drives a booking from reservation through handover and payment.
type Service interface {
	Book(ctx context.Context, actor models.Identity, wasteID uint, input models.BookingInput) (*models.Transaction, error)
	ClaimReceived(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error)
	ConfirmHandover(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error)
	Cancel(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error)
	SubmitPayment(ctx context.Context, actor models.Identity, id uint, input models.PaymentInput) (*models.Transaction, error)
	VerifyPayment(ctx context.Context, actor models.Identity, id uint, action string) (*models.Transaction, error)

	MyBookings(ctx context.Context, actor models.Identity) ([]models.Transaction, error)
	ByWaste(ctx context.Context, actor models.Identity, wasteID uint) ([]models.Transaction, error)
	PaymentDetails(ctx context.Context, actor models.Identity, id uint) (*models.PaymentDetails, error)
}
