package transaction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
	"lumbung/internal/services/payment"
	"lumbung/internal/validation"
)

type service struct {
	store   repositories.Store
	gateway payment.Gateway
	now     func() time.Time
}

type Option func(*service)

// WithClock overrides the time source used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService creates a new transaction service
func NewService(store repositories.Store, gateway payment.Gateway, opts ...Option) Service {
	if store == nil {
		panic("store is required")
	}
	if gateway == nil {
		gateway = payment.Noop{}
	}

	s := &service{store: store, gateway: gateway, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Book(ctx context.Context, actor models.Identity, wasteID uint, input models.BookingInput) (*models.Transaction, error) {
	if actor.Role != models.RoleRecycler {
		return nil, ErrRecyclerOnly
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	var booked *models.Transaction
	err := s.store.WithinTransaction(ctx, func(store repositories.Store) error {
		waste, err := store.Wastes().GetByID(ctx, wasteID)
		if err != nil {
			if errors.Is(err, repositories.ErrWasteNotFound) {
				return apperrors.NotFound("waste_not_found", "waste %d not found", wasteID)
			}
			return err
		}
		if waste.Status != models.WasteStatusAvailable {
			return apperrors.InvalidState("waste_unavailable",
				"waste %d is %s; booking requires %s", wasteID, waste.Status, models.WasteStatusAvailable)
		}

		qty := waste.Weight
		if input.EstimatedQuantity != nil {
			qty = *input.EstimatedQuantity
		}
		if qty <= 0 || qty > waste.Weight {
			return apperrors.InvalidState("invalid_quantity",
				"requested %.2f kg but waste %d has %.2f kg available", qty, wasteID, waste.Weight)
		}

		target := waste
		if qty < waste.Weight {
			parentWeight, parentPrice, child := split(waste, qty)
			if err := store.Wastes().Shrink(ctx, waste.ID, waste.Weight, parentWeight, parentPrice); err != nil {
				return conflictAsInvalidState(err, "waste %d changed while booking", waste.ID)
			}
			if err := store.Wastes().Create(ctx, child); err != nil {
				return err
			}
			log.Printf("Split waste %d: %.2f kg booked as waste %d, %.2f kg left", waste.ID, qty, child.ID, parentWeight)
			target = child
		} else {
			if err := store.Wastes().TransitionStatus(ctx, waste.ID, models.WasteStatusAvailable, models.WasteStatusBooked); err != nil {
				return conflictAsInvalidState(err, "waste %d was booked by someone else", waste.ID)
			}
			target.Status = models.WasteStatusBooked
		}

		tx := &models.Transaction{
			WasteID:           target.ID,
			RecyclerID:        actor.UserID,
			Status:            models.TransactionStatusPending,
			PaymentStatus:     models.PaymentStatusUnpaid,
			PickupDate:        input.PickupDate,
			PickupTime:        input.PickupTime,
			EstimatedQuantity: &qty,
			TransportMethod:   input.TransportMethod,
			ContactPerson:     input.ContactPerson,
			ContactPhone:      input.ContactPhone,
			PickupAddress:     input.PickupAddress,
			Notes:             input.Notes,
			DeliveryLatitude:  input.DeliveryLatitude,
			DeliveryLongitude: input.DeliveryLongitude,
		}
		if tx.TransportMethod == "" {
			tx.TransportMethod = models.TransportPickup
		}
		if err := store.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		tx.Waste = target
		booked = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Recycler %d booked waste %d (transaction %d)", actor.UserID, booked.WasteID, booked.ID)
	return booked, nil
}

func (s *service) ClaimReceived(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error) {
	return s.advance(ctx, actor, id, ActionClaimReceived, nil)
}

func (s *service) ConfirmHandover(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error) {
	return s.advance(ctx, actor, id, ActionConfirmHandover, func(tx *models.Transaction, now time.Time) error {
		tx.CompletedAt = &now
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error) {
	return s.advance(ctx, actor, id, ActionCancel, func(tx *models.Transaction, now time.Time) error {
		tx.CancelledAt = &now
		return nil
	})
}

func (s *service) SubmitPayment(ctx context.Context, actor models.Identity, id uint, input models.PaymentInput) (*models.Transaction, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if input.PaymentMethod != models.PaymentMethodCard && input.PaymentProofURL == "" {
		return nil, ErrProofRequired
	}

	mutate := func(tx *models.Transaction, now time.Time) error {
		quote := Quote(tx.Waste, tx)
		if input.TotalAmount > 0 && math.Abs(input.TotalAmount-quote.TotalAmount) > amountTolerance {
			log.Printf("Transaction %d: client total %.2f differs from quote %.2f, using quote",
				tx.ID, input.TotalAmount, quote.TotalAmount)
		}

		tx.PaymentMethod = input.PaymentMethod
		tx.PaymentProofURL = input.PaymentProofURL
		tx.PaymentReference = ""
		tx.WasteCost = quote.WasteCost
		tx.ShippingCost = quote.ShippingCost
		tx.TotalAmount = quote.TotalAmount
		tx.PaymentStatus = models.PaymentStatusPendingVerification
		tx.PaymentDate = &now
		return nil
	}
	if input.PaymentMethod != models.PaymentMethodCard {
		return s.advance(ctx, actor, id, ActionSubmitPayment, mutate)
	}

	// The charge is only created once the guarded update has claimed the
	// transaction, and is cancelled if the unit of work fails afterwards.
	var charge *payment.Charge
	result, err := s.advanceThen(ctx, actor, id, ActionSubmitPayment, mutate,
		func(store repositories.Store, tx *models.Transaction) error {
			var err error
			charge, err = s.gateway.Charge(ctx, payment.ChargeRequest{
				TransactionID: tx.ID,
				Amount:        tx.TotalAmount,
				Description:   fmt.Sprintf("%s (%s)", tx.Waste.Title, tx.Waste.Category),
			})
			if err != nil {
				return err
			}
			tx.PaymentReference = charge.Reference
			guard := repositories.TransactionGuard{Status: tx.Status, PaymentStatus: tx.PaymentStatus}
			if err := store.Transactions().Update(ctx, tx, guard); err != nil {
				return conflictAsInvalidState(err, "transaction %d changed concurrently", id)
			}
			return nil
		})
	if err != nil && charge != nil && charge.Reference != "" {
		if cerr := s.gateway.Cancel(context.WithoutCancel(ctx), charge.Reference); cerr != nil {
			log.Printf("Transaction %d: failed to cancel charge %s: %v", id, charge.Reference, cerr)
		}
	}
	return result, err
}

func (s *service) VerifyPayment(ctx context.Context, actor models.Identity, id uint, action string) (*models.Transaction, error) {
	var next models.PaymentStatus
	switch action {
	case VerifyApprove:
		next = models.PaymentStatusVerified
	case VerifyReject:
		next = models.PaymentStatusRejected
	default:
		return nil, ErrInvalidVerifyAction
	}

	return s.advance(ctx, actor, id, ActionVerifyPayment, func(tx *models.Transaction, _ time.Time) error {
		tx.PaymentStatus = next
		return nil
	})
}

// advance applies one row of the transition table inside a unit of work.
// mutate may adjust the transaction before it is written.
func (s *service) advance(ctx context.Context, actor models.Identity, id uint, action Action,
	mutate func(tx *models.Transaction, now time.Time) error) (*models.Transaction, error) {
	return s.advanceThen(ctx, actor, id, action, mutate, nil)
}

// advanceThen is advance with a hook that runs in the same unit of work
// after the transaction and its listing were written.
func (s *service) advanceThen(ctx context.Context, actor models.Identity, id uint, action Action,
	mutate func(tx *models.Transaction, now time.Time) error,
	after func(store repositories.Store, tx *models.Transaction) error) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.store.WithinTransaction(ctx, func(store repositories.Store) error {
		tx, err := load(ctx, store, id)
		if err != nil {
			return err
		}
		rule, err := enforce(action, actor, tx)
		if err != nil {
			return err
		}

		guard := repositories.TransactionGuard{Status: tx.Status, PaymentStatus: tx.PaymentStatus}
		now := s.now()
		if rule.to != "" {
			tx.Status = rule.to
		}
		if mutate != nil {
			if err := mutate(tx, now); err != nil {
				return err
			}
		}

		if err := store.Transactions().Update(ctx, tx, guard); err != nil {
			return conflictAsInvalidState(err, "transaction %d changed concurrently", id)
		}
		if rule.wasteTo != "" {
			if err := store.Wastes().TransitionStatus(ctx, tx.WasteID, rule.wasteFrom, rule.wasteTo); err != nil {
				return conflictAsInvalidState(err, "waste %d is not %s", tx.WasteID, rule.wasteFrom)
			}
			tx.Waste.Status = rule.wasteTo
		}
		if after != nil {
			if err := after(store, tx); err != nil {
				return err
			}
		}
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Transaction %d: %s by user %d -> status=%s payment=%s",
		id, action, actor.UserID, result.Status, result.PaymentStatus)
	return result, nil
}

func (s *service) MyBookings(ctx context.Context, actor models.Identity) ([]models.Transaction, error) {
	switch actor.Role {
	case models.RoleRecycler:
		return s.store.Transactions().ListByRecycler(ctx, actor.UserID)
	case models.RoleProducer:
		return s.store.Transactions().ListByProducer(ctx, actor.UserID)
	default:
		return nil, ErrUnknownRole
	}
}

func (s *service) ByWaste(ctx context.Context, actor models.Identity, wasteID uint) ([]models.Transaction, error) {
	waste, err := s.store.Wastes().GetByID(ctx, wasteID)
	if err != nil {
		if errors.Is(err, repositories.ErrWasteNotFound) {
			return nil, apperrors.NotFound("waste_not_found", "waste %d not found", wasteID)
		}
		return nil, err
	}

	txs, err := s.store.Transactions().ListByWaste(ctx, wasteID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleProducer:
		if waste.ProducerID == actor.UserID {
			return txs, nil
		}
	case models.RoleRecycler:
		for _, tx := range txs {
			if tx.RecyclerID == actor.UserID {
				return txs, nil
			}
		}
	default:
		return nil, ErrUnknownRole
	}
	return nil, apperrors.Forbidden("not_party", "you have no transactions on waste %d", wasteID)
}

func (s *service) PaymentDetails(ctx context.Context, actor models.Identity, id uint) (*models.PaymentDetails, error) {
	tx, err := load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if partyOf(actor, tx) == partyNone {
		return nil, ErrNotParty
	}

	producer, err := s.store.Users().GetByID(ctx, tx.Waste.ProducerID)
	if err != nil {
		return nil, fmt.Errorf("load producer %d: %w", tx.Waste.ProducerID, err)
	}

	return &models.PaymentDetails{
		TransactionID:    tx.ID,
		PaymentStatus:    tx.PaymentStatus,
		PaymentMethod:    tx.PaymentMethod,
		PaymentProofURL:  tx.PaymentProofURL,
		PaymentReference: tx.PaymentReference,
		PaymentDate:      tx.PaymentDate,
		WasteCost:        tx.WasteCost,
		ShippingCost:     tx.ShippingCost,
		TotalAmount:      tx.TotalAmount,
		ProducerBank:     producer.BankDetails(),
		Quote:            Quote(tx.Waste, tx),
	}, nil
}

// load fetches a transaction with its waste attached.
func load(ctx context.Context, store repositories.Store, id uint) (*models.Transaction, error) {
	tx, err := store.Transactions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.NotFound("transaction_not_found", "transaction %d not found", id)
		}
		return nil, err
	}
	if tx.Waste == nil {
		return nil, fmt.Errorf("transaction %d has no waste", id)
	}
	return tx, nil
}

func conflictAsInvalidState(err error, format string, args ...interface{}) error {
	if errors.Is(err, repositories.ErrConflict) {
		return apperrors.InvalidState("conflict", format, args...)
	}
	return err
}
