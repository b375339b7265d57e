package repositories

import (
	"context"
	"errors"

	"lumbung/internal/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrWasteNotFound       = errors.New("waste not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmailTaken          = errors.New("email already taken")
	// ErrConflict is returned by conditional updates that matched no row
	// because another request changed it first.
	ErrConflict          = errors.New("row changed concurrently")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateBankDetails(ctx context.Context, id uint, bank models.BankDetails) error
	IncrementTokenVersion(ctx context.Context, id uint) error
}

// WasteRepository persists listings.
type WasteRepository interface {
	Create(ctx context.Context, waste *models.Waste) error
	GetByID(ctx context.Context, id uint) (*models.Waste, error)
	ListAvailable(ctx context.Context, filter models.WasteFilter) ([]models.Waste, error)
	ListByProducer(ctx context.Context, producerID uint) ([]models.Waste, error)
	// Update writes the editable fields of an available listing.
	Update(ctx context.Context, waste *models.Waste) error
	// Delete removes an available listing.
	Delete(ctx context.Context, id uint) error
	// TransitionStatus moves a listing from one status to another and
	// fails with ErrConflict when the stored status is not from.
	TransitionStatus(ctx context.Context, id uint, from, to models.WasteStatus) error
	// Shrink sets a new weight and price on an available listing whose
	// stored weight still equals expectedWeight.
	Shrink(ctx context.Context, id uint, expectedWeight, weight, price float64) error
	CountByStatus(ctx context.Context, producerID uint) (map[models.WasteStatus]int64, error)
	CompletedWeight(ctx context.Context, producerID uint) (float64, error)
}

// TransactionGuard restricts an update to rows still in the given state.
// Empty fields are not checked.
type TransactionGuard struct {
	Status        models.TransactionStatus
	PaymentStatus models.PaymentStatus
}

// ImpactScope selects whose completed transactions are aggregated.
type ImpactScope struct {
	ProducerID uint
	RecyclerID uint
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	// GetByID loads the transaction with its waste attached.
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction, guard TransactionGuard) error
	ListByRecycler(ctx context.Context, recyclerID uint) ([]models.Transaction, error)
	ListByProducer(ctx context.Context, producerID uint) ([]models.Transaction, error)
	ListByWaste(ctx context.Context, wasteID uint) ([]models.Transaction, error)
	CountByStatus(ctx context.Context, scope ImpactScope) (map[models.TransactionStatus]int64, error)
	CompletedWeight(ctx context.Context, scope ImpactScope) (float64, error)
	CompletedRecords(ctx context.Context, scope ImpactScope) ([]models.CompletedRecord, error)
}

// Store groups the repositories behind one unit of work.
type Store interface {
	Users() UserRepository
	Wastes() WasteRepository
	Transactions() TransactionRepository
	// WithinTransaction runs fn against a store bound to a single
	// database transaction. Any error rolls every write back.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
