package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumbung/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWaste(t *testing.T, store *MemoryStore, weight float64) *models.Waste {
	t.Helper()
	w := &models.Waste{
		ProducerID: 1,
		Title:      "Kardus",
		Category:   "Kertas",
		Weight:     weight,
		Price:      1000,
		Status:     models.WasteStatusAvailable,
	}
	require.NoError(t, store.Wastes().Create(context.Background(), w))
	return w
}

func TestMemoryUsersEmailIsCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Email: "ani@example.com", Role: models.RoleProducer}))
	err := store.Users().Create(ctx, &models.User{Email: "ANI@example.com", Role: models.RoleRecycler})
	assert.ErrorIs(t, err, ErrEmailTaken)

	user, err := store.Users().GetByEmail(ctx, "Ani@Example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, 1, user.TokenVersion)

	_, err = store.Users().GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryWithinTransactionRollsBack(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWaste(t, store, 10)

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(tx Store) error {
		if err := tx.Wastes().Shrink(ctx, w.ID, 10, 6, 600); err != nil {
			return err
		}
		if err := tx.Wastes().Create(ctx, &models.Waste{ProducerID: 1, Weight: 4, Status: models.WasteStatusBooked}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := store.Wastes().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Weight)
	assert.Equal(t, 1000.0, stored.Price)

	_, err = store.Wastes().GetByID(ctx, w.ID+1)
	assert.ErrorIs(t, err, ErrWasteNotFound)

	next := seedWaste(t, store, 1)
	assert.Equal(t, w.ID+1, next.ID)
}

func TestMemoryWithinTransactionCommits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWaste(t, store, 10)

	err := store.WithinTransaction(ctx, func(tx Store) error {
		return tx.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked)
	})
	require.NoError(t, err)

	stored, err := store.Wastes().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WasteStatusBooked, stored.Status)
}

func TestMemoryWasteConditionalWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWaste(t, store, 10)

	assert.ErrorIs(t, store.Wastes().Shrink(ctx, w.ID, 9, 5, 500), ErrConflict)

	require.NoError(t, store.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked))
	assert.ErrorIs(t, store.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked), ErrConflict)

	w.Title = "changed"
	assert.ErrorIs(t, store.Wastes().Update(ctx, w), ErrConflict)
	assert.ErrorIs(t, store.Wastes().Delete(ctx, w.ID), ErrConflict)
	assert.ErrorIs(t, store.Wastes().Delete(ctx, 99), ErrConflict)
}

func TestMemoryTransactionGuardAndRelations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	recycler := &models.User{Email: "r@example.com", Role: models.RoleRecycler}
	require.NoError(t, store.Users().Create(ctx, recycler))
	w := seedWaste(t, store, 3)

	tx := &models.Transaction{
		WasteID:       w.ID,
		RecyclerID:    recycler.ID,
		Status:        models.TransactionStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	require.NoError(t, store.Transactions().Create(ctx, tx))

	loaded, err := store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Waste)
	require.NotNil(t, loaded.Recycler)
	assert.Equal(t, w.ID, loaded.Waste.ID)
	assert.Equal(t, fixed, loaded.CreatedAt)

	loaded.Status = models.TransactionStatusWaitingConfirmation
	stale := TransactionGuard{Status: models.TransactionStatusCancelled}
	assert.ErrorIs(t, store.Transactions().Update(ctx, loaded, stale), ErrConflict)

	guard := TransactionGuard{Status: models.TransactionStatusPending, PaymentStatus: models.PaymentStatusUnpaid}
	require.NoError(t, store.Transactions().Update(ctx, loaded, guard))

	counts, err := store.Transactions().CountByStatus(ctx, ImpactScope{RecyclerID: recycler.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.TransactionStatusWaitingConfirmation])

	byProducer, err := store.Transactions().ListByProducer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byProducer, 1)

	other, err := store.Transactions().ListByProducer(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryCompletedRecordsUseBookedWaste(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWaste(t, store, 4)

	done := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	for _, status := range []models.TransactionStatus{models.TransactionStatusCompleted, models.TransactionStatusCancelled} {
		tx := &models.Transaction{WasteID: w.ID, RecyclerID: 7, Status: status, CompletedAt: &done}
		require.NoError(t, store.Transactions().Create(ctx, tx))
	}

	records, err := store.Transactions().CompletedRecords(ctx, ImpactScope{ProducerID: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4.0, records[0].Weight)
	assert.Equal(t, "Kertas", records[0].Category)

	total, err := store.Transactions().CompletedWeight(ctx, ImpactScope{RecyclerID: 7})
	require.NoError(t, err)
	assert.Equal(t, 4.0, total)
}

func TestMemoryDeleteKeepsCancelledHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWaste(t, store, 5)

	tx := &models.Transaction{WasteID: w.ID, RecyclerID: 7, Status: models.TransactionStatusCancelled}
	require.NoError(t, store.Transactions().Create(ctx, tx))

	require.NoError(t, store.Wastes().Delete(ctx, w.ID))

	_, err := store.Wastes().GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWasteNotFound)

	mine, err := store.Wastes().ListByProducer(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	assert.ErrorIs(t, store.Wastes().Delete(ctx, w.ID), ErrConflict)
	assert.ErrorIs(t, store.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked), ErrConflict)

	loaded, err := store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Waste)
	assert.Equal(t, w.ID, loaded.Waste.ID)
	assert.True(t, loaded.Waste.DeletedAt.Valid)
}
