package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lumbung/internal/models"
	"lumbung/internal/repositories/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gormFixture struct {
	store    *GormStore
	producer *models.User
	recycler *models.User
}

func newGormFixture(t *testing.T, userCache cache.UserCache) *gormFixture {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "lumbung.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	store := NewGormStore(db, userCache)
	t.Cleanup(func() { _ = store.Close() })

	f := &gormFixture{store: store}
	f.producer = f.user(t, "producer@example.com", models.RoleProducer)
	f.recycler = f.user(t, "recycler@example.com", models.RoleRecycler)
	return f
}

func (f *gormFixture) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "hash", Name: email, Role: role, TokenVersion: 1}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *gormFixture) waste(t *testing.T, weight float64, status models.WasteStatus) *models.Waste {
	t.Helper()
	w := &models.Waste{
		ProducerID: f.producer.ID,
		Title:      "Kardus bekas",
		Category:   "Kertas",
		Weight:     weight,
		Price:      weight * 1000,
		Status:     status,
	}
	require.NoError(t, f.store.Wastes().Create(context.Background(), w))
	return w
}

func (f *gormFixture) booking(t *testing.T, wasteID uint, status models.TransactionStatus) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		WasteID:       wasteID,
		RecyclerID:    f.recycler.ID,
		Status:        status,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	if status == models.TransactionStatusCompleted {
		done := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
		tx.CompletedAt = &done
	}
	require.NoError(t, f.store.Transactions().Create(context.Background(), tx))
	return tx
}

func TestGormUsers(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()

	err := f.store.Users().Create(ctx, &models.User{Email: "producer@example.com", Password: "x", Name: "x", Role: models.RoleProducer})
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := f.store.Users().GetByEmail(ctx, "recycler@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.recycler.ID, byEmail.ID)

	_, err = f.store.Users().GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.store.Users().IncrementTokenVersion(ctx, f.recycler.ID))
	reloaded, err := f.store.Users().GetByID(ctx, f.recycler.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TokenVersion)

	assert.ErrorIs(t, f.store.Users().UpdateBankDetails(ctx, 999, models.BankDetails{BankName: "BRI"}), ErrUserNotFound)
}

func TestGormWasteRejectsStaleWrites(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()
	w := f.waste(t, 10, models.WasteStatusAvailable)

	assert.ErrorIs(t, f.store.Wastes().Shrink(ctx, w.ID, 9, 5, 5000), ErrConflict)
	require.NoError(t, f.store.Wastes().Shrink(ctx, w.ID, 10, 6, 6000))
	assert.ErrorIs(t, f.store.Wastes().Shrink(ctx, w.ID, 10, 2, 2000), ErrConflict)

	stored, err := f.store.Wastes().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, stored.Weight)
	assert.Equal(t, 6000.0, stored.Price)

	require.NoError(t, f.store.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked))
	assert.ErrorIs(t, f.store.Wastes().TransitionStatus(ctx, w.ID, models.WasteStatusAvailable, models.WasteStatusBooked), ErrConflict)

	stored.Title = "changed"
	assert.ErrorIs(t, f.store.Wastes().Update(ctx, stored), ErrConflict)
	assert.ErrorIs(t, f.store.Wastes().Shrink(ctx, w.ID, 6, 1, 1000), ErrConflict)
	assert.ErrorIs(t, f.store.Wastes().Delete(ctx, w.ID), ErrConflict)

	_, err = f.store.Wastes().GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrWasteNotFound)
}

func TestGormTransactionGuardedUpdate(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()
	w := f.waste(t, 3, models.WasteStatusBooked)
	tx := f.booking(t, w.ID, models.TransactionStatusPending)

	loaded, err := f.store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Waste)
	assert.Equal(t, w.ID, loaded.Waste.ID)

	loaded.Status = models.TransactionStatusWaitingConfirmation
	loaded.Notes = "lost race"
	stale := TransactionGuard{Status: models.TransactionStatusPending, PaymentStatus: models.PaymentStatusVerified}
	assert.ErrorIs(t, f.store.Transactions().Update(ctx, loaded, stale), ErrConflict)

	unchanged, err := f.store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, unchanged.Status)
	assert.Empty(t, unchanged.Notes)

	guard := TransactionGuard{Status: models.TransactionStatusPending, PaymentStatus: models.PaymentStatusUnpaid}
	require.NoError(t, f.store.Transactions().Update(ctx, loaded, guard))
	assert.ErrorIs(t, f.store.Transactions().Update(ctx, loaded, guard), ErrConflict)

	updated, err := f.store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusWaitingConfirmation, updated.Status)
	assert.Equal(t, "lost race", updated.Notes)
	assert.Equal(t, w.ID, updated.WasteID)
	assert.Equal(t, f.recycler.ID, updated.RecyclerID)
}

func TestGormWithinTransactionRollsBack(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()
	w := f.waste(t, 10, models.WasteStatusAvailable)

	boom := errors.New("boom")
	err := f.store.WithinTransaction(ctx, func(tx Store) error {
		if err := tx.Wastes().Shrink(ctx, w.ID, 10, 4, 4000); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := f.store.Wastes().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Weight)
}

func TestGormDeleteKeepsCancelledHistory(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()
	w := f.waste(t, 5, models.WasteStatusAvailable)
	tx := f.booking(t, w.ID, models.TransactionStatusCancelled)

	// Bookings hold a real foreign key, so the row itself must survive.
	hard := f.store.DB().Unscoped().Delete(&models.Waste{}, w.ID)
	require.Error(t, hard.Error)

	require.NoError(t, f.store.Wastes().Delete(ctx, w.ID))
	assert.ErrorIs(t, f.store.Wastes().Delete(ctx, w.ID), ErrConflict)

	_, err := f.store.Wastes().GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWasteNotFound)

	mine, err := f.store.Wastes().ListByProducer(ctx, f.producer.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	loaded, err := f.store.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Waste)
	assert.Equal(t, w.ID, loaded.Waste.ID)

	bookings, err := f.store.Transactions().ListByRecycler(ctx, f.recycler.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.NotNil(t, bookings[0].Waste)

	history, err := f.store.Transactions().ListByProducer(ctx, f.producer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestGormImpactAggregates(t *testing.T) {
	f := newGormFixture(t, nil)
	ctx := context.Background()
	other := f.user(t, "other@example.com", models.RoleRecycler)

	f.waste(t, 8, models.WasteStatusAvailable)
	done := f.waste(t, 4, models.WasteStatusCompleted)
	f.booking(t, done.ID, models.TransactionStatusCompleted)
	pending := f.waste(t, 2, models.WasteStatusBooked)
	f.booking(t, pending.ID, models.TransactionStatusPending)
	released := f.waste(t, 1, models.WasteStatusAvailable)
	f.booking(t, released.ID, models.TransactionStatusCancelled)

	wasteCounts, err := f.store.Wastes().CountByStatus(ctx, f.producer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), wasteCounts[models.WasteStatusAvailable])
	assert.Equal(t, int64(1), wasteCounts[models.WasteStatusBooked])
	assert.Equal(t, int64(1), wasteCounts[models.WasteStatusCompleted])

	listed, err := f.store.Wastes().CompletedWeight(ctx, f.producer.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, listed)

	for _, scope := range []ImpactScope{{ProducerID: f.producer.ID}, {RecyclerID: f.recycler.ID}} {
		counts, err := f.store.Transactions().CountByStatus(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[models.TransactionStatusCompleted])
		assert.Equal(t, int64(1), counts[models.TransactionStatusPending])
		assert.Equal(t, int64(1), counts[models.TransactionStatusCancelled])

		total, err := f.store.Transactions().CompletedWeight(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, 4.0, total)

		records, err := f.store.Transactions().CompletedRecords(ctx, scope)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 4.0, records[0].Weight)
		assert.Equal(t, "Kertas", records[0].Category)
		require.NotNil(t, records[0].CompletedAt)
	}

	none, err := f.store.Transactions().CompletedWeight(ctx, ImpactScope{RecyclerID: other.ID})
	require.NoError(t, err)
	assert.Zero(t, none)

	counts, err := f.store.Transactions().CountByStatus(ctx, ImpactScope{RecyclerID: other.ID})
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestGormUserCacheIgnoresStaleCopy(t *testing.T) {
	srv := miniredis.RunT(t)
	userCache := cache.NewCacheService(redis.NewClient(&redis.Options{Addr: srv.Addr()}), time.Minute)
	f := newGormFixture(t, userCache)
	ctx := context.Background()

	before, err := f.store.Users().GetByID(ctx, f.recycler.ID)
	require.NoError(t, err)
	require.Equal(t, 1, before.TokenVersion)
	stale := *before

	require.NoError(t, f.store.Users().IncrementTokenVersion(ctx, f.recycler.ID))
	// A reader that loaded the row before the bump writes back late.
	require.NoError(t, userCache.CacheUser(ctx, &stale))

	after, err := f.store.Users().GetByID(ctx, f.recycler.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TokenVersion)

	require.NoError(t, f.store.Users().UpdateBankDetails(ctx, f.producer.ID, models.BankDetails{
		BankName: "BNI", BankAccount: "123", AccountHolder: "Ani",
	}))
	cached, ok := userCache.GetUser(ctx, f.producer.ID)
	require.True(t, ok)
	assert.Equal(t, "BNI", cached.BankName)
}
