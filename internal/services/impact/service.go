package impact

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
)

const (
	// CO2PerKg is the CO2-equivalent prevented per kilogram recovered.
	CO2PerKg = 0.5
	// CO2PerTree is what one tree absorbs in a year, in kilograms.
	CO2PerTree = 21.0
	// ChartMonths is the length of the monthly series, current month included.
	ChartMonths = 6

	summaryMessage = "Data ini valid dan real-time berdasarkan transaksi selesai."
)

type Service interface {
	Summary(ctx context.Context, actor models.Identity) (*models.ImpactStats, error)
	Chart(ctx context.Context, actor models.Identity) (*models.ImpactChart, error)
}

type service struct {
	store repositories.Store
	now   func() time.Time
}

func NewService(store repositories.Store) Service {
	return &service{store: store, now: time.Now}
}

// NewServiceWithClock is NewService with a fixed time source.
func NewServiceWithClock(store repositories.Store, now func() time.Time) Service {
	return &service{store: store, now: now}
}

func scopeOf(actor models.Identity) (repositories.ImpactScope, error) {
	switch actor.Role {
	case models.RoleProducer:
		return repositories.ImpactScope{ProducerID: actor.UserID}, nil
	case models.RoleRecycler:
		return repositories.ImpactScope{RecyclerID: actor.UserID}, nil
	default:
		return repositories.ImpactScope{}, apperrors.Forbidden("unknown_role", "unknown role %q", actor.Role)
	}
}

func (s *service) Summary(ctx context.Context, actor models.Identity) (*models.ImpactStats, error) {
	scope, err := scopeOf(actor)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("user_not_found", "user %d not found", actor.UserID)
		}
		return nil, err
	}

	stats := &models.ImpactStats{
		UserName: user.Name,
		Role:     actor.Role,
		Message:  summaryMessage,
	}

	if actor.Role == models.RoleProducer {
		total, err := s.store.Wastes().CompletedWeight(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		counts, err := s.store.Wastes().CountByStatus(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		stats.TotalWasteManagedKg = total
		stats.AvailableWastes = counts[models.WasteStatusAvailable]
		stats.BookedWastes = counts[models.WasteStatusBooked]
		stats.CompletedWastes = counts[models.WasteStatusCompleted]
	} else {
		total, err := s.store.Transactions().CompletedWeight(ctx, scope)
		if err != nil {
			return nil, err
		}
		stats.TotalWasteManagedKg = total
	}

	txCounts, err := s.store.Transactions().CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	stats.PendingTransactions = txCounts[models.TransactionStatusPending]
	stats.ProcessingTransactions = txCounts[models.TransactionStatusWaitingConfirmation]
	stats.CompletedTransactions = txCounts[models.TransactionStatusCompleted]
	stats.CancelledTransactions = txCounts[models.TransactionStatusCancelled]

	stats.CO2PreventedKg = stats.TotalWasteManagedKg * CO2PerKg
	stats.TreesEquivalent = int(math.Round(stats.CO2PreventedKg / CO2PerTree))
	return stats, nil
}

func (s *service) Chart(ctx context.Context, actor models.Identity) (*models.ImpactChart, error) {
	scope, err := scopeOf(actor)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Transactions().CompletedRecords(ctx, scope)
	if err != nil {
		return nil, err
	}
	return buildChart(records, s.now()), nil
}

// buildChart buckets completed records into the trailing months ending at
// now and totals weight per category.
func buildChart(records []models.CompletedRecord, now time.Time) *models.ImpactChart {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(ChartMonths - 1), 0)

	monthly := make([]models.MonthlyImpact, ChartMonths)
	index := make(map[string]int, ChartMonths)
	for i := range monthly {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		monthly[i] = models.MonthlyImpact{Month: key, Label: m.Format("Jan 2006")}
		index[key] = i
	}

	byCategory := make(map[string]float64)
	for _, rec := range records {
		byCategory[rec.Category] += rec.Weight

		at := rec.CreatedAt
		if rec.CompletedAt != nil {
			at = *rec.CompletedAt
		}
		i, ok := index[at.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		monthly[i].Weight += rec.Weight
		monthly[i].CO2 += rec.Weight * CO2PerKg
		monthly[i].Count++
	}

	categories := make([]models.CategoryWeight, 0, len(byCategory))
	for category, weight := range byCategory {
		categories = append(categories, models.CategoryWeight{Category: category, Weight: weight})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Weight == categories[j].Weight {
			return categories[i].Category < categories[j].Category
		}
		return categories[i].Weight > categories[j].Weight
	})

	return &models.ImpactChart{Monthly: monthly, Categories: categories}
}
