package repositories

import (
	"context"
	"errors"
	"time"

	"lumbung/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// unscoped loads listings even after their owner deleted them.
func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Omit("Waste", "Recycler").Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Preload("Waste", unscoped).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction, guard TransactionGuard) error {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", tx.ID)
	if guard.Status != "" {
		query = query.Where("status = ?", guard.Status)
	}
	if guard.PaymentStatus != "" {
		query = query.Where("payment_status = ?", guard.PaymentStatus)
	}

	result := query.Select("*").
		Omit("id", "waste_id", "recycler_id", "created_at", "Waste", "Recycler").
		Updates(tx)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *transactionRepository) ListByRecycler(ctx context.Context, recyclerID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).Preload("Waste", unscoped).
		Where("recycler_id = ?", recyclerID).
		Order("created_at desc").Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) ListByProducer(ctx context.Context, producerID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).Preload("Waste", unscoped).Preload("Recycler").
		Joins("JOIN wastes ON wastes.id = transactions.waste_id").
		Where("wastes.producer_id = ?", producerID).
		Order("transactions.created_at desc").Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) ListByWaste(ctx context.Context, wasteID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).Preload("Recycler").
		Where("waste_id = ?", wasteID).
		Order("created_at desc").Find(&txs).Error
	return txs, err
}

// scoped restricts a transactions query to the caller's side of the market.
func (r *transactionRepository) scoped(ctx context.Context, scope ImpactScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Joins("JOIN wastes ON wastes.id = transactions.waste_id")
	if scope.ProducerID != 0 {
		query = query.Where("wastes.producer_id = ?", scope.ProducerID)
	}
	if scope.RecyclerID != 0 {
		query = query.Where("transactions.recycler_id = ?", scope.RecyclerID)
	}
	return query
}

func (r *transactionRepository) CountByStatus(ctx context.Context, scope ImpactScope) (map[models.TransactionStatus]int64, error) {
	rows, err := r.scoped(ctx, scope).
		Select("transactions.status, COUNT(*) as count").
		Group("transactions.status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.TransactionStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.TransactionStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *transactionRepository) CompletedWeight(ctx context.Context, scope ImpactScope) (float64, error) {
	var total float64
	err := r.scoped(ctx, scope).
		Where("transactions.status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(wastes.weight), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *transactionRepository) CompletedRecords(ctx context.Context, scope ImpactScope) ([]models.CompletedRecord, error) {
	rows, err := r.scoped(ctx, scope).
		Where("transactions.status = ?", models.TransactionStatusCompleted).
		Select("wastes.weight, wastes.category, transactions.completed_at, transactions.created_at").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletedRecord
	for rows.Next() {
		var rec models.CompletedRecord
		var completedAt *time.Time
		if err := rows.Scan(&rec.Weight, &rec.Category, &completedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.CompletedAt = completedAt
		records = append(records, rec)
	}
	return records, rows.Err()
}
