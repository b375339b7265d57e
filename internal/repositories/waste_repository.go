package repositories

import (
	"context"
	"errors"

	"lumbung/internal/models"

	"gorm.io/gorm"
)

type wasteRepository struct {
	db *gorm.DB
}

func NewWasteRepository(db *gorm.DB) WasteRepository {
	return &wasteRepository{db: db}
}

func (r *wasteRepository) Create(ctx context.Context, waste *models.Waste) error {
	return r.db.WithContext(ctx).Create(waste).Error
}

func (r *wasteRepository) GetByID(ctx context.Context, id uint) (*models.Waste, error) {
	var waste models.Waste
	if err := r.db.WithContext(ctx).First(&waste, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWasteNotFound
		}
		return nil, err
	}
	return &waste, nil
}

func (r *wasteRepository) ListAvailable(ctx context.Context, filter models.WasteFilter) ([]models.Waste, error) {
	var wastes []models.Waste
	query := r.db.WithContext(ctx).Where("status = ?", models.WasteStatusAvailable)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Query != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Query+"%")
	}

	err := query.Order("created_at desc").Find(&wastes).Error
	return wastes, err
}

func (r *wasteRepository) ListByProducer(ctx context.Context, producerID uint) ([]models.Waste, error) {
	var wastes []models.Waste
	err := r.db.WithContext(ctx).Where("producer_id = ?", producerID).
		Order("created_at desc").Find(&wastes).Error
	return wastes, err
}

func (r *wasteRepository) Update(ctx context.Context, waste *models.Waste) error {
	result := r.db.WithContext(ctx).Model(&models.Waste{}).
		Where("id = ? AND status = ?", waste.ID, models.WasteStatusAvailable).
		Select("title", "category", "weight", "price", "description", "image_url", "latitude", "longitude", "address").
		Updates(waste)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Delete soft-deletes an available listing; bookings that referenced it
// keep their foreign key.
func (r *wasteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.WasteStatusAvailable).
		Delete(&models.Waste{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *wasteRepository) TransitionStatus(ctx context.Context, id uint, from, to models.WasteStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Waste{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *wasteRepository) Shrink(ctx context.Context, id uint, expectedWeight, weight, price float64) error {
	result := r.db.WithContext(ctx).Model(&models.Waste{}).
		Where("id = ? AND status = ? AND weight = ?", id, models.WasteStatusAvailable, expectedWeight).
		Updates(map[string]interface{}{"weight": weight, "price": price})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *wasteRepository) CountByStatus(ctx context.Context, producerID uint) (map[models.WasteStatus]int64, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.Waste{}).
		Select("status, COUNT(*) as count").
		Where("producer_id = ?", producerID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.WasteStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.WasteStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *wasteRepository) CompletedWeight(ctx context.Context, producerID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Waste{}).
		Where("producer_id = ? AND status = ?", producerID, models.WasteStatusCompleted).
		Select("COALESCE(SUM(weight), 0)").
		Row().Scan(&total)
	return total, err
}
