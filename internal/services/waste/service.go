package waste

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
	"lumbung/internal/validation"
)

var ErrProducerOnly = apperrors.Forbidden("producer_only", "only producers can manage listings")

type Service interface {
	Create(ctx context.Context, actor models.Identity, input models.CreateWasteInput) (*models.Waste, error)
	ListAvailable(ctx context.Context, filter models.WasteFilter) ([]models.Waste, error)
	ListMine(ctx context.Context, actor models.Identity) ([]models.Waste, error)
	Get(ctx context.Context, id uint) (*models.Waste, error)
	Update(ctx context.Context, actor models.Identity, id uint, input models.UpdateWasteInput) (*models.Waste, error)
	Delete(ctx context.Context, actor models.Identity, id uint) error
	RecommendPrice(category string, weight float64) (*PriceRecommendation, error)
}

type service struct {
	wasteRepo repositories.WasteRepository
}

func NewService(wasteRepo repositories.WasteRepository) Service {
	return &service{wasteRepo: wasteRepo}
}

func (s *service) Create(ctx context.Context, actor models.Identity, input models.CreateWasteInput) (*models.Waste, error) {
	if actor.Role != models.RoleProducer {
		return nil, ErrProducerOnly
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	waste := &models.Waste{
		ProducerID:  actor.UserID,
		Title:       input.Title,
		Category:    input.Category,
		Weight:      input.Weight,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		Status:      models.WasteStatusAvailable,
	}
	if err := s.wasteRepo.Create(ctx, waste); err != nil {
		log.Printf("Failed to create waste for producer %d: %v", actor.UserID, err)
		return nil, err
	}
	return waste, nil
}

func (s *service) ListAvailable(ctx context.Context, filter models.WasteFilter) ([]models.Waste, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Query = strings.TrimSpace(filter.Query)
	return s.wasteRepo.ListAvailable(ctx, filter)
}

func (s *service) ListMine(ctx context.Context, actor models.Identity) ([]models.Waste, error) {
	if actor.Role != models.RoleProducer {
		return nil, ErrProducerOnly
	}
	return s.wasteRepo.ListByProducer(ctx, actor.UserID)
}

func (s *service) Get(ctx context.Context, id uint) (*models.Waste, error) {
	waste, err := s.wasteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrWasteNotFound) {
			return nil, apperrors.NotFound("waste_not_found", "waste %d not found", id)
		}
		return nil, err
	}
	return waste, nil
}

// owned loads a listing the actor may still modify.
func (s *service) owned(ctx context.Context, actor models.Identity, id uint) (*models.Waste, error) {
	if actor.Role != models.RoleProducer {
		return nil, ErrProducerOnly
	}
	waste, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if waste.ProducerID != actor.UserID {
		return nil, apperrors.Forbidden("not_owner", "waste %d belongs to another producer", id)
	}
	if !waste.Status.Editable() {
		return nil, apperrors.InvalidState("waste_locked",
			"waste %d is %s; only available listings can be changed", id, waste.Status)
	}
	return waste, nil
}

func (s *service) Update(ctx context.Context, actor models.Identity, id uint, input models.UpdateWasteInput) (*models.Waste, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	waste, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	input.Apply(waste)
	if err := s.wasteRepo.Update(ctx, waste); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperrors.InvalidState("waste_locked", "waste %d was booked while updating", id)
		}
		return nil, err
	}
	return waste, nil
}

func (s *service) Delete(ctx context.Context, actor models.Identity, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.wasteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return apperrors.InvalidState("waste_locked", "waste %d was booked while deleting", id)
		}
		return err
	}
	log.Printf("Producer %d deleted waste %d", actor.UserID, id)
	return nil
}

func (s *service) RecommendPrice(category string, weight float64) (*PriceRecommendation, error) {
	return RecommendPrice(category, weight)
}
