package services

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// LotService handles lot catalog operations
type LotService struct {
	repo      repository.LotRepository
	blockRepo repository.BlockRepository
}

// NewLotService creates a new lot service
func NewLotService(repo repository.LotRepository, blockRepo repository.BlockRepository) *LotService {
	return &LotService{repo: repo, blockRepo: blockRepo}
}

func (s *LotService) FindByID(ctx context.Context, id uint) (*models.Lot, error) {
	lot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return lot, nil
}

func (s *LotService) Create(ctx context.Context, lot *models.Lot) error {
	if _, err := s.blockRepo.FindByID(ctx, lot.BlockID); err != nil {
		return ErrNotFound
	}
	return s.repo.Create(ctx, lot)
}

func (s *LotService) Update(ctx context.Context, lot *models.Lot) error {
	return s.repo.Update(ctx, lot)
}

func (s *LotService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *LotService) UpdateStatus(ctx context.Context, id uint, status string) error {
	switch status {
	case models.LotStatusAvailable, models.LotStatusReserved, models.LotStatusSold:
	default:
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
