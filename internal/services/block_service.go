package services

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// BlockService handles block catalog operations
type BlockService struct {
	repo        repository.BlockRepository
	projectRepo repository.ProjectRepository
	lotRepo     repository.LotRepository
}

// NewBlockService creates a new block service
func NewBlockService(repo repository.BlockRepository, projectRepo repository.ProjectRepository, lotRepo repository.LotRepository) *BlockService {
	return &BlockService{repo: repo, projectRepo: projectRepo, lotRepo: lotRepo}
}

func (s *BlockService) FindByID(ctx context.Context, id uint) (*models.Block, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return block, nil
}

func (s *BlockService) Create(ctx context.Context, block *models.Block) error {
	if _, err := s.projectRepo.FindByID(ctx, block.ProjectID); err != nil {
		return ErrNotFound
	}
	return s.repo.Create(ctx, block)
}

func (s *BlockService) Update(ctx context.Context, block *models.Block) error {
	return s.repo.Update(ctx, block)
}

func (s *BlockService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// ListLots returns the available lots of a block
func (s *BlockService) ListLots(ctx context.Context, blockID uint) ([]models.Lot, error) {
	if _, err := s.repo.FindByID(ctx, blockID); err != nil {
		return nil, ErrNotFound
	}
	return s.lotRepo.FindAvailableByBlock(ctx, blockID)
}
