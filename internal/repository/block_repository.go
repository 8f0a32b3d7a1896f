package repository

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data access
type BlockRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Block, error)
	Create(ctx context.Context, block *models.Block) error
	Update(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, id uint) error
	FindByProject(ctx context.Context, projectID uint) ([]models.Block, error)
	FindActiveByProject(ctx context.Context, projectID uint) ([]models.Block, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) FindByID(ctx context.Context, id uint) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Lots").
		First(&block, id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepository) Update(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Block{}, id).Error
}

func (r *blockRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Lots").
		Order("name ASC").
		Find(&blocks).Error
	return blocks, err
}

// FindActiveByProject returns the blocks selectable in a quotation session
func (r *blockRepository) FindActiveByProject(ctx context.Context, projectID uint) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Preload("Lots").
		Order("name ASC").
		Find(&blocks).Error
	return blocks, err
}
