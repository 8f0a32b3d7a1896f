package repository

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"gorm.io/gorm"
)

// LotRepository defines the interface for lot data access
type LotRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lot, error)
	Create(ctx context.Context, lot *models.Lot) error
	Update(ctx context.Context, lot *models.Lot) error
	Delete(ctx context.Context, id uint) error
	FindByBlock(ctx context.Context, blockID uint) ([]models.Lot, error)
	FindAvailableByBlock(ctx context.Context, blockID uint) ([]models.Lot, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type lotRepository struct {
	db *gorm.DB
}

// NewLotRepository creates a new lot repository
func NewLotRepository(db *gorm.DB) LotRepository {
	return &lotRepository{db: db}
}

func (r *lotRepository) FindByID(ctx context.Context, id uint) (*models.Lot, error) {
	var lot models.Lot
	err := r.db.WithContext(ctx).
		Preload("Block").
		First(&lot, id).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepository) Create(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *lotRepository) Update(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *lotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lot{}, id).Error
}

func (r *lotRepository) FindByBlock(ctx context.Context, blockID uint) ([]models.Lot, error) {
	var lots []models.Lot
	err := r.db.WithContext(ctx).
		Where("block_id = ?", blockID).
		Order("name ASC").
		Find(&lots).Error
	return lots, err
}

// FindAvailableByBlock returns the lots selectable in a quotation session
func (r *lotRepository) FindAvailableByBlock(ctx context.Context, blockID uint) ([]models.Lot, error) {
	var lots []models.Lot
	err := r.db.WithContext(ctx).
		Where("block_id = ? AND status = ?", blockID, models.LotStatusAvailable).
		Order("name ASC").
		Find(&lots).Error
	return lots, err
}

func (r *lotRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ?", id).
		Update("status", status).Error
}
