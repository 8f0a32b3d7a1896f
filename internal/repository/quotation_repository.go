package repository

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"gorm.io/gorm"
)

// QuotationRepository defines the interface for quotation data access
type QuotationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Quotation, error)
	Create(ctx context.Context, quotation *models.Quotation) error
	Update(ctx context.Context, quotation *models.Quotation) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Quotation, int64, error)
	FindByLead(ctx context.Context, leadID uint) ([]models.Quotation, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) FindByID(ctx context.Context, id uint) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("Project").
		Preload("Block").
		Preload("Lot").
		Preload("Advisor").
		First(&quotation, id).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) Create(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *quotationRepository) Update(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

func (r *quotationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Quotation{}, id).Error
}

func (r *quotationRepository) List(ctx context.Context, query *ListQuery) ([]models.Quotation, int64, error) {
	var quotations []models.Quotation
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Quotation{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}

	if query.Filters["advisor_id"] != "" {
		db = db.Where("advisor_id = ?", query.Filters["advisor_id"])
	}

	if query.Filters["lead_id"] != "" {
		db = db.Where("lead_id = ?", query.Filters["lead_id"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN leads ON leads.id = quotations.lead_id").
			Where("leads.full_name ILIKE ? OR leads.identity ILIKE ?", search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("quotations.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Lead").
		Preload("Project").
		Preload("Block").
		Preload("Lot").
		Preload("Advisor").
		Find(&quotations).Error
	return quotations, total, err
}

func (r *quotationRepository) FindByLead(ctx context.Context, leadID uint) ([]models.Quotation, error) {
	var quotations []models.Quotation
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Preload("Project").
		Preload("Block").
		Preload("Lot").
		Order("created_at DESC").
		Find(&quotations).Error
	return quotations, err
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
