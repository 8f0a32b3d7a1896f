package services

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/pricing"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// QuotationService handles persisted quotation operations
type QuotationService struct {
	repo repository.QuotationRepository
}

// NewQuotationService creates a new quotation service
func NewQuotationService(repo repository.QuotationRepository) *QuotationService {
	return &QuotationService{repo: repo}
}

func (s *QuotationService) FindByID(ctx context.Context, id uint) (*models.Quotation, error) {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return quotation, nil
}

// Create persists a quotation. Derived amounts are always recomputed server
// side from the stored inputs, never trusted from the caller.
func (s *QuotationService) Create(ctx context.Context, quotation *models.Quotation) error {
	s.recompute(quotation)
	if quotation.Status == "" {
		quotation.Status = models.QuotationStatusActive
	}
	return s.repo.Create(ctx, quotation)
}

// Update persists changes to a quotation, recomputing the derived amounts.
func (s *QuotationService) Update(ctx context.Context, quotation *models.Quotation) error {
	s.recompute(quotation)
	return s.repo.Update(ctx, quotation)
}

func (s *QuotationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *QuotationService) List(ctx context.Context, query *repository.ListQuery) ([]models.Quotation, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *QuotationService) FindByLead(ctx context.Context, leadID uint) ([]models.Quotation, error) {
	return s.repo.FindByLead(ctx, leadID)
}

// UpdateStatus moves a quotation between active, expired and converted.
func (s *QuotationService) UpdateStatus(ctx context.Context, id uint, status string) error {
	switch status {
	case models.QuotationStatusActive, models.QuotationStatusExpired, models.QuotationStatusConverted:
	default:
		return ErrNotFound
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *QuotationService) recompute(q *models.Quotation) {
	snapshot := pricing.Recompute(pricing.Inputs{
		Area:           q.Area,
		UnitPrice:      q.UnitPrice,
		Discount:       q.Discount,
		DownPaymentPct: q.DownPaymentPct,
		MonthsFinanced: q.MonthsFinanced,
	})
	q.TotalPrice = snapshot.TotalPrice
	q.FinalPrice = snapshot.FinalPrice
	q.AmountFinanced = snapshot.AmountFinanced
	q.MonthlyPayment = snapshot.MonthlyPayment
}
