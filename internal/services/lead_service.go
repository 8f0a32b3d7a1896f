package services

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// LeadService handles prospective client operations
type LeadService struct {
	repo repository.LeadRepository
}

// NewLeadService creates a new lead service
func NewLeadService(repo repository.LeadRepository) *LeadService {
	return &LeadService{repo: repo}
}

func (s *LeadService) FindByID(ctx context.Context, id uint) (*models.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return lead, nil
}

func (s *LeadService) Create(ctx context.Context, lead *models.Lead) error {
	return s.repo.Create(ctx, lead)
}

func (s *LeadService) Update(ctx context.Context, lead *models.Lead) error {
	return s.repo.Update(ctx, lead)
}

func (s *LeadService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *LeadService) List(ctx context.Context, query *repository.ListQuery) ([]models.Lead, int64, error) {
	return s.repo.List(ctx, query)
}

// MarkQuoted moves a lead to quoted after its first submitted quotation.
// Converted and lost leads keep their status.
func (s *LeadService) MarkQuoted(ctx context.Context, id uint) error {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	switch lead.Status {
	case models.LeadStatusConverted, models.LeadStatusLost, models.LeadStatusQuoted:
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, models.LeadStatusQuoted)
}
