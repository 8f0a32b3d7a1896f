package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// ProjectService handles project catalog operations
type ProjectService struct {
	repo      repository.ProjectRepository
	blockRepo repository.BlockRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo repository.ProjectRepository, blockRepo repository.BlockRepository) *ProjectService {
	return &ProjectService{repo: repo, blockRepo: blockRepo}
}

func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project) error {
	if project.GUID == "" {
		project.GUID = uuid.New().String()
	}
	return s.repo.Create(ctx, project)
}

func (s *ProjectService) Update(ctx context.Context, project *models.Project) error {
	return s.repo.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

// ListActive returns the projects offered in the quotation flow
func (s *ProjectService) ListActive(ctx context.Context) ([]models.Project, error) {
	return s.repo.ListActive(ctx)
}

// ListBlocks returns the active blocks of a project
func (s *ProjectService) ListBlocks(ctx context.Context, projectID uint) ([]models.Block, error) {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return nil, ErrNotFound
	}
	return s.blockRepo.FindActiveByProject(ctx, projectID)
}
