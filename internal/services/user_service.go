package services

import (
	"context"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// UserService handles back-office user operations
type UserService struct {
	repo            repository.UserRepository
	notificationSvc *NotificationService
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, notificationSvc *NotificationService) *UserService {
	return &UserService{repo: repo, notificationSvc: notificationSvc}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, user *models.User, password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashed

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Nuevo usuario",
		"Se ha creado el usuario "+user.FullName,
		models.NotificationTypeNewUser,
	)
	return nil
}

func (s *UserService) Update(ctx context.Context, user *models.User) error {
	return s.repo.Update(ctx, user)
}

func (s *UserService) SoftDelete(ctx context.Context, id uint) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *UserService) Restore(ctx context.Context, id uint) error {
	return s.repo.Restore(ctx, id)
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

// ListSupervisors returns the active supervisors selectable for discount
// authorization.
func (s *UserService) ListSupervisors(ctx context.Context) ([]models.User, error) {
	return s.repo.FindSupervisors(ctx)
}
