package services

import (
	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/internal/jobs"
	"github.com/grupoterra/cotizador-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Lead         *LeadService
	Project      *ProjectService
	Block        *BlockService
	Lot          *LotService
	Quotation    *QuotationService
	Draft        *DraftService
	ExchangeRate *ExchangeRateService
	Notification *NotificationService
	Email        *EmailService
	Export       *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	rateSvc := NewExchangeRateService(NewHTTPRateProvider(cfg))
	quotationSvc := NewQuotationService(repos.Quotation)
	leadSvc := NewLeadService(repos.Lead)

	draftSvc := NewDraftService(repos, quotationSvc, leadSvc, emailSvc, notificationSvc, rateSvc, worker, cfg)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, notificationSvc),
		Lead:         leadSvc,
		Project:      NewProjectService(repos.Project, repos.Block),
		Block:        NewBlockService(repos.Block, repos.Project, repos.Lot),
		Lot:          NewLotService(repos.Lot, repos.Block),
		Quotation:    quotationSvc,
		Draft:        draftSvc,
		ExchangeRate: rateSvc,
		Notification: notificationSvc,
		Email:        emailSvc,
		Export:       NewExportService(repos.Quotation),
	}
}
