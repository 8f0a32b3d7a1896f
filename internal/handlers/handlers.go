package handlers

import (
	"github.com/grupoterra/cotizador-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Lead         *LeadHandler
	Project      *ProjectHandler
	Block        *BlockHandler
	Lot          *LotHandler
	Quotation    *QuotationHandler
	Session      *SessionHandler
	Rate         *RateHandler
	Notification *NotificationHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Lead:         NewLeadHandler(svcs.Lead, svcs.Quotation),
		Project:      NewProjectHandler(svcs.Project),
		Block:        NewBlockHandler(svcs.Block),
		Lot:          NewLotHandler(svcs.Lot),
		Quotation:    NewQuotationHandler(svcs.Quotation, svcs.Export),
		Session:      NewSessionHandler(svcs.Draft),
		Rate:         NewRateHandler(svcs.ExchangeRate),
		Notification: NewNotificationHandler(svcs.Notification),
	}
}
