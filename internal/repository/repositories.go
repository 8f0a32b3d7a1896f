package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Lead         LeadRepository
	Project      ProjectRepository
	Block        BlockRepository
	Lot          LotRepository
	Quotation    QuotationRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Lead:         NewLeadRepository(db),
		Project:      NewProjectRepository(db),
		Block:        NewBlockRepository(db),
		Lot:          NewLotRepository(db),
		Quotation:    NewQuotationRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}
