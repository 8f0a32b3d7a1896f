package models

import (
	"time"
)

// Lead represents a prospective client
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     *string   `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Identity  *string   `gorm:"index" json:"identity"`
	Status    string    `gorm:"default:new;index" json:"status"`
	AdvisorID *uint     `gorm:"index" json:"advisor_id"`
	Source    *string   `json:"source"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Advisor *User `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

// Lead status constants
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// LeadResponse is the JSON response format for leads
type LeadResponse struct {
	ID          uint      `json:"id"`
	FullName    string    `json:"full_name"`
	Email       *string   `json:"email"`
	Phone       string    `json:"phone"`
	Identity    *string   `json:"identity"`
	Status      string    `json:"status"`
	AdvisorID   *uint     `json:"advisor_id"`
	AdvisorName string    `json:"advisor_name,omitempty"`
	Source      *string   `json:"source"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts Lead to LeadResponse
func (l *Lead) ToResponse() LeadResponse {
	resp := LeadResponse{
		ID:        l.ID,
		FullName:  l.FullName,
		Email:     l.Email,
		Phone:     l.Phone,
		Identity:  l.Identity,
		Status:    l.Status,
		AdvisorID: l.AdvisorID,
		Source:    l.Source,
		Note:      l.Note,
		CreatedAt: l.CreatedAt,
	}
	if l.Advisor != nil {
		resp.AdvisorName = l.Advisor.FullName
	}
	return resp
}
