package models

import (
	"time"
)

// DefaultDiscountCapPct is the discount ceiling (percent of the total price)
// applied to sales advisors when a project does not define its own
// max_discount_pct. Product decision: the per-project field wins when set.
const DefaultDiscountCapPct = 15.0

// Project represents a real estate development
type Project struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"not null" json:"name"`
	Description            string    `gorm:"type:text" json:"description"`
	ProjectType            string    `gorm:"default:residential" json:"project_type"`
	Address                string    `json:"address"`
	Active                 bool      `gorm:"default:true;index" json:"active"`
	PricePerSquareUnit     float64   `gorm:"type:decimal(10,2);not null" json:"price_per_square_unit"`
	MeasurementUnit        string    `gorm:"default:m2" json:"measurement_unit"`
	Currency               string    `gorm:"default:HNL;not null" json:"currency"`
	DefaultDownPaymentPct  float64   `gorm:"type:decimal(5,2);default:0" json:"default_down_payment_pct"`
	DefaultFinancingMonths int       `gorm:"default:0" json:"default_financing_months"`
	MaxDiscountPct         float64   `gorm:"type:decimal(5,2);default:0" json:"max_discount_pct"`
	GUID                   string    `gorm:"column:guid;not null" json:"guid"`
	DeliveryDate           *string   `gorm:"type:date" json:"delivery_date"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	// Associations
	Blocks []Block `gorm:"foreignKey:ProjectID" json:"blocks,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// DiscountCap returns the advisor discount ceiling for this project,
// falling back to DefaultDiscountCapPct when the project does not set one.
func (p *Project) DiscountCap() float64 {
	if p.MaxDiscountPct > 0 {
		return p.MaxDiscountPct
	}
	return DefaultDiscountCapPct
}

// HasFinancingDefaults returns true if the project carries default financing terms
func (p *Project) HasFinancingDefaults() bool {
	return p.DefaultDownPaymentPct > 0 || p.DefaultFinancingMonths > 0
}

// ProjectResponse is the JSON response format for projects
type ProjectResponse struct {
	ID                     uint      `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	ProjectType            string    `json:"project_type"`
	Address                string    `json:"address"`
	Active                 bool      `json:"active"`
	PricePerSquareUnit     float64   `json:"price_per_square_unit"`
	MeasurementUnit        string    `json:"measurement_unit"`
	Currency               string    `json:"currency"`
	DefaultDownPaymentPct  float64   `json:"default_down_payment_pct"`
	DefaultFinancingMonths int       `json:"default_financing_months"`
	MaxDiscountPct         float64   `json:"max_discount_pct"`
	DiscountCap            float64   `json:"discount_cap"`
	DeliveryDate           *string   `json:"delivery_date"`
	BlockCount             int       `json:"block_count"`
	CreatedAt              time.Time `json:"created_at"`
}

// ToResponse converts Project to ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		Description:            p.Description,
		ProjectType:            p.ProjectType,
		Address:                p.Address,
		Active:                 p.Active,
		PricePerSquareUnit:     p.PricePerSquareUnit,
		MeasurementUnit:        p.MeasurementUnit,
		Currency:               p.Currency,
		DefaultDownPaymentPct:  p.DefaultDownPaymentPct,
		DefaultFinancingMonths: p.DefaultFinancingMonths,
		MaxDiscountPct:         p.MaxDiscountPct,
		DiscountCap:            p.DiscountCap(),
		DeliveryDate:           p.DeliveryDate,
		BlockCount:             len(p.Blocks),
		CreatedAt:              p.CreatedAt,
	}
}
