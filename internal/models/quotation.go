package models

import (
	"time"
)

// Quotation represents a persisted price quotation for a lot
type Quotation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LeadID         uint      `gorm:"not null;index" json:"lead_id"`
	ProjectID      uint      `gorm:"not null;index" json:"project_id"`
	BlockID        uint      `gorm:"not null;index" json:"block_id"`
	LotID          uint      `gorm:"not null;index" json:"lot_id"`
	AdvisorID      *uint     `gorm:"index" json:"advisor_id"`
	QuotationDate  string    `gorm:"type:date;not null" json:"quotation_date"`
	ExchangeRate   float64   `gorm:"type:decimal(10,4);not null" json:"exchange_rate"`
	RateSource     *string   `json:"rate_source"`
	Currency       string    `gorm:"default:HNL;not null" json:"currency"`
	Area           float64   `gorm:"type:decimal(10,2);not null" json:"area"`
	UnitPrice      float64   `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Discount       float64   `gorm:"type:decimal(15,2);default:0" json:"discount"`
	DownPaymentPct float64   `gorm:"type:decimal(5,2);not null" json:"down_payment_pct"`
	MonthsFinanced int       `gorm:"not null" json:"months_financed"`
	TotalPrice     float64   `gorm:"type:decimal(15,2);not null" json:"total_price"`
	FinalPrice     float64   `gorm:"type:decimal(15,2);not null" json:"final_price"`
	AmountFinanced float64   `gorm:"type:decimal(15,2);not null" json:"amount_financed"`
	MonthlyPayment float64   `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`
	Status         string    `gorm:"default:active;index" json:"status"`
	Note           *string   `gorm:"type:text" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Lead    Lead    `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Block   Block   `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Lot     Lot     `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	Advisor *User   `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
}

// TableName specifies the table name for Quotation
func (Quotation) TableName() string {
	return "quotations"
}

// Quotation status constants
const (
	QuotationStatusActive    = "active"
	QuotationStatusExpired   = "expired"
	QuotationStatusConverted = "converted"
)

// QuotationResponse is the JSON response format for quotations
type QuotationResponse struct {
	ID             uint      `json:"id"`
	LeadID         uint      `json:"lead_id"`
	LeadName       string    `json:"lead_name"`
	ProjectID      uint      `json:"project_id"`
	ProjectName    string    `json:"project_name"`
	BlockID        uint      `json:"block_id"`
	BlockName      string    `json:"block_name"`
	LotID          uint      `json:"lot_id"`
	LotName        string    `json:"lot_name"`
	AdvisorID      *uint     `json:"advisor_id"`
	AdvisorName    string    `json:"advisor_name,omitempty"`
	QuotationDate  string    `json:"quotation_date"`
	ExchangeRate   float64   `json:"exchange_rate"`
	RateSource     *string   `json:"rate_source"`
	Currency       string    `json:"currency"`
	Area           float64   `json:"area"`
	UnitPrice      float64   `json:"unit_price"`
	Discount       float64   `json:"discount"`
	DownPaymentPct float64   `json:"down_payment_pct"`
	MonthsFinanced int       `json:"months_financed"`
	TotalPrice     float64   `json:"total_price"`
	FinalPrice     float64   `json:"final_price"`
	AmountFinanced float64   `json:"amount_financed"`
	MonthlyPayment float64   `json:"monthly_payment"`
	Status         string    `json:"status"`
	Note           *string   `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts Quotation to QuotationResponse
func (q *Quotation) ToResponse() QuotationResponse {
	resp := QuotationResponse{
		ID:             q.ID,
		LeadID:         q.LeadID,
		LeadName:       q.Lead.FullName,
		ProjectID:      q.ProjectID,
		ProjectName:    q.Project.Name,
		BlockID:        q.BlockID,
		BlockName:      q.Block.Name,
		LotID:          q.LotID,
		LotName:        q.Lot.Name,
		AdvisorID:      q.AdvisorID,
		QuotationDate:  q.QuotationDate,
		ExchangeRate:   q.ExchangeRate,
		RateSource:     q.RateSource,
		Currency:       q.Currency,
		Area:           q.Area,
		UnitPrice:      q.UnitPrice,
		Discount:       q.Discount,
		DownPaymentPct: q.DownPaymentPct,
		MonthsFinanced: q.MonthsFinanced,
		TotalPrice:     q.TotalPrice,
		FinalPrice:     q.FinalPrice,
		AmountFinanced: q.AmountFinanced,
		MonthlyPayment: q.MonthlyPayment,
		Status:         q.Status,
		Note:           q.Note,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
	if q.Advisor != nil {
		resp.AdvisorName = q.Advisor.FullName
	}
	return resp
}
