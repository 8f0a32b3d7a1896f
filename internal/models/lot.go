package models

import (
	"time"
)

// Lot represents a sellable unit within a block
type Lot struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BlockID            uint      `gorm:"not null;index" json:"block_id"`
	Name               string    `gorm:"not null" json:"name"`
	Status             string    `gorm:"default:available;index" json:"status"`
	Length             float64   `gorm:"type:decimal(10,2);not null" json:"length"`
	Width              float64   `gorm:"type:decimal(10,2);not null" json:"width"`
	UnitPrice          float64   `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	OverrideArea       *float64  `json:"override_area"`
	OverrideUnitPrice  *float64  `gorm:"type:decimal(15,2)" json:"override_unit_price"`
	Address            *string   `json:"address"`
	RegistrationNumber *string   `gorm:"index" json:"registration_number"`
	Note               *string   `gorm:"type:text" json:"note"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	Block      Block       `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Quotations []Quotation `gorm:"foreignKey:LotID" json:"quotations,omitempty"`
}

// TableName specifies the table name for Lot
func (Lot) TableName() string {
	return "lots"
}

// Lot status constants
const (
	LotStatusAvailable = "available"
	LotStatusReserved  = "reserved"
	LotStatusSold      = "sold"
)

// Area calculates the lot area
func (l *Lot) Area() float64 {
	if l.OverrideArea != nil && *l.OverrideArea > 0 {
		return *l.OverrideArea
	}
	return l.Length * l.Width
}

// EffectiveUnitPrice returns the override unit price if set, otherwise the base price
func (l *Lot) EffectiveUnitPrice() float64 {
	if l.OverrideUnitPrice != nil && *l.OverrideUnitPrice > 0 {
		return *l.OverrideUnitPrice
	}
	return l.UnitPrice
}

// IsAvailable returns true if the lot can be quoted
func (l *Lot) IsAvailable() bool {
	return l.Status == LotStatusAvailable
}

// LotResponse is the JSON response format for lots
type LotResponse struct {
	ID                 uint    `json:"id"`
	BlockID            uint    `json:"block_id"`
	BlockName          string  `json:"block_name"`
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	Length             float64 `json:"length"`
	Width              float64 `json:"width"`
	Area               float64 `json:"area"`
	UnitPrice          float64 `json:"unit_price"`
	EffectiveUnitPrice float64 `json:"effective_unit_price"`
	Address            *string `json:"address"`
	RegistrationNumber *string `json:"registration_number"`
	Note               *string `json:"note"`
}

// ToResponse converts Lot to LotResponse
func (l *Lot) ToResponse() LotResponse {
	return LotResponse{
		ID:                 l.ID,
		BlockID:            l.BlockID,
		BlockName:          l.Block.Name,
		Name:               l.Name,
		Status:             l.Status,
		Length:             l.Length,
		Width:              l.Width,
		Area:               l.Area(),
		UnitPrice:          l.UnitPrice,
		EffectiveUnitPrice: l.EffectiveUnitPrice(),
		Address:            l.Address,
		RegistrationNumber: l.RegistrationNumber,
		Note:               l.Note,
	}
}
