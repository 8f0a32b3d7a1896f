package models

import (
	"time"
)

// Block represents a subdivision ("manzana") within a project
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Lots    []Lot   `gorm:"foreignKey:BlockID" json:"lots,omitempty"`
}

// TableName specifies the table name for Block
func (Block) TableName() string {
	return "blocks"
}

// BlockResponse is the JSON response format for blocks
type BlockResponse struct {
	ID            uint      `json:"id"`
	ProjectID     uint      `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	Name          string    `json:"name"`
	Active        bool      `json:"active"`
	Note          *string   `json:"note"`
	LotCount      int       `json:"lot_count"`
	AvailableLots int       `json:"available_lots"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts Block to BlockResponse
func (b *Block) ToResponse() BlockResponse {
	available := 0
	for _, lot := range b.Lots {
		if lot.IsAvailable() {
			available++
		}
	}
	return BlockResponse{
		ID:            b.ID,
		ProjectID:     b.ProjectID,
		ProjectName:   b.Project.Name,
		Name:          b.Name,
		Active:        b.Active,
		Note:          b.Note,
		LotCount:      len(b.Lots),
		AvailableLots: available,
		CreatedAt:     b.CreatedAt,
	}
}
