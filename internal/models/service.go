package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service é o que o cliente reserva. No modo diária, Price é o valor por noite.
type Service struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index;not null" json:"tenant_id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`
	Category    string          `gorm:"size:50" json:"category"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
