package models

import "time"

// Schedule é o expediente de um dia da semana.
// DayOfWeek segue segunda=0 ... domingo=6.
// Unicidade por (tenant, filial, dia) fica no índice criado em db.Migrate.
type Schedule struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	TenantID uint  `gorm:"index;not null" json:"tenant_id"`
	BranchID *uint `json:"branch_id"`

	DayOfWeek int    `json:"day_of_week"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsActive  bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlockedDate struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	BranchID *uint  `gorm:"index" json:"branch_id"`
	Date     string `gorm:"size:10;index;not null" json:"date"`
	Reason   string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
