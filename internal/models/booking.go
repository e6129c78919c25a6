package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking cobre os dois modos:
//   - horário: Date + StartTime/EndTime, CheckOutDate nulo
//   - diária:  Date = check-in, CheckOutDate = check-out, TotalNights/TotalPrice
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint  `gorm:"index:ix_booking_scope;not null" json:"tenant_id"`
	BranchID *uint `gorm:"index:ix_booking_scope" json:"branch_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	EmployeeID *uint `json:"employee_id"`

	Date      string `gorm:"size:10;index:ix_booking_scope;not null" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time,omitempty"`
	EndTime   string `gorm:"size:5" json:"end_time,omitempty"`

	CheckOutDate *string         `gorm:"size:10;index" json:"check_out_date,omitempty"`
	TotalNights  int             `json:"total_nights,omitempty"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_price"`

	Status string `gorm:"size:20;index;default:'PENDING'" json:"status"`
	Source string `gorm:"size:20" json:"source"`
	Notes  string `gorm:"size:255" json:"notes"`

	PaymentPreferenceID string `gorm:"size:100" json:"payment_preference_id,omitempty"`
	PaymentURL          string `gorm:"size:255" json:"payment_url,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) IsDaily() bool {
	return b.CheckOutDate != nil
}
