package models

import "time"

// Cliente sem login, identificado pelo telefone dentro do estabelecimento.
type Customer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"uniqueIndex:ux_customer_phone;not null" json:"tenant_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:ux_customer_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	TotalBookings int        `gorm:"default:0" json:"total_bookings"`
	LastBookingAt *time.Time `json:"last_booking_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
