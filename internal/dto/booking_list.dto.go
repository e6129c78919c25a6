package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type BookingListDTO struct {
	ID           uint            `json:"id"`
	Date         string          `json:"date"`
	StartTime    string          `json:"start_time,omitempty"`
	EndTime      string          `json:"end_time,omitempty"`
	CheckOutDate *string         `json:"check_out_date,omitempty"`
	TotalNights  int             `json:"total_nights,omitempty"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	CustomerName string          `json:"customer_name"`
	ServiceName  string          `json:"service_name"`
}

func NewBookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingListDTO{
			ID:           b.ID,
			Date:         b.Date,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			CheckOutDate: b.CheckOutDate,
			TotalNights:  b.TotalNights,
			TotalPrice:   b.TotalPrice,
			Status:       b.Status,
			CustomerName: b.Customer.Name,
			ServiceName:  b.Service.Name,
		})
	}
	return out
}
