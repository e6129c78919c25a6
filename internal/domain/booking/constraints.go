package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// ======================================================
// Modo de reserva
// ======================================================

type Mode string

const (
	ModeHourly Mode = "hourly"
	ModeDaily  Mode = "daily"
)

// ======================================================
// Regras do estabelecimento (derivadas de Tenant.Settings)
// ======================================================

type TenantConstraints struct {
	Mode Mode `json:"bookingMode"`

	// Modo horário
	MinAdvanceBookingHours int `json:"minAdvanceBookingHours"`
	MaxAdvanceBookingDays  int `json:"maxAdvanceBookingDays"`
	BookingBuffer          int `json:"bookingBuffer"`

	// Modo diária
	DailyCheckInTime  string `json:"dailyCheckInTime"`
	DailyCheckOutTime string `json:"dailyCheckOutTime"`
	DailyMinNights    int    `json:"dailyMinNights"`
	DailyMaxNights    int    `json:"dailyMaxNights"`

	// Domingo=0 ... sábado=6 (time.Weekday), diferente de Schedule.DayOfWeek.
	DailyClosedDays []int `json:"dailyClosedDays"`
}

func DefaultConstraints() TenantConstraints {
	return TenantConstraints{
		Mode:                   ModeHourly,
		MinAdvanceBookingHours: 1,
		MaxAdvanceBookingDays:  30,
		BookingBuffer:          0,
		DailyCheckInTime:       "14:00",
		DailyCheckOutTime:      "10:00",
		DailyMinNights:         1,
		DailyMaxNights:         30,
		DailyClosedDays:        []int{},
	}
}

// ParseConstraints lê o JSON de configurações campo a campo.
// Campos ausentes, inválidos ou negativos ficam com o padrão.
// JSON malformado devolve os padrões junto com o erro, para o chamador apenas logar.
func ParseConstraints(raw []byte) (TenantConstraints, error) {
	c := DefaultConstraints()

	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return c, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return c, fmt.Errorf("tenant settings: %w", err)
	}

	if v, ok := fields["bookingMode"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil && (Mode(s) == ModeHourly || Mode(s) == ModeDaily) {
			c.Mode = Mode(s)
		}
	}

	readInt(fields, "minAdvanceBookingHours", 0, &c.MinAdvanceBookingHours)
	readInt(fields, "maxAdvanceBookingDays", 0, &c.MaxAdvanceBookingDays)
	readInt(fields, "bookingBuffer", 0, &c.BookingBuffer)
	readInt(fields, "dailyMinNights", 1, &c.DailyMinNights)
	readInt(fields, "dailyMaxNights", 1, &c.DailyMaxNights)

	readHour(fields, "dailyCheckInTime", &c.DailyCheckInTime)
	readHour(fields, "dailyCheckOutTime", &c.DailyCheckOutTime)

	if v, ok := fields["dailyClosedDays"]; ok {
		var days []json.RawMessage
		if json.Unmarshal(v, &days) == nil {
			closed := make([]int, 0, len(days))
			for _, d := range days {
				n, ok := toInt(d)
				if ok && n >= 0 && n <= 6 {
					closed = append(closed, n)
				}
			}
			c.DailyClosedDays = closed
		}
	}

	if c.DailyMaxNights < c.DailyMinNights {
		c.DailyMaxNights = c.DailyMinNights
	}

	return c, nil
}

// IsClosedCheckInDay usa a numeração domingo=0.
func (c TenantConstraints) IsClosedCheckInDay(weekday int) bool {
	for _, d := range c.DailyClosedDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func readInt(fields map[string]json.RawMessage, key string, min int, dst *int) {
	v, ok := fields[key]
	if !ok {
		return
	}
	if n, ok := toInt(v); ok && n >= min {
		*dst = n
	}
}

func readHour(fields map[string]json.RawMessage, key string, dst *string) {
	v, ok := fields[key]
	if !ok {
		return
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return
	}
	if _, err := timeutil.ToMinutes(s); err == nil {
		*dst = strings.TrimSpace(s)
	}
}

// toInt aceita número inteiro ou string numérica ("2").
func toInt(v json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		if f != float64(int(f)) {
			return 0, false
		}
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
