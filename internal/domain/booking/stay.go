package booking

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// Limite de dias por consulta de disponibilidade diária. Não vale para a
// criação: a estadia é limitada por dailyMaxNights.
const MaxStayRangeDays = 92

// Motivos de indisponibilidade de uma data.
const (
	ReasonPast     = "past"
	ReasonBeyond   = "beyond_max_advance"
	ReasonBlocked  = "blocked"
	ReasonClosed   = "closed"
	ReasonOccupied = "occupied"
)

type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Stay ocupa [CheckIn, CheckOut): a data de saída fica livre para outro check-in.
type Stay struct {
	CheckIn  string
	CheckOut string
}

type StayRequest struct {
	From string
	To   string

	Today       string
	Constraints TenantConstraints

	Blocked []string
	Stays   []Stay
}

// ComputeStayAvailability devolve uma entrada por dia de From até To (inclusive).
func ComputeStayAvailability(r StayRequest) ([]DateAvailability, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return nil, err
	}
	today, err := timeutil.ParseDate(r.Today)
	if err != nil {
		return nil, httperr.ErrInvalidSlot("invalid_date")
	}

	blocked := make(map[string]struct{}, len(r.Blocked))
	for _, d := range r.Blocked {
		blocked[d] = struct{}{}
	}

	occupied := occupiedDates(r.Stays, from, to)
	limit := today.AddDate(0, 0, r.Constraints.MaxAdvanceBookingDays)

	out := make([]DateAvailability, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := timeutil.FormatDate(d)
		reason := reasonFor(d, date, today, limit, blocked, occupied, r.Constraints)
		out = append(out, DateAvailability{
			Date:      date,
			Available: reason == "",
			Reason:    reason,
		})
	}

	return out, nil
}

// ValidateStayRange checa o intervalo antes de qualquer consulta ao banco.
func ValidateStayRange(from, to string) error {
	_, _, err := parseRange(from, to)
	return err
}

// ValidateBrowseRange também aplica o teto de dias da consulta.
func ValidateBrowseRange(fromS, toS string) error {
	from, to, err := parseRange(fromS, toS)
	if err != nil {
		return err
	}
	if int(to.Sub(from).Hours()/24) >= MaxStayRangeDays {
		return httperr.ErrBusiness("range_too_large")
	}
	return nil
}

func parseRange(fromS, toS string) (time.Time, time.Time, error) {
	from, err := timeutil.ParseDate(fromS)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrInvalidSlot("invalid_date")
	}
	to, err := timeutil.ParseDate(toS)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrInvalidSlot("invalid_date")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date_range")
	}
	return from, to, nil
}

// UnavailableDates filtra as datas indisponíveis, na ordem.
func UnavailableDates(days []DateAvailability) []string {
	var out []string
	for _, d := range days {
		if !d.Available {
			out = append(out, d.Date)
		}
	}
	return out
}

func reasonFor(
	d time.Time,
	date string,
	today time.Time,
	limit time.Time,
	blocked map[string]struct{},
	occupied map[string]struct{},
	c TenantConstraints,
) string {
	switch {
	case d.Before(today):
		return ReasonPast
	case d.After(limit):
		return ReasonBeyond
	}
	if _, ok := blocked[date]; ok {
		return ReasonBlocked
	}
	if c.IsClosedCheckInDay(int(d.Weekday())) {
		return ReasonClosed
	}
	if _, ok := occupied[date]; ok {
		return ReasonOccupied
	}
	return ""
}

// occupiedDates expande cada estadia que cruza [from, to] em datas ocupadas.
func occupiedDates(stays []Stay, from, to time.Time) map[string]struct{} {
	out := map[string]struct{}{}
	for _, s := range stays {
		in, err := timeutil.ParseDate(s.CheckIn)
		if err != nil {
			continue
		}
		outDate, err := timeutil.ParseDate(s.CheckOut)
		if err != nil {
			continue
		}
		for d := in; d.Before(outDate); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			out[timeutil.FormatDate(d)] = struct{}{}
		}
	}
	return out
}
