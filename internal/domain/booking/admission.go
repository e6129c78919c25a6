package booking

import (
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// Moment é o "agora" já resolvido no fuso do negócio.
type Moment struct {
	Today   string
	Minutes int
}

func MomentOf(clock *timezone.BusinessClock) Moment {
	return Moment{
		Today:   clock.Today(),
		Minutes: clock.NowMinutes(),
	}
}

// ======================================================
// Admissão temporal (modo horário)
// ======================================================

// AdmitHourly aplica, em ordem: data passada, limite máximo de antecedência e,
// para hoje, horário passado e antecedência mínima. skip só ignora a última regra.
func AdmitHourly(
	c TenantConstraints,
	now Moment,
	date string,
	start string,
	skipAdvanceCheck bool,
) error {

	startMin, err := timeutil.ToMinutes(start)
	if err != nil {
		return httperr.ErrInvalidSlot("invalid_time")
	}

	days, err := daysFromToday(now, date)
	if err != nil {
		return err
	}

	if err := admitWindow(c, days); err != nil {
		return err
	}

	if days == 0 && !skipAdvanceCheck {
		if startMin < now.Minutes {
			return httperr.ErrTemporal("time_already_passed")
		}
		if startMin < now.Minutes+c.MinAdvanceBookingHours*60 {
			return httperr.ErrTemporal("insufficient_notice")
		}
	}

	return nil
}

// ======================================================
// Admissão temporal (modo diária)
// ======================================================

// AdmitDaily valida o intervalo da estadia e devolve o número de noites.
// Não há regra de horário: check-in hoje é permitido.
func AdmitDaily(
	c TenantConstraints,
	now Moment,
	checkIn string,
	checkOut string,
) (int, error) {

	nights, err := timeutil.DaysBetween(checkIn, checkOut)
	if err != nil {
		return 0, httperr.ErrInvalidSlot("invalid_date")
	}
	if nights <= 0 {
		return 0, httperr.ErrInvalidSlot("invalid_stay_range")
	}

	days, err := daysFromToday(now, checkIn)
	if err != nil {
		return 0, err
	}
	if err := admitWindow(c, days); err != nil {
		return 0, err
	}

	if nights < c.DailyMinNights {
		return 0, httperr.ErrTemporal("stay_too_short")
	}
	if nights > c.DailyMaxNights {
		return 0, httperr.ErrTemporal("stay_too_long")
	}

	wd, err := timeutil.Weekday(checkIn)
	if err != nil {
		return 0, httperr.ErrInvalidSlot("invalid_date")
	}
	if c.IsClosedCheckInDay(int(wd)) {
		return 0, httperr.ErrTemporal("closed_check_in_day")
	}

	return nights, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func daysFromToday(now Moment, date string) (int, error) {
	days, err := timeutil.DaysBetween(now.Today, date)
	if err != nil {
		return 0, httperr.ErrInvalidSlot("invalid_date")
	}
	return days, nil
}

func admitWindow(c TenantConstraints, days int) error {
	if days < 0 {
		return httperr.ErrTemporal("past_date")
	}
	if days > c.MaxAdvanceBookingDays {
		return httperr.ErrTemporal("too_far_in_advance")
	}
	return nil
}
