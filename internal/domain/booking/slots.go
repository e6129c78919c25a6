package booking

import "github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"

// Passo fixo da grade de horários.
const SlotStride = 30

// Expediente com 23h ou mais libera serviços que atravessam a meia-noite.
const FullDayMinutes = 23 * 60

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Interval é uma reserva horária em minutos. End <= Start indica
// reserva gravada atravessando a meia-noite.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, end string) (Interval, error) {
	s, err := timeutil.ToMinutes(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := timeutil.ToMinutes(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) wraps() bool {
	return i.End <= i.Start
}

// span devolve [start, end) com o fim já desembrulhado.
func (i Interval) span() (int, int) {
	if i.wraps() {
		return i.Start, i.End + timeutil.MinutesPerDay
	}
	return i.Start, i.End
}

func IsFullDay(scheduleStart, scheduleEnd int) bool {
	return scheduleEnd-scheduleStart >= FullDayMinutes
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ======================================================
// Ocupação de um dia
// ======================================================

type Occupancy struct {
	Buffer int

	SameDay []Interval
	// Dia seguinte: só conta para slots que passam da meia-noite.
	NextDay []Interval
	// Dia anterior: reservas que viraram a noite ocupam o início do dia.
	PreviousDay []Interval
}

// Collides testa [start, start+duration) contra as reservas, com o buffer
// somado ao fim de cada uma. crossMidnight habilita a checagem do dia seguinte.
func (o Occupancy) Collides(start, duration int, crossMidnight bool) bool {
	end := start + duration

	for _, b := range o.SameDay {
		bStart, bEnd := b.span()
		if overlaps(start, end, bStart, bEnd+o.Buffer) {
			return true
		}
	}

	for _, b := range o.PreviousDay {
		if b.wraps() && overlaps(start, end, 0, b.End+o.Buffer) {
			return true
		}
	}

	if crossMidnight && end > timeutil.MinutesPerDay {
		overflow := end - timeutil.MinutesPerDay
		for _, b := range o.NextDay {
			bStart, bEnd := b.span()
			if overlaps(0, overflow, bStart, bEnd+o.Buffer) {
				return true
			}
		}
	}

	return false
}

// ======================================================
// Geração de slots
// ======================================================

type SlotRequest struct {
	ScheduleStart int
	ScheduleEnd   int
	Duration      int
	Occupancy     Occupancy
}

// GenerateSlots monta a grade de 30 em 30 minutos do expediente.
// Em expediente de dia inteiro o slot só precisa começar antes do fim;
// nos demais o serviço precisa caber inteiro na janela.
func GenerateSlots(r SlotRequest) []Slot {
	slots := []Slot{}
	if r.Duration < 1 {
		return slots
	}

	fullDay := IsFullDay(r.ScheduleStart, r.ScheduleEnd)

	for t := r.ScheduleStart; t <= r.ScheduleEnd; t += SlotStride {
		if !fullDay && t+r.Duration > r.ScheduleEnd {
			break
		}
		slots = append(slots, Slot{
			Time:      timeutil.FromMinutes(t),
			Available: !r.Occupancy.Collides(t, r.Duration, fullDay),
		})
	}

	return slots
}

// ApplyNoticeFilter marca como indisponível tudo antes de agora + antecedência mínima.
func ApplyNoticeFilter(slots []Slot, nowMinutes, minAdvanceHours int) {
	limit := nowMinutes + minAdvanceHours*60
	for i := range slots {
		if timeutil.MustMinutes(slots[i].Time) < limit {
			slots[i].Available = false
		}
	}
}

func MarkAllUnavailable(slots []Slot) {
	for i := range slots {
		slots[i].Available = false
	}
}
