package timezone

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// Fuso oficial do negócio: UTC-3 fixo, sem horário de verão.
const DefaultOffsetHours = -3

// Clock é a fonte de "agora" injetada nos casos de uso.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapta uma função (útil em testes).
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// BusinessClock resolve "agora" e "hoje" no fuso civil do negócio,
// independente do fuso da máquina.
type BusinessClock struct {
	source Clock
	loc    *time.Location
}

func NewBusinessClock(source Clock, offsetHours int) *BusinessClock {
	if source == nil {
		source = SystemClock{}
	}
	return &BusinessClock{
		source: source,
		loc:    FixedLocation(offsetHours),
	}
}

// Default: relógio do sistema em UTC-3.
func Default() *BusinessClock {
	return NewBusinessClock(SystemClock{}, DefaultOffsetHours)
}

func FixedLocation(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	if offsetHours == 0 {
		name = "UTC"
	}
	return time.FixedZone(name, offsetHours*3600)
}

func (c *BusinessClock) Location() *time.Location {
	return c.loc
}

// Now devolve o instante atual já no fuso do negócio.
func (c *BusinessClock) Now() time.Time {
	return c.source.Now().UTC().In(c.loc)
}

// Today devolve a data civil (YYYY-MM-DD) no fuso do negócio.
func (c *BusinessClock) Today() string {
	return c.Now().Format(timeutil.DateLayout)
}

// NowMinutes devolve os minutos decorridos desde 00:00 no fuso do negócio.
func (c *BusinessClock) NowMinutes() int {
	now := c.Now()
	return now.Hour()*60 + now.Minute()
}

// At monta o instante de uma data + "HH:MM" no fuso do negócio.
func (c *BusinessClock) At(date, hm string) (time.Time, error) {
	return time.ParseInLocation(
		timeutil.DateLayout+" "+timeutil.HourLayout,
		date+" "+hm,
		c.loc,
	)
}
