package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

// ToMinutes converte "HH:MM" em minutos desde 00:00.
func ToMinutes(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", hm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour: %q", hm)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute: %q", hm)
	}

	return hour*60 + minute, nil
}

// MustMinutes é ToMinutes para valores já validados (constantes e testes).
func MustMinutes(hm string) int {
	m, err := ToMinutes(hm)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMinutes formata minutos como "HH:MM", dando a volta em 24h.
// Valores acima de 1439 representam horários depois da meia-noite.
func FromMinutes(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CalculateEndTime devolve o horário de término já "embrulhado" para exibição.
// Quem precisa comparar ordem real deve usar start+duration em minutos.
func CalculateEndTime(start string, durationMinutes int) (string, error) {
	m, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	return FromMinutes(m + durationMinutes), nil
}

// IsBefore / IsAfter comparam pelo valor em minutos. Não tratam virada de dia.
func IsBefore(a, b string) bool {
	am, errA := ToMinutes(a)
	bm, errB := ToMinutes(b)
	return errA == nil && errB == nil && am < bm
}

func IsAfter(a, b string) bool {
	am, errA := ToMinutes(a)
	bm, errB := ToMinutes(b)
	return errA == nil && errB == nil && am > bm
}

// --------------------------------------------------
// Datas civis ("YYYY-MM-DD")
// --------------------------------------------------

// ParseDate interpreta a data sempre em UTC: só o dia civil importa.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// DaysBetween conta dias civis de a até b (negativo se b < a).
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Weekday devolve o dia da semana (time.Weekday, domingo=0) de uma data civil.
func Weekday(date string) (time.Weekday, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}
