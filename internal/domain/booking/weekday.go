package booking

import "time"

// ScheduleDay converte time.Weekday (domingo=0) para a numeração de
// Schedule.DayOfWeek (segunda=0 ... domingo=6).
func ScheduleDay(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
