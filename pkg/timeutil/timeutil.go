// Package timeutil provides timezone utilities for the academy timezone
// (Asia/Tokyo, UTC+9). The academy runs on a single wall clock: due dates,
// check-in times and revenue months are all evaluated in Tokyo time.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// AcademyTZ is the academy timezone (UTC+9, no DST).
// Japan has not observed DST since 1951, so this is constant year-round.
var AcademyTZ = time.FixedZone("Asia/Tokyo", 9*60*60)

// Now returns the current time in the academy timezone.
func Now() time.Time {
	return time.Now().In(AcademyTZ)
}

// ToAcademy converts a time to the academy timezone.
func ToAcademy(t time.Time) time.Time {
	return t.In(AcademyTZ)
}

// Date creates a time in the academy timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, AcademyTZ)
}

// DateTime creates a time in the academy timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, AcademyTZ)
}

// StartOfDay returns the start of the day (00:00:00) in the academy timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAcademy(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, AcademyTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the academy timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToAcademy(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, AcademyTZ)
}

// StartOfMonth returns the start of the month in the academy timezone.
func StartOfMonth(t time.Time) time.Time {
	local := ToAcademy(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, AcademyTZ)
}

// EndOfMonth returns the end of the month in the academy timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return EndOfDay(start.AddDate(0, 1, -1))
}

// SameDay checks whether two times fall on the same calendar day
// in the academy timezone.
func SameDay(a, b time.Time) bool {
	la, lb := ToAcademy(a), ToAcademy(b)
	return la.Year() == lb.Year() && la.Month() == lb.Month() && la.Day() == lb.Day()
}

// SameMonth checks whether two times fall in the same calendar month
// in the academy timezone.
func SameMonth(a, b time.Time) bool {
	la, lb := ToAcademy(a), ToAcademy(b)
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}

// DaysSince calculates the number of whole calendar days since the given time.
func DaysSince(t time.Time) int {
	return DaysBetween(t, Now())
}

// DaysBetween calculates the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a)
	to := StartOfDay(b)
	return int(to.Sub(from).Hours() / 24)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard clock format (HH:MM), used on the totem
	// confirmation screen and in class schedules.
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatBrazilianDate is the date format shown to staff (DD/MM/YYYY).
	FormatBrazilianDate = "02/01/2006"
)

// Weekday names as used in class schedules (Portuguese, matching the
// seeded default settings).
var WeekdayNames = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the schedule name for the given time's weekday.
func WeekdayName(t time.Time) string {
	return WeekdayNames[ToAcademy(t).Weekday()]
}
