package ingestion

import "time"

// LastTradingDay returns the most recent NSE trading day on or before from,
// as midnight UTC.
func LastTradingDay(from time.Time) time.Time {
	return LastNTradingDays(1, from)[0]
}

// LastNTradingDays returns the last n NSE trading days (most recent first).
// It excludes Saturdays, Sundays, the fixed national holidays and Good Friday.
// Exchange-declared holidays that move every year are not modeled.
func LastNTradingDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if isTradingDayNSE(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedHolidays are closed every year on the same calendar date.
var fixedHolidays = map[string]struct{}{
	"01-26": {}, // Republic Day
	"05-01": {}, // Maharashtra Day
	"08-15": {}, // Independence Day
	"10-02": {}, // Gandhi Jayanti
	"12-25": {}, // Christmas
}

// isTradingDayNSE returns true if the exchange is open on d.
func isTradingDayNSE(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if _, ok := fixedHolidays[d.Format("01-02")]; ok {
		return false
	}
	goodFriday := easterSunday(d.Year()).AddDate(0, 0, -2)
	return !truncateToDate(d).Equal(goodFriday)
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
