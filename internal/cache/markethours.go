package cache

import (
	"time"
)

// US market session in Eastern time: Mon-Fri, 9:30-16:00
const (
	marketOpenHour   = 9
	marketOpenMinute = 30
	marketCloseHour  = 16
)

// easternTime resolves the exchange timezone once. LoadLocation only fails
// without tzdata; UTC keeps the check defined in that case.
var easternTime = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// IsTradingDay reports whether t falls on a weekday in exchange time
func IsTradingDay(t time.Time) bool {
	weekday := t.In(easternTime).Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}

// IsMarketHours reports whether the market is open at t
func IsMarketHours(t time.Time) bool {
	if !IsTradingDay(t) {
		return false
	}

	et := t.In(easternTime)
	minutes := et.Hour()*60 + et.Minute()

	openMinutes := marketOpenHour*60 + marketOpenMinute
	closeMinutes := marketCloseHour * 60
	return minutes >= openMinutes && minutes <= closeMinutes
}
