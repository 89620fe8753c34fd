package booking

import "time"

// Date-range rules shared by every surface that prices a rental: the range
// is valid iff start is not before today and end is after start. Any client
// preview and the orchestrator must agree on these results.

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateDateRange checks a candidate rental period against the caller's
// calendar day.
func ValidateDateRange(start, end, now time.Time) error {
	today := startOfDay(now)
	if startOfDay(start).Before(today) {
		return ErrValidation
	}
	if !startOfDay(end).After(startOfDay(start)) {
		return ErrValidation
	}
	return nil
}

// TotalDays is the number of billed days: ceil((end-start)/24h) on calendar
// days.
func TotalDays(start, end time.Time) int {
	d := startOfDay(end).Sub(startOfDay(start))
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 0 {
		return 0
	}
	return days
}

// QuoteTotal is the display price for a rental: billed days times the daily
// price, plus the roof-rack add-on when one is requested.
func QuoteTotal(totalDays int, pricePerDay, roofRackPrice int64) int64 {
	return int64(totalDays)*pricePerDay + roofRackPrice
}
