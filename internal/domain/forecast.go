package domain

import (
	"time"
	_ "time/tzdata" // zone lookup without a system zoneinfo
)

const (
	// ForecastLeadHours is how far ahead of the current hour the evaluated
	// forecast entry lies.
	ForecastLeadHours = 3

	lastHourOfDay = 23
)

// ForecastHourIndex picks the hourly forecast entry nearest to currentHour+lead.
// The index is clamped to the last hour of the day and to the last entry
// actually present (available). It returns -1 when no entries are available.
func ForecastHourIndex(currentHour, lead, available int) int {
	if available <= 0 {
		return -1
	}
	idx := currentHour + lead
	if idx > lastHourOfDay {
		idx = lastHourOfDay
	}
	if idx > available-1 {
		idx = available - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// LocalHour returns the current hour at the named IANA zone, falling back to
// the clock's own zone when tzID is empty or unknown. The provider's tz_id is
// preferred over the host's local hour so a host in another zone still picks
// the plot's forecast entry.
func LocalHour(tzID string) int {
	now := clock.Now()
	if tzID != "" {
		if loc, err := time.LoadLocation(tzID); err == nil {
			now = now.In(loc)
		}
	}
	return now.Hour()
}
