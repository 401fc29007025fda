// Package slot owns measurement-visit scheduling: stateless validation of a
// requested slot and the exclusive registry backed by a unique index.
package slot

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/craftline/wardrobe/internal/domain"
)

const minLeadTime = 24 * time.Hour

var validRanges = map[string]bool{
	domain.SlotMorning:   true,
	domain.SlotAfternoon: true,
	domain.SlotEvening:   true,
}

// ValidateSlot checks a requested slot against the booking rules: the date
// must parse, must not fall on a Sunday, must be at least 24 hours out, and
// the time range must be one of the three known windows. It says nothing
// about availability; Reserve is the only authority on that.
func ValidateSlot(date, timeRange string, now time.Time) error {
	if !validRanges[timeRange] {
		return domain.Errorf(domain.KindValidation, "invalid time range %q", timeRange)
	}
	t, err := dateparse.ParseIn(date, now.Location())
	if err != nil {
		return domain.Errorf(domain.KindValidation, "invalid slot date %q", date)
	}
	if t.Weekday() == time.Sunday {
		return domain.Errorf(domain.KindValidation, "measurement visits are not available on Sundays")
	}
	if t.Sub(now) < minLeadTime {
		return domain.Errorf(domain.KindValidation, "slot must be booked at least 24 hours in advance")
	}
	return nil
}
