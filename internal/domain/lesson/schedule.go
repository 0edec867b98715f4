package lesson

import (
	"fmt"
	"strings"
	"time"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Clock is a time of day with minute precision, stored as minutes after midnight.
type Clock int

const clockLayout = "15:04"

// ParseClock parses "HH:MM" (24-hour).
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, shared.WrapError("lesson", "ParseClock", shared.ErrInvalidFormat, "time must be in HH:MM format", err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, shared.ErrInvalidClock
	}
	return Clock(hour*60 + minute), nil
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseDay parses a weekday name such as "monday", "Mon" or "MONDAY".
func ParseDay(value string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if v == name || v == name[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, shared.ErrInvalidDay
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// Schedule holds the recurring timing of a lesson.
type Schedule struct {
	Day         time.Weekday
	Start       Clock
	End         Clock
	Venue       string
	Occurrences int
}

// Validate checks every schedule field.
func (s Schedule) Validate() error {
	if s.Day < time.Sunday || s.Day > time.Saturday {
		return shared.ErrInvalidDay
	}
	if s.Start < 0 || s.End < 0 || s.Start >= 24*60 || s.End >= 24*60 {
		return shared.ErrInvalidClock
	}
	if s.Start >= s.End {
		return shared.ErrInvalidTimeRange
	}
	if strings.TrimSpace(s.Venue) == "" {
		return shared.ErrInvalidVenue
	}
	if s.Occurrences < 1 || s.Occurrences > shared.MaxWeeks {
		return shared.ErrInvalidOccurrences
	}
	return nil
}

// IsSameSlot reports whether both schedules describe the same recurring slot.
// The number of occurrences is not part of the slot.
func (s Schedule) IsSameSlot(other Schedule) bool {
	return s.Day == other.Day &&
		s.Start == other.Start &&
		s.End == other.End &&
		s.Venue == other.Venue
}

// String renders the schedule as e.g. "MONDAY 10:00-12:00 @ COM1-B103 (13 weeks)".
func (s Schedule) String() string {
	return fmt.Sprintf("%s %s-%s @ %s (%d weeks)",
		strings.ToUpper(s.Day.String()), s.Start, s.End, s.Venue, s.Occurrences)
}
