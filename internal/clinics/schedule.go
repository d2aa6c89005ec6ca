// Package clinics provides clinic locations, their weekly opening hours,
// and the bookable-slot computation used by the appointment form.
package clinics

import (
	"time"
)

// DayHours represents the opening hours for a single day.
// Nil means the clinic is closed that day.
type DayHours struct {
	Open  string `json:"open"`  // "09:00" in 24-hour format
	Close string `json:"close"` // "18:00" in 24-hour format
}

// WeekSchedule maps day names to their hours.
type WeekSchedule struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// ForWeekday returns the hours for the given weekday, nil when closed.
func (w WeekSchedule) ForWeekday(day time.Weekday) *DayHours {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	}
	return nil
}

// Clinic is a bookable location.
type Clinic struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Address  string       `json:"address"`
	Schedule WeekSchedule `json:"schedule"`
}

// Slots computes the bookable time-of-day values for date under the
// given weekly schedule, stepping from open to close inclusive. A closed
// day, a malformed entry, or a close before open all yield an empty
// slice; open == close yields exactly the opening time. Schedules
// crossing midnight are not supported.
func Slots(week WeekSchedule, date time.Time, step time.Duration) []string {
	hours := week.ForWeekday(date.Weekday())
	if hours == nil {
		return []string{}
	}
	if step <= 0 {
		step = time.Hour
	}

	open, err := time.Parse("15:04", hours.Open)
	if err != nil {
		return []string{}
	}
	close, err := time.Parse("15:04", hours.Close)
	if err != nil {
		return []string{}
	}

	slots := []string{}
	for t := open; !t.After(close); t = t.Add(step) {
		slots = append(slots, t.Format("15:04"))
		// Guard the midnight wrap: Add past 24:00 rolls the clock over
		// and would loop forever against a same-day close.
		if t.Add(step).Day() != open.Day() {
			break
		}
	}
	return slots
}
