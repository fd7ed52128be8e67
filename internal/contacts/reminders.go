package contacts

import (
	"cmp"
	"slices"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// DefaultReminderWindow is the lookahead used when the caller does not choose one.
const DefaultReminderWindow = config.DefaultReminderDays

// Reminder tells who to congratulate and when.
type Reminder struct {
	// Name is the normalized contact name.
	Name string

	// Occurrence is the birthday in the current or next year.
	// It decides whether the contact falls inside the window.
	Occurrence time.Time

	// Date is Occurrence moved to Monday when it falls on a weekend.
	Date time.Time
}

// CongratulationDate renders Date as DD.MM.YYYY.
func (r Reminder) CongratulationDate() string {
	return r.Date.Format(config.DateFormatBirthday)
}

// UpcomingBirthdays lists the contacts whose next birthday falls within days
// of the calendar date of now, both ends inclusive. A negative window yields nothing.
// Results are ordered by congratulation date, then name.
func (b *Book) UpcomingBirthdays(now time.Time, days int) []Reminder {
	today := dateOf(now)
	var out []Reminder

	for key, r := range b.records {
		if r.birthday == nil {
			continue
		}
		occ := nextOccurrence(today, r.birthday.date)
		delta := int(occ.Sub(today).Hours() / 24)
		if delta < 0 || delta > days {
			continue
		}
		out = append(out, Reminder{
			Name:       key,
			Occurrence: occ,
			Date:       adjustForWeekend(occ),
		})
	}

	slices.SortFunc(out, func(x, y Reminder) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return out
}

// dateOf strips the clock and zone of t, keeping its calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextOccurrence maps birth onto today's year, or the next one when that date has passed.
// time.Date normalizes Feb 29 to Mar 1 in non-leap years.
func nextOccurrence(today, birth time.Time) time.Time {
	candidate := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// adjustForWeekend moves Saturday and Sunday to the following Monday.
func adjustForWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}
