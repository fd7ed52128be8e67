package contacts

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

var phonePattern = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, config.PhoneDigits))

// Name is the lowercased contact name. It is also the Book key.
type Name struct {
	value string
}

// NewName normalizes raw and rejects empty input.
func NewName(raw string) (Name, error) {
	key := normalizeName(raw)
	if key == "" {
		return Name{}, &ValidationError{Field: FieldName, Value: raw, Reason: config.ErrNameEmpty}
	}
	return Name{value: key}, nil
}

func (n Name) String() string { return n.value }

// normalizeName is shared by NewName and the Book lookups so that
// "Ann" and "ann" address the same record.
func normalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Phone is a number of exactly ten decimal digits.
type Phone struct {
	value string
}

// NewPhone validates raw against the ten digit rule.
func NewPhone(raw string) (Phone, error) {
	if !phonePattern.MatchString(raw) {
		return Phone{}, &ValidationError{Field: FieldPhone, Value: raw, Reason: config.ErrPhoneFormat}
	}
	return Phone{value: raw}, nil
}

func (p Phone) String() string { return p.value }

// Birthday is a real calendar date entered as DD.MM.YYYY.
type Birthday struct {
	raw  string
	date time.Time
}

// NewBirthday parses raw with config.DateFormatBirthday.
// Impossible dates such as 30.02.2023 are rejected.
func NewBirthday(raw string) (Birthday, error) {
	t, err := time.Parse(config.DateFormatBirthday, raw)
	if err != nil {
		return Birthday{}, &ValidationError{Field: FieldBirthday, Value: raw, Reason: config.ErrBirthdayFormat}
	}
	return Birthday{raw: raw, date: t}, nil
}

// BirthdayFromDate builds a Birthday from an already parsed date.
// Only the calendar day of t is kept.
func BirthdayFromDate(t time.Time) Birthday {
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Birthday{raw: date.Format(config.DateFormatBirthday), date: date}
}

// Date returns the birthday as a UTC midnight time.
func (b Birthday) Date() time.Time { return b.date }

func (b Birthday) String() string { return b.raw }
