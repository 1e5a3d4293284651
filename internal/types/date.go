package types

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var dateOnly = regexp.MustCompile("^[0-9]{4}-[0-9]{2}-[0-9]{2}$")

// Date is a calendar day without a time of day.
type Date time.Time

// NewDate returns the date for the given year, month and day.
// Out of range values are normalized like time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day on which t occurs in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// ParseDate parses either a "YYYY-MM-DD" string or an RFC3339 timestamp.
func ParseDate(s string) (Date, error) {
	pattern := time.RFC3339
	if dateOnly.MatchString(s) {
		pattern = dateLayout
	}

	t, err := time.Parse(pattern, s)
	if err != nil {
		return Date{}, err
	}

	return DateOf(t), nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Date) Year() int {
	return time.Time(d).Year()
}

func (d Date) Day() int {
	return time.Time(d).Day()
}

// Month returns the Month the date is in.
func (d Date) Month() Month {
	return MonthOf(time.Time(d))
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

func (d Date) After(e Date) bool {
	return time.Time(d).After(time.Time(e))
}

func (d Date) Equal(e Date) bool {
	return time.Time(d).Equal(time.Time(e))
}
