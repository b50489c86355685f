package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is the transport-ready projection of an entity: field name -> string, int or nil.
type Record map[string]any

// TimeOfDay is a wall-clock time without a date (MySQL TIME).
type TimeOfDay struct {
	Hour, Minute, Second, Nanosecond int
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}
}

// ParseTimeOfDay accepts "15:04", "15:04:05" and "15:04:05.999999".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05.999999999", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("parse time of day %q: expected HH:MM[:SS[.ffffff]]", s)
}

// String renders HH:MM:SS with microseconds appended only when non-zero.
func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if us := t.Nanosecond / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) { return t.String(), nil }

// Scan reads a TIME column. The MySQL driver hands TIME back as text even with parseTime=true.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return t.UnmarshalText(v)
	case string:
		return t.UnmarshalText([]byte(v))
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second(), Nanosecond: v.Nanosecond()}
		return nil
	case nil:
		return errors.New("scan time of day: NULL")
	}
	return fmt.Errorf("scan time of day: unsupported type %T", src)
}

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseDateTime reads the ISO form ISOFormat produces; a missing offset means UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse datetime %q: expected ISO-8601", s)
}

// ISOFormat converts a datetime, date or time of day to its ISO-8601 text.
// Anything else, a nil pointer included, fails with *SerializeError.
func ISOFormat(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return formatDateTime(t), nil
	case *time.Time:
		if t != nil {
			return formatDateTime(*t), nil
		}
	case Date:
		return t.String(), nil
	case *Date:
		if t != nil {
			return t.String(), nil
		}
	case TimeOfDay:
		return t.String(), nil
	case *TimeOfDay:
		if t != nil {
			return t.String(), nil
		}
	}
	return "", &SerializeError{Value: v}
}

// UTC values are rendered naive (no offset); the store keeps everything in UTC.
func formatDateTime(t time.Time) string {
	s := t.Format("2006-01-02T15:04:05")
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	if t.Location() != time.UTC {
		s += t.Format("-07:00")
	}
	return s
}
