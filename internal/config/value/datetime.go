package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DatetimeKind distinguishes the four TOML date/time forms.
type DatetimeKind uint8

const (
	// OffsetDateTime is a date-time with a UTC offset.
	OffsetDateTime DatetimeKind = iota
	// LocalDateTime is a date-time without an offset.
	LocalDateTime
	// LocalDate is a calendar date.
	LocalDate
	// LocalTime is a time of day.
	LocalTime
)

// String returns the form name.
func (k DatetimeKind) String() string {
	switch k {
	case OffsetDateTime:
		return "offset-datetime"
	case LocalDateTime:
		return "local-datetime"
	case LocalDate:
		return "local-date"
	case LocalTime:
		return "local-time"
	default:
		return "unknown"
	}
}

// Datetime is a TOML date/time literal.
// For local forms Time is expressed in UTC and its zone carries no meaning.
type Datetime struct {
	Kind DatetimeKind
	Time time.Time
}

// String formats d the way TOML writes it, RFC 3339 style. Fractional
// seconds use the fewest digits that keep the value.
func (d Datetime) String() string {
	switch d.Kind {
	case LocalDateTime:
		return toml.LocalDateTime{LocalDate: d.date(), LocalTime: d.clock()}.String()
	case LocalDate:
		return d.date().String()
	case LocalTime:
		return d.clock().String()
	default:
		return d.Time.Format(time.RFC3339Nano)
	}
}

func (d Datetime) date() toml.LocalDate {
	return toml.LocalDate{Year: d.Time.Year(), Month: int(d.Time.Month()), Day: d.Time.Day()}
}

func (d Datetime) clock() toml.LocalTime {
	return toml.LocalTime{
		Hour:       d.Time.Hour(),
		Minute:     d.Time.Minute(),
		Second:     d.Time.Second(),
		Nanosecond: d.Time.Nanosecond(),
	}
}

// Equal reports whether d and other are the same form and instant.
func (d Datetime) Equal(other Datetime) bool {
	return d.Kind == other.Kind && d.Time.Equal(other.Time)
}

// ParseDatetime parses any of the TOML date/time forms with the TOML
// decoder, so a space or lowercase t may separate the date from the time and
// a lowercase z marks UTC.
func ParseDatetime(s string) (Datetime, error) {
	text := strings.TrimSpace(s)
	if text == "" || strings.IndexFunc(text, notDatetimeRune) >= 0 {
		return Datetime{}, fmt.Errorf("invalid datetime %q", s)
	}

	v, err := ParseLiteral(text)
	if err != nil {
		return Datetime{}, fmt.Errorf("invalid datetime %q", s)
	}
	d, ok := v.Datetime()
	if !ok {
		return Datetime{}, fmt.Errorf("invalid datetime %q: parsed as %s", s, v.Kind())
	}
	return d, nil
}

// notDatetimeRune keeps ParseDatetime input to a single literal.
func notDatetimeRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-:.+ TtZz", r):
		return false
	}
	return true
}

func datetimeFromTOML(raw any) (Datetime, bool) {
	switch x := raw.(type) {
	case time.Time:
		return Datetime{Kind: OffsetDateTime, Time: x}, true
	case toml.LocalDate:
		return Datetime{Kind: LocalDate, Time: x.AsTime(time.UTC)}, true
	case toml.LocalTime:
		t := time.Date(0, time.January, 1, x.Hour, x.Minute, x.Second, x.Nanosecond, time.UTC)
		return Datetime{Kind: LocalTime, Time: t}, true
	case toml.LocalDateTime:
		return Datetime{Kind: LocalDateTime, Time: x.AsTime(time.UTC)}, true
	case Datetime:
		return x, true
	}
	return Datetime{}, false
}
