package time

import (
	"encoding/json"
	goerr "errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors" // Wrap errors with stacktrace.
)

// ErrInvalidTime is returned by Normalize when a value can't be
// interpreted as a point in time.
var ErrInvalidTime = goerr.New("invalid time")

// layouts are the string formats accepted by Normalize, tried in order.
// Strings without a zone offset are read as UTC. Fractional seconds are
// accepted after the seconds field of any layout that has one.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102",
	"2006",
}

// Normalize converts a date-like value to a UTC time.Time.
//
// Accepted values:
// - time.Time and *time.Time.
// - Integers, float64 and json.Number, read as milliseconds since the
//   Unix epoch (like a JavaScript Date).
// - Strings in one of the ISO 8601 layouts above, including the basic
//   forms "1999" and "19991231". Other strings of digits are read as
//   milliseconds since the Unix epoch.
//
// The zero Time is not a valid time. Errors wrap ErrInvalidTime.
func Normalize(v interface{}) (time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return time.Time{}, errors.Wrap(ErrInvalidTime, "nil *time.Time")
		}
		t = *x
	case int:
		t = FromMillis(int64(x))
	case int32:
		t = FromMillis(int64(x))
	case int64:
		t = FromMillis(x)
	case uint:
		t = FromMillis(int64(x))
	case uint32:
		t = FromMillis(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return time.Time{}, errors.Wrapf(ErrInvalidTime, "epoch milliseconds %d overflow int64", x)
		}
		t = FromMillis(int64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, errors.Wrapf(ErrInvalidTime, "epoch milliseconds %v", x)
		}
		sec, frac := math.Modf(x / 1000)
		t = time.Unix(int64(sec), int64(math.Round(frac*1e9)))
	case json.Number:
		return parseNumber(string(x))
	case string:
		return parseString(x)
	default:
		return time.Time{}, errors.Wrapf(ErrInvalidTime, "unsupported type %T", v)
	}
	if t.IsZero() {
		return time.Time{}, errors.Wrap(ErrInvalidTime, "zero time")
	}
	return t.UTC(), nil
}

// FromMillis returns the UTC time ms milliseconds after the Unix epoch.
func FromMillis(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).UTC()
}

func parseNumber(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Normalize(ms)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidTime, "cannot parse number %q", s)
	}
	return Normalize(f)
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(ErrInvalidTime, "blank string")
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return Normalize(t)
		}
	}
	if isDigits(s) {
		return parseNumber(s)
	}
	return time.Time{}, errors.Wrapf(ErrInvalidTime, "cannot parse %q", s)
}

func isDigits(s string) bool {
	for i, r := range s {
		if r == '-' && i == 0 && len(s) > 1 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
