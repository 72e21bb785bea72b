package time

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors" // Wrap errors with stacktrace.
)

// Nominal fixed-length durations for the calendar units that don't
// have one. They are only used to turn ISO 8601 durations into a
// time.Duration; calendar bucketing never uses them.
const (
	// Day duration.
	Day = 24 * time.Hour

	// Week duration.
	Week = DaysInWeek * Day

	// Month duration, 30.436875 days truncated to the second.
	Month = (time.Duration(30.436875*float64(Day)) / time.Second) * time.Second

	// Year duration, 365.2425 days truncated to the second.
	Year = (time.Duration(365.2425*float64(Day)) / time.Second) * time.Second
)

// isoPart is the regexp for one designator of an ISO 8601 duration.
const isoPart = `(?:(?P<%s>\d+(?:[,.]\d+)?)%s)?`

var isoDuration = regexp.MustCompile(fmt.Sprintf(`^P(?:%s|%s%s%s(?:T%s%s%s)?)$`,
	fmt.Sprintf(isoPart, "W", "W"),
	fmt.Sprintf(isoPart, "Y", "Y"),
	fmt.Sprintf(isoPart, "mo", "M"),
	fmt.Sprintf(isoPart, "D", "D"),
	fmt.Sprintf(isoPart, "H", "H"),
	fmt.Sprintf(isoPart, "mi", "M"),
	fmt.Sprintf(isoPart, "S", "S"),
))

var isoUnits = map[string]time.Duration{
	"W":  Week,
	"Y":  Year,
	"mo": Month,
	"D":  Day,
	"H":  time.Hour,
	"mi": time.Minute,
	"S":  time.Second,
}

// ErrInt64Overflow is returned by ParseISO8601D if the duration can't fit in an int64.
var ErrInt64Overflow = errors.New("int64 overflow")

// ParseISO8601D parses an ISO 8601 duration string such as "P1D" or
// "PT1H30M" into a time.Duration, using the nominal Day, Week, Month
// and Year lengths above.
//
// See: https://en.wikipedia.org/wiki/ISO_8601#Durations
func ParseISO8601D(s string) (time.Duration, error) {
	if s == "P0" {
		return 0, nil
	}
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") {
		return 0, errors.Errorf("cannot parse %q as an ISO 8601 duration", s)
	}
	const precision = 128 // wider than an int64
	sum := new(big.Float).SetPrec(precision)
	for i, name := range isoDuration.SubexpNames() {
		if i == 0 || m[i] == "" {
			continue
		}
		n, _, err := big.ParseFloat(strings.Replace(m[i], ",", ".", 1), 10, precision, big.ToZero)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot parse %q in duration %q", m[i], s)
		}
		n.Mul(n, new(big.Float).SetInt64(int64(isoUnits[name])))
		sum.Add(sum, n)
	}
	if sum.Cmp(new(big.Float).SetInt64(math.MaxInt64)) > 0 {
		return time.Duration(math.MaxInt64), ErrInt64Overflow
	}
	d, _ := sum.Int64() // Drops sub-nanosecond fractions.
	return time.Duration(d), nil
}
