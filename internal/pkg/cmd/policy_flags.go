package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors" // Wrap errors with stacktrace.

	"github.com/mintel/grandfatherson/pkg/retention" // Which snapshots to keep.
	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// PolicyFlags represents a set of flags describing a retention.Policy.
type PolicyFlags struct {
	// Path of a YAML policy file (see retention.LoadPolicy).
	File string

	counts       [retention.Years + 1]countValue // Indexed by retention.Unit.
	firstWeekday weekdayValue
	now          timeValue
}

// NewPolicyFlags returns a new PolicyFlags.
func NewPolicyFlags(app Flagger) *PolicyFlags {
	var f PolicyFlags

	for _, u := range retention.Units() {
		app.Flag(u.String(), fmt.Sprintf("Number of distinct %s to keep a snapshot from.", u)).
			PlaceHolder("N").
			SetValue(&f.counts[u])
	}

	weekdays := make([]string, 0, ptime.DaysInWeek)
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays = append(weekdays, strings.ToLower(d.String()))
	}
	app.Flag("first-weekday", "Day weeks start on, by name or number (0 is Sunday). Defaults to Saturday.").
		HintOptions(weekdays...).
		SetValue(&f.firstWeekday)

	app.Flag("now", "Compute retention relative to this time instead of the current time.").
		PlaceHolder("TIME").
		SetValue(&f.now)

	app.Flag("policy.file", "YAML file with the retention policy. Count flags override its values.").
		PlaceHolder("FILE").
		ExistingFileVar(&f.File)

	return &f
}

// Policy returns the retention.Policy described by the flags.
// Values from File are loaded first, then overridden by the
// count flags given on the command line (including zeros),
// --first-weekday and --now.
func (f *PolicyFlags) Policy() (retention.Policy, error) {
	var p retention.Policy
	if f.File != "" {
		var err error
		if p, err = loadPolicyFile(f.File); err != nil {
			return p, err
		}
	}
	for _, u := range retention.Units() {
		if c := f.counts[u]; c.set {
			p.SetCount(u, c.n)
		}
	}
	if f.firstWeekday.d != nil {
		p.FirstWeekday = retention.WeekStartsOn(*f.firstWeekday.d)
	}
	if !f.now.t.IsZero() {
		p.Now = f.now.t
	}
	return p, p.Validate()
}

func loadPolicyFile(path string) (retention.Policy, error) {
	file, err := os.Open(path)
	if err != nil {
		return retention.Policy{}, errors.Wrap(err, "error opening policy file")
	}
	defer file.Close()
	p, err := retention.LoadPolicy(file)
	if err != nil {
		return p, errors.Wrapf(err, "error loading policy file %s", path)
	}
	return p, nil
}

// countValue is a kingpin.Value for a count that records
// whether it was given at all.
type countValue struct {
	n   int
	set bool
}

func (v *countValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.Errorf("count %q must be an integer", s)
	}
	v.n, v.set = n, true
	return nil
}

func (v *countValue) String() string {
	return strconv.Itoa(v.n)
}

// weekdayValue is a kingpin.Value for a time.Weekday.
type weekdayValue struct {
	d *time.Weekday
}

func (v *weekdayValue) Set(s string) error {
	d, err := ptime.ParseWeekday(s)
	if err != nil {
		return err
	}
	v.d = &d
	return nil
}

func (v *weekdayValue) String() string {
	if v.d == nil {
		return ""
	}
	return v.d.String()
}

// timeValue is a kingpin.Value for a time.Time.
// It accepts anything ptime.Normalize does.
type timeValue struct {
	t time.Time
}

func (v *timeValue) Set(s string) error {
	t, err := ptime.Normalize(s)
	if err != nil {
		return err
	}
	v.t = t
	return nil
}

func (v *timeValue) String() string {
	if v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339Nano)
}
