package retention

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v3" // Decode policy files.

	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// Policy is how many distinct buckets of each Unit to keep.
type Policy struct {
	Seconds int
	Minutes int
	Hours   int
	Days    int
	Weeks   int
	Months  int
	Years   int

	// Now is the instant retention is computed relative to.
	// The zero Time means the current time when Keep or Delete is called.
	Now time.Time

	// FirstWeekday is the day weeks begin on. Nil means DefaultFirstWeekday.
	FirstWeekday *time.Weekday
}

// Count returns the number of u buckets p keeps.
func (p Policy) Count(u Unit) int {
	switch u {
	case Seconds:
		return p.Seconds
	case Minutes:
		return p.Minutes
	case Hours:
		return p.Hours
	case Days:
		return p.Days
	case Weeks:
		return p.Weeks
	case Months:
		return p.Months
	case Years:
		return p.Years
	}
	return 0
}

// SetCount sets the number of u buckets p keeps.
func (p *Policy) SetCount(u Unit, n int) {
	switch u {
	case Seconds:
		p.Seconds = n
	case Minutes:
		p.Minutes = n
	case Hours:
		p.Hours = n
	case Days:
		p.Days = n
	case Weeks:
		p.Weeks = n
	case Months:
		p.Months = n
	case Years:
		p.Years = n
	}
}

// Options returns the Options p implies for u.
func (p Policy) Options(u Unit) Options {
	return Options{
		Count:        p.Count(u),
		Now:          p.Now,
		FirstWeekday: p.FirstWeekday,
	}
}

// Validate returns a *ConfigError for the first invalid field of p.
func (p Policy) Validate() error {
	for _, u := range Units() {
		if n := p.Count(u); n < 0 {
			return &ConfigError{Field: u.String(), Value: n, Reason: errNegativeCount}
		}
	}
	return validateWeekday(p.FirstWeekday)
}

// MinUnit returns the finest Unit p keeps any buckets of.
// It returns false if every count is zero.
//
// Snapshots should be scheduled at least once per MinUnit,
// otherwise some of the finest buckets will never be filled.
func (p Policy) MinUnit() (Unit, bool) {
	for _, u := range Units() {
		if p.Count(u) > 0 {
			return u, true
		}
	}
	return 0, false
}

// IsZero returns true if p keeps nothing.
func (p Policy) IsZero() bool {
	_, ok := p.MinUnit()
	return !ok
}

// LoadPolicy decodes a YAML policy document from r. Keys are the lowercase
// Unit names plus "first_weekday" and "now". An empty document is the zero Policy.
//
// Example:
//
// 	days: 7
// 	weeks: 4
// 	months: 12
// 	first_weekday: monday
//
func LoadPolicy(r io.Reader) (Policy, error) {
	var p Policy
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err == io.EOF {
		return p, nil
	} else if err != nil {
		return p, err
	}
	if len(doc.Content) == 0 {
		return p, nil
	}
	err := p.decode(doc.Content[0])
	return p, err
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var decoded Policy
	if err := decoded.decode(value); err != nil {
		return err
	}
	*p = decoded
	return nil
}

func (p *Policy) decode(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return &ConfigError{Field: "policy", Value: n.Value, Reason: "must be a mapping"}
	}
	units := make(map[string]Unit, len(Units()))
	for _, u := range Units() {
		units[u.String()] = u
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		if u, ok := units[key]; ok {
			c, err := decodeCount(key, value)
			if err != nil {
				return err
			}
			p.SetCount(u, c)
			continue
		}
		switch key {
		case "first_weekday":
			if value.Kind != yaml.ScalarNode {
				return &ConfigError{Field: key, Value: value.Value, Reason: "must be a weekday"}
			}
			d, err := ptime.ParseWeekday(value.Value)
			if err != nil {
				return &ConfigError{Field: key, Value: value.Value, Reason: err.Error()}
			}
			p.FirstWeekday = WeekStartsOn(d)
		case "now":
			t, err := ptime.Normalize(value.Value)
			if err != nil {
				return &ConfigError{Field: key, Value: value.Value, Reason: err.Error()}
			}
			p.Now = t
		default:
			return &ConfigError{Field: key, Value: value.Value, Reason: "unknown option"}
		}
	}
	return p.Validate()
}

// decodeCount decodes a YAML scalar into a non-negative count.
// Floats are rejected even if they have no fractional part.
func decodeCount(field string, n *yaml.Node) (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, &ConfigError{Field: field, Value: n.Value, Reason: "must be an integer"}
	}
	switch n.ShortTag() {
	case "!!int":
	case "!!float":
		return 0, &ConfigError{Field: field, Value: n.Value, Reason: "must be a whole number"}
	default:
		return 0, &ConfigError{Field: field, Value: n.Value, Reason: "must be an integer"}
	}
	var c int
	if err := n.Decode(&c); err != nil {
		return 0, &ConfigError{Field: field, Value: n.Value, Reason: err.Error()}
	}
	if c < 0 {
		return 0, &ConfigError{Field: field, Value: c, Reason: errNegativeCount}
	}
	return c, nil
}
