// Package shiftgen expands a roster date range and a named shift template
// into concrete shift records.
package shiftgen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/mhollins/dutyroster/pkg/core/model"
)

// Entry is one recurring shift definition within a template
type Entry struct {
	Label    string
	Start    string // clock time, "15:04"
	End      string
	Kind     model.ShiftKind
	Required int

	// Overnight marks entries whose end time falls on the next day
	Overnight bool

	// RRule optionally restricts which dates in the range this entry
	// applies to (e.g. "FREQ=WEEKLY;BYDAY=SA,SU" for weekend-only cover)
	RRule string
}

// Template is a named set of shift entries applied across a date range.
// Whether weekends are skipped is a property of the template, not of the
// generator: the caller must set it explicitly per template.
type Template struct {
	Name         string
	SkipWeekends bool
	Entries      []Entry
}

// BuiltinTemplates returns the stock templates shipped with the engine.
// Callers normally load templates from configuration; these cover rosters
// that have none.
func BuiltinTemplates() map[string]Template {
	return map[string]Template{
		"standard": {
			Name:         "standard",
			SkipWeekends: true,
			Entries: []Entry{
				{Label: "Day", Start: "09:00", End: "17:00", Kind: model.KindDay, Required: 2},
				{Label: "Night", Start: "21:00", End: "07:00", Kind: model.KindNight, Required: 1, Overnight: true},
			},
		},
		"24hour": {
			Name: "24hour",
			Entries: []Entry{
				{Label: "Early", Start: "07:00", End: "15:00", Kind: model.KindDay, Required: 2},
				{Label: "Late", Start: "15:00", End: "23:00", Kind: model.KindEvening, Required: 2},
				{Label: "Night", Start: "23:00", End: "07:00", Kind: model.KindNight, Required: 1, Overnight: true},
			},
		},
		"weekend": {
			Name: "weekend",
			Entries: []Entry{
				{Label: "Weekend day", Start: "09:00", End: "17:00", Kind: model.KindWeekend,
					Required: 2, RRule: "FREQ=WEEKLY;BYDAY=SA,SU"},
			},
		},
	}
}

// Generate produces one shift per (applicable date, template entry) pair
// across the inclusive date range. It is a pure function of its inputs
// apart from the generated shift IDs.
func Generate(start, end time.Time, tmpl Template) ([]model.Shift, error) {
	start = midnight(start)
	end = midnight(end)

	if end.Before(start) {
		return nil, fmt.Errorf("invalid date range: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if len(tmpl.Entries) == 0 {
		return nil, fmt.Errorf("template %q has no shift entries", tmpl.Name)
	}

	type compiled struct {
		entry      Entry
		startClock time.Time
		endClock   time.Time
		dates      map[string]bool // nil means every date applies
	}

	entries := make([]compiled, 0, len(tmpl.Entries))
	for i, e := range tmpl.Entries {
		if e.Required < 1 {
			return nil, fmt.Errorf("template %q entry %d: required headcount must be at least 1", tmpl.Name, i)
		}
		sc, err := time.Parse("15:04", e.Start)
		if err != nil {
			return nil, fmt.Errorf("template %q entry %d: bad start time %q: %w", tmpl.Name, i, e.Start, err)
		}
		ec, err := time.Parse("15:04", e.End)
		if err != nil {
			return nil, fmt.Errorf("template %q entry %d: bad end time %q: %w", tmpl.Name, i, e.End, err)
		}
		if !e.Overnight && !ec.After(sc) {
			return nil, fmt.Errorf("template %q entry %d: end %q not after start %q on a non-overnight shift",
				tmpl.Name, i, e.End, e.Start)
		}

		c := compiled{entry: e, startClock: sc, endClock: ec}
		if e.RRule != "" {
			rule, err := rrule.StrToRRule(e.RRule)
			if err != nil {
				return nil, fmt.Errorf("template %q entry %d: invalid rrule: %w", tmpl.Name, i, err)
			}
			rule.DTStart(start)
			c.dates = make(map[string]bool)
			for _, occ := range rule.Between(start, end.AddDate(0, 0, 1), true) {
				c.dates[occ.Format("2006-01-02")] = true
			}
		}
		entries = append(entries, c)
	}

	var shifts []model.Shift
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if tmpl.SkipWeekends && isWeekend(date) {
			continue
		}
		for _, c := range entries {
			if c.dates != nil && !c.dates[date.Format("2006-01-02")] {
				continue
			}
			shifts = append(shifts, model.Shift{
				ID:        uuid.New().String(),
				Date:      date,
				Start:     c.startClock,
				End:       c.endClock,
				Overnight: c.entry.Overnight,
				Kind:      c.entry.Kind,
				Required:  c.entry.Required,
			})
		}
	}

	return shifts, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
