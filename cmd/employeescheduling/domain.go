// Command employeescheduling solves the shift-assignment problem: staffing
// a set of shifts with employees subject to skill, availability, rest and
// overlap rules while balancing how evenly assignments spread across the
// roster.
package main

import (
	"sort"
	"time"

	"github.com/gitrdm/gosolve/pkg/solver/model"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Employee is a problem fact: read-only for the whole solve. Unavailable,
// undesired and desired dates are kept both as sets (fast membership test
// from DTO loading) and as sorted slices (what the constraint streams
// iterate, mirroring the Rust quickstart's unavailable_days/undesired_days
// finalize() step).
type Employee struct {
	Index             int
	Name              string
	Skills            map[string]bool
	UnavailableDates  map[civilDate]bool
	UndesiredDates    map[civilDate]bool
	DesiredDates      map[civilDate]bool
	UnavailableDays   []civilDate
	UndesiredDays     []civilDate
	DesiredDays       []civilDate
}

// civilDate is a date with no time-of-day component, used as a map key and
// for equality comparisons against a shift's Date().
type civilDate struct{ Year, Month, Day int }

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{Year: y, Month: int(m), Day: d}
}

// HasSkill reports whether the employee holds the named skill.
func (e *Employee) HasSkill(skill string) bool { return e.Skills[skill] }

// Finalize populates the sorted day slices from the date sets. Must be
// called once after every date has been added, before the employee is used
// in a solve.
func (e *Employee) Finalize() {
	e.UnavailableDays = sortedDates(e.UnavailableDates)
	e.UndesiredDays = sortedDates(e.UndesiredDates)
	e.DesiredDays = sortedDates(e.DesiredDates)
}

func sortedDates(set map[civilDate]bool) []civilDate {
	out := make([]civilDate, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Day < out[j].Day
	})
	return out
}

// Shift is a planning entity: EmployeeIdx is its one basic planning
// variable, an optional index into EmployeeSchedule.Employees.
type Shift struct {
	ID            string
	Start, End    time.Time
	Location      string
	RequiredSkill string

	EmployeeIdx int
	Assigned    bool
}

// Date returns the civil date the shift starts on.
func (s *Shift) Date() civilDate { return dateOf(s.Start) }

// OverlapMinutes returns how many minutes s and other's intervals overlap,
// zero if they don't.
func (s *Shift) OverlapMinutes(other *Shift) float64 {
	start := s.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := s.End
	if other.End.Before(end) {
		end = other.End
	}
	diff := end.Sub(start).Minutes()
	if diff < 0 {
		return 0
	}
	return diff
}

// RestGapMinutes returns the minutes between s and other when they don't
// overlap (ordered by start time), zero when they touch or overlap — the
// "Overlapping shift" constraint penalizes that case instead.
func (s *Shift) RestGapMinutes(other *Shift) float64 {
	first, second := s, other
	if other.Start.Before(s.Start) {
		first, second = other, s
	}
	gap := second.Start.Sub(first.End).Minutes()
	if gap < 0 {
		return 0
	}
	return gap
}

// requiredRestMinutes is the minimum rest period between two shifts worked
// by the same employee.
const requiredRestMinutes = 10 * 60

// RestPenaltyMinutes returns how many minutes short of the required rest
// period s and other leave, zero if the gap already satisfies it or the two
// shifts overlap.
func (s *Shift) RestPenaltyMinutes(other *Shift) float64 {
	if s.OverlapMinutes(other) > 0 {
		return 0
	}
	gap := s.RestGapMinutes(other)
	if gap >= requiredRestMinutes {
		return 0
	}
	return requiredRestMinutes - gap
}

// OverlapsDate reports how many minutes of s fall on day d, zero if none.
func (s *Shift) OverlapsDate(d civilDate) float64 {
	dayStart := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, s.Start.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	start := s.Start
	if dayStart.After(start) {
		start = dayStart
	}
	end := s.End
	if dayEnd.Before(end) {
		end = dayEnd
	}
	diff := end.Sub(start).Minutes()
	if diff < 0 {
		return 0
	}
	return diff
}

// EmployeeSchedule is the planning solution: employees are problem facts,
// shifts are planning entities, score is mutated only by the director.
type EmployeeSchedule struct {
	Employees    []*Employee
	Shifts       []*Shift
	Score        score.HardSoftDecimal
	SolverStatus string
}

func (s *EmployeeSchedule) EntityCount() int    { return len(s.Shifts) }
func (s *EmployeeSchedule) ValueRangeSize() int { return len(s.Employees) }

func (s *EmployeeSchedule) GetValue(entity int) (int, bool) {
	sh := s.Shifts[entity]
	return sh.EmployeeIdx, sh.Assigned
}

func (s *EmployeeSchedule) SetValue(entity, value int, ok bool) {
	sh := s.Shifts[entity]
	sh.EmployeeIdx, sh.Assigned = value, ok
}

var _ model.BasicVariableModel = (*EmployeeSchedule)(nil)
