package main

import (
	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
	"github.com/gitrdm/gosolve/pkg/solver/stream"
)

// assignKey groups shifts by their planning variable the way Rust's
// Option<usize> equality join does: every unassigned shift shares one
// bucket (None == None) while assigned shifts bucket by employee index.
// Filters on the resulting pairs still require both sides assigned before
// scoring, so the shared "unassigned" bucket never contributes a match.
type assignKey struct {
	idx int
	ok  bool
}

func employeeKey(s *Shift) assignKey {
	if !s.Assigned {
		return assignKey{idx: -1, ok: false}
	}
	return assignKey{idx: s.EmployeeIdx, ok: true}
}

// dayKey additionally buckets by calendar date, for the one-shift-per-day
// constraint.
type dayKey struct {
	assignKey
	date civilDate
}

func employeeDayKey(s *Shift) dayKey {
	return dayKey{assignKey: employeeKey(s), date: s.Date()}
}

func shifts(sched *EmployeeSchedule) []*Shift       { return sched.Shifts }
func employees(sched *EmployeeSchedule) []*Employee { return sched.Employees }

func shiftEmployeeIdx(s *Shift) int { return s.EmployeeIdx }
func shiftAssigned(s *Shift) bool   { return s.Assigned }

// requiredSkillConstraint penalizes a shift assigned to an employee who
// lacks its required skill.
func requiredSkillConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	joined := stream.Join(stream.ForEach(shifts), employees, shiftEmployeeIdx, shiftAssigned).
		Filter(func(s *Shift, e *Employee) bool { return !e.HasSkill(s.RequiredSkill) })
	return stream.AsConstraintBi(joined, "Required skill", true,
		func(s *Shift, e *Employee) score.HardSoftDecimal { return score.OneHardDecimal.Negate() },
		func(s *Shift, e *Employee) string {
			return stream.Justf("%s requires %s but %s lacks it", s.ID, s.RequiredSkill, e.Name)
		})
}

// overlappingShiftConstraint penalizes two shifts worked by the same
// employee whose intervals overlap, scaled by the number of overlapping
// minutes.
func overlappingShiftConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	pair := stream.ForEachUniquePair(shifts, employeeKey).
		Filter(func(a, b *Shift) bool { return a.Assigned && a.OverlapMinutes(b) > 0 })
	return stream.AsConstraintPair(pair, "Overlapping shift", true,
		func(a, b *Shift) score.HardSoftDecimal {
			minutes := a.OverlapMinutes(b)
			return score.OfHardScaled(-int64(minutes * float64(score.DecimalScale)))
		},
		func(a, b *Shift) string { return stream.Justf("%s and %s overlap", a.ID, b.ID) })
}

// restBetweenShiftsConstraint penalizes two shifts worked by the same
// employee that leave less than the required rest period between them.
func restBetweenShiftsConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	pair := stream.ForEachUniquePair(shifts, employeeKey).
		Filter(func(a, b *Shift) bool { return a.Assigned && a.RestPenaltyMinutes(b) > 0 })
	return stream.AsConstraintPair(pair, "At least 10 hours between 2 shifts", true,
		func(a, b *Shift) score.HardSoftDecimal {
			minutes := a.RestPenaltyMinutes(b)
			return score.OfHardScaled(-int64(minutes * float64(score.DecimalScale)))
		},
		func(a, b *Shift) string { return stream.Justf("%s and %s leave too little rest", a.ID, b.ID) })
}

// onePerDayConstraint penalizes an employee assigned to more than one shift
// on the same calendar date.
func onePerDayConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	pair := stream.ForEachUniquePair(shifts, employeeDayKey).
		Filter(func(a, b *Shift) bool { return a.Assigned && b.Assigned })
	return stream.AsConstraintPair(pair, "One shift per day", true,
		func(a, b *Shift) score.HardSoftDecimal { return score.OneHardDecimal.Negate() },
		func(a, b *Shift) string { return stream.Justf("%s and %s fall on the same day", a.ID, b.ID) })
}

// unavailableEmployeeConstraint penalizes a shift assigned to an employee
// on a date that employee marked unavailable, scaled by how many minutes of
// the shift fall on that date.
func unavailableEmployeeConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	flat := stream.FlattenLast(
		stream.Join(stream.ForEach(shifts), employees, shiftEmployeeIdx, shiftAssigned),
		func(e *Employee) []civilDate { return e.UnavailableDays },
	).Filter(func(s *Shift, d civilDate) bool { return s.Assigned && s.OverlapsDate(d) > 0 })
	return stream.AsConstraintBi(flat, "Unavailable employee", true,
		func(s *Shift, d civilDate) score.HardSoftDecimal {
			return score.OfHardScaled(-int64(s.OverlapsDate(d) * float64(score.DecimalScale)))
		},
		func(s *Shift, d civilDate) string { return stream.Justf("%s falls on an unavailable day", s.ID) })
}

// undesiredDayConstraint softly penalizes a shift assigned to an employee on
// a date that employee marked undesired.
func undesiredDayConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	flat := stream.FlattenLast(
		stream.Join(stream.ForEach(shifts), employees, shiftEmployeeIdx, shiftAssigned),
		func(e *Employee) []civilDate { return e.UndesiredDays },
	).Filter(func(s *Shift, d civilDate) bool { return s.Assigned && s.OverlapsDate(d) > 0 })
	return stream.AsConstraintBi(flat, "Undesired day for employee", false,
		func(s *Shift, d civilDate) score.HardSoftDecimal { return score.OneSoftDecimal.Negate() },
		func(s *Shift, d civilDate) string { return stream.Justf("%s falls on an undesired day", s.ID) })
}

// desiredDayConstraint softly rewards a shift assigned to an employee on a
// date that employee marked desired.
func desiredDayConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	flat := stream.FlattenLast(
		stream.Join(stream.ForEach(shifts), employees, shiftEmployeeIdx, shiftAssigned),
		func(e *Employee) []civilDate { return e.DesiredDays },
	).Filter(func(s *Shift, d civilDate) bool { return s.Assigned && s.OverlapsDate(d) > 0 })
	return stream.AsConstraintBi(flat, "Desired day for employee", false,
		func(s *Shift, d civilDate) score.HardSoftDecimal { return score.OneSoftDecimal },
		func(s *Shift, d civilDate) string { return stream.Justf("%s falls on a desired day", s.ID) })
}

// assignedShifts returns only assigned shifts, so the balance constraint
// never counts the "unassigned" bucket as a group of its own.
func assignedShifts(sched *EmployeeSchedule) []*Shift {
	out := make([]*Shift, 0, len(sched.Shifts))
	for _, s := range sched.Shifts {
		if s.Assigned {
			out = append(out, s)
		}
	}
	return out
}

// balanceAssignmentsConstraint softly penalizes an uneven spread of shift
// counts across employees, proportional to the standard deviation of group
// sizes.
func balanceAssignmentsConstraint() constraint.Constraint[*EmployeeSchedule, score.HardSoftDecimal] {
	bal := stream.ForBalance(assignedShifts, shiftEmployeeIdx)
	return stream.AsConstraintBalance(bal, "Balance employee assignments",
		func(stdDev float64) score.HardSoftDecimal {
			return score.OfSoftScaled(-int64(stdDev * float64(score.DecimalScale)))
		})
}

// buildConstraints assembles the full constraint set for employee
// scheduling, in the same order the quickstart reports them.
func buildConstraints() *constraint.Set[*EmployeeSchedule, score.HardSoftDecimal] {
	return constraint.NewSet[*EmployeeSchedule, score.HardSoftDecimal](
		requiredSkillConstraint(),
		overlappingShiftConstraint(),
		restBetweenShiftsConstraint(),
		onePerDayConstraint(),
		unavailableEmployeeConstraint(),
		undesiredDayConstraint(),
		desiredDayConstraint(),
		balanceAssignmentsConstraint(),
	)
}
