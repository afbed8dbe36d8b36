package main

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestEmployeeFinalizeSortsDays(t *testing.T) {
	e := &Employee{
		UnavailableDates: map[civilDate]bool{
			{Year: 2026, Month: 3, Day: 10}: true,
			{Year: 2026, Month: 1, Day: 5}:  true,
		},
		UndesiredDates: map[civilDate]bool{},
		DesiredDates:   map[civilDate]bool{},
	}
	e.Finalize()
	if len(e.UnavailableDays) != 2 {
		t.Fatalf("expected 2 unavailable days, got %d", len(e.UnavailableDays))
	}
	if e.UnavailableDays[0] != (civilDate{Year: 2026, Month: 1, Day: 5}) {
		t.Fatalf("expected January date first, got %+v", e.UnavailableDays[0])
	}
}

// TestOverlapMinutesMatchesScenario matches the quickstart's overlap
// scenario: two shifts on the same day overlapping by 4 hours (240 minutes).
func TestOverlapMinutesMatchesScenario(t *testing.T) {
	a := &Shift{Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14)}
	b := &Shift{Start: day(2026, 3, 2, 10), End: day(2026, 3, 2, 18)}
	if got := a.OverlapMinutes(b); got != 240 {
		t.Fatalf("expected 240 overlap minutes, got %v", got)
	}
	if got := b.OverlapMinutes(a); got != 240 {
		t.Fatalf("expected overlap to be symmetric, got %v", got)
	}
}

func TestOverlapMinutesZeroWhenDisjoint(t *testing.T) {
	a := &Shift{Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14)}
	b := &Shift{Start: day(2026, 3, 2, 14), End: day(2026, 3, 2, 22)}
	if got := a.OverlapMinutes(b); got != 0 {
		t.Fatalf("expected 0 overlap minutes for back-to-back shifts, got %v", got)
	}
}

// TestRestPenaltyMinutesMatchesScenario matches the quickstart's rest-gap
// scenario: a shift ending 22:00 day one and the next starting 06:00 day
// two leave an 8 hour gap, 2 hours short of the 10 hour requirement.
func TestRestPenaltyMinutesMatchesScenario(t *testing.T) {
	a := &Shift{Start: day(2026, 3, 2, 14), End: day(2026, 3, 2, 22)}
	b := &Shift{Start: day(2026, 3, 3, 6), End: day(2026, 3, 3, 14)}
	if got := a.RestPenaltyMinutes(b); got != 120 {
		t.Fatalf("expected 120 minute rest penalty, got %v", got)
	}
	if got := b.RestPenaltyMinutes(a); got != 120 {
		t.Fatalf("expected rest penalty to be symmetric, got %v", got)
	}
}

func TestRestPenaltyMinutesZeroWhenRestIsSufficient(t *testing.T) {
	a := &Shift{Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14)}
	b := &Shift{Start: day(2026, 3, 3, 6), End: day(2026, 3, 3, 14)}
	if got := a.RestPenaltyMinutes(b); got != 0 {
		t.Fatalf("expected 0 rest penalty for a 16 hour gap, got %v", got)
	}
}

func TestOverlapsDateSplitsAcrossMidnight(t *testing.T) {
	s := &Shift{Start: day(2026, 3, 2, 22), End: day(2026, 3, 3, 6)}
	d1 := civilDate{Year: 2026, Month: 3, Day: 2}
	d2 := civilDate{Year: 2026, Month: 3, Day: 3}
	if got := s.OverlapsDate(d1); got != 120 {
		t.Fatalf("expected 120 minutes on day 1, got %v", got)
	}
	if got := s.OverlapsDate(d2); got != 360 {
		t.Fatalf("expected 360 minutes on day 2, got %v", got)
	}
}

func TestEmployeeScheduleBasicVariableModel(t *testing.T) {
	sched := &EmployeeSchedule{
		Employees: []*Employee{{Index: 0, Name: "A"}, {Index: 1, Name: "B"}},
		Shifts:    []*Shift{{ID: "s1"}},
	}
	if sched.EntityCount() != 1 || sched.ValueRangeSize() != 2 {
		t.Fatalf("unexpected entity/value counts: %d/%d", sched.EntityCount(), sched.ValueRangeSize())
	}
	sched.SetValue(0, 1, true)
	v, ok := sched.GetValue(0)
	if !ok || v != 1 {
		t.Fatalf("expected value 1 assigned, got %d ok=%v", v, ok)
	}
	sched.SetValue(0, 0, false)
	if _, ok := sched.GetValue(0); ok {
		t.Fatalf("expected shift to be unassigned")
	}
}
