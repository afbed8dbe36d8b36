package main

import (
	"fmt"

	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// vehicleConstraint is shared scaffolding for the three hand-written
// scoring rules below. Unlike the stream-DSL constraints employee
// scheduling uses, vehicle routing's constraints read a whole vehicle's
// route directly off the plan — there is no tuple join to maintain, only
// a per-vehicle running contribution recomputed on Before/After.
type vehicleConstraint struct {
	name       string
	hard       bool
	perVehicle func(plan *VehicleRoutePlan, vehicleIdx int) (score.HardSoft, string)

	scores []score.HardSoft
	just   []string
	total  score.HardSoft
}

func newVehicleConstraint(name string, hard bool, f func(plan *VehicleRoutePlan, vehicleIdx int) (score.HardSoft, string)) *vehicleConstraint {
	return &vehicleConstraint{name: name, hard: hard, perVehicle: f}
}

func (c *vehicleConstraint) Name() string { return c.name }
func (c *vehicleConstraint) IsHard() bool { return c.hard }

func (c *vehicleConstraint) FullRecompute(plan *VehicleRoutePlan) score.HardSoft {
	c.scores = make([]score.HardSoft, len(plan.Vehicles))
	c.just = make([]string, len(plan.Vehicles))
	var total score.HardSoft
	for i := range plan.Vehicles {
		s, j := c.perVehicle(plan, i)
		c.scores[i], c.just[i] = s, j
		total = total.Add(s)
	}
	c.total = total
	return total
}

func (c *vehicleConstraint) Before(plan *VehicleRoutePlan, entity int) {
	if entity < 0 || entity >= len(c.scores) {
		return
	}
	c.total = c.total.Subtract(c.scores[entity])
}

func (c *vehicleConstraint) After(plan *VehicleRoutePlan, entity int) {
	if entity < 0 || entity >= len(plan.Vehicles) {
		return
	}
	for len(c.scores) <= entity {
		c.scores = append(c.scores, score.HardSoft{})
		c.just = append(c.just, "")
	}
	s, j := c.perVehicle(plan, entity)
	c.scores[entity], c.just[entity] = s, j
	c.total = c.total.Add(s)
}

func (c *vehicleConstraint) Score() score.HardSoft { return c.total }

func (c *vehicleConstraint) DetailedMatches(plan *VehicleRoutePlan) []constraint.Match[score.HardSoft] {
	matches := make([]constraint.Match[score.HardSoft], 0, len(plan.Vehicles))
	for i := range plan.Vehicles {
		s, j := c.perVehicle(plan, i)
		if s.Hard == 0 && s.Soft == 0 {
			continue
		}
		matches = append(matches, constraint.Match[score.HardSoft]{Score: s, Justification: j})
	}
	return matches
}

var _ constraint.Constraint[*VehicleRoutePlan, score.HardSoft] = (*vehicleConstraint)(nil)

// vehicleCapacityConstraint penalizes a vehicle whose assigned visits'
// total demand exceeds its capacity, one hard point per unit over.
func vehicleCapacityConstraint() *vehicleConstraint {
	return newVehicleConstraint("Vehicle capacity", true, func(plan *VehicleRoutePlan, vehicleIdx int) (score.HardSoft, string) {
		v := plan.Vehicles[vehicleIdx]
		var demand int
		for _, idx := range v.Visits {
			demand += plan.Visits[idx].Demand
		}
		if demand <= v.Capacity {
			return score.HardSoft{}, ""
		}
		over := int64(demand - v.Capacity)
		return score.HardSoft{Hard: -over}, fmt.Sprintf("vehicle %s demand %d exceeds capacity %d by %d", v.Name, demand, v.Capacity, over)
	})
}

// lateMinutes walks a vehicle's route exactly as CalculateRouteTimes does,
// returning the total whole minutes every stop finishes past its
// max_end_time, rounded up per stop the way the source's
// calculate_late_minutes_for_vehicle does ((late_seconds + 59) / 60).
func lateMinutes(plan *VehicleRoutePlan, vehicleIdx int) int64 {
	v := plan.Vehicles[vehicleIdx]
	if len(v.Visits) == 0 {
		return 0
	}
	var total int64
	for _, timing := range plan.CalculateRouteTimes(vehicleIdx) {
		visit := plan.Visits[timing.VisitIdx]
		if timing.Departure > visit.MaxEndTime {
			lateSeconds := timing.Departure - visit.MaxEndTime
			total += (lateSeconds + 59) / 60
		}
	}
	return total
}

// timeWindowConstraint penalizes a vehicle whose route serves any visit
// after that visit's max_end_time, one hard point per late minute.
func timeWindowConstraint() *vehicleConstraint {
	return newVehicleConstraint("Visit time window", true, func(plan *VehicleRoutePlan, vehicleIdx int) (score.HardSoft, string) {
		late := lateMinutes(plan, vehicleIdx)
		if late == 0 {
			return score.HardSoft{}, ""
		}
		v := plan.Vehicles[vehicleIdx]
		return score.HardSoft{Hard: -late}, fmt.Sprintf("vehicle %s finishes %d minute(s) late across its route", v.Name, late)
	})
}

// minimizeTravelTimeConstraint softly penalizes every minute of driving a
// vehicle's route requires, rewarding shorter routes.
func minimizeTravelTimeConstraint() *vehicleConstraint {
	return newVehicleConstraint("Minimize travel time", false, func(plan *VehicleRoutePlan, vehicleIdx int) (score.HardSoft, string) {
		seconds := plan.TotalDrivingTime(vehicleIdx)
		if seconds == 0 {
			return score.HardSoft{}, ""
		}
		minutes := seconds / 60
		v := plan.Vehicles[vehicleIdx]
		return score.HardSoft{Soft: -minutes}, fmt.Sprintf("vehicle %s drives %d minute(s)", v.Name, minutes)
	})
}

func buildConstraints() *constraint.Set[*VehicleRoutePlan, score.HardSoft] {
	return constraint.NewSet[*VehicleRoutePlan, score.HardSoft](
		vehicleCapacityConstraint(),
		timeWindowConstraint(),
		minimizeTravelTimeConstraint(),
	)
}
