package main

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DemoDataset names one of the two bundled demo dataset sizes.
type DemoDataset string

const (
	DemoSmall DemoDataset = "SMALL"
	DemoLarge DemoDataset = "LARGE"
)

// ListDemoDatasets returns the names accepted by GenerateDemoData.
func ListDemoDatasets() []string { return []string{string(DemoSmall), string(DemoLarge)} }

type demoParameters struct {
	locations       []string
	requiredSkills  []string
	optionalSkills  []string
	days            int
	employeeCount   int
	shiftsPerSlot   []int // weighted distribution: how many shifts to generate per location/timeslot
}

func parametersFor(d DemoDataset) demoParameters {
	switch d {
	case DemoLarge:
		return demoParameters{
			locations:      []string{"Ambulatory care", "Critical care", "Pediatric care", "Geriatric care", "Emergency", "Maternity", "Oncology"},
			requiredSkills: []string{"Doctor", "Nurse"},
			optionalSkills: []string{"Anaesthetics", "Cardiology", "Radiology"},
			days:           28,
			employeeCount:  50,
			shiftsPerSlot:  []int{1, 1, 2, 2, 2, 3},
		}
	default:
		return demoParameters{
			locations:      []string{"Ambulatory care", "Critical care", "Pediatric care"},
			requiredSkills: []string{"Doctor", "Nurse"},
			optionalSkills: []string{"Anaesthetics", "Cardiology"},
			days:           14,
			employeeCount:  15,
			shiftsPerSlot:  []int{1, 1, 2, 2, 3},
		}
	}
}

var firstNames = []string{"Amy", "Beth", "Carl", "Dana", "Evan", "Fay", "Gus", "Hana", "Ivan", "Jill"}
var lastNames = []string{"Adams", "Brown", "Cole", "Diaz", "Ellis", "Frost", "Gray", "Hall", "Irwin", "James"}

// shiftTemplates are the start times a location offers per day, cycling
// through three coverage patterns the way the quickstart's demo generator
// does: a two-shift day, a three-shift day and a four-shift day.
var shiftTemplates = [][]int{
	{6, 14},
	{6, 14, 22},
	{0, 6, 12, 18},
}

func pickCount(rng *rand.Rand, distribution []int) int {
	return distribution[rng.IntN(len(distribution))]
}

func generateNamePermutations(rng *rand.Rand, n int) []string {
	type pair struct{ first, last string }
	all := make([]pair, 0, len(firstNames)*len(lastNames))
	for _, f := range firstNames {
		for _, l := range lastNames {
			all = append(all, pair{f, l})
		}
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n > len(all) {
		n = len(all)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("%s %s", all[i].first, all[i].last)
	}
	return out
}

func generateEmployees(rng *rand.Rand, p demoParameters) []*Employee {
	names := generateNamePermutations(rng, p.employeeCount)
	employees := make([]*Employee, p.employeeCount)
	scheduleStart := findNextMonday(time.Now())

	for i := 0; i < p.employeeCount; i++ {
		skills := map[string]bool{
			p.requiredSkills[rng.IntN(len(p.requiredSkills))]: true,
		}
		// each employee has a 50% chance per optional skill of holding it
		for _, s := range p.optionalSkills {
			if rng.IntN(2) == 0 {
				skills[s] = true
			}
		}
		e := &Employee{
			Index:            i,
			Name:             names[i],
			Skills:           skills,
			UnavailableDates: map[civilDate]bool{},
			UndesiredDates:   map[civilDate]bool{},
			DesiredDates:     map[civilDate]bool{},
		}
		employees[i] = e
	}

	// scatter a handful of availability preferences across the schedule
	// horizon: on roughly a third of days, a random employee gets an
	// unavailable, undesired or desired mark for that date.
	for day := 0; day < p.days; day++ {
		date := dateOf(scheduleStart.AddDate(0, 0, day))
		if rng.IntN(3) != 0 {
			continue
		}
		e := employees[rng.IntN(len(employees))]
		switch rng.IntN(3) {
		case 0:
			e.UnavailableDates[date] = true
		case 1:
			e.UndesiredDates[date] = true
		case 2:
			e.DesiredDates[date] = true
		}
	}
	for _, e := range employees {
		e.Finalize()
	}
	return employees
}

func generateShifts(rng *rand.Rand, p demoParameters, employees []*Employee) []*Shift {
	scheduleStart := findNextMonday(time.Now())
	var out []*Shift
	seq := 0
	for day := 0; day < p.days; day++ {
		date := scheduleStart.AddDate(0, 0, day)
		for _, loc := range p.locations {
			template := shiftTemplates[day%len(shiftTemplates)]
			for _, startHour := range template {
				count := pickCount(rng, p.shiftsPerSlot)
				for n := 0; n < count; n++ {
					skill := p.requiredSkills[rng.IntN(len(p.requiredSkills))]
					if rng.IntN(2) == 0 && len(p.optionalSkills) > 0 {
						skill = p.optionalSkills[rng.IntN(len(p.optionalSkills))]
					}
					start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, time.UTC)
					end := start.Add(8 * time.Hour)
					seq++
					out = append(out, &Shift{
						ID:            fmt.Sprintf("shift-%d", seq),
						Start:         start,
						End:           end,
						Location:      loc,
						RequiredSkill: skill,
						Assigned:      false,
					})
				}
			}
		}
	}
	return out
}

func findNextMonday(from time.Time) time.Time {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for from.Weekday() != time.Monday {
		from = from.AddDate(0, 0, 1)
	}
	return from
}

// GenerateDemoData builds a fresh, fully unassigned schedule for the named
// dataset, using a fixed seed so repeated calls return the same instance —
// demo data is meant to be reproducible across server restarts, not random
// each time.
func GenerateDemoData(dataset DemoDataset) (*EmployeeSchedule, error) {
	p, ok := demoParametersOrNil(dataset)
	if !ok {
		return nil, fmt.Errorf("unknown demo dataset %q", dataset)
	}
	rng := rand.New(rand.NewPCG(0, 0))
	employees := generateEmployees(rng, p)
	sched := &EmployeeSchedule{
		Employees:    employees,
		Shifts:       generateShifts(rng, p, employees),
		SolverStatus: "NOT_SOLVING",
	}
	return sched, nil
}

func demoParametersOrNil(d DemoDataset) (demoParameters, bool) {
	switch d {
	case DemoSmall, DemoLarge:
		return parametersFor(d), true
	default:
		return demoParameters{}, false
	}
}
