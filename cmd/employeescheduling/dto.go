package main

import (
	"fmt"
	"time"

	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

const civilDateLayout = "2006-01-02"

func civilDateString(d civilDate) string {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Format(civilDateLayout)
}

func parseCivilDate(s string) (civilDate, error) {
	t, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return civilDate{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return dateOf(t), nil
}

// EmployeeDTO is the wire shape of Employee.
type EmployeeDTO struct {
	Name              string   `json:"name"`
	Skills            []string `json:"skills"`
	UnavailableDates  []string `json:"unavailableDates"`
	UndesiredDates    []string `json:"undesiredDates"`
	DesiredDates      []string `json:"desiredDates"`
}

func employeeToDTO(e *Employee) EmployeeDTO {
	skills := make([]string, 0, len(e.Skills))
	for s := range e.Skills {
		skills = append(skills, s)
	}
	dates := func(days []civilDate) []string {
		out := make([]string, len(days))
		for i, d := range days {
			out[i] = civilDateString(d)
		}
		return out
	}
	return EmployeeDTO{
		Name:             e.Name,
		Skills:           skills,
		UnavailableDates: dates(e.UnavailableDays),
		UndesiredDates:   dates(e.UndesiredDays),
		DesiredDates:     dates(e.DesiredDays),
	}
}

func (dto EmployeeDTO) toEmployee(index int) (*Employee, error) {
	e := &Employee{
		Index:            index,
		Name:             dto.Name,
		Skills:           map[string]bool{},
		UnavailableDates: map[civilDate]bool{},
		UndesiredDates:   map[civilDate]bool{},
		DesiredDates:     map[civilDate]bool{},
	}
	for _, s := range dto.Skills {
		e.Skills[s] = true
	}
	fill := func(raw []string, into map[civilDate]bool) error {
		for _, s := range raw {
			d, err := parseCivilDate(s)
			if err != nil {
				return err
			}
			into[d] = true
		}
		return nil
	}
	if err := fill(dto.UnavailableDates, e.UnavailableDates); err != nil {
		return nil, err
	}
	if err := fill(dto.UndesiredDates, e.UndesiredDates); err != nil {
		return nil, err
	}
	if err := fill(dto.DesiredDates, e.DesiredDates); err != nil {
		return nil, err
	}
	e.Finalize()
	return e, nil
}

// ShiftDTO is the wire shape of Shift. It embeds the full employee object
// rather than an index, matching how the quickstart's REST payloads carry
// shifts — the client never needs to know internal employee indices.
type ShiftDTO struct {
	ID            string       `json:"id"`
	Start         time.Time    `json:"start"`
	End           time.Time    `json:"end"`
	Location      string       `json:"location"`
	RequiredSkill string       `json:"requiredSkill"`
	Employee      *EmployeeDTO `json:"employee"`
}

func shiftToDTO(s *Shift, employees []*Employee) ShiftDTO {
	dto := ShiftDTO{
		ID:            s.ID,
		Start:         s.Start,
		End:           s.End,
		Location:      s.Location,
		RequiredSkill: s.RequiredSkill,
	}
	if s.Assigned && s.EmployeeIdx >= 0 && s.EmployeeIdx < len(employees) {
		e := employeeToDTO(employees[s.EmployeeIdx])
		dto.Employee = &e
	}
	return dto
}

// ScheduleDTO is the wire shape of EmployeeSchedule.
type ScheduleDTO struct {
	Employees    []EmployeeDTO `json:"employees"`
	Shifts       []ShiftDTO    `json:"shifts"`
	Score        *string       `json:"score,omitempty"`
	SolverStatus string        `json:"solverStatus"`
}

func scheduleToDTO(sched *EmployeeSchedule) ScheduleDTO {
	employeeDTOs := make([]EmployeeDTO, len(sched.Employees))
	for i, e := range sched.Employees {
		employeeDTOs[i] = employeeToDTO(e)
	}
	shiftDTOs := make([]ShiftDTO, len(sched.Shifts))
	for i, s := range sched.Shifts {
		shiftDTOs[i] = shiftToDTO(s, sched.Employees)
	}
	str := sched.Score.String()
	return ScheduleDTO{
		Employees:    employeeDTOs,
		Shifts:       shiftDTOs,
		Score:        &str,
		SolverStatus: sched.SolverStatus,
	}
}

// toDomain resolves each shift's embedded employee back into an index by
// matching on the employee's name, mirroring the Rust quickstart's
// name_to_idx lookup.
func (dto ScheduleDTO) toDomain() (*EmployeeSchedule, error) {
	employees := make([]*Employee, len(dto.Employees))
	nameToIdx := map[string]int{}
	for i, edto := range dto.Employees {
		e, err := edto.toEmployee(i)
		if err != nil {
			return nil, err
		}
		employees[i] = e
		nameToIdx[e.Name] = i
	}
	shifts := make([]*Shift, len(dto.Shifts))
	for i, sdto := range dto.Shifts {
		s := &Shift{
			ID:            sdto.ID,
			Start:         sdto.Start,
			End:           sdto.End,
			Location:      sdto.Location,
			RequiredSkill: sdto.RequiredSkill,
		}
		if sdto.Employee != nil {
			idx, ok := nameToIdx[sdto.Employee.Name]
			if !ok {
				return nil, fmt.Errorf("shift %s references unknown employee %q", s.ID, sdto.Employee.Name)
			}
			s.EmployeeIdx, s.Assigned = idx, true
		}
		shifts[i] = s
	}
	return &EmployeeSchedule{Employees: employees, Shifts: shifts, SolverStatus: dto.SolverStatus}, nil
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse is the /info payload.
type InfoResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	SolverEngine string `json:"solverEngine"`
}

// StatusResponse is the /schedules/{id}/status payload.
type StatusResponse struct {
	Score  *string `json:"score,omitempty"`
	Status string  `json:"solverStatus"`
}

// ConstraintMatchDTO is one live match within a constraint's breakdown.
type ConstraintMatchDTO struct {
	Score         string `json:"score"`
	Justification string `json:"justification"`
}

// ConstraintAnalysisDTO is one constraint's full breakdown.
type ConstraintAnalysisDTO struct {
	Name    string                `json:"name"`
	Type    string                `json:"type"`
	Score   string                `json:"score"`
	Matches []ConstraintMatchDTO `json:"matches"`
}

// AnalyzeResponse is the /schedules/analyze payload.
type AnalyzeResponse struct {
	Score       string                  `json:"score"`
	Constraints []ConstraintAnalysisDTO `json:"constraints"`
}

func analyzeResponseFromBreakdown(total score.HardSoftDecimal, breakdown []constraint.Breakdown[score.HardSoftDecimal]) AnalyzeResponse {
	constraints := make([]ConstraintAnalysisDTO, len(breakdown))
	for i, b := range breakdown {
		matches := make([]ConstraintMatchDTO, len(b.Matches))
		for j, m := range b.Matches {
			matches[j] = ConstraintMatchDTO{Score: m.Score.String(), Justification: m.Justification}
		}
		kind := "SOFT"
		if b.IsHard {
			kind = "HARD"
		}
		constraints[i] = ConstraintAnalysisDTO{Name: b.Name, Type: kind, Score: b.Score.String(), Matches: matches}
	}
	return AnalyzeResponse{Score: total.String(), Constraints: constraints}
}
