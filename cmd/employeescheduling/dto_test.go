package main

import "testing"

func TestScheduleDTORoundTrip(t *testing.T) {
	sched := &EmployeeSchedule{
		Employees: []*Employee{
			{Index: 0, Name: "Amy", Skills: map[string]bool{"Doctor": true}},
			{Index: 1, Name: "Beth", Skills: map[string]bool{"Nurse": true}},
		},
		Shifts: []*Shift{
			{ID: "s1", Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14), RequiredSkill: "Doctor", EmployeeIdx: 0, Assigned: true},
			{ID: "s2", Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14), RequiredSkill: "Nurse"},
		},
		SolverStatus: "NOT_SOLVING",
	}
	for _, e := range sched.Employees {
		e.Finalize()
	}

	dto := scheduleToDTO(sched)
	if len(dto.Shifts) != 2 {
		t.Fatalf("expected 2 shifts in dto, got %d", len(dto.Shifts))
	}
	if dto.Shifts[0].Employee == nil || dto.Shifts[0].Employee.Name != "Amy" {
		t.Fatalf("expected first shift's employee to be Amy, got %+v", dto.Shifts[0].Employee)
	}
	if dto.Shifts[1].Employee != nil {
		t.Fatalf("expected second shift to be unassigned in dto")
	}

	back, err := dto.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if len(back.Shifts) != 2 || !back.Shifts[0].Assigned || back.Shifts[0].EmployeeIdx != 0 {
		t.Fatalf("expected round-tripped first shift assigned to employee 0, got %+v", back.Shifts[0])
	}
	if back.Shifts[1].Assigned {
		t.Fatalf("expected round-tripped second shift to stay unassigned")
	}
}

func TestScheduleDTORejectsUnknownEmployeeName(t *testing.T) {
	dto := ScheduleDTO{
		Employees: []EmployeeDTO{{Name: "Amy", Skills: []string{"Doctor"}}},
		Shifts: []ShiftDTO{
			{ID: "s1", Start: day(2026, 3, 2, 6), End: day(2026, 3, 2, 14), Employee: &EmployeeDTO{Name: "Ghost"}},
		},
	}
	if _, err := dto.toDomain(); err == nil {
		t.Fatalf("expected an error for a shift referencing an unknown employee")
	}
}
