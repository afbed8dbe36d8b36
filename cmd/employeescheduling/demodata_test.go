package main

import "testing"

func TestGenerateDemoDataSmall(t *testing.T) {
	sched, err := GenerateDemoData(DemoSmall)
	if err != nil {
		t.Fatalf("GenerateDemoData: %v", err)
	}
	if len(sched.Employees) != 15 {
		t.Fatalf("expected 15 employees, got %d", len(sched.Employees))
	}
	if len(sched.Shifts) < 100 {
		t.Fatalf("expected at least 100 shifts, got %d", len(sched.Shifts))
	}
	for _, e := range sched.Employees {
		if len(e.Skills) == 0 {
			t.Fatalf("employee %s has no skills", e.Name)
		}
	}
	for _, s := range sched.Shifts {
		if s.Assigned {
			t.Fatalf("demo data shift %s should start unassigned", s.ID)
		}
	}
}

func TestGenerateDemoDataLarge(t *testing.T) {
	sched, err := GenerateDemoData(DemoLarge)
	if err != nil {
		t.Fatalf("GenerateDemoData: %v", err)
	}
	if len(sched.Employees) != 50 {
		t.Fatalf("expected 50 employees, got %d", len(sched.Employees))
	}
	if len(sched.Shifts) < 500 {
		t.Fatalf("expected at least 500 shifts, got %d", len(sched.Shifts))
	}
}

func TestGenerateDemoDataIsReproducible(t *testing.T) {
	a, err := GenerateDemoData(DemoSmall)
	if err != nil {
		t.Fatalf("GenerateDemoData: %v", err)
	}
	b, err := GenerateDemoData(DemoSmall)
	if err != nil {
		t.Fatalf("GenerateDemoData: %v", err)
	}
	if len(a.Employees) != len(b.Employees) || len(a.Shifts) != len(b.Shifts) {
		t.Fatalf("expected identical dataset sizes across calls")
	}
	for i := range a.Employees {
		if a.Employees[i].Name != b.Employees[i].Name {
			t.Fatalf("expected identical employee names at index %d, got %q vs %q", i, a.Employees[i].Name, b.Employees[i].Name)
		}
	}
}

func TestGenerateDemoDataRejectsUnknownDataset(t *testing.T) {
	if _, err := GenerateDemoData("MEDIUM"); err == nil {
		t.Fatalf("expected an error for an unknown dataset")
	}
}
