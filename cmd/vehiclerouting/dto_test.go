package main

import "testing"

// TestRoundTripPreservesLocationIndices checks the property toDomain's doc
// comment promises: converting a plan to its wire shape and back leaves
// every locationIdx and homeLocationIdx exactly where it started, even
// though locations never travel as their own list.
func TestRoundTripPreservesLocationIndices(t *testing.T) {
	plan := newPlan()
	dto := planToDTO(plan, "NOT_SOLVING")

	back, err := dto.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range plan.Visits {
		if back.Visits[i].Location.Index != v.Location.Index {
			t.Fatalf("visit %d locationIdx changed: got %d want %d", i, back.Visits[i].Location.Index, v.Location.Index)
		}
	}
	for i, v := range plan.Vehicles {
		if back.Vehicles[i].HomeLocation.Index != v.HomeLocation.Index {
			t.Fatalf("vehicle %d homeLocationIdx changed: got %d want %d", i, back.Vehicles[i].HomeLocation.Index, v.HomeLocation.Index)
		}
	}
}

func TestRoundTripPreservesVehicleVisitOrder(t *testing.T) {
	plan := newPlan()
	dto := planToDTO(plan, "NOT_SOLVING")

	back, err := dto.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := make([]string, len(plan.Vehicles[0].Visits))
	for i, idx := range plan.Vehicles[0].Visits {
		wantIDs[i] = plan.Visits[idx].ID
	}
	gotIDs := make([]string, len(back.Vehicles[0].Visits))
	for i, idx := range back.Vehicles[0].Visits {
		gotIDs[i] = back.Visits[idx].ID
	}
	if len(wantIDs) != len(gotIDs) {
		t.Fatalf("expected %d visits on vehicle 0, got %d", len(wantIDs), len(gotIDs))
	}
	for i := range wantIDs {
		if wantIDs[i] != gotIDs[i] {
			t.Fatalf("visit order changed at position %d: got %q want %q", i, gotIDs[i], wantIDs[i])
		}
	}
}

func TestToDomainRejectsUnknownVisitID(t *testing.T) {
	dto := VehicleRoutePlanDTO{
		Vehicles: []VehicleDTO{{ID: "veh1", Visits: []string{"missing"}}},
	}
	if _, err := dto.toDomain(); err == nil {
		t.Fatal("expected an error referencing an unknown visit id")
	}
}

func TestAnalyzeResponseFromBreakdownSeparatesHardAndSoft(t *testing.T) {
	plan := newPlan()
	cs := buildConstraints()
	total := cs.FullRecompute(plan)
	breakdown := cs.EvaluateDetailed(plan)

	resp := analyzeResponseFromBreakdown(total, breakdown)
	if len(resp.Constraints) != 3 {
		t.Fatalf("expected 3 constraint entries, got %d", len(resp.Constraints))
	}
	seenHard, seenSoft := false, false
	for _, c := range resp.Constraints {
		if c.Type == "hard" {
			seenHard = true
		}
		if c.Type == "soft" {
			seenSoft = true
		}
	}
	if !seenHard || !seenSoft {
		t.Fatalf("expected both hard and soft constraint kinds, got %+v", resp.Constraints)
	}
}

func TestPlanToDTOComputesArrivalAfterDeparture(t *testing.T) {
	plan := newPlan()
	dto := planToDTO(plan, "NOT_SOLVING")
	veh := dto.Vehicles[0]
	if veh.ArrivalTime == nil {
		t.Fatal("expected a computed arrival time for a vehicle with visits")
	}
	if !veh.ArrivalTime.After(veh.DepartureTime) {
		t.Fatalf("expected arrival %v after departure %v", veh.ArrivalTime, veh.DepartureTime)
	}
}
