package main

import "testing"

func loc(idx int, lat, lon float64) *Location {
	return &Location{Index: idx, Latitude: lat, Longitude: lon}
}

func TestHaversineSecondsZeroForSamePoint(t *testing.T) {
	a := loc(0, 39.95, -75.16)
	if got := haversineSeconds(a, a); got != 0 {
		t.Fatalf("expected 0 seconds between a location and itself, got %d", got)
	}
}

func TestHaversineSecondsPositiveForDistinctPoints(t *testing.T) {
	a := loc(0, 39.95, -75.16)
	b := loc(1, 40.05, -75.20)
	if got := haversineSeconds(a, b); got <= 0 {
		t.Fatalf("expected positive travel time between distinct points, got %d", got)
	}
}

func newPlan() *VehicleRoutePlan {
	locations := []*Location{
		loc(0, 39.95, -75.16),
		loc(1, 39.96, -75.17),
		loc(2, 39.97, -75.18),
		loc(3, 39.94, -75.15),
	}
	visits := []*Visit{
		{Index: 0, ID: "v1", Location: locations[1], Demand: 2, MinStartTime: 8 * 3600, MaxEndTime: 17 * 3600, ServiceDuration: 600},
		{Index: 1, ID: "v2", Location: locations[2], Demand: 3, MinStartTime: 8 * 3600, MaxEndTime: 17 * 3600, ServiceDuration: 600},
		{Index: 2, ID: "v3", Location: locations[3], Demand: 4, MinStartTime: 8 * 3600, MaxEndTime: 17 * 3600, ServiceDuration: 600},
	}
	vehicles := []*Vehicle{
		{Index: 0, ID: "veh1", Capacity: 10, HomeLocation: locations[0], DepartureTime: 8 * 3600, Visits: []int{0, 1}},
		{Index: 1, ID: "veh2", Capacity: 10, HomeLocation: locations[0], DepartureTime: 8 * 3600},
	}
	plan := &VehicleRoutePlan{Name: "test", Locations: locations, Visits: visits, Vehicles: vehicles}
	plan.Finalize()
	for i := range plan.Visits {
		plan.ShadowRecompute(i)
	}
	return plan
}

func TestShadowRecomputeTracksAssignedVehicle(t *testing.T) {
	plan := newPlan()
	if !plan.Visits[0].VehicleAssigned || plan.Visits[0].VehicleIdx != 0 {
		t.Fatalf("expected visit 0 assigned to vehicle 0, got assigned=%v idx=%d", plan.Visits[0].VehicleAssigned, plan.Visits[0].VehicleIdx)
	}
	if plan.Visits[2].VehicleAssigned {
		t.Fatalf("expected visit 2 unassigned")
	}
}

func TestCalculateRouteTimesWalksInOrder(t *testing.T) {
	plan := newPlan()
	timings := plan.CalculateRouteTimes(0)
	if len(timings) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(timings))
	}
	if timings[0].VisitIdx != 0 || timings[1].VisitIdx != 1 {
		t.Fatalf("expected timings in route order, got %+v", timings)
	}
	if timings[1].Arrival < timings[0].Departure {
		t.Fatalf("expected second stop's arrival after first stop's departure")
	}
}

func TestCalculateRouteTimesEmptyForIdleVehicle(t *testing.T) {
	plan := newPlan()
	if got := plan.CalculateRouteTimes(1); got != nil {
		t.Fatalf("expected nil timings for an idle vehicle, got %+v", got)
	}
}

func TestTotalDrivingTimeIncludesReturnHome(t *testing.T) {
	plan := newPlan()
	total := plan.TotalDrivingTime(0)
	direct := plan.TravelTime(plan.Vehicles[0].HomeLocation.Index, plan.Visits[0].Location.Index) +
		plan.TravelTime(plan.Visits[0].Location.Index, plan.Visits[1].Location.Index) +
		plan.TravelTime(plan.Visits[1].Location.Index, plan.Vehicles[0].HomeLocation.Index)
	if total != direct {
		t.Fatalf("expected total driving time %d to include the trip home, got %d", direct, total)
	}
}

func TestListInsertAndRemoveRoundTrip(t *testing.T) {
	plan := newPlan()
	removed := plan.ListRemove(0, 0)
	if removed != 0 {
		t.Fatalf("expected to remove visit index 0, got %d", removed)
	}
	if len(plan.Vehicles[0].Visits) != 1 {
		t.Fatalf("expected 1 visit left on vehicle 0, got %d", len(plan.Vehicles[0].Visits))
	}
	plan.ListInsert(0, 0, 0)
	if plan.Vehicles[0].Visits[0] != 0 {
		t.Fatalf("expected visit 0 reinserted at position 0, got %+v", plan.Vehicles[0].Visits)
	}
}

func TestBoundingBoxCoversAllLocations(t *testing.T) {
	plan := newPlan()
	sw, ne := plan.BoundingBox()
	for _, l := range plan.Locations {
		if l.Latitude < sw[0] || l.Latitude > ne[0] || l.Longitude < sw[1] || l.Longitude > ne[1] {
			t.Fatalf("location %+v falls outside bounding box [%v, %v]", l, sw, ne)
		}
	}
}
