package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrUnknownDemoSet is returned by GenerateDemoData for an unrecognized id.
var ErrUnknownDemoSet = errors.New("vehiclerouting: unknown demo dataset")

// DemoDataset names a pre-baked demo instance, mirroring employee
// scheduling's DemoDataset but VRP ships a single dataset per SPEC_FULL.md's
// "single-city generator" decision (weighted customer types, not three
// named cities, since no city street data survived distillation).
type DemoDataset string

const DemoCity DemoDataset = "CITY"

// ListDemoDatasets returns every dataset id this binary can generate.
func ListDemoDatasets() []DemoDataset { return []DemoDataset{DemoCity} }

// customerType is a weighted visit archetype: residential deliveries skew
// evening and small, business visits sit in working hours with medium
// demand, and restaurant supply runs are early morning with the largest
// orders — grounded on demo_data.rs's CustomerType enum.
type customerType int

const (
	residential customerType = iota
	business
	restaurant
)

func randomCustomerType(rng *rand.Rand) customerType {
	r := rng.IntN(100) + 1
	switch {
	case r <= 50:
		return residential
	case r <= 80:
		return business
	default:
		return restaurant
	}
}

func (c customerType) timeWindow() (start, end int64) {
	switch c {
	case residential:
		return 17 * 3600, 20 * 3600
	case business:
		return 9 * 3600, 17 * 3600
	default:
		return 6 * 3600, 10 * 3600
	}
}

func (c customerType) demandRange() (lo, hi int) {
	switch c {
	case residential:
		return 1, 2
	case business:
		return 3, 6
	default:
		return 5, 10
	}
}

func (c customerType) serviceDurationRange() (lo, hi int64) {
	switch c {
	case residential:
		return 5 * 60, 10 * 60
	case business:
		return 15 * 60, 30 * 60
	default:
		return 20 * 60, 40 * 60
	}
}

var vehicleNames = []string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo",
	"Foxtrot", "Golf", "Hotel", "India", "Juliet",
}

const (
	demoVisitCount        = 48
	demoVehicleCount       = 6
	demoVehicleStartTime   = 8 * 3600
	demoMinVehicleCapacity = 15
	demoMaxVehicleCapacity = 30
	// demoCenterLat/Lon anchor the generated city around Philadelphia's
	// downtown core; coordinates are scattered within roughly a 16km
	// (north-south) by 12km (east-west) box.
	demoCenterLat = 39.9526
	demoCenterLon = -75.1652
	demoSpanDeg   = 0.07
)

func intBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func int64Between(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int64N(hi-lo+1)
}

// GenerateDemoData builds a deterministic (seed 0) VehicleRoutePlan for
// the named dataset, following the seed-0 reproducibility contract
// employee scheduling's generator also honors.
func GenerateDemoData(dataset DemoDataset) (*VehicleRoutePlan, error) {
	if dataset != DemoCity {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDemoSet, dataset)
	}
	rng := rand.New(rand.NewPCG(0, 0))

	depot := &Location{Index: 0, Latitude: demoCenterLat, Longitude: demoCenterLon}
	locations := []*Location{depot}
	visits := make([]*Visit, 0, demoVisitCount)
	for i := 0; i < demoVisitCount; i++ {
		lat := demoCenterLat + (rng.Float64()*2-1)*demoSpanDeg
		lon := demoCenterLon + (rng.Float64()*2-1)*demoSpanDeg
		loc := &Location{Index: len(locations), Latitude: lat, Longitude: lon}
		locations = append(locations, loc)

		ct := randomCustomerType(rng)
		start, end := ct.timeWindow()
		demandLo, demandHi := ct.demandRange()
		durLo, durHi := ct.serviceDurationRange()
		visits = append(visits, &Visit{
			Index:           i,
			ID:              fmt.Sprintf("visit-%d", i+1),
			Name:            fmt.Sprintf("Customer %d", i+1),
			Location:        loc,
			Demand:          intBetween(rng, demandLo, demandHi),
			MinStartTime:    start,
			MaxEndTime:      end,
			ServiceDuration: int64Between(rng, durLo, durHi),
		})
	}

	vehicles := make([]*Vehicle, demoVehicleCount)
	for i := 0; i < demoVehicleCount; i++ {
		name := vehicleNames[i%len(vehicleNames)]
		vehicles[i] = &Vehicle{
			Index:         i,
			ID:            fmt.Sprintf("vehicle-%d", i+1),
			Name:          name,
			Capacity:      intBetween(rng, demoMinVehicleCapacity, demoMaxVehicleCapacity),
			HomeLocation:  depot,
			DepartureTime: demoVehicleStartTime,
		}
	}

	plan := &VehicleRoutePlan{
		Name:      "City demo",
		Locations: locations,
		Visits:    visits,
		Vehicles:  vehicles,
	}
	plan.Finalize()
	return plan, nil
}
