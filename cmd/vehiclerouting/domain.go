package main

import (
	"math"

	"github.com/gitrdm/gosolve/pkg/solver/model"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

const (
	earthRadiusMeters = 6_371_000.0
	averageSpeedKMPH  = 50.0
)

// Location is a problem fact: a fixed point vehicles and visits sit at.
type Location struct {
	Index     int
	Latitude  float64
	Longitude float64
}

// haversineMeters returns the great-circle distance between two locations.
func haversineMeters(a, b *Location) float64 {
	lat1, lat2 := a.Latitude*math.Pi/180, b.Latitude*math.Pi/180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func haversineSeconds(a, b *Location) int64 {
	metersPerSecond := averageSpeedKMPH * 1000.0 / 3600.0
	return int64(math.Round(haversineMeters(a, b) / metersPerSecond))
}

// Visit is a planning entity with an inverse-relation shadow variable:
// VehicleIdx/VehicleAssigned are never set directly, only recomputed by
// ShadowRecompute after a vehicle's visit list changes.
type Visit struct {
	Index           int
	ID              string
	Name            string
	Location        *Location
	Demand          int
	MinStartTime    int64 // seconds from the route day's midnight
	MaxEndTime      int64
	ServiceDuration int64 // seconds
	VehicleIdx      int
	VehicleAssigned bool
}

// Vehicle is a planning entity owning an ordered list of visits (the
// planning list variable).
type Vehicle struct {
	Index         int
	ID            string
	Name          string
	Capacity      int
	HomeLocation  *Location
	DepartureTime int64 // seconds from midnight, default 8am
	Visits        []int
}

// VisitTiming is the derived arrival/departure pair for one stop on a
// vehicle's route, produced by walking the route in order.
type VisitTiming struct {
	VisitIdx  int
	Arrival   int64
	Departure int64
}

type routeKey struct{ From, To int }

// VehicleRoutePlan is the planning solution for the vehicle routing
// problem: a fixed set of locations, a list of visits each vehicle's
// route must eventually cover exactly once, and a fleet of vehicles whose
// ordered visit lists are the only mutable state besides the score.
type VehicleRoutePlan struct {
	Name             string
	SouthWestCorner  [2]float64
	NorthEastCorner  [2]float64
	Locations        []*Location
	Visits           []*Visit
	Vehicles         []*Vehicle
	Score            score.HardSoft
	SolverStatus     string
	TravelTimeMatrix [][]int64
	RouteGeometries  map[routeKey][][2]float64
}

// BoundingBox returns the plan's south-west/north-east corners.
func (p *VehicleRoutePlan) BoundingBox() (sw, ne [2]float64) {
	return p.SouthWestCorner, p.NorthEastCorner
}

// computeBounds derives the bounding box from every location's coordinates.
func computeBounds(locations []*Location) (sw, ne [2]float64) {
	if len(locations) == 0 {
		return sw, ne
	}
	minLat, minLon := locations[0].Latitude, locations[0].Longitude
	maxLat, maxLon := minLat, minLon
	for _, l := range locations[1:] {
		minLat, maxLat = math.Min(minLat, l.Latitude), math.Max(maxLat, l.Latitude)
		minLon, maxLon = math.Min(minLon, l.Longitude), math.Max(maxLon, l.Longitude)
	}
	return [2]float64{minLat, minLon}, [2]float64{maxLat, maxLon}
}

// Finalize populates the travel time matrix with haversine estimates, the
// fallback path used whenever no road network has been loaded.
func (p *VehicleRoutePlan) Finalize() {
	p.SouthWestCorner, p.NorthEastCorner = computeBounds(p.Locations)
	n := len(p.Locations)
	matrix := make([][]int64, n)
	for i := range matrix {
		matrix[i] = make([]int64, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			matrix[i][j] = haversineSeconds(p.Locations[i], p.Locations[j])
		}
	}
	p.TravelTimeMatrix = matrix
}

// TravelTime returns the travel time in seconds between two location
// indices, or 0 if the matrix has not been populated or the indices are
// out of range.
func (p *VehicleRoutePlan) TravelTime(from, to int) int64 {
	if p.TravelTimeMatrix == nil || from < 0 || to < 0 || from >= len(p.TravelTimeMatrix) {
		return 0
	}
	row := p.TravelTimeMatrix[from]
	if to >= len(row) {
		return 0
	}
	return row[to]
}

// RouteGeometry returns the stored road-network geometry between two
// location indices, if any.
func (p *VehicleRoutePlan) RouteGeometry(from, to int) ([][2]float64, bool) {
	g, ok := p.RouteGeometries[routeKey{From: from, To: to}]
	return g, ok
}

func (p *VehicleRoutePlan) GetLocation(idx int) *Location {
	if idx < 0 || idx >= len(p.Locations) {
		return nil
	}
	return p.Locations[idx]
}

func (p *VehicleRoutePlan) GetVisit(idx int) *Visit {
	if idx < 0 || idx >= len(p.Visits) {
		return nil
	}
	return p.Visits[idx]
}

// CalculateRouteTimes walks a vehicle's visits in order, returning each
// stop's arrival and departure time. Service starts at max(arrival,
// min_start_time); a stop may finish after max_end_time, which the time
// window constraint penalizes but this method does not enforce.
func (p *VehicleRoutePlan) CalculateRouteTimes(vehicleIdx int) []VisitTiming {
	v := p.Vehicles[vehicleIdx]
	if len(v.Visits) == 0 {
		return nil
	}
	timings := make([]VisitTiming, 0, len(v.Visits))
	currentTime := v.DepartureTime
	currentLoc := v.HomeLocation.Index
	for _, visitIdx := range v.Visits {
		visit := p.Visits[visitIdx]
		travel := p.TravelTime(currentLoc, visit.Location.Index)
		arrival := currentTime + travel
		serviceStart := arrival
		if visit.MinStartTime > serviceStart {
			serviceStart = visit.MinStartTime
		}
		departure := serviceStart + visit.ServiceDuration
		timings = append(timings, VisitTiming{VisitIdx: visitIdx, Arrival: arrival, Departure: departure})
		currentTime = departure
		currentLoc = visit.Location.Index
	}
	return timings
}

// TotalDrivingTime sums the travel time from the vehicle's home location,
// between consecutive visits, and back to the home location.
func (p *VehicleRoutePlan) TotalDrivingTime(vehicleIdx int) int64 {
	v := p.Vehicles[vehicleIdx]
	if len(v.Visits) == 0 {
		return 0
	}
	var total int64
	current := v.HomeLocation.Index
	for _, visitIdx := range v.Visits {
		loc := p.Visits[visitIdx].Location.Index
		total += p.TravelTime(current, loc)
		current = loc
	}
	total += p.TravelTime(current, v.HomeLocation.Index)
	return total
}

// TotalDrivingTimeAll sums TotalDrivingTime across every vehicle.
func (p *VehicleRoutePlan) TotalDrivingTimeAll() int64 {
	var total int64
	for i := range p.Vehicles {
		total += p.TotalDrivingTime(i)
	}
	return total
}

// ListVariableModel implementation: vehicles are sources, visits are
// targets, and a visit's VehicleIdx/VehicleAssigned are the inverse
// relation shadow variable ShadowRecompute maintains.

func (p *VehicleRoutePlan) SourceCount() int { return len(p.Vehicles) }
func (p *VehicleRoutePlan) TargetCount() int { return len(p.Visits) }

func (p *VehicleRoutePlan) ListLen(source int) int { return len(p.Vehicles[source].Visits) }

func (p *VehicleRoutePlan) ListGet(source, pos int) int { return p.Vehicles[source].Visits[pos] }

func (p *VehicleRoutePlan) ListInsert(source, pos, target int) {
	v := p.Vehicles[source]
	v.Visits = append(v.Visits, 0)
	copy(v.Visits[pos+1:], v.Visits[pos:])
	v.Visits[pos] = target
}

func (p *VehicleRoutePlan) ListRemove(source, pos int) int {
	v := p.Vehicles[source]
	target := v.Visits[pos]
	copy(v.Visits[pos:], v.Visits[pos+1:])
	v.Visits = v.Visits[:len(v.Visits)-1]
	return target
}

func (p *VehicleRoutePlan) ShadowRecompute(target int) {
	visit := p.Visits[target]
	visit.VehicleIdx, visit.VehicleAssigned = 0, false
	for vi, v := range p.Vehicles {
		for _, t := range v.Visits {
			if t == target {
				visit.VehicleIdx, visit.VehicleAssigned = vi, true
				return
			}
		}
	}
}

var _ model.ListVariableModel = (*VehicleRoutePlan)(nil)
