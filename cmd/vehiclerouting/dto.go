package main

import (
	"fmt"
	"time"

	"github.com/gitrdm/gosolve/pkg/polyline"
	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// routeDay anchors the single day every vehicle's route operates within.
// Domain times are seconds-from-midnight; the DTO boundary serializes them
// as ISO date-times against this fixed reference day.
var routeDay = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func timeFromSeconds(s int64) time.Time { return routeDay.Add(time.Duration(s) * time.Second) }

func secondsFromTime(t time.Time) int64 { return int64(t.Sub(routeDay).Seconds()) }

// VisitDTO is the wire shape of one visit, embedding its resolved
// coordinates and (once solved) timing, mirroring dto.rs's VisitDto.
type VisitDTO struct {
	ID                                      string     `json:"id"`
	Name                                    string     `json:"name"`
	Location                                [2]float64 `json:"location"`
	LocationIdx                             int        `json:"locationIdx"`
	Demand                                  int        `json:"demand"`
	MinStartTime                            time.Time  `json:"minStartTime"`
	MaxEndTime                              time.Time  `json:"maxEndTime"`
	ServiceDuration                         int64      `json:"serviceDuration"`
	Vehicle                                 *string    `json:"vehicle,omitempty"`
	ArrivalTime                             *time.Time `json:"arrivalTime,omitempty"`
	StartServiceTime                        *time.Time `json:"startServiceTime,omitempty"`
	DepartureTime                           *time.Time `json:"departureTime,omitempty"`
	DrivingTimeSecondsFromPreviousStandstill *int64    `json:"drivingTimeSecondsFromPreviousStandstill,omitempty"`
}

// VehicleDTO is the wire shape of one vehicle and its ordered visit ids.
type VehicleDTO struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Capacity                int        `json:"capacity"`
	HomeLocation            [2]float64 `json:"homeLocation"`
	HomeLocationIdx         int        `json:"homeLocationIdx"`
	DepartureTime           time.Time  `json:"departureTime"`
	Visits                  []string   `json:"visits"`
	TotalDemand             int        `json:"totalDemand"`
	TotalDrivingTimeSeconds int64      `json:"totalDrivingTimeSeconds"`
	ArrivalTime             *time.Time `json:"arrivalTime,omitempty"`
}

// VehicleRoutePlanDTO is the REST wire shape for a whole plan.
type VehicleRoutePlanDTO struct {
	Name                    string            `json:"name"`
	SouthWestCorner         [2]float64        `json:"southWestCorner"`
	NorthEastCorner         [2]float64        `json:"northEastCorner"`
	Vehicles                []VehicleDTO      `json:"vehicles"`
	Visits                  []VisitDTO        `json:"visits"`
	Score                   *string           `json:"score,omitempty"`
	SolverStatus            *string           `json:"solverStatus,omitempty"`
	TotalDrivingTimeSeconds int64             `json:"totalDrivingTimeSeconds"`
	StartDateTime           *time.Time        `json:"startDateTime,omitempty"`
	EndDateTime             *time.Time        `json:"endDateTime,omitempty"`
	Geometries              map[string]string `json:"geometries,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type InfoResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	SolverEngine string `json:"solverEngine"`
}

type StatusResponse struct {
	Score  *string `json:"score,omitempty"`
	Status string  `json:"status"`
}

type ConstraintMatchDTO struct {
	Score         string `json:"score"`
	Justification string `json:"justification"`
}

type ConstraintAnalysisDTO struct {
	Name    string               `json:"name"`
	Type    string               `json:"type"`
	Score   string               `json:"score"`
	Matches []ConstraintMatchDTO `json:"matches"`
}

type AnalyzeResponse struct {
	Score       string                  `json:"score"`
	Constraints []ConstraintAnalysisDTO `json:"constraints"`
}

func analyzeResponseFromBreakdown(total score.HardSoft, breakdown []constraint.Breakdown[score.HardSoft]) AnalyzeResponse {
	out := AnalyzeResponse{Score: total.String(), Constraints: make([]ConstraintAnalysisDTO, 0, len(breakdown))}
	for _, b := range breakdown {
		kind := "soft"
		if b.IsHard {
			kind = "hard"
		}
		matches := make([]ConstraintMatchDTO, 0, len(b.Matches))
		for _, m := range b.Matches {
			matches = append(matches, ConstraintMatchDTO{Score: m.Score.String(), Justification: m.Justification})
		}
		out.Constraints = append(out.Constraints, ConstraintAnalysisDTO{Name: b.Name, Type: kind, Score: b.Score.String(), Matches: matches})
	}
	return out
}

// planToDTO converts a solved or unsolved plan to its wire shape, computing
// each vehicle's route timing the way converters.rs's from_plan does.
func planToDTO(plan *VehicleRoutePlan, solverStatus string) VehicleRoutePlanDTO {
	visitDTOs := make([]VisitDTO, len(plan.Visits))
	for i, v := range plan.Visits {
		visitDTOs[i] = VisitDTO{
			ID:              v.ID,
			Name:            v.Name,
			Location:        [2]float64{v.Location.Latitude, v.Location.Longitude},
			LocationIdx:     v.Location.Index,
			Demand:          v.Demand,
			MinStartTime:    timeFromSeconds(v.MinStartTime),
			MaxEndTime:      timeFromSeconds(v.MaxEndTime),
			ServiceDuration: v.ServiceDuration,
		}
		if v.VehicleAssigned {
			id := plan.Vehicles[v.VehicleIdx].ID
			visitDTOs[i].Vehicle = &id
		}
	}

	vehicleDTOs := make([]VehicleDTO, len(plan.Vehicles))
	var totalDriving int64
	var start, end *time.Time
	for i, veh := range plan.Vehicles {
		timings := plan.CalculateRouteTimes(i)
		visitIDs := make([]string, len(veh.Visits))
		var demand int
		for pos, visitIdx := range veh.Visits {
			visit := plan.Visits[visitIdx]
			visitIDs[pos] = visit.ID
			demand += visit.Demand
			for _, t := range timings {
				if t.VisitIdx != visitIdx {
					continue
				}
				arrival := timeFromSeconds(t.Arrival)
				departure := timeFromSeconds(t.Departure)
				serviceStart := arrival
				if visit.MinStartTime > t.Arrival {
					serviceStart = timeFromSeconds(visit.MinStartTime)
				}
				visitDTOs[visitIdx].ArrivalTime = &arrival
				visitDTOs[visitIdx].StartServiceTime = &serviceStart
				visitDTOs[visitIdx].DepartureTime = &departure
				break
			}
		}
		driving := plan.TotalDrivingTime(i)
		totalDriving += driving

		depDT := timeFromSeconds(veh.DepartureTime)
		var arrivalTime *time.Time
		if len(timings) == 0 {
			arrivalTime = &depDT
		} else {
			last := timings[len(timings)-1]
			backToHome := plan.TravelTime(plan.Visits[last.VisitIdx].Location.Index, veh.HomeLocation.Index)
			t := timeFromSeconds(last.Departure + backToHome)
			arrivalTime = &t
		}
		if start == nil || depDT.Before(*start) {
			start = &depDT
		}
		if end == nil || arrivalTime.After(*end) {
			end = arrivalTime
		}

		vehicleDTOs[i] = VehicleDTO{
			ID:                      veh.ID,
			Name:                    veh.Name,
			Capacity:                veh.Capacity,
			HomeLocation:            [2]float64{veh.HomeLocation.Latitude, veh.HomeLocation.Longitude},
			HomeLocationIdx:         veh.HomeLocation.Index,
			DepartureTime:           depDT,
			Visits:                  visitIDs,
			TotalDemand:             demand,
			TotalDrivingTimeSeconds: driving,
			ArrivalTime:             arrivalTime,
		}
	}

	var geometries map[string]string
	if len(plan.RouteGeometries) > 0 {
		geometries = make(map[string]string, len(plan.RouteGeometries))
		for key, points := range plan.RouteGeometries {
			geometries[fmt.Sprintf("%d-%d", key.From, key.To)] = polyline.Encode(points)
		}
	}

	var scorePtr, statusPtr *string
	str := plan.Score.String()
	scorePtr = &str
	if solverStatus != "" {
		statusPtr = &solverStatus
	}

	return VehicleRoutePlanDTO{
		Name:                    plan.Name,
		SouthWestCorner:         plan.SouthWestCorner,
		NorthEastCorner:         plan.NorthEastCorner,
		Vehicles:                vehicleDTOs,
		Visits:                  visitDTOs,
		Score:                   scorePtr,
		SolverStatus:            statusPtr,
		TotalDrivingTimeSeconds: totalDriving,
		StartDateTime:           start,
		EndDateTime:             end,
		Geometries:              geometries,
	}
}

// toDomain reconstructs a plan from its wire shape. Locations are not
// transmitted as their own list — each visit/vehicle carries its
// location's index and coordinates directly — so toDomain rebuilds the
// location table from those references, preserving every locationIdx and
// homeLocationIdx exactly, the round-trip property the scenario suite
// checks directly.
func (dto VehicleRoutePlanDTO) toDomain() (*VehicleRoutePlan, error) {
	maxIdx := -1
	for _, v := range dto.Visits {
		if v.LocationIdx > maxIdx {
			maxIdx = v.LocationIdx
		}
	}
	for _, v := range dto.Vehicles {
		if v.HomeLocationIdx > maxIdx {
			maxIdx = v.HomeLocationIdx
		}
	}
	locations := make([]*Location, maxIdx+1)
	setLocation := func(idx int, coord [2]float64) {
		locations[idx] = &Location{Index: idx, Latitude: coord[0], Longitude: coord[1]}
	}
	for _, v := range dto.Visits {
		setLocation(v.LocationIdx, v.Location)
	}
	for _, v := range dto.Vehicles {
		setLocation(v.HomeLocationIdx, v.HomeLocation)
	}
	for i, l := range locations {
		if l == nil {
			locations[i] = &Location{Index: i}
		}
	}

	visits := make([]*Visit, len(dto.Visits))
	idToVisitIdx := make(map[string]int, len(dto.Visits))
	for i, v := range dto.Visits {
		visits[i] = &Visit{
			Index:           i,
			ID:              v.ID,
			Name:            v.Name,
			Location:        locations[v.LocationIdx],
			Demand:          v.Demand,
			MinStartTime:    secondsFromTime(v.MinStartTime),
			MaxEndTime:      secondsFromTime(v.MaxEndTime),
			ServiceDuration: v.ServiceDuration,
		}
		idToVisitIdx[v.ID] = i
	}

	vehicles := make([]*Vehicle, len(dto.Vehicles))
	for i, v := range dto.Vehicles {
		visitIdxs := make([]int, len(v.Visits))
		for pos, id := range v.Visits {
			idx, ok := idToVisitIdx[id]
			if !ok {
				return nil, fmt.Errorf("route plan references unknown visit id %q", id)
			}
			visitIdxs[pos] = idx
		}
		vehicles[i] = &Vehicle{
			Index:         i,
			ID:            v.ID,
			Name:          v.Name,
			Capacity:      v.Capacity,
			HomeLocation:  locations[v.HomeLocationIdx],
			DepartureTime: secondsFromTime(v.DepartureTime),
			Visits:        visitIdxs,
		}
	}

	plan := &VehicleRoutePlan{
		Name:      dto.Name,
		Locations: locations,
		Visits:    visits,
		Vehicles:  vehicles,
	}
	for i := range plan.Visits {
		plan.ShadowRecompute(i)
	}
	plan.Finalize()
	return plan, nil
}
