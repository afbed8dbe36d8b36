package routing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBoundingBoxExpand(t *testing.T) {
	b := BoundingBox{MinLat: 39.9, MinLng: -75.2, MaxLat: 40.0, MaxLng: -75.1}
	expanded := b.Expand(0.1)
	if expanded.MinLat >= b.MinLat || expanded.MaxLat <= b.MaxLat {
		t.Fatalf("expected latitude bounds to grow, got %+v from %+v", expanded, b)
	}
	if expanded.MinLng >= b.MinLng || expanded.MaxLng <= b.MaxLng {
		t.Fatalf("expected longitude bounds to grow, got %+v from %+v", expanded, b)
	}
}

func TestBoundingBoxCacheKeyFormat(t *testing.T) {
	b := BoundingBox{MinLat: 39.91234, MinLng: -75.21234, MaxLat: 40.01234, MaxLng: -75.11234}
	got := b.cacheKey()
	want := "39.9123_-75.2123_40.0123_-75.1123"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNetworkRouteBetweenAdjacentNodes(t *testing.T) {
	n := newNetwork()
	a := n.getOrCreateNode(39.95, -75.16)
	b := n.getOrCreateNode(39.96, -75.17)
	n.addDirectedEdge(a, b, 120, 1500)
	n.addDirectedEdge(b, a, 120, 1500)

	result, err := n.Route([2]float64{39.95, -75.16}, [2]float64{39.96, -75.17})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationSeconds != 120 {
		t.Fatalf("expected 120 second route, got %d", result.DurationSeconds)
	}
	if result.DistanceMeters != 1500 {
		t.Fatalf("expected 1500 meter route, got %v", result.DistanceMeters)
	}
	if len(result.Geometry) != 2 {
		t.Fatalf("expected a 2 point geometry, got %d points", len(result.Geometry))
	}
}

func TestNetworkRouteNoPathReturnsErrNoRoute(t *testing.T) {
	n := newNetwork()
	n.getOrCreateNode(39.95, -75.16)
	n.getOrCreateNode(50.0, -75.16) // disconnected component, far enough that it still snaps to itself

	_, err := n.Route([2]float64{39.95, -75.16}, [2]float64{50.0, -75.16})
	if err != ErrNoRoute {
		t.Fatalf("expected ErrNoRoute for two disconnected nodes, got %v", err)
	}
}

func TestComputeMatrixFallsBackToHaversineWithoutNetwork(t *testing.T) {
	n := newNetwork() // empty graph, every location fails to snap
	locations := [][2]float64{{39.95, -75.16}, {39.96, -75.17}}
	matrix := n.ComputeMatrixWithProgress(locations, nil)
	if matrix[0][1] <= 0 {
		t.Fatalf("expected a positive haversine fallback estimate, got %d", matrix[0][1])
	}
	if matrix[0][1] != matrix[1][0] {
		t.Fatalf("expected a symmetric haversine estimate, got %d and %d", matrix[0][1], matrix[1][0])
	}
}

func TestSpeedForHighwayFallsBackToResidential(t *testing.T) {
	if got := speedForHighway("unknown-class"); got != highwaySpeeds["residential"] {
		t.Fatalf("expected the residential speed as a fallback, got %v", got)
	}
	if got := speedForHighway("motorway"); got != highwaySpeeds["motorway"] {
		t.Fatalf("expected the motorway speed, got %v", got)
	}
}

func TestBuildFromOSMRespectsOneway(t *testing.T) {
	data := overpassResponse{
		Elements: []overpassElement{
			{Type: "node", ID: 1, Lat: 39.95, Lon: -75.16},
			{Type: "node", ID: 2, Lat: 39.96, Lon: -75.17},
			{Type: "way", ID: 100, Nodes: []int64{1, 2}, Tags: &osmTags{Highway: "primary", Oneway: "yes"}},
		},
	}
	n := buildFromOSM(data)
	if n.EdgeCount() != 1 {
		t.Fatalf("expected exactly 1 directed edge for a oneway way, got %d", n.EdgeCount())
	}
}

func TestBuildFromOSMAddsBothDirectionsWhenNotOneway(t *testing.T) {
	data := overpassResponse{
		Elements: []overpassElement{
			{Type: "node", ID: 1, Lat: 39.95, Lon: -75.16},
			{Type: "node", ID: 2, Lat: 39.96, Lon: -75.17},
			{Type: "way", ID: 100, Nodes: []int64{1, 2}, Tags: &osmTags{Highway: "residential"}},
		},
	}
	n := buildFromOSM(data)
	if n.EdgeCount() != 2 {
		t.Fatalf("expected 2 directed edges for a two-way street, got %d", n.EdgeCount())
	}
}

func TestHaversineMetersMatchesKnownDistance(t *testing.T) {
	// Philadelphia to New York is roughly 130km as the crow flies.
	meters := haversineMeters(39.9526, -75.1652, 40.7128, -74.0060)
	if meters < 100_000 || meters > 160_000 {
		t.Fatalf("expected roughly 100-160km, got %vm", meters)
	}
}

func TestOverpassQueryIncludesBoundingBox(t *testing.T) {
	q := overpassQuery(BoundingBox{MinLat: 1, MinLng: 2, MaxLat: 3, MaxLng: 4})
	for _, sub := range []string{"1.000000", "2.000000", "3.000000", "4.000000"} {
		if !strings.Contains(q, sub) {
			t.Fatalf("expected the query to embed %q, got %q", sub, q)
		}
	}
}

func TestCacheVersionMismatchTriggersReload(t *testing.T) {
	if cacheVersion != 1 {
		t.Fatalf("expected cache version 1, got %d", cacheVersion)
	}

	path := filepath.Join(t.TempDir(), "stale.json")
	data, err := json.Marshal(cachedNetwork{Version: cacheVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadFromCache(path); err == nil {
		t.Fatal("expected a cache file with another version to be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected the stale cache file to be removed, stat error %v", err)
	}
}

func TestNodeIDStableForSameCoordinate(t *testing.T) {
	a := nodeID(39.9526123, -75.1652456)
	b := nodeID(39.9526123, -75.1652456)
	if a != b {
		t.Fatalf("expected a stable node id for identical coordinates, got %q and %q", a, b)
	}
}

func TestRouteSameSnapReturnsDirectSegment(t *testing.T) {
	n := newNetwork()
	n.getOrCreateNode(39.95, -75.16)
	result, err := n.Route([2]float64{39.95, -75.16}, [2]float64{39.9500001, -75.1600001})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Geometry) != 2 {
		t.Fatalf("expected a direct 2 point segment when both ends snap to the same node, got %+v", result.Geometry)
	}
}
