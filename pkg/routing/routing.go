// Package routing loads a real street network from OpenStreetMap's Overpass
// API, builds a weighted graph over it, and answers shortest-path and
// all-pairs travel-time queries against that graph instead of straight-line
// distance. It is the "real_roads" alternative to the haversine estimate the
// planning domain falls back to when no network has been loaded.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"
)

// cacheVersion is bumped whenever the cached file format changes shape; a
// mismatch forces a fresh download rather than trying to interpret old data.
const cacheVersion = 1

const overpassURL = "https://overpass-api.de/api/interpreter"

const defaultSpeedMetersPerSecond = 50.0 * 1000.0 / 3600.0

var (
	// ErrNoRoute is returned by Route when the two points snap to
	// disconnected parts of the network.
	ErrNoRoute = errors.New("routing: no route found")
)

// BoundingBox delimits an Overpass query and doubles as a cache key once
// rounded to four decimal places.
type BoundingBox struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

// Expand grows the box by factor on every side (e.g. 0.1 adds 10% of each
// dimension's span to each edge), giving a route a margin past its
// tightest-fitting bounding box so nearby roads aren't cut off.
func (b BoundingBox) Expand(factor float64) BoundingBox {
	latPad := (b.MaxLat - b.MinLat) * factor
	lngPad := (b.MaxLng - b.MinLng) * factor
	return BoundingBox{
		MinLat: b.MinLat - latPad,
		MinLng: b.MinLng - lngPad,
		MaxLat: b.MaxLat + latPad,
		MaxLng: b.MaxLng + lngPad,
	}
}

// cacheKey rounds the box to four decimal places so bounding boxes that
// differ only by floating-point noise share a cache entry.
func (b BoundingBox) cacheKey() string {
	return fmt.Sprintf("%.4f_%.4f_%.4f_%.4f", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
}

// RouteResult is the outcome of a point-to-point shortest path query.
type RouteResult struct {
	DurationSeconds int64
	DistanceMeters  float64
	Geometry        [][2]float64
}

// Network is a road graph built from OSM data for one bounding box, safe
// for concurrent read-only queries once built.
type Network struct {
	graph        *core.Graph
	nodeCoord    map[string][2]float64
	edgeDistance map[string]float64 // "from|to" -> meters, for Route's distance sum
}

func newNetwork() *Network {
	return &Network{
		graph:        core.NewGraph(core.WithWeighted(), core.WithDirected(true)),
		nodeCoord:    make(map[string][2]float64),
		edgeDistance: make(map[string]float64),
	}
}

func nodeID(lat, lng float64) string {
	return fmt.Sprintf("%d_%d", int64(math.Round(lat*1e7)), int64(math.Round(lng*1e7)))
}

func edgeKey(from, to string) string { return from + "|" + to }

func (n *Network) getOrCreateNode(lat, lng float64) string {
	id := nodeID(lat, lng)
	if _, ok := n.nodeCoord[id]; !ok {
		n.nodeCoord[id] = [2]float64{lat, lng}
		_ = n.graph.AddVertex(id)
	}
	return id
}

// NodeCount and EdgeCount report the built graph's size, mostly useful in
// tests and startup logging.
func (n *Network) NodeCount() int { return n.graph.VertexCount() }
func (n *Network) EdgeCount() int { return n.graph.EdgeCount() }

// snapToRoad returns the ID of the network's nearest node to (lat, lng).
func (n *Network) snapToRoad(lat, lng float64) (string, bool) {
	var best string
	bestDist := math.Inf(1)
	for id, coord := range n.nodeCoord {
		d := haversineMeters(lat, lng, coord[0], coord[1])
		if d < bestDist {
			bestDist, best = d, id
		}
	}
	return best, best != ""
}

// Route computes the shortest path between two coordinates, following
// roads. Coordinates that snap to the same node return a zero-length
// direct hop.
func (n *Network) Route(from, to [2]float64) (RouteResult, error) {
	start, ok := n.snapToRoad(from[0], from[1])
	if !ok {
		return RouteResult{}, ErrNoRoute
	}
	end, ok := n.snapToRoad(to[0], to[1])
	if !ok {
		return RouteResult{}, ErrNoRoute
	}
	if start == end {
		return RouteResult{Geometry: [][2]float64{from, to}}, nil
	}

	dist, prev, err := dijkstra.Dijkstra(n.graph, dijkstra.Source(start), dijkstra.WithReturnPath())
	if err != nil {
		return RouteResult{}, fmt.Errorf("routing: dijkstra from %s: %w", start, err)
	}
	endDist, reached := dist[end]
	if !reached || endDist == math.MaxInt64 {
		return RouteResult{}, ErrNoRoute
	}

	path := []string{end}
	for cur := end; cur != start; {
		p, ok := prev[cur]
		if !ok || p == "" {
			return RouteResult{}, ErrNoRoute
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	geometry := make([][2]float64, len(path))
	var distanceMeters float64
	for i, id := range path {
		geometry[i] = n.nodeCoord[id]
		if i > 0 {
			distanceMeters += n.edgeDistance[edgeKey(path[i-1], id)]
		}
	}

	return RouteResult{
		DurationSeconds: int64(math.Round(float64(endDist))),
		DistanceMeters:  distanceMeters,
		Geometry:        geometry,
	}, nil
}

// ComputeMatrixWithProgress computes the all-pairs travel-time matrix (in
// seconds) for locations, running one Dijkstra search per row and invoking
// onRowComplete(row, total) after each. Pairs the network cannot connect
// fall back to the haversine estimate rather than leaving a hole in the
// matrix, mirroring the road network's own graceful degradation.
func (n *Network) ComputeMatrixWithProgress(locations [][2]float64, onRowComplete func(row, total int)) [][]int64 {
	count := len(locations)
	matrix := make([][]int64, count)
	for i := range matrix {
		matrix[i] = make([]int64, count)
	}

	nodes := make([]string, count)
	for i, loc := range locations {
		id, ok := n.snapToRoad(loc[0], loc[1])
		if ok {
			nodes[i] = id
		}
	}

	for i := 0; i < count; i++ {
		if nodes[i] == "" {
			n.fillHaversineRow(matrix, locations, i)
			if onRowComplete != nil {
				onRowComplete(i, count)
			}
			continue
		}
		dist, _, err := dijkstra.Dijkstra(n.graph, dijkstra.Source(nodes[i]))
		if err != nil {
			n.fillHaversineRow(matrix, locations, i)
			if onRowComplete != nil {
				onRowComplete(i, count)
			}
			continue
		}
		for j := 0; j < count; j++ {
			if i == j {
				continue
			}
			if nodes[j] == "" {
				matrix[i][j] = haversineSeconds(locations[i], locations[j])
				continue
			}
			d, ok := dist[nodes[j]]
			if !ok || d == math.MaxInt64 {
				matrix[i][j] = haversineSeconds(locations[i], locations[j])
				continue
			}
			matrix[i][j] = d
		}
		if onRowComplete != nil {
			onRowComplete(i, count)
		}
	}
	return matrix
}

func (n *Network) fillHaversineRow(matrix [][]int64, locations [][2]float64, row int) {
	for j, loc := range locations {
		if j == row {
			continue
		}
		matrix[row][j] = haversineSeconds(locations[row], loc)
	}
}

// RouteKey identifies one leg of a multi-stop route by location index pair.
type RouteKey struct{ From, To int }

// ComputeAllGeometriesWithProgress computes a point-to-point route for every
// ordered pair of locations, reporting progress after each source row the
// way ComputeMatrixWithProgress does. Pairs with no connecting route are
// simply absent from the result.
func (n *Network) ComputeAllGeometriesWithProgress(locations [][2]float64, onRowComplete func(row, total int)) map[RouteKey][][2]float64 {
	count := len(locations)
	geometries := make(map[RouteKey][][2]float64)
	for i := 0; i < count; i++ {
		for j := 0; j < count; j++ {
			if i == j {
				continue
			}
			if result, err := n.Route(locations[i], locations[j]); err == nil {
				geometries[RouteKey{From: i, To: j}] = result.Geometry
			}
		}
		if onRowComplete != nil {
			onRowComplete(i, count)
		}
	}
	return geometries
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusMeters = 6_371_000.0
	p1, p2 := lat1*math.Pi/180, lat2*math.Pi/180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func haversineSeconds(a, b [2]float64) int64 {
	return int64(math.Round(haversineMeters(a[0], a[1], b[0], b[1]) / defaultSpeedMetersPerSecond))
}

// highwaySpeeds gives a free-flow speed estimate (meters/second) per OSM
// highway tag, the same classes Overpass is queried for.
var highwaySpeeds = map[string]float64{
	"motorway":       110.0 / 3.6,
	"trunk":          90.0 / 3.6,
	"primary":        70.0 / 3.6,
	"secondary":      55.0 / 3.6,
	"tertiary":       45.0 / 3.6,
	"residential":    30.0 / 3.6,
	"unclassified":   35.0 / 3.6,
	"service":        15.0 / 3.6,
	"living_street":  10.0 / 3.6,
}

func speedForHighway(highway string) float64 {
	if s, ok := highwaySpeeds[highway]; ok {
		return s
	}
	return highwaySpeeds["residential"]
}

// overpassElement is one node or way in an Overpass JSON response.
type overpassElement struct {
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Nodes []int64  `json:"nodes"`
	Tags  *osmTags `json:"tags"`
}

type osmTags struct {
	Highway string `json:"highway"`
	Oneway  string `json:"oneway"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// overpassQuery builds the Overpass QL query for every drivable highway
// class inside bbox.
func overpassQuery(bbox BoundingBox) string {
	classes := "motorway|trunk|primary|secondary|tertiary|residential|unclassified|service|living_street"
	return fmt.Sprintf(`[out:json][timeout:120];
(
  way["highway"~"^(%s)$"]
    (%f,%f,%f,%f);
);
(._;>;);
out body;`, classes, bbox.MinLat, bbox.MinLng, bbox.MaxLat, bbox.MaxLng)
}

// Fetcher downloads and builds road networks from the Overpass API, caching
// results both in memory and on disk under CacheDir so repeated requests
// for the same bounding box never redownload.
type Fetcher struct {
	CacheDir string
	Limiter  *rate.Limiter
	Client   *http.Client

	mu       sync.RWMutex
	memCache map[string]*Network
}

// NewFetcher builds a Fetcher rate-limited to one Overpass request every
// interval, caching downloaded networks under cacheDir.
func NewFetcher(cacheDir string, interval time.Duration) *Fetcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Fetcher{
		CacheDir: cacheDir,
		Limiter:  rate.NewLimiter(rate.Every(interval), 1),
		Client:   &http.Client{Timeout: 180 * time.Second},
		memCache: make(map[string]*Network),
	}
}

// LoadOrFetch returns the network for bbox, consulting the in-memory cache,
// then the file cache, then the Overpass API, in that order, and populating
// each faster tier as it falls through to a slower one.
func (f *Fetcher) LoadOrFetch(ctx context.Context, bbox BoundingBox) (*Network, error) {
	key := bbox.cacheKey()

	f.mu.RLock()
	if n, ok := f.memCache[key]; ok {
		f.mu.RUnlock()
		return n, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.memCache[key]; ok {
		return n, nil
	}

	cachePath := filepath.Join(f.CacheDir, key+".json")
	if n, err := loadFromCache(cachePath); err == nil {
		f.memCache[key] = n
		return n, nil
	}

	n, err := f.download(ctx, bbox)
	if err != nil {
		return nil, err
	}
	if err := saveToCache(cachePath, n); err != nil {
		return nil, fmt.Errorf("routing: cache write %s: %w", cachePath, err)
	}
	f.memCache[key] = n
	return n, nil
}

func (f *Fetcher) download(ctx context.Context, bbox BoundingBox) (*Network, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("routing: rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, overpassURL, strings.NewReader(overpassQuery(bbox)))
	if err != nil {
		return nil, fmt.Errorf("routing: build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("User-Agent", "gosolve/0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing: overpass request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing: overpass returned status %d", resp.StatusCode)
	}

	var data overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("routing: parse overpass response: %w", err)
	}
	return buildFromOSM(data), nil
}

// buildFromOSM turns a parsed Overpass response into a routable network: one
// node per OSM node, one directed edge per traversable way segment (two if
// the way is not tagged oneway).
func buildFromOSM(data overpassResponse) *Network {
	n := newNetwork()

	nodes := make(map[int64][2]float64, len(data.Elements))
	for _, el := range data.Elements {
		if el.Type == "node" {
			nodes[el.ID] = [2]float64{el.Lat, el.Lon}
		}
	}

	for _, el := range data.Elements {
		if el.Type != "way" || len(el.Nodes) < 2 {
			continue
		}
		highway := "residential"
		oneway := false
		if el.Tags != nil {
			if el.Tags.Highway != "" {
				highway = el.Tags.Highway
			}
			oneway = el.Tags.Oneway == "yes" || el.Tags.Oneway == "1"
		}
		speed := speedForHighway(highway)

		for i := 0; i+1 < len(el.Nodes); i++ {
			c1, ok1 := nodes[el.Nodes[i]]
			c2, ok2 := nodes[el.Nodes[i+1]]
			if !ok1 || !ok2 {
				continue
			}
			id1 := n.getOrCreateNode(c1[0], c1[1])
			id2 := n.getOrCreateNode(c2[0], c2[1])
			distance := haversineMeters(c1[0], c1[1], c2[0], c2[1])
			travelSeconds := int64(math.Round(distance / speed))

			n.addDirectedEdge(id1, id2, travelSeconds, distance)
			if !oneway {
				n.addDirectedEdge(id2, id1, travelSeconds, distance)
			}
		}
	}
	return n
}

func (n *Network) addDirectedEdge(from, to string, travelSeconds int64, distanceMeters float64) {
	if n.graph.HasEdge(from, to) {
		return
	}
	if _, err := n.graph.AddEdge(from, to, travelSeconds); err != nil {
		return
	}
	n.edgeDistance[edgeKey(from, to)] = distanceMeters
}

// cachedNetwork is the on-disk JSON shape saved under CacheDir.
type cachedNetwork struct {
	Version int           `json:"version"`
	Nodes   []cachedNode  `json:"nodes"`
	Edges   []cachedEdge  `json:"edges"`
}

type cachedNode struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type cachedEdge struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	TravelSeconds  int64   `json:"travelSeconds"`
	DistanceMeters float64 `json:"distanceMeters"`
}

func loadFromCache(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cached cachedNetwork
	if err := json.Unmarshal(data, &cached); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("routing: corrupt cache file: %w", err)
	}
	if cached.Version != cacheVersion {
		_ = os.Remove(path)
		return nil, fmt.Errorf("routing: cache version mismatch (got %d, need %d)", cached.Version, cacheVersion)
	}

	n := newNetwork()
	for _, node := range cached.Nodes {
		n.nodeCoord[node.ID] = [2]float64{node.Lat, node.Lng}
		_ = n.graph.AddVertex(node.ID)
	}
	for _, edge := range cached.Edges {
		if _, err := n.graph.AddEdge(edge.From, edge.To, edge.TravelSeconds); err == nil {
			n.edgeDistance[edgeKey(edge.From, edge.To)] = edge.DistanceMeters
		}
	}
	return n, nil
}

func saveToCache(path string, n *Network) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	nodes := make([]cachedNode, 0, len(n.nodeCoord))
	for id, coord := range n.nodeCoord {
		nodes = append(nodes, cachedNode{ID: id, Lat: coord[0], Lng: coord[1]})
	}
	edges := make([]cachedEdge, 0, len(n.edgeDistance))
	for _, e := range n.graph.Edges() {
		edges = append(edges, cachedEdge{
			From:           e.From,
			To:             e.To,
			TravelSeconds:  e.Weight,
			DistanceMeters: n.edgeDistance[edgeKey(e.From, e.To)],
		})
	}

	data, err := json.Marshal(cachedNetwork{Version: cacheVersion, Nodes: nodes, Edges: edges})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
