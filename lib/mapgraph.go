package lib

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ConnectionDescriptor is one border edge to an adjacent map (§6).
type ConnectionDescriptor struct {
	Map    string `json:"map"`
	Offset int    `json:"offset"`
}

// TeleportDescriptor is a warp tile: stepping onto (X, Y) lands on
// DestinationWarpID within DestinationMap (§6, "warps").
type TeleportDescriptor struct {
	X                  int    `json:"x"`
	Y                  int    `json:"y"`
	DestinationMap     string `json:"destination_map"`
	DestinationWarpID  int    `json:"destination_warp_id"`
}

// TrainerDescriptor is the raw, JSON-shaped form of an NPC (§6, "trainers").
type TrainerDescriptor struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Facing      string `json:"facing"`
	Class       string `json:"class"`
	TeamIndex   int    `json:"team_index"`
	VisionRange int    `json:"vision_range"`
	TrainerID   string `json:"trainer_id"`
}

// MapDescriptor is the external knowledge-base record of §6: everything the
// core needs to build a MapGraph, expressed the way the source's map JSON
// files express it — tileset-level walkability, not a per-coordinate class
// grid. §4.3's open question (the source cannot derive per-coordinate
// TileClass because it lacks a tile-ID grid) is honored rather than
// silently tightened: TileIDs, when absent, leaves every in-bounds cell
// Walkable other than LedgeTiles entries and warp tiles; GrassTile is only
// applied when TileIDs is present.
type MapDescriptor struct {
	MapID         string                           `json:"map_id"`
	Width         int                              `json:"width"`
	Height        int                              `json:"height"`
	Tileset       string                           `json:"tileset"`
	Connections   map[string]ConnectionDescriptor  `json:"connections"`
	Warps         []TeleportDescriptor             `json:"warps"`
	Trainers      []TrainerDescriptor              `json:"trainers"`
	WalkableTiles []int                            `json:"walkable_tiles"`
	GrassTile     *int                             `json:"grass_tile"`
	// TileIDs is the per-coordinate tile-ID grid, row-major, length
	// Width*Height. When nil, the graph falls back to the tileset-level
	// conservative classification described above.
	TileIDs []int `json:"tile_ids,omitempty"`
	// LedgeTiles optionally marks specific coordinates as one-way ledges,
	// since raw tile IDs alone can't distinguish ledge direction from the
	// walkable/grass split above. Keyed by "x,y". Any TileClass given here
	// (not only a ledge class) overrides the cell's derived class.
	LedgeTiles map[string]TileClass `json:"ledge_tiles,omitempty"`
}

var directionNames = map[string]Direction{
	"NORTH": Up, "UP": Up,
	"SOUTH": Down, "DOWN": Down,
	"WEST": Left, "LEFT": Left,
	"EAST": Right, "RIGHT": Right,
}

// MapGraph is the lazily-loaded, immutable-after-load per-map structure of
// §4.3: dimensions, tile-class grid, connections, teleports, and NPCs.
type MapGraph struct {
	MapID       string
	Width       int
	Height      int
	descriptor  MapDescriptor
	walkableSet map[int]bool
	connections map[Direction]ConnectionDescriptor
	teleports   []TeleportDescriptor
	npcs        []NPC
	ledges      map[Node]TileClass
}

// NewMapGraph builds an immutable MapGraph from a descriptor, per §4.3's
// load step. Canonicalizes the map id and normalizes connection direction
// names to the Direction enum.
func NewMapGraph(d MapDescriptor) (*MapGraph, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("%w: map %q has non-positive dimensions %dx%d", ErrMalformedInput, d.MapID, d.Width, d.Height)
	}
	if d.TileIDs != nil && len(d.TileIDs) != d.Width*d.Height {
		return nil, fmt.Errorf("%w: map %q tile grid has %d cells, want %d", ErrMalformedInput, d.MapID, len(d.TileIDs), d.Width*d.Height)
	}

	walkable := make(map[int]bool, len(d.WalkableTiles))
	for _, id := range d.WalkableTiles {
		walkable[id] = true
	}

	conns := make(map[Direction]ConnectionDescriptor, len(d.Connections))
	for name, c := range d.Connections {
		dir, ok := directionNames[name]
		if !ok {
			continue
		}
		c.Map = CanonicalizeMapID(c.Map)
		conns[dir] = c
	}

	npcs := make([]NPC, 0, len(d.Trainers))
	for i, t := range d.Trainers {
		facing, ok := FacingString(t.Facing)
		if !ok {
			facing = Down
		}
		id := t.TrainerID
		if id == "" {
			id = fmt.Sprintf("trainer_%d", i)
		}
		npcs = append(npcs, NPC{
			TrainerID:    id,
			X:            t.X,
			Y:            t.Y,
			Facing:       facing,
			VisionLength: t.VisionRange,
			TeamIndex:    t.TeamIndex,
			ClassName:    t.Class,
		})
	}

	teleports := make([]TeleportDescriptor, len(d.Warps))
	for i, w := range d.Warps {
		w.DestinationMap = CanonicalizeMapID(w.DestinationMap)
		teleports[i] = w
	}

	ledges := make(map[Node]TileClass, len(d.LedgeTiles))
	for key, class := range d.LedgeTiles {
		n, ok := parseCoordKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: map %q has malformed ledge_tiles key %q", ErrMalformedInput, d.MapID, key)
		}
		ledges[n] = class
	}

	return &MapGraph{
		MapID:       CanonicalizeMapID(d.MapID),
		Width:       d.Width,
		Height:      d.Height,
		descriptor:  d,
		walkableSet: walkable,
		connections: conns,
		teleports:   teleports,
		npcs:        npcs,
		ledges:      ledges,
	}, nil
}

// parseCoordKey parses a MapDescriptor.LedgeTiles key of the form "x,y".
func parseCoordKey(key string) (Node, bool) {
	xs, ys, found := strings.Cut(key, ",")
	if !found {
		return Node{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Node{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Node{}, false
	}
	return Node{X: x, Y: y}, true
}

// FacingString parses a symbolic facing token case-insensitively.
func FacingString(s string) (Direction, bool) {
	switch strings.ToUpper(s) {
	case "UP":
		return Up, true
	case "DOWN":
		return Down, true
	case "LEFT":
		return Left, true
	case "RIGHT":
		return Right, true
	default:
		return 0, false
	}
}

func (g *MapGraph) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// NPCs returns the map's trainer list.
func (g *MapGraph) NPCs() []NPC { return g.npcs }

// Dims returns the graph's width/height as MapDims, for vision projection.
func (g *MapGraph) Dims() MapDims { return MapDims{Width: g.Width, Height: g.Height} }

// TileClassAt classifies a single coordinate. Without a per-coordinate tile
// grid this conservatively reports Walkable, matching the source's explicit
// acknowledgment that a faithful implementation "must decide whether to
// ship a stub with the same permissive behaviour or block until real
// per-coordinate tile data is supplied" — this ships the stub, flagged here
// rather than silently tightened.
func (g *MapGraph) TileClassAt(x, y int) TileClass {
	if !g.InBounds(x, y) {
		return Blocked
	}
	if c, ok := g.ledges[Node{X: x, Y: y}]; ok {
		return c
	}
	if g.isTeleportAt(x, y) {
		return Teleport
	}
	if g.descriptor.GrassTile != nil {
		if g.descriptor.TileIDs != nil {
			if g.descriptor.TileIDs[y*g.Width+x] == *g.descriptor.GrassTile {
				return Grass
			}
		}
	}
	if g.descriptor.TileIDs == nil {
		// No per-coordinate data: conservative fallback, everything walkable.
		return Walkable
	}
	id := g.descriptor.TileIDs[y*g.Width+x]
	if len(g.walkableSet) == 0 || g.walkableSet[id] {
		return Walkable
	}
	return Blocked
}

func (g *MapGraph) isTeleportAt(x, y int) bool {
	for _, t := range g.teleports {
		if t.X == x && t.Y == y {
			return true
		}
	}
	return false
}

// TeleportAt returns the teleport descriptor at (x, y), if any.
func (g *MapGraph) TeleportAt(x, y int) (TeleportDescriptor, bool) {
	for _, t := range g.teleports {
		if t.X == x && t.Y == y {
			return t, true
		}
	}
	return TeleportDescriptor{}, false
}

// Connection returns the border connection in the given direction, if any.
func (g *MapGraph) Connection(d Direction) (ConnectionDescriptor, bool) {
	c, ok := g.connections[d]
	return c, ok
}

// Connections returns all of the map's border connections.
func (g *MapGraph) Connections() map[Direction]ConnectionDescriptor {
	return g.connections
}

// Teleports returns all teleport tiles on this map.
func (g *MapGraph) Teleports() []TeleportDescriptor { return g.teleports }

// directionOrder fixes a deterministic enumeration order so neighbor
// expansion (and therefore paths) are reproducible (§4.3).
var directionOrder = [4]Direction{Up, Down, Left, Right}

// Edge is a single A*-graph edge: a move in one direction to a neighboring
// node, its cost, and the HM it consumed (if any).
type Edge struct {
	To        Node
	Direction Direction
	Cost      float64
	HM        HM
	HasHM     bool
}

// Neighbors yields at most one edge per cardinal direction out of node,
// per §4.3's five-step recipe: compute the candidate, reject out-of-bounds
// (map-border transitions belong to the region router, not intra-map A*),
// price the underlying class (this is what decides legality: an obstacle or
// water tile a trainer's vision crosses is still impassable without the
// right HM), then substitute the trainer-vision cost in place of the
// underlying cost only once the move is already known to be legal.
func (g *MapGraph) Neighbors(node Node, hms HMSet, policy WeightPolicy, vision map[Node]struct{}) []Edge {
	edges := make([]Edge, 0, 4)
	for _, d := range directionOrder {
		dx, dy := d.Delta()
		next := Node{X: node.X + dx, Y: node.Y + dy}
		if !g.InBounds(next.X, next.Y) {
			continue
		}

		underlying := g.TileClassAt(next.X, next.Y)
		cost, ok := Weight(underlying, hms, policy, d)
		if !ok {
			continue
		}

		if _, inVision := vision[next]; inVision && underlying != Blocked {
			cost = policy.TrainerVisionCost
		}

		edge := Edge{To: next, Direction: d, Cost: cost}
		// Vision only overrides cost; legality above was already decided from
		// the underlying class, so the HM tag comes from it too.
		if hm, needs := hmRequiredFor(underlying); needs {
			edge.HM = hm
			edge.HasHM = true
		}
		edges = append(edges, edge)
	}
	return edges
}

// MapLoader fetches a MapDescriptor by its canonical map id. Concrete
// backends (local JSON, Postgres, S3, Datastore) live in package store and
// satisfy this interface; the core knows nothing about any of them.
type MapLoader interface {
	LoadMapDescriptor(ctx context.Context, mapID string) (MapDescriptor, error)
}

// MapStore is the process-lifetime MapGraph cache of §5: single-writer-on-
// miss, many-readers, write-once-per-key. It is the only shared mutable
// state in the core.
type MapStore struct {
	loader MapLoader

	mu    sync.RWMutex
	graphs map[string]*MapGraph
}

// NewMapStore wraps a MapLoader with the process-lifetime cache.
func NewMapStore(loader MapLoader) *MapStore {
	return &MapStore{loader: loader, graphs: make(map[string]*MapGraph)}
}

// Get returns the cached MapGraph for mapID, loading and memoizing it on
// first reference. Safe for concurrent callers: reads take the read lock;
// only the first caller to miss pays the write lock and the loader's I/O.
func (s *MapStore) Get(ctx context.Context, mapID string) (*MapGraph, error) {
	canon := CanonicalizeMapID(mapID)

	s.mu.RLock()
	g, ok := s.graphs[canon]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another goroutine may have populated it while we waited for
	// the write lock.
	if g, ok := s.graphs[canon]; ok {
		return g, nil
	}

	desc, err := s.loader.LoadMapDescriptor(ctx, canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownMap, canon, err)
	}
	graph, err := NewMapGraph(desc)
	if err != nil {
		return nil, err
	}
	s.graphs[canon] = graph
	return graph, nil
}
