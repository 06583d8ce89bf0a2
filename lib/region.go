package lib

import (
	"context"
	"fmt"
	"sort"
)

// SegmentPlan is the direction list produced on a single map (§3).
type SegmentPlan struct {
	MapID string
	Moves []Direction
}

// TransitionKind distinguishes a border crossing from a warp.
type TransitionKind string

const (
	TransitionConnection TransitionKind = "connection"
	TransitionTeleport   TransitionKind = "teleport"
)

// Transition records one map-to-map hop in a RoutePlan.
type Transition struct {
	FromMap string
	FromPos Node
	ToMap   string
	ToPos   Node
	Kind    TransitionKind
}

// RoutePlan is the end-to-end, cross-map result of §3/§6. When Success is
// false, Segments/MapsTraversed/etc. hold whatever prefix was successfully
// planned before the failure, and Err names which §7 failure kind occurred.
type RoutePlan struct {
	Success       bool
	Segments      []SegmentPlan
	MapsTraversed []string
	TotalMoves    int
	HMsRequired   []HM
	Transitions   []Transition
	Err           error
}

// RegionRouter performs the cross-map routing of §4.6: a BFS over the
// region graph (maps as nodes, connections ∪ teleports ∪ fly destinations as
// edges) to pick a map sequence, then per-map A* to stitch segments.
type RegionRouter struct {
	Store *MapStore
	// MaxIterationsPerSegment bounds each per-map A* call; zero uses
	// DefaultMaxIterations.
	MaxIterationsPerSegment int
	// FlyDestinations is the set of canonical map ids the party can fast-
	// travel to directly when Fly is available (original_source supplement,
	// §4 of SPEC_FULL.md — the original game's town-to-town fast travel).
	FlyDestinations map[string]bool
}

// NewRegionRouter constructs a router over the given MapStore.
func NewRegionRouter(store *MapStore) *RegionRouter {
	return &RegionRouter{Store: store}
}

// regionNeighbors returns the canonical ids of every map directly reachable
// from mapID via a connection, a teleport, or (if Fly is available) a fly
// destination, in a fixed deterministic order.
func (r *RegionRouter) regionNeighbors(ctx context.Context, mapID string, hms HMSet) ([]string, error) {
	g, err := r.Store.Get(ctx, mapID)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, d := range directionOrder {
		if c, ok := g.Connection(d); ok {
			add(c.Map)
		}
	}
	for _, t := range g.Teleports() {
		add(t.DestinationMap)
	}
	if hms.Has(Fly) && r.FlyDestinations != nil {
		flyTargets := make([]string, 0, len(r.FlyDestinations))
		for id := range r.FlyDestinations {
			if id != mapID {
				flyTargets = append(flyTargets, id)
			}
		}
		sort.Strings(flyTargets)
		for _, id := range flyTargets {
			add(id)
		}
	}
	return out, nil
}

// RouteBFS performs §4.6 step 1: an unweighted BFS over the region graph
// from fromMap to toMap, ignoring distances. The visited set is indexed by
// canonical map id; cycles (A<->B via both a connection and a teleport) are
// handled by that set alone, per §9.
func (r *RegionRouter) RouteBFS(ctx context.Context, fromMap, toMap string, hms HMSet) ([]string, error) {
	fromMap = CanonicalizeMapID(fromMap)
	toMap = CanonicalizeMapID(toMap)

	if fromMap == toMap {
		return []string{fromMap}, nil
	}

	type queueItem struct {
		mapID string
		path  []string
	}
	queue := []queueItem{{mapID: fromMap, path: []string{fromMap}}}
	visited := map[string]bool{fromMap: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		neighbors, err := r.regionNeighbors(ctx, current.mapID, hms)
		if err != nil {
			continue
		}
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			path := append(append([]string{}, current.path...), next)
			if next == toMap {
				return path, nil
			}
			visited[next] = true
			queue = append(queue, queueItem{mapID: next, path: path})
		}
	}

	return nil, ErrNoMapSequence
}

// exitMatch is the result of locating M_i's exit toward M_{i+1}: either a
// teleport (whose destination position on the next map is already known) or
// a border connection (whose offset still needs applying on the far side).
type exitMatch struct {
	node       Node
	direction  Direction
	offset     int
	isTeleport bool
}

// findExitTo locates the exit coordinate on graph that reaches target, per
// §4.6 step 2.1: first match wins among (a) a teleport on graph whose
// destination is target, (b) a border midpoint on the connection side
// targeting target.
func findExitTo(graph *MapGraph, target string) (exitMatch, bool) {
	for _, t := range graph.Teleports() {
		if t.DestinationMap == target {
			return exitMatch{node: Node{X: t.X, Y: t.Y}, isTeleport: true}, true
		}
	}
	for _, d := range directionOrder {
		c, ok := graph.Connection(d)
		if !ok || c.Map != target {
			continue
		}
		var n Node
		switch d {
		case Up:
			n = Node{X: graph.Width / 2, Y: 0}
		case Down:
			n = Node{X: graph.Width / 2, Y: graph.Height - 1}
		case Right:
			n = Node{X: graph.Width - 1, Y: graph.Height / 2}
		case Left:
			n = Node{X: 0, Y: graph.Height / 2}
		}
		return exitMatch{node: n, direction: d, offset: c.Offset}, true
	}
	return exitMatch{}, false
}

// entryFor computes the entry coordinate on the next map given the exit
// match on M_i, per §4.6 step 2.3: crossing a north edge from exit (x,0)
// with offset k lands at (x+k, height-1) on the next map; the symmetric
// rule applies to S/E/W (the crossing always lands on the opposite border).
func entryFor(next *MapGraph, exit exitMatch) Node {
	switch exit.direction {
	case Up:
		return Node{X: exit.node.X + exit.offset, Y: next.Height - 1}
	case Down:
		return Node{X: exit.node.X + exit.offset, Y: 0}
	case Left:
		return Node{X: next.Width - 1, Y: exit.node.Y + exit.offset}
	case Right:
		return Node{X: 0, Y: exit.node.Y + exit.offset}
	}
	return Node{X: next.Width / 2, Y: next.Height / 2}
}

// buildVision computes the live vision field for a map given the caller's
// defeated-trainer set, honoring §4.2's HM-independent, walls-block-water-
// doesn't blocker predicate.
func buildVision(graph *MapGraph, defeated map[string]bool) map[Node]struct{} {
	blocked := func(x, y int) bool {
		if !graph.InBounds(x, y) {
			return true
		}
		switch graph.TileClassAt(x, y) {
		case Blocked, CutObstacle, PushObstacle:
			return true
		default:
			return false
		}
	}
	npcs := graph.NPCs()
	return ProjectVision(npcs, defeated, graph.Dims(), blocked)
}

// FindRoute is the region router's entry point, stitching §4.6 steps 1-3
// into a single RoutePlan. `to` may have X/Y set to -1 to mean "map centre",
// matching the façade's optional-coordinate contract.
func (r *RegionRouter) FindRoute(ctx context.Context, from Coordinate, to Coordinate, toSpecified bool, hms HMSet, policy WeightPolicy, defeated map[string]bool) RoutePlan {
	fromMap := CanonicalizeMapID(from.MapID)
	toMap := CanonicalizeMapID(to.MapID)

	sequence, err := r.RouteBFS(ctx, fromMap, toMap, hms)
	if err != nil {
		return RoutePlan{Success: false, MapsTraversed: []string{fromMap}, Err: err}
	}

	maxIter := r.MaxIterationsPerSegment
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	var (
		segments   []SegmentPlan
		traversed  []string
		transitions []Transition
		allHMs     = map[HM]bool{}
		hmOrder    []HM
		totalMoves int
		curX, curY = from.X, from.Y
	)

	addHMs := func(hms []HM) {
		for _, hm := range hms {
			if !allHMs[hm] {
				allHMs[hm] = true
				hmOrder = append(hmOrder, hm)
			}
		}
	}

	for i, mapID := range sequence {
		graph, err := r.Store.Get(ctx, mapID)
		if err != nil {
			return RoutePlan{Success: false, Segments: segments, MapsTraversed: traversed, TotalMoves: totalMoves, HMsRequired: hmOrder, Transitions: transitions, Err: err}
		}

		var goal Node
		var exit exitMatch
		isFinal := i == len(sequence)-1
		if isFinal {
			if toSpecified {
				goal = Node{X: to.X, Y: to.Y}
			} else {
				goal = Node{X: graph.Width / 2, Y: graph.Height / 2}
			}
		} else {
			nextMap := sequence[i+1]
			var ok bool
			exit, ok = findExitTo(graph, nextMap)
			if !ok {
				traversed = append(traversed, mapID)
				return RoutePlan{Success: false, Segments: segments, MapsTraversed: traversed, TotalMoves: totalMoves, HMsRequired: hmOrder, Transitions: transitions, Err: fmt.Errorf("%w: no exit from %s to %s", ErrNoMapSequence, mapID, nextMap)}
			}
			goal = exit.node
		}

		start := Node{X: curX, Y: curY}
		vision := buildVision(graph, defeated)
		result := AStar(graph, start, goal, hms, policy, vision, maxIter)
		traversed = append(traversed, mapID)

		if !result.Success {
			return RoutePlan{Success: false, Segments: segments, MapsTraversed: traversed, TotalMoves: totalMoves, HMsRequired: hmOrder, Transitions: transitions, Err: result.Err}
		}

		segments = append(segments, SegmentPlan{MapID: mapID, Moves: result.Moves})
		addHMs(result.HMsRequired)
		totalMoves += len(result.Moves)

		if !isFinal {
			nextMap := sequence[i+1]
			nextGraph, err := r.Store.Get(ctx, nextMap)
			if err != nil {
				return RoutePlan{Success: false, Segments: segments, MapsTraversed: traversed, TotalMoves: totalMoves, HMsRequired: hmOrder, Transitions: transitions, Err: err}
			}

			var entry Node
			kind := TransitionConnection
			if exit.isTeleport {
				if t, ok := graph.TeleportAt(goal.X, goal.Y); ok {
					entry = teleportDestinationNode(nextGraph, t)
				} else {
					entry = Node{X: nextGraph.Width / 2, Y: nextGraph.Height / 2}
				}
				kind = TransitionTeleport
			} else {
				entry = entryFor(nextGraph, exit)
			}

			transitions = append(transitions, Transition{
				FromMap: mapID, FromPos: goal,
				ToMap: nextMap, ToPos: entry,
				Kind: kind,
			})
			curX, curY = entry.X, entry.Y
		}
	}

	return RoutePlan{
		Success:       true,
		Segments:      segments,
		MapsTraversed: traversed,
		TotalMoves:    totalMoves,
		HMsRequired:   hmOrder,
		Transitions:   transitions,
	}
}

// teleportDestinationNode resolves a warp's destination position on the
// next map. Destination warps are identified by index (DestinationWarpID)
// into the destination map's own teleport list, per §3's Teleport entity.
func teleportDestinationNode(destGraph *MapGraph, t TeleportDescriptor) Node {
	dest := destGraph.Teleports()
	if t.DestinationWarpID >= 0 && t.DestinationWarpID < len(dest) {
		d := dest[t.DestinationWarpID]
		return Node{X: d.X, Y: d.Y}
	}
	return Node{X: destGraph.Width / 2, Y: destGraph.Height / 2}
}
