package lib

import (
	"context"
	"fmt"
	"testing"
)

// memLoader is an in-memory MapLoader for tests: a fixed table of
// descriptors, no I/O.
type memLoader struct {
	maps map[string]MapDescriptor
}

func (m *memLoader) LoadMapDescriptor(_ context.Context, mapID string) (MapDescriptor, error) {
	d, ok := m.maps[mapID]
	if !ok {
		return MapDescriptor{}, fmt.Errorf("no such map: %s", mapID)
	}
	return d, nil
}

func newTestStore(t *testing.T, maps ...MapDescriptor) *MapStore {
	t.Helper()
	table := make(map[string]MapDescriptor, len(maps))
	for _, d := range maps {
		table[CanonicalizeMapID(d.MapID)] = d
	}
	return NewMapStore(&memLoader{maps: table})
}

func TestFindPathDegenerate(t *testing.T) {
	store := newTestStore(t, gridDescriptor("PALLETTOWN", 10, 10))
	router := NewRegionRouter(store)

	from := NewCoordinate("PALLETTOWN", 5, 5)
	to := NewCoordinate("PALLETTOWN", 5, 5)
	plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)

	if !plan.Success {
		t.Fatalf("expected success, got err=%v", plan.Err)
	}
	if plan.TotalMoves != 0 {
		t.Errorf("total_moves = %d, want 0", plan.TotalMoves)
	}
	if len(plan.HMsRequired) != 0 {
		t.Errorf("hms_required = %v, want none", plan.HMsRequired)
	}
	if len(plan.Segments) != 1 || len(plan.Segments[0].Moves) != 0 {
		t.Errorf("segments = %+v, want one empty-move segment", plan.Segments)
	}
}

func TestFindPathCrossMap(t *testing.T) {
	pallet := gridDescriptor("PALLETTOWN", 10, 10)
	pallet.Connections = map[string]ConnectionDescriptor{
		"EAST": {Map: "ROUTE1", Offset: 0},
	}
	route1 := gridDescriptor("ROUTE1", 10, 10)
	route1.Connections = map[string]ConnectionDescriptor{
		"WEST": {Map: "PALLETTOWN", Offset: 0},
	}

	store := newTestStore(t, pallet, route1)
	router := NewRegionRouter(store)

	from := NewCoordinate("PALLETTOWN", 5, 5)
	to := Coordinate{MapID: CanonicalizeMapID("ROUTE1"), X: -1, Y: -1}
	plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)

	if !plan.Success {
		t.Fatalf("expected success, got err=%v", plan.Err)
	}
	if len(plan.MapsTraversed) != 2 || plan.MapsTraversed[0] != "PALLETTOWN" || plan.MapsTraversed[1] != "ROUTE1" {
		t.Fatalf("maps_traversed = %v, want [PALLETTOWN ROUTE1]", plan.MapsTraversed)
	}
	if len(plan.Transitions) != 1 {
		t.Fatalf("transitions = %v, want exactly 1", plan.Transitions)
	}
	tr := plan.Transitions[0]
	if tr.FromMap != "PALLETTOWN" || tr.ToMap != "ROUTE1" || tr.Kind != TransitionConnection {
		t.Errorf("transition = %+v, want PALLETTOWN->ROUTE1 via connection", tr)
	}
}

func TestFindPathCrossMapTeleport(t *testing.T) {
	cave := gridDescriptor("ROCKTUNNEL", 10, 10)
	cave.Warps = []TeleportDescriptor{
		{X: 3, Y: 3, DestinationMap: "CERULEANCITY", DestinationWarpID: 0},
	}
	city := gridDescriptor("CERULEANCITY", 10, 10)
	city.Warps = []TeleportDescriptor{
		{X: 7, Y: 7, DestinationMap: "ROCKTUNNEL", DestinationWarpID: 0},
	}

	store := newTestStore(t, cave, city)
	router := NewRegionRouter(store)

	from := NewCoordinate("ROCKTUNNEL", 0, 0)
	to := Coordinate{MapID: CanonicalizeMapID("CERULEANCITY"), X: -1, Y: -1}
	plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)

	if !plan.Success {
		t.Fatalf("expected success, got err=%v", plan.Err)
	}
	if len(plan.Transitions) != 1 {
		t.Fatalf("transitions = %v, want exactly 1", plan.Transitions)
	}
	tr := plan.Transitions[0]
	if tr.Kind != TransitionTeleport {
		t.Errorf("transition kind = %v, want %v", tr.Kind, TransitionTeleport)
	}
	if tr.FromPos.X != 3 || tr.FromPos.Y != 3 {
		t.Errorf("transition from_pos = %+v, want the warp tile (3,3)", tr.FromPos)
	}
	if tr.ToPos.X != 7 || tr.ToPos.Y != 7 {
		t.Errorf("transition to_pos = %+v, want the destination warp (7,7)", tr.ToPos)
	}
}

func TestFindPathMapIDCanonicalizationEquivalence(t *testing.T) {
	store := newTestStore(t, gridDescriptor("FOOBAR", 8, 8))
	router := NewRegionRouter(store)

	variants := []string{"FOO_BAR", "FOOBAR", "foobar"}
	var plans []RoutePlan
	for _, v := range variants {
		from := NewCoordinate(v, 0, 0)
		to := NewCoordinate(v, 7, 7)
		plans = append(plans, FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil))
	}
	for i := 1; i < len(plans); i++ {
		if plans[i].Success != plans[0].Success || plans[i].TotalMoves != plans[0].TotalMoves {
			t.Fatalf("map-id variant %q produced a different plan than %q: %+v vs %+v", variants[i], variants[0], plans[i], plans[0])
		}
	}
}

func TestFindPathMalformedInput(t *testing.T) {
	store := newTestStore(t, gridDescriptor("PALLETTOWN", 10, 10))
	router := NewRegionRouter(store)

	from := Coordinate{MapID: "PALLETTOWN", X: -1, Y: 0}
	to := NewCoordinate("PALLETTOWN", 5, 5)
	plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)
	if plan.Success {
		t.Fatalf("expected malformed-input rejection, got success")
	}
	if plan.Err == nil {
		t.Fatalf("expected an error naming the failure")
	}
}

func TestFindPathMalformedToCoordinate(t *testing.T) {
	store := newTestStore(t, gridDescriptor("PALLETTOWN", 10, 10))
	router := NewRegionRouter(store)
	from := NewCoordinate("PALLETTOWN", 0, 0)

	// A negative-but-not-(-1,-1) `to` is not the "unspecified" sentinel and
	// must be rejected rather than silently treated as "route to centre".
	cases := []Coordinate{
		{MapID: "PALLETTOWN", X: -5, Y: 3},
		{MapID: "PALLETTOWN", X: 3, Y: -5},
		{MapID: "PALLETTOWN", X: -1, Y: 3},
	}
	for _, to := range cases {
		plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)
		if plan.Success {
			t.Errorf("to=%+v: expected malformed-input rejection, got success", to)
		}
		if plan.Err == nil {
			t.Errorf("to=%+v: expected an error naming the failure", to)
		}
	}
}

func TestFindPathNoMapSequence(t *testing.T) {
	store := newTestStore(t, gridDescriptor("ISLAND_A", 5, 5), gridDescriptor("ISLAND_B", 5, 5))
	router := NewRegionRouter(store)

	from := NewCoordinate("ISLAND_A", 0, 0)
	to := NewCoordinate("ISLAND_B", 0, 0)
	plan := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)
	if plan.Success {
		t.Fatalf("expected failure: islands are not connected")
	}
	if len(plan.MapsTraversed) != 1 || plan.MapsTraversed[0] != "ISLANDA" {
		t.Errorf("maps_traversed = %v, want just the source map", plan.MapsTraversed)
	}
}

func TestVisionAvoidanceAndMonotonicity(t *testing.T) {
	// S5: one NPC at (5,5) facing Down, vision 4, blocking (5,6)-(5,9).
	d := gridDescriptor("S5MAP", 11, 11)
	d.Trainers = []TrainerDescriptor{
		{X: 5, Y: 5, Facing: "DOWN", Class: "bug_catcher", TeamIndex: 0, VisionRange: 4, TrainerID: "bug_catcher_1"},
	}
	store := newTestStore(t, d)
	router := NewRegionRouter(store)

	from := NewCoordinate("S5MAP", 5, 0)
	to := NewCoordinate("S5MAP", 5, 10)

	undefeated := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), nil)
	if !undefeated.Success {
		t.Fatalf("expected a detour to succeed, got err=%v", undefeated.Err)
	}
	seg := undefeated.Segments[0]
	x, y := 5, 0
	for _, mv := range seg.Moves {
		dx, dy := mv.Delta()
		x, y = x+dx, y+dy
		for vy := 6; vy <= 9; vy++ {
			if x == 5 && y == vy {
				t.Fatalf("avoid_trainers plan still stepped onto projected tile (5,%d)", vy)
			}
		}
	}

	defeated := map[string]bool{"bug_catcher_1": true}
	afterDefeat := FindPath(context.Background(), router, from, to, NewHMSet(), DefaultPreferences(), defeated)
	if !afterDefeat.Success {
		t.Fatalf("expected success once the trainer is defeated, got err=%v", afterDefeat.Err)
	}
	if afterDefeat.TotalMoves > undefeated.TotalMoves {
		t.Errorf("defeating the trainer increased total_moves: %d -> %d", undefeated.TotalMoves, afterDefeat.TotalMoves)
	}
}

func TestVisionMonotonicityProjection(t *testing.T) {
	npcs := []NPC{{TrainerID: "t1", X: 2, Y: 2, Facing: Down, VisionLength: 3}}
	dims := MapDims{Width: 10, Height: 10}
	blocked := func(x, y int) bool { return false }

	full := ProjectVision(npcs, nil, dims, blocked)
	afterDefeat := ProjectVision(npcs, map[string]bool{"t1": true}, dims, blocked)

	if len(afterDefeat) != 0 {
		t.Errorf("defeated NPC should project nothing, got %v", afterDefeat)
	}
	if len(full) == 0 {
		t.Errorf("live NPC should project a non-empty field")
	}
	for n := range afterDefeat {
		if _, ok := full[n]; !ok {
			t.Errorf("defeated projection %v is not a subset of the live projection", n)
		}
	}
}
