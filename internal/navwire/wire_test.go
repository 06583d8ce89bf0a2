package navwire

import (
	"testing"

	"github.com/pkmnav/navcore/lib"
)

func TestFromRoutePlanStringsMoves(t *testing.T) {
	plan := lib.RoutePlan{
		Success: true,
		Segments: []lib.SegmentPlan{
			{MapID: "PALLETTOWN", Moves: []lib.Direction{lib.Up, lib.Right}},
		},
		MapsTraversed: []string{"PALLETTOWN"},
		TotalMoves:    2,
		HMsRequired:   []lib.HM{lib.Cut},
		Transitions: []lib.Transition{
			{FromMap: "PALLETTOWN", FromPos: lib.Node{X: 9, Y: 5}, ToMap: "ROUTE1", ToPos: lib.Node{X: 0, Y: 5}, Kind: lib.TransitionConnection},
		},
	}

	w := FromRoutePlan(plan)
	if !w.Success {
		t.Fatalf("wire.Success = false, want true")
	}
	if len(w.Segments) != 1 || len(w.Segments[0].Moves) != 2 {
		t.Fatalf("segments = %+v", w.Segments)
	}
	if w.Segments[0].Moves[0] != "Up" && w.Segments[0].Moves[0] != lib.Up.String() {
		t.Errorf("move[0] = %q, want Direction.String() form", w.Segments[0].Moves[0])
	}
	if len(w.HMsRequired) != 1 || w.HMsRequired[0] != string(lib.Cut) {
		t.Errorf("hms_required = %v", w.HMsRequired)
	}
	if len(w.Transitions) != 1 || w.Transitions[0].Kind != string(lib.TransitionConnection) {
		t.Errorf("transitions = %+v", w.Transitions)
	}
	if w.Transitions[0].FromPos != [2]int{9, 5} || w.Transitions[0].ToPos != [2]int{0, 5} {
		t.Errorf("transition positions = %+v", w.Transitions[0])
	}
}

func TestToFindPathArgsDefaultsUnspecifiedTo(t *testing.T) {
	req := FindPathRequestWire{
		FromMapID: "PALLETTOWN",
		FromX:     5,
		FromY:     5,
		ToMapID:   "ROUTE1",
		HMs:       []string{"Cut", "Surf"},
	}

	from, to, hms, prefs, defeated := ToFindPathArgs(req)
	if from.MapID != "PALLETTOWN" || from.X != 5 || from.Y != 5 {
		t.Errorf("from = %+v", from)
	}
	if to.X != -1 || to.Y != -1 {
		t.Errorf("to = %+v, want unspecified sentinel (-1,-1)", to)
	}
	if !hms.Has(lib.HM("Cut")) || !hms.Has(lib.HM("Surf")) {
		t.Errorf("hms = %+v, want Cut and Surf", hms)
	}
	if prefs != lib.DefaultPreferences() {
		t.Errorf("prefs = %+v, want defaults when override pointers are nil", prefs)
	}
	if defeated != nil {
		t.Errorf("defeated = %+v, want nil for an empty list", defeated)
	}
}

func TestToFindPathArgsAppliesOverrides(t *testing.T) {
	avoidGrass := false
	avoidTrainers := false
	x, y := 3, 4
	req := FindPathRequestWire{
		FromMapID:     "PALLETTOWN",
		ToMapID:       "PALLETTOWN",
		ToX:           &x,
		ToY:           &y,
		AvoidGrass:    &avoidGrass,
		AvoidTrainers: &avoidTrainers,
		Defeated:      []string{"bug_catcher_1"},
	}

	_, to, _, prefs, defeated := ToFindPathArgs(req)
	if to.X != 3 || to.Y != 4 {
		t.Errorf("to = %+v, want (3,4)", to)
	}
	if prefs.AvoidGrass || prefs.AvoidTrainers {
		t.Errorf("prefs = %+v, want both overridden to false", prefs)
	}
	if !defeated["bug_catcher_1"] {
		t.Errorf("defeated = %+v, want bug_catcher_1", defeated)
	}
}
