// Package navwire defines the JSON wire shape of §6 for RoutePlan and its
// inputs, shared by the CLI, the HTTP transport, and the gRPC custom codec
// so all three serialize identically.
package navwire

import "github.com/pkmnav/navcore/lib"

// SegmentWire is one map_id/moves pair in traversal order.
type SegmentWire struct {
	MapID string   `json:"map_id"`
	Moves []string `json:"moves"`
}

// TransitionWire is one map-to-map hop.
type TransitionWire struct {
	FromMap string    `json:"from_map"`
	FromPos [2]int    `json:"from_pos"`
	ToMap   string    `json:"to_map"`
	ToPos   [2]int    `json:"to_pos"`
	Kind    string    `json:"kind"`
}

// RoutePlanWire is the §6 output wire shape.
type RoutePlanWire struct {
	Success       bool             `json:"success"`
	Segments      []SegmentWire    `json:"segments"`
	MapsTraversed []string         `json:"maps_traversed"`
	TotalMoves    int              `json:"total_moves"`
	HMsRequired   []string         `json:"hms_required"`
	Transitions   []TransitionWire `json:"transitions"`
	Error         string           `json:"error,omitempty"`
}

// FromRoutePlan converts the core's RoutePlan into its wire shape.
func FromRoutePlan(plan lib.RoutePlan) RoutePlanWire {
	w := RoutePlanWire{
		Success:       plan.Success,
		MapsTraversed: plan.MapsTraversed,
		TotalMoves:    plan.TotalMoves,
	}
	for _, seg := range plan.Segments {
		sw := SegmentWire{MapID: seg.MapID}
		for _, m := range seg.Moves {
			sw.Moves = append(sw.Moves, m.String())
		}
		w.Segments = append(w.Segments, sw)
	}
	for _, hm := range plan.HMsRequired {
		w.HMsRequired = append(w.HMsRequired, string(hm))
	}
	for _, tr := range plan.Transitions {
		w.Transitions = append(w.Transitions, TransitionWire{
			FromMap: tr.FromMap,
			FromPos: [2]int{tr.FromPos.X, tr.FromPos.Y},
			ToMap:   tr.ToMap,
			ToPos:   [2]int{tr.ToPos.X, tr.ToPos.Y},
			Kind:    string(tr.Kind),
		})
	}
	if plan.Err != nil {
		w.Error = plan.Err.Error()
	}
	return w
}

// FindPathRequestWire is the §6 input wire shape for the HTTP/gRPC
// transports: a JSON document describing a FindPath call.
type FindPathRequestWire struct {
	FromMapID     string   `json:"from_map_id"`
	FromX         int      `json:"from_x"`
	FromY         int      `json:"from_y"`
	ToMapID       string   `json:"to_map_id"`
	ToX           *int     `json:"to_x,omitempty"`
	ToY           *int     `json:"to_y,omitempty"`
	HMs           []string `json:"hms"`
	AvoidGrass    *bool    `json:"avoid_grass,omitempty"`
	AvoidTrainers *bool    `json:"avoid_trainers,omitempty"`
	Defeated      []string `json:"defeated"`
}

// ToFindPathArgs decodes the wire request into the core's argument types.
func ToFindPathArgs(req FindPathRequestWire) (from, to lib.Coordinate, hms lib.HMSet, prefs lib.Preferences, defeated map[string]bool) {
	from = lib.NewCoordinate(req.FromMapID, req.FromX, req.FromY)

	x, y := -1, -1
	if req.ToX != nil {
		x = *req.ToX
	}
	if req.ToY != nil {
		y = *req.ToY
	}
	to = lib.NewCoordinate(req.ToMapID, x, y)

	hmList := make([]lib.HM, 0, len(req.HMs))
	for _, s := range req.HMs {
		hmList = append(hmList, lib.HM(s))
	}
	hms = lib.NewHMSet(hmList...)

	prefs = lib.DefaultPreferences()
	if req.AvoidGrass != nil {
		prefs.AvoidGrass = *req.AvoidGrass
	}
	if req.AvoidTrainers != nil {
		prefs.AvoidTrainers = *req.AvoidTrainers
	}

	if len(req.Defeated) > 0 {
		defeated = make(map[string]bool, len(req.Defeated))
		for _, id := range req.Defeated {
			defeated[id] = true
		}
	}
	return
}
