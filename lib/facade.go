package lib

import (
	"context"
)

// FindPath is the public façade of §4.7: the single entry point external
// callers use. It validates input, translates Preferences into a
// WeightPolicy, and delegates to a RegionRouter spanning the full cross-map
// route. ctx is honored at MapStore load boundaries (and for tracing spans
// an instrumented loader may attach) — a mid-search cancellation does not
// abort an in-flight per-map A* call, since §4.4/§4.5 bound search cost by
// max_iterations rather than by wall clock.
func FindPath(ctx context.Context, router *RegionRouter, from, to Coordinate, hms HMSet, prefs Preferences, defeated map[string]bool) RoutePlan {
	if from.MapID == "" || to.MapID == "" {
		return RoutePlan{Success: false, Err: ErrMalformedInput}
	}
	if from.X < 0 || from.Y < 0 {
		return RoutePlan{Success: false, Err: ErrMalformedInput}
	}
	// to is either the (-1,-1) "unspecified, route to map centre" sentinel
	// or a fully non-negative coordinate; anything else (one negative
	// field, or a negative value other than the sentinel) is malformed
	// rather than silently treated as unspecified.
	toSpecified := to.X >= 0 && to.Y >= 0
	toUnspecified := to.X == -1 && to.Y == -1
	if !toSpecified && !toUnspecified {
		return RoutePlan{Success: false, Err: ErrMalformedInput}
	}
	if prefs.Override != nil && hasNegativeWeight(*prefs.Override) {
		return RoutePlan{Success: false, Err: ErrMalformedInput}
	}

	policy := PreferencesToPolicy(prefs)

	plan := router.FindRoute(ctx, from, to, toSpecified, hms, policy, defeated)
	return plan
}

func hasNegativeWeight(p WeightPolicy) bool {
	return p.Walkable < 0 || p.Grass < 0 || p.Water < 0 || p.CutObstacle < 0 || p.PushObstacle < 0 || p.TrainerVisionCost < 0
}
