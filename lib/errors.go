package lib

import "errors"

// Sentinel errors for the §7 failure taxonomy. Nothing in the core retries
// internally and nothing is logged from inside a search; every failure
// surfaces as one of these, attached to a RoutePlan's Err field rather than
// bubbling up as a returned error — FindPath returns only a RoutePlan, and
// the malformed-input (programmer error) class, §7 item 5, is reported the
// same way.
var (
	// ErrUnreachable: the goal is not reachable within a map segment; the
	// open set drained before reaching it.
	ErrUnreachable = errors.New("navcore: goal unreachable")

	// ErrIterationCap: A* exceeded max_iterations on a map segment.
	ErrIterationCap = errors.New("navcore: iteration cap reached")

	// ErrNoMapSequence: the region BFS could not connect source and
	// destination maps.
	ErrNoMapSequence = errors.New("navcore: no map sequence connects source and destination")

	// ErrUnknownMap: a map descriptor failed to load.
	ErrUnknownMap = errors.New("navcore: unknown or unloadable map")

	// ErrMalformedInput: an empty map id, a negative `from` coordinate, a
	// negative `to` coordinate other than the (-1,-1) "map centre" sentinel,
	// a negative weight in a policy override, a search endpoint outside the
	// map, or a descriptor with bad dimensions or keys. Unknown facing tokens
	// are not rejected (they fall back to Down).
	ErrMalformedInput = errors.New("navcore: malformed input")
)
