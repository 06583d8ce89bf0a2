package lib

// Named weight-policy presets, grounded on the source's TileWeights
// classmethods (avoid_encounters, seek_encounters, speed_run).

// AvoidEncountersPolicy penalizes grass heavily to steer around wild
// encounters; everything else stays at default.
func AvoidEncountersPolicy() WeightPolicy {
	p := DefaultWeightPolicy()
	p.Grass = 5.0
	return p
}

// SeekEncountersPolicy makes grass cheaper than plain ground so the planner
// prefers routes through it, for grinding.
func SeekEncountersPolicy() WeightPolicy {
	p := DefaultWeightPolicy()
	p.Grass = 0.5
	return p
}

// SpeedRunPolicy flattens grass to a normal walkable cost and raises the
// trainer-vision cost so only a truly unavoidable battle is accepted.
func SpeedRunPolicy() WeightPolicy {
	p := DefaultWeightPolicy()
	p.Grass = 1.0
	p.TrainerVisionCost = 1000.0
	return p
}

// Preferences is the façade's boolean-level preference bundle (§4.7).
type Preferences struct {
	AvoidGrass    bool
	AvoidTrainers bool
	// Override, if non-nil, replaces the derived policy outright.
	Override *WeightPolicy
}

// DefaultPreferences matches §4.7's stated defaults: avoid grass and
// trainers unless told otherwise.
func DefaultPreferences() Preferences {
	return Preferences{AvoidGrass: true, AvoidTrainers: true}
}

// PreferencesToPolicy translates the façade's booleans into a concrete
// WeightPolicy per §4.7: avoid_grass -> grass=5.0 else 1.0; avoid_trainers
// -> vision_cost=100 else 1.0. An explicit override always wins.
func PreferencesToPolicy(p Preferences) WeightPolicy {
	if p.Override != nil {
		return *p.Override
	}
	policy := DefaultWeightPolicy()
	if p.AvoidGrass {
		policy.Grass = 5.0
	} else {
		policy.Grass = 1.0
	}
	if p.AvoidTrainers {
		policy.TrainerVisionCost = 100.0
	} else {
		policy.TrainerVisionCost = 1.0
	}
	return policy
}
