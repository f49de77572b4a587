package components

// LifePhase is the stage of an organism's growth cycle.
type LifePhase uint8

const (
	PhaseSeed LifePhase = iota
	PhaseGerminated
	PhaseGrowing
	PhaseMature
	PhasePollinated
	PhaseFruiting
	PhaseDeath
)

// String returns the display name for a LifePhase.
func (p LifePhase) String() string {
	names := LifePhaseNames()
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// LifePhaseNames returns the names of all life phases.
// The order matches the LifePhase constants.
func LifePhaseNames() []string {
	return []string{"seed", "germinated", "growing", "mature", "pollinated", "fruiting", "death"}
}

// LifePhaseCount returns the number of life phases.
func LifePhaseCount() int {
	return len(LifePhaseNames())
}

// Depleting reports whether the phase consumes a Needs record.
func (p LifePhase) Depleting() bool {
	return p == PhaseGrowing || p == PhasePollinated
}
