package collision

import "fmt"

// Phase is where a collidable actor is in its per-frame update. Phases are
// entered strictly in declaration order, once per frame.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseInputApplied
	PhaseCollisionTested
	PhaseResponseHandled
	PhaseMovementCommittedOrVetoed
	PhasePrimitiveSynced
)

var phaseNames = [...]string{
	PhaseIdle:                      "idle",
	PhaseInputApplied:              "input_applied",
	PhaseCollisionTested:           "collision_tested",
	PhaseResponseHandled:           "response_handled",
	PhaseMovementCommittedOrVetoed: "movement_committed_or_vetoed",
	PhasePrimitiveSynced:           "primitive_synced",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}
