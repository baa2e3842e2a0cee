package workbench

import (
	"slices"

	"github.com/looplab/fsm"
)

// State is a workbench machine state.
type State string

const (
	StateAwaitLogin             State = "AwaitLogin"
	StateAuthorizedIdling       State = "AuthorizedIdling"
	StateUnitAssignedIdling     State = "UnitAssignedIdling"
	StateGatherComponents       State = "GatherComponents"
	StateProductionStageOngoing State = "ProductionStageOngoing"
)

// transitions lists, per target state, the states it may be entered from.
// Events are named after their target.
var transitions = map[State][]State{
	StateAuthorizedIdling:       {StateAwaitLogin, StateUnitAssignedIdling, StateGatherComponents},
	StateAwaitLogin:             {StateAuthorizedIdling},
	StateUnitAssignedIdling:     {StateAuthorizedIdling, StateGatherComponents, StateProductionStageOngoing},
	StateGatherComponents:       {StateAuthorizedIdling},
	StateProductionStageOngoing: {StateUnitAssignedIdling},
}

func newMachine(initial State) *fsm.FSM {
	events := make(fsm.Events, 0, len(transitions))
	for dst, sources := range transitions {
		src := make([]string, 0, len(sources))
		for _, s := range sources {
			src = append(src, string(s))
		}
		events = append(events, fsm.EventDesc{Name: string(dst), Src: src, Dst: string(dst)})
	}
	return fsm.NewFSM(string(initial), events, fsm.Callbacks{})
}

// CanTransition reports whether the table allows moving from one state to
// another.
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[to], from)
}
