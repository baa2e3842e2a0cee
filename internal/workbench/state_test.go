package workbench

import (
	"context"
	"testing"
)

var allStates = []State{
	StateAwaitLogin,
	StateAuthorizedIdling,
	StateUnitAssignedIdling,
	StateGatherComponents,
	StateProductionStageOngoing,
}

func TestTransitionTable(t *testing.T) {
	legal := map[[2]State]bool{
		{StateAwaitLogin, StateAuthorizedIdling}:               true,
		{StateAuthorizedIdling, StateUnitAssignedIdling}:       true,
		{StateAuthorizedIdling, StateGatherComponents}:         true,
		{StateAuthorizedIdling, StateAwaitLogin}:               true,
		{StateGatherComponents, StateAuthorizedIdling}:         true,
		{StateGatherComponents, StateUnitAssignedIdling}:       true,
		{StateUnitAssignedIdling, StateAuthorizedIdling}:       true,
		{StateUnitAssignedIdling, StateProductionStageOngoing}: true,
		{StateProductionStageOngoing, StateUnitAssignedIdling}: true,
	}
	for _, from := range allStates {
		for _, to := range allStates {
			want := legal[[2]State{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
			machine := newMachine(from)
			if got := machine.Can(string(to)); got != want {
				t.Errorf("machine %s can %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestMachineEventMovesState(t *testing.T) {
	machine := newMachine(StateAwaitLogin)
	if err := machine.Event(context.Background(), string(StateAuthorizedIdling)); err != nil {
		t.Fatalf("event: %v", err)
	}
	if machine.Current() != string(StateAuthorizedIdling) {
		t.Fatalf("current = %s", machine.Current())
	}
	if err := machine.Event(context.Background(), string(StateProductionStageOngoing)); err == nil {
		t.Fatal("expected illegal event to fail")
	}
	if machine.Current() != string(StateAuthorizedIdling) {
		t.Fatalf("illegal event changed state to %s", machine.Current())
	}
}
