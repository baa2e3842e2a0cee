package main

import (
	"bytes"
	"strings"
	"testing"

	"workbench/internal/api"
	"workbench/internal/workbench"
)

func TestStatusPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := newStatusPrinter(&buf)
	if p.colorize {
		t.Fatal("a buffer is not a terminal")
	}
	p.section("Station")
	p.state(workbench.StateProductionStageOngoing)
	p.state(workbench.StateAwaitLogin)
	p.state(workbench.State("Bogus"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"== Station ==",
		"[OK] ProductionStageOngoing",
		"[WARN] AwaitLogin",
		"[ERROR] Bogus",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], w) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], w)
		}
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("plain output must not carry escape codes")
	}
}

func TestEveryStateHasAColour(t *testing.T) {
	for _, state := range []workbench.State{
		workbench.StateAwaitLogin,
		workbench.StateAuthorizedIdling,
		workbench.StateUnitAssignedIdling,
		workbench.StateGatherComponents,
		workbench.StateProductionStageOngoing,
	} {
		if _, ok := stateKinds[state]; !ok {
			t.Errorf("state %s has no status kind", state)
		}
	}
}

func TestRenderSnapshotListsComponentSlots(t *testing.T) {
	board := "4006381333931"
	out := renderSnapshot(workbench.Snapshot{
		State:          workbench.StateGatherComponents,
		UnitInternalID: "9052119990476",
		UnitComponents: map[string]*string{"board": &board, "antenna": nil},
	})
	for _, want := range []string{"Component antenna", "(empty slot)", "Component board", board, "9052119990476"} {
		if !strings.Contains(out, want) {
			t.Fatalf("snapshot table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Component antenna") > strings.Index(out, "Component board") {
		t.Fatal("component slots should be sorted")
	}
}

func TestRenderUnitNumbersBiography(t *testing.T) {
	info := api.UnitInfo{
		UnitOut:                api.UnitOut{UnitInternalID: "9052119990476"},
		UnitStatus:             "production",
		SchemaID:               "station",
		UnitBiographyCompleted: []api.BiographyStage{{StageName: "assemble"}},
		UnitBiographyPending:   []api.BiographyStage{{StageName: "test"}},
	}
	out := renderUnit(info)
	assemble, test := strings.Index(out, "assemble"), strings.Index(out, "test")
	if assemble < 0 || test < 0 || assemble > test {
		t.Fatalf("biography order wrong:\n%s", out)
	}
	if !strings.Contains(out, "completed") || !strings.Contains(out, "pending") {
		t.Fatalf("stage states missing:\n%s", out)
	}

	info.UnitBiographyCompleted, info.UnitBiographyPending = nil, nil
	if strings.Contains(renderUnit(info), "Biography") {
		t.Fatal("a unit without stages should not print a biography table")
	}
}
