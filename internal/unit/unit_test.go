package unit_test

import (
	"errors"
	"testing"
	"time"

	"workbench/internal/faults"
	"workbench/internal/unit"
)

func twoStageSchema() unit.Schema {
	return unit.Schema{
		SchemaID: "board",
		UnitName: "Controller board",
		ProductionStages: []unit.SchemaStage{
			{Name: "soldering", StageID: "s1"},
			{Name: "testing", StageID: "s2"},
		},
	}
}

func compositeSchema(required ...string) unit.Schema {
	return unit.Schema{
		SchemaID:             "robot",
		UnitName:             "Robot",
		ProductionStages:     []unit.SchemaStage{{Name: "final assembly", StageID: "f1"}},
		RequiredComponentIDs: required,
	}
}

func componentSchema(id string) unit.Schema {
	return unit.Schema{SchemaID: id, UnitName: "Part " + id, ParentSchemaID: "robot"}
}

func mustNew(t *testing.T, schema unit.Schema) *unit.Unit {
	t.Helper()
	u, err := unit.New(schema)
	if err != nil {
		t.Fatalf("unit.New: %v", err)
	}
	return u
}

var operator = unit.Employee{CardID: "1111111111", Name: "John Doe", Position: "Assembler"}

func TestNewUnitWithoutStagesIsBuilt(t *testing.T) {
	u := mustNew(t, unit.Schema{SchemaID: "bolt", UnitName: "Bolt"})
	if u.Status != unit.StatusBuilt {
		t.Fatalf("expected built status, got %s", u.Status)
	}
	if len(u.Biography) != 0 {
		t.Fatalf("expected empty biography, got %d stages", len(u.Biography))
	}
}

func TestNewUnitIdentityAndBiography(t *testing.T) {
	u := mustNew(t, twoStageSchema())
	if u.Status != unit.StatusProduction {
		t.Fatalf("expected production status, got %s", u.Status)
	}
	if len(u.UUID) != 32 {
		t.Fatalf("expected 32 hex char uuid, got %q", u.UUID)
	}
	if !unit.IsEAN13(u.InternalID) {
		t.Fatalf("expected EAN-13 internal id, got %q", u.InternalID)
	}
	want, _ := unit.InternalIDFromUUID(u.UUID)
	if u.InternalID != want {
		t.Fatalf("internal id %q not derived from uuid (%q)", u.InternalID, want)
	}
	for i, stage := range u.Biography {
		if stage.Number != i || stage.ParentUnitUUID != u.UUID || stage.Completed {
			t.Fatalf("unexpected stage %d: %+v", i, stage)
		}
	}
	if u.AssignedComponents() != nil {
		t.Fatal("non composite unit should report no component map")
	}
	if !u.ComponentsFilled() {
		t.Fatal("unit without slots is always filled")
	}
}

func TestStageLifecycleFlipsStatusOnce(t *testing.T) {
	u := mustNew(t, twoStageSchema())
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := u.StartOperation(operator, map[string]string{"bench": "A"}, start); err != nil {
			t.Fatalf("StartOperation %d: %v", i, err)
		}
		if u.Employee == nil {
			t.Fatal("expected operator attached to unit")
		}
		built, err := u.EndOperation(unit.StageEnd{At: start.Add(10 * time.Minute)})
		if err != nil {
			t.Fatalf("EndOperation %d: %v", i, err)
		}
		if wantBuilt := i == 1; built != wantBuilt {
			t.Fatalf("stage %d: built=%v want %v", i, built, wantBuilt)
		}
		start = start.Add(time.Hour)
	}

	if u.Status != unit.StatusBuilt {
		t.Fatalf("expected built, got %s", u.Status)
	}
	if u.Employee != nil {
		t.Fatal("expected operator cleared once built")
	}
	if got := u.Biography[0].EmployeeCode; got != operator.PassportCode() {
		t.Fatalf("stage carries %q instead of passport code", got)
	}
	if got := u.TotalAssemblyTime(time.Now()); got != 20*time.Minute {
		t.Fatalf("unexpected total assembly time %s", got)
	}
	if _, err := u.EndOperation(unit.StageEnd{At: time.Now()}); !errors.Is(err, faults.ErrStateForbidden) {
		t.Fatalf("expected error without pending stage, got %v", err)
	}
	if err := u.StartOperation(operator, nil, time.Now()); err == nil {
		t.Fatal("expected error starting a built unit")
	}
}

func TestPrematureEndDuplicatesStage(t *testing.T) {
	u := mustNew(t, unit.Schema{
		SchemaID: "three",
		UnitName: "Three",
		ProductionStages: []unit.SchemaStage{
			{Name: "a", StageID: "a"}, {Name: "b", StageID: "b"}, {Name: "c", StageID: "c"},
		},
	})
	now := time.Now()
	if err := u.StartOperation(operator, nil, now); err != nil {
		t.Fatalf("StartOperation a: %v", err)
	}
	if _, err := u.EndOperation(unit.StageEnd{At: now}); err != nil {
		t.Fatalf("EndOperation a: %v", err)
	}
	if err := u.StartOperation(operator, map[string]string{"k": "old", "keep": "1"}, now); err != nil {
		t.Fatalf("StartOperation b: %v", err)
	}
	built, err := u.EndOperation(unit.StageEnd{
		At:               now.Add(time.Minute),
		Premature:        true,
		Metadata:         map[string]string{"k": "new"},
		VideoHashes:      []string{"QmVideo"},
		UnfinishedSuffix: "(unfinished)",
	})
	if err != nil || built {
		t.Fatalf("EndOperation b: built=%v err=%v", built, err)
	}

	if len(u.Biography) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(u.Biography))
	}
	for i, stage := range u.Biography {
		if stage.Number != i {
			t.Fatalf("stage %d has number %d", i, stage.Number)
		}
	}
	original, dup, last := u.Biography[1], u.Biography[2], u.Biography[3]
	if original.Name != "b (unfinished)" || !original.EndedPrematurely || !original.Completed {
		t.Fatalf("unexpected original stage %+v", original)
	}
	if original.Metadata["k"] != "new" || original.Metadata["keep"] != "1" {
		t.Fatalf("unexpected merged metadata %v", original.Metadata)
	}
	if len(original.VideoHashes) != 1 {
		t.Fatalf("expected video hash on original, got %v", original.VideoHashes)
	}
	if dup.Name != "b" || dup.Completed || dup.SchemaStageID != "b" || dup.SessionStart != nil {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
	if last.Name != "c" {
		t.Fatalf("expected c after duplicate, got %q", last.Name)
	}
	if u.NextPendingOperation() != dup {
		t.Fatal("duplicate should be the next pending stage")
	}
	pending := 0
	for _, stage := range u.Biography[:3] {
		if !stage.Completed {
			pending++
		}
	}
	if pending != 1 {
		t.Fatalf("expected exactly one pending of original+duplicate, got %d", pending)
	}
}

func TestEndOperationMergesIntoEmptyMetadata(t *testing.T) {
	u := mustNew(t, twoStageSchema())
	if err := u.StartOperation(operator, nil, time.Now()); err != nil {
		t.Fatalf("StartOperation: %v", err)
	}
	if _, err := u.EndOperation(unit.StageEnd{At: time.Now(), Metadata: map[string]string{"note": "ok"}}); err != nil {
		t.Fatalf("EndOperation: %v", err)
	}
	if u.Biography[0].Metadata["note"] != "ok" {
		t.Fatalf("expected metadata recorded, got %v", u.Biography[0].Metadata)
	}
}

func TestAssignComponentRules(t *testing.T) {
	composite := mustNew(t, compositeSchema("c1", "c2"))
	other := mustNew(t, compositeSchema("c1"))
	c1 := mustNew(t, componentSchema("c1"))
	stray := mustNew(t, componentSchema("c9"))

	inProgress := mustNew(t, unit.Schema{SchemaID: "c2", UnitName: "Part c2", ProductionStages: []unit.SchemaStage{{Name: "x", StageID: "x"}}})

	if composite.ComponentsFilled() {
		t.Fatal("composite with empty slots reports filled")
	}
	if err := composite.AssignComponent(stray); !isReason(err, unit.ReasonNotAComponent) {
		t.Fatalf("expected not-a-component, got %v", err)
	}
	if err := composite.AssignComponent(inProgress); !isReason(err, unit.ReasonComponentNotBuilt) {
		t.Fatalf("expected not-built, got %v", err)
	}
	if err := composite.AssignComponent(c1); err != nil {
		t.Fatalf("AssignComponent c1: %v", err)
	}
	if c1.FeaturedIn != composite.InternalID {
		t.Fatalf("expected back reference %s, got %s", composite.InternalID, c1.FeaturedIn)
	}
	duplicate := mustNew(t, componentSchema("c1"))
	if err := composite.AssignComponent(duplicate); !isReason(err, unit.ReasonSlotTaken) {
		t.Fatalf("expected slot taken, got %v", err)
	}
	err := other.AssignComponent(c1)
	if !isReason(err, unit.ReasonComponentUsed) {
		t.Fatalf("expected component used, got %v", err)
	}
	if !errors.Is(err, faults.ErrAssemblyConflict) {
		t.Fatalf("expected assembly conflict marker, got %v", err)
	}
	if c1.FeaturedIn != composite.InternalID {
		t.Fatal("failed assignment must not move the back reference")
	}

	assigned := composite.AssignedComponents()
	if len(assigned) != 2 || assigned["c1"] == nil || *assigned["c1"] != c1.InternalID || assigned["c2"] != nil {
		t.Fatalf("unexpected component map %v", assigned)
	}

	c2 := mustNew(t, unit.Schema{SchemaID: "c2", UnitName: "Part c2"})
	if err := composite.AssignComponent(c2); err != nil {
		t.Fatalf("AssignComponent c2: %v", err)
	}
	if !composite.ComponentsFilled() {
		t.Fatal("expected slots filled")
	}
	if err := composite.AssignComponent(mustNew(t, componentSchema("c1"))); !isReason(err, unit.ReasonSlotsFilled) {
		t.Fatalf("expected slots filled error, got %v", err)
	}
	if got := composite.ComponentInternalIDs(); len(got) != 2 || got[0] != c1.InternalID {
		t.Fatalf("unexpected component ids %v", got)
	}
}

func isReason(err error, reason unit.AssemblyReason) bool {
	var assembly *unit.AssemblyError
	return errors.As(err, &assembly) && assembly.Reason == reason
}

func TestFirstMatchingStatusPreOrder(t *testing.T) {
	root := mustNew(t, compositeSchema("c1", "c2"))
	root.Status = unit.StatusBuilt
	c1 := mustNew(t, unit.Schema{SchemaID: "c1", UnitName: "c1", RequiredComponentIDs: []string{"leaf"}})
	c1.Status = unit.StatusBuilt
	leaf := mustNew(t, unit.Schema{SchemaID: "leaf", UnitName: "leaf"})
	c2 := mustNew(t, unit.Schema{SchemaID: "c2", UnitName: "c2"})

	for _, pair := range [][2]*unit.Unit{{c1, leaf}, {root, c1}, {root, c2}} {
		if err := pair[0].AssignComponent(pair[1]); err != nil {
			t.Fatalf("AssignComponent: %v", err)
		}
	}
	leaf.Status = unit.StatusRevision
	c2.Status = unit.StatusProduction

	got, ok := root.FirstMatchingStatus(unit.StatusProduction, unit.StatusRevision)
	if !ok || got != leaf {
		t.Fatalf("expected leaf (pre-order), got %v", got)
	}
	tree := root.ComponentTree()
	if len(tree) != 4 || tree[0] != root || tree[1] != c1 || tree[2] != leaf || tree[3] != c2 {
		t.Fatal("unexpected pre-order tree")
	}
	if _, ok := c2.FirstMatchingStatus(unit.StatusFinalized); ok {
		t.Fatal("expected no match")
	}
}

func TestRestoreRejectsForeignComponent(t *testing.T) {
	c9 := mustNew(t, componentSchema("c9"))
	_, err := unit.Restore(compositeSchema("c1"), unit.Record{Components: []*unit.Unit{c9}})
	if err == nil {
		t.Fatal("expected error for component outside schema")
	}

	c1 := mustNew(t, componentSchema("c1"))
	restored, err := unit.Restore(compositeSchema("c1", "c2"), unit.Record{
		UUID:       "5f1c2a0e9b7d4c3e8a6f1b2c3d4e5f60",
		Status:     unit.StatusRevision,
		Components: []*unit.Unit{c1},
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.InternalID != "1264228969306" || restored.Status != unit.StatusRevision {
		t.Fatalf("unexpected restored unit %+v", restored)
	}
	if restored.ComponentsFilled() {
		t.Fatal("slot c2 should still be empty")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := unit.ParseStatus("revision"); err != nil || !s.Assemblable() {
		t.Fatalf("ParseStatus(revision) = %v, %v", s, err)
	}
	if _, err := unit.ParseStatus("scrapped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if unit.StatusBuilt.Assemblable() {
		t.Fatal("built units are not assemblable")
	}
}

func TestSchemaDerivedProperties(t *testing.T) {
	s := unit.Schema{UnitName: "Robot arm", UnitShortName: "Arm", ParentSchemaID: "robot"}
	if s.PrintName() != "Arm" || !s.IsAComponent() || s.IsComposite() {
		t.Fatalf("unexpected schema properties %+v", s)
	}
	s = unit.Schema{UnitName: "Robot", RequiredComponentIDs: []string{}}
	if s.PrintName() != "Robot" || !s.IsComposite() || s.IsAComponent() {
		t.Fatalf("unexpected schema properties %+v", s)
	}
}
