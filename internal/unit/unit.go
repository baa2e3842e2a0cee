package unit

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"workbench/internal/faults"
)

// DefaultUnfinishedSuffix marks a stage that was closed before the work was done.
const DefaultUnfinishedSuffix = "(unfinished)"

// Unit is one physical production item.
type Unit struct {
	Schema           Schema
	UUID             string
	InternalID       string
	Status           Status
	Biography        []*ProductionStage
	Components       []*Unit
	FeaturedIn       string
	PassportCID      string
	PassportShortURL string
	TxnHash          string
	SerialNumber     string
	CreatedAt        time.Time
	// Employee is the operator currently working on the unit.
	Employee *Employee

	slots map[string]*Unit
}

// Record carries persisted unit attributes into Restore.
type Record struct {
	UUID             string
	InternalID       string
	Status           Status
	Biography        []*ProductionStage
	Components       []*Unit
	FeaturedIn       string
	PassportCID      string
	PassportShortURL string
	TxnHash          string
	SerialNumber     string
	CreatedAt        time.Time
}

// New creates a fresh unit of the given schema with a random uuid.
func New(schema Schema) (*Unit, error) {
	return Restore(schema, Record{})
}

// Restore rebuilds a unit from stored attributes, filling in the identity,
// biography, and status a fresh unit would get when they are absent.
func Restore(schema Schema, rec Record) (*Unit, error) {
	u := &Unit{
		Schema:           schema,
		UUID:             rec.UUID,
		InternalID:       rec.InternalID,
		Status:           rec.Status,
		Biography:        rec.Biography,
		FeaturedIn:       rec.FeaturedIn,
		PassportCID:      rec.PassportCID,
		PassportShortURL: rec.PassportShortURL,
		TxnHash:          rec.TxnHash,
		SerialNumber:     rec.SerialNumber,
		CreatedAt:        rec.CreatedAt,
	}
	if u.UUID == "" {
		u.UUID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if u.InternalID == "" {
		id, err := InternalIDFromUUID(u.UUID)
		if err != nil {
			return nil, err
		}
		u.InternalID = id
	}
	if u.Status == "" {
		u.Status = StatusProduction
	}
	if len(schema.ProductionStages) == 0 && u.Status == StatusProduction {
		u.Status = StatusBuilt
	}
	if u.Biography == nil {
		u.Biography = NewBiography(schema, u.UUID)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	u.slots = make(map[string]*Unit, len(schema.RequiredComponentIDs))
	for _, id := range schema.RequiredComponentIDs {
		u.slots[id] = nil
	}
	for _, component := range rec.Components {
		slot := component.Schema.SchemaID
		current, ok := u.slots[slot]
		if !ok {
			return nil, fmt.Errorf("component %s (%s) is not part of schema %s", component.InternalID, slot, schema.SchemaID)
		}
		if current != nil {
			return nil, fmt.Errorf("component slot %s of unit %s holds more than one unit", slot, u.InternalID)
		}
		u.slots[slot] = component
		u.Components = append(u.Components, component)
	}
	return u, nil
}

// ModelName is the schema's unit name.
func (u *Unit) ModelName() string {
	return u.Schema.UnitName
}

// ComponentsFilled reports whether every slot holds a component. Units
// without slots are always filled.
func (u *Unit) ComponentsFilled() bool {
	for _, component := range u.slots {
		if component == nil {
			return false
		}
	}
	return true
}

// AssignedComponents maps each required schema id to the internal id of its
// component, or nil while the slot is empty. Nil when the unit has no slots.
func (u *Unit) AssignedComponents() map[string]*string {
	if len(u.slots) == 0 {
		return nil
	}
	out := make(map[string]*string, len(u.slots))
	for slot, component := range u.slots {
		if component == nil {
			out[slot] = nil
			continue
		}
		id := component.InternalID
		out[slot] = &id
	}
	return out
}

// ComponentInternalIDs lists assigned components in assignment order.
func (u *Unit) ComponentInternalIDs() []string {
	ids := make([]string, 0, len(u.Components))
	for _, component := range u.Components {
		ids = append(ids, component.InternalID)
	}
	return ids
}

// NextPendingOperation returns the first stage not yet completed, or nil.
func (u *Unit) NextPendingOperation() *ProductionStage {
	for _, stage := range u.Biography {
		if !stage.Completed {
			return stage
		}
	}
	return nil
}

// StartOperation opens the next pending stage on behalf of employee.
func (u *Unit) StartOperation(employee Employee, metadata map[string]string, at time.Time) error {
	stage := u.NextPendingOperation()
	if stage == nil {
		return faults.Wrap(faults.ErrStateForbidden, "unit", "start operation",
			fmt.Sprintf("unit %s has no pending stages (status %s)", u.InternalID, u.Status), nil)
	}
	stage.SessionStart = &at
	stage.Metadata = maps.Clone(metadata)
	stage.EmployeeCode = employee.PassportCode()
	u.Employee = &employee
	return nil
}

// StageEnd describes how the pending stage is closed.
type StageEnd struct {
	At          time.Time
	VideoHashes []string
	Metadata    map[string]string
	Premature   bool
	// UnfinishedSuffix is appended to the name of a prematurely closed stage.
	UnfinishedSuffix string
}

// EndOperation closes the pending stage. It reports whether the unit became
// built as a result.
func (u *Unit) EndOperation(end StageEnd) (bool, error) {
	stage := u.NextPendingOperation()
	if stage == nil {
		return false, faults.Wrap(faults.ErrStateForbidden, "unit", "end operation",
			fmt.Sprintf("unit %s has no pending stages", u.InternalID), nil)
	}
	at := end.At
	stage.SessionEnd = &at

	if end.Premature {
		u.duplicateStage(stage)
		suffix := end.UnfinishedSuffix
		if suffix == "" {
			suffix = DefaultUnfinishedSuffix
		}
		stage.Name += " " + suffix
		stage.EndedPrematurely = true
	}
	if len(end.VideoHashes) > 0 {
		stage.VideoHashes = slices.Clone(end.VideoHashes)
	}
	if len(end.Metadata) > 0 {
		if stage.Metadata == nil {
			stage.Metadata = make(map[string]string, len(end.Metadata))
		}
		maps.Copy(stage.Metadata, end.Metadata)
	}
	stage.Completed = true

	for _, s := range u.Biography {
		if !s.Completed {
			return false, nil
		}
	}
	if u.Status == StatusBuilt {
		return false, nil
	}
	u.Status = StatusBuilt
	u.Employee = nil
	return true, nil
}

// duplicateStage inserts a fresh copy of stage right after it and renumbers
// the biography so numbers stay contiguous.
func (u *Unit) duplicateStage(stage *ProductionStage) {
	idx := slices.Index(u.Biography, stage)
	dup := newStage(stage.Name, stage.ParentUnitUUID, stage.SchemaStageID, idx+1)
	u.Biography = slices.Insert(u.Biography, idx+1, dup)
	for i, s := range u.Biography {
		s.Number = i
	}
}

// TotalAssemblyTime sums the stage durations of this unit alone.
func (u *Unit) TotalAssemblyTime(now time.Time) time.Duration {
	var total time.Duration
	for _, stage := range u.Biography {
		total += stage.Duration(now)
	}
	return total
}

// ComponentTree lists the unit and all nested components in pre-order.
func (u *Unit) ComponentTree() []*Unit {
	tree := []*Unit{u}
	for _, component := range u.Components {
		tree = append(tree, component.ComponentTree()...)
	}
	return tree
}

// FirstMatchingStatus returns the first unit of the pre-order component tree
// whose status is one of statuses.
func (u *Unit) FirstMatchingStatus(statuses ...Status) (*Unit, bool) {
	for _, candidate := range u.ComponentTree() {
		if slices.Contains(statuses, candidate.Status) {
			return candidate, true
		}
	}
	return nil, false
}
