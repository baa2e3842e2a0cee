package workbench

import (
	"context"
	"maps"

	"workbench/internal/unit"
)

// EmployeeInfo is the public view of the logged-in operator.
type EmployeeInfo struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Snapshot is a consistent view of the station.
type Snapshot struct {
	State            State              `json:"state"`
	EmployeeLoggedIn bool               `json:"employee_logged_in"`
	Employee         *EmployeeInfo      `json:"employee"`
	OperationOngoing bool               `json:"operation_ongoing"`
	UnitInternalID   string             `json:"unit_internal_id"`
	UnitStatus       unit.Status        `json:"unit_status"`
	UnitBiography    []string           `json:"unit_biography"`
	UnitComponents   map[string]*string `json:"unit_components"`
	// Version is the state signal version the snapshot was taken at.
	Version uint64 `json:"-"`
}

// Status returns the current snapshot.
func (w *Workbench) Status() Snapshot {
	version := w.signal.Version()
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := w.snapshotLocked()
	snap.Version = version
	return snap
}

func (w *Workbench) snapshotLocked() Snapshot {
	state := w.stateLocked()
	snap := Snapshot{
		State:            state,
		EmployeeLoggedIn: w.employee != nil,
		OperationOngoing: state == StateProductionStageOngoing,
	}
	if w.employee != nil {
		snap.Employee = &EmployeeInfo{Name: w.employee.Name, Position: w.employee.Position}
	}
	if u := w.unit; u != nil {
		snap.UnitInternalID = u.InternalID
		snap.UnitStatus = u.Status
		snap.UnitBiography = make([]string, 0, len(u.Biography))
		for _, stage := range u.Biography {
			snap.UnitBiography = append(snap.UnitBiography, stage.Name)
		}
		if components := u.AssignedComponents(); components != nil {
			snap.UnitComponents = maps.Clone(components)
		}
	}
	return snap
}

// WatchStatus calls fn with the current snapshot and again after every
// change until ctx ends or fn returns an error.
func (w *Workbench) WatchStatus(ctx context.Context, fn func(Snapshot) error) error {
	snap := w.Status()
	if err := fn(snap); err != nil {
		return err
	}
	seen := snap.Version
	for {
		if _, err := w.signal.Wait(ctx, seen); err != nil {
			return err
		}
		snap := w.Status()
		seen = snap.Version
		if err := fn(snap); err != nil {
			return err
		}
	}
}
