package workbench

import (
	"context"
	"errors"
	"fmt"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/metrics"
	"workbench/internal/unit"
)

// CreateUnit creates, labels, and persists a new unit of schema. The
// workbench state does not change.
func (w *Workbench) CreateUnit(ctx context.Context, schema unit.Schema) (_ *unit.Unit, err error) {
	defer w.observe(ctx, "create_unit", &err)

	w.mu.Lock()
	state := w.stateLocked()
	employee := w.employee
	w.mu.Unlock()
	if state != StateAuthorizedIdling {
		w.bus.Error(w.tr.T(i18n.AuthorizedState))
		return nil, w.forbidden("create unit", fmt.Sprintf("requires %s, current state %s", StateAuthorizedIdling, state))
	}

	u, err := unit.New(schema)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "workbench", "create unit", schema.SchemaID, err)
	}
	if w.opts.PrintBarcode && w.printingEnabled() {
		if err := w.printBarcode(ctx, u); err != nil {
			w.bus.Error(w.tr.T(i18n.ErrorPrintLabel))
			return nil, err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if state := w.stateLocked(); state != StateAuthorizedIdling || w.employee == nil || employee == nil || w.employee.CardID != employee.CardID {
		w.bus.Error(w.tr.T(i18n.AuthorizedState))
		return nil, w.forbidden("create unit", fmt.Sprintf("operator session ended while creating the unit, current state %s", state))
	}
	if err := w.store.PushUnit(ctx, u, true); err != nil {
		return nil, err
	}
	w.logger.Info("unit created",
		logging.String(logging.FieldUnitID, u.InternalID),
		logging.String("schema_id", schema.SchemaID))
	w.productionEvent(metrics.EventCreateUnit, employee, u)
	return u, nil
}

func (w *Workbench) printBarcode(ctx context.Context, u *unit.Unit) error {
	annotation := u.Schema.PrintName()
	if parent, ok := w.parentSchema(ctx, u.Schema); ok {
		annotation = fmt.Sprintf("%s. %s.", parent.PrintName(), u.Schema.PrintName())
	}
	path, err := w.labels.Barcode(u.InternalID)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "workbench", "print barcode", u.InternalID, err)
	}
	return w.printLabel(ctx, path, annotation)
}

// AssignUnitByID looks up a unit and assigns it to the table.
func (w *Workbench) AssignUnitByID(ctx context.Context, internalID string) (err error) {
	defer w.observe(ctx, "assign_unit", &err)
	return w.assignUnitByID(ctx, internalID)
}

func (w *Workbench) assignUnitByID(ctx context.Context, internalID string) error {
	u, err := w.lookupUnit(ctx, internalID)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.assignUnitLocked(ctx, u)
}

// AssignUnit puts u on the table. Units that are neither in progress nor
// built-but-unpublished are replaced by the first in-progress unit of their
// component tree.
func (w *Workbench) AssignUnit(ctx context.Context, u *unit.Unit) (err error) {
	defer w.observe(ctx, "assign_unit", &err)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.assignUnitLocked(ctx, u)
}

func (w *Workbench) assignUnitLocked(ctx context.Context, u *unit.Unit) error {
	if err := w.guardLocked(StateUnitAssignedIdling, StateAuthorizedIdling); err != nil {
		return err
	}
	override := u.Status == unit.StatusBuilt && u.PassportCID == ""
	if !override && !u.Status.Assemblable() {
		candidate, ok := u.FirstMatchingStatus(unit.StatusProduction, unit.StatusRevision)
		if !ok {
			w.bus.Warning(w.tr.T(i18n.CompletedBuild))
			return w.forbidden("assign unit", fmt.Sprintf("unit %s has status %s and no component in production or revision", u.InternalID, u.Status))
		}
		w.logger.Info("assigning in-progress component instead of finished unit",
			logging.String(logging.FieldUnitID, u.InternalID),
			logging.String("component_id", candidate.InternalID))
		u = candidate
	}

	target := StateUnitAssignedIdling
	if !u.ComponentsFilled() {
		target = StateGatherComponents
	}
	w.unit = u
	if err := w.transitionLocked(ctx, target); err != nil {
		w.unit = nil
		return err
	}
	w.logger.Info("unit assigned", logging.String(logging.FieldUnitID, u.InternalID))
	w.bus.Success(w.tr.T(i18n.UnitOnTable, u.InternalID))
	return nil
}

// RemoveUnit takes the unit off the table.
func (w *Workbench) RemoveUnit(ctx context.Context) (err error) {
	defer w.observe(ctx, "remove_unit", &err)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removeUnitLocked(ctx)
}

func (w *Workbench) removeUnitLocked(ctx context.Context) error {
	if err := w.guardLocked(StateAuthorizedIdling, StateUnitAssignedIdling, StateGatherComponents); err != nil {
		return err
	}
	if w.unit == nil {
		w.bus.Error(w.tr.T(i18n.ImpossibleRemove) + " " + w.tr.T(i18n.NoProduct))
		return w.forbidden("remove unit", "no unit is assigned")
	}
	u := w.unit
	w.unit = nil
	if err := w.transitionLocked(ctx, StateAuthorizedIdling); err != nil {
		w.unit = u
		return err
	}
	w.logger.Info("unit removed", logging.String(logging.FieldUnitID, u.InternalID))
	w.bus.Success(w.tr.T(i18n.UnitRemoved, u.InternalID))
	return nil
}

// AssignComponentByID looks up a component unit and assigns it to the
// composite on the table.
func (w *Workbench) AssignComponentByID(ctx context.Context, internalID string) (err error) {
	defer w.observe(ctx, "assign_component", &err)
	return w.assignComponentByID(ctx, internalID)
}

func (w *Workbench) assignComponentByID(ctx context.Context, internalID string) error {
	if state := w.State(); state != StateGatherComponents {
		w.bus.Error(w.tr.T(i18n.InvalidState))
		return w.forbidden("assign component", fmt.Sprintf("requires %s, current state %s", StateGatherComponents, state))
	}
	component, err := w.lookupUnit(ctx, internalID)
	if err != nil {
		return err
	}
	return w.assignComponent(ctx, component)
}

// AssignComponent fills one slot of the composite on the table. Filling the
// last slot persists the composite and moves on to UnitAssignedIdling.
func (w *Workbench) AssignComponent(ctx context.Context, component *unit.Unit) (err error) {
	defer w.observe(ctx, "assign_component", &err)
	return w.assignComponent(ctx, component)
}

func (w *Workbench) assignComponent(ctx context.Context, component *unit.Unit) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.stateLocked()
	if state != StateGatherComponents || w.unit == nil {
		w.bus.Error(w.tr.T(i18n.InvalidState))
		return w.forbidden("assign component", fmt.Sprintf("requires %s with a composite unit, current state %s", StateGatherComponents, state))
	}
	composite := w.unit
	if err := composite.AssignComponent(component); err != nil {
		w.notifyAssembly(err)
		return err
	}
	w.signal.Notify()
	w.logger.Info("component assigned",
		logging.String(logging.FieldUnitID, composite.InternalID),
		logging.String("component_id", component.InternalID))

	if composite.ComponentsFilled() {
		if err := w.store.PushUnit(ctx, composite, true); err != nil {
			composite.ReleaseComponent(component)
			w.signal.Notify()
			return err
		}
		if err := w.transitionLocked(ctx, StateUnitAssignedIdling); err != nil {
			return err
		}
	}
	w.bus.Success(w.tr.T(i18n.AssignedToProduct, component.ModelName(), composite.ModelName()))
	return nil
}

func (w *Workbench) notifyAssembly(err error) {
	var assembly *unit.AssemblyError
	if !errors.As(err, &assembly) {
		return
	}
	var text string
	switch assembly.Reason {
	case unit.ReasonSlotsFilled:
		text = w.tr.T(i18n.NecessaryComponents)
	case unit.ReasonNotAComponent:
		text = w.tr.T(i18n.NotPartOfProduct, assembly.Component, assembly.Composite)
	case unit.ReasonSlotTaken:
		text = w.tr.T(i18n.AlreadyAdded, assembly.Component)
	case unit.ReasonComponentNotBuilt:
		text = w.tr.T(i18n.NotCompleted, assembly.Component)
	case unit.ReasonComponentUsed:
		text = w.tr.T(i18n.AlreadyUsed, assembly.ComponentID, assembly.ComponentUsed)
	default:
		text = err.Error()
	}
	w.bus.Warning(text)
}

// LookupSchema returns a production schema, warning the operator when it
// does not exist.
func (w *Workbench) LookupSchema(ctx context.Context, schemaID string) (_ unit.Schema, err error) {
	defer w.observe(ctx, "schema_info", &err)
	schema, err := w.store.GetSchema(ctx, schemaID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			w.bus.Warning(w.tr.T(i18n.SchemaNotFound, schemaID))
		}
		return unit.Schema{}, err
	}
	return schema, nil
}

func (w *Workbench) lookupUnit(ctx context.Context, internalID string) (*unit.Unit, error) {
	u, err := w.store.GetUnitByInternalID(ctx, internalID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			w.bus.Error(w.tr.T(i18n.UnitNotFound, internalID))
		}
		return nil, err
	}
	return u, nil
}

// UnitInfo returns a stored unit, notifying the operator when it is
// unknown.
func (w *Workbench) UnitInfo(ctx context.Context, internalID string) (_ *unit.Unit, err error) {
	defer w.observe(ctx, "unit_info", &err)
	return w.lookupUnit(ctx, internalID)
}
