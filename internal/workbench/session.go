package workbench

import (
	"context"
	"errors"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/metrics"
	"workbench/internal/unit"
)

// Login authorizes employee at the station.
func (w *Workbench) Login(ctx context.Context, employee unit.Employee) (err error) {
	defer w.observe(ctx, "login", &err)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loginLocked(ctx, employee)
}

func (w *Workbench) loginLocked(ctx context.Context, employee unit.Employee) error {
	if err := w.guardLocked(StateAuthorizedIdling, StateAwaitLogin); err != nil {
		return err
	}
	w.employee = &employee
	if err := w.transitionLocked(ctx, StateAuthorizedIdling); err != nil {
		w.employee = nil
		return err
	}
	w.logger.Info("employee logged in",
		logging.String(logging.FieldEmployee, employee.Name),
		logging.Int("number", w.opts.Number))
	w.bus.Success(w.tr.T(i18n.Authorized, employee.Position, employee.Name))
	w.productionEvent(metrics.EventLogIn, &employee, nil)
	return nil
}

// LoginByCard looks up the card holder and logs them in.
func (w *Workbench) LoginByCard(ctx context.Context, cardID string) (_ unit.Employee, err error) {
	defer w.observe(ctx, "login", &err)
	return w.loginByCard(ctx, cardID)
}

func (w *Workbench) loginByCard(ctx context.Context, cardID string) (unit.Employee, error) {
	employee, err := w.lookupEmployee(ctx, cardID)
	if err != nil {
		return unit.Employee{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.loginLocked(ctx, employee); err != nil {
		return unit.Employee{}, err
	}
	return employee, nil
}

// LookupEmployee returns the card holder, warning the operator when the
// card is unknown.
func (w *Workbench) LookupEmployee(ctx context.Context, cardID string) (_ unit.Employee, err error) {
	defer w.observe(ctx, "employee_info", &err)
	return w.lookupEmployee(ctx, cardID)
}

func (w *Workbench) lookupEmployee(ctx context.Context, cardID string) (unit.Employee, error) {
	employee, err := w.store.GetEmployeeByCardID(ctx, cardID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			w.bus.Warning(w.tr.T(i18n.NoEmployee))
		}
		return unit.Employee{}, err
	}
	return employee, nil
}

// Logout ends the operator session, taking the unit off the table first
// when one is assigned.
func (w *Workbench) Logout(ctx context.Context) (err error) {
	defer w.observe(ctx, "logout", &err)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.logoutLocked(ctx)
}

func (w *Workbench) logoutLocked(ctx context.Context) error {
	switch from := w.stateLocked(); from {
	case StateAuthorizedIdling, StateUnitAssignedIdling:
	default:
		w.bus.Error(w.tr.T(i18n.InvalidState))
		return faults.Forbidden(string(from), string(StateAwaitLogin))
	}
	if w.stateLocked() == StateUnitAssignedIdling {
		if err := w.removeUnitLocked(ctx); err != nil {
			return err
		}
	}
	if w.employee == nil {
		w.bus.Error(w.tr.T(i18n.NecessaryAuth))
		return w.forbidden("logout", "no employee is logged in")
	}
	employee := w.employee
	w.employee = nil
	if err := w.transitionLocked(ctx, StateAwaitLogin); err != nil {
		w.employee = employee
		return err
	}
	w.logger.Info("employee logged out",
		logging.String(logging.FieldEmployee, employee.Name),
		logging.Int("number", w.opts.Number))
	w.bus.Success(w.tr.T(i18n.LoggedOut, employee.Name))
	w.productionEvent(metrics.EventLogOut, employee, nil)
	return nil
}
