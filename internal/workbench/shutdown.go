package workbench

import (
	"context"
	"errors"

	"workbench/internal/i18n"
	"workbench/internal/logging"
)

// ShutdownReason is recorded on a stage that was open when the station
// shut down.
const ShutdownReason = "Unfinished when Workbench shutdown sequence initiated"

// Shutdown drains the station to AwaitLogin: an open stage is ended
// prematurely, the unit is taken off the table, and the operator is logged
// out. Calls after a completed drain do nothing.
func (w *Workbench) Shutdown(ctx context.Context) (err error) {
	defer w.observe(ctx, "shutdown", &err)
	w.sideEffects.Lock()
	defer w.sideEffects.Unlock()

	w.mu.Lock()
	drained, state := w.drained, w.stateLocked()
	w.mu.Unlock()
	if drained && state == StateAwaitLogin {
		return nil
	}
	w.bus.Warning(w.tr.T(i18n.ShutDownServer))
	w.logger.Info("shutdown started", logging.String(logging.FieldState, string(state)))

	var errs []error
	if state == StateProductionStageOngoing {
		metadata := map[string]string{"Ended reason": ShutdownReason}
		if err := w.endOperation(ctx, metadata, true); err != nil {
			errs = append(errs, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.stateLocked() {
	case StateUnitAssignedIdling, StateGatherComponents:
		if err := w.removeUnitLocked(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if w.stateLocked() == StateAuthorizedIdling {
		if err := w.logoutLocked(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	w.drained = true
	w.logger.Info("shutdown complete")
	w.bus.Success(w.tr.T(i18n.FinishServer))
	return nil
}
