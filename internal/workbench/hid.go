package workbench

import (
	"context"
	"fmt"
	"strings"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/unit"
)

// HIDEvent is one reading from an RFID or barcode reader.
type HIDEvent struct {
	String    string `json:"string"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp,omitempty"`
	Info      any    `json:"info,omitempty"`
}

// HandleHIDEvent routes a reader event to the operation the current state
// calls for.
func (w *Workbench) HandleHIDEvent(ctx context.Context, event HIDEvent) (err error) {
	defer w.observe(ctx, "hid_event", &err)
	value := strings.TrimSpace(event.String)
	logger := w.logger.With(logging.String("sender", event.Name))

	switch {
	case event.Name != "" && event.Name == w.opts.RFIDReader:
		logger.Debug("rfid event")
		return w.handleCard(ctx, value)
	case event.Name != "" && event.Name == w.opts.BarcodeReader:
		logger.Debug("barcode event", logging.String("barcode", value))
		return w.handleBarcode(ctx, value)
	}
	w.bus.Warning(w.tr.T(i18n.UnknownSender, event.Name))
	return faults.Wrap(faults.ErrValidation, "workbench", "hid event", fmt.Sprintf("unknown sender %q", event.Name), nil)
}

func (w *Workbench) handleCard(ctx context.Context, cardID string) error {
	w.mu.Lock()
	if w.employee != nil {
		defer w.mu.Unlock()
		return w.logoutLocked(ctx)
	}
	w.mu.Unlock()
	_, err := w.loginByCard(ctx, cardID)
	return err
}

func (w *Workbench) handleBarcode(ctx context.Context, code string) error {
	if !unit.IsEAN13(code) {
		w.bus.Default(w.tr.T(i18n.NotBarcode, code))
		return faults.Wrap(faults.ErrValidation, "workbench", "hid event", fmt.Sprintf("%q is not an EAN-13 barcode", code), nil)
	}

	w.mu.Lock()
	state := w.stateLocked()
	var current string
	if w.unit != nil {
		current = w.unit.InternalID
	}
	w.mu.Unlock()

	switch state {
	case StateProductionStageOngoing:
		w.sideEffects.Lock()
		defer w.sideEffects.Unlock()
		return w.endOperation(ctx, nil, false)
	case StateAuthorizedIdling:
		return w.assignUnitByID(ctx, code)
	case StateUnitAssignedIdling:
		if current == code {
			w.bus.Info(w.tr.T(i18n.ProductOnDesktop))
			return nil
		}
		u, err := w.lookupUnit(ctx, code)
		if err != nil {
			return err
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if err := w.removeUnitLocked(ctx); err != nil {
			return err
		}
		return w.assignUnitLocked(ctx, u)
	case StateGatherComponents:
		return w.assignComponentByID(ctx, code)
	default:
		logging.ErrorWithContext(w.logger, "barcode received in a state that does not accept it", "barcode_ignored",
			logging.String(logging.FieldState, string(state)),
			logging.String(logging.FieldErrorHint, "log in before scanning units"))
		return nil
	}
}
