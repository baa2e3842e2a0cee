package workbench

import (
	"context"
	"fmt"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/metrics"
	"workbench/internal/passport"
	"workbench/internal/unit"
)

// PassportResult describes an uploaded passport.
type PassportResult struct {
	UnitID string
	Path   string
	CID    string
	Link   string
}

// UploadPassport saves the passport of the unit on the table, publishes it
// when a publisher is configured, prints the QR and seal labels, and anchors
// the content id in the ledger.
func (w *Workbench) UploadPassport(ctx context.Context) (_ PassportResult, err error) {
	defer w.observe(ctx, "upload_passport", &err)
	w.sideEffects.Lock()
	defer w.sideEffects.Unlock()

	w.mu.Lock()
	u, employee := w.unit, w.employee
	if u == nil {
		w.mu.Unlock()
		w.bus.Error(w.tr.T(i18n.NoProduct))
		return PassportResult{}, w.forbidden("upload passport", "no unit is assigned")
	}
	if employee == nil {
		w.mu.Unlock()
		w.bus.Error(w.tr.T(i18n.NecessaryAuth))
		return PassportResult{}, w.forbidden("upload passport", "no employee is logged in")
	}
	cardID := employee.CardID
	doc, err := w.passports.Render(u)
	w.mu.Unlock()
	if err != nil {
		return PassportResult{}, faults.Wrap(faults.ErrValidation, "workbench", "upload passport", u.InternalID, err)
	}

	result := PassportResult{UnitID: u.InternalID}
	result.Path, err = passport.Write(w.opts.PassportDir, passport.FileName(u), doc)
	if err != nil {
		return PassportResult{}, faults.Wrap(faults.ErrPersistence, "workbench", "upload passport", u.InternalID, err)
	}
	w.logger.Info("passport saved",
		logging.String(logging.FieldUnitID, u.InternalID),
		logging.String("path", result.Path))

	if w.publisher != nil {
		result.CID, result.Link, err = w.publisher.Publish(ctx, result.Path, cardID)
		if err != nil {
			w.bus.Error(w.tr.T(i18n.PublishFailed))
			return PassportResult{}, faults.Wrap(faults.ErrExternalService, "workbench", "publish passport", u.InternalID, err)
		}
		if err := w.printPassportQR(ctx, u, result.Link); err != nil {
			w.bus.Error(w.tr.T(i18n.ErrorPrintQR))
			w.bus.Error(w.tr.T(i18n.CanceledPassport))
			return PassportResult{}, err
		}
	}
	if w.opts.PrintSecurityTag && w.printingEnabled() {
		if err := w.printSeal(ctx, cardID); err != nil {
			logging.WarnWithContext(w.logger, "failed to print seal tag", "seal_print_failed",
				logging.String(logging.FieldErrorHint, "check the label printer"),
				logging.String(logging.FieldImpact, "unit ships without a printed seal"),
				logging.Error(err))
			w.bus.Error(w.tr.T(i18n.ErrorPrintSeal))
		}
	}

	// The passport is out and its labels are printed, so the result belongs
	// to u even when the unit left the table in the meantime.
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unit != u {
		w.logger.Info("unit left the table during passport upload",
			logging.String(logging.FieldUnitID, u.InternalID))
	}
	if result.CID != "" {
		u.PassportCID = result.CID
		u.PassportShortURL = result.Link
	}
	if err := w.store.PushUnit(ctx, u, true); err != nil {
		return PassportResult{}, err
	}
	if w.ledger != nil && result.CID != "" {
		w.ledger.Schedule(result.CID, u.InternalID)
	}
	w.productionEvent(metrics.EventGeneratePassport, employee, u)
	w.bus.Success(w.tr.T(i18n.PassportSaved, u.InternalID))
	return result, nil
}

func (w *Workbench) qrWanted(schema unit.Schema) bool {
	if !w.opts.PrintQR || !w.printingEnabled() {
		return false
	}
	return !w.opts.PrintQROnlyForComposite || schema.IsComposite() || !schema.IsAComponent()
}

func (w *Workbench) printPassportQR(ctx context.Context, u *unit.Unit, link string) error {
	if !w.qrWanted(u.Schema) {
		return nil
	}
	annotation := fmt.Sprintf("%s (ID: %s).", u.ModelName(), u.InternalID)
	if parent, ok := w.parentSchema(ctx, u.Schema); ok {
		annotation = fmt.Sprintf("%s. %s", parent.UnitName, annotation)
	}
	path, err := w.labels.QR(link)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "workbench", "print qr", u.InternalID, err)
	}
	w.logger.Debug("printing passport qr", logging.String("annotation", annotation))
	return w.printLabel(ctx, path, annotation)
}

func (w *Workbench) printSeal(ctx context.Context, cardID string) error {
	text := w.opts.SecurityTagText
	if text == "" {
		text = w.tr.T(i18n.Sealed)
	}
	path, err := w.labels.SealTag(text, w.opts.SecurityTagAddTimestamp)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "workbench", "print seal", "", err)
	}
	return w.printLabel(ctx, path, cardID)
}
