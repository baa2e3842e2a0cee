package workbench

import (
	"context"
	"errors"
	"maps"
	"time"

	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/metrics"
	"workbench/internal/recording"
	"workbench/internal/unit"
)

// StartOperation begins the next pending stage of the unit on the table and
// starts recording when a camera is configured. Recording failures are
// reported but do not block the stage.
func (w *Workbench) StartOperation(ctx context.Context, metadata map[string]string) (err error) {
	defer w.observe(ctx, "start_operation", &err)
	w.sideEffects.Lock()
	defer w.sideEffects.Unlock()
	return w.startOperation(ctx, metadata)
}

func (w *Workbench) startOperation(ctx context.Context, metadata map[string]string) error {
	w.mu.Lock()
	u, employee, err := w.claimStartLocked()
	w.mu.Unlock()
	if err != nil {
		return err
	}

	rec := w.startRecording(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unit != u || w.employee == nil {
		w.discardRecording(rec)
		return w.forbidden("start operation", "unit or employee changed while starting")
	}
	if err := w.guardLocked(StateProductionStageOngoing, StateUnitAssignedIdling); err != nil {
		w.discardRecording(rec)
		return err
	}
	stage := u.NextPendingOperation()
	if err := u.StartOperation(*employee, maps.Clone(metadata), w.now()); err != nil {
		w.discardRecording(rec)
		return err
	}
	if err := w.transitionLocked(ctx, StateProductionStageOngoing); err != nil {
		w.discardRecording(rec)
		return err
	}
	w.record = rec
	w.logger.Info("operation started",
		logging.String(logging.FieldUnitID, u.InternalID),
		logging.String("stage", stage.Name),
		logging.Bool("recording", rec != nil))
	return nil
}

// claimStartLocked verifies the preconditions of StartOperation.
func (w *Workbench) claimStartLocked() (*unit.Unit, *unit.Employee, error) {
	if err := w.guardLocked(StateProductionStageOngoing, StateUnitAssignedIdling); err != nil {
		return nil, nil, err
	}
	if w.unit == nil {
		w.bus.Error(w.tr.T(i18n.NoProduct))
		return nil, nil, w.forbidden("start operation", "no unit is assigned")
	}
	if w.employee == nil {
		w.bus.Error(w.tr.T(i18n.NecessaryAuth))
		return nil, nil, w.forbidden("start operation", "no employee is logged in")
	}
	if w.unit.NextPendingOperation() == nil {
		w.bus.Warning(w.tr.T(i18n.CompletedBuild))
		return nil, nil, w.forbidden("start operation", "unit "+w.unit.InternalID+" has no pending stages")
	}
	employee := *w.employee
	return w.unit, &employee, nil
}

func (w *Workbench) startRecording(ctx context.Context) *recording.Record {
	if w.recorder == nil {
		return nil
	}
	rec, err := w.recorder.Start(ctx)
	if err != nil {
		logging.ErrorWithContext(w.logger, "failed to start recording", "recording_start_failed",
			logging.String(logging.FieldErrorHint, "check camera power, network, and ffmpeg command"),
			logging.Error(err))
		if errors.Is(err, recording.ErrCameraUnreachable) {
			w.bus.Error(w.tr.T(i18n.NoConnection))
		}
		w.bus.Error(w.tr.T(i18n.ErrorRecording))
		return nil
	}
	return rec
}

// discardRecording stops a recording that no stage will own.
func (w *Workbench) discardRecording(rec *recording.Record) {
	if rec == nil || w.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := w.recorder.Stop(ctx, rec); err != nil {
			w.logger.Debug("discarded recording did not stop cleanly", logging.Error(err))
		}
	}()
}

// EndOperation closes the ongoing stage. The recording is stopped and
// published on a best-effort basis; the stage closes even without media.
func (w *Workbench) EndOperation(ctx context.Context, metadata map[string]string, premature bool) (err error) {
	defer w.observe(ctx, "end_operation", &err)
	w.sideEffects.Lock()
	defer w.sideEffects.Unlock()
	return w.endOperation(ctx, metadata, premature)
}

func (w *Workbench) endOperation(ctx context.Context, metadata map[string]string, premature bool) error {
	w.mu.Lock()
	u, employee, rec, err := w.claimEndLocked()
	w.mu.Unlock()
	if err != nil {
		return err
	}

	endedAt := w.now()
	var hashes []string
	if rec != nil {
		hashes, endedAt = w.finishRecording(ctx, rec, employee)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unit != u {
		return w.forbidden("end operation", "unit changed while ending the operation")
	}
	w.record = nil
	built, err := u.EndOperation(unit.StageEnd{
		At:               endedAt,
		VideoHashes:      hashes,
		Metadata:         metadata,
		Premature:        premature,
		UnfinishedSuffix: w.tr.T(i18n.Unfinished),
	})
	if err != nil {
		return err
	}
	if err := w.transitionLocked(ctx, StateUnitAssignedIdling); err != nil {
		return err
	}
	w.logger.Info("operation ended",
		logging.String(logging.FieldUnitID, u.InternalID),
		logging.Bool("premature", premature),
		logging.Int("videos", len(hashes)))
	if built {
		w.logger.Info("unit built", logging.String(logging.FieldUnitID, u.InternalID))
		w.productionEvent(metrics.EventCompleteUnit, employee, u)
	}
	if err := w.store.PushUnit(ctx, u, false); err != nil {
		return err
	}
	w.productionEvent(metrics.EventCompleteOperation, employee, u)
	return nil
}

func (w *Workbench) claimEndLocked() (*unit.Unit, *unit.Employee, *recording.Record, error) {
	if err := w.guardLocked(StateUnitAssignedIdling, StateProductionStageOngoing); err != nil {
		return nil, nil, nil, err
	}
	if w.unit == nil {
		w.bus.Error(w.tr.T(i18n.NoProduct))
		return nil, nil, nil, w.forbidden("end operation", "no unit is assigned")
	}
	var employee *unit.Employee
	if w.employee != nil {
		copied := *w.employee
		employee = &copied
	}
	return w.unit, employee, w.record, nil
}

// finishRecording stops rec and publishes the video. It returns the content
// ids to attach to the stage and the instant recording stopped.
func (w *Workbench) finishRecording(ctx context.Context, rec *recording.Record, employee *unit.Employee) ([]string, time.Time) {
	path, err := w.recorder.Stop(ctx, rec)
	stoppedAt := w.now()
	if err != nil {
		logging.WarnWithContext(w.logger, "failed to stop recording", "recording_stop_failed",
			logging.String(logging.FieldErrorHint, "check ffmpeg output and camera stream"),
			logging.String(logging.FieldImpact, "stage closes without video"),
			logging.Error(err))
		w.bus.Warning(w.tr.T(i18n.NotSaveVideo))
		return nil, stoppedAt
	}
	if w.publisher == nil {
		w.logger.Debug("publishing disabled; video kept locally", logging.String("path", path))
		return nil, stoppedAt
	}
	var cardID string
	if employee != nil {
		cardID = employee.CardID
	}
	cid, _, err := w.publisher.Publish(ctx, path, cardID)
	if err != nil {
		logging.WarnWithContext(w.logger, "failed to publish video", "video_publish_failed",
			logging.String(logging.FieldErrorHint, "check publishing gateway availability"),
			logging.String(logging.FieldImpact, "video kept locally and not linked in the passport"),
			logging.String("path", path),
			logging.Error(err))
		w.bus.Warning(w.tr.T(i18n.SaveLocalVideo))
		return nil, stoppedAt
	}
	return []string{cid}, stoppedAt
}
