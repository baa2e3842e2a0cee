package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/passport"
	"workbench/internal/recording"
	"workbench/internal/statesignal"
	"workbench/internal/unit"
)

// Workbench is the single production station of this process.
type Workbench struct {
	store     Store
	bus       *notify.Bus
	signal    *statesignal.Signal
	tr        *i18n.Translator
	logger    *slog.Logger
	recorder  Recorder
	publisher Publisher
	printer   Printer
	labels    Labels
	ledger    Ledger
	metrics   Metrics
	now       func() time.Time
	opts      Options
	passports *passport.Builder

	// sideEffects serializes the operations that call slow collaborators
	// outside mu.
	sideEffects sync.Mutex

	mu       sync.Mutex
	machine  *fsm.FSM
	employee *unit.Employee
	unit     *unit.Unit
	record   *recording.Record
	drained  bool
}

// New constructs a workbench in AwaitLogin.
func New(deps Deps, opts Options) (*Workbench, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("workbench store required")
	case deps.Bus == nil:
		return nil, errors.New("workbench notification bus required")
	case deps.Signal == nil:
		return nil, errors.New("workbench state signal required")
	case deps.Translator == nil:
		return nil, errors.New("workbench translator required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	w := &Workbench{
		store:     deps.Store,
		bus:       deps.Bus,
		signal:    deps.Signal,
		tr:        deps.Translator,
		logger:    logging.NewComponentLogger(deps.Logger, "workbench"),
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		printer:   deps.Printer,
		labels:    deps.Labels,
		ledger:    deps.Ledger,
		metrics:   deps.Metrics,
		now:       now,
		opts:      opts,
		passports: passport.NewBuilder(deps.Translator, now),
		machine:   newMachine(StateAwaitLogin),
	}
	w.logger.Info("workbench initialized", logging.Int("number", opts.Number))
	return w, nil
}

// State returns the current machine state.
func (w *Workbench) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workbench) stateLocked() State {
	return State(w.machine.Current())
}

// guardLocked checks that the current state is one of allowed and that the
// table permits entering to. A refusal notifies the operator.
func (w *Workbench) guardLocked(to State, allowed ...State) error {
	from := w.stateLocked()
	if (len(allowed) > 0 && !slices.Contains(allowed, from)) || !w.machine.Can(string(to)) {
		w.bus.Error(w.tr.T(i18n.InvalidState))
		return faults.Forbidden(string(from), string(to))
	}
	return nil
}

// transitionLocked moves the machine to the target state and wakes status
// watchers.
func (w *Workbench) transitionLocked(ctx context.Context, to State) error {
	from := w.stateLocked()
	if err := w.guardLocked(to); err != nil {
		return err
	}
	if err := w.machine.Event(context.WithoutCancel(ctx), string(to)); err != nil {
		return fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}
	w.signal.Notify()
	w.logger.Info("workbench state changed",
		logging.Int("number", w.opts.Number),
		logging.String("from", string(from)),
		logging.String(logging.FieldState, string(to)))
	return nil
}

func (w *Workbench) forbidden(operation, message string) error {
	return faults.Wrap(faults.ErrStateForbidden, "workbench", operation, message, nil)
}

// observe logs and counts an error returned by a public operation.
func (w *Workbench) observe(ctx context.Context, operation string, errp *error) {
	err := *errp
	if err == nil {
		return
	}
	kind := faults.Kind(err)
	if w.metrics != nil {
		w.metrics.Error(kind)
	}
	logger := logging.WithContext(ctx, w.logger)
	if faults.IsDeterministic(err) {
		logger.Info("operation rejected",
			logging.String("operation", operation),
			logging.String("kind", kind),
			logging.Error(err))
		return
	}
	logging.ErrorWithContext(logger, "operation failed", operation+"_failed",
		logging.String("operation", operation),
		logging.String("kind", kind),
		logging.Error(err))
}

func (w *Workbench) productionEvent(event string, employee *unit.Employee, u *unit.Unit) {
	if w.metrics == nil {
		return
	}
	var name, unitID, unitType string
	if employee != nil {
		name = employee.Name
	}
	if u != nil {
		unitID = u.InternalID
		unitType = u.ModelName()
	}
	w.metrics.ProductionEvent(event, name, unitID, unitType)
}

func (w *Workbench) printingEnabled() bool {
	return w.printer != nil && w.labels != nil
}

// printLabel prints the label at path and removes the file afterwards.
func (w *Workbench) printLabel(ctx context.Context, path, annotation string) error {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.logger.Debug("label cleanup failed", logging.String("path", path), logging.Error(err))
		}
	}()
	return w.printer.PrintImage(ctx, path, annotation)
}

// parentSchema resolves the parent of schema for label annotations.
func (w *Workbench) parentSchema(ctx context.Context, schema unit.Schema) (unit.Schema, bool) {
	if !schema.IsAComponent() {
		return unit.Schema{}, false
	}
	parent, err := w.store.GetSchema(ctx, schema.ParentSchemaID)
	if err != nil {
		logging.WarnWithContext(w.logger, "parent schema lookup failed; using own label name",
			"parent_schema_missing",
			logging.String(logging.FieldErrorHint, "import the parent production schema"),
			logging.String(logging.FieldImpact, "label annotation omits the parent name"),
			logging.String("parent_schema_id", schema.ParentSchemaID),
			logging.Error(err))
		return unit.Schema{}, false
	}
	return parent, true
}
