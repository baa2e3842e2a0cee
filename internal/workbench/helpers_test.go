package workbench_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"workbench/internal/faults"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/recording"
	"workbench/internal/statesignal"
	"workbench/internal/unit"
	"workbench/internal/workbench"
)

var (
	alice = unit.Employee{CardID: "1111", Name: "Alice", Position: "Assembler"}

	componentSchema = unit.Schema{
		SchemaID:       "board",
		UnitName:       "Control board",
		ParentSchemaID: "station",
	}
	compositeSchema = unit.Schema{
		SchemaID:             "station",
		UnitName:             "Weather station",
		UnitShortName:        "WS",
		ProductionStages:     []unit.SchemaStage{{Name: "assemble", StageID: "s1"}, {Name: "test", StageID: "s2"}},
		RequiredComponentIDs: []string{"board"},
	}
	simpleSchema = unit.Schema{
		SchemaID:         "sensor",
		UnitName:         "Sensor",
		ProductionStages: []unit.SchemaStage{{Name: "solder", StageID: "s1"}},
	}
)

type fakeStore struct {
	mu        sync.Mutex
	units     map[string]*unit.Unit
	employees map[string]unit.Employee
	schemas   map[string]unit.Schema
	pushes    []push
	pushErr   error
}

type push struct {
	internalID        string
	includeComponents bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		units:     map[string]*unit.Unit{},
		employees: map[string]unit.Employee{alice.CardID: alice},
		schemas: map[string]unit.Schema{
			componentSchema.SchemaID: componentSchema,
			compositeSchema.SchemaID: compositeSchema,
			simpleSchema.SchemaID:    simpleSchema,
		},
	}
}

func (s *fakeStore) add(u *unit.Unit) *unit.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.InternalID] = u
	return u
}

func (s *fakeStore) GetUnitByInternalID(_ context.Context, id string) (*unit.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	if !ok {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "get unit", id, nil)
	}
	return u, nil
}

func (s *fakeStore) GetEmployeeByCardID(_ context.Context, card string) (unit.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[card]
	if !ok {
		return unit.Employee{}, faults.Wrap(faults.ErrNotFound, "store", "get employee", card, nil)
	}
	return e, nil
}

func (s *fakeStore) GetSchema(_ context.Context, id string) (unit.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schema, ok := s.schemas[id]
	if !ok {
		return unit.Schema{}, faults.Wrap(faults.ErrNotFound, "store", "get schema", id, nil)
	}
	return schema, nil
}

func (s *fakeStore) PushUnit(_ context.Context, u *unit.Unit, includeComponents bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return s.pushErr
	}
	s.pushes = append(s.pushes, push{internalID: u.InternalID, includeComponents: includeComponents})
	s.units[u.InternalID] = u
	return nil
}

func (s *fakeStore) pushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pushes)
}

type fakeRecorder struct {
	dir      string
	startErr error
	stopErr  error
	started  int
	stopped  int
}

func (r *fakeRecorder) Start(context.Context) (*recording.Record, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.started++
	return &recording.Record{ID: "rec", Path: filepath.Join(r.dir, "rec.mp4"), StartedAt: time.Now()}, nil
}

func (r *fakeRecorder) Stop(_ context.Context, rec *recording.Record) (string, error) {
	r.stopped++
	if r.stopErr != nil {
		return "", r.stopErr
	}
	return rec.Path, nil
}

type fakePublisher struct {
	err       error
	published []string
	// entered and release, when set, hold Publish until the test lets it go.
	entered chan struct{}
	release chan struct{}
}

func (p *fakePublisher) Publish(_ context.Context, path, cardID string) (string, string, error) {
	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return "", "", p.err
	}
	p.published = append(p.published, filepath.Base(path)+"@"+cardID)
	cid := "Qm" + filepath.Base(path)
	return cid, "https://gateway.example/ipfs/" + cid, nil
}

type fakePrinter struct {
	err         error
	annotations []string
	onPrint     func()
}

func (p *fakePrinter) PrintImage(_ context.Context, _, annotation string) error {
	if p.onPrint != nil {
		p.onPrint()
	}
	if p.err != nil {
		return p.err
	}
	p.annotations = append(p.annotations, annotation)
	return nil
}

type fakeLabels struct {
	dir   string
	qrErr error
	kinds []string
}

func (l *fakeLabels) write(name string) (string, error) {
	path := filepath.Join(l.dir, name)
	return path, os.WriteFile(path, []byte("png"), 0o644)
}

func (l *fakeLabels) Barcode(code string) (string, error) {
	l.kinds = append(l.kinds, "barcode:"+code)
	return l.write(code + "_barcode.png")
}

func (l *fakeLabels) QR(link string) (string, error) {
	if l.qrErr != nil {
		return "", l.qrErr
	}
	l.kinds = append(l.kinds, "qr")
	return l.write("qr.png")
}

func (l *fakeLabels) SealTag(text string, withDate bool) (string, error) {
	l.kinds = append(l.kinds, "seal:"+text)
	return l.write("seal.png")
}

type fakeLedger struct {
	scheduled []string
}

func (l *fakeLedger) Schedule(content, unitID string) {
	l.scheduled = append(l.scheduled, content+"/"+unitID)
}

type fakeMetrics struct {
	mu     sync.Mutex
	events []string
	errors []string
}

func (m *fakeMetrics) ProductionEvent(event, _, _, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *fakeMetrics) Error(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

type harness struct {
	wb        *workbench.Workbench
	store     *fakeStore
	bus       *notify.Bus
	sub       *notify.Subscription
	signal    *statesignal.Signal
	recorder  *fakeRecorder
	publisher *fakePublisher
	printer   *fakePrinter
	labels    *fakeLabels
	ledger    *fakeLedger
	metrics   *fakeMetrics
}

type harnessOption func(*workbench.Deps, *workbench.Options)

func withoutCollaborators() harnessOption {
	return func(d *workbench.Deps, _ *workbench.Options) {
		d.Recorder, d.Publisher, d.Printer, d.Labels, d.Ledger = nil, nil, nil, nil, nil
	}
}

func withOptions(fn func(*workbench.Options)) harnessOption {
	return func(_ *workbench.Deps, o *workbench.Options) { fn(o) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	dir := t.TempDir()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	h := &harness{
		store:     newFakeStore(),
		bus:       notify.NewBus(logging.NewNop()),
		signal:    statesignal.New(),
		recorder:  &fakeRecorder{dir: dir},
		publisher: &fakePublisher{},
		printer:   &fakePrinter{},
		labels:    &fakeLabels{dir: dir},
		ledger:    &fakeLedger{},
		metrics:   &fakeMetrics{},
	}
	h.sub = h.bus.Subscribe()
	t.Cleanup(h.sub.Close)

	deps := workbench.Deps{
		Store:      h.store,
		Bus:        h.bus,
		Signal:     h.signal,
		Translator: tr,
		Logger:     logging.NewNop(),
		Recorder:   h.recorder,
		Publisher:  h.publisher,
		Printer:    h.printer,
		Labels:     h.labels,
		Ledger:     h.ledger,
		Metrics:    h.metrics,
	}
	options := workbench.Options{
		Number:        1,
		PassportDir:   filepath.Join(dir, "passports"),
		RFIDReader:    "rfid_reader",
		BarcodeReader: "barcode_reader",
	}
	for _, opt := range opts {
		opt(&deps, &options)
	}
	h.wb, err = workbench.New(deps, options)
	if err != nil {
		t.Fatalf("workbench.New: %v", err)
	}
	return h
}

// messages drains the notifications emitted so far.
func (h *harness) messages(t *testing.T) []notify.Message {
	t.Helper()
	var out []notify.Message
	for h.sub.Pending() > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		msg, err := h.sub.Next(ctx)
		cancel()
		if err != nil {
			t.Fatalf("next notification: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

func (h *harness) expectMessage(t *testing.T, level notify.Level, text string) {
	t.Helper()
	msgs := h.messages(t)
	for _, msg := range msgs {
		if msg.Level == level && msg.Text == text {
			return
		}
	}
	t.Fatalf("missing %s notification %q in %+v", level, text, msgs)
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if err := h.wb.Login(context.Background(), alice); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func (h *harness) expectState(t *testing.T, want workbench.State) {
	t.Helper()
	if got := h.wb.State(); got != want {
		t.Fatalf("state = %s, want %s", got, want)
	}
}

func mustUnit(t *testing.T, schema unit.Schema) *unit.Unit {
	t.Helper()
	u, err := unit.New(schema)
	if err != nil {
		t.Fatalf("unit.New(%s): %v", schema.SchemaID, err)
	}
	return u
}

func expectKind(t *testing.T, err, marker error) {
	t.Helper()
	if !errors.Is(err, marker) {
		t.Fatalf("error = %v, want %v", err, marker)
	}
}
