package testsupport

import (
	"testing"

	"workbench/internal/config"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/statesignal"
	"workbench/internal/store"
	"workbench/internal/workbench"
)

// Station is a workbench backed by a real store with every optional
// collaborator disabled.
type Station struct {
	Workbench *workbench.Workbench
	Bus       *notify.Bus
	Signal    *statesignal.Signal
	Store     *store.Store
}

// NewStation opens and seeds a store under cfg and builds a workbench on it.
func NewStation(t testing.TB, cfg *config.Config) *Station {
	t.Helper()

	s := MustOpenStore(t, cfg)
	Seed(t, s, "")
	tr, err := i18n.New(cfg.Workbench.Language)
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	bus := notify.NewBus(logging.NewNop())
	signal := statesignal.New()
	wb, err := workbench.New(workbench.Deps{
		Store:      s,
		Bus:        bus,
		Signal:     signal,
		Translator: tr,
		Logger:     logging.NewNop(),
	}, workbench.OptionsFromConfig(cfg))
	if err != nil {
		t.Fatalf("workbench.New: %v", err)
	}
	return &Station{Workbench: wb, Bus: bus, Signal: signal, Store: s}
}
