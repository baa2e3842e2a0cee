package testsupport

import (
	"context"
	"strings"
	"testing"

	"workbench/internal/config"
	"workbench/internal/store"
)

// SeedYAML holds one employee, a composite station, and its board component.
const SeedYAML = `
employees:
  - rfid_card_id: "1111"
    name: Alice
    position: Assembler
production_schemas:
  - schema_id: board
    unit_name: Control board
    parent_schema_id: station
  - schema_id: station
    unit_name: Weather station
    unit_short_name: WS
    production_stages:
      - name: assemble
        stage_id: s1
    required_components_schema_ids: [board]
`

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// Seed imports a YAML seed document, SeedYAML when doc is empty.
func Seed(t testing.TB, s *store.Store, doc string) {
	t.Helper()

	if doc == "" {
		doc = SeedYAML
	}
	if _, err := s.ImportSeed(context.Background(), strings.NewReader(doc)); err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
}
