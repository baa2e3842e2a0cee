package store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"workbench/internal/faults"
	"workbench/internal/unit"
)

// Seed is the YAML document that loads employees and production schemas.
type Seed struct {
	Employees []unit.Employee `yaml:"employees"`
	Schemas   []unit.Schema   `yaml:"production_schemas"`
}

// SeedResult counts the imported records.
type SeedResult struct {
	Employees int
	Schemas   int
}

// ImportSeed upserts every employee and schema of the YAML document in r.
func (s *Store) ImportSeed(ctx context.Context, r io.Reader) (SeedResult, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return SeedResult{}, faults.Wrap(faults.ErrValidation, "store", "import seed", "decode yaml", err)
	}
	if err := seed.validate(); err != nil {
		return SeedResult{}, faults.Wrap(faults.ErrValidation, "store", "import seed", err.Error(), nil)
	}

	var result SeedResult
	for _, employee := range seed.Employees {
		if err := s.PutEmployee(ctx, employee); err != nil {
			return result, err
		}
		result.Employees++
	}
	for _, schema := range seed.Schemas {
		if err := s.PutSchema(ctx, schema); err != nil {
			return result, err
		}
		result.Schemas++
	}
	return result, nil
}

func (seed Seed) validate() error {
	for i, employee := range seed.Employees {
		if strings.TrimSpace(employee.CardID) == "" {
			return fmt.Errorf("employee %d has no rfid_card_id", i)
		}
		if strings.TrimSpace(employee.Name) == "" {
			return fmt.Errorf("employee %s has no name", employee.CardID)
		}
	}
	known := make(map[string]bool, len(seed.Schemas))
	for _, schema := range seed.Schemas {
		if schema.SchemaID == "" || schema.UnitName == "" {
			return fmt.Errorf("schema %q needs schema_id and unit_name", schema.SchemaID)
		}
		if known[schema.SchemaID] {
			return fmt.Errorf("schema %s listed twice", schema.SchemaID)
		}
		known[schema.SchemaID] = true
	}
	return nil
}
