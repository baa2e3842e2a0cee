package store

import (
	"context"
	"database/sql"
	"errors"

	json "github.com/goccy/go-json"

	"workbench/internal/unit"
)

// PutEmployee inserts or replaces an employee.
func (s *Store) PutEmployee(ctx context.Context, e unit.Employee) error {
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO employees (card_id, name, position) VALUES (?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET name = excluded.name, position = excluded.position`,
			e.CardID, e.Name, e.Position)
		return err
	})
	if err != nil {
		return persistence("put employee", e.CardID, err)
	}
	return nil
}

// GetEmployeeByCardID returns the holder of an RFID card.
func (s *Store) GetEmployeeByCardID(ctx context.Context, cardID string) (unit.Employee, error) {
	var e unit.Employee
	err := s.db.QueryRowContext(ctx,
		"SELECT card_id, name, position FROM employees WHERE card_id = ?", cardID,
	).Scan(&e.CardID, &e.Name, &e.Position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return unit.Employee{}, notFound("get employee", "card "+cardID)
	case err != nil:
		return unit.Employee{}, persistence("get employee", cardID, err)
	}
	return e, nil
}

// PutSchema inserts or replaces a production schema.
func (s *Store) PutSchema(ctx context.Context, schema unit.Schema) error {
	stages, err := json.Marshal(schema.ProductionStages)
	if err != nil {
		return persistence("put schema", schema.SchemaID, err)
	}
	required, err := json.Marshal(schema.RequiredComponentIDs)
	if err != nil {
		return persistence("put schema", schema.SchemaID, err)
	}
	err = retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO production_schemas
    (schema_id, unit_name, unit_short_name, parent_schema_id, schema_type, stages_json, required_components_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(schema_id) DO UPDATE SET
    unit_name = excluded.unit_name,
    unit_short_name = excluded.unit_short_name,
    parent_schema_id = excluded.parent_schema_id,
    schema_type = excluded.schema_type,
    stages_json = excluded.stages_json,
    required_components_json = excluded.required_components_json`,
			schema.SchemaID, schema.UnitName, schema.UnitShortName, schema.ParentSchemaID,
			schema.SchemaType, string(stages), string(required))
		return err
	})
	if err != nil {
		return persistence("put schema", schema.SchemaID, err)
	}
	return nil
}

const schemaColumns = "schema_id, unit_name, unit_short_name, parent_schema_id, schema_type, stages_json, required_components_json"

func scanSchema(scanner interface{ Scan(dest ...any) error }) (unit.Schema, error) {
	var (
		schema   unit.Schema
		stages   string
		required string
	)
	if err := scanner.Scan(&schema.SchemaID, &schema.UnitName, &schema.UnitShortName,
		&schema.ParentSchemaID, &schema.SchemaType, &stages, &required); err != nil {
		return unit.Schema{}, err
	}
	if err := json.Unmarshal([]byte(stages), &schema.ProductionStages); err != nil {
		return unit.Schema{}, err
	}
	if err := json.Unmarshal([]byte(required), &schema.RequiredComponentIDs); err != nil {
		return unit.Schema{}, err
	}
	return schema, nil
}

// GetSchema returns one production schema.
func (s *Store) GetSchema(ctx context.Context, schemaID string) (unit.Schema, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+schemaColumns+" FROM production_schemas WHERE schema_id = ?", schemaID)
	schema, err := scanSchema(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return unit.Schema{}, notFound("get schema", "schema "+schemaID)
	case err != nil:
		return unit.Schema{}, persistence("get schema", schemaID, err)
	}
	return schema, nil
}

// ListSchemas returns every production schema ordered by id.
func (s *Store) ListSchemas(ctx context.Context) ([]unit.Schema, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+schemaColumns+" FROM production_schemas ORDER BY schema_id")
	if err != nil {
		return nil, persistence("list schemas", "", err)
	}
	defer rows.Close()

	var schemas []unit.Schema
	for rows.Next() {
		schema, err := scanSchema(rows)
		if err != nil {
			return nil, persistence("list schemas", "scan", err)
		}
		schemas = append(schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list schemas", "", err)
	}
	return schemas, nil
}
