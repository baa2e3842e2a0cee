package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"workbench/internal/unit"
)

// maxComponentDepth bounds component recursion on corrupt data.
const maxComponentDepth = 32

// PushUnit upserts u and replaces its stages. With includeComponents the
// whole component tree is written in the same transaction.
func (s *Store) PushUnit(ctx context.Context, u *unit.Unit, includeComponents bool) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return s.pushTx(ctx, tx, u, includeComponents, 0)
	})
	if err != nil {
		return persistence("push unit", u.InternalID, err)
	}
	return nil
}

func (s *Store) pushTx(ctx context.Context, tx *sql.Tx, u *unit.Unit, includeComponents bool, depth int) error {
	if depth > maxComponentDepth {
		return fmt.Errorf("component tree of %s is deeper than %d", u.InternalID, maxComponentDepth)
	}
	if includeComponents {
		for _, component := range u.Components {
			if err := s.pushTx(ctx, tx, component, true, depth+1); err != nil {
				return err
			}
		}
	}

	components, err := json.Marshal(u.ComponentInternalIDs())
	if err != nil {
		return fmt.Errorf("encode components: %w", err)
	}
	now := s.now()
	created := u.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO units
    (uuid, internal_id, schema_id, status, featured_in_int_id, passport_cid, passport_short_url,
     txn_hash, serial_number, components_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(uuid) DO UPDATE SET
    status = excluded.status,
    featured_in_int_id = excluded.featured_in_int_id,
    passport_cid = excluded.passport_cid,
    passport_short_url = excluded.passport_short_url,
    txn_hash = CASE WHEN excluded.txn_hash = '' THEN units.txn_hash ELSE excluded.txn_hash END,
    serial_number = excluded.serial_number,
    components_json = excluded.components_json,
    updated_at = excluded.updated_at`,
		u.UUID, u.InternalID, u.Schema.SchemaID, string(u.Status), u.FeaturedIn, u.PassportCID,
		u.PassportShortURL, u.TxnHash, u.SerialNumber, string(components),
		formatTime(&created).String, formatTime(&now).String)
	if err != nil {
		return fmt.Errorf("upsert unit %s: %w", u.InternalID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM production_stages WHERE parent_unit_uuid = ?", u.UUID); err != nil {
		return fmt.Errorf("clear stages of %s: %w", u.InternalID, err)
	}
	for _, stage := range u.Biography {
		if err := insertStage(ctx, tx, u.UUID, stage); err != nil {
			return err
		}
	}
	return nil
}

func insertStage(ctx context.Context, tx *sql.Tx, unitUUID string, stage *unit.ProductionStage) error {
	media, err := json.Marshal(stage.VideoHashes)
	if err != nil {
		return fmt.Errorf("encode stage media: %w", err)
	}
	metadata, err := json.Marshal(stage.Metadata)
	if err != nil {
		return fmt.Errorf("encode stage metadata: %w", err)
	}
	created := stage.CreatedAt
	_, err = tx.ExecContext(ctx, `
INSERT INTO production_stages
    (id, parent_unit_uuid, number, name, schema_stage_id, employee_code, session_start, session_end,
     ended_prematurely, completed, media_json, metadata_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stage.ID, unitUUID, stage.Number, stage.Name, stage.SchemaStageID, stage.EmployeeCode,
		formatTime(stage.SessionStart), formatTime(stage.SessionEnd),
		boolInt(stage.EndedPrematurely), boolInt(stage.Completed),
		string(media), string(metadata), formatTime(&created).String)
	if err != nil {
		return fmt.Errorf("insert stage %s: %w", stage.ID, err)
	}
	return nil
}

// GetUnitByInternalID loads a unit with its biography and component tree.
func (s *Store) GetUnitByInternalID(ctx context.Context, internalID string) (*unit.Unit, error) {
	u, err := s.loadUnit(ctx, internalID, 0)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("get unit", "unit "+internalID)
		}
		return nil, persistence("get unit", internalID, err)
	}
	return u, nil
}

func (s *Store) loadUnit(ctx context.Context, internalID string, depth int) (*unit.Unit, error) {
	if depth > maxComponentDepth {
		return nil, fmt.Errorf("component tree of %s is deeper than %d", internalID, maxComponentDepth)
	}
	var (
		rec        unit.Record
		schemaID   string
		status     string
		components string
		createdRaw sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
SELECT uuid, internal_id, schema_id, status, featured_in_int_id, passport_cid, passport_short_url,
       txn_hash, serial_number, components_json, created_at
FROM units WHERE internal_id = ?`, internalID).Scan(
		&rec.UUID, &rec.InternalID, &schemaID, &status, &rec.FeaturedIn, &rec.PassportCID,
		&rec.PassportShortURL, &rec.TxnHash, &rec.SerialNumber, &components, &createdRaw)
	if err != nil {
		return nil, err
	}

	rec.Status, err = unit.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	created, err := parseTime(createdRaw)
	if err != nil {
		return nil, err
	}
	if created != nil {
		rec.CreatedAt = *created
	}
	schema, err := s.GetSchema(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("schema of unit %s: %w", internalID, err)
	}
	if rec.Biography, err = s.loadStages(ctx, rec.UUID); err != nil {
		return nil, err
	}

	var componentIDs []string
	if err := json.Unmarshal([]byte(components), &componentIDs); err != nil {
		return nil, fmt.Errorf("decode components of %s: %w", internalID, err)
	}
	for _, id := range componentIDs {
		component, err := s.loadUnit(ctx, id, depth+1)
		if err != nil {
			return nil, fmt.Errorf("component %s of %s: %w", id, internalID, err)
		}
		rec.Components = append(rec.Components, component)
	}
	return unit.Restore(schema, rec)
}

func (s *Store) loadStages(ctx context.Context, unitUUID string) ([]*unit.ProductionStage, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, number, name, schema_stage_id, employee_code, session_start, session_end,
       ended_prematurely, completed, media_json, metadata_json, created_at
FROM production_stages WHERE parent_unit_uuid = ? ORDER BY number`, unitUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := []*unit.ProductionStage{}
	for rows.Next() {
		var (
			stage                 unit.ProductionStage
			start, end, createdAt sql.NullString
			premature, completed  int
			media, metadata       string
		)
		if err := rows.Scan(&stage.ID, &stage.Number, &stage.Name, &stage.SchemaStageID, &stage.EmployeeCode,
			&start, &end, &premature, &completed, &media, &metadata, &createdAt); err != nil {
			return nil, err
		}
		stage.ParentUnitUUID = unitUUID
		stage.EndedPrematurely = premature != 0
		stage.Completed = completed != 0
		if stage.SessionStart, err = parseTime(start); err != nil {
			return nil, err
		}
		if stage.SessionEnd, err = parseTime(end); err != nil {
			return nil, err
		}
		if created, err := parseTime(createdAt); err != nil {
			return nil, err
		} else if created != nil {
			stage.CreatedAt = *created
		}
		if err := json.Unmarshal([]byte(media), &stage.VideoHashes); err != nil {
			return nil, fmt.Errorf("decode stage media: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &stage.Metadata); err != nil {
			return nil, fmt.Errorf("decode stage metadata: %w", err)
		}
		stages = append(stages, &stage)
	}
	return stages, rows.Err()
}

// UnitSummary names a unit in listings.
type UnitSummary struct {
	InternalID string `json:"internal_id"`
	UnitName   string `json:"unit_name"`
}

// UnitsByStatus lists the units currently in status.
func (s *Store) UnitsByStatus(ctx context.Context, status unit.Status) ([]UnitSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT u.internal_id, COALESCE(p.unit_name, '')
FROM units u LEFT JOIN production_schemas p ON p.schema_id = u.schema_id
WHERE u.status = ? ORDER BY u.created_at`, string(status))
	if err != nil {
		return nil, persistence("units by status", string(status), err)
	}
	defer rows.Close()

	var out []UnitSummary
	for rows.Next() {
		var summary UnitSummary
		if err := rows.Scan(&summary.InternalID, &summary.UnitName); err != nil {
			return nil, persistence("units by status", "scan", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("units by status", string(status), err)
	}
	return out, nil
}

// UpdateUnitTxnHash records the ledger transaction of a unit.
func (s *Store) UpdateUnitTxnHash(ctx context.Context, internalID, txnHash string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			"UPDATE units SET txn_hash = ?, updated_at = ? WHERE internal_id = ?",
			txnHash, s.now().UTC().Format(timeLayout), internalID)
		return execErr
	})
	if err != nil {
		return persistence("update txn hash", internalID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("update txn hash", "unit "+internalID)
	}
	return nil
}
