package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
//
// Returns an empty slice (not nil) if the journal is empty.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, source, module, ir_version, tool_version, hash_before, hash_after, restored, aborted
		FROM runs
		ORDER BY id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a single run by id.
func (j *Journal) ReadRun(ctx context.Context, id string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, source, module, ir_version, tool_version, hash_before, hash_after, restored, aborted
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ListRewrites returns the rewrites of a run in seq order.
//
// Returns an empty slice (not nil) if the run recorded no rewrites.
func (j *Journal) ListRewrites(ctx context.Context, runID string) ([]Rewrite, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, function, pass, status, key_var, index_var, field_type, field_name,
		       case_values, relocated, guard_erased, error
		FROM rewrites
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query rewrites: %w", err)
	}
	defer rows.Close()

	rewrites := []Rewrite{}
	for rows.Next() {
		var rw Rewrite
		var values string
		var guard int
		if err := rows.Scan(
			&rw.RunID, &rw.Seq, &rw.Function, &rw.Pass, &rw.Status, &rw.Key, &rw.Index,
			&rw.FieldType, &rw.FieldName, &values, &rw.Relocated, &guard, &rw.Error,
		); err != nil {
			return nil, fmt.Errorf("scan rewrite: %w", err)
		}
		if rw.Values, err = unmarshalValues(values); err != nil {
			return nil, err
		}
		rw.GuardErased = guard != 0
		rewrites = append(rewrites, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewrites: %w", err)
	}
	return rewrites, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	err := s.Scan(
		&run.ID, &run.Source, &run.Module, &run.IRVersion, &run.ToolVersion,
		&run.HashBefore, &run.HashAfter, &run.Restored, &run.Aborted,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
