package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (j *Journal) WriteRun(ctx context.Context, run Run) error {
	if err := writeRun(ctx, j.db, run); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteRewrite inserts a rewrite record. The run must already be recorded
// (foreign key constraint).
// Uses ON CONFLICT DO NOTHING for idempotency.
func (j *Journal) WriteRewrite(ctx context.Context, rw Rewrite) error {
	if err := writeRewrite(ctx, j.db, rw); err != nil {
		return fmt.Errorf("write rewrite: %w", err)
	}
	return nil
}

// WriteRunAtomic records a run and all of its rewrites in one transaction,
// so a crash never leaves a run without its rewrites.
func (j *Journal) WriteRunAtomic(ctx context.Context, run Run, rewrites []Rewrite) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic run: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return fmt.Errorf("atomic run: %w", err)
	}
	for _, rw := range rewrites {
		if err := writeRewrite(ctx, tx, rw); err != nil {
			return fmt.Errorf("atomic run: seq %d: %w", rw.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic run: commit: %w", err)
	}
	return nil
}

func writeRun(ctx context.Context, db execer, run Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, source, module, ir_version, tool_version, hash_before, hash_after, restored, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Source,
		run.Module,
		run.IRVersion,
		run.ToolVersion,
		run.HashBefore,
		run.HashAfter,
		run.Restored,
		run.Aborted,
	)
	return err
}

func writeRewrite(ctx context.Context, db execer, rw Rewrite) error {
	values, err := marshalValues(rw.Values)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO rewrites
		(run_id, seq, function, pass, status, key_var, index_var, field_type, field_name,
		 case_values, relocated, guard_erased, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		rw.RunID,
		rw.Seq,
		rw.Function,
		rw.Pass,
		rw.Status,
		rw.Key,
		rw.Index,
		rw.FieldType,
		rw.FieldName,
		values,
		rw.Relocated,
		boolToInt(rw.GuardErased),
		rw.Error,
	)
	return err
}
