// Package pipeline drives rewrite passes over every function of a module.
//
// Passes run in order over one function at a time. A pass keeps no state
// between functions: the switch restoration pass builds a fresh restorer
// per function body. Context cancellation is honored between functions;
// a pass over a single body always runs to completion.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
	"github.com/roach88/deswitch/internal/transform"
	"github.com/roach88/deswitch/internal/verify"
)

// ErrVerification is wrapped by errors raised when a pass leaves a
// function structurally broken.
var ErrVerification = errors.New("verification failed")

// Pass rewrites one function body in place.
type Pass interface {
	Name() string
	Apply(fn *ir.Function) (transform.Result, error)
}

// Recorder persists completed runs. *journal.Journal implements it.
type Recorder interface {
	WriteRunAtomic(ctx context.Context, run journal.Run, rewrites []journal.Rewrite) error
}

var _ Recorder = (*journal.Journal)(nil)

// VerificationError lists the issues found after a pass.
type VerificationError struct {
	Function string
	Pass     string
	Issues   []verify.Issue
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = is.Error()
	}
	return fmt.Sprintf("%s after %s on %s: %s", ErrVerification, e.Pass, e.Function, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is match ErrVerification.
func (e *VerificationError) Unwrap() error { return ErrVerification }

// Pipeline applies Passes to every function of a module.
type Pipeline struct {
	Passes []Pass

	// Journal receives the run when non-nil.
	Journal Recorder

	// Verify runs structural verification after every pass.
	Verify bool

	// Source is recorded in the journal as the run's input.
	Source string

	// IDs generates run ids. Defaults to UUIDv7Generator.
	IDs IDGenerator

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New returns a pipeline running the given passes with verification on.
func New(passes ...Pass) *Pipeline {
	return &Pipeline{Passes: passes, Verify: true}
}

// FunctionResult is what the passes did to one function.
type FunctionResult struct {
	Name       string              `json:"name"`
	HashBefore string              `json:"hash_before"`
	HashAfter  string              `json:"hash_after"`
	Restored   []transform.Rewrite `json:"-"`
	Aborted    []transform.Abort   `json:"-"`
}

// Changed reports whether the function's tree changed.
func (f FunctionResult) Changed() bool { return f.HashBefore != f.HashAfter }

// RunResult summarizes one pipeline run.
type RunResult struct {
	RunID      string
	HashBefore string
	HashAfter  string
	Functions  []FunctionResult
	Rewrites   []journal.Rewrite
}

// Restored counts restored switches across all functions.
func (r *RunResult) Restored() int {
	n := 0
	for _, f := range r.Functions {
		n += len(f.Restored)
	}
	return n
}

// Aborted counts aborted switches across all functions.
func (r *RunResult) Aborted() int {
	n := 0
	for _, f := range r.Functions {
		n += len(f.Aborted)
	}
	return n
}

// Changed reports whether the module changed.
func (r *RunResult) Changed() bool { return r.HashBefore != r.HashAfter }

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) ids() IDGenerator {
	if p.IDs != nil {
		return p.IDs
	}
	return UUIDv7Generator{}
}

// Run rewrites m in place.
//
// The module's ir_version is checked first. On error the module may be
// partially rewritten and nothing is journaled.
func (p *Pipeline) Run(ctx context.Context, m *ir.Module) (*RunResult, error) {
	if err := ir.CheckVersion(m.IRVersion); err != nil {
		return nil, err
	}
	log := p.logger()

	before, err := ir.ModuleHash(m)
	if err != nil {
		return nil, fmt.Errorf("hash module: %w", err)
	}
	res := &RunResult{RunID: p.ids().Generate(), HashBefore: before}
	clock := NewClock()

	log.Info("pipeline starting",
		"run_id", res.RunID,
		"module", m.Name,
		"functions", len(m.Functions),
	)

	for _, fn := range m.Functions {
		if err := ctx.Err(); err != nil {
			log.Info("pipeline stopping: context cancelled", "run_id", res.RunID)
			return nil, fmt.Errorf("run %s: %w", res.RunID, err)
		}
		fr, err := p.runFunction(fn, res.RunID, clock, &res.Rewrites)
		if err != nil {
			log.Error("pipeline failed",
				"run_id", res.RunID,
				"function", fn.Name,
				"error", err,
			)
			return nil, err
		}
		res.Functions = append(res.Functions, fr)
	}

	if res.HashAfter, err = ir.ModuleHash(m); err != nil {
		return nil, fmt.Errorf("hash module: %w", err)
	}

	if p.Journal != nil {
		run := journal.Run{
			ID:          res.RunID,
			Source:      p.Source,
			Module:      m.Name,
			IRVersion:   m.IRVersion,
			ToolVersion: ir.ToolVersion,
			HashBefore:  res.HashBefore,
			HashAfter:   res.HashAfter,
			Restored:    res.Restored(),
			Aborted:     res.Aborted(),
		}
		if err := p.Journal.WriteRunAtomic(ctx, run, res.Rewrites); err != nil {
			return nil, fmt.Errorf("journal run %s: %w", res.RunID, err)
		}
	}

	log.Info("pipeline finished",
		"run_id", res.RunID,
		"restored", res.Restored(),
		"aborted", res.Aborted(),
		"changed", res.Changed(),
	)
	return res, nil
}

func (p *Pipeline) runFunction(fn *ir.Function, runID string, clock *Clock, rewrites *[]journal.Rewrite) (FunctionResult, error) {
	fr := FunctionResult{Name: fn.Name}
	var err error
	if fr.HashBefore, err = ir.TreeHash(fn); err != nil {
		return fr, fmt.Errorf("hash %s: %w", fn.Name, err)
	}

	for _, pass := range p.Passes {
		out, err := pass.Apply(fn)
		if err != nil {
			return fr, fmt.Errorf("pass %s on %s: %w", pass.Name(), fn.Name, err)
		}
		fr.Restored = append(fr.Restored, out.Restored...)
		fr.Aborted = append(fr.Aborted, out.Aborted...)
		for _, rw := range out.Restored {
			*rewrites = append(*rewrites, restoredRecord(runID, clock.Next(), pass.Name(), rw))
		}
		for _, ab := range out.Aborted {
			*rewrites = append(*rewrites, abortedRecord(runID, clock.Next(), pass.Name(), ab))
		}

		if p.Verify {
			if issues := verify.Function(fn); len(issues) > 0 {
				return fr, &VerificationError{Function: fn.Name, Pass: pass.Name(), Issues: issues}
			}
		}
	}

	if fr.HashAfter, err = ir.TreeHash(fn); err != nil {
		return fr, fmt.Errorf("hash %s: %w", fn.Name, err)
	}
	p.logger().Debug("function processed",
		"run_id", runID,
		"function", fn.Name,
		"restored", len(fr.Restored),
		"aborted", len(fr.Aborted),
		"changed", fr.Changed(),
	)
	return fr, nil
}

func restoredRecord(runID string, seq int64, pass string, rw transform.Rewrite) journal.Rewrite {
	values := rw.Values
	if values == nil {
		values = []string{}
	}
	return journal.Rewrite{
		RunID:       runID,
		Seq:         seq,
		Function:    rw.Function,
		Pass:        pass,
		Status:      journal.StatusRestored,
		Key:         rw.Key,
		Index:       rw.Index,
		FieldType:   rw.Field.DeclaringType,
		FieldName:   rw.Field.Name,
		Values:      values,
		Relocated:   rw.Relocated,
		GuardErased: rw.GuardErased,
	}
}

func abortedRecord(runID string, seq int64, pass string, ab transform.Abort) journal.Rewrite {
	rec := journal.Rewrite{
		RunID:    runID,
		Seq:      seq,
		Function: ab.Function,
		Pass:     pass,
		Status:   journal.StatusAborted,
		Key:      ab.Key,
		Values:   []string{},
	}
	if ab.Err != nil {
		rec.Error = ab.Err.Error()
	}
	return rec
}
