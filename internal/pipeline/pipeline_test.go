package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
	"github.com/roach88/deswitch/internal/transform"
	"github.com/roach88/deswitch/internal/verify"
)

const sample = `
ir_version: "1.0.0"
name: sample
functions:
  - name: Classify
    parameters: [s]
    body:
      - kind: var
        declarations: [i]
      - kind: if
        condition: {kind: binary, op: "==", left: !var s, right: !default string}
        then: !goto IL_default
      - kind: if
        condition:
          kind: binary
          op: "=="
          left: {kind: ignored, member: !field Switch.map0}
          right: !default Dictionary
        then:
          - kind: call
            method: Add
            this: {kind: ignored, member: !field Switch.map0}
            arguments: ["a", 0]
          - kind: call
            method: Add
            this: {kind: ignored, member: !field Switch.map0}
            arguments: ["b", 1]
      - kind: if
        condition:
          kind: unary
          op: "!"
          operand:
            kind: call
            method: TryResolve
            this: {kind: ignored, member: !field Switch.map0}
            arguments: [!var s, {kind: out, referent: !var i}]
        then: !goto IL_default
      - kind: switch
        condition: !var i
        cases:
          - values: [0]
            body: [{kind: return, value: 10}]
          - values: [5]
            body: [{kind: return, value: 11}]
          - default: true
            body: [!goto IL_default]
      - kind: return
        label: IL_default
        value: -1
  - name: Identity
    parameters: [x]
    body:
      - kind: return
        value: !var x
`

func decode(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := ir.DecodeModule([]byte(src))
	require.NoError(t, err)
	return m
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newPipeline(passes ...Pass) *Pipeline {
	p := New(passes...)
	p.Logger = discard()
	p.IDs = NewFixedGenerator("run-1", "run-2")
	return p
}

func restoreSwitch() Pass {
	return transform.RestoreSwitch{Options: transform.Options{Logger: discard()}}
}

// failingPass always errors.
type failingPass struct{}

func (failingPass) Name() string { return "fail" }
func (failingPass) Apply(*ir.Function) (transform.Result, error) {
	return transform.Result{}, errors.New("boom")
}

// danglingPass appends a jump to a label that does not exist.
type danglingPass struct{}

func (danglingPass) Name() string { return "dangle" }
func (danglingPass) Apply(fn *ir.Function) (transform.Result, error) {
	fn.Body.Statements = append(fn.Body.Statements, ir.Stmt(ir.Goto("nowhere")))
	return transform.Result{}, nil
}

func TestRunAbortsOnMissingIndex(t *testing.T) {
	m := decode(t, sample)
	before := ir.FormatModule(m)

	res, err := newPipeline(restoreSwitch()).Run(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 0, res.Restored())
	assert.Equal(t, 1, res.Aborted())
	assert.False(t, res.Changed())
	assert.Equal(t, before, ir.FormatModule(m))

	require.Len(t, res.Rewrites, 1)
	rec := res.Rewrites[0]
	assert.Equal(t, journal.StatusAborted, rec.Status)
	assert.Equal(t, "Classify", rec.Function)
	assert.Equal(t, "s", rec.Key)
	assert.Contains(t, rec.Error, transform.ErrMissingIndex.Error())
}

func TestRunRestoresAndJournals(t *testing.T) {
	m := decode(t, sample)
	m.Function("Classify").Body.Statements[4].(*ir.SwitchStatement).Cases[1].Values[0] = ir.Int(1)

	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	p := newPipeline(restoreSwitch())
	p.Journal = j
	p.Source = "sample.yaml"

	res, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored())
	assert.True(t, res.Changed())
	require.Len(t, res.Functions, 2)
	assert.True(t, res.Functions[0].Changed())
	assert.False(t, res.Functions[1].Changed())

	run, err := j.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "sample.yaml", run.Source)
	assert.Equal(t, "sample", run.Module)
	assert.Equal(t, res.HashBefore, run.HashBefore)
	assert.Equal(t, res.HashAfter, run.HashAfter)
	assert.Equal(t, 1, run.Restored)
	assert.Equal(t, 0, run.Aborted)

	rws, err := j.ListRewrites(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, rws, 1)
	assert.Equal(t, int64(1), rws[0].Seq)
	assert.Equal(t, transform.RestoreSwitchName, rws[0].Pass)
	assert.Equal(t, journal.StatusRestored, rws[0].Status)
	assert.Equal(t, "i", rws[0].Index)
	assert.Equal(t, "Switch", rws[0].FieldType)
	assert.Equal(t, "map0", rws[0].FieldName)
	assert.Equal(t, []string{`"a"`, `"b"`}, rws[0].Values)
	assert.Equal(t, 1, rws[0].Relocated)
	assert.True(t, rws[0].GuardErased)
}

func TestRunIsIdempotent(t *testing.T) {
	m := decode(t, sample)
	m.Function("Classify").Body.Statements[4].(*ir.SwitchStatement).Cases[1].Values[0] = ir.Int(1)

	p := newPipeline(restoreSwitch())
	first, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	require.True(t, first.Changed())

	second, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "run-2", second.RunID)
	assert.False(t, second.Changed())
	assert.Equal(t, first.HashAfter, second.HashBefore)
	assert.Zero(t, second.Restored())
}

func TestRunRejectsUnsupportedVersion(t *testing.T) {
	m := decode(t, sample)
	m.IRVersion = "2.0.0"

	_, err := newPipeline(restoreSwitch()).Run(context.Background(), m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ir.ErrUnsupportedVersion)
}

func TestRunWrapsPassError(t *testing.T) {
	_, err := newPipeline(failingPass{}).Run(context.Background(), decode(t, sample))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass fail on Classify")
	assert.Contains(t, err.Error(), "boom")
}

func TestRunVerifiesAfterEachPass(t *testing.T) {
	_, err := newPipeline(danglingPass{}).Run(context.Background(), decode(t, sample))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerification)

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Classify", verr.Function)
	assert.Equal(t, "dangle", verr.Pass)
	require.NotEmpty(t, verr.Issues)
	assert.Equal(t, verify.CodeDanglingGoto, verr.Issues[0].Code)
}

func TestRunWithoutVerify(t *testing.T) {
	p := newPipeline(danglingPass{})
	p.Verify = false

	res, err := p.Run(context.Background(), decode(t, sample))
	require.NoError(t, err)
	assert.True(t, res.Changed())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(restoreSwitch()).Run(ctx, decode(t, sample))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunJournalsNothingOnFailure(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	p := newPipeline(failingPass{})
	p.Journal = j
	_, err = p.Run(context.Background(), decode(t, sample))
	require.Error(t, err)

	runs, err := j.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
