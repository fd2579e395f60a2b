package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
	"github.com/roach88/deswitch/internal/pipeline"
	"github.com/roach88/deswitch/internal/transform"
)

// Run executes a scenario and evaluates its assertions.
//
// Each run gets a fresh in-memory journal; the returned rewrites are read
// back from it rather than taken from the pipeline, so a scenario also
// exercises the journal round trip. A returned error means the scenario
// could not run at all; failed assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	data, err := os.ReadFile(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	m, err := ir.DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	result := NewResult()
	result.before = ir.CloneModule(m)

	p := newPipeline(scenario, logger)
	p.Journal = j
	p.IDs = pipeline.NewFixedGenerator(scenario.RunID)
	if _, err := p.Run(ctx, m); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	result.after = m
	result.Output = ir.FormatModule(m)

	rewrites, err := j.ListRewrites(ctx, scenario.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to read rewrites: %w", err)
	}
	result.Rewrites = append(result.Rewrites, rewrites...)

	actx := &AssertionContext{Scenario: scenario, Logger: logger}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func newPipeline(scenario *Scenario, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(transform.RestoreSwitch{Options: transform.Options{
		InitializerMethod: scenario.Options.InitializerMethod,
		LookupMethod:      scenario.Options.LookupMethod,
		Logger:            logger,
	}})
	p.Logger = logger
	p.Source = scenario.Input
	return p
}
