package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
	"github.com/roach88/deswitch/internal/verify"
)

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	Scenario *Scenario
	Logger   *slog.Logger
}

// EvaluateAssertions checks every assertion and returns one message per
// failure. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertRestored:
		return assertCount(result, journal.StatusRestored, a.Count)
	case AssertAborted:
		return assertCount(result, journal.StatusAborted, a.Count)
	case AssertSwitchOn:
		return assertSwitchOn(result.after, a)
	case AssertUnchanged:
		return assertUnchanged(result, a.Function)
	case AssertVariableAbsent:
		return assertVariableAbsent(result.after, a)
	case AssertNoGoto:
		return assertNoGoto(result.after, a)
	case AssertIdempotent:
		return assertIdempotent(result.after, actx)
	case AssertVerified:
		if issues := verify.Module(result.after); len(issues) > 0 {
			return fmt.Errorf("%d issue(s), first: %v", len(issues), issues[0])
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func lookupFunction(m *ir.Module, name string) (*ir.Function, error) {
	fn := m.Function(name)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found", name)
	}
	return fn, nil
}

func assertCount(result *Result, status string, want int) error {
	if got := result.Count(status); got != want {
		return fmt.Errorf("expected %d %s switch(es), got %d", want, status, got)
	}
	return nil
}

func assertSwitchOn(m *ir.Module, a Assertion) error {
	fn, err := lookupFunction(m, a.Function)
	if err != nil {
		return err
	}
	var seen [][]string
	for ss := range ir.DescendantsOf[*ir.SwitchStatement](fn) {
		v, ok := ss.Condition.(*ir.Variable)
		if !ok || v.Name != a.Key {
			continue
		}
		var values []string
		for _, c := range ss.Cases {
			for _, cv := range c.Values {
				values = append(values, ir.Format(cv))
			}
		}
		if slices.Equal(values, a.Values) {
			return nil
		}
		seen = append(seen, values)
	}
	if len(seen) == 0 {
		return fmt.Errorf("no switch on %s in %s", a.Key, a.Function)
	}
	return fmt.Errorf("switch on %s has cases %v, expected %v", a.Key, seen, a.Values)
}

func assertUnchanged(result *Result, name string) error {
	before, err := lookupFunction(result.before, name)
	if err != nil {
		return err
	}
	after, err := lookupFunction(result.after, name)
	if err != nil {
		return err
	}
	hb, err := ir.TreeHash(before)
	if err != nil {
		return err
	}
	ha, err := ir.TreeHash(after)
	if err != nil {
		return err
	}
	if hb != ha {
		return fmt.Errorf("%s changed:\n%s", name, ir.Format(after))
	}
	return nil
}

func assertVariableAbsent(m *ir.Module, a Assertion) error {
	fn, err := lookupFunction(m, a.Function)
	if err != nil {
		return err
	}
	if _, ok := fn.LookupVariable(a.Variable); ok {
		return fmt.Errorf("%s is still registered in %s", a.Variable, a.Function)
	}
	for v := range ir.DescendantsOf[*ir.Variable](fn) {
		if v.Name == a.Variable {
			return fmt.Errorf("%s is still referenced in %s", a.Variable, a.Function)
		}
	}
	return nil
}

func assertNoGoto(m *ir.Module, a Assertion) error {
	fn, err := lookupFunction(m, a.Function)
	if err != nil {
		return err
	}
	for g := range ir.DescendantsOf[*ir.GotoExpression](fn) {
		if g.TargetLabel == a.Label {
			return fmt.Errorf("%s still jumps to %s", a.Function, a.Label)
		}
	}
	return nil
}

// assertIdempotent reruns the pipeline on a copy of the output.
func assertIdempotent(m *ir.Module, actx *AssertionContext) error {
	again := ir.CloneModule(m)
	res, err := newPipeline(actx.Scenario, actx.Logger).Run(context.Background(), again)
	if err != nil {
		return err
	}
	if res.Changed() || res.Restored() > 0 {
		return fmt.Errorf("second run restored %d switch(es)", res.Restored())
	}
	return nil
}
