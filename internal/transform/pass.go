package transform

import "github.com/roach88/deswitch/internal/ir"

// RestoreSwitchName identifies the switch restoration pass in logs and the journal.
const RestoreSwitchName = "restore-switch"

// RestoreSwitch adapts SwitchRestorer to the pipeline. Each Apply uses a
// fresh restorer, so record tables never leak from one function body into
// the next.
type RestoreSwitch struct {
	Options Options
}

// Name returns RestoreSwitchName.
func (RestoreSwitch) Name() string { return RestoreSwitchName }

// Apply restores every recognized switch in fn. Aborted switches are
// reported in the Result, not as an error.
func (p RestoreSwitch) Apply(fn *ir.Function) (Result, error) {
	if fn == nil || fn.Body == nil {
		return Result{}, nil
	}
	return NewSwitchRestorer(p.Options).Run(fn), nil
}
