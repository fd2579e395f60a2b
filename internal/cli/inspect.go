package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deswitch/internal/ir"
)

// InspectEntry is one switch the rewrite would rebuild or leave alone.
type InspectEntry struct {
	Function  string   `json:"function"`
	Status    string   `json:"status"` // "restorable" or "aborted"
	Key       string   `json:"key"`
	Index     string   `json:"index,omitempty"`
	Field     string   `json:"field,omitempty"`
	Values    []string `json:"values,omitempty"`
	Relocated int      `json:"relocated"`
	Reason    string   `json:"reason,omitempty"`
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Source     string         `json:"source"`
	Module     string         `json:"module"`
	Functions  int            `json:"functions"`
	Restorable int            `json:"restorable"`
	Aborted    int            `json:"aborted"`
	Entries    []InspectEntry `json:"entries"`
}

// Inspect statuses.
const (
	StatusRestorable = "restorable"
	StatusAborted    = "aborted"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <module.yaml>",
		Short: "List the switches a rewrite would restore",
		Long: `Run the rewrite on a copy of the module and report every lowered
switch found, whether it can be restored, and why not when it cannot.
Nothing is written and nothing is journaled.

Examples:
  deswitch inspect module.yaml
  deswitch inspect module.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(err)
	}
	m, err := loadModule(path)
	if err != nil {
		return formatter.Fail(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s := &session{cfg: cfg, logger: opts.logger(cmd)}
	res, err := s.run(ctx, path, ir.CloneModule(m))
	if err != nil {
		return formatter.Fail(err)
	}

	out := InspectResult{
		Source:    path,
		Module:    m.Name,
		Functions: len(m.Functions),
		Entries:   []InspectEntry{},
	}
	for _, fr := range res.Functions {
		for _, rw := range fr.Restored {
			out.Entries = append(out.Entries, InspectEntry{
				Function:  rw.Function,
				Status:    StatusRestorable,
				Key:       rw.Key,
				Index:     rw.Index,
				Field:     rw.Field.DeclaringType + "." + rw.Field.Name,
				Values:    rw.Values,
				Relocated: rw.Relocated,
			})
			out.Restorable++
		}
		for _, ab := range fr.Aborted {
			out.Entries = append(out.Entries, InspectEntry{
				Function: ab.Function,
				Status:   StatusAborted,
				Key:      ab.Key,
				Reason:   ab.Err.Error(),
			})
			out.Aborted++
		}
	}
	return formatter.Success(out, inspectText(out))
}

func inspectText(r InspectResult) string {
	var b strings.Builder
	for _, e := range r.Entries {
		switch e.Status {
		case StatusRestorable:
			fmt.Fprintf(&b, "%s: switch on %s via %s -> %s", e.Function, e.Key, e.Field, strings.Join(e.Values, ", "))
			if e.Relocated > 0 {
				fmt.Fprintf(&b, " (%d statement(s) into default)", e.Relocated)
			}
			b.WriteByte('\n')
		case StatusAborted:
			fmt.Fprintf(&b, "%s: switch on %s left as is: %s\n", e.Function, e.Key, e.Reason)
		}
	}
	fmt.Fprintf(&b, "%d function(s), %d restorable, %d aborted\n", r.Functions, r.Restorable, r.Aborted)
	return b.String()
}
