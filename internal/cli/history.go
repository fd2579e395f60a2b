package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/deswitch/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	Limit   int
	Run     string // show one run's rewrites
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs     []journal.Run     `json:"runs,omitempty"`
	Rewrites []journal.Rewrite `json:"rewrites,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded rewrite runs",
		Long: `List the runs recorded in a journal, newest first, or show every
switch one run restored or aborted.

Examples:
  deswitch history --journal runs.db
  deswitch history --journal runs.db --run 0192f0c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the rewrites of this run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, ErrCodeJournal, "failed to open journal", err))
	}
	defer j.Close()

	if opts.Run != "" {
		return formatter.Fail(showRun(ctx, j, opts.Run, formatter))
	}

	runs, err := j.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, ErrCodeJournal, "failed to list runs", err))
	}
	if len(runs) == 0 {
		return formatter.Success(HistoryResult{Runs: []journal.Run{}}, "No runs recorded\n")
	}

	var b strings.Builder
	for _, r := range runs {
		started := "-"
		if t, ok := r.StartedAt(); ok {
			started = t.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%s  %s  %s  restored=%d aborted=%d  %s\n",
			r.ID, started, r.Module, r.Restored, r.Aborted, r.Source)
	}
	return formatter.Success(HistoryResult{Runs: runs}, b.String())
}

func showRun(ctx context.Context, j *journal.Journal, id string, formatter *OutputFormatter) error {
	run, err := j.ReadRun(ctx, id)
	if errors.Is(err, journal.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no run %s", id), err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeJournal, "failed to read run", err)
	}
	rewrites, err := j.ListRewrites(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeJournal, "failed to list rewrites", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %s from %s\n", run.ID, run.Module, run.Source)
	for _, rw := range rewrites {
		switch rw.Status {
		case journal.StatusRestored:
			fmt.Fprintf(&b, "  #%d %s: switch on %s via %s.%s -> %s\n",
				rw.Seq, rw.Function, rw.Key, rw.FieldType, rw.FieldName, strings.Join(rw.Values, ", "))
		default:
			fmt.Fprintf(&b, "  #%d %s: switch on %s aborted: %s\n", rw.Seq, rw.Function, rw.Key, rw.Error)
		}
	}
	return formatter.Success(HistoryResult{Runs: []journal.Run{run}, Rewrites: rewrites}, b.String())
}
