package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/pipeline"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	Output  string
	Journal string
	Watch   bool

	// IDs overrides the run id generator (for testing).
	IDs pipeline.IDGenerator
}

// RewriteResult is the JSON payload of the rewrite command.
type RewriteResult struct {
	RunID      string         `json:"run_id"`
	Source     string         `json:"source"`
	Changed    bool           `json:"changed"`
	Restored   int            `json:"restored"`
	Aborted    int            `json:"aborted"`
	HashBefore string         `json:"hash_before"`
	HashAfter  string         `json:"hash_after"`
	Output     string         `json:"output,omitempty"`
	Module     map[string]any `json:"module,omitempty"`
}

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <module.yaml>",
		Short: "Restore native switches in an IR module",
		Long: `Decode an IR module, restore every switch lowered through an index
map, and print the rewritten module.

With --watch the input is rewritten again every time it changes, until
interrupted.

Examples:
  deswitch rewrite module.yaml
  deswitch rewrite module.yaml --output restored.txt --journal runs.db
  deswitch rewrite module.yaml --format json
  deswitch rewrite module.yaml --watch`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the rewritten module to a file")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record the run in this SQLite journal (overrides config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "rewrite again whenever the input changes")

	return cmd
}

func runRewrite(opts *RewriteOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(err)
	}
	s := &session{cfg: cfg, logger: opts.logger(cmd), journal: cfg.Journal, ids: opts.IDs}
	if opts.Journal != "" {
		s.journal = opts.Journal
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	if !opts.Watch {
		return formatter.Fail(rewriteOnce(parent, opts, s, path, formatter))
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = watchFile(ctx, path, s.logger, func() error {
		if err := rewriteOnce(ctx, opts, s, path, formatter); err != nil {
			// Keep watching: the next save may fix the input.
			_ = formatter.Fail(err)
		}
		return nil
	})
	if err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, ErrCodeGeneric, "watch failed", err))
	}
	return nil
}

// rewriteOnce returns nil on success so it can be passed straight to
// formatter.Fail.
func rewriteOnce(ctx context.Context, opts *RewriteOptions, s *session, path string, formatter *OutputFormatter) error {
	m, err := loadModule(path)
	if err != nil {
		return err
	}
	res, err := s.run(ctx, path, m)
	if err != nil {
		return err
	}
	formatter.VerboseLog("run %s: restored %d, aborted %d", res.RunID, res.Restored(), res.Aborted())

	out := RewriteResult{
		RunID:      res.RunID,
		Source:     path,
		Changed:    res.Changed(),
		Restored:   res.Restored(),
		Aborted:    res.Aborted(),
		HashBefore: res.HashBefore,
		HashAfter:  res.HashAfter,
	}

	if opts.Output == "" {
		out.Module = ir.ModuleToCanonical(m)
		return formatter.Success(out, ir.FormatModule(m))
	}

	data, err := renderModule(m, opts.Format)
	if err != nil {
		return WrapExitError(ExitFailure, ErrCodeGeneric, "failed to render module", err)
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", opts.Output), err)
	}
	out.Output = opts.Output
	return formatter.Success(out, fmt.Sprintf("%s: restored %d, aborted %d -> %s\n",
		path, out.Restored, out.Aborted, opts.Output))
}

// renderModule renders m for a file: canonical JSON or printed text.
func renderModule(m *ir.Module, format string) ([]byte, error) {
	if format == "json" {
		return ir.MarshalCanonical(ir.ModuleToCanonical(m))
	}
	return []byte(ir.FormatModule(m)), nil
}

// watchFile calls run once, then again after every write to path, until
// ctx is done. The parent directory is watched so editors that save by
// renaming over the file are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, run func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching", "path", target)

	if err := run(); err != nil {
		return err
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped", "path", target)
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("input changed", "path", target, "op", ev.Op.String())
			timer.Reset(watchDebounce)
		case <-timer.C:
			if err := run(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
