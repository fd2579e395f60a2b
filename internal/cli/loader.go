package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/deswitch/internal/config"
	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
	"github.com/roach88/deswitch/internal/pipeline"
	"github.com/roach88/deswitch/internal/transform"
)

// loadModule reads and decodes an IR document and gates its version.
func loadModule(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("failed to read %s", path), err)
	}
	m, err := ir.DecodeModule(data)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeDecode, fmt.Sprintf("failed to decode %s", path), err)
	}
	if err := ir.CheckVersion(m.IRVersion); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeVersion, fmt.Sprintf("cannot rewrite %s", path), err)
	}
	return m, nil
}

// session is one configured pipeline invocation shared by the commands
// that rewrite.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	journal string // empty disables journaling
	ids     pipeline.IDGenerator
}

func (s *session) pipeline(source string) *pipeline.Pipeline {
	p := pipeline.New(transform.RestoreSwitch{Options: transform.Options{
		InitializerMethod: s.cfg.InitializerMethod,
		LookupMethod:      s.cfg.LookupMethod,
		Logger:            s.logger,
	}})
	p.Verify = s.cfg.Verify
	p.Logger = s.logger
	p.Source = source
	p.IDs = s.ids
	return p
}

// run rewrites m in place, journaling the run when a journal is set.
func (s *session) run(ctx context.Context, source string, m *ir.Module) (*pipeline.RunResult, error) {
	p := s.pipeline(source)
	if s.journal != "" {
		j, err := journal.Open(s.journal)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				s.logger.Error("error closing journal", "error", err)
			}
		}()
		p.Journal = j
	}

	res, err := p.Run(ctx, m)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, pipeline.ErrVerification):
		return nil, WrapExitError(ExitFailure, ErrCodeVerification, "rewritten module failed verification", err)
	case errors.Is(err, ir.ErrUnsupportedVersion):
		return nil, WrapExitError(ExitCommandError, ErrCodeVersion, "unsupported module", err)
	default:
		return nil, WrapExitError(ExitFailure, ErrCodeGeneric, "rewrite failed", err)
	}
}
