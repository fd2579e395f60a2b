package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/deswitch/internal/emit"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	Package string
	Output  string
}

// EmitResult is the JSON payload of the emit command.
type EmitResult struct {
	Package  string `json:"package"`
	Restored int    `json:"restored"`
	Output   string `json:"output,omitempty"`
	Source   string `json:"source,omitempty"`
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <module.yaml>",
		Short: "Rewrite a module and print it as Go source",
		Long: `Restore switches in a module and render the result as gofmt-formatted
Go source for review. The output is not meant to compile.

Examples:
  deswitch emit module.yaml
  deswitch emit module.yaml --package restored --output restored.go`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Package, "package", "", "Go package name (defaults to the module name)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the Go source to a file")

	return cmd
}

func runEmit(opts *EmitOptions, path string, cmd *cobra.Command) error {
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
	res, err := s.run(ctx, path, m)
	if err != nil {
		return formatter.Fail(err)
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = m.Name
	}
	src, err := emit.GoSource(m, pkg)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitFailure, ErrCodeEmit, "failed to render Go source", err))
	}

	out := EmitResult{Package: pkg, Restored: res.Restored()}
	if opts.Output == "" {
		out.Source = src
		return formatter.Success(out, src)
	}
	if err := os.WriteFile(opts.Output, []byte(src), 0o644); err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", opts.Output), err))
	}
	out.Output = opts.Output
	return formatter.Success(out, fmt.Sprintf("wrote %s (package %s)\n", opts.Output, pkg))
}
