// Package config loads deswitch settings from a CUE file.
//
// A config file holds a single deswitch struct:
//
//	deswitch: {
//		initializer_method: "Add"
//		lookup_method:      "TryGetValue"
//		journal:            ".deswitch/journal.db"
//		verify:             true
//	}
//
// Every field is optional. Fields outside the struct are rejected.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/deswitch/internal/transform"
)

// schema constrains the deswitch struct. Definitions are closed, so an
// unknown field fails unification.
const schema = `
#Method: =~"^[A-Za-z_][A-Za-z0-9_]*$"

#Config: {
	initializer_method?: #Method
	lookup_method?:      #Method
	journal?:            string
	verify?:             bool
}

deswitch?: #Config
`

// Config is the resolved tool configuration.
type Config struct {
	InitializerMethod string `json:"initializer_method"`
	LookupMethod      string `json:"lookup_method"`
	Journal           string `json:"journal,omitempty"` // empty disables the journal
	Verify            bool   `json:"verify"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		InitializerMethod: transform.DefaultInitializerMethod,
		LookupMethod:      transform.DefaultLookupMethod,
		Verify:            true,
	}
}

// ConfigError is a configuration problem, positioned when CUE knows where.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates CUE source. filename is used in error positions.
func Parse(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()
	sch := ctx.CompileString(schema, cue.Filename("deswitch-schema.cue"))
	if err := sch.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	src := ctx.CompileBytes(data, cue.Filename(filename))
	if err := src.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	v := sch.Unify(src)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	cfg := Default()
	root := v.LookupPath(cue.ParsePath("deswitch"))
	if !root.Exists() {
		return cfg, nil
	}

	if err := lookupString(root, "initializer_method", &cfg.InitializerMethod); err != nil {
		return Config{}, err
	}
	if err := lookupString(root, "lookup_method", &cfg.LookupMethod); err != nil {
		return Config{}, err
	}
	if err := lookupString(root, "journal", &cfg.Journal); err != nil {
		return Config{}, err
	}
	if vv := root.LookupPath(cue.ParsePath("verify")); vv.Exists() {
		b, err := vv.Bool()
		if err != nil {
			return Config{}, formatCUEError(err)
		}
		cfg.Verify = b
	}

	if cfg.InitializerMethod == cfg.LookupMethod {
		return Config{}, &ConfigError{
			Field:   "lookup_method",
			Message: fmt.Sprintf("must differ from initializer_method %q", cfg.InitializerMethod),
			Pos:     src.LookupPath(cue.ParsePath("deswitch.lookup_method")).Pos(),
		}
	}
	return cfg, nil
}

func lookupString(root cue.Value, field string, dst *string) error {
	fv := root.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	s, err := fv.String()
	if err != nil {
		return formatCUEError(err)
	}
	*dst = s
	return nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	ce := &ConfigError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
