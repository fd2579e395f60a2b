package transform

import (
	"errors"
	"log/slog"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/metadata"
	"github.com/roach88/deswitch/internal/visit"
)

// Default method names of the lowered index map.
const (
	DefaultInitializerMethod = "Add"
	DefaultLookupMethod      = "TryResolve"
)

// Abort reasons. A switch aborted with either is left in its integer form.
var (
	ErrMissingIndex    = errors.New("case index missing from initializer")
	ErrNonIntegerValue = errors.New("case value is not an integer literal")
)

// Options configures a SwitchRestorer. Zero values select the defaults.
type Options struct {
	// InitializerMethod is the map-population method ("Add").
	InitializerMethod string

	// LookupMethod is the map-lookup method ("TryResolve").
	LookupMethod string

	// Metadata resolves fields and default-value literals.
	Metadata metadata.Resolver

	// Logger receives per-switch diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.InitializerMethod == "" {
		o.InitializerMethod = DefaultInitializerMethod
	}
	if o.LookupMethod == "" {
		o.LookupMethod = DefaultLookupMethod
	}
	if o.Metadata == nil {
		o.Metadata = metadata.Static{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Rewrite describes one restored switch.
type Rewrite struct {
	Function    string
	Key         string // variable the restored switch dispatches on
	Index       string // removed integer index variable
	Field       ir.FieldKey
	Cases       int
	Values      []string // printed case values in source order
	Relocated   int      // statements moved into the default case
	GuardErased bool     // a null guard on Key was removed
}

// Abort describes a switch whose scaffold was found but not restored.
type Abort struct {
	Function string
	Key      string
	Err      error
}

// Result summarizes one run.
type Result struct {
	Restored []Rewrite
	Aborted  []Abort
}

// Changed reports whether the run modified the tree.
func (r Result) Changed() bool { return len(r.Restored) > 0 }

// SwitchRestorer rebuilds native switches from index-map lowerings.
//
// An instance owns the record tables for exactly one function body and must
// not be reused for another body or shared between goroutines.
type SwitchRestorer struct {
	opts   Options
	log    *slog.Logger
	tables records
	result Result
}

// NewSwitchRestorer returns a restorer with empty tables.
func NewSwitchRestorer(opts Options) *SwitchRestorer {
	opts = opts.withDefaults()
	return &SwitchRestorer{
		opts:   opts,
		log:    opts.Logger,
		tables: newRecords(),
	}
}

// Run rewrites fn in place and returns what was restored.
func (r *SwitchRestorer) Run(fn *ir.Function) Result {
	visit.Walk(fn, r)
	return r.result
}

// Visit implements visit.Handler.
func (r *SwitchRestorer) Visit(w *visit.Walker, n ir.Node) {
	switch v := n.(type) {
	case *ir.IfStatement:
		r.recordIf(v)
		w.VisitChildren(v)
	case *ir.SwitchStatement:
		r.visitSwitch(w, v)
	default:
		w.VisitChildren(n)
	}
}

// enclosingFunction returns the name of the innermost function on the chain.
func enclosingFunction(ancestors []ir.Node) string {
	for _, n := range ancestors {
		if fn, ok := n.(*ir.Function); ok {
			return fn.Name
		}
	}
	return ""
}
