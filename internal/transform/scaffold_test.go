package transform

import (
	"log/slog"

	"github.com/roach88/deswitch/internal/ir"
)

// lowered builds the four statements a front end emits for a switch on a
// string key: guard, initializer, lookup and the integer switch.
type lowered struct {
	key   string   // string-typed switch key
	index string   // integer index variable
	field string   // cache field name on type Switch
	keys  []string // keys in index order
	label string   // target of every default jump
}

func (l lowered) cache() *ir.IgnoredMemberReference {
	return ir.Ignored(ir.Field("Switch", l.field))
}

func (l lowered) guard() *ir.IfStatement {
	return ir.If(ir.Eq(ir.Var(l.key), ir.Default("string")), ir.Stmt(ir.Goto(l.label)))
}

func (l lowered) initializer() *ir.IfStatement {
	stmts := make([]ir.Statement, 0, len(l.keys))
	for i, k := range l.keys {
		stmts = append(stmts, ir.Stmt(ir.Call(l.cache(), "Add", ir.Str(k), ir.Int(int64(i)))))
	}
	return ir.If(ir.Eq(l.cache(), ir.Default("Dictionary")), stmts...)
}

func (l lowered) lookup() *ir.IfStatement {
	call := ir.Call(l.cache(), "TryResolve", ir.Var(l.key), ir.Out(ir.Var(l.index)))
	return ir.If(ir.Not(call), ir.Stmt(ir.Goto(l.label)))
}

// dispatch returns the integer switch: case i returns 10+i and the default
// case jumps to the label.
func (l lowered) dispatch() *ir.SwitchStatement {
	ss := ir.Switch(ir.Var(l.index))
	for i := range l.keys {
		ss.Cases = append(ss.Cases, ir.Case([]ir.Expression{ir.Int(int64(i))}, ir.Stmt(ir.Return(ir.Int(int64(10+i))))))
	}
	ss.Cases = append(ss.Cases, ir.DefaultCase(ir.Stmt(ir.Goto(l.label))))
	return ss
}

// statements returns guard, initializer, lookup and switch in order.
func (l lowered) statements() []ir.Statement {
	return []ir.Statement{l.guard(), l.initializer(), l.lookup(), l.dispatch()}
}

var abc = lowered{key: "s", index: "i", field: "map0", keys: []string{"a", "b", "c"}, label: "IL_default"}

// classify is the canonical single-scaffold function:
//
//	var i; <scaffold on s>; IL_default: return -1;
func classify() *ir.Function {
	body := []ir.Statement{ir.Declare(ir.Var("i"))}
	body = append(body, abc.statements()...)
	body = append(body, ir.Labelled("IL_default", ir.Stmt(ir.Return(ir.Int(-1)))))
	fn := ir.NewFunction("Classify", body...)
	fn.Parameters = []*ir.Variable{ir.Var("s")}
	return fn
}

func quiet() Options {
	return Options{Logger: slog.New(slog.DiscardHandler)}
}

func restore(fn *ir.Function) Result {
	return NewSwitchRestorer(quiet()).Run(fn)
}

// caseValues returns the printed values of each non-default case.
func caseValues(ss *ir.SwitchStatement) []string {
	var out []string
	for _, c := range ss.Cases {
		for _, v := range c.Values {
			out = append(out, ir.Format(v))
		}
	}
	return out
}

func switches(n ir.Node) []*ir.SwitchStatement {
	var out []*ir.SwitchStatement
	for ss := range ir.DescendantsOf[*ir.SwitchStatement](n) {
		out = append(out, ss)
	}
	return out
}

func labelled(n ir.Node, label string) int {
	count := 0
	for d := range ir.Descendants(n) {
		if s, ok := d.(ir.Statement); ok && s.Label() == label {
			count++
		}
	}
	return count
}
