package ir

// Node is any element of an IR tree.
//
// Nodes are always pointers. ReplaceChild swaps a direct child in place and
// reports whether old was found among the node's own children; it never
// searches deeper (see ReplaceRecursive).
type Node interface {
	Children() []Node
	ReplaceChild(old, new Node) bool
}

// Statement is a sealed interface for statement nodes.
// Every statement may carry a label usable as a goto target.
type Statement interface {
	Node
	Label() string
	SetLabel(label string)
	statement()
}

// Expression is a sealed interface for expression nodes.
type Expression interface {
	Node
	expression()
}

// labelSite is embedded in every statement.
type labelSite struct {
	label string
}

func (l *labelSite) Label() string         { return l.label }
func (l *labelSite) SetLabel(label string) { l.label = label }

// Labelled sets label on s and returns s.
func Labelled[S Statement](label string, s S) S {
	s.SetLabel(label)
	return s
}

// Block is an ordered run of statements. Blocks are the only nodes that can
// own a labelled run, so label resolution only ever looks at blocks.
type Block struct {
	labelSite
	Statements []Statement
}

func (*Block) statement() {}

func (b *Block) Children() []Node {
	nodes := make([]Node, 0, len(b.Statements))
	for _, s := range b.Statements {
		nodes = append(nodes, s)
	}
	return nodes
}

func (b *Block) ReplaceChild(old, new Node) bool {
	for i, s := range b.Statements {
		if Node(s) != old {
			continue
		}
		ns, ok := new.(Statement)
		if !ok {
			return false
		}
		b.Statements[i] = ns
		return true
	}
	return false
}

// IndexOf returns the position of s among the block's direct statements, or -1.
func (b *Block) IndexOf(s Statement) int {
	for i, stmt := range b.Statements {
		if stmt == s {
			return i
		}
	}
	return -1
}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	labelSite
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
}

func (*IfStatement) statement() {}

func (s *IfStatement) Children() []Node {
	nodes := []Node{s.Condition}
	if s.Then != nil {
		nodes = append(nodes, s.Then)
	}
	if s.Else != nil {
		nodes = append(nodes, s.Else)
	}
	return nodes
}

func (s *IfStatement) ReplaceChild(old, new Node) bool {
	return swapExpr(&s.Condition, old, new) ||
		swapStmt(&s.Then, old, new) ||
		swapStmt(&s.Else, old, new)
}

// SwitchStatement selects one case by comparing Condition against case values.
type SwitchStatement struct {
	labelSite
	Condition Expression
	Cases     []*SwitchCase
}

func (*SwitchStatement) statement() {}

func (s *SwitchStatement) Children() []Node {
	nodes := []Node{s.Condition}
	for _, c := range s.Cases {
		nodes = append(nodes, c)
	}
	return nodes
}

func (s *SwitchStatement) ReplaceChild(old, new Node) bool {
	if swapExpr(&s.Condition, old, new) {
		return true
	}
	for i, c := range s.Cases {
		if Node(c) != old {
			continue
		}
		nc, ok := new.(*SwitchCase)
		if !ok {
			return false
		}
		s.Cases[i] = nc
		return true
	}
	return false
}

// SwitchCase is one arm of a switch. Values == nil marks the default case.
type SwitchCase struct {
	Values []Expression
	Body   *Block
}

// IsDefault reports whether c is the default case.
func (c *SwitchCase) IsDefault() bool { return c.Values == nil }

func (c *SwitchCase) Children() []Node {
	nodes := make([]Node, 0, len(c.Values)+1)
	for _, v := range c.Values {
		nodes = append(nodes, v)
	}
	if c.Body != nil {
		nodes = append(nodes, c.Body)
	}
	return nodes
}

func (c *SwitchCase) ReplaceChild(old, new Node) bool {
	for i := range c.Values {
		if swapExpr(&c.Values[i], old, new) {
			return true
		}
	}
	if c.Body != nil && Node(c.Body) == old {
		nb, ok := new.(*Block)
		if !ok {
			return false
		}
		c.Body = nb
		return true
	}
	return false
}

// ExpressionStatement evaluates an expression for its effect.
type ExpressionStatement struct {
	labelSite
	Expression Expression
}

func (*ExpressionStatement) statement() {}

func (s *ExpressionStatement) Children() []Node { return []Node{s.Expression} }

func (s *ExpressionStatement) ReplaceChild(old, new Node) bool {
	return swapExpr(&s.Expression, old, new)
}

// NullStatement does nothing. Erased statements are replaced by it so that
// sibling positions stay stable during a walk.
type NullStatement struct {
	labelSite
}

func (*NullStatement) statement()                  {}
func (*NullStatement) Children() []Node            { return nil }
func (*NullStatement) ReplaceChild(_, _ Node) bool { return false }

// VariableDeclarationStatement declares one or more locals.
type VariableDeclarationStatement struct {
	labelSite
	Declarations []*Declaration
}

func (*VariableDeclarationStatement) statement() {}

func (s *VariableDeclarationStatement) Children() []Node {
	nodes := make([]Node, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		nodes = append(nodes, d)
	}
	return nodes
}

func (s *VariableDeclarationStatement) ReplaceChild(old, new Node) bool {
	for i, d := range s.Declarations {
		if Node(d) != old {
			continue
		}
		nd, ok := new.(*Declaration)
		if !ok {
			return false
		}
		s.Declarations[i] = nd
		return true
	}
	return false
}

// RemoveDeclarations drops every binding of name, keeping the rest in order.
// Returns the number of bindings removed.
func (s *VariableDeclarationStatement) RemoveDeclarations(name string) int {
	kept := s.Declarations[:0]
	removed := 0
	for _, d := range s.Declarations {
		if d.Left != nil && d.Left.Name == name {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	for i := len(kept); i < len(s.Declarations); i++ {
		s.Declarations[i] = nil
	}
	s.Declarations = kept
	return removed
}

// Declaration binds Left to an optional initial value.
type Declaration struct {
	Left  *Variable
	Right Expression // nil when uninitialized
}

func (d *Declaration) Children() []Node {
	nodes := make([]Node, 0, 2)
	if d.Left != nil {
		nodes = append(nodes, d.Left)
	}
	if d.Right != nil {
		nodes = append(nodes, d.Right)
	}
	return nodes
}

func (d *Declaration) ReplaceChild(old, new Node) bool {
	if d.Left != nil && Node(d.Left) == old {
		nv, ok := new.(*Variable)
		if !ok {
			return false
		}
		d.Left = nv
		return true
	}
	return swapExpr(&d.Right, old, new)
}

func swapExpr(slot *Expression, old, new Node) bool {
	if *slot == nil || Node(*slot) != old {
		return false
	}
	e, ok := new.(Expression)
	if !ok {
		return false
	}
	*slot = e
	return true
}

func swapStmt(slot *Statement, old, new Node) bool {
	if *slot == nil || Node(*slot) != old {
		return false
	}
	s, ok := new.(Statement)
	if !ok {
		return false
	}
	*slot = s
	return true
}
