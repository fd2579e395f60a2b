package ir

import "iter"

// Descendants yields every node below n in document order (pre-order,
// children left to right). n itself is not yielded.
func Descendants(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		descend(n, yield)
	}
}

func descend(n Node, yield func(Node) bool) bool {
	for _, c := range n.Children() {
		if c == nil {
			continue
		}
		if !yield(c) || !descend(c, yield) {
			return false
		}
	}
	return true
}

// DescendantsOf yields the descendants of n that are of type T.
func DescendantsOf[T Node](n Node) iter.Seq[T] {
	return func(yield func(T) bool) {
		for d := range Descendants(n) {
			if t, ok := d.(T); ok && !yield(t) {
				return
			}
		}
	}
}

// FirstGoto returns the first goto below n in document order, or nil.
func FirstGoto(n Node) *GotoExpression {
	for g := range DescendantsOf[*GotoExpression](n) {
		return g
	}
	return nil
}

// Contains reports whether target is n or appears anywhere below it.
func Contains(n, target Node) bool {
	if n == target {
		return true
	}
	for d := range Descendants(n) {
		if d == target {
			return true
		}
	}
	return false
}

// ReplaceRecursive replaces the first occurrence of old below root with new.
func ReplaceRecursive(root, old, new Node) bool {
	if root.ReplaceChild(old, new) {
		return true
	}
	for _, c := range root.Children() {
		if c != nil && ReplaceRecursive(c, old, new) {
			return true
		}
	}
	return false
}

// LabelIndex returns the position of the direct statement of b carrying
// label, or -1.
func LabelIndex(b *Block, label string) int {
	if label == "" {
		return -1
	}
	for i, s := range b.Statements {
		if s.Label() == label {
			return i
		}
	}
	return -1
}

// CollectLabelledStatements detaches and returns the run of statements from
// the one labelled label through the end of b. Each collected statement is
// replaced in b by a NullStatement. Returns nil when b has no such label.
func CollectLabelledStatements(b *Block, label string) []Statement {
	start := LabelIndex(b, label)
	if start < 0 {
		return nil
	}
	run := make([]Statement, 0, len(b.Statements)-start)
	for i := start; i < len(b.Statements); i++ {
		run = append(run, b.Statements[i])
		b.Statements[i] = &NullStatement{}
	}
	return run
}
