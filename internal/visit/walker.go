// Package visit provides pre-order traversal over IR trees with a live
// ancestor stack, for passes that rewrite the tree while walking it.
//
// The walker never re-traverses on its own after a structural change.
// A handler that replaces the node it is visiting calls ReplaceCurrent and
// then VisitReplacement to have the new subtree walked.
package visit

import "github.com/roach88/deswitch/internal/ir"

// Handler receives every node the walker reaches. Handlers dispatch on the
// node kind and call Walker.VisitChildren for kinds they do not consume.
type Handler interface {
	Visit(w *Walker, n ir.Node)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(w *Walker, n ir.Node)

// Visit calls f(w, n).
func (f HandlerFunc) Visit(w *Walker, n ir.Node) { f(w, n) }

// Walker performs a depth-first walk and tracks the ancestor chain.
// A Walker is not safe for concurrent use.
type Walker struct {
	handler Handler
	stack   []ir.Node
}

// New returns a walker dispatching to h.
func New(h Handler) *Walker {
	return &Walker{handler: h}
}

// Walk visits n and, through the handler, its subtree.
func Walk(root ir.Node, h Handler) {
	New(h).Walk(root)
}

// Walk pushes n, dispatches it to the handler and pops it again.
func (w *Walker) Walk(n ir.Node) {
	if n == nil {
		return
	}
	w.stack = append(w.stack, n)
	defer func() {
		w.stack[len(w.stack)-1] = nil
		w.stack = w.stack[:len(w.stack)-1]
	}()
	w.handler.Visit(w, n)
}

// VisitChildren walks each direct child of n in order. The child list is
// re-read before every step, so a child replaced by an earlier step is seen
// in its new form.
func (w *Walker) VisitChildren(n ir.Node) {
	for i := 0; ; i++ {
		children := n.Children()
		if i >= len(children) {
			return
		}
		w.Walk(children[i])
	}
}

// Current returns the node being visited, or nil outside a walk.
func (w *Walker) Current() ir.Node {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// Parent returns the parent of the node being visited, or nil at the root.
func (w *Walker) Parent() ir.Node {
	if len(w.stack) < 2 {
		return nil
	}
	return w.stack[len(w.stack)-2]
}

// Ancestors returns the live chain innermost first, current node included.
// The returned slice is a copy.
func (w *Walker) Ancestors() []ir.Node {
	out := make([]ir.Node, len(w.stack))
	for i, n := range w.stack {
		out[len(w.stack)-1-i] = n
	}
	return out
}

// Depth returns the number of nodes on the stack.
func (w *Walker) Depth() int { return len(w.stack) }

// ReplaceCurrent swaps the node being visited for n inside its parent.
// It returns false at the root or when the parent does not hold the node.
func (w *Walker) ReplaceCurrent(n ir.Node) bool {
	parent := w.Parent()
	if parent == nil {
		return false
	}
	return parent.ReplaceChild(w.Current(), n)
}

// VisitReplacement dispatches n in place of the node being visited. Call it
// after ReplaceCurrent so the fresh subtree is walked.
func (w *Walker) VisitReplacement(n ir.Node) {
	if len(w.stack) == 0 {
		w.Walk(n)
		return
	}
	w.stack[len(w.stack)-1] = n
	w.handler.Visit(w, n)
}

// Erase replaces stmt with a NullStatement under the innermost ancestor that
// contains it. The null statement keeps stmt's label so jumps to it stay
// valid. It reports whether stmt was found.
func (w *Walker) Erase(stmt ir.Statement) bool {
	null := &ir.NullStatement{}
	null.SetLabel(stmt.Label())
	for i := len(w.stack) - 1; i >= 0; i-- {
		if ir.ReplaceRecursive(w.stack[i], stmt, null) {
			return true
		}
	}
	return false
}
