// Package ir provides the intermediate representation rewritten by deswitch.
//
// This package contains the tree model and tree utilities only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Nodes are pointers; Statement and Expression are sealed interfaces
//   - Variables are identified by name, fields by (declaring type, name)
//   - Children are replaced in place through ReplaceChild so that a walk in
//     progress observes the new node at the same position
//   - Erased statements become NullStatement, never removed from a slice
//     while a walk may be iterating it
package ir
