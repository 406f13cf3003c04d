// Package pattern compiles a type of a bytecode type graph into a binary
// layout pattern: struct and enum declarations in the declarative pattern
// language read by hex editors and memory inspectors.
//
// # Output
//
// Every pattern starts with two prelude declarations, StDynamic (a boxed
// value, just its type pointer) and Array (the runtime array header).
// The root type and everything reachable from it follow, each declaration
// appearing once, dependencies before dependents.
//
// # Traversal
//
// Two mappings walk the graph. Expansion decides which declarations exist
// and in what order; the leaf mapping decides how a single field's type is
// written inline. Both are methods of the same node variant so a node kind
// can never be handled by one and forgotten by the other.
//
// Cycles are cut by the emitted-name set, which receives a name before the
// type's dependencies are visited, and by a recursion depth cap.
//
// Compilation never fails: types that have no declaration simply contribute
// nothing. Callers that want to reject such roots check Pattern.Empty.
package pattern
