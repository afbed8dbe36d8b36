// Package model defines the contract a planning solution exposes to the
// solver. Rather than a reflection-driven entity/variable framework, each
// problem (employee scheduling, vehicle routing) implements these small
// interfaces directly on its own solution type — duck-typed, monomorphic,
// no runtime field lookup on the hot path.
//
// Two variable shapes are supported, matching the two domains this solver
// ships: a basic variable (an entity points at zero-or-one value from a
// fixed range) and a list variable (a small set of entities each own an
// ordered list of targets, and every target belongs to exactly one list).
package model

// BasicVariableModel is implemented by a solution whose planning entities
// each carry a single optional planning variable drawn from a shared value
// range (employee scheduling: every shift optionally points at one
// employee).
type BasicVariableModel interface {
	// EntityCount returns the number of planning entities.
	EntityCount() int
	// ValueRangeSize returns the number of candidate values an entity's
	// variable may be set to.
	ValueRangeSize() int
	// GetValue returns the value currently assigned to entity, and whether
	// it is assigned at all (ok is false when the variable allows
	// unassigned and is currently unassigned).
	GetValue(entity int) (value int, ok bool)
	// SetValue assigns (or unassigns, when ok is false) entity's variable.
	SetValue(entity int, value int, ok bool)
}

// ListVariableModel is implemented by a solution whose planning entities
// each own an ordered list of targets, with every target belonging to
// exactly one list at a time (vehicle routing: every vehicle owns an
// ordered list of visits).
type ListVariableModel interface {
	// SourceCount returns the number of list-owning entities.
	SourceCount() int
	// TargetCount returns the number of elements that can appear in a list.
	TargetCount() int
	// ListLen returns the current length of source's list.
	ListLen(source int) int
	// ListGet returns the target at position pos in source's list.
	ListGet(source, pos int) int
	// ListInsert inserts target at position pos in source's list, shifting
	// later elements back.
	ListInsert(source, pos, target int)
	// ListRemove removes and returns the target at position pos in
	// source's list, shifting later elements forward.
	ListRemove(source, pos int) int
	// ShadowRecompute updates any shadow variables (e.g. an
	// inverse-relation pointer back from target to its owning source) that
	// depend on target's current list membership. The list moves call it
	// once for each target they relocate (ListChangeMove, ListSwapMove);
	// TwoOptMove, which only reorders targets within one list, does not
	// call it, and targets whose position shifts because a neighbour was
	// inserted or removed are not recomputed either.
	ShadowRecompute(target int)
}
