// Package move implements the solver's move generators: small, reversible
// edits to a solution's planning variables. Every move knows how to Do
// itself against a director (mutating the model and letting the director
// maintain the incremental score) and how to Undo itself back to the exact
// prior state — local search explores by doing a move, inspecting the
// resulting score, and either keeping it or undoing it, never by cloning
// the whole solution.
package move

import (
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/model"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Move is implemented by every move generator.
type Move[Sol any, S score.Score[S]] interface {
	Do(d *director.Director[Sol, S])
	Undo(d *director.Director[Sol, S])
}

// ChangeMove reassigns one entity's basic planning variable, used by
// employee scheduling to move a shift between employees (or to/from
// unassigned).
type ChangeMove[Sol model.BasicVariableModel, S score.Score[S]] struct {
	Entity             int
	oldValue, newValue int
	oldOk, newOk       bool
}

// NewChangeMove builds a move that sets entity's variable to
// (newValue, newOk), capturing its current value for Undo.
func NewChangeMove[Sol model.BasicVariableModel, S score.Score[S]](sol Sol, entity, newValue int, newOk bool) *ChangeMove[Sol, S] {
	oldValue, oldOk := sol.GetValue(entity)
	return &ChangeMove[Sol, S]{Entity: entity, oldValue: oldValue, oldOk: oldOk, newValue: newValue, newOk: newOk}
}

func (m *ChangeMove[Sol, S]) Do(d *director.Director[Sol, S]) {
	d.BeforeEntity(m.Entity)
	d.Solution().SetValue(m.Entity, m.newValue, m.newOk)
	d.AfterEntity(m.Entity)
}

func (m *ChangeMove[Sol, S]) Undo(d *director.Director[Sol, S]) {
	d.BeforeEntity(m.Entity)
	d.Solution().SetValue(m.Entity, m.oldValue, m.oldOk)
	d.AfterEntity(m.Entity)
}

// ListChangeMove relocates one target from one position in one source's
// list to another position, possibly in a different source's list — used
// by vehicle routing to move a visit between routes or within one route.
type ListChangeMove[Sol model.ListVariableModel, S score.Score[S]] struct {
	SrcSource, SrcPos int
	DstSource, DstPos int
}

func (m *ListChangeMove[Sol, S]) Do(d *director.Director[Sol, S]) {
	sol := d.Solution()
	d.BeforeEntity(m.SrcSource)
	if m.DstSource != m.SrcSource {
		d.BeforeEntity(m.DstSource)
	}
	target := sol.ListRemove(m.SrcSource, m.SrcPos)
	insertPos := m.DstPos
	if m.DstSource == m.SrcSource && m.DstPos > m.SrcPos {
		insertPos--
	}
	sol.ListInsert(m.DstSource, insertPos, target)
	sol.ShadowRecompute(target)
	d.AfterEntity(m.SrcSource)
	if m.DstSource != m.SrcSource {
		d.AfterEntity(m.DstSource)
	}
}

func (m *ListChangeMove[Sol, S]) Undo(d *director.Director[Sol, S]) {
	sol := d.Solution()
	insertPos := m.DstPos
	if m.DstSource == m.SrcSource && m.DstPos > m.SrcPos {
		insertPos--
	}
	d.BeforeEntity(m.DstSource)
	if m.DstSource != m.SrcSource {
		d.BeforeEntity(m.SrcSource)
	}
	target := sol.ListRemove(m.DstSource, insertPos)
	sol.ListInsert(m.SrcSource, m.SrcPos, target)
	sol.ShadowRecompute(target)
	d.AfterEntity(m.DstSource)
	if m.DstSource != m.SrcSource {
		d.AfterEntity(m.SrcSource)
	}
}

// ListSwapMove exchanges the targets at two positions, possibly across two
// different sources' lists. It is its own inverse: applying it twice with
// the same positions restores the original arrangement.
type ListSwapMove[Sol model.ListVariableModel, S score.Score[S]] struct {
	SourceA, PosA int
	SourceB, PosB int
}

func (m *ListSwapMove[Sol, S]) Do(d *director.Director[Sol, S])   { m.swap(d) }
func (m *ListSwapMove[Sol, S]) Undo(d *director.Director[Sol, S]) { m.swap(d) }

func (m *ListSwapMove[Sol, S]) swap(d *director.Director[Sol, S]) {
	sol := d.Solution()
	d.BeforeEntity(m.SourceA)
	if m.SourceB != m.SourceA {
		d.BeforeEntity(m.SourceB)
	}
	if m.SourceA == m.SourceB {
		lo, hi := m.PosA, m.PosB
		if lo > hi {
			lo, hi = hi, lo
		}
		elemHi := sol.ListRemove(m.SourceA, hi)
		elemLo := sol.ListRemove(m.SourceA, lo)
		sol.ListInsert(m.SourceA, lo, elemHi)
		sol.ListInsert(m.SourceA, hi, elemLo)
		sol.ShadowRecompute(elemHi)
		sol.ShadowRecompute(elemLo)
	} else {
		a := sol.ListRemove(m.SourceA, m.PosA)
		b := sol.ListRemove(m.SourceB, m.PosB)
		sol.ListInsert(m.SourceA, m.PosA, b)
		sol.ListInsert(m.SourceB, m.PosB, a)
		sol.ShadowRecompute(a)
		sol.ShadowRecompute(b)
	}
	d.AfterEntity(m.SourceA)
	if m.SourceB != m.SourceA {
		d.AfterEntity(m.SourceB)
	}
}

// TwoOptMove reverses a contiguous segment of one source's list, the
// classic routing move for untangling a crossed route. It is its own
// inverse.
type TwoOptMove[Sol model.ListVariableModel, S score.Score[S]] struct {
	Source   int
	From, To int // inclusive segment bounds, From <= To
}

func (m *TwoOptMove[Sol, S]) Do(d *director.Director[Sol, S])   { m.reverse(d) }
func (m *TwoOptMove[Sol, S]) Undo(d *director.Director[Sol, S]) { m.reverse(d) }

func (m *TwoOptMove[Sol, S]) reverse(d *director.Director[Sol, S]) {
	sol := d.Solution()
	d.BeforeEntity(m.Source)
	lo, hi := m.From, m.To
	for lo < hi {
		a := sol.ListGet(m.Source, lo)
		b := sol.ListGet(m.Source, hi)
		sol.ListRemove(m.Source, hi)
		sol.ListInsert(m.Source, hi, a)
		sol.ListRemove(m.Source, lo)
		sol.ListInsert(m.Source, lo, b)
		lo++
		hi--
	}
	d.AfterEntity(m.Source)
}
