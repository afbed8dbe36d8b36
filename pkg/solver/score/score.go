// Package score implements the two score kinds used by the solver: a plain
// integer hard/soft score and a fixed-point decimal hard/soft score.
//
// Both satisfy Score[S], an F-bounded interface that lets the rest of the
// solver (constraint streams, the score director, local search) stay generic
// over the score kind without any runtime type switch. Go methods cannot
// introduce new type parameters, so every operation here returns the
// concrete receiver type rather than an abstract Score value — the
// "monomorphic generic programming" the constraint and director packages
// build on.
package score

import (
	"fmt"
	"strings"
)

// Score is implemented by every score kind. S is the implementing type
// itself (HardSoft or HardSoftDecimal), so arithmetic stays monomorphic.
type Score[S any] interface {
	Add(other S) S
	Subtract(other S) S
	Negate() S
	MultiplyBy(factor int64) S
	IsFeasible() bool
	CompareTo(other S) int
	String() string
}

// HardSoft is a two-level integer score: hard constraints must reach zero
// for a solution to be feasible, soft constraints are optimized once hard
// is zero.
type HardSoft struct {
	Hard int64
	Soft int64
}

// OfHardSoft builds a HardSoft score from its two levels.
func OfHardSoft(hard, soft int64) HardSoft { return HardSoft{Hard: hard, Soft: soft} }

// OneHard is a single hard penalty/reward unit.
var OneHard = HardSoft{Hard: 1}

// OneSoft is a single soft penalty/reward unit.
var OneSoft = HardSoft{Soft: 1}

func (s HardSoft) Add(other HardSoft) HardSoft {
	return HardSoft{Hard: s.Hard + other.Hard, Soft: s.Soft + other.Soft}
}

func (s HardSoft) Subtract(other HardSoft) HardSoft {
	return HardSoft{Hard: s.Hard - other.Hard, Soft: s.Soft - other.Soft}
}

func (s HardSoft) Negate() HardSoft { return HardSoft{Hard: -s.Hard, Soft: -s.Soft} }

func (s HardSoft) MultiplyBy(factor int64) HardSoft {
	return HardSoft{Hard: s.Hard * factor, Soft: s.Soft * factor}
}

func (s HardSoft) IsFeasible() bool { return s.Hard == 0 }

// CompareTo orders scores lexicographically: hard first, then soft.
func (s HardSoft) CompareTo(other HardSoft) int {
	if s.Hard != other.Hard {
		return cmp64(s.Hard, other.Hard)
	}
	return cmp64(s.Soft, other.Soft)
}

func (s HardSoft) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// DecimalScale is the fixed-point scale used by HardSoftDecimal: one whole
// hard or soft point equals DecimalScale raw units. Employee scheduling's
// minute-granularity penalties fit comfortably inside it without
// overflowing int64 for any realistic instance size.
const DecimalScale int64 = 100000

// HardSoftDecimal is a two-level score whose levels are fixed-point values
// at DecimalScale. Raw field values are always pre-scaled (a gap penalty of
// 12 hard points is stored as Hard: 12*DecimalScale), which keeps ordering a
// plain integer comparison and keeps incremental updates exact (no float
// drift across thousands of constraint re-evaluations).
type HardSoftDecimal struct {
	Hard int64
	Soft int64
}

// OfHard builds a HardSoftDecimal score of n whole hard points.
func OfHard(n int64) HardSoftDecimal { return HardSoftDecimal{Hard: n * DecimalScale} }

// OfSoft builds a HardSoftDecimal score of n whole soft points.
func OfSoft(n int64) HardSoftDecimal { return HardSoftDecimal{Soft: n * DecimalScale} }

// OfHardScaled builds a HardSoftDecimal score from an already-scaled raw
// hard value (raw = points * DecimalScale). Constraints that compute a
// penalty directly in raw scaled units (minutes * DecimalScale, as the
// overlap and rest-gap constraints do) use this instead of OfHard to avoid
// an extra division and re-multiplication.
func OfHardScaled(raw int64) HardSoftDecimal { return HardSoftDecimal{Hard: raw} }

// OfSoftScaled is the soft-level analogue of OfHardScaled.
func OfSoftScaled(raw int64) HardSoftDecimal { return HardSoftDecimal{Soft: raw} }

// OneHardDecimal is a single whole hard point.
var OneHardDecimal = OfHard(1)

// OneSoftDecimal is a single whole soft point.
var OneSoftDecimal = OfSoft(1)

func (s HardSoftDecimal) Add(other HardSoftDecimal) HardSoftDecimal {
	return HardSoftDecimal{Hard: s.Hard + other.Hard, Soft: s.Soft + other.Soft}
}

func (s HardSoftDecimal) Subtract(other HardSoftDecimal) HardSoftDecimal {
	return HardSoftDecimal{Hard: s.Hard - other.Hard, Soft: s.Soft - other.Soft}
}

func (s HardSoftDecimal) Negate() HardSoftDecimal {
	return HardSoftDecimal{Hard: -s.Hard, Soft: -s.Soft}
}

func (s HardSoftDecimal) MultiplyBy(factor int64) HardSoftDecimal {
	return HardSoftDecimal{Hard: s.Hard * factor, Soft: s.Soft * factor}
}

func (s HardSoftDecimal) IsFeasible() bool { return s.Hard == 0 }

// CompareTo orders scores lexicographically on the raw scaled values, which
// is equivalent to comparing the real values since both sides share
// DecimalScale.
func (s HardSoftDecimal) CompareTo(other HardSoftDecimal) int {
	if s.Hard != other.Hard {
		return cmp64(s.Hard, other.Hard)
	}
	return cmp64(s.Soft, other.Soft)
}

func (s HardSoftDecimal) String() string {
	return fmt.Sprintf("%shard/%ssoft", formatScaled(s.Hard), formatScaled(s.Soft))
}

// formatScaled renders a raw scaled value as a decimal string, trimming
// trailing zeros and the decimal point itself when the value is a whole
// number.
func formatScaled(raw int64) string {
	neg := raw < 0
	if neg {
		raw = -raw
	}
	whole := raw / DecimalScale
	frac := raw % DecimalScale
	out := fmt.Sprintf("%d", whole)
	if frac != 0 {
		fracStr := fmt.Sprintf("%05d", frac)
		fracStr = strings.TrimRight(fracStr, "0")
		out += "." + fracStr
	}
	if neg {
		out = "-" + out
	}
	return out
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
