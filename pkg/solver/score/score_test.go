package score

import "testing"

func TestHardSoftArithmetic(t *testing.T) {
	a := OfHardSoft(-2, 5)
	b := OfHardSoft(-1, -3)

	if got := a.Add(b); got != (HardSoft{Hard: -3, Soft: 2}) {
		t.Fatalf("Add: got %+v", got)
	}
	if got := a.Subtract(b); got != (HardSoft{Hard: -1, Soft: 8}) {
		t.Fatalf("Subtract: got %+v", got)
	}
	if got := a.Negate(); got != (HardSoft{Hard: 2, Soft: -5}) {
		t.Fatalf("Negate: got %+v", got)
	}
	if got := OneHard.MultiplyBy(3); got != (HardSoft{Hard: 3}) {
		t.Fatalf("MultiplyBy: got %+v", got)
	}
}

func TestHardSoftFeasibilityAndOrder(t *testing.T) {
	if !(HardSoft{Hard: 0, Soft: -100}).IsFeasible() {
		t.Fatal("zero hard should be feasible regardless of soft")
	}
	if (HardSoft{Hard: -1}).IsFeasible() {
		t.Fatal("negative hard should be infeasible")
	}

	worse := HardSoft{Hard: -5, Soft: 100}
	better := HardSoft{Hard: -1, Soft: -100}
	if worse.CompareTo(better) >= 0 {
		t.Fatal("hard level must dominate soft level in ordering")
	}

	tie := HardSoft{Hard: 0, Soft: -1}
	tieBetter := HardSoft{Hard: 0, Soft: 1}
	if tie.CompareTo(tieBetter) >= 0 {
		t.Fatal("soft level must break hard ties")
	}
}

func TestHardSoftString(t *testing.T) {
	if got := OfHardSoft(-3, -120).String(); got != "-3hard/-120soft" {
		t.Fatalf("String: got %q", got)
	}
}

func TestHardSoftDecimalScaledConstruction(t *testing.T) {
	// 240 overlap minutes at the spec's penalty-per-minute weight.
	penalty := OfHardScaled(-240 * DecimalScale)
	if penalty.Hard != -24000000 {
		t.Fatalf("expected raw -24000000, got %d", penalty.Hard)
	}
	if got := penalty.String(); got != "-240hard/0soft" {
		t.Fatalf("String: got %q", got)
	}
}

func TestHardSoftDecimalArithmeticAndFeasibility(t *testing.T) {
	total := OfHard(0)
	for range 3 {
		total = total.Add(OfHardScaled(-80 * DecimalScale))
	}
	if total.IsFeasible() {
		t.Fatal("accumulated hard penalty should be infeasible")
	}
	if got := total.String(); got != "-240hard/0soft" {
		t.Fatalf("String: got %q", got)
	}
}

func TestHardSoftDecimalFractionalFormatting(t *testing.T) {
	s := HardSoftDecimal{Hard: 150000, Soft: -1}
	if got := s.String(); got != "1.5hard/-0.00001soft" {
		t.Fatalf("String: got %q", got)
	}
}

func TestHardSoftDecimalCompareTo(t *testing.T) {
	worse := OfHard(-2)
	better := OfHard(-1)
	if worse.CompareTo(better) >= 0 {
		t.Fatal("more negative hard should compare as worse")
	}
	if OfHard(0).Add(OfSoft(-1)).CompareTo(OfHard(0).Add(OfSoft(1))) >= 0 {
		t.Fatal("soft should break hard ties")
	}
}
