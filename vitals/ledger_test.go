package vitals

import (
	"math"
	"testing"
)

func TestLedgerRemoveFloorsAtZero(t *testing.T) {
	l := NewLedger()
	l.Add(Oxygen, 10)

	got := l.Remove(Oxygen, 25)
	if got != 10 {
		t.Errorf("withdrawn = %v, want 10", got)
	}
	if l.Get(Oxygen) != 0 {
		t.Errorf("pool = %v, want 0", l.Get(Oxygen))
	}

	// A second withdrawal from an empty pool yields nothing.
	if got := l.Remove(Oxygen, 5); got != 0 {
		t.Errorf("withdrawn from empty = %v, want 0", got)
	}
}

func TestLedgerNegativeAmountsIgnored(t *testing.T) {
	l := NewLedger()
	l.Add(Water, -5)
	if l.Get(Water) != 0 {
		t.Errorf("pool = %v, want 0 after negative add", l.Get(Water))
	}
	l.Add(Water, 10)
	if got := l.Remove(Water, -3); got != 0 {
		t.Errorf("withdrawn = %v, want 0 for negative remove", got)
	}
	if l.Get(Water) != 10 {
		t.Errorf("pool = %v, want 10", l.Get(Water))
	}
}

func TestLedgerSatisfy(t *testing.T) {
	l := NewLedger()
	l.Add(Oxygen, 5)
	l.Add(Glucose, 2)

	needs := Needs{Oxygen: 3, Glucose: 4, Water: 1}
	deficit := l.Satisfy(needs)

	// Oxygen fully met, glucose short by 2, water short by 1.
	if math.Abs(deficit-3) > 1e-9 {
		t.Errorf("deficit = %v, want 3", deficit)
	}
	if _, ok := needs[Oxygen]; ok {
		t.Error("met need should be deleted from the map")
	}
	if needs[Glucose] != 2 {
		t.Errorf("glucose remainder = %v, want 2", needs[Glucose])
	}
	if needs[Water] != 1 {
		t.Errorf("water remainder = %v, want 1", needs[Water])
	}
	if l.Get(Oxygen) != 2 {
		t.Errorf("oxygen pool = %v, want 2", l.Get(Oxygen))
	}
}

func TestTierForDeficit(t *testing.T) {
	const threshold = 10.0

	tests := []struct {
		name    string
		deficit float64
		want    StarvationTier
	}{
		{"no deficit", 0, StarveNone},
		{"at threshold", 10, StarveNone},
		{"just over threshold", 10.1, StarveMild},
		{"at double", 20, StarveMild},
		{"over double", 20.1, StarveMedium},
		{"at triple", 30, StarveMedium},
		{"over triple", 30.1, StarveSevere},
		{"far over", 1000, StarveSevere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierForDeficit(tt.deficit, threshold); got != tt.want {
				t.Errorf("TierForDeficit(%v, %v) = %v, want %v", tt.deficit, threshold, got, tt.want)
			}
		})
	}
}

func TestSetStarvationExclusive(t *testing.T) {
	s := Status(Healthy).SetStarvation(StarveMild)
	s = s.SetStarvation(StarveSevere)

	if s.Has(StarvingMild) || s.Has(StarvingMedium) {
		t.Error("lower tiers should be cleared when a new tier is set")
	}
	if s.Starvation() != StarveSevere {
		t.Errorf("tier = %v, want severe", s.Starvation())
	}

	s = s.SetStarvation(StarveNone)
	if s.Starvation() != StarveNone {
		t.Errorf("tier = %v, want none", s.Starvation())
	}
	if !s.Has(Healthy) {
		t.Error("unrelated flags must survive starvation updates")
	}
}
