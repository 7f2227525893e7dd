package vitals

import (
	"math"
	"testing"
)

func TestGaugeClamping(t *testing.T) {
	tests := []struct {
		name string
		op   func(g *Gauge)
		want float64
	}{
		{"decrease past zero", func(g *Gauge) { g.Decrease(150) }, 0},
		{"increase past max", func(g *Gauge) { g.Decrease(10); g.Increase(50) }, 100},
		{"set below zero", func(g *Gauge) { g.SetCurrent(-5) }, 0},
		{"set above max", func(g *Gauge) { g.SetCurrent(200) }, 100},
		{"negative decrease ignored", func(g *Gauge) { g.Decrease(-10) }, 100},
		{"negative increase ignored", func(g *Gauge) { g.Decrease(30); g.Increase(-10) }, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGauge(GaugeHealth, 100, 1)
			tt.op(g)
			if g.Current() != tt.want {
				t.Errorf("current = %v, want %v", g.Current(), tt.want)
			}
		})
	}
}

func TestGaugeRegenerate(t *testing.T) {
	g := NewGauge(GaugeHealth, 100, 2.5)
	g.Decrease(10)

	g.Regenerate()
	if math.Abs(g.Current()-92.5) > 1e-9 {
		t.Errorf("current = %v, want 92.5", g.Current())
	}

	// Regeneration never overshoots max
	for i := 0; i < 10; i++ {
		g.Regenerate()
	}
	if g.Current() != 100 {
		t.Errorf("current = %v, want 100", g.Current())
	}
}

func TestGaugeFraction(t *testing.T) {
	g := NewGauge(GaugeStamina, 80, 0)
	g.Decrease(20)
	if math.Abs(g.Fraction()-0.75) > 1e-9 {
		t.Errorf("fraction = %v, want 0.75", g.Fraction())
	}

	zero := NewGauge(GaugeStamina, 0, 0)
	if zero.Fraction() != 0 {
		t.Errorf("zero-max fraction = %v, want 0", zero.Fraction())
	}
}

func TestGaugeEmptyFull(t *testing.T) {
	g := NewGaugeAt(GaugePain, 0, 100, 0)
	if !g.Empty() {
		t.Error("expected empty gauge")
	}
	g.Increase(100)
	if !g.Full() {
		t.Error("expected full gauge")
	}
}
