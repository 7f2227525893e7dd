// Package vitals holds the bounded quantities the engine is made of:
// gauges, node status flags, resource kinds and the shared resource ledger.
package vitals

// GaugeKind labels what a gauge measures.
type GaugeKind uint8

const (
	GaugeHealth GaugeKind = iota
	GaugeIntegrity
	GaugeStamina
	GaugeStrength
	GaugeSignal
	GaugePain
	GaugeAirflow
	GaugeLungCapacity
	GaugeTemperature
	GaugeFatigue
)

var gaugeNames = [...]string{
	"health", "integrity", "stamina", "strength", "signal",
	"pain", "airflow", "lung_capacity", "temperature", "fatigue",
}

func (k GaugeKind) String() string {
	if int(k) < len(gaugeNames) {
		return gaugeNames[k]
	}
	return "unknown"
}

// ParseGauge maps a gauge name back to its kind.
func ParseGauge(name string) (GaugeKind, bool) {
	for i, n := range gaugeNames {
		if n == name {
			return GaugeKind(i), true
		}
	}
	return 0, false
}

// Gauge is a bounded quantity with a per-tick regeneration rate.
// Current stays in [0, Max] at every observation point; all mutation goes
// through Increase, Decrease and Regenerate.
type Gauge struct {
	Kind  GaugeKind
	Max   float64
	Regen float64

	current float64
}

// NewGauge returns a full gauge.
func NewGauge(kind GaugeKind, max, regen float64) *Gauge {
	return &Gauge{Kind: kind, Max: max, Regen: regen, current: max}
}

// NewGaugeAt returns a gauge with an explicit starting value, clamped.
func NewGaugeAt(kind GaugeKind, current, max, regen float64) *Gauge {
	g := &Gauge{Kind: kind, Max: max, Regen: regen}
	g.current = clamp(current, 0, max)
	return g
}

// Current returns the present value.
func (g *Gauge) Current() float64 { return g.current }

// Full reports whether the gauge is at its maximum.
func (g *Gauge) Full() bool { return g.current >= g.Max }

// Empty reports whether the gauge is at zero.
func (g *Gauge) Empty() bool { return g.current <= 0 }

// Fraction returns current/max in [0,1]; 0 for a zero-max gauge.
func (g *Gauge) Fraction() float64 {
	if g.Max <= 0 {
		return 0
	}
	return g.current / g.Max
}

// Increase raises the gauge by amount, clamped to Max. Negative amounts
// are absorbed as no-ops rather than rejected.
func (g *Gauge) Increase(amount float64) {
	if amount <= 0 {
		return
	}
	g.current = clamp(g.current+amount, 0, g.Max)
}

// Decrease lowers the gauge by amount, floored at zero.
func (g *Gauge) Decrease(amount float64) {
	if amount <= 0 {
		return
	}
	g.current = clamp(g.current-amount, 0, g.Max)
}

// Regenerate applies one tick of natural recovery.
func (g *Gauge) Regenerate() {
	g.Increase(g.Regen)
}

// SetCurrent forces the value, clamped. Reserved for state transitions
// (sever zeroing signal, block zeroing airflow).
func (g *Gauge) SetCurrent(v float64) {
	g.current = clamp(v, 0, g.Max)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
