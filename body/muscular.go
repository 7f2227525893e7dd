package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// muscleNode tracks one muscle group: health, stamina, strength, tears and
// sustained exertion.
type muscleNode struct {
	baseNode
	torn      bool
	exertion  float64 // sustained effort level; drains stamina every tick
	regenBase float64
}

func (n *muscleNode) health() *vitals.Gauge   { return n.mustGauge(vitals.GaugeHealth) }
func (n *muscleNode) stamina() *vitals.Gauge  { return n.mustGauge(vitals.GaugeStamina) }
func (n *muscleNode) strength() *vitals.Gauge { return n.mustGauge(vitals.GaugeStrength) }
func (n *muscleNode) Faulted() bool           { return n.torn }

// TickNeeds draws glucose; working muscle draws proportionally more.
func (n *muscleNode) TickNeeds() vitals.Needs {
	need := config.Cfg().Muscular.GlucoseNeed * (1 + n.exertion)
	return vitals.Needs{vitals.Glucose: need}
}

// MuscularSystem models force output, stamina, tears and exertion. It is
// the heaviest cross-reader: nerve signal gates strength, and poor blood
// flow starves stamina.
type MuscularSystem struct {
	baseSystem
}

// NewMuscularSystem builds muscle nodes for every part with modeled muscle
// (the muscular graph excludes the head) and subscribes.
func NewMuscularSystem(bus *events.Bus, ledger *vitals.Ledger) *MuscularSystem {
	s := &MuscularSystem{baseSystem: newBaseSystem(anatomy.Muscular, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Muscular
	for _, part := range s.graph.Parts() {
		s.addNode(&muscleNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate),
				vitals.NewGauge(vitals.GaugeStamina, cfg.MaxStamina, cfg.StaminaRegen),
				vitals.NewGauge(vitals.GaugeStrength, cfg.MaxHealth, cfg.RegenRate)),
			regenBase: cfg.RegenRate,
		})
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.Exert, events.Rest,
		events.RepairMuscle, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *MuscularSystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	m := n.(*muscleNode)
	cfg := config.Cfg().Muscular

	switch ev.Kind {
	case events.Damage:
		m.health().Decrease(ev.Amount)
		if !m.torn && (ev.Amount >= cfg.TearThreshold || m.health().Empty()) {
			s.tear(m)
		}
	case events.Heal:
		m.health().Increase(ev.Amount)
	case events.Exert:
		m.exertion += ev.Intensity
		m.stamina().Decrease(ev.Intensity * cfg.ExertStamina)
	case events.Rest:
		m.exertion = 0
		m.status = m.status.Without(vitals.Tired)
	case events.RepairMuscle:
		s.repair(m)
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// tear disables the muscle, zeroes its healing and stamina recovery, and
// resets exertion. If the muscle bears weight the chain below goes limp.
func (s *MuscularSystem) tear(m *muscleNode) {
	m.torn = true
	m.disable()
	m.exertion = 0
	m.regenBase = 0
	m.health().Regen = 0
	m.stamina().Regen = 0
	m.strength().Regen = 0

	if m.part.WeightBearing() {
		s.disableDescendants(m.part, nil)
	}
}

// repair clears a tear. Regrown fiber heals slower than it did before the
// tear; repairing an intact muscle is a no-op.
func (s *MuscularSystem) repair(m *muscleNode) {
	if !m.torn {
		return
	}
	cfg := config.Cfg().Muscular
	m.torn = false
	m.enable(m)
	m.regenBase = cfg.RepairRegen
	m.health().Regen = m.regenBase
	m.stamina().Regen = cfg.StaminaRegen
	m.strength().Regen = m.regenBase

	s.enableDescendants(m.part)
}

// MetabolicUpdate applies exertion drain, ischemia and starvation before
// the default pass so regen uses this tick's state.
func (s *MuscularSystem) MetabolicUpdate() {
	cfg := config.Cfg().Muscular
	threshold := config.Cfg().Derived.MuscularStarve

	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		m := n.(*muscleNode)
		if m.status.Has(vitals.Disabled) {
			continue
		}

		// Sustained exertion burns stamina every tick until Rest.
		if m.exertion > 0 {
			m.stamina().Decrease(m.exertion * cfg.ExertStamina)
		}

		// Ischemia: starved of blood, muscle loses stamina and stops
		// recovering.
		ischemic := s.sib.Circulatory().Ischemic(part)
		if ischemic {
			m.stamina().Decrease(cfg.ExertStamina)
		}

		factor := s.starve(m, threshold, vitals.GaugeHealth)
		if ischemic {
			m.stamina().Regen = 0
			m.strength().Regen = 0
		} else {
			m.stamina().Regen = cfg.StaminaRegen * factor
			m.strength().Regen = m.regenBase * factor
		}
		m.health().Regen = m.regenBase * factor

		if m.stamina().Fraction() < cfg.TiredFraction {
			m.status = m.status.With(vitals.Tired)
		} else {
			m.status = m.status.Without(vitals.Tired)
		}
	}

	s.baseSystem.MetabolicUpdate()
}

// ForceOutput returns the usable force at a part: raw strength gated by
// nerve signal, halved under ischemia, zero when torn or missing.
func (s *MuscularSystem) ForceOutput(part anatomy.Part) float64 {
	n, ok := s.nodes[part]
	if !ok {
		return 0
	}
	m := n.(*muscleNode)
	if m.torn || m.status.Has(vitals.Disabled) {
		return 0
	}
	force := m.strength().Current() * s.sib.Nervous().SignalFraction(part)
	if s.sib.Circulatory().Ischemic(part) {
		force *= 0.5
	}
	return force
}

// Torn returns the parts with unrepaired tears, in graph order.
func (s *MuscularSystem) Torn() []anatomy.Part {
	var out []anatomy.Part
	for _, part := range s.Parts() {
		if s.nodes[part].(*muscleNode).torn {
			out = append(out, part)
		}
	}
	return out
}

// StaminaAt returns stamina at a part, 0 if absent.
func (s *MuscularSystem) StaminaAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*muscleNode).stamina().Current()
	}
	return 0
}

// IsTorn reports an unrepaired tear at the part.
func (s *MuscularSystem) IsTorn(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*muscleNode).torn
	}
	return false
}
