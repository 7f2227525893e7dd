package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// vesselNode tracks the blood vessels of one part.
type vesselNode struct {
	baseNode
	major     bool // carotid/aorta class: bleeds twice as hard
	heart     bool
	bleedRate float64 // blood lost per tick; 0 = not bleeding
	flow      float64 // recomputed every tick by flow propagation
}

func (n *vesselNode) health() *vitals.Gauge { return n.mustGauge(vitals.GaugeHealth) }

// TickNeeds draws oxygen for vessel wall upkeep.
func (n *vesselNode) TickNeeds() vitals.Needs {
	return vitals.Needs{vitals.Oxygen: config.Cfg().Circulatory.OxygenNeed}
}

// CirculatorySystem models blood flow outward from the heart, pressure,
// and bleeding.
type CirculatorySystem struct {
	baseSystem
	initialBlood float64 // for pressure normalization
}

// NewCirculatorySystem builds vessel nodes and subscribes. The trunk
// vessels (neck, chest, abdomen) are major; the heart sits at the chest.
func NewCirculatorySystem(bus *events.Bus, ledger *vitals.Ledger) *CirculatorySystem {
	s := &CirculatorySystem{
		baseSystem:   newBaseSystem(anatomy.Circulatory, bus, ledger),
		initialBlood: config.Cfg().Resources.Blood,
	}
	s.self = s

	cfg := config.Cfg().Circulatory
	for _, part := range s.graph.Parts() {
		s.addNode(&vesselNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate)),
			major: part == anatomy.Neck || part == anatomy.Chest || part == anatomy.Abdomen,
			heart: part == anatomy.Chest,
		})
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.Bleed, events.Clot, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *CirculatorySystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	vessel := n.(*vesselNode)
	cfg := config.Cfg().Circulatory

	switch ev.Kind {
	case events.Damage:
		vessel.health().Decrease(ev.Amount)
		if ev.Amount >= cfg.BleedThreshold {
			s.startBleeding(vessel, ev.Amount)
		}
	case events.Heal:
		vessel.health().Increase(ev.Amount)
	case events.Bleed:
		vessel.bleedRate = minf(vessel.bleedRate+ev.Rate, cfg.BleedCap)
	case events.Clot:
		vessel.bleedRate = 0
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// startBleeding opens or worsens a bleed. Major vessels bleed twice as
// hard; the per-tick loss is capped so no single wound exsanguinates
// instantly.
func (s *CirculatorySystem) startBleeding(vessel *vesselNode, damage float64) {
	cfg := config.Cfg().Circulatory
	add := damage * cfg.BleedFactor
	if vessel.major {
		add *= cfg.MajorMultiple
	}
	vessel.bleedRate = minf(vessel.bleedRate+add, cfg.BleedCap)
}

// MetabolicUpdate drains open bleeds from the shared blood pool, then
// recomputes flow outward from the heart. A disabled vessel interrupts
// flow to everything downstream.
func (s *CirculatorySystem) MetabolicUpdate() {
	s.baseSystem.MetabolicUpdate()

	cfg := config.Cfg().Circulatory
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		vessel := n.(*vesselNode)
		if vessel.bleedRate > 0 {
			s.ledger.Remove(vitals.Blood, minf(vessel.bleedRate, cfg.BleedCap))
		}
		vessel.flow = 0
	}

	// Flow starts at the heart, scaled by how much blood is left, and
	// attenuates per hop. Damaged vessel walls pass less.
	start := cfg.BaseFlow * s.bloodFraction()
	s.propagate(s.graph.Root(), events.Spread{
		InitialValue:    start,
		Falloff:         cfg.FlowFalloff,
		StopsAtDisabled: true,
	}, func(n Node, v float64) {
		vessel := n.(*vesselNode)
		vessel.flow = v * vessel.health().Fraction()
	})
}

func (s *CirculatorySystem) bloodFraction() float64 {
	if s.initialBlood <= 0 {
		return 0
	}
	f := s.ledger.Get(vitals.Blood) / s.initialBlood
	if f > 1 {
		f = 1
	}
	return f
}

// FlowAt returns this tick's blood flow at a part, 0 if absent.
func (s *CirculatorySystem) FlowAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*vesselNode).flow
	}
	return 0
}

// Pressure returns systemic pressure: base flow scaled by blood volume.
func (s *CirculatorySystem) Pressure() float64 {
	return config.Cfg().Circulatory.BaseFlow * s.bloodFraction()
}

// Ischemic reports whether a part's flow is below the ischemia line.
func (s *CirculatorySystem) Ischemic(part anatomy.Part) bool {
	return s.FlowAt(part) < config.Cfg().Circulatory.IschemiaFlow
}

// IsBleeding reports an open bleed at a part.
func (s *CirculatorySystem) IsBleeding(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*vesselNode).bleedRate > 0
	}
	return false
}

// BleedRateAt returns the per-tick blood loss at a part.
func (s *CirculatorySystem) BleedRateAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*vesselNode).bleedRate
	}
	return 0
}

// Bleeding returns every bleeding part, in graph order.
func (s *CirculatorySystem) Bleeding() []anatomy.Part {
	var out []anatomy.Part
	for _, part := range s.Parts() {
		if s.nodes[part].(*vesselNode).bleedRate > 0 {
			out = append(out, part)
		}
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
