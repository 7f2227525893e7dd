package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// airwayNode is one segment of the airway. The chest node is the lungs: it
// carries the capacity and airflow gauges, and blocking logic does not
// apply to it.
type airwayNode struct {
	baseNode
	lungs   bool
	blocked bool
}

func (n *airwayNode) health() *vitals.Gauge { return n.mustGauge(vitals.GaugeHealth) }

// damage is cumulative airway damage; airflow loses this fraction of a
// percent per segment.
func (n *airwayNode) damage() float64 { return n.health().Max - n.health().Current() }

// RespiratorySystem models the airway chain (head, neck) into the lungs
// (chest), airflow attenuation, blockage, and gas exchange with the pool.
type RespiratorySystem struct {
	baseSystem
}

// NewRespiratorySystem builds the airway and subscribes.
func NewRespiratorySystem(bus *events.Bus, ledger *vitals.Ledger) *RespiratorySystem {
	s := &RespiratorySystem{baseSystem: newBaseSystem(anatomy.Respiratory, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Respiratory
	for _, part := range s.graph.Parts() {
		n := &airwayNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate)),
			lungs: part == anatomy.Chest,
		}
		if n.lungs {
			n.gauges = append(n.gauges,
				vitals.NewGauge(vitals.GaugeLungCapacity, cfg.LungCapacity, 0),
				vitals.NewGaugeAt(vitals.GaugeAirflow, 0, cfg.LungCapacity, 0))
		}
		s.addNode(n)
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *RespiratorySystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	air := n.(*airwayNode)
	cfg := config.Cfg().Respiratory

	switch ev.Kind {
	case events.Damage:
		air.health().Decrease(ev.Amount)
		if air.lungs {
			// A chest hit bruises the lungs, not the airway.
			cap := air.mustGauge(vitals.GaugeLungCapacity)
			cap.Decrease(ev.Amount * cfg.DamageFactor)
			break
		}
		if air.damage() >= cfg.BlockThreshold {
			air.blocked = true
		}
	case events.Heal:
		air.health().Increase(ev.Amount)
		if air.lungs {
			cap := air.mustGauge(vitals.GaugeLungCapacity)
			cap.Increase(ev.Amount * cfg.HealFactor)
			break
		}
		if air.damage() < cfg.BlockThreshold {
			air.blocked = false
		}
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// AirflowReachingLungs walks the airway from the mouth down. Each segment
// passes (1 - damage/max) of what it receives; a blocked or disabled
// segment passes nothing.
func (s *RespiratorySystem) AirflowReachingLungs() float64 {
	cfg := config.Cfg().Respiratory
	flow := cfg.LungCapacity

	part := s.graph.Root()
	for {
		n, ok := s.nodes[part]
		if !ok {
			return 0
		}
		air := n.(*airwayNode)
		if air.lungs {
			return flow
		}
		if air.blocked || air.status.Has(vitals.Disabled) {
			return 0
		}
		flow *= 1 - air.damage()/air.health().Max

		kids := s.graph.Children(part)
		if len(kids) == 0 {
			return 0
		}
		part = kids[0]
	}
}

// MetabolicUpdate runs the default pass, then breathes: airflow that makes
// it into working lung tissue deposits oxygen and clears CO2.
func (s *RespiratorySystem) MetabolicUpdate() {
	s.baseSystem.MetabolicUpdate()

	lungs, ok := s.nodes[anatomy.Chest]
	if !ok {
		return
	}
	air := lungs.(*airwayNode)
	cfg := config.Cfg().Respiratory

	flow := s.AirflowReachingLungs()
	air.mustGauge(vitals.GaugeAirflow).SetCurrent(flow)
	if air.status.Has(vitals.Disabled) {
		return
	}

	capFraction := air.mustGauge(vitals.GaugeLungCapacity).Fraction()
	exchanged := flow * capFraction
	s.ledger.Add(vitals.Oxygen, exchanged*cfg.OxygenPerAir)
	s.ledger.Remove(vitals.CO2, exchanged*cfg.CO2PerAir)
}

// LungCapacity returns current lung capacity.
func (s *RespiratorySystem) LungCapacity() float64 {
	if n, ok := s.nodes[anatomy.Chest]; ok {
		return n.(*airwayNode).mustGauge(vitals.GaugeLungCapacity).Current()
	}
	return 0
}

// Blocked reports whether the airway segment at part is blocked.
func (s *RespiratorySystem) Blocked(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*airwayNode).blocked
	}
	return false
}

// OxygenOutput returns the oxygen deposited per tick at current airflow.
func (s *RespiratorySystem) OxygenOutput() float64 {
	if n, ok := s.nodes[anatomy.Chest]; ok {
		air := n.(*airwayNode)
		return air.mustGauge(vitals.GaugeAirflow).Current() *
			air.mustGauge(vitals.GaugeLungCapacity).Fraction() *
			config.Cfg().Respiratory.OxygenPerAir
	}
	return 0
}
