package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// metaNode tracks one part's temperature, fatigue and metabolic boost.
type metaNode struct {
	baseNode
	boost float64 // rate multiplier, 1 = normal
}

func (n *metaNode) temperature() *vitals.Gauge { return n.mustGauge(vitals.GaugeTemperature) }
func (n *metaNode) fatigue() *vitals.Gauge     { return n.mustGauge(vitals.GaugeFatigue) }

// TickNeeds draws water for cellular upkeep, scaled by the local rate.
func (n *metaNode) TickNeeds() vitals.Needs {
	return vitals.Needs{vitals.Water: config.Cfg().Metabolic.WaterNeed * n.boost}
}

// MetabolicSystem converts glucose to energy, regulates temperature and
// fatigue, and runs last so it sees every other system's current-tick
// state.
type MetabolicSystem struct {
	baseSystem
}

// NewMetabolicSystem builds a node per part and subscribes.
func NewMetabolicSystem(bus *events.Bus, ledger *vitals.Ledger) *MetabolicSystem {
	s := &MetabolicSystem{baseSystem: newBaseSystem(anatomy.Metabolic, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Metabolic
	for _, part := range s.graph.Parts() {
		s.addNode(&metaNode{
			baseNode: newBaseNode(part,
				vitals.NewGaugeAt(vitals.GaugeTemperature, cfg.BaseTemperature, cfg.MaxTemperature, 0),
				vitals.NewGaugeAt(vitals.GaugeFatigue, 0, cfg.MaxFatigue, 0)),
			boost: 1,
		})
	}

	for _, kind := range []events.Kind{
		events.Feed, events.Hydrate, events.MetabolicBoost,
		events.Fatigue, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *MetabolicSystem) HandleMessage(ev events.Event) {
	switch ev.Kind {
	// Feed and Hydrate are systemic: they top up the shared pool.
	case events.Feed:
		s.ledger.Add(vitals.Glucose, ev.Amount)
		return
	case events.Hydrate:
		s.ledger.Add(vitals.Water, ev.Amount)
		return
	}

	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	mn := n.(*metaNode)

	switch ev.Kind {
	case events.MetabolicBoost:
		if ev.Multiplier > 0 {
			mn.boost = ev.Multiplier
		}
	case events.Fatigue:
		mn.fatigue().Increase(ev.Amount)
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// MetabolicUpdate burns glucose into energy, produces CO2, drifts
// temperature toward base plus inflammation heat, and recovers fatigue.
// Ischemic parts run at a fraction of their rate.
func (s *MetabolicSystem) MetabolicUpdate() {
	s.baseSystem.MetabolicUpdate()

	cfg := config.Cfg().Metabolic
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		mn := n.(*metaNode)
		if mn.status.Has(vitals.Disabled) {
			continue
		}

		rate := mn.boost
		if s.sib.Circulatory().Ischemic(part) {
			rate *= cfg.IschemiaFactor
		}

		// Glucose -> energy, exhaling CO2 as a byproduct.
		burned := s.ledger.Remove(vitals.Glucose, cfg.GlucoseBurn*rate)
		if burned > 0 {
			s.ledger.Add(vitals.Energy, burned*cfg.EnergyYield)
			s.ledger.Add(vitals.CO2, burned)
		}

		// Temperature drifts toward base plus inflammation heat.
		target := cfg.BaseTemperature + s.sib.Immune().InflammationAt(part)*cfg.InflameHeat
		temp := mn.temperature()
		switch {
		case temp.Current() < target:
			temp.Increase(minf(cfg.CoolRate, target-temp.Current()))
		case temp.Current() > target:
			temp.Decrease(minf(cfg.CoolRate, temp.Current()-target))
		}

		// Fatigue recovery costs energy; a starved pool recovers nothing.
		wanted := cfg.FatigueRecovery * rate
		if wanted > 0 && !mn.fatigue().Empty() {
			paid := s.ledger.Remove(vitals.Energy, wanted)
			mn.fatigue().Decrease(paid)
		}
	}
}

// TemperatureAt returns local temperature, 0 if absent.
func (s *MetabolicSystem) TemperatureAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*metaNode).temperature().Current()
	}
	return 0
}

// FatigueAt returns local fatigue, 0 if absent.
func (s *MetabolicSystem) FatigueAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*metaNode).fatigue().Current()
	}
	return 0
}

// RateAt returns the effective metabolic rate at a part.
func (s *MetabolicSystem) RateAt(part anatomy.Part) float64 {
	n, ok := s.nodes[part]
	if !ok {
		return 0
	}
	rate := n.(*metaNode).boost
	if s.sib.Circulatory().Ischemic(part) {
		rate *= config.Cfg().Metabolic.IschemiaFactor
	}
	return rate
}
