package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// immuneNode tracks one part's infection load, toxin load and the
// inflammation they provoke. Its health gauge stands for the local tissue
// the inflammation chews on.
type immuneNode struct {
	baseNode
	infection    float64
	toxin        float64
	inflammation float64
	growthRate   float64 // per-tick fractional growth of the infection
}

func (n *immuneNode) health() *vitals.Gauge { return n.mustGauge(vitals.GaugeHealth) }

func (n *immuneNode) fighting() bool { return n.infection > 0 || n.toxin > 0 }

// TickNeeds draws glucose only while there is something to fight.
func (n *immuneNode) TickNeeds() vitals.Needs {
	if !n.fighting() {
		return nil
	}
	return vitals.Needs{vitals.Glucose: config.Cfg().Immune.GlucoseNeed}
}

// ImmuneSystem models infection growth, the fight against it, inflammation
// damage, and spread along circulation to neighbouring parts.
type ImmuneSystem struct {
	baseSystem
}

// NewImmuneSystem builds an immune node per part and subscribes.
func NewImmuneSystem(bus *events.Bus, ledger *vitals.Ledger) *ImmuneSystem {
	s := &ImmuneSystem{baseSystem: newBaseSystem(anatomy.Immune, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Immune
	for _, part := range s.graph.Parts() {
		s.addNode(&immuneNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate)),
		})
	}

	for _, kind := range []events.Kind{
		events.Infect, events.Poison, events.Cure, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *ImmuneSystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	im := n.(*immuneNode)

	switch ev.Kind {
	case events.Infect:
		im.infection += ev.Severity
		if ev.Rate > im.growthRate {
			im.growthRate = ev.Rate
		}
	case events.Poison:
		im.toxin += ev.Amount
	case events.Cure:
		if ev.CuresInfection {
			im.infection = maxf(im.infection-ev.Potency, 0)
			if im.infection == 0 {
				im.growthRate = 0
			}
		}
		if ev.CuresToxin {
			im.toxin = maxf(im.toxin-ev.Potency, 0)
		}
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// MetabolicUpdate grows infections, fights them, applies inflammation
// damage, and spreads anything past the spread lines to graph neighbours.
// Spread targets are collected first and seeded after the sweep so one
// tick's spread cannot chain body-wide.
func (s *ImmuneSystem) MetabolicUpdate() {
	s.baseSystem.MetabolicUpdate()

	cfg := config.Cfg().Immune
	threshold := config.Cfg().Derived.ImmuneStarve

	type seed struct {
		part      anatomy.Part
		infection float64
		toxin     float64
		rate      float64
	}
	var seeds []seed

	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		im := n.(*immuneNode)
		if im.status.Has(vitals.Disabled) {
			continue
		}

		// Growth before the fight: an unchecked infection compounds.
		im.infection += im.infection * im.growthRate

		// Fight strength collapses with starvation tier.
		factor := s.starve(im, threshold, vitals.GaugeHealth)
		fight := cfg.FightRate * factor
		im.infection = maxf(im.infection-fight, 0)
		im.toxin = maxf(im.toxin-fight, 0)
		if im.infection == 0 {
			im.growthRate = 0
		}

		// Inflammation follows the combined load and eats host tissue.
		load := im.infection + im.toxin
		if load >= cfg.InflameThreshold {
			im.inflammation = load - cfg.InflameThreshold
			im.health().Decrease(im.inflammation * cfg.InflameDamage)
		} else {
			im.inflammation = 0
		}

		for _, neighbour := range s.graph.Children(part) {
			if im.infection >= cfg.InfectionSpread {
				seeds = append(seeds, seed{neighbour, im.infection * cfg.SpreadFraction, 0, im.growthRate})
			}
			if im.toxin >= cfg.ToxinSpread {
				seeds = append(seeds, seed{neighbour, 0, im.toxin * cfg.SpreadFraction, 0})
			}
		}
	}

	for _, sd := range seeds {
		n, ok := s.nodes[sd.part]
		if !ok {
			continue
		}
		im := n.(*immuneNode)
		if im.infection < sd.infection {
			im.infection = sd.infection
		}
		if im.growthRate < sd.rate {
			im.growthRate = sd.rate
		}
		if im.toxin < sd.toxin {
			im.toxin = sd.toxin
		}
	}
}

// InfectionAt returns the infection level at a part, 0 if absent.
func (s *ImmuneSystem) InfectionAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*immuneNode).infection
	}
	return 0
}

// ToxinAt returns the toxin level at a part, 0 if absent.
func (s *ImmuneSystem) ToxinAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*immuneNode).toxin
	}
	return 0
}

// InflammationAt returns the inflammation level at a part, 0 if absent.
func (s *ImmuneSystem) InflammationAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*immuneNode).inflammation
	}
	return 0
}

// TotalInfection sums infection across the body.
func (s *ImmuneSystem) TotalInfection() float64 {
	var total float64
	for _, part := range s.Parts() {
		total += s.nodes[part].(*immuneNode).infection
	}
	return total
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
