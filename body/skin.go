package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// skinNode tracks one part's skin: integrity, burn degree, bandaging.
type skinNode struct {
	baseNode
	burnDegree int // 0 = unburned, 1..3
	bandaged   bool
}

func (n *skinNode) integrity() *vitals.Gauge { return n.mustGauge(vitals.GaugeIntegrity) }

// IntegumentarySystem is the first line of defense: it intercepts damage
// synchronously so the hit is recorded before the event counts as fully
// delivered, and it seeds infections and bleeds from open wounds.
type IntegumentarySystem struct {
	baseSystem
}

// NewIntegumentarySystem builds skin nodes for every part and subscribes.
func NewIntegumentarySystem(bus *events.Bus, ledger *vitals.Ledger) *IntegumentarySystem {
	s := &IntegumentarySystem{baseSystem: newBaseSystem(anatomy.Integumentary, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Skin
	for _, part := range s.graph.Parts() {
		s.addNode(&skinNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeIntegrity, cfg.MaxIntegrity, cfg.RegenRate)),
		})
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.Effect, events.Burn,
		events.Bandage, events.RemoveBandage, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

// Ingest intercepts damage and burns synchronously; everything else queues.
func (s *IntegumentarySystem) Ingest(ev events.Event) {
	switch ev.Kind {
	case events.Damage, events.Burn:
		s.HandleMessage(ev)
	default:
		s.inbox.Push(ev)
	}
}

func (s *IntegumentarySystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	sn := n.(*skinNode)

	switch ev.Kind {
	case events.Damage:
		// Absorption is proportional to remaining integrity: broken skin
		// no longer soaks up the hit.
		sn.integrity().Decrease(ev.Amount * sn.integrity().Fraction())
	case events.Heal:
		sn.integrity().Increase(ev.Amount)
		if sn.integrity().Full() && sn.burnDegree > 0 {
			sn.burnDegree = 0
			sn.integrity().Regen = s.regenFor(sn)
		}
	case events.Burn:
		sn.burnDegree = burnDegree(ev.Intensity)
		sn.integrity().Decrease(ev.Intensity)
		sn.integrity().Regen = s.regenFor(sn)
	case events.Bandage:
		sn.bandaged = true
		sn.integrity().Regen = s.regenFor(sn)
	case events.RemoveBandage:
		sn.bandaged = false
		sn.integrity().Regen = s.regenFor(sn)
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// regenFor recomputes a node's integrity regen from its burn degree and
// bandaging. Each burn degree halves healing; a bandage speeds it up.
func (s *IntegumentarySystem) regenFor(n *skinNode) float64 {
	cfg := config.Cfg().Skin
	regen := cfg.RegenRate
	for i := 0; i < n.burnDegree; i++ {
		regen *= cfg.BurnRegenFactor
	}
	if n.bandaged {
		regen *= cfg.BandageRegen
	}
	return regen
}

// MetabolicUpdate runs the default pass, then checks every open wound:
// unbandaged broken skin seeds infection (capped by the local infection
// level) and starts a bleed if the vessels there are not already bleeding.
func (s *IntegumentarySystem) MetabolicUpdate() {
	s.baseSystem.MetabolicUpdate()

	cfg := config.Cfg().Skin
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		sn := n.(*skinNode)
		if sn.bandaged || sn.integrity().Fraction() >= cfg.WoundThreshold {
			continue
		}

		// Open wound. Infection seeding caps on what is already there.
		if s.sib.Immune().InfectionAt(part) < cfg.InfectionCap {
			s.bus.Publish(events.Event{
				Kind:     events.Infect,
				Part:     part,
				Severity: cfg.WoundInfection,
			})
		}
		// Only open a bleed if the vessels there are quiet.
		if !s.sib.Circulatory().IsBleeding(part) {
			s.bus.Publish(events.Event{
				Kind: events.Bleed,
				Part: part,
				Rate: cfg.WoundBleedRate,
			})
		}
	}
}

// BurnDegreeAt returns the burn degree at a part, 0 if unburned or absent.
func (s *IntegumentarySystem) BurnDegreeAt(part anatomy.Part) int {
	if n, ok := s.nodes[part]; ok {
		return n.(*skinNode).burnDegree
	}
	return 0
}

// IntegrityAt returns skin integrity at a part, 0 if absent.
func (s *IntegumentarySystem) IntegrityAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*skinNode).integrity().Current()
	}
	return 0
}

// Bandaged reports whether the part is bandaged.
func (s *IntegumentarySystem) Bandaged(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*skinNode).bandaged
	}
	return false
}

// burnDegree classifies burn intensity into degrees 1-3.
func burnDegree(intensity float64) int {
	cfg := config.Cfg().Skin
	switch {
	case intensity >= cfg.BurnDegree3:
		return 3
	case intensity >= cfg.BurnDegree2:
		return 2
	}
	return 1
}
