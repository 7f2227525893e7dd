package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// nerveNode tracks one part's nerve bundle: health, signal strength, local
// pain, and sever state. suppressed marks a node whose signal is held at
// zero because an upstream sever cut it off.
type nerveNode struct {
	baseNode
	severed    bool
	suppressed bool
	regenBase  float64
}

func (n *nerveNode) health() *vitals.Gauge { return n.mustGauge(vitals.GaugeHealth) }
func (n *nerveNode) signal() *vitals.Gauge { return n.mustGauge(vitals.GaugeSignal) }
func (n *nerveNode) pain() *vitals.Gauge   { return n.mustGauge(vitals.GaugePain) }
func (n *nerveNode) Faulted() bool         { return n.severed }

// TickNeeds draws glucose for signal upkeep.
func (n *nerveNode) TickNeeds() vitals.Needs {
	return vitals.Needs{vitals.Glucose: config.Cfg().Nervous.GlucoseNeed}
}

// Produce deposits mana (energy) from intact nerve tissue.
func (n *nerveNode) Produce(l *vitals.Ledger) {
	if !n.severed && !n.suppressed {
		l.Add(vitals.Energy, config.Cfg().Nervous.ManaProduction)
	}
}

// NervousSystem routes signal from the brain outward, collects pain, and
// models severed nerves and systemic shock.
type NervousSystem struct {
	baseSystem
}

// NewNervousSystem builds a nerve node per part and subscribes.
func NewNervousSystem(bus *events.Bus, ledger *vitals.Ledger) *NervousSystem {
	s := &NervousSystem{baseSystem: newBaseSystem(anatomy.Nervous, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Nervous
	for _, part := range s.graph.Parts() {
		s.addNode(&nerveNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate),
				vitals.NewGauge(vitals.GaugeSignal, cfg.MaxSignal, cfg.RegenRate),
				vitals.NewGaugeAt(vitals.GaugePain, 0, cfg.MaxSignal, 0)),
			regenBase: cfg.RegenRate,
		})
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.SeverNerve, events.RepairNerve,
		events.Shock, events.Pain, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

// Ingest handles shock synchronously: a shock wave must reach every nerve
// in the same instant it is published. Everything else queues.
func (s *NervousSystem) Ingest(ev events.Event) {
	if ev.Kind == events.Shock {
		s.HandleMessage(ev)
		return
	}
	s.inbox.Push(ev)
}

func (s *NervousSystem) HandleMessage(ev events.Event) {
	cfg := config.Cfg().Nervous

	// Shock has no part: it radiates from the brain.
	if ev.Kind == events.Shock {
		s.applySpread(s.graph.Root(), events.Spread{
			InitialValue:    ev.Intensity,
			Falloff:         cfg.ShockFalloff,
			StopsAtDisabled: true,
			Gauge:           vitals.GaugeSignal,
			Decrease:        true,
		})
		return
	}

	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	nerve := n.(*nerveNode)

	switch ev.Kind {
	case events.Damage:
		nerve.health().Decrease(ev.Amount)
		if !nerve.severed && ev.Amount >= cfg.SeverThreshold && nerve.health().Current() <= cfg.SeverHealthMax {
			s.sever(nerve)
		}
	case events.Heal:
		nerve.health().Increase(ev.Amount)
	case events.SeverNerve:
		if !nerve.severed {
			s.sever(nerve)
		}
	case events.RepairNerve:
		s.repair(nerve)
	case events.Pain:
		// Pain registers locally and echoes up the chain toward the
		// brain, fading per hop.
		s.painTowardBrain(ev.Part, ev.Amount)
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// painTowardBrain walks the unique path from part up to the root, raising
// each node's pain gauge with per-hop falloff.
func (s *NervousSystem) painTowardBrain(part anatomy.Part, amount float64) {
	falloff := config.Cfg().Nervous.PainFalloff
	path := s.pathFromRoot(part)
	v := amount
	for i := len(path) - 1; i >= 0; i-- {
		if n, ok := s.nodes[path[i]]; ok {
			n.(*nerveNode).pain().Increase(v)
		}
		v *= 1 - falloff
	}
}

// pathFromRoot returns root..part along the tree, nil if part is absent.
func (s *NervousSystem) pathFromRoot(part anatomy.Part) []anatomy.Part {
	var path []anatomy.Part
	var find func(p anatomy.Part) bool
	find = func(p anatomy.Part) bool {
		path = append(path, p)
		if p == part {
			return true
		}
		for _, c := range s.graph.Children(p) {
			if find(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !find(s.graph.Root()) {
		return nil
	}
	return path
}

// sever cuts the nerve: signal and mana stop here and everywhere below.
func (s *NervousSystem) sever(nerve *nerveNode) {
	nerve.severed = true
	nerve.regenBase = 0
	nerve.health().Regen = 0
	s.suppress(nerve)
	for _, d := range s.graph.Descendants(nerve.part) {
		if n, ok := s.nodes[d]; ok {
			s.suppress(n.(*nerveNode))
		}
	}
}

func (s *NervousSystem) suppress(nerve *nerveNode) {
	nerve.suppressed = true
	nerve.signal().SetCurrent(0)
	nerve.signal().Regen = 0
}

// repair reconnects a severed nerve. Healing resumes at a strongly reduced
// rate and signal returns gradually; nodes below a still-severed nerve
// further down stay dark. Repairing an intact nerve is a no-op.
func (s *NervousSystem) repair(nerve *nerveNode) {
	if !nerve.severed {
		return
	}
	cfg := config.Cfg().Nervous
	nerve.severed = false
	nerve.regenBase = cfg.RepairRegen
	nerve.health().Regen = nerve.regenBase
	s.unsuppress(nerve)

	visited := map[anatomy.Part]bool{nerve.part: true}
	var walk func(anatomy.Part)
	walk = func(p anatomy.Part) {
		if visited[p] {
			return
		}
		visited[p] = true
		n, ok := s.nodes[p]
		if !ok {
			return
		}
		down := n.(*nerveNode)
		if down.severed {
			return // its own sever keeps its subtree dark
		}
		s.unsuppress(down)
		for _, c := range s.graph.Children(p) {
			walk(c)
		}
	}
	for _, c := range s.graph.Children(nerve.part) {
		walk(c)
	}
}

func (s *NervousSystem) unsuppress(nerve *nerveNode) {
	nerve.suppressed = false
	nerve.signal().Regen = config.Cfg().Nervous.RegenRate
}

// MetabolicUpdate recomputes starvation, holds suppressed signal at zero,
// and lets pain fade.
func (s *NervousSystem) MetabolicUpdate() {
	threshold := config.Cfg().Derived.NervousStarve
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		nerve := n.(*nerveNode)
		if nerve.status.Has(vitals.Disabled) {
			continue
		}
		factor := s.starve(nerve, threshold, vitals.GaugeHealth)
		nerve.health().Regen = nerve.regenBase * factor
		if nerve.suppressed {
			nerve.signal().SetCurrent(0)
		}
		nerve.pain().Decrease(config.Cfg().Nervous.PainDecay)
	}
	s.baseSystem.MetabolicUpdate()
}

// SignalFraction returns signal strength at a part as a fraction of max,
// 0 if severed, suppressed or absent.
func (s *NervousSystem) SignalFraction(part anatomy.Part) float64 {
	n, ok := s.nodes[part]
	if !ok {
		return 0
	}
	nerve := n.(*nerveNode)
	if nerve.severed || nerve.suppressed {
		return 0
	}
	return nerve.signal().Fraction()
}

// SignalAt returns raw signal strength at a part.
func (s *NervousSystem) SignalAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*nerveNode).signal().Current()
	}
	return 0
}

// PainLevel sums pain across the body.
func (s *NervousSystem) PainLevel() float64 {
	var total float64
	for _, part := range s.Parts() {
		total += s.nodes[part].(*nerveNode).pain().Current()
	}
	return total
}

// Severed returns the parts with unrepaired severs, in graph order.
func (s *NervousSystem) Severed() []anatomy.Part {
	var out []anatomy.Part
	for _, part := range s.Parts() {
		if s.nodes[part].(*nerveNode).severed {
			out = append(out, part)
		}
	}
	return out
}

// IsSevered reports an unrepaired sever at the part.
func (s *NervousSystem) IsSevered(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*nerveNode).severed
	}
	return false
}
