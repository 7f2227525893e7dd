// Package body implements the physiology engine: eight cooperating systems
// over per-part state, a shared resource pool, and an event-driven stimulus
// surface.
package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// Node is the per-(system, part) state record. Concrete node types embed
// baseNode and add their own payload (fracture flag, bleed rate, infection
// level).
type Node interface {
	Part() anatomy.Part
	Status() vitals.Status
	Gauge(vitals.GaugeKind) (*vitals.Gauge, bool)
	Gauges() []*vitals.Gauge

	// Faulted reports an unresolved local fault (fracture, tear, sever).
	// Re-enabling a chain after an upstream repair skips faulted nodes.
	Faulted() bool

	base() *baseNode
}

// resourceConsumer is the capability of drawing from the shared pool.
// TickNeeds returns this tick's demand; unmet remainders accumulate on the
// node and are retried next tick.
type resourceConsumer interface {
	TickNeeds() vitals.Needs
}

// resourceProducer is the capability of depositing into the shared pool.
type resourceProducer interface {
	Produce(*vitals.Ledger)
}

// System is one physiological system: a connectivity graph, a node per
// modeled part, an event inbox, and a per-tick metabolic update.
type System interface {
	events.Listener

	Kind() anatomy.SystemKind
	Graph() *anatomy.Graph
	Node(anatomy.Part) (Node, bool)
	Parts() []anatomy.Part
	RemovePart(anatomy.Part)

	// Update drains queued events, dispatches each, then runs the
	// metabolic pass. Called once per tick, in fixed system order.
	Update()

	// MetabolicUpdate settles resources and regenerates gauges.
	MetabolicUpdate()

	wire(*Siblings)
}

// baseNode carries the state every node kind shares.
type baseNode struct {
	part   anatomy.Part
	status vitals.Status
	gauges []*vitals.Gauge

	// Outstanding needs: this tick's demand plus prior unmet remainders.
	needs       vitals.Needs
	lastDeficit float64
}

func newBaseNode(part anatomy.Part, gauges ...*vitals.Gauge) baseNode {
	return baseNode{
		part:   part,
		status: vitals.Healthy | vitals.ConnectedToRoot,
		gauges: gauges,
		needs:  make(vitals.Needs),
	}
}

func (n *baseNode) Part() anatomy.Part      { return n.part }
func (n *baseNode) Status() vitals.Status   { return n.status }
func (n *baseNode) Gauges() []*vitals.Gauge { return n.gauges }
func (n *baseNode) Faulted() bool           { return false }
func (n *baseNode) base() *baseNode         { return n }

func (n *baseNode) Gauge(kind vitals.GaugeKind) (*vitals.Gauge, bool) {
	for _, g := range n.gauges {
		if g.Kind == kind {
			return g, true
		}
	}
	return nil, false
}

func (n *baseNode) mustGauge(kind vitals.GaugeKind) *vitals.Gauge {
	g, ok := n.Gauge(kind)
	if !ok {
		panic("body: node " + n.part.String() + " has no " + kind.String() + " gauge")
	}
	return g
}

// disable clears Healthy and sets Disabled. Disabled nodes neither consume,
// produce, nor regenerate.
func (n *baseNode) disable() {
	n.status = n.status.Without(vitals.Healthy).With(vitals.Disabled)
}

// enable restores Healthy unless the node has its own unresolved fault.
func (n *baseNode) enable(self Node) {
	if self.Faulted() {
		return
	}
	n.status = n.status.Without(vitals.Disabled).With(vitals.Healthy)
}

// baseSystem is the shared update-loop template. Concrete systems embed it,
// register their nodes, and override HandleMessage and MetabolicUpdate.
type baseSystem struct {
	kind   anatomy.SystemKind
	graph  *anatomy.Graph
	nodes  map[anatomy.Part]Node
	order  []anatomy.Part // graph DFS order, for deterministic iteration
	inbox  events.Inbox
	bus    *events.Bus
	ledger *vitals.Ledger
	sib    *Siblings

	// self points at the concrete system so the template dispatches to the
	// overridden methods.
	self System
}

func newBaseSystem(kind anatomy.SystemKind, bus *events.Bus, ledger *vitals.Ledger) baseSystem {
	g := anatomy.GraphFor(kind)
	return baseSystem{
		kind:   kind,
		graph:  g,
		nodes:  make(map[anatomy.Part]Node),
		order:  g.Parts(),
		bus:    bus,
		ledger: ledger,
	}
}

func (s *baseSystem) Kind() anatomy.SystemKind { return s.kind }
func (s *baseSystem) Graph() *anatomy.Graph    { return s.graph }
func (s *baseSystem) wire(sib *Siblings)       { s.sib = sib }

func (s *baseSystem) Node(part anatomy.Part) (Node, bool) {
	n, ok := s.nodes[part]
	return n, ok
}

// Parts returns the modeled parts in deterministic graph order.
func (s *baseSystem) Parts() []anatomy.Part {
	out := make([]anatomy.Part, 0, len(s.nodes))
	for _, part := range s.order {
		if _, ok := s.nodes[part]; ok {
			out = append(out, part)
		}
	}
	return out
}

func (s *baseSystem) addNode(n Node) {
	s.nodes[n.Part()] = n
}

// RemovePart drops the part and everything below it in this system's graph.
func (s *baseSystem) RemovePart(part anatomy.Part) {
	if _, ok := s.nodes[part]; !ok {
		return
	}
	for _, d := range s.graph.Descendants(part) {
		delete(s.nodes, d)
		s.graph.Remove(d)
	}
	delete(s.nodes, part)
	s.graph.Remove(part)
}

// Ingest is the queued delivery default. Skin and nervous override it to
// intercept selected kinds synchronously.
func (s *baseSystem) Ingest(ev events.Event) {
	s.inbox.Push(ev)
}

// Update drains the inbox, dispatches every event, then runs the metabolic
// pass. Events published during the drain (pain from a fracture, infection
// from a wound) land in the next tick.
func (s *baseSystem) Update() {
	for _, ev := range s.inbox.Drain() {
		s.self.HandleMessage(ev)
	}
	s.self.MetabolicUpdate()
}

// MetabolicUpdate is the default pass: for every non-disabled node, settle
// resource needs, deposit production, and regenerate gauges while Healthy.
func (s *baseSystem) MetabolicUpdate() {
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		s.settleNode(n)
	}
}

func (s *baseSystem) settleNode(n Node) {
	bn := n.base()
	if bn.status.Has(vitals.Disabled) {
		return
	}
	if c, ok := n.(resourceConsumer); ok {
		for r, amt := range c.TickNeeds() {
			bn.needs[r] += amt
		}
		bn.lastDeficit = s.ledger.Satisfy(bn.needs)
	}
	if p, ok := n.(resourceProducer); ok {
		p.Produce(s.ledger)
	}
	if bn.status.Has(vitals.Healthy) {
		for _, g := range bn.gauges {
			g.Regenerate()
		}
	}
}

// starve recomputes the node's starvation tier from its latest deficit and
// returns the regen multiplier the tier imposes. Severe starvation also
// decays the given gauge.
func (s *baseSystem) starve(n Node, threshold float64, decayGauge vitals.GaugeKind) float64 {
	bn := n.base()
	cfg := config.Cfg()
	tier := vitals.TierForDeficit(bn.lastDeficit, threshold)
	bn.status = bn.status.SetStarvation(tier)
	switch tier {
	case vitals.StarveMild:
		return cfg.Starvation.MildRegen
	case vitals.StarveMedium:
		return cfg.Starvation.MediumRegen
	case vitals.StarveSevere:
		if g, ok := n.Gauge(decayGauge); ok {
			g.Decrease(cfg.Starvation.SevereDecay)
		}
		return 0
	}
	return 1
}
