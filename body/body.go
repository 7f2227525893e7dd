package body

import (
	"fmt"

	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// Body owns the bus, the shared resource pool and the eight systems, and
// drives them in fixed order every tick. Construction is two-phase: all
// systems are built first, then the sibling lookup table is injected; New
// fails fast if any system comes up unwired.
type Body struct {
	bus    *events.Bus
	ledger *vitals.Ledger
	sib    *Siblings

	// Processing order; see anatomy.SystemKind for why it matters.
	systems []System
	byKind  map[anatomy.SystemKind]System

	tick int64
}

// New builds a fully wired body from the loaded configuration.
func New() (*Body, error) {
	cfg := config.Cfg()

	bus := events.NewBus()
	ledger := vitals.NewLedger()
	ledger.Add(vitals.Oxygen, cfg.Resources.Oxygen)
	ledger.Add(vitals.Glucose, cfg.Resources.Glucose)
	ledger.Add(vitals.Water, cfg.Resources.Water)
	ledger.Add(vitals.Blood, cfg.Resources.Blood)
	ledger.Add(vitals.Calcium, cfg.Resources.Calcium)
	ledger.Add(vitals.Energy, cfg.Resources.Energy)

	// Phase one: build every system.
	sib := &Siblings{
		skin:        NewIntegumentarySystem(bus, ledger),
		skeletal:    NewSkeletalSystem(bus, ledger),
		circulatory: NewCirculatorySystem(bus, ledger),
		respiratory: NewRespiratorySystem(bus, ledger),
		muscular:    NewMuscularSystem(bus, ledger),
		immune:      NewImmuneSystem(bus, ledger),
		nervous:     NewNervousSystem(bus, ledger),
		metabolic:   NewMetabolicSystem(bus, ledger),
	}

	b := &Body{
		bus:    bus,
		ledger: ledger,
		sib:    sib,
		systems: []System{
			sib.skin, sib.skeletal, sib.circulatory, sib.respiratory,
			sib.muscular, sib.immune, sib.nervous, sib.metabolic,
		},
		byKind: make(map[anatomy.SystemKind]System),
	}

	// Phase two: inject the sibling table, then validate.
	for _, sys := range b.systems {
		sys.wire(sib)
		b.byKind[sys.Kind()] = sys
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// validate fails fast on misconfiguration: a malformed graph, a system
// with no nodes, or one with no subscriptions would otherwise no-op
// silently forever.
func (b *Body) validate() error {
	catalog := SystemCatalog()
	if len(catalog) != len(b.systems) {
		return fmt.Errorf("body: catalog lists %d systems, %d built", len(catalog), len(b.systems))
	}
	for i, sys := range b.systems {
		if catalog[i].Kind != sys.Kind() {
			return fmt.Errorf("body: catalog order %s != system order %s", catalog[i].Kind, sys.Kind())
		}
	}
	for _, sys := range b.systems {
		if err := sys.Graph().Validate(); err != nil {
			return fmt.Errorf("body: %s: %w", sys.Kind(), err)
		}
		if len(sys.Parts()) == 0 {
			return fmt.Errorf("body: %s has no nodes", sys.Kind())
		}
		if !b.bus.HasListener(sys) {
			return fmt.Errorf("body: %s has no event subscriptions", sys.Kind())
		}
	}
	return nil
}

// Update runs one tick: every system drains its queue, handles its events,
// and settles its metabolism, in fixed order.
func (b *Body) Update() {
	b.tick++
	for _, sys := range b.systems {
		sys.Update()
	}
}

// Tick returns the number of completed ticks.
func (b *Body) Tick() int64 { return b.tick }

// Bus exposes the event bus for hosts that publish their own stimuli.
func (b *Body) Bus() *events.Bus { return b.bus }

// Ledger exposes the shared resource pool read surface.
func (b *Body) Ledger() *vitals.Ledger { return b.ledger }

// GetSystem returns the system of the given kind.
func (b *Body) GetSystem(kind anatomy.SystemKind) System { return b.byKind[kind] }

// Systems returns the systems in processing order.
func (b *Body) Systems() []System { return b.systems }

// Siblings exposes the typed system accessors.
func (b *Body) Siblings() *Siblings { return b.sib }

// --- stimulus surface: each call emits exactly one event ---

// TakeDamage applies a hit to a part. Skin records it synchronously; every
// other interested system picks it up on its next drain.
func (b *Body) TakeDamage(part anatomy.Part, amount float64) {
	b.bus.Publish(events.Event{Kind: events.Damage, Part: part, Amount: amount})
}

// Heal restores health-class gauges at a part.
func (b *Body) Heal(part anatomy.Part, amount float64) {
	b.bus.Publish(events.Event{Kind: events.Heal, Part: part, Amount: amount})
}

// ApplyEffect propagates an attenuating effect through one system's graph.
func (b *Body) ApplyEffect(part anatomy.Part, target anatomy.SystemKind, sp events.Spread) {
	b.bus.Publish(events.Event{Kind: events.Effect, Part: part, Target: target, Spread: sp})
}

// SetBone repairs a fracture. No-op on an unbroken bone.
func (b *Body) SetBone(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.SetBone, Part: part})
}

// Bleed opens or worsens a bleed at a part.
func (b *Body) Bleed(part anatomy.Part, rate float64) {
	b.bus.Publish(events.Event{Kind: events.Bleed, Part: part, Rate: rate})
}

// Clot stops any bleed at a part.
func (b *Body) Clot(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.Clot, Part: part})
}

// Exert works a muscle at the given intensity until it rests.
func (b *Body) Exert(part anatomy.Part, intensity float64) {
	b.bus.Publish(events.Event{Kind: events.Exert, Part: part, Intensity: intensity})
}

// Rest clears a muscle's exertion.
func (b *Body) Rest(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.Rest, Part: part})
}

// RepairMuscle mends a tear. No-op on an intact muscle.
func (b *Body) RepairMuscle(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.RepairMuscle, Part: part})
}

// Burn applies a burn of the given intensity. Skin handles it
// synchronously, like damage.
func (b *Body) Burn(part anatomy.Part, intensity float64) {
	b.bus.Publish(events.Event{Kind: events.Burn, Part: part, Intensity: intensity})
}

// Bandage covers a part: faster integrity regen, no wound seeding.
func (b *Body) Bandage(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.Bandage, Part: part})
}

// RemoveBandage uncovers a part.
func (b *Body) RemoveBandage(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.RemoveBandage, Part: part})
}

// Infect seeds an infection of the given severity and growth rate.
func (b *Body) Infect(part anatomy.Part, severity, growthRate float64) {
	b.bus.Publish(events.Event{Kind: events.Infect, Part: part, Severity: severity, Rate: growthRate})
}

// Poison adds toxin load at a part.
func (b *Body) Poison(part anatomy.Part, amount float64) {
	b.bus.Publish(events.Event{Kind: events.Poison, Part: part, Amount: amount})
}

// Cure reduces infection and/or toxin by the given potency.
func (b *Body) Cure(part anatomy.Part, potency float64, curesInfection, curesToxin bool) {
	b.bus.Publish(events.Event{
		Kind: events.Cure, Part: part, Potency: potency,
		CuresInfection: curesInfection, CuresToxin: curesToxin,
	})
}

// SeverNerve cuts the nerve at a part.
func (b *Body) SeverNerve(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.SeverNerve, Part: part})
}

// RepairNerve reconnects a severed nerve. No-op on an intact nerve.
func (b *Body) RepairNerve(part anatomy.Part) {
	b.bus.Publish(events.Event{Kind: events.RepairNerve, Part: part})
}

// Shock radiates a signal-draining wave from the brain through the whole
// nervous system, synchronously.
func (b *Body) Shock(intensity float64) {
	b.bus.Publish(events.Event{Kind: events.Shock, Intensity: intensity})
}

// Amputate removes a part (and everything below it) from every system on
// the next tick. Anatomical roots cannot be amputated; the call is a no-op.
func (b *Body) Amputate(part anatomy.Part) {
	if !part.Amputable() {
		return
	}
	b.bus.Publish(events.Event{Kind: events.Amputate, Part: part})
}

// Feed adds glucose to the shared pool.
func (b *Body) Feed(amount float64) {
	b.bus.Publish(events.Event{Kind: events.Feed, Amount: amount})
}

// Hydrate adds water to the shared pool.
func (b *Body) Hydrate(amount float64) {
	b.bus.Publish(events.Event{Kind: events.Hydrate, Amount: amount})
}

// MetabolicBoost sets a part's metabolic rate multiplier.
func (b *Body) MetabolicBoost(part anatomy.Part, multiplier float64) {
	b.bus.Publish(events.Event{Kind: events.MetabolicBoost, Part: part, Multiplier: multiplier})
}

// Fatigue adds fatigue at a part.
func (b *Body) Fatigue(part anatomy.Part, amount float64) {
	b.bus.Publish(events.Event{Kind: events.Fatigue, Part: part, Amount: amount})
}

// --- query surface ---

// KineticChain reports whether the load path from the skeletal root to the
// part is intact, with a reason when it is not.
func (b *Body) KineticChain(part anatomy.Part) (bool, string) {
	sk := b.sib.skeletal
	path := chainPath(sk.Graph(), part)
	if path == nil {
		return false, fmt.Sprintf("missing part: %s", part)
	}
	for _, p := range path {
		n, ok := sk.Node(p)
		if !ok {
			return false, fmt.Sprintf("missing part: %s", p)
		}
		if n.(*boneNode).fractured {
			return false, fmt.Sprintf("fractured: %s", p)
		}
		if n.Status().Has(vitals.Disabled) {
			return false, fmt.Sprintf("disabled: %s", p)
		}
	}
	return true, ""
}

// chainPath returns root..part in g, nil if part is unreachable.
func chainPath(g *anatomy.Graph, part anatomy.Part) []anatomy.Part {
	var path []anatomy.Part
	var find func(p anatomy.Part) bool
	find = func(p anatomy.Part) bool {
		path = append(path, p)
		if p == part {
			return true
		}
		for _, c := range g.Children(p) {
			if find(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !find(g.Root()) {
		return nil
	}
	return path
}

// SystemCondition returns the mean primary-gauge fraction across a
// system's nodes, in [0,1].
func (b *Body) SystemCondition(kind anatomy.SystemKind) float64 {
	sys, ok := b.byKind[kind]
	if !ok {
		return 0
	}
	parts := sys.Parts()
	if len(parts) == 0 {
		return 0
	}
	var sum float64
	for _, part := range parts {
		n, _ := sys.Node(part)
		sum += primaryFraction(n)
	}
	return sum / float64(len(parts))
}

// Condition returns the mean condition across all systems.
func (b *Body) Condition() float64 {
	var sum float64
	for _, sys := range b.systems {
		sum += b.SystemCondition(sys.Kind())
	}
	return sum / float64(len(b.systems))
}

// primaryFraction picks the gauge that stands for "how intact is this
// node": health where present, otherwise the first declared gauge.
func primaryFraction(n Node) float64 {
	if g, ok := n.Gauge(vitals.GaugeHealth); ok {
		return g.Fraction()
	}
	if g, ok := n.Gauge(vitals.GaugeIntegrity); ok {
		return g.Fraction()
	}
	if g, ok := n.Gauge(vitals.GaugeFatigue); ok {
		return 1 - g.Fraction()
	}
	gs := n.Gauges()
	if len(gs) == 0 {
		return 0
	}
	return gs[0].Fraction()
}
