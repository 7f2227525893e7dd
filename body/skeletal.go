package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// boneNode tracks one bone: health, fracture state, marrow production.
type boneNode struct {
	baseNode
	fractured bool
	marrow    bool    // long bones and the trunk produce blood
	regenBase float64 // pre-starvation regen rate
}

func (n *boneNode) health() *vitals.Gauge { return n.mustGauge(vitals.GaugeHealth) }
func (n *boneNode) Faulted() bool         { return n.fractured }

// TickNeeds draws calcium for bone maintenance.
func (n *boneNode) TickNeeds() vitals.Needs {
	return vitals.Needs{vitals.Calcium: config.Cfg().Skeletal.CalciumNeed}
}

// Produce deposits marrow blood. Fractured bones never get here: the
// fracture disables the node and the metabolic pass skips it.
func (n *boneNode) Produce(l *vitals.Ledger) {
	if n.marrow {
		l.Add(vitals.Blood, config.Cfg().Skeletal.MarrowBlood)
	}
}

// SkeletalSystem models bone health, fractures and the load-bearing chain.
type SkeletalSystem struct {
	baseSystem
}

// NewSkeletalSystem builds a bone node per part and subscribes.
func NewSkeletalSystem(bus *events.Bus, ledger *vitals.Ledger) *SkeletalSystem {
	s := &SkeletalSystem{baseSystem: newBaseSystem(anatomy.Skeletal, bus, ledger)}
	s.self = s

	cfg := config.Cfg().Skeletal
	for _, part := range s.graph.Parts() {
		s.addNode(&boneNode{
			baseNode: newBaseNode(part,
				vitals.NewGauge(vitals.GaugeHealth, cfg.MaxHealth, cfg.RegenRate)),
			marrow:    part.WeightBearing(),
			regenBase: cfg.RegenRate,
		})
	}

	for _, kind := range []events.Kind{
		events.Damage, events.Heal, events.SetBone, events.Effect, events.Amputate,
	} {
		bus.Subscribe(kind, s)
	}
	return s
}

func (s *SkeletalSystem) HandleMessage(ev events.Event) {
	n, ok := s.nodes[ev.Part]
	if !ok {
		return
	}
	bone := n.(*boneNode)

	switch ev.Kind {
	case events.Damage:
		bone.health().Decrease(ev.Amount)
		if bone.health().Empty() && !bone.fractured {
			s.fracture(bone)
		}
	case events.Heal:
		bone.health().Increase(ev.Amount)
	case events.SetBone:
		s.setBone(bone)
	case events.Effect:
		if ev.Target == s.kind {
			s.applySpread(ev.Part, ev.Spread)
		}
	case events.Amputate:
		s.RemovePart(ev.Part)
	}
}

// fracture disables the bone, halts natural healing and marrow output, and
// takes the weight-bearing chain below it down with it. Pain comes back
// around through the nervous system next tick.
func (s *SkeletalSystem) fracture(bone *boneNode) {
	bone.fractured = true
	bone.disable()
	bone.regenBase = 0
	bone.health().Regen = 0

	if bone.part.WeightBearing() {
		s.disableDescendants(bone.part, nil)
	}

	s.bus.Publish(events.Event{Kind: events.Pain, Part: bone.part, Amount: config.Cfg().Skeletal.FracturePain})
}

// setBone is the repair transition. Healing resumes at a reduced rate (a
// set bone knits slower than untouched bone) and the chain below comes back
// unless something down there has its own fault. Setting an unbroken bone
// is a no-op.
func (s *SkeletalSystem) setBone(bone *boneNode) {
	if !bone.fractured {
		return
	}
	bone.fractured = false
	bone.enable(bone)
	bone.regenBase = config.Cfg().Skeletal.SetBoneRegen
	bone.health().Regen = bone.regenBase

	s.enableDescendants(bone.part)
}

// MetabolicUpdate recomputes starvation tiers before the default pass so
// the tick's regen uses the tick's tier.
func (s *SkeletalSystem) MetabolicUpdate() {
	threshold := config.Cfg().Derived.SkeletalStarve
	for _, part := range s.order {
		n, ok := s.nodes[part]
		if !ok {
			continue
		}
		bone := n.(*boneNode)
		if bone.status.Has(vitals.Disabled) {
			continue
		}
		factor := s.starve(bone, threshold, vitals.GaugeHealth)
		bone.health().Regen = bone.regenBase * factor
	}
	s.baseSystem.MetabolicUpdate()
}

// Fractured returns the parts with unset fractures, in graph order.
func (s *SkeletalSystem) Fractured() []anatomy.Part {
	var out []anatomy.Part
	for _, part := range s.Parts() {
		if s.nodes[part].(*boneNode).fractured {
			out = append(out, part)
		}
	}
	return out
}

// HealthAt returns bone health at a part, 0 if absent.
func (s *SkeletalSystem) HealthAt(part anatomy.Part) float64 {
	if n, ok := s.nodes[part]; ok {
		return n.(*boneNode).health().Current()
	}
	return 0
}

// IsFractured reports an unset fracture at the part.
func (s *SkeletalSystem) IsFractured(part anatomy.Part) bool {
	if n, ok := s.nodes[part]; ok {
		return n.(*boneNode).fractured
	}
	return false
}
