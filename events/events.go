// Package events routes stimuli between the body surface and the
// physiological systems. Delivery is either queued (drained once per tick)
// or immediate (handled synchronously at publish time).
package events

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/vitals"
)

// Kind is the closed set of event kinds. Systems dispatch on it with a
// switch and ignore kinds they do not handle.
type Kind uint8

const (
	Damage Kind = iota
	Heal
	Effect
	SetBone
	Bleed
	Clot
	Exert
	Rest
	RepairMuscle
	Burn
	Bandage
	RemoveBandage
	Infect
	Poison
	Cure
	SeverNerve
	RepairNerve
	Shock
	Amputate
	Feed
	Hydrate
	MetabolicBoost
	Fatigue
	Pain

	kindCount
)

var kindNames = [kindCount]string{
	"damage", "heal", "effect", "set_bone", "bleed", "clot", "exert",
	"rest", "repair_muscle", "burn", "bandage", "remove_bandage", "infect",
	"poison", "cure", "sever_nerve", "repair_nerve", "shock", "amputate",
	"feed", "hydrate", "metabolic_boost", "fatigue", "pain",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Spread describes an attenuating effect to propagate along a system's
// connectivity graph.
type Spread struct {
	InitialValue    float64
	Falloff         float64 // fraction lost per hop, in [0,1)
	StopsAtDisabled bool
	Gauge           vitals.GaugeKind
	Decrease        bool // false = increase the target gauge
}

// Event is an immutable stimulus. Which fields are meaningful depends on
// the kind; unused fields stay zero.
type Event struct {
	Kind Kind
	Part anatomy.Part

	// Target selects which system applies a Spread for Effect events.
	Target anatomy.SystemKind

	Amount     float64 // damage, heal, poison, feed, hydrate, fatigue, pain
	Intensity  float64 // exertion, burn, shock
	Rate       float64 // bleed rate, infection growth
	Severity   float64 // infection severity
	Potency    float64 // cure strength
	Multiplier float64 // metabolic boost

	CuresInfection bool
	CuresToxin     bool

	Spread Spread // payload for Effect events
}
