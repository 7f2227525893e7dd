// Package scenario plays a YAML-scripted sequence of stimuli against a body.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/body"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// Step is one scripted stimulus, fired when the tick counter reaches At.
type Step struct {
	At     int64  `yaml:"at"`
	Action string `yaml:"action"`
	Part   string `yaml:"part,omitempty"`

	Amount     float64 `yaml:"amount,omitempty"`
	Intensity  float64 `yaml:"intensity,omitempty"`
	Rate       float64 `yaml:"rate,omitempty"`
	Severity   float64 `yaml:"severity,omitempty"`
	GrowthRate float64 `yaml:"growth_rate,omitempty"`
	Potency    float64 `yaml:"potency,omitempty"`
	Multiplier float64 `yaml:"multiplier,omitempty"`

	CuresInfection bool `yaml:"cures_infection,omitempty"`
	CuresToxin     bool `yaml:"cures_toxin,omitempty"`

	// Targeted spread fields, used by the effect action.
	Target          string  `yaml:"target,omitempty"`
	Gauge           string  `yaml:"gauge,omitempty"`
	Falloff         float64 `yaml:"falloff,omitempty"`
	StopsAtDisabled bool    `yaml:"stops_at_disabled,omitempty"`
	Decrease        bool    `yaml:"decrease,omitempty"`
}

// Scenario is an ordered script of steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`

	next int
}

// partActions name the actions that require a part field.
var partActions = map[string]bool{
	"damage":         true,
	"heal":           true,
	"effect":         true,
	"set_bone":       true,
	"bleed":          true,
	"clot":           true,
	"exert":          true,
	"rest":           true,
	"repair_muscle":  true,
	"burn":           true,
	"bandage":        true,
	"remove_bandage": true,
	"infect":         true,
	"poison":         true,
	"cure":           true,
	"sever_nerve":    true,
	"repair_nerve":   true,
	"amputate":       true,
	"boost":          true,
	"fatigue":        true,
}

// systemicActions name the whole-body actions.
var systemicActions = map[string]bool{
	"shock":   true,
	"feed":    true,
	"hydrate": true,
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Steps fire in tick order regardless of file order.
	sort.SliceStable(sc.Steps, func(i, j int) bool {
		return sc.Steps[i].At < sc.Steps[j].At
	})

	return &sc, nil
}

// Validate checks every step names a known action and a valid part.
func (sc *Scenario) Validate() error {
	for i, st := range sc.Steps {
		if st.At < 0 {
			return fmt.Errorf("step %d: negative tick %d", i, st.At)
		}
		switch {
		case partActions[st.Action]:
			if _, ok := anatomy.ParsePart(st.Part); !ok {
				return fmt.Errorf("step %d (%s): unknown part %q", i, st.Action, st.Part)
			}
			if st.Action == "effect" {
				if _, ok := anatomy.ParseSystem(st.Target); !ok {
					return fmt.Errorf("step %d (effect): unknown target system %q", i, st.Target)
				}
				if _, ok := vitals.ParseGauge(st.Gauge); !ok {
					return fmt.Errorf("step %d (effect): unknown gauge %q", i, st.Gauge)
				}
				if st.Falloff < 0 || st.Falloff >= 1 {
					return fmt.Errorf("step %d (effect): falloff %v outside [0,1)", i, st.Falloff)
				}
			}
		case systemicActions[st.Action]:
			if st.Part != "" {
				return fmt.Errorf("step %d (%s): systemic action takes no part", i, st.Action)
			}
		default:
			return fmt.Errorf("step %d: unknown action %q", i, st.Action)
		}
	}
	return nil
}

// Done reports whether all steps have fired.
func (sc *Scenario) Done() bool { return sc.next >= len(sc.Steps) }

// Apply fires every step scheduled at or before tick.
// Returns the steps that fired.
func (sc *Scenario) Apply(tick int64, b *body.Body) []Step {
	var fired []Step
	for sc.next < len(sc.Steps) && sc.Steps[sc.next].At <= tick {
		st := sc.Steps[sc.next]
		sc.next++
		st.fire(b)
		fired = append(fired, st)
	}
	return fired
}

func (st Step) fire(b *body.Body) {
	part, _ := anatomy.ParsePart(st.Part)

	switch st.Action {
	case "damage":
		b.TakeDamage(part, st.Amount)
	case "heal":
		b.Heal(part, st.Amount)
	case "effect":
		target, _ := anatomy.ParseSystem(st.Target)
		gauge, _ := vitals.ParseGauge(st.Gauge)
		b.ApplyEffect(part, target, events.Spread{
			InitialValue:    st.Amount,
			Falloff:         st.Falloff,
			StopsAtDisabled: st.StopsAtDisabled,
			Gauge:           gauge,
			Decrease:        st.Decrease,
		})
	case "set_bone":
		b.SetBone(part)
	case "bleed":
		b.Bleed(part, st.Rate)
	case "clot":
		b.Clot(part)
	case "exert":
		b.Exert(part, st.Intensity)
	case "rest":
		b.Rest(part)
	case "repair_muscle":
		b.RepairMuscle(part)
	case "burn":
		b.Burn(part, st.Intensity)
	case "bandage":
		b.Bandage(part)
	case "remove_bandage":
		b.RemoveBandage(part)
	case "infect":
		b.Infect(part, st.Severity, st.GrowthRate)
	case "poison":
		b.Poison(part, st.Amount)
	case "cure":
		b.Cure(part, st.Potency, st.CuresInfection, st.CuresToxin)
	case "sever_nerve":
		b.SeverNerve(part)
	case "repair_nerve":
		b.RepairNerve(part)
	case "amputate":
		b.Amputate(part)
	case "boost":
		b.MetabolicBoost(part, st.Multiplier)
	case "fatigue":
		b.Fatigue(part, st.Amount)
	case "shock":
		b.Shock(st.Intensity)
	case "feed":
		b.Feed(st.Amount)
	case "hydrate":
		b.Hydrate(st.Amount)
	}
}
