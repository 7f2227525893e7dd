package vitals

import "strings"

// Status is the bit-set of node conditions. Flags combine freely; the
// starvation tiers are kept mutually exclusive by SetStarvation, not by
// the representation.
type Status uint16

const (
	Healthy Status = 1 << iota
	Disabled
	Tired
	StarvingMild
	StarvingMedium
	StarvingSevere
	ConnectedToRoot
)

const starvingMask = StarvingMild | StarvingMedium | StarvingSevere

// Has reports whether every flag in mask is set.
func (s Status) Has(mask Status) bool { return s&mask == mask }

// With returns s with the flags in mask set.
func (s Status) With(mask Status) Status { return s | mask }

// Without returns s with the flags in mask cleared.
func (s Status) Without(mask Status) Status { return s &^ mask }

// StarvationTier classifies unmet need against a threshold. Exactly one
// tier (or none) results; tiers are monotonic in the deficit.
type StarvationTier uint8

const (
	StarveNone StarvationTier = iota
	StarveMild
	StarveMedium
	StarveSevere
)

// TierForDeficit maps a per-tick deficit to a tier given a base threshold.
func TierForDeficit(deficit, threshold float64) StarvationTier {
	switch {
	case deficit > 3*threshold:
		return StarveSevere
	case deficit > 2*threshold:
		return StarveMedium
	case deficit > threshold:
		return StarveMild
	}
	return StarveNone
}

// SetStarvation clears all three starvation bits and sets the one matching
// the tier. This is the only writer of the starvation bits.
func (s Status) SetStarvation(tier StarvationTier) Status {
	s = s.Without(starvingMask)
	switch tier {
	case StarveMild:
		s = s.With(StarvingMild)
	case StarveMedium:
		s = s.With(StarvingMedium)
	case StarveSevere:
		s = s.With(StarvingSevere)
	}
	return s
}

// Starvation returns the current tier encoded in the bits.
func (s Status) Starvation() StarvationTier {
	switch {
	case s.Has(StarvingSevere):
		return StarveSevere
	case s.Has(StarvingMedium):
		return StarveMedium
	case s.Has(StarvingMild):
		return StarveMild
	}
	return StarveNone
}

func (s Status) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		bit  Status
		name string
	}{
		{Healthy, "healthy"}, {Disabled, "disabled"}, {Tired, "tired"},
		{StarvingMild, "starving_mild"}, {StarvingMedium, "starving_medium"},
		{StarvingSevere, "starving_severe"}, {ConnectedToRoot, "connected"},
	}
	var parts []string
	for _, n := range names {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
