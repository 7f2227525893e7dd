package anatomy

// SystemKind identifies one physiological system. The declaration order is
// the processing order of a tick: skin first by anatomical convention, then
// inward. Later systems read earlier systems' just-updated state within the
// same tick; earlier systems see prior-tick state from later ones. That
// one-tick staleness window is part of the contract, not an accident.
type SystemKind uint8

const (
	Integumentary SystemKind = iota
	Skeletal
	Circulatory
	Respiratory
	Muscular
	Immune
	Nervous
	Metabolic

	systemCount
)

var systemNames = [systemCount]string{
	"integumentary", "skeletal", "circulatory", "respiratory",
	"muscular", "immune", "nervous", "metabolic",
}

func (k SystemKind) String() string {
	if int(k) < len(systemNames) {
		return systemNames[k]
	}
	return "unknown"
}

// ParseSystem maps a system name back to its kind.
func ParseSystem(name string) (SystemKind, bool) {
	for i, n := range systemNames {
		if n == name {
			return SystemKind(i), true
		}
	}
	return 0, false
}

// AllSystems returns every system kind in processing order.
func AllSystems() []SystemKind {
	out := make([]SystemKind, systemCount)
	for i := range out {
		out[i] = SystemKind(i)
	}
	return out
}

// GraphFor returns a fresh connectivity graph for the system kind.
func GraphFor(k SystemKind) *Graph {
	switch k {
	case Integumentary:
		return IntegumentaryGraph()
	case Skeletal:
		return SkeletalGraph()
	case Circulatory:
		return CirculatoryGraph()
	case Respiratory:
		return RespiratoryGraph()
	case Muscular:
		return MuscularGraph()
	case Immune:
		return ImmuneGraph()
	case Nervous:
		return NervousGraph()
	case Metabolic:
		return MetabolicGraph()
	}
	return nil
}
