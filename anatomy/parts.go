// Package anatomy defines the body-part vocabulary and the per-system
// connectivity graphs the engine propagates effects over.
package anatomy

// Part identifies one anatomical body part.
type Part uint8

const (
	Head Part = iota
	Neck
	Chest
	Abdomen
	LeftArm
	RightArm
	LeftHand
	RightHand
	LeftLeg
	RightLeg
	LeftFoot
	RightFoot

	partCount
)

var partNames = [partCount]string{
	"head", "neck", "chest", "abdomen",
	"left_arm", "right_arm", "left_hand", "right_hand",
	"left_leg", "right_leg", "left_foot", "right_foot",
}

func (p Part) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return "unknown"
}

// ParsePart resolves a part by its string name.
func ParsePart(name string) (Part, bool) {
	for i, n := range partNames {
		if n == name {
			return Part(i), true
		}
	}
	return 0, false
}

// AllParts returns every part in declaration order.
func AllParts() []Part {
	parts := make([]Part, partCount)
	for i := range parts {
		parts[i] = Part(i)
	}
	return parts
}

// Amputable reports whether a part can be removed from the body.
// The core trunk parts and the head are anatomical roots and cannot be.
func (p Part) Amputable() bool {
	switch p {
	case Head, Neck, Chest, Abdomen:
		return false
	}
	return true
}

// WeightBearing reports whether a part carries load in the kinetic chain.
// Fracture and tear cascades only disable descendants through these.
func (p Part) WeightBearing() bool {
	switch p {
	case Chest, Abdomen, LeftArm, RightArm, LeftLeg, RightLeg:
		return true
	}
	return false
}
