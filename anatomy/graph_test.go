package anatomy

import (
	"testing"
)

func TestStandardGraphsValidate(t *testing.T) {
	for _, sys := range AllSystems() {
		t.Run(sys.String(), func(t *testing.T) {
			g := GraphFor(sys)
			if err := g.Validate(); err != nil {
				t.Errorf("graph invalid: %v", err)
			}
		})
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	g := NewGraph(Chest, map[Part][]Part{
		Chest:   {LeftArm},
		LeftArm: {LeftHand},
		// Cycle back to the arm
		LeftHand: {LeftArm},
	})
	if err := g.Validate(); err == nil {
		t.Error("expected cycle error")
	}
}

func TestValidateRejectsEdgeIntoRoot(t *testing.T) {
	g := NewGraph(Chest, map[Part][]Part{
		Chest:   {LeftArm},
		LeftArm: {Chest},
	})
	if err := g.Validate(); err == nil {
		t.Error("expected edge-into-root error")
	}
}

func TestDescendants(t *testing.T) {
	g := SkeletalGraph()

	tests := []struct {
		part Part
		want []Part
	}{
		{LeftArm, []Part{LeftHand}},
		{LeftHand, nil},
		{Abdomen, []Part{LeftLeg, LeftFoot, RightLeg, RightFoot}},
	}

	for _, tt := range tests {
		t.Run(tt.part.String(), func(t *testing.T) {
			got := g.Descendants(tt.part)
			if len(got) != len(tt.want) {
				t.Fatalf("descendants = %v, want %v", got, tt.want)
			}
			seen := make(map[Part]bool)
			for _, p := range got {
				seen[p] = true
			}
			for _, p := range tt.want {
				if !seen[p] {
					t.Errorf("missing descendant %v", p)
				}
			}
		})
	}
}

func TestRemoveDetachesSubtree(t *testing.T) {
	g := SkeletalGraph()
	g.Remove(LeftArm)

	if g.Contains(LeftArm) {
		t.Error("removed part still reachable")
	}
	if g.Contains(LeftHand) {
		t.Error("descendant of removed part still reachable")
	}
	if !g.Contains(RightArm) {
		t.Error("sibling subtree must survive a removal")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("graph invalid after removal: %v", err)
	}
}

func TestMuscularGraphExcludesHead(t *testing.T) {
	g := MuscularGraph()
	if g.Contains(Head) {
		t.Error("head has no skeletal muscle node")
	}
	if !g.Contains(Neck) {
		t.Error("neck should remain in the muscular graph")
	}
}

func TestRespiratoryGraphIsAirwayChain(t *testing.T) {
	g := RespiratoryGraph()
	if g.Root() != Head {
		t.Errorf("root = %v, want head", g.Root())
	}
	parts := g.Parts()
	if len(parts) != 3 {
		t.Fatalf("parts = %v, want head/neck/chest", parts)
	}
}

func TestParsePart(t *testing.T) {
	for _, p := range AllParts() {
		got, ok := ParsePart(p.String())
		if !ok || got != p {
			t.Errorf("ParsePart(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePart("tail"); ok {
		t.Error("unknown name should not parse")
	}
}
