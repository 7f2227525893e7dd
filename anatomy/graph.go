package anatomy

import "fmt"

// Graph is a rooted, acyclic adjacency map from a part to its ordered
// downstream parts. Each physiological system owns its own graph because
// blood flow, nerve routing and skeletal load paths differ.
type Graph struct {
	root     Part
	children map[Part][]Part
}

// NewGraph builds a graph from an adjacency map. The map is used as-is;
// callers must not mutate it afterwards.
func NewGraph(root Part, children map[Part][]Part) *Graph {
	return &Graph{root: root, children: children}
}

// Root returns the anatomical root (heart, brain, spine anchor).
func (g *Graph) Root() Part { return g.root }

// Children returns the ordered downstream parts of p, nil if p is a leaf
// or absent from this graph.
func (g *Graph) Children(p Part) []Part { return g.children[p] }

// Contains reports whether p appears in the graph at all.
func (g *Graph) Contains(p Part) bool {
	if p == g.root {
		return true
	}
	for _, kids := range g.children {
		for _, k := range kids {
			if k == p {
				return true
			}
		}
	}
	return false
}

// Parts returns every part reachable from the root, in DFS order.
func (g *Graph) Parts() []Part {
	var out []Part
	visited := make(map[Part]bool, len(g.children)+1)
	g.walk(g.root, visited, func(p Part) { out = append(out, p) })
	return out
}

// Descendants returns every part strictly below p, in DFS order.
func (g *Graph) Descendants(p Part) []Part {
	var out []Part
	visited := map[Part]bool{p: true}
	for _, child := range g.children[p] {
		g.walk(child, visited, func(q Part) { out = append(out, q) })
	}
	return out
}

func (g *Graph) walk(p Part, visited map[Part]bool, fn func(Part)) {
	if visited[p] {
		return
	}
	visited[p] = true
	fn(p)
	for _, child := range g.children[p] {
		g.walk(child, visited, fn)
	}
}

// Remove deletes p from the graph: its outgoing edges and every incoming
// edge. Descendants become unreachable, which is the point — an amputated
// limb takes its extremities with it.
func (g *Graph) Remove(p Part) {
	delete(g.children, p)
	for parent, kids := range g.children {
		filtered := kids[:0]
		for _, k := range kids {
			if k != p {
				filtered = append(filtered, k)
			}
		}
		g.children[parent] = filtered
	}
}

// Validate checks the structural invariants: the root has no incoming edge,
// traversal terminates (no cycles), and every part mentioned in the
// adjacency is reachable from the root. Misconfiguration fails fast here
// rather than hanging a propagation later.
func (g *Graph) Validate() error {
	for _, kids := range g.children {
		for _, k := range kids {
			if k == g.root {
				return fmt.Errorf("anatomy: root %s has an incoming edge", g.root)
			}
		}
	}

	// Cycle check: DFS with an on-stack set.
	state := make(map[Part]int, len(g.children)) // 0 unseen, 1 on stack, 2 done
	var visit func(Part) error
	visit = func(p Part) error {
		switch state[p] {
		case 1:
			return fmt.Errorf("anatomy: cycle through %s", p)
		case 2:
			return nil
		}
		state[p] = 1
		for _, child := range g.children[p] {
			if err := visit(child); err != nil {
				return err
			}
		}
		state[p] = 2
		return nil
	}
	if err := visit(g.root); err != nil {
		return err
	}

	// Reachability: every part with outgoing edges must have been visited.
	for parent := range g.children {
		if state[parent] != 2 {
			return fmt.Errorf("anatomy: %s is not reachable from root %s", parent, g.root)
		}
	}
	return nil
}

// Trunk-rooted hierarchy shared by the skeletal, muscular, integumentary
// and metabolic systems: chest outward to the head and limbs.
func trunkChildren() map[Part][]Part {
	return map[Part][]Part{
		Chest:   {Neck, Abdomen, LeftArm, RightArm},
		Neck:    {Head},
		Abdomen: {LeftLeg, RightLeg},
		LeftArm: {LeftHand}, RightArm: {RightHand},
		LeftLeg: {LeftFoot}, RightLeg: {RightFoot},
	}
}

// SkeletalGraph roots at the chest and follows the load-bearing hierarchy.
func SkeletalGraph() *Graph { return NewGraph(Chest, trunkChildren()) }

// MuscularGraph mirrors the skeletal hierarchy; parts without modeled
// muscle groups (the head) are excluded.
func MuscularGraph() *Graph {
	children := trunkChildren()
	children[Neck] = nil
	return NewGraph(Chest, children)
}

// CirculatoryGraph roots at the chest (heart) and follows the arteries.
func CirculatoryGraph() *Graph { return NewGraph(Chest, trunkChildren()) }

// RespiratoryGraph is the airway: head (mouth/nose) through the neck
// (trachea) into the chest (lungs).
func RespiratoryGraph() *Graph {
	return NewGraph(Head, map[Part][]Part{
		Head: {Neck},
		Neck: {Chest},
	})
}

// NervousGraph roots at the head (brain) and runs down the spine before
// branching to the limbs.
func NervousGraph() *Graph {
	return NewGraph(Head, map[Part][]Part{
		Head:    {Neck},
		Neck:    {Chest},
		Chest:   {Abdomen, LeftArm, RightArm},
		Abdomen: {LeftLeg, RightLeg},
		LeftArm: {LeftHand}, RightArm: {RightHand},
		LeftLeg: {LeftFoot}, RightLeg: {RightFoot},
	})
}

// IntegumentaryGraph is skin adjacency, trunk-rooted.
func IntegumentaryGraph() *Graph { return NewGraph(Chest, trunkChildren()) }

// ImmuneGraph follows circulation, which is how infections travel.
func ImmuneGraph() *Graph { return NewGraph(Chest, trunkChildren()) }

// MetabolicGraph is trunk-rooted like the tissues it heats and feeds.
func MetabolicGraph() *Graph { return NewGraph(Chest, trunkChildren()) }
