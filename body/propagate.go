package body

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

// spreadHandler is invoked once per visited node with the attenuated value.
type spreadHandler func(Node, float64)

// propagate walks the system's graph depth-first from start, applying the
// handler with a value that decays by the spread's falloff per hop. If the
// spread stops at disabled nodes, a disabled node still receives the effect
// but its descendants do not.
//
// The visited set is local to the call: several propagations can be in
// flight for different stimuli within one tick without interfering.
func (s *baseSystem) propagate(start anatomy.Part, sp events.Spread, handler spreadHandler) {
	visited := make(map[anatomy.Part]bool)
	s.propagateFrom(start, sp.InitialValue, sp, handler, visited)
}

func (s *baseSystem) propagateFrom(part anatomy.Part, value float64, sp events.Spread, handler spreadHandler, visited map[anatomy.Part]bool) {
	if visited[part] {
		return
	}
	visited[part] = true

	n, ok := s.nodes[part]
	if !ok {
		// Part not modeled by this system; the chain ends here.
		return
	}
	handler(n, value)

	if sp.StopsAtDisabled && n.Status().Has(vitals.Disabled) {
		return
	}
	child := value * (1 - sp.Falloff)
	for _, c := range s.graph.Children(part) {
		s.propagateFrom(c, child, sp, handler, visited)
	}
}

// applySpread runs a propagation that mutates the spread's target gauge.
func (s *baseSystem) applySpread(start anatomy.Part, sp events.Spread) {
	s.propagate(start, sp, func(n Node, v float64) {
		g, ok := n.Gauge(sp.Gauge)
		if !ok {
			return
		}
		if sp.Decrease {
			g.Decrease(v)
		} else {
			g.Increase(v)
		}
	})
}

// disableDescendants cascades Disabled onto descendants of part for which
// keep returns true. A nil keep disables everything below.
func (s *baseSystem) disableDescendants(part anatomy.Part, keep func(anatomy.Part) bool) {
	for _, d := range s.graph.Descendants(part) {
		if keep != nil && !keep(d) {
			continue
		}
		if n, ok := s.nodes[d]; ok {
			n.base().disable()
		}
	}
}

// enableDescendants clears Disabled below part, stopping at nodes with
// their own unresolved fault: setting a bone must not re-enable a
// separately torn muscle, nor anything below it.
func (s *baseSystem) enableDescendants(part anatomy.Part) {
	visited := map[anatomy.Part]bool{part: true}
	var walk func(anatomy.Part)
	walk = func(p anatomy.Part) {
		if visited[p] {
			return
		}
		visited[p] = true
		n, ok := s.nodes[p]
		if ok {
			if n.Faulted() {
				// The fault keeps its own subtree disabled.
				return
			}
			n.base().enable(n)
		}
		for _, c := range s.graph.Children(p) {
			walk(c)
		}
	}
	for _, c := range s.graph.Children(part) {
		walk(c)
	}
}
