package vitals

// Resource identifies one kind of shared physiological resource.
type Resource uint8

const (
	Oxygen Resource = iota
	Glucose
	Water
	Blood
	Calcium
	Energy
	CO2

	resourceCount
)

var resourceNames = [resourceCount]string{
	"oxygen", "glucose", "water", "blood", "calcium", "energy", "co2",
}

func (r Resource) String() string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "unknown"
}

// AllResources returns every resource kind in declaration order.
func AllResources() []Resource {
	out := make([]Resource, resourceCount)
	for i := range out {
		out[i] = Resource(i)
	}
	return out
}

// Needs maps resource kinds to requested amounts. Satisfy mutates a Needs
// in place, leaving the unmet remainder so the owner can retry next tick.
type Needs map[Resource]float64

// Total sums the outstanding amounts.
func (n Needs) Total() float64 {
	var t float64
	for _, v := range n {
		t += v
	}
	return t
}

// Ledger is the shared pool every system draws on and deposits into each
// tick. It has no locking; the fixed sequential system order is the only
// isolation, which holds as long as Body.Update stays single-threaded.
type Ledger struct {
	pool map[Resource]float64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{pool: make(map[Resource]float64, resourceCount)}
}

// Add deposits amount of the resource. There is no cap.
func (l *Ledger) Add(r Resource, amount float64) {
	if amount <= 0 {
		return
	}
	l.pool[r] += amount
}

// Remove withdraws up to amount, flooring at zero. Returns what was
// actually withdrawn.
func (l *Ledger) Remove(r Resource, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	have := l.pool[r]
	if amount >= have {
		l.pool[r] = 0
		return have
	}
	l.pool[r] = have - amount
	return amount
}

// Get returns the current amount, zero if the kind was never touched.
func (l *Ledger) Get(r Resource) float64 { return l.pool[r] }

// Satisfy subtracts as much of each need as the pool can cover, reducing
// the needs map in place to its unmet remainder. The returned deficit is
// the total that went unmet this call; it feeds the starvation tiers.
func (l *Ledger) Satisfy(needs Needs) float64 {
	var deficit float64
	for r, want := range needs {
		got := l.Remove(r, want)
		remaining := want - got
		if remaining <= 0 {
			delete(needs, r)
			continue
		}
		needs[r] = remaining
		deficit += remaining
	}
	return deficit
}
