package events

import "sync"

// Inbox is a multi-producer, single-consumer event queue. Push is safe
// from any goroutine, including reentrantly while the owner is draining;
// Drain must only be called by the single owning consumer, once per tick.
//
// There is no backpressure: a drain always empties the queue, so the inbox
// only ever holds one tick's worth of events.
type Inbox struct {
	mu      sync.Mutex
	pending []Event
}

// Push appends an event.
func (in *Inbox) Push(ev Event) {
	in.mu.Lock()
	in.pending = append(in.pending, ev)
	in.mu.Unlock()
}

// Drain returns all pending events in FIFO order and empties the inbox.
// Events pushed during the drain land in the next drain, not this one.
func (in *Inbox) Drain() []Event {
	in.mu.Lock()
	out := in.pending
	in.pending = nil
	in.mu.Unlock()
	return out
}

// Len returns the approximate pending count.
func (in *Inbox) Len() int {
	in.mu.Lock()
	n := len(in.pending)
	in.mu.Unlock()
	return n
}
