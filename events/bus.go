package events

import "sync"

// Listener receives events for the kinds it subscribed to.
//
// Ingest is the delivery point for queued publishes: the default
// implementation appends to an inbox for later draining, but a listener may
// decide per event to handle it synchronously instead (skin intercepts
// damage before the event counts as delivered). HandleMessage is the
// synchronous path used by immediate publishes and by drains.
type Listener interface {
	Ingest(Event)
	HandleMessage(Event)
}

// Bus is a kind-keyed publish/subscribe router. Subscription order is the
// only ordering guarantee between listeners of the same kind.
type Bus struct {
	listeners map[Kind][]Listener
	callbacks *callbackRegistry
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Kind][]Listener),
		callbacks: newCallbackRegistry(),
	}
}

// Subscribe registers the listener for a kind. Duplicate subscriptions
// deliver duplicate events; callers keep themselves honest.
func (b *Bus) Subscribe(kind Kind, l Listener) {
	b.listeners[kind] = append(b.listeners[kind], l)
}

// Unsubscribe removes every registration of the listener for the kind.
func (b *Bus) Unsubscribe(kind Kind, l Listener) {
	subs := b.listeners[kind]
	filtered := subs[:0]
	for _, s := range subs {
		if s != l {
			filtered = append(filtered, s)
		}
	}
	b.listeners[kind] = filtered
}

// Publish delivers the event to each subscribed listener's ingestion
// point. Safe to call from any goroutine, including from inside a
// listener's own handler; queuing is the listener's responsibility and
// listener inboxes are concurrent-append-safe.
func (b *Bus) Publish(ev Event) {
	for _, l := range b.listeners[ev.Kind] {
		l.Ingest(ev)
	}
}

// PublishImmediate invokes each subscribed listener's handler
// synchronously, bypassing inboxes. Used only where same-tick visibility
// is mandatory (shock, skin interception).
func (b *Bus) PublishImmediate(ev Event) {
	for _, l := range b.listeners[ev.Kind] {
		l.HandleMessage(ev)
	}
}

// Subscribers returns how many listeners are registered for the kind.
func (b *Bus) Subscribers(kind Kind) int { return len(b.listeners[kind]) }

// HasListener reports whether the listener holds at least one
// subscription. Startup validation uses it to catch unwired systems.
func (b *Bus) HasListener(l Listener) bool {
	for _, subs := range b.listeners {
		for _, s := range subs {
			if s == l {
				return true
			}
		}
	}
	return false
}

// Register adds a one-shot callback and returns its token.
func (b *Bus) Register(fn func(Event)) Token { return b.callbacks.register(fn) }

// Invoke runs the callback for the token and forgets it. Unknown or
// already-invoked tokens are no-ops; the return reports whether a callback
// ran.
func (b *Bus) Invoke(token Token, ev Event) bool { return b.callbacks.invoke(token, ev) }

// Token identifies a registered one-shot callback.
type Token uint64

// callbackRegistry is an auxiliary one-shot callback table. Callbacks are
// invoked at most once and removed on invocation.
type callbackRegistry struct {
	mu   sync.Mutex
	next Token
	fns  map[Token]func(Event)
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{fns: make(map[Token]func(Event))}
}

func (r *callbackRegistry) register(fn func(Event)) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.fns[r.next] = fn
	return r.next
}

func (r *callbackRegistry) invoke(token Token, ev Event) bool {
	r.mu.Lock()
	fn, ok := r.fns[token]
	if ok {
		delete(r.fns, token)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	fn(ev)
	return true
}
